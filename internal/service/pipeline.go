package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hakivo/podcastd/internal/model"
	"github.com/hakivo/podcastd/internal/queue"
	"github.com/hakivo/podcastd/internal/status"
)

// BillSource fetches congressional bills for brief episodes
type BillSource interface {
	RecentBills(ctx context.Context, limit int) ([]model.Bill, error)
}

// NewsSource fetches news items for news-audio episodes
type NewsSource interface {
	Search(ctx context.Context, topics []string, limit int) ([]model.NewsItem, error)
}

// ScriptGenerator produces a dialogue script covering the source items
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, kind model.JobKind, items []model.SourceItem) (*model.DialogueScript, error)
}

// SpeechSynthesizer renders a dialogue script as MP3 audio
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, script *model.DialogueScript) ([]byte, error)
}

// AudioStore uploads an audio buffer and returns its durable URL
type AudioStore interface {
	Upload(ctx context.Context, key string, audio []byte, contentType string) (string, error)
}

// EpisodeStore persists episode metadata
type EpisodeStore interface {
	Create(ctx context.Context, episode *model.Episode) error
}

// DurationEstimator computes playback seconds from an audio buffer size
type DurationEstimator func(sizeBytes int) int

// Processor executes the five-stage generation pipeline for one job at a
// time: fetch sources, generate script, synthesize audio, upload, persist
// metadata. Stages are strictly sequential; a retried attempt re-executes
// all of them from the beginning.
type Processor struct {
	bills    BillSource
	news     NewsSource
	scripts  ScriptGenerator
	speech   SpeechSynthesizer
	audio    AudioStore
	episodes EpisodeStore
	statuses status.Store
	jobs     queue.Queue
	retry    *RetryStrategy
	estimate DurationEstimator
}

// NewProcessor creates a pipeline processor
func NewProcessor(
	bills BillSource,
	news NewsSource,
	scripts ScriptGenerator,
	speech SpeechSynthesizer,
	audio AudioStore,
	episodes EpisodeStore,
	statuses status.Store,
	jobs queue.Queue,
	retry *RetryStrategy,
	estimate DurationEstimator,
) *Processor {
	return &Processor{
		bills:    bills,
		news:     news,
		scripts:  scripts,
		speech:   speech,
		audio:    audio,
		episodes: episodes,
		statuses: statuses,
		jobs:     jobs,
		retry:    retry,
		estimate: estimate,
	}
}

// Process runs one attempt of a job's pipeline. Errors are caught here,
// written into the status slot, and the job is re-enqueued with a backoff
// delay while the attempt budget lasts.
func (p *Processor) Process(ctx context.Context, job *model.Job) error {
	slog.Info("Processing podcast job",
		"job_id", job.ID,
		"user_id", job.UserID,
		"kind", job.Kind,
		"attempt", job.Attempt,
	)

	start := time.Now()
	err := p.runPipeline(ctx, job)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Podcast job attempt failed",
			"job_id", job.ID,
			"user_id", job.UserID,
			"attempt", job.Attempt,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		p.handleFailure(ctx, job, err)
		return err
	}

	slog.Info("Podcast job completed",
		"job_id", job.ID,
		"user_id", job.UserID,
		"attempt", job.Attempt,
		"duration_ms", duration.Milliseconds(),
	)
	return nil
}

func (p *Processor) runPipeline(ctx context.Context, job *model.Job) error {
	// Fresh attempts reset progress to zero; there is no checkpoint
	// resumption.
	if err := p.updateStatus(ctx, job, model.StateProcessing, model.ProgressQueued, "Starting podcast generation"); err != nil {
		return err
	}

	// Stage 1: fetch source material
	items, err := p.fetchSources(ctx, job)
	if err != nil {
		return err
	}
	if err := p.updateStatus(ctx, job, model.StateProcessing, model.ProgressFetched, "Fetching source material complete"); err != nil {
		return err
	}

	// Stage 2: generate dialogue script
	script, err := p.scripts.GenerateScript(ctx, job.Kind, items)
	if err != nil {
		return fmt.Errorf("script generation failed: %w", err)
	}
	if err := p.updateStatus(ctx, job, model.StateProcessing, model.ProgressScripted, "Generating dialogue script complete"); err != nil {
		return err
	}

	// Stage 3: synthesize audio
	audio, err := p.speech.Synthesize(ctx, script)
	if err != nil {
		return fmt.Errorf("audio synthesis failed: %w", err)
	}
	durationSec := p.estimate(len(audio))
	if err := p.updateStatus(ctx, job, model.StateProcessing, model.ProgressSynthesized, "Synthesizing audio complete"); err != nil {
		return err
	}

	// Stage 4: upload to object storage
	key := fmt.Sprintf("podcasts/%s/%s.mp3", job.UserID, job.ID)
	audioURL, err := p.audio.Upload(ctx, key, audio, "audio/mpeg")
	if err != nil {
		return fmt.Errorf("audio upload failed: %w", err)
	}
	if err := p.updateStatus(ctx, job, model.StateProcessing, model.ProgressUploaded, "Uploading audio complete"); err != nil {
		return err
	}

	// Stage 5: persist episode metadata
	sourceIDs := make([]string, len(items))
	for i, item := range items {
		sourceIDs[i] = item.ID
	}
	episode := &model.Episode{
		JobID:      job.ID,
		UserID:     job.UserID,
		Kind:       job.Kind,
		Title:      script.Title,
		Transcript: script.Transcript(),
		SourceIDs:  sourceIDs,
		AudioURL:   audioURL,
		Duration:   durationSec,
		SizeBytes:  len(audio),
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.episodes.Create(ctx, episode); err != nil {
		return fmt.Errorf("failed to persist episode: %w", err)
	}

	final := model.JobStatus{
		JobID:     job.ID,
		UserID:    job.UserID,
		State:     model.StateComplete,
		Progress:  model.ProgressComplete,
		Message:   "Podcast ready",
		Attempt:   job.Attempt,
		AudioURL:  audioURL,
		Duration:  durationSec,
		SourceIDs: sourceIDs,
	}
	if err := p.statuses.Put(ctx, final); err != nil {
		return fmt.Errorf("failed to write final status: %w", err)
	}

	return nil
}

// fetchSources fetches bills or news items depending on the job kind.
// Zero items is fatal for the attempt.
func (p *Processor) fetchSources(ctx context.Context, job *model.Job) ([]model.SourceItem, error) {
	switch job.Kind {
	case model.KindNewsAudio:
		news, err := p.news.Search(ctx, job.Params.Topics, job.Params.BillCount)
		if err != nil {
			return nil, fmt.Errorf("news fetch failed: %w", err)
		}
		if len(news) == 0 {
			return nil, &SourceEmptyError{Message: "No news available for podcast generation"}
		}
		items := make([]model.SourceItem, len(news))
		for i, n := range news {
			items[i] = model.FromNewsItem(n)
		}
		return items, nil

	default:
		bills, err := p.bills.RecentBills(ctx, job.Params.BillCount)
		if err != nil {
			return nil, fmt.Errorf("bill fetch failed: %w", err)
		}
		if len(bills) == 0 {
			return nil, &SourceEmptyError{Message: "No bills available for podcast generation"}
		}
		items := make([]model.SourceItem, len(bills))
		for i, b := range bills {
			items[i] = model.FromBill(b)
		}
		return items, nil
	}
}

func (p *Processor) updateStatus(ctx context.Context, job *model.Job, state model.JobState, progress int, message string) error {
	st := model.JobStatus{
		JobID:    job.ID,
		UserID:   job.UserID,
		State:    state,
		Progress: progress,
		Message:  message,
		Attempt:  job.Attempt,
	}
	if err := p.statuses.Put(ctx, st); err != nil {
		if errors.Is(err, status.ErrStaleAttempt) {
			// A newer attempt owns the slot; this one stops writing.
			return fmt.Errorf("attempt superseded: %w", err)
		}
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// handleFailure records the failed attempt and schedules a retry while
// the budget lasts. The retried job carries the incremented attempt count
// in its payload.
func (p *Processor) handleFailure(ctx context.Context, job *model.Job, jobErr error) {
	if errors.Is(jobErr, status.ErrStaleAttempt) {
		// A newer attempt owns the status slot. Retrying here would race
		// it, so this attempt just stops.
		slog.Warn("Dropping superseded attempt", "job_id", job.ID, "attempt", job.Attempt)
		return
	}

	errMsg := jobErr.Error()

	if p.retry.ShouldRetry(job.Attempt, jobErr) {
		next := *job
		next.Attempt = job.Attempt + 1
		delay := p.retry.CalculateDelay(job.Attempt)

		st := model.JobStatus{
			JobID:    job.ID,
			UserID:   job.UserID,
			State:    model.StateQueued,
			Progress: model.ProgressQueued,
			Message:  fmt.Sprintf("Retrying (attempt %d of %d)", next.Attempt, p.retry.GetMaxAttempts()),
			Attempt:  next.Attempt,
			Error:    errMsg,
		}
		if err := p.statuses.Put(ctx, st); err != nil {
			slog.Error("Failed to write retry status", "job_id", job.ID, "error", err)
		}

		if err := p.jobs.EnqueueDelayed(ctx, next, delay); err != nil {
			slog.Error("Failed to re-enqueue job for retry",
				"job_id", job.ID,
				"attempt", next.Attempt,
				"error", err,
			)
			p.markFailed(ctx, job, errMsg)
			return
		}

		slog.Warn("Job attempt failed, retry scheduled",
			"job_id", job.ID,
			"attempt", job.Attempt,
			"next_attempt", next.Attempt,
			"delay_ms", delay.Milliseconds(),
		)
		return
	}

	p.markFailed(ctx, job, errMsg)
}

func (p *Processor) markFailed(ctx context.Context, job *model.Job, errMsg string) {
	st := model.JobStatus{
		JobID:    job.ID,
		UserID:   job.UserID,
		State:    model.StateFailed,
		Progress: model.ProgressQueued,
		Message:  "Podcast generation failed",
		Attempt:  job.Attempt,
		Error:    errMsg,
	}
	if err := p.statuses.Put(ctx, st); err != nil {
		slog.Error("Failed to write terminal status", "job_id", job.ID, "error", err)
	}
}
