package scheduler

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/hakivo/podcastd/internal/config"
	"github.com/hakivo/podcastd/internal/database"
	"github.com/hakivo/podcastd/internal/model"
	"github.com/hakivo/podcastd/internal/service"
)

// Scheduler enqueues daily and weekly brief jobs for subscribed users on
// their cron schedules, with distributed locking so multiple pods don't
// enqueue the same subscription twice.
type Scheduler struct {
	cfg       *config.Config
	submitter *service.Submitter
	lockRepo  *database.LockRepository
	subRepo   *database.SubscriptionRepository
	podID     string
	ticker    *time.Ticker
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewScheduler creates a scheduler instance
func NewScheduler(
	cfg *config.Config,
	submitter *service.Submitter,
	lockRepo *database.LockRepository,
	subRepo *database.SubscriptionRepository,
) *Scheduler {
	// Pod identifier (hostname in Kubernetes)
	podID, err := os.Hostname()
	if err != nil {
		podID = uuid.New().String()
		slog.Warn("Failed to get hostname, using UUID as pod ID", "pod_id", podID)
	}

	return &Scheduler{
		cfg:       cfg,
		submitter: submitter,
		lockRepo:  lockRepo,
		subRepo:   subRepo,
		podID:     podID,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the scheduler tick loop
func (s *Scheduler) Start(ctx context.Context) {
	if !s.cfg.SchedulerEnabled {
		slog.Info("Brief scheduler is disabled by configuration")
		return
	}

	slog.Info("Starting brief scheduler",
		"pod_id", s.podID,
		"tick_interval", s.cfg.SchedulerTickInterval,
		"lock_ttl", s.cfg.SchedulerLockTTL,
	)

	s.ticker = time.NewTicker(s.cfg.SchedulerTickInterval)
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.cfg.SchedulerEnabled {
		return
	}

	slog.Info("Stopping brief scheduler", "pod_id", s.podID)

	close(s.stopChan)
	if s.ticker != nil {
		s.ticker.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("Timeout waiting for scheduler tick to complete")
	}

	if err := s.lockRepo.ReleaseAllLocks(context.Background(), s.podID); err != nil {
		slog.Error("Failed to release locks during shutdown", "error", err)
	}

	slog.Info("Brief scheduler stopped", "pod_id", s.podID)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	s.tick(ctx)

	for {
		select {
		case <-s.ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// tick enqueues one brief job per due subscription
func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now().UTC()

	if cleaned, err := s.lockRepo.CleanExpiredLocks(ctx); err != nil {
		slog.Error("Failed to clean expired locks", "error", err)
	} else if cleaned > 0 {
		slog.Info("Cleaned expired locks", "count", cleaned)
	}

	subs, err := s.subRepo.FindDue(ctx, now)
	if err != nil {
		slog.Error("Failed to find due subscriptions", "error", err)
		return
	}

	if len(subs) == 0 {
		return
	}

	slog.Info("Found due brief subscriptions",
		"pod_id", s.podID,
		"count", len(subs),
	)

	for _, sub := range subs {
		acquired, err := s.lockRepo.AcquireLock(ctx, sub.ID, s.podID, s.cfg.SchedulerLockTTL)
		if err != nil {
			slog.Error("Failed to acquire lock",
				"subscription_id", sub.ID.Hex(),
				"error", err,
			)
			continue
		}
		if !acquired {
			slog.Debug("Lock already held by another pod",
				"subscription_id", sub.ID.Hex(),
			)
			continue
		}

		s.enqueueBrief(ctx, sub, now)
		s.releaseLock(ctx, sub)
	}
}

func (s *Scheduler) enqueueBrief(ctx context.Context, sub model.BriefSubscription, now time.Time) {
	jobID, err := s.submitter.Submit(ctx, service.SubmitRequest{
		UserID:    sub.UserID,
		Kind:      sub.Kind,
		BillCount: sub.BillCount,
		Topics:    sub.Topics,
	})
	if err != nil {
		slog.Error("Failed to enqueue scheduled brief",
			"subscription_id", sub.ID.Hex(),
			"user_id", sub.UserID,
			"kind", sub.Kind,
			"error", err,
		)
		return
	}

	slog.Info("Enqueued scheduled brief",
		"subscription_id", sub.ID.Hex(),
		"user_id", sub.UserID,
		"kind", sub.Kind,
		"job_id", jobID,
	)

	nextRun, err := s.nextRun(sub.Kind, now)
	if err != nil {
		slog.Error("Failed to compute next run",
			"subscription_id", sub.ID.Hex(),
			"error", err,
		)
		return
	}

	if err := s.subRepo.UpdateRunTimes(ctx, sub.ID, now, nextRun); err != nil {
		slog.Error("Failed to update subscription run times",
			"subscription_id", sub.ID.Hex(),
			"error", err,
		)
	}
}

// nextRun computes the subscription's next due time from its kind's cron
// schedule.
func (s *Scheduler) nextRun(kind model.JobKind, now time.Time) (time.Time, error) {
	expr := s.cfg.DailyBriefSchedule
	if kind == model.KindWeeklyBrief {
		expr = s.cfg.WeeklyBriefSchedule
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, err
	}

	return schedule.Next(now), nil
}

func (s *Scheduler) releaseLock(ctx context.Context, sub model.BriefSubscription) {
	if err := s.lockRepo.ReleaseLock(ctx, sub.ID, s.podID); err != nil {
		slog.Error("Failed to release lock",
			"subscription_id", sub.ID.Hex(),
			"pod_id", s.podID,
			"error", err,
		)
	}
}
