package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hakivo/podcastd/internal/model"
)

// Voice IDs for the two podcast speakers
const (
	DefaultHostVoice    = "21m00Tcm4TlvDq8ikWAM"
	DefaultAnalystVoice = "pNInz6obpgDQGcFmaJgB"
)

// MP3Bitrate is the fixed encoding bitrate assumed when estimating audio
// duration from buffer size. The vendor does not report duration, so this
// approximation stands in for decoding the audio.
const MP3Bitrate = 128_000 // bits per second

// EstimateDuration returns the approximate playback length in seconds of
// an MP3 buffer at the fixed bitrate.
func EstimateDuration(sizeBytes int) int {
	return sizeBytes * 8 / MP3Bitrate
}

// Client synthesizes dialogue audio via a text-to-speech vendor
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	hostVoice    string
	analystVoice string
}

// NewClient creates a TTS client with the default voices
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		hostVoice:    DefaultHostVoice,
		analystVoice: DefaultAnalystVoice,
	}
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize renders the full dialogue as one MP3 buffer, calling the
// vendor once per line and concatenating the segments. MP3 frames are
// self-contained, so concatenation plays back correctly.
func (c *Client) Synthesize(ctx context.Context, script *model.DialogueScript) ([]byte, error) {
	var audio bytes.Buffer

	for i, line := range script.Lines {
		voice := c.hostVoice
		if line.Speaker == "analyst" {
			voice = c.analystVoice
		}

		segment, err := c.synthesizeLine(ctx, voice, line.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize line %d: %w", i, err)
		}
		audio.Write(segment)
	}

	slog.Debug("Synthesized dialogue audio",
		"lines", len(script.Lines),
		"size_bytes", audio.Len(),
	)

	return audio.Bytes(), nil
}

func (c *Client) synthesizeLine(ctx context.Context, voiceID, text string) ([]byte, error) {
	reqBody, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: "eleven_turbo_v2",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("TTS API returned status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
