package service

import (
	"errors"
	"testing"
	"time"
)

func TestCalculateDelayExponential(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{
		InitialDelayMs: 1000,
		MaxDelayMs:     60000,
		Multiplier:     2.0,
	})

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
	}
	for _, c := range cases {
		if got := rs.CalculateDelay(c.attempt); got != c.want {
			t.Fatalf("delay(%d) = %v, want %v", c.attempt, got, c.want)
		}
	}
}

func TestCalculateDelayCapped(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{
		InitialDelayMs: 1000,
		MaxDelayMs:     5000,
		Multiplier:     10.0,
	})

	if got := rs.CalculateDelay(3); got != 5*time.Second {
		t.Fatalf("delay(3) = %v, want cap at 5s", got)
	}
}

func TestShouldRetry(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{MaxAttempts: 3})
	transient := errors.New("vendor timeout")

	if !rs.ShouldRetry(1, transient) {
		t.Fatal("attempt 1 of 3 should retry")
	}
	if !rs.ShouldRetry(2, transient) {
		t.Fatal("attempt 2 of 3 should retry")
	}
	if rs.ShouldRetry(3, transient) {
		t.Fatal("attempt at ceiling must not retry")
	}
	if rs.ShouldRetry(1, nil) {
		t.Fatal("nil error must not retry")
	}
}

func TestShouldRetryValidationError(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{MaxAttempts: 3})
	err := NewValidationError(errors.New("user ID is required"))

	if rs.ShouldRetry(1, err) {
		t.Fatal("validation errors must never retry")
	}
}

// TestShouldRetryEmptySources checks that an empty fetch is treated as
// transient: the feed may have content by the next attempt.
func TestShouldRetryEmptySources(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{MaxAttempts: 3})
	err := &SourceEmptyError{Message: "No bills available for podcast generation"}

	if !rs.ShouldRetry(1, err) {
		t.Fatal("empty sources should retry below the ceiling")
	}
	if !errors.Is(err, ErrNoSourceItems) {
		t.Fatal("SourceEmptyError must match ErrNoSourceItems")
	}
	if err.Error() != "No bills available for podcast generation" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestRetryConfigDefaults(t *testing.T) {
	var cfg RetryConfig
	cfg.SetDefaults()

	if cfg.MaxAttempts != 3 || cfg.InitialDelayMs != 5000 || cfg.MaxDelayMs != 60000 || cfg.Multiplier != 2.0 {
		t.Fatalf("defaults = %+v", cfg)
	}
}
