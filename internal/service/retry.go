package service

import (
	"errors"
	"math"
	"time"
)

// ErrNoSourceItems is the sentinel matched by errors.Is for fetch stages
// that returned zero items. The attempt fails but the condition may clear
// by the next one.
var ErrNoSourceItems = errors.New("no source items available")

// SourceEmptyError reports that the fetch stage returned zero items. Its
// message is surfaced verbatim to the poller.
type SourceEmptyError struct {
	Message string
}

func (e *SourceEmptyError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrNoSourceItems) match
func (e *SourceEmptyError) Is(target error) bool { return target == ErrNoSourceItems }

// validationError marks input errors that no retry can fix
type validationError struct {
	err error
}

func (e *validationError) Error() string { return e.err.Error() }
func (e *validationError) Unwrap() error { return e.err }

// NewValidationError wraps an input validation failure
func NewValidationError(err error) error {
	return &validationError{err: err}
}

// IsValidationError reports whether err is an input validation failure
func IsValidationError(err error) bool {
	var ve *validationError
	return errors.As(err, &ve)
}

// RetryConfig controls the backoff applied between job attempts
type RetryConfig struct {
	MaxAttempts    int
	InitialDelayMs int
	MaxDelayMs     int
	Multiplier     float64
}

// SetDefaults sets default values for retry configuration
func (rc *RetryConfig) SetDefaults() {
	if rc.MaxAttempts == 0 {
		rc.MaxAttempts = 3
	}
	if rc.InitialDelayMs == 0 {
		rc.InitialDelayMs = 5000
	}
	if rc.MaxDelayMs == 0 {
		rc.MaxDelayMs = 60000
	}
	if rc.Multiplier == 0 {
		rc.Multiplier = 2.0
	}
}

// RetryStrategy decides whether and when a failed attempt is re-enqueued
type RetryStrategy struct {
	config RetryConfig
}

// NewRetryStrategy creates a retry strategy
func NewRetryStrategy(config RetryConfig) *RetryStrategy {
	config.SetDefaults()
	return &RetryStrategy{config: config}
}

// CalculateDelay calculates the delay before the given attempt using
// exponential backoff: delay = min(initial * multiplier^(attempt-1), max).
func (rs *RetryStrategy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delayMs := float64(rs.config.InitialDelayMs) * math.Pow(rs.config.Multiplier, float64(attempt-1))
	if delayMs > float64(rs.config.MaxDelayMs) {
		delayMs = float64(rs.config.MaxDelayMs)
	}

	return time.Duration(delayMs) * time.Millisecond
}

// ShouldRetry determines whether a failed attempt gets another one.
// Validation errors never retry; everything else (empty sources, vendor
// failures, malformed vendor responses) is treated as possibly transient
// until the attempt ceiling.
func (rs *RetryStrategy) ShouldRetry(attempt int, err error) bool {
	if attempt >= rs.config.MaxAttempts {
		return false
	}
	if err == nil {
		return false
	}
	if IsValidationError(err) {
		return false
	}
	return true
}

// GetMaxAttempts returns the attempt ceiling
func (rs *RetryStrategy) GetMaxAttempts() int {
	return rs.config.MaxAttempts
}
