package vortex

import (
	"math"
	"time"
)

const (
	defaultBackoffInitialDelay = 1000 * time.Millisecond
	defaultBackoffMaxDelay     = 60 * time.Second
	defaultBackoffMultiplier   = 2.0
	defaultBackoffMaxRetries   = 5
)

// BackoffConfig describes the retry policy applied to failed credential
// renewals. Delays are deterministic (no jitter) so schedules are exactly
// predictable: delay(attempt) = min(InitialDelay * Multiplier^attempt,
// MaxDelay).
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxRetries   int
}

// DefaultBackoffConfig returns the policy used when none is configured:
// 1s initial delay, doubling per attempt, capped at 60s, five attempts.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: defaultBackoffInitialDelay,
		MaxDelay:     defaultBackoffMaxDelay,
		Multiplier:   defaultBackoffMultiplier,
		MaxRetries:   defaultBackoffMaxRetries,
	}
}

// withDefaults fills zero fields only; out-of-range values are left for
// validation to reject.
func (c BackoffConfig) withDefaults() BackoffConfig {
	def := DefaultBackoffConfig()
	if c.InitialDelay == 0 {
		c.InitialDelay = def.InitialDelay
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.Multiplier == 0 {
		c.Multiplier = def.Multiplier
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = def.MaxRetries
	}
	return c
}

// BackoffDecision is the policy's answer for one failed attempt.
type BackoffDecision struct {
	Retry bool
	Delay time.Duration
}

// Decide computes the retry decision for a zero-based attempt count. It is a
// pure function of the attempt and the config. Callers receiving Retry=false
// must treat the failure as terminal: surface it and reset their counter so
// a later manual renewal starts a fresh sequence.
func (c BackoffConfig) Decide(attempt int) BackoffDecision {
	cfg := c.withDefaults()

	if attempt < 0 {
		attempt = 0
	}

	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt)))
	if delay <= 0 || delay > cfg.MaxDelay {
		// <= 0 means the float math overflowed time.Duration.
		delay = cfg.MaxDelay
	}

	return BackoffDecision{
		Retry: attempt < cfg.MaxRetries,
		Delay: delay,
	}
}
