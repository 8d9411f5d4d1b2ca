package repository

import (
	"math"
	"time"
)

// BackoffPolicy spaces out probes of a failed primary store.
type BackoffPolicy struct {
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultBackoff starts at 30s and caps at 10m.
var DefaultBackoff = BackoffPolicy{
	InitialDelay:  30 * time.Second,
	MaxDelay:      10 * time.Minute,
	BackoffFactor: 2,
}

// NextDelay returns the delay before probe number attempt (1-based), clamped
// to MaxDelay.
func (p BackoffPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = time.Second
	}
	if p.BackoffFactor <= 0 {
		p.BackoffFactor = 2
	}

	delay := float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	d := time.Duration(delay)
	if d <= 0 {
		d = time.Second
	}
	return d
}
