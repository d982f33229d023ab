package clock

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backoff yields doubling delays from floor up to ceiling. It never gives up.
// Not safe for concurrent use.
type Backoff struct {
	exp *backoff.ExponentialBackOff
}

// NewBackoff builds a Backoff without jitter so delays are predictable.
func NewBackoff(floor, ceiling time.Duration) *Backoff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = floor
	exp.MaxInterval = ceiling
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()
	return &Backoff{exp: exp}
}

// Next returns the delay to wait before the next attempt.
func (b *Backoff) Next() time.Duration {
	return b.exp.NextBackOff()
}

// Reset restarts the sequence from floor.
func (b *Backoff) Reset() {
	b.exp.Reset()
}
