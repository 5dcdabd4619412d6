package endurance

import (
	"context"
	"math/rand"
	"time"
)

// pacer inserts an optional delay between iterations. Jitter keeps paired
// sessions on the same host from synchronizing their pipeline restarts.
type pacer struct {
	delay  time.Duration
	jitter time.Duration
	rng    *rand.Rand
}

func newPacer(delay, jitter time.Duration) *pacer {
	return &pacer{
		delay:  delay,
		jitter: jitter,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// next returns the delay for the upcoming iteration.
func (p *pacer) next() time.Duration {
	d := p.delay
	if p.jitter > 0 {
		d += time.Duration(p.rng.Int63n(int64(p.jitter)))
	}
	return d
}

// pace sleeps for the next delay, honoring cancellation.
func (p *pacer) pace(ctx context.Context) error {
	d := p.next()
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
