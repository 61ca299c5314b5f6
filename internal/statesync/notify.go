package statesync

import (
	"context"
	"time"
)

// Notifier is the cross-process wake-up channel between the turn process
// and the overlay. Signal is fire-and-forget from the producer side; Wait
// blocks the consumer until a signal arrives, the timeout elapses or ctx is
// done, and reports whether it was woken by a signal. The overlay treats a
// timeout as a cue to poll the state files anyway, so a lost signal only
// delays a redraw.
type Notifier interface {
	Signal() error
	Wait(ctx context.Context, timeout time.Duration) bool
	Close() error
}

// ChanNotifier is an in-process Notifier for tests and single-process
// setups. It is level-triggered like the platform event: a Signal before
// Wait still wakes the next Wait.
type ChanNotifier struct {
	ch chan struct{}
}

// NewChanNotifier returns an unsignaled in-process notifier.
func NewChanNotifier() *ChanNotifier {
	return &ChanNotifier{ch: make(chan struct{}, 1)}
}

func (n *ChanNotifier) Signal() error {
	select {
	case n.ch <- struct{}{}:
	default:
	}
	return nil
}

func (n *ChanNotifier) Wait(ctx context.Context, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-n.ch:
		return true
	case <-t.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (n *ChanNotifier) Close() error { return nil }

// pollNotifier is the degraded Notifier used where no named-event
// primitive exists. Signal does nothing; Wait always times out, so
// consumers fall back to pure polling.
type pollNotifier struct{}

func (pollNotifier) Signal() error { return nil }

func (pollNotifier) Wait(ctx context.Context, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	return false
}

func (pollNotifier) Close() error { return nil }
