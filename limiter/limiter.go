package limiter

import (
	"context"
	"errors"
)

// ErrInvalidSlots is an exported constant or variable used by the admission limiter.
var ErrInvalidSlots = errors.New("max concurrent must be at least 1")

// Limiter defines a public type used by autocrud APIs.
//
// Limiter instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Limiter struct {
	slots chan struct{}
}

// New creates a [Limiter] with max admission slots. max below 1 is rejected.
func New(max int) (*Limiter, error) {
	if max < 1 {
		return nil, ErrInvalidSlots
	}
	return &Limiter{
		slots: make(chan struct{}, max),
	}, nil
}

// Acquire reserves a slot, blocking until one frees up or ctx is cancelled.
// On a cancellation error no slot is held and Release must not be called.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a previously acquired slot.
func (l *Limiter) Release() {
	select {
	case <-l.slots:
	default:
		// Release without a matching Acquire is a caller bug; swallowing it
		// keeps the slot count from going negative.
	}
}

// Cap returns the configured slot count.
func (l *Limiter) Cap() int {
	return cap(l.slots)
}

// InFlight returns the number of currently held slots.
func (l *Limiter) InFlight() int {
	return len(l.slots)
}
