// Package countdown derives the time left until launch from the wall clock.
package countdown

import (
	"context"
	"time"

	"golperbox/internal/models"
)

const DefaultInterval = time.Second

const day = 24 * time.Hour

// Remaining breaks target-now into days, hours, minutes and seconds. The
// second return value is true once the target has been reached, in which
// case the state is all zeros.
func Remaining(target, now time.Time) (models.CountdownState, bool) {
	distance := target.Sub(now)
	if distance <= 0 {
		return models.CountdownState{}, true
	}

	return models.CountdownState{
		Days:    int64(distance / day),
		Hours:   int64(distance/time.Hour) % 24,
		Minutes: int64(distance/time.Minute) % 60,
		Seconds: int64(distance/time.Second) % 60,
	}, false
}

type Engine struct {
	target   time.Time
	clock    Clock
	interval time.Duration
}

type Option func(*Engine)

func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

func NewEngine(target time.Time, opts ...Option) *Engine {
	e := &Engine{
		target:   target,
		clock:    SystemClock(),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Target() time.Time {
	return e.target
}

func (e *Engine) Clock() Clock {
	return e.clock
}

func (e *Engine) Snapshot() (models.CountdownState, bool) {
	return Remaining(e.target, e.clock.Now())
}

// Run emits the current state immediately and then once per interval, each
// time recomputed from the clock. launched is true only for the final zero
// state. It returns after emitting that state or when ctx is cancelled;
// nothing is emitted once ctx is done.
func (e *Engine) Run(ctx context.Context, emit func(state models.CountdownState, launched bool)) {
	if ctx.Err() != nil {
		return
	}

	state, done := e.Snapshot()
	emit(state, done)
	if done {
		return
	}

	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			state, done := e.Snapshot()
			emit(state, done)
			if done {
				return
			}
		}
	}
}
