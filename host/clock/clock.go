// Package clock drives the firmware timer list from the host's wall clock,
// so the tone generators can run on a PC the same way they run on a board.
package clock

import (
	"context"
	"time"

	"pwmtone/core"
)

// DefaultInterval is how often the loop dispatches timers.
const DefaultInterval = time.Millisecond

// Loop owns the core timer list. Alarm callbacks run on the loop goroutine;
// anything else that touches generators or alarm pools must go through Do.
type Loop struct {
	Interval time.Duration

	calls chan func()
	start time.Time
	base  uint32
}

func New() *Loop {
	return &Loop{
		Interval: DefaultInterval,
		calls:    make(chan func()),
	}
}

// Run dispatches timers until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	return l.Until(ctx, nil)
}

// Until dispatches timers until done reports true or ctx is done. done is
// checked on the loop after every dispatch.
func (l *Loop) Until(ctx context.Context, done func() bool) error {
	l.start = time.Now()
	l.base = core.GetTime()

	t := time.NewTicker(l.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.calls:
			l.tick()
			fn()
		case <-t.C:
			l.tick()
		}
		if done != nil && done() {
			return nil
		}
	}
}

func (l *Loop) tick() {
	core.SetTime(l.base + uint32(time.Since(l.start).Microseconds()))
	core.ProcessTimers()
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	call := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.calls <- call:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}
