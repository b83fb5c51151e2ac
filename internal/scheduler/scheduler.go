package scheduler

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel reports whether the callback was stopped before it ran.
	Cancel() bool
}

type Scheduler struct {
	clock clock.Clock
}

func New(clk clock.Clock) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}

	return &Scheduler{clock: clk}
}

func (that *Scheduler) Now() time.Time {
	return that.clock.Now()
}

// After runs fn on its own goroutine once d has elapsed.
func (that *Scheduler) After(d time.Duration, fn func()) Handle {
	return &timerHandle{timer: that.clock.AfterFunc(d, fn)}
}

func (that *Scheduler) Ticker(d time.Duration) *clock.Ticker {
	return that.clock.Ticker(d)
}

type timerHandle struct {
	timer *clock.Timer
}

func (that *timerHandle) Cancel() bool {
	return that.timer.Stop()
}
