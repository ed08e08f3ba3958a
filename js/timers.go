package js

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dop251/goja"
)

// minInterval is the smallest delay setInterval accepts.
const minInterval = 4 * time.Millisecond

// timer represents a scheduled timer (setTimeout or setInterval).
type timer struct {
	id       int
	callback goja.Callable
	args     []goja.Value
	due      time.Time
	interval time.Duration // 0 for setTimeout, >0 for setInterval
}

// timerQueue holds pending timers. It is only touched with Runtime.mu held.
type timerQueue struct {
	timers map[int]*timer
	nextID int
}

func newTimerQueue() *timerQueue {
	return &timerQueue{timers: make(map[int]*timer), nextID: 1}
}

func (q *timerQueue) add(callback goja.Callable, delay, interval time.Duration, args []goja.Value) int {
	id := q.nextID
	q.nextID++
	q.timers[id] = &timer{
		id:       id,
		callback: callback,
		args:     args,
		due:      time.Now().Add(delay),
		interval: interval,
	}
	return id
}

func (q *timerQueue) clear(id int) {
	delete(q.timers, id)
}

// next returns the earliest timer, breaking ties by creation order.
func (q *timerQueue) next() *timer {
	if len(q.timers) == 0 {
		return nil
	}
	pending := make([]*timer, 0, len(q.timers))
	for _, t := range q.timers {
		pending = append(pending, t)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].due.Equal(pending[j].due) {
			return pending[i].id < pending[j].id
		}
		return pending[i].due.Before(pending[j].due)
	})
	return pending[0]
}

// setupTimers installs setTimeout, setInterval, clearTimeout and clearInterval.
func (r *Runtime) setupTimers() {
	schedule := func(call goja.FunctionCall, repeat bool) goja.Value {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return goja.Undefined()
		}
		delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
		if delay < 0 {
			delay = 0
		}
		var interval time.Duration
		if repeat {
			interval = max(delay, minInterval)
			delay = interval
		}
		var args []goja.Value
		if len(call.Arguments) > 2 {
			args = call.Arguments[2:]
		}
		return r.vm.ToValue(r.timers.add(callback, delay, interval, args))
	}
	cancel := func(call goja.FunctionCall) goja.Value {
		r.timers.clear(int(call.Argument(0).ToInteger()))
		return goja.Undefined()
	}

	r.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		return schedule(call, false)
	})
	r.vm.Set("setInterval", func(call goja.FunctionCall) goja.Value {
		return schedule(call, true)
	})
	r.vm.Set("clearTimeout", cancel)
	r.vm.Set("clearInterval", cancel)
}

// HasPendingTimers reports whether any timer is still scheduled.
func (r *Runtime) HasPendingTimers() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers.timers) > 0
}

// RunEventLoop fires timers in due order until none are left or ctx is done.
// Errors thrown by callbacks are recorded and do not stop the loop.
func (r *Runtime) RunEventLoop(ctx context.Context) error {
	for {
		r.mu.Lock()
		t := r.timers.next()
		r.mu.Unlock()
		if t == nil {
			return nil
		}

		if wait := time.Until(t.due); wait > 0 {
			sleep := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				sleep.Stop()
				return ctx.Err()
			case <-sleep.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		r.fire(t)
	}
}

func (r *Runtime) fire(t *timer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The timer may have been cleared while we were waiting.
	if _, ok := r.timers.timers[t.id]; !ok {
		return
	}
	if t.interval > 0 {
		t.due = time.Now().Add(t.interval)
	} else {
		r.timers.clear(t.id)
	}

	func() {
		defer func() {
			if p := recover(); p != nil {
				r.recordError(fmt.Errorf("timer %d panic: %v", t.id, p))
			}
		}()
		if _, err := t.callback(goja.Undefined(), t.args...); err != nil {
			r.recordError(err)
		}
	}()
}
