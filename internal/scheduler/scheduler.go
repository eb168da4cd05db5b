// Package scheduler runs one-shot delayed callbacks that can be cancelled.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// Handle identifies a scheduled callback.
type Handle interface {
	// Cancel stops the callback. It reports whether the call prevented the callback
	// from running; cancelling twice or after the callback fired is a no-op.
	Cancel() bool
}

type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*job
	stopped bool
}

type job struct {
	id        uint64
	name      string
	timer     *time.Timer
	scheduler *Scheduler
	once      sync.Once
	cancelled bool
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger:  logger.With("component", "scheduler"),
		pending: make(map[uint64]*job),
	}
}

// ScheduleOnce runs fn once after delay unless the returned handle is cancelled first.
func (that *Scheduler) ScheduleOnce(name string, delay time.Duration, fn func()) Handle {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextID++
	j := &job{id: that.nextID, name: name, scheduler: that}

	if that.stopped {
		that.logger.Warn("scheduler is stopped, job dropped", "job", name)
		j.cancelled = true
		return j
	}

	j.timer = time.AfterFunc(delay, func() {
		if !that.release(j.id) {
			return
		}

		that.logger.Debug("running job", "job", name)
		fn()
	})
	that.pending[j.id] = j

	return j
}

// Pending returns the number of callbacks that have neither run nor been cancelled.
func (that *Scheduler) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.pending)
}

// Stop cancels every pending callback. Later ScheduleOnce calls are dropped.
func (that *Scheduler) Stop() {
	that.mu.Lock()
	jobs := make([]*job, 0, len(that.pending))
	for _, j := range that.pending {
		jobs = append(jobs, j)
	}
	that.stopped = true
	that.mu.Unlock()

	for _, j := range jobs {
		j.Cancel()
	}

	that.logger.Info("scheduler stopped", "cancelled", len(jobs))
}

// release removes the job from the pending set and reports whether it was still there.
func (that *Scheduler) release(id uint64) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.pending[id]; !ok {
		return false
	}

	delete(that.pending, id)

	return true
}

func (that *job) Cancel() bool {
	prevented := false

	that.once.Do(func() {
		if that.timer == nil {
			return
		}

		that.timer.Stop()
		prevented = that.scheduler.release(that.id)
		if prevented {
			that.scheduler.logger.Debug("job cancelled", "job", that.name)
		}
	})

	return prevented
}
