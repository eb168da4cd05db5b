package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/scheduler"
)

type mockNotifier struct {
	mock.Mock
}

func (that *mockNotifier) Notify(ctx context.Context, view entity.View) error {
	args := that.Called(ctx, view)
	return args.Error(0)
}

type mockStats struct {
	mock.Mock
}

func (that *mockStats) RecordStats(ctx context.Context, chatID int64, outcome entity.Outcome, winner *entity.Participant) error {
	args := that.Called(ctx, chatID, outcome, winner)
	return args.Error(0)
}

func (that *mockStats) RegisterChat(ctx context.Context, chatID int64) error {
	args := that.Called(ctx, chatID)
	return args.Error(0)
}

// fakeScheduler keeps jobs until the test fires them.
type fakeScheduler struct {
	mu   sync.Mutex
	jobs []*fakeJob
}

type fakeJob struct {
	mu        sync.Mutex
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (that *fakeJob) Cancel() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.cancelled || that.fired {
		return false
	}
	that.cancelled = true

	return true
}

func (that *fakeJob) isCancelled() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.cancelled
}

func (that *fakeScheduler) ScheduleOnce(_ string, delay time.Duration, fn func()) scheduler.Handle {
	that.mu.Lock()
	defer that.mu.Unlock()

	job := &fakeJob{delay: delay, fn: fn}
	that.jobs = append(that.jobs, job)

	return job
}

func (that *fakeScheduler) last() *fakeJob {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.jobs) == 0 {
		return nil
	}

	return that.jobs[len(that.jobs)-1]
}

// fire runs the job's callback regardless of cancellation, like a timer that
// already started when Cancel was called.
func (that *fakeJob) fire() {
	that.mu.Lock()
	that.fired = true
	that.mu.Unlock()

	that.fn()
}
