package concurrency

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// ThrottledWorker runs queued jobs one at a time, at most one per interval.
type ThrottledWorker[T any] struct {
	logger      *log.Logger
	interval    time.Duration
	jobs        chan T
	jobCallback func(ctx context.Context, arg T) error
}

func NewThrottledWorker[T any](logger *log.Logger, interval time.Duration, queueSize int, jobCallback func(ctx context.Context, arg T) error) *ThrottledWorker[T] {
	if queueSize < 1 {
		queueSize = 1
	}
	return &ThrottledWorker[T]{
		logger:      logger,
		interval:    interval,
		jobs:        make(chan T, queueSize),
		jobCallback: jobCallback,
	}
}

// Submit queues a job without blocking. It returns false if the queue is full.
func (w *ThrottledWorker[T]) Submit(arg T) bool {
	select {
	case w.jobs <- arg:
		return true
	default:
		w.logger.Warn("Job queue full, dropping job")
		return false
	}
}

// Run processes jobs until ctx is done. Jobs still queued at that point are discarded.
func (w *ThrottledWorker[T]) Run(ctx context.Context) {
	limiter := time.NewTicker(w.interval)
	defer limiter.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case arg := <-w.jobs:
			select {
			case <-ctx.Done():
				return
			case <-limiter.C:
			}
			if err := w.jobCallback(ctx, arg); err != nil {
				w.logger.Error("Job failed", "err", err)
			}
		}
	}
}
