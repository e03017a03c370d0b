package resilience

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryfactory"
	"github.com/tryerr/tryerr/tryresult"
)

// Job is a unit of work submitted to a Queue.
type Job[T any] func(ctx context.Context) (T, error)

// submission pairs a job with the Future its completion resolves.
type submission[T any] struct {
	job    Job[T]
	future *tryresult.Future[tryresult.Result[T]]
}

// QueueOptions configures a Queue's admission buffer and worker pool.
type QueueOptions struct {
	Capacity    int // bounded channel size; 0 defaults to 64
	Concurrency int // fixed worker-goroutine count; 0 defaults to 4
}

// Queue is a bounded FIFO of pending futures with a fixed concurrency cap,
// grounded on dmitrymomot-foundation/core/queue's worker/service split: a
// bounded channel serves as the admission queue (core/queue's enqueuer),
// and a fixed pool of worker goroutines drains it (core/queue's Worker).
// Completion handles are tryresult.Future values, per
// dmitrymomot-foundation/pkg/async's Future pattern already used by
// tryresult's own asynchronous combinators.
//
// FIFO ordering of admissions is preserved (submissions are read off the
// channel in order); completion order is not, since workers run
// concurrently and finish at their own pace.
type Queue[T any] struct {
	ch       chan submission[T]
	inFlight int64
	wg       sync.WaitGroup
	once     sync.Once
}

// NewQueue constructs a Queue and starts its worker pool.
func NewQueue[T any](opts QueueOptions) *Queue[T] {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = 64
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	q := &Queue[T]{ch: make(chan submission[T], capacity)}
	q.wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go q.worker()
	}
	return q
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for s := range q.ch {
		r := tryresult.TrySync(func() (T, error) { return s.job(context.Background()) })
		s.future.Resolve(r)
		atomic.AddInt64(&q.inFlight, -1)
	}
}

// Submit enqueues job and returns a Future resolving to its Result once a
// worker picks it up and runs it. Submit blocks if the admission buffer is
// full (back-pressure), honoring ctx cancellation while waiting.
func (q *Queue[T]) Submit(ctx context.Context, job Job[T]) *tryresult.Future[tryresult.Result[T]] {
	future := tryresult.NewFuture[tryresult.Result[T]]()
	atomic.AddInt64(&q.inFlight, 1)
	select {
	case q.ch <- submission[T]{job: job, future: future}:
	case <-ctx.Done():
		atomic.AddInt64(&q.inFlight, -1)
		future.Resolve(tryresult.Err[T](submissionAborted(ctx)))
	}
	return future
}

func submissionAborted(ctx context.Context) tryerr.TryError {
	return tryfactory.Create(tryfactory.CreateOptions{
		Type:    "QueueSubmissionAborted",
		Message: "queue submission aborted: " + ctx.Err().Error(),
		Cause:   ctx.Err(),
		Code:    tryerr.CodeInterrupt,
	})
}

// InFlight reports the number of jobs submitted but not yet completed,
// including those still waiting in the admission buffer.
func (q *Queue[T]) InFlight() int {
	return int(atomic.LoadInt64(&q.inFlight))
}

// Drain closes the admission channel and waits for all workers to finish
// processing whatever remains queued. Submit must not be called again
// after Drain.
func (q *Queue[T]) Drain() {
	q.once.Do(func() { close(q.ch) })
	q.wg.Wait()
}
