package resilience

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tryerr/tryerr"
	"github.com/tryerr/tryerr/tryfactory"
	"github.com/tryerr/tryerr/tryresult"
)

// RedisHandler processes a payload popped off a RedisQueue.
type RedisHandler[T any] func(ctx context.Context, payload T) (T, error)

// redisEnvelope pairs a payload with the submission ID used to route its
// result back to the submitting process's in-memory Future table. Only the
// process that submitted a job can observe its Future resolve; a worker in
// a different process draining the same Redis list completes the task but
// has no local Future to resolve, mirroring at-most-once local completion
// over a shared, multi-consumer backing store.
type redisEnvelope[T any] struct {
	ID      string `json:"id"`
	Payload T      `json:"payload"`
}

// RedisQueueOptions configures a RedisQueue.
type RedisQueueOptions struct {
	Key         string        // Redis list key used as the FIFO backing store
	Concurrency int           // fixed worker-goroutine count; 0 defaults to 4
	PopTimeout  time.Duration // BLPop block duration per poll; 0 defaults to 5s
}

// RedisQueue is resilience.Queue's pluggable Redis-backed counterpart,
// mirroring dmitrymomot-foundation/core/queue's Storage interface
// pluggability (core/queue.Storage abstracts Postgres behind
// Enqueuer/Worker/Scheduler repositories; here a single *redis.Client list
// plays the same role). Submissions are RPUSH'd as JSON envelopes; a fixed
// worker pool BLPOPs them, runs the handler, and resolves the submitting
// process's local Future.
//
// The in-memory Queue[T] remains the default; RedisQueue exists for
// deployments that need the admission buffer to survive a process
// restart or to be shared across multiple queue-worker processes.
type RedisQueue[T any] struct {
	client      *redis.Client
	key         string
	handler     RedisHandler[T]
	popTimeout  time.Duration
	inFlight    int64
	pendingMu   sync.Mutex
	pending     map[string]*tryresult.Future[tryresult.Result[T]]
	nextID      int64
	stop        chan struct{}
	workersDone sync.WaitGroup
}

// NewRedisQueue constructs a RedisQueue backed by client and starts its
// worker pool polling key via BLPOP.
func NewRedisQueue[T any](client *redis.Client, handler RedisHandler[T], opts RedisQueueOptions) *RedisQueue[T] {
	key := opts.Key
	if key == "" {
		key = "tryerr:resilience:queue"
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	popTimeout := opts.PopTimeout
	if popTimeout <= 0 {
		popTimeout = 5 * time.Second
	}

	q := &RedisQueue[T]{
		client:     client,
		key:        key,
		handler:    handler,
		popTimeout: popTimeout,
		pending:    make(map[string]*tryresult.Future[tryresult.Result[T]]),
		stop:       make(chan struct{}),
	}
	q.workersDone.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go q.worker()
	}
	return q
}

// Submit pushes payload onto the Redis list and returns a Future that
// resolves once this process's worker pool pops and processes the
// corresponding envelope.
func (q *RedisQueue[T]) Submit(ctx context.Context, payload T) (*tryresult.Future[tryresult.Result[T]], error) {
	id := fmt.Sprintf("%d", atomic.AddInt64(&q.nextID, 1))
	future := tryresult.NewFuture[tryresult.Result[T]]()

	q.pendingMu.Lock()
	q.pending[id] = future
	q.pendingMu.Unlock()

	data, err := json.Marshal(redisEnvelope[T]{ID: id, Payload: payload})
	if err != nil {
		q.pendingMu.Lock()
		delete(q.pending, id)
		q.pendingMu.Unlock()
		return nil, wrapSerializeErr(err)
	}

	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		q.pendingMu.Lock()
		delete(q.pending, id)
		q.pendingMu.Unlock()
		return nil, wrapRedisErr(err)
	}

	atomic.AddInt64(&q.inFlight, 1)
	return future, nil
}

func (q *RedisQueue[T]) worker() {
	defer q.workersDone.Done()
	ctx := context.Background()
	for {
		select {
		case <-q.stop:
			return
		default:
		}

		res, err := q.client.BLPop(ctx, q.popTimeout, q.key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			select {
			case <-q.stop:
				return
			default:
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if len(res) != 2 {
			continue
		}

		var env redisEnvelope[T]
		if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
			continue
		}

		r := tryresult.TrySync(func() (T, error) { return q.handler(ctx, env.Payload) })

		q.pendingMu.Lock()
		future, owns := q.pending[env.ID]
		delete(q.pending, env.ID)
		q.pendingMu.Unlock()

		if owns {
			atomic.AddInt64(&q.inFlight, -1)
			future.Resolve(r)
		}
	}
}

// InFlight reports the number of submissions from this process awaiting
// completion.
func (q *RedisQueue[T]) InFlight() int {
	return int(atomic.LoadInt64(&q.inFlight))
}

// Len reports the current length of the backing Redis list, i.e. envelopes
// not yet claimed by any worker (in this or any other process).
func (q *RedisQueue[T]) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, wrapRedisErr(err)
	}
	return n, nil
}

// Close stops this process's worker pool. It does not drain or delete the
// Redis list, which may still hold envelopes for other consumers.
func (q *RedisQueue[T]) Close() {
	close(q.stop)
	q.workersDone.Wait()
}

func wrapRedisErr(err error) tryerr.TryError {
	return tryfactory.WrapError(tryerr.CodeUnavailable, err, "redis queue operation failed")
}

func wrapSerializeErr(err error) tryerr.TryError {
	return tryfactory.WrapError(tryerr.CodeInvalid, err, "failed to serialize queue payload")
}
