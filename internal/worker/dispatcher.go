// Package worker runs the detached units of work for generation jobs. The
// request path only claims a job and enqueues it here; the actual generator
// call with its retries and backoff never blocks a request handler.
package worker

import (
	"context"
	"log"
	"sync"

	"forgefit/coach-engine/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Processor executes the unit of work for one claimed job.
type Processor interface {
	Process(ctx context.Context, jobID primitive.ObjectID)
}

// Dispatcher owns the job channel and the pool of goroutines draining it.
type Dispatcher struct {
	jobs        chan primitive.ObjectID
	concurrency int
	wg          sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher creates a dispatcher with the configured queue size and
// concurrency. Start must be called before jobs are processed.
func NewDispatcher(cfg config.WorkerConfig) *Dispatcher {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Dispatcher{
		jobs:        make(chan primitive.ObjectID, queueSize),
		concurrency: concurrency,
	}
}

// Enqueue hands a claimed job to the pool without blocking. A saturated
// queue is reported as an error so the caller can revert the claim.
func (d *Dispatcher) Enqueue(jobID primitive.ObjectID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDispatcherStopped
	}
	select {
	case d.jobs <- jobID:
		return nil
	default:
		return ErrQueueSaturated
	}
}

// Start launches the worker pool. Workers exit when the context is
// cancelled and the queue is drained or closed.
func (d *Dispatcher) Start(ctx context.Context, processor Processor) {
	for i := 0; i < d.concurrency; i++ {
		d.wg.Add(1)
		go func(workerID int) {
			defer d.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case jobID, ok := <-d.jobs:
					if !ok {
						return
					}
					log.Printf("worker %d: processing job %s", workerID, jobID.Hex())
					processor.Process(ctx, jobID)
				}
			}
		}(i)
	}
}

// Stop closes the queue and waits for in-flight work to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
