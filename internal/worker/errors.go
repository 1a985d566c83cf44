package worker

import "errors"

var (
	// ErrQueueSaturated indicates the dispatch queue is full.
	ErrQueueSaturated = errors.New("dispatch queue saturated")

	// ErrDispatcherStopped indicates the dispatcher is shutting down.
	ErrDispatcherStopped = errors.New("dispatcher stopped")
)
