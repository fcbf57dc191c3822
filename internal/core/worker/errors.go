package worker

import "errors"

var (
	// ErrPoolClosed is returned for work submitted after Close.
	ErrPoolClosed = errors.New("worker: pool closed")
	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = errors.New("worker: task panicked")
)
