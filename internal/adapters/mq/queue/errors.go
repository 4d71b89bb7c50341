package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrQueueFull   = errors.New("reload queue full")
	ErrQueueClosed = errors.New("reload queue closed")
)
