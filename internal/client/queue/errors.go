package queue

import "errors"

var (
	// ErrItemNotFound indicates that the queue holds no item with the requested id
	ErrItemNotFound = errors.New("queue item not found")

	// ErrInvalidTransition indicates a status change the item state machine forbids
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrItemInFlight indicates that the item is being delivered and cannot be removed
	ErrItemInFlight = errors.New("item is being delivered")

	// ErrCorruptItem marks a stored item whose envelope could not be decoded
	ErrCorruptItem = errors.New("corrupt queue item")
)
