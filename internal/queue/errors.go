// Package queue - errors.go
// Centralized, comparable error values used across the queue logic.
package queue

// qerr is a lightweight comparable error type.
// Using constants of this type allows errors.Is to work as expected.
type qerr string

func (e qerr) Error() string { return string(e) }

const (
	ErrInvalidTransition = qerr("invalid queue transition")
	ErrNotAccepting      = qerr("queue is not accepting signups")
	ErrUnknownRole       = qerr("unknown role keyword")
)
