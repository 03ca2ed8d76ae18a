package spec

import "fmt"

// ResourceExceededError reports that a computation hit a configured bound
// before finishing. No partial result accompanies it.
type ResourceExceededError struct {
	Op       string
	Resource string
	Limit    string
}

func (e *ResourceExceededError) Error() string {
	return fmt.Sprintf("%v: resource exceeded: %v (limit: %v)", e.Op, e.Resource, e.Limit)
}

// InternalError reports a broken invariant, typically an operation given a
// definition that was never validated.
type InternalError struct {
	Op    string
	Cause error
}

func NewInternalError(op string, format string, a ...interface{}) *InternalError {
	return &InternalError{
		Op:    op,
		Cause: fmt.Errorf(format, a...),
	}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%v: internal error: %v", e.Op, e.Cause)
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}
