package queue

import "errors"

// transientError marks a failure as retryable: the worker re-enqueues the
// task with backoff instead of failing it permanently.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return "transient: " + e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so workers classify it as retryable. A nil err stays
// nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err (anywhere in its chain) was marked with
// Transient.
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
