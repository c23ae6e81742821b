package linkrow

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyID signals a record without an identifier.
	ErrEmptyID = errors.New("link record id is empty")
	// ErrEmptyURLKey signals a record without a short-link key.
	ErrEmptyURLKey = errors.New("link record url key is empty")
	// ErrNegativeClicks signals a record with a negative click count.
	ErrNegativeClicks = errors.New("link record clicks is negative")
	// ErrUnknownAction is returned when dispatching a name that is not in the action list.
	ErrUnknownAction = errors.New("unknown action")
	// ErrActionInFlight is returned when Copy or Delete is invoked again before the previous call returned.
	ErrActionInFlight = errors.New("action already in progress")
	// ErrMissingCallback is returned by a handler whose caller callback was not supplied.
	ErrMissingCallback = errors.New("action callback not set")
)

// InvalidURLError reports a destination that is not an absolute URL.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("invalid url %q", e.URL)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// InvalidDateError reports a timestamp field that does not parse as a date.
type InvalidDateError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid date %q", e.Value)
	}
	return fmt.Sprintf("invalid date in %s: %q", e.Field, e.Value)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// ClipboardWriteError wraps a failed clipboard write during Copy.
type ClipboardWriteError struct {
	Err error
}

func (e *ClipboardWriteError) Error() string {
	return fmt.Sprintf("clipboard write: %v", e.Err)
}

func (e *ClipboardWriteError) Unwrap() error { return e.Err }

// ResolverError wraps a failed short-link resolution.
type ResolverError struct {
	Key string
	Err error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("resolve short link %q: %v", e.Key, e.Err)
}

func (e *ResolverError) Unwrap() error { return e.Err }
