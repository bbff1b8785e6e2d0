package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPath is returned when an operation that needs a path gets none
	ErrMissingPath = errors.New("path is required")
	// ErrInvalidDepth is returned for a negative or over-limit depth
	ErrInvalidDepth = errors.New("invalid depth")
	// ErrTimeout is the cause of an AccessError raised by an expired crawl deadline
	ErrTimeout = errors.New("crawl timed out")
)

// AccessError reports that the path a navigation operation was asked to
// resolve could not be statted or crawled
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("Cannot access %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
