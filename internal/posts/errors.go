package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by FetchError.
var (
	ErrNotFound         = errors.New("post not found")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrDecode           = errors.New("could not decode response")
	ErrInvalidBaseURL   = errors.New("invalid base URL")
	ErrInvalidID        = errors.New("post id must be positive")
)

// FetchError describes a failed request against the posts API.
type FetchError struct {
	Op     string // "list" or "get"
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
