package pagination

import (
	"errors"
	"fmt"
)

// Pagination defaults and validation limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 15
	MinPage         = 1
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Common validation errors.
var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = fmt.Errorf("page size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidMode     = errors.New("pagination mode must be 'sequential' or 'legacy'")
)

// Params holds explicit page selection from CLI flags.
type Params struct {
	// Page is the 1-based page number.
	Page int

	// Limit is the number of posts per page.
	Limit int
}

// NewParams returns Params with default values.
func NewParams() Params {
	return Params{Page: DefaultPage, Limit: DefaultPageSize}
}

// Validate checks that the page and limit are in range.
func (p Params) Validate() error {
	if p.Page < MinPage {
		return ErrInvalidPage
	}
	return ValidatePageSize(p.Limit)
}

// Cursor returns the request cursor these params describe.
func (p Params) Cursor() Cursor {
	return Cursor{Page: p.Page, Limit: p.Limit}
}

// ValidatePageSize checks a configured page size.
func ValidatePageSize(size int) error {
	if size < MinPageSize || size > MaxPageSize {
		return ErrInvalidPageSize
	}
	return nil
}
