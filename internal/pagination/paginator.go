package pagination

import (
	"fmt"
	"strings"
)

// Mode selects how the cursor advances between pages.
type Mode string

const (
	// ModeSequential requests page+1 with an unchanged limit.
	ModeSequential Mode = "sequential"

	// ModeLegacy keeps the arithmetic of earlier releases: the request is
	// made with the cursor as it was before the advance, and the cursor then
	// moves to {page+1, limit=(page-1)*limit+offset}. The cursor is committed
	// when the request is issued, whatever its outcome.
	ModeLegacy Mode = "legacy"
)

// ParseMode parses a mode name. The empty string selects ModeSequential.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSequential:
		return ModeSequential, nil
	case ModeLegacy:
		return ModeLegacy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Cursor is a page/limit pair.
type Cursor struct {
	Page  int
	Limit int
}

// Advance is one planned cursor step.
type Advance struct {
	// Request is the cursor the fetch must use.
	Request Cursor
	// Next is the cursor after the step is committed.
	Next Cursor
}

// Paginator owns the feed cursor. It is not safe for concurrent use; the
// TUI drives it from its single update loop.
type Paginator struct {
	mode   Mode
	cursor Cursor
	offset int
}

// New returns a Paginator positioned on page 1.
func New(mode Mode, limit int) (*Paginator, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = ModeSequential
	}
	if err := ValidatePageSize(limit); err != nil {
		return nil, err
	}
	return &Paginator{
		mode:   mode,
		cursor: Cursor{Page: DefaultPage, Limit: limit},
	}, nil
}

// Mode returns the advancement mode.
func (p *Paginator) Mode() Mode {
	return p.mode
}

// Cursor returns the committed cursor.
func (p *Paginator) Cursor() Cursor {
	return p.cursor
}

// First returns the advance for the initial load. It does not move the cursor.
func (p *Paginator) First() Advance {
	return Advance{Request: p.cursor, Next: p.cursor}
}

// Plan computes the next advance without committing it.
func (p *Paginator) Plan() Advance {
	switch p.mode {
	case ModeLegacy:
		return Advance{
			Request: p.cursor,
			Next: Cursor{
				Page:  p.cursor.Page + 1,
				Limit: (p.cursor.Page-1)*p.cursor.Limit + p.offset,
			},
		}
	default:
		next := Cursor{Page: p.cursor.Page + 1, Limit: p.cursor.Limit}
		return Advance{Request: next, Next: next}
	}
}

// Begin plans the next advance for a fetch about to be issued. In legacy
// mode the cursor is committed immediately.
func (p *Paginator) Begin() Advance {
	a := p.Plan()
	if p.mode == ModeLegacy {
		p.cursor = a.Next
	}
	return a
}

// Complete records a successful fetch for a. In sequential mode this commits
// the cursor; a failed fetch is simply not completed, so the same page is
// planned again on the next trigger.
func (p *Paginator) Complete(a Advance) {
	if p.mode == ModeSequential && a.Next.Page > p.cursor.Page {
		p.cursor = a.Next
	}
}
