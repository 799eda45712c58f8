package posts

import (
	"context"
	"time"

	"github.com/rshade/postfeed/internal/logging"
)

// Post is a single post record. The listing endpoint returns summaries and
// the single-post endpoint returns details; both share this shape.
type Post struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// Summary is a row in the paginated collection.
type Summary = Post

// Detail is a post fetched on demand for the detail pane.
type Detail = Post

// Fetcher fetches posts from the remote API.
type Fetcher interface {
	ListPosts(ctx context.Context, page, limit int) ([]Summary, error)
	GetPost(ctx context.Context, id int) (Detail, error)
}

// Find returns the first post in collection with the given ID.
func Find(collection []Summary, id int) (Summary, bool) {
	for _, p := range collection {
		if p.ID == id {
			return p, true
		}
	}
	return Summary{}, false
}

// Derive produces the derived detail value for p. It is a shallow copy; the
// elapsed time is logged at debug level.
func Derive(ctx context.Context, p Summary) Detail {
	start := time.Now()
	result := p
	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "posts").
		Str("operation", "derive_detail").
		Int("post_id", p.ID).
		Dur("elapsed", time.Since(start)).
		Msg("derived detail computed")
	return result
}
