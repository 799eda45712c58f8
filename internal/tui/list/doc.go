// Package listview provides the scrolling post list for the feed TUI.
//
// The list only renders the rows inside the viewport plus a small buffer, so
// the cost of a frame does not grow as pages are appended. Key features:
//   - Append-only item storage for infinite scroll
//   - Keyboard navigation (up/down, pgup/pgdn, home/end, j/k)
//   - End-of-content detection relative to the viewport height
package listview
