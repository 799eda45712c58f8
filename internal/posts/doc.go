// Package posts is the data layer of postfeed: the Post record, the HTTP
// client for the listing and single-post endpoints, and the memoized
// derived-detail computation used by the detail pane.
package posts
