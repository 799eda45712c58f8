// Package pagination tracks the page cursor for the infinite-scroll feed.
//
// This package contains:
//   - Paginator: the monotonically advancing page/limit cursor
//   - Mode: sequential advancement, or the legacy offset-as-limit arithmetic
//   - Params: validation of explicit --page/--limit flags
//
// Each advancement is planned up front as an Advance holding both the exact
// request cursor and the cursor that results, so the fetch and the state
// update always agree.
package pagination
