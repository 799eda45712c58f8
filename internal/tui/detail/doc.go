// Package detail provides the lazily loaded post detail pane.
//
// The pane is mounted when a post is selected and fetches that post on
// mount. Key features:
//   - Async loading with an immediate loading state and a preview line
//   - Inline error state with keyboard retry ('r')
//   - Stale results for an earlier mount are discarded
//   - Clearing is delegated to the parent via ClearSelectionMsg
package detail
