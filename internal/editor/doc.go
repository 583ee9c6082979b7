// Package editor holds the edit session: the dual-resolution image state, the
// current adjustment parameters, and the controller that recomputes previews
// immediately and the full-resolution image after edits settle.
//
// # Recompute Strategy
//
// Every parameter change re-renders the low-resolution preview synchronously
// on the caller's goroutine. The full-resolution commit is debounced: each
// change restarts a countdown, and only when it elapses without a further
// change is the full-resolution image recomputed. Export commits immediately.
//
// # Thread Safety
//
// Controller methods are safe for concurrent use. The session is guarded by a
// single mutex; full-resolution recomputes are serialized so at most one runs
// at a time and an export waits behind a commit already in progress.
package editor
