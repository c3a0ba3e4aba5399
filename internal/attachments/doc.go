// Package attachments owns the authoritative collection of staged
// attachments, bucketed by category.
//
// The Store enforces quota invariants on every mutation (admission rules run
// first, but the Store re-asserts them and fails fast on violation), preserves
// insertion order within each bucket, and synchronously notifies registered
// listeners after each add or remove. The Store performs no resource-handle or
// network side effects itself; the preview package reacts to its
// notifications.
package attachments
