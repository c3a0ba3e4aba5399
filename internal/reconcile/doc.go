// Package reconcile tracks server-persisted media during an edit session.
//
// Persisted media is immutable for the life of the session: entries are
// loaded once and never re-fetched. Marking an entry for deletion tombstones
// it locally; the server copy is untouched until submission carries the
// deletion ids.
package reconcile
