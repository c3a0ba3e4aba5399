// Package session orchestrates one authoring flow: the attachment store,
// preview manager, step gate, and (in edit mode) the persisted-media
// registry, working against the posts API. The session serializes all
// access; the CLI drives it from a single goroutine.
package session
