// Package preview creates ephemeral, renderable preview resources for staged
// attachments and guarantees each is released exactly once.
//
// The Manager listens on the attachment store. Each added attachment gets a
// resource in state pending while a goroutine generates the preview artifact
// (a decoded-dimensions probe plus staging copy for images, a streamable
// staging copy for video and audio, metadata only for documents). At
// completion the manager re-checks store membership: if the attachment was
// removed while generation was in flight, the resource goes straight to
// released and the handle is never exposed. Removal and session close both
// trigger release; release is idempotent and observable exactly once per
// resource.
//
// Leaked reports resources still unreleased, which after Close indicates an
// invariant violation.
package preview
