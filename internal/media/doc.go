// Package media defines the attachment vocabulary shared across the authoring
// session: categories, admission rules, and staged attachment metadata.
//
// Categories are a closed enum (image, video, audio, document); each carries an
// extension allow-list and a maximum attachment count. Rules implements the
// admission decision for candidate files: extension matching is
// case-insensitive, quota checks are positional within a batch, and the whole
// batch is always evaluated so callers receive the admissible and rejected
// subsets separately.
//
// Admission is pure and side-effect free; the attachments package owns the
// mutable store that admitted files enter.
package media
