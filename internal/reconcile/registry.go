package reconcile

import (
	"sort"

	"quill/internal/media"
)

// Kind distinguishes the two persisted media tables on the server: images
// live in one, every other attachment category in the other.
type Kind string

const (
	KindImage Kind = "images"
	KindFile  Kind = "files"
)

// KindForCategory maps an attachment category onto its persisted-media kind.
func KindForCategory(category media.Category) Kind {
	if category == media.CategoryImage {
		return KindImage
	}
	return KindFile
}

// PersistedMedia describes one server-side media record loaded with the post
// being edited. Entries are immutable for the life of the session.
type PersistedMedia struct {
	ID        int64
	Kind      Kind
	Category  media.Category
	Name      string
	URL       string
	SizeBytes int64
}

// Registry is the edit-session view over persisted media. The entry set is
// fixed at construction; tombstoning only masks entries from the visible
// view, it never deletes them.
type Registry struct {
	entries    map[Kind]map[int64]PersistedMedia
	order      map[Kind][]int64
	tombstones map[Kind]map[int64]struct{}
}

// NewRegistry indexes the loaded persisted media. Input order is preserved
// per kind.
func NewRegistry(entries []PersistedMedia) *Registry {
	registry := &Registry{
		entries:    make(map[Kind]map[int64]PersistedMedia, 2),
		order:      make(map[Kind][]int64, 2),
		tombstones: make(map[Kind]map[int64]struct{}, 2),
	}
	for _, kind := range []Kind{KindImage, KindFile} {
		registry.entries[kind] = make(map[int64]PersistedMedia)
		registry.tombstones[kind] = make(map[int64]struct{})
	}
	for _, entry := range entries {
		kind := entry.Kind
		if kind != KindImage && kind != KindFile {
			kind = KindForCategory(entry.Category)
			entry.Kind = kind
		}
		if _, exists := registry.entries[kind][entry.ID]; exists {
			continue
		}
		registry.entries[kind][entry.ID] = entry
		registry.order[kind] = append(registry.order[kind], entry.ID)
	}
	return registry
}

// Tombstone marks the id for deletion. Re-tombstoning is a no-op, as is
// tombstoning an id the registry never held; both report false.
func (r *Registry) Tombstone(kind Kind, id int64) bool {
	if _, known := r.entries[kind][id]; !known {
		return false
	}
	if _, already := r.tombstones[kind][id]; already {
		return false
	}
	r.tombstones[kind][id] = struct{}{}
	return true
}

// IsTombstoned reports whether the id has been marked for deletion.
func (r *Registry) IsTombstoned(kind Kind, id int64) bool {
	_, ok := r.tombstones[kind][id]
	return ok
}

// VisiblePersisted returns the kind's entries that have not been tombstoned,
// in load order.
func (r *Registry) VisiblePersisted(kind Kind) []PersistedMedia {
	var visible []PersistedMedia
	for _, id := range r.order[kind] {
		if _, gone := r.tombstones[kind][id]; gone {
			continue
		}
		visible = append(visible, r.entries[kind][id])
	}
	return visible
}

// Tombstoned returns the kind's tombstoned ids in ascending order.
func (r *Registry) Tombstoned(kind Kind) []int64 {
	ids := make([]int64, 0, len(r.tombstones[kind]))
	for id := range r.tombstones[kind] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup returns the entry for the id regardless of tombstone state.
func (r *Registry) Lookup(kind Kind, id int64) (PersistedMedia, bool) {
	entry, ok := r.entries[kind][id]
	return entry, ok
}

// VisibleCount counts non-tombstoned entries of the kind.
func (r *Registry) VisibleCount(kind Kind) int {
	return len(r.order[kind]) - len(r.tombstones[kind])
}

// PendingDeletionCounts reports how many ids are tombstoned per kind.
func (r *Registry) PendingDeletionCounts() (images, files int) {
	return len(r.tombstones[KindImage]), len(r.tombstones[KindFile])
}
