package attachments

import (
	"errors"
	"fmt"
	"sync"

	"quill/internal/media"
)

// ErrQuotaExceeded reports an Add that would push a bucket past its category
// maximum. Admission rules run before the Store, so hitting this error is a
// programming error rather than user error.
var ErrQuotaExceeded = errors.New("attachment quota exceeded")

// ErrNotFound reports a Remove against an id the bucket does not hold.
var ErrNotFound = errors.New("attachment not found")

// Listener receives synchronous change notifications from the Store.
// Callbacks run after the mutation has been applied and outside the Store
// lock, so listeners may call back into the Store.
type Listener interface {
	AttachmentsAdded(category media.Category, items []media.Attachment)
	AttachmentRemoved(category media.Category, item media.Attachment)
}

// Store is the category-bucketed collection of staged attachments.
type Store struct {
	mu        sync.Mutex
	rules     *media.Rules
	buckets   map[media.Category][]media.Attachment
	listeners []Listener
}

// NewStore builds an empty store governed by the provided rules.
func NewStore(rules *media.Rules) *Store {
	if rules == nil {
		rules = media.DefaultRules()
	}
	return &Store{
		rules:   rules,
		buckets: make(map[media.Category][]media.Attachment, 4),
	}
}

// Rules returns the admission rules governing the store.
func (s *Store) Rules() *media.Rules {
	return s.rules
}

// Subscribe registers a listener for subsequent mutations.
func (s *Store) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Add appends attachments to the category bucket in input order. The quota
// invariant is re-asserted here: when the resulting count would exceed the
// category maximum, nothing is added and ErrQuotaExceeded is returned.
func (s *Store) Add(category media.Category, items []media.Attachment) error {
	if len(items) == 0 {
		return nil
	}
	if !category.IsValid() {
		return fmt.Errorf("add attachments: unknown category %q", category)
	}

	s.mu.Lock()
	max := s.rules.MaxCount(category)
	if len(s.buckets[category])+len(items) > max {
		s.mu.Unlock()
		return fmt.Errorf("add %d to %s (%d staged, max %d): %w",
			len(items), category.FieldName(), len(s.buckets[category]), max, ErrQuotaExceeded)
	}
	s.buckets[category] = append(s.buckets[category], items...)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener.AttachmentsAdded(category, items)
	}
	return nil
}

// Remove deletes one attachment by id and returns it. Absent ids yield
// ErrNotFound.
func (s *Store) Remove(category media.Category, id string) (media.Attachment, error) {
	s.mu.Lock()
	bucket := s.buckets[category]
	index := -1
	for i, item := range bucket {
		if item.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return media.Attachment{}, fmt.Errorf("remove %s from %s: %w", id, category.FieldName(), ErrNotFound)
	}
	removed := bucket[index]
	s.buckets[category] = append(bucket[:index], bucket[index+1:]...)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener.AttachmentRemoved(category, removed)
	}
	return removed, nil
}

// List returns the category bucket in insertion order. The slice is a copy.
func (s *Store) List(category media.Category) []media.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.buckets[category]
	cp := make([]media.Attachment, len(bucket))
	copy(cp, bucket)
	return cp
}

// Count returns the number of attachments staged in the category.
func (s *Store) Count(category media.Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets[category])
}

// TotalCount sums attachment counts across all categories.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, bucket := range s.buckets {
		total += len(bucket)
	}
	return total
}

// Contains reports whether the category bucket currently holds the id.
// Preview completion uses this to detect removal races.
func (s *Store) Contains(category media.Category, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.buckets[category] {
		if item.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) snapshotListeners() []Listener {
	cp := make([]Listener, len(s.listeners))
	copy(cp, s.listeners)
	return cp
}
