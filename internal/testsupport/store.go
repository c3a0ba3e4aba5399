package testsupport

import (
	"testing"

	"quill/internal/config"
	"quill/internal/drafts"
)

// MustOpenDrafts opens a drafts.Store for tests and registers cleanup.
func MustOpenDrafts(t testing.TB, cfg *config.Config) *drafts.Store {
	t.Helper()

	store, err := drafts.Open(cfg)
	if err != nil {
		t.Fatalf("drafts.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
