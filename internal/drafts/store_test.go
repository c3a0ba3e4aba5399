package drafts_test

import (
	"context"
	"errors"
	"testing"

	"quill/internal/drafts"
	"quill/internal/media"
	"quill/internal/submission"
	"quill/internal/testsupport"
)

func openStore(t *testing.T) *drafts.Store {
	t.Helper()
	return testsupport.MustOpenDrafts(t, testsupport.NewConfig(t))
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, drafts.Draft{
		Fields: submission.Fields{Title: "Half-written", Content: "body", CategoryID: 3, Link: "https://example.net"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 || saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatalf("saved = %+v", saved)
	}

	loaded, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Fields != saved.Fields {
		t.Fatalf("fields = %+v, want %+v", loaded.Fields, saved.Fields)
	}
}

func TestSaveKeepsAttachmentPaths(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, drafts.Draft{
		Fields: submission.Fields{Title: "With files"},
		Attachments: map[media.Category][]string{
			media.CategoryImage:    {"/tmp/a.png", "/tmp/b.jpg"},
			media.CategoryDocument: {"/tmp/notes.pdf"},
			media.CategoryVideo:    nil,
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	images := loaded.Attachments[media.CategoryImage]
	if len(images) != 2 || images[0] != "/tmp/a.png" || images[1] != "/tmp/b.jpg" {
		t.Fatalf("images = %v", images)
	}
	if docs := loaded.Attachments[media.CategoryDocument]; len(docs) != 1 {
		t.Fatalf("documents = %v", docs)
	}
	if _, ok := loaded.Attachments[media.CategoryVideo]; ok {
		t.Fatal("empty categories should not be stored")
	}
}

func TestSaveUpdatesExistingDraft(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, drafts.Draft{Fields: submission.Fields{Title: "v1"}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	saved.Fields.Title = "v2"
	updated, err := store.Save(ctx, saved)
	if err != nil {
		t.Fatalf("Save update: %v", err)
	}
	if updated.ID != saved.ID || updated.Fields.Title != "v2" {
		t.Fatalf("updated = %+v", updated)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("list length = %d", len(all))
	}
}

func TestListOrdersByRecency(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, drafts.Draft{Fields: submission.Fields{Title: "first"}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(ctx, drafts.Draft{Fields: submission.Fields{Title: "second"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	first.Fields.Content = "touched"
	if _, err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].Fields.Title != "first" {
		t.Fatalf("order = %+v", all)
	}
}

func TestDeleteMissingDraft(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Delete(ctx, 404); !errors.Is(err, drafts.ErrDraftNotFound) {
		t.Fatalf("Delete missing = %v", err)
	}

	saved, err := store.Save(ctx, drafts.Draft{Fields: submission.Fields{Title: "t"}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, saved.ID); !errors.Is(err, drafts.ErrDraftNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}
}

func TestSecondOpenOnSameDirectoryFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenDrafts(t, cfg)

	if _, err := drafts.Open(cfg); err == nil {
		t.Fatal("second open should fail while the lock is held")
	}
}
