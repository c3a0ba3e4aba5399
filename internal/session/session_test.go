package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"quill/internal/api"
	"quill/internal/errkind"
	"quill/internal/media"
	"quill/internal/preview"
	"quill/internal/reconcile"
	"quill/internal/session"
	"quill/internal/staging"
	"quill/internal/steps"
	"quill/internal/submission"
	"quill/internal/testsupport"
)

type fakePostAPI struct {
	post       *api.Post
	getErr     error
	submitErr  error
	created    []submission.Payload
	updated    []submission.Payload
	updatedIDs []int64
}

func (f *fakePostAPI) GetPost(_ context.Context, id int64) (*api.Post, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.post, nil
}

func (f *fakePostAPI) ListCategories(context.Context) ([]api.Category, error) {
	return []api.Category{{ID: 1, Name: "General"}}, nil
}

func (f *fakePostAPI) CreatePost(_ context.Context, payload submission.Payload) (*api.SubmitResult, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.created = append(f.created, payload)
	return &api.SubmitResult{PostID: 101}, nil
}

func (f *fakePostAPI) UpdatePost(_ context.Context, id int64, payload submission.Payload) (*api.SubmitResult, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.updated = append(f.updated, payload)
	f.updatedIDs = append(f.updatedIDs, id)
	return &api.SubmitResult{PostID: id}, nil
}

type noopGenerator struct{}

func (noopGenerator) Generate(media.Attachment, *staging.Workspace) (preview.Artifact, error) {
	return preview.Artifact{}, nil
}

func newCreateSession(t *testing.T, client api.PostAPI, opts ...testsupport.ConfigOption) *session.Session {
	t.Helper()
	s, err := session.NewCreate(session.Options{
		Config:    testsupport.NewConfig(t, opts...),
		Client:    client,
		Generator: noopGenerator{},
	})
	if err != nil {
		t.Fatalf("NewCreate: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func writeFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	testsupport.WriteFile(t, path, 64)
	return path
}

func TestFieldEditsDriveStepCompletion(t *testing.T) {
	s := newCreateSession(t, &fakePostAPI{})

	if err := s.Gate().Next(); !errors.Is(err, steps.ErrIllegalTransition) {
		t.Fatalf("Next on empty fields = %v", err)
	}

	s.SetTitle("Weekend build log")
	s.SetContent("Finished the shed roof.")
	if s.Gate().Completed(steps.StepBasics) {
		t.Fatal("basics complete without a category")
	}
	s.SetCategoryID(1)
	if !s.Gate().Completed(steps.StepBasics) {
		t.Fatal("basics incomplete after all three fields set")
	}
	if err := s.Gate().Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
}

func TestAttachAdmitsValidSubset(t *testing.T) {
	s := newCreateSession(t, &fakePostAPI{})

	good := writeFixture(t, "notes.pdf")
	bad := writeFixture(t, "malware.exe")
	decision, err := s.Attach(media.CategoryDocument, []string{good, bad})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(decision.Admitted) != 1 || len(decision.Rejected) != 1 {
		t.Fatalf("decision = %+v", decision)
	}
	if decision.Rejected[0].Reason != media.ReasonUnsupportedType {
		t.Fatalf("reason = %v", decision.Rejected[0].Reason)
	}
	if s.Store().Count(media.CategoryDocument) != 1 {
		t.Fatalf("staged count = %d", s.Store().Count(media.CategoryDocument))
	}
}

func TestAttachHonorsConfiguredQuota(t *testing.T) {
	s := newCreateSession(t, &fakePostAPI{}, testsupport.WithQuotas(10, 1))

	first := writeFixture(t, "one.pdf")
	second := writeFixture(t, "two.pdf")
	decision, err := s.Attach(media.CategoryDocument, []string{first, second})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(decision.Admitted) != 1 || len(decision.Rejected) != 1 {
		t.Fatalf("decision = %+v", decision)
	}
	if decision.Rejected[0].Reason != media.ReasonQuotaExceeded {
		t.Fatalf("reason = %v", decision.Rejected[0].Reason)
	}
}

func TestSubmitIsGatedUntilConfirmed(t *testing.T) {
	client := &fakePostAPI{}
	s := newCreateSession(t, client)
	s.SetTitle("t")
	s.SetContent("c")
	s.SetCategoryID(1)

	if _, err := s.Submit(context.Background()); !errors.Is(err, session.ErrSubmitGated) {
		t.Fatalf("Submit before confirm = %v", err)
	}

	s.Confirm()
	result, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.PostID != 101 || len(client.created) != 1 {
		t.Fatalf("result = %+v, created = %d", result, len(client.created))
	}
}

func TestSubmitPreservesStateAcrossTransientFailure(t *testing.T) {
	client := &fakePostAPI{submitErr: &api.TransientError{Operation: "create post", Status: 502}}
	s := newCreateSession(t, client)
	s.SetTitle("t")
	s.SetContent("c")
	s.SetCategoryID(1)
	path := writeFixture(t, "deck.pdf")
	if _, err := s.Attach(media.CategoryDocument, []string{path}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	s.Confirm()

	_, err := s.Submit(context.Background())
	if !errkind.Retryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
	if s.Store().Count(media.CategoryDocument) != 1 {
		t.Fatal("staged attachments lost across transient failure")
	}

	client.submitErr = nil
	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(client.created) != 1 || len(client.created[0].Parts) != 1 {
		t.Fatalf("retried payload = %+v", client.created)
	}
}

func TestEditSessionLoadsPostAndTombstones(t *testing.T) {
	client := &fakePostAPI{post: &api.Post{
		ID:         42,
		Title:      "Old title",
		Content:    "Old body",
		CategoryID: 2,
		Images: []api.PostImage{
			{ID: 1, Name: "a.png"},
			{ID: 2, Name: "b.png"},
		},
		Files: []api.PostFile{{ID: 7, Name: "talk.mp4", FileType: "video"}},
	}}
	s, err := session.NewEdit(context.Background(), session.Options{
		Config:    testsupport.NewConfig(t),
		Client:    client,
		Generator: noopGenerator{},
	}, 42)
	if err != nil {
		t.Fatalf("NewEdit: %v", err)
	}
	defer s.Close()

	if s.Mode() != session.ModeEdit || s.PostID() != 42 {
		t.Fatalf("mode=%s postID=%d", s.Mode(), s.PostID())
	}
	// Loaded fields satisfy the basics step immediately.
	if !s.Gate().Completed(steps.StepBasics) {
		t.Fatal("loaded fields should complete basics")
	}

	if ok, err := s.Tombstone(reconcile.KindImage, 2); err != nil || !ok {
		t.Fatalf("Tombstone: ok=%v err=%v", ok, err)
	}
	s.Confirm()
	result, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.PostID != 42 || len(client.updated) != 1 {
		t.Fatalf("result = %+v", result)
	}
	payload := client.updated[0]
	if len(payload.DeleteImages) != 1 || payload.DeleteImages[0] != 2 {
		t.Fatalf("DeleteImages = %v", payload.DeleteImages)
	}
	if len(payload.Parts) != 0 || len(payload.DeleteFiles) != 0 {
		t.Fatalf("payload carries untouched media: %+v", payload)
	}
}

func TestEditSessionSurfacesAuthorizationFailure(t *testing.T) {
	client := &fakePostAPI{getErr: &api.AuthorizationError{Operation: "load post", Status: 403}}
	_, err := session.NewEdit(context.Background(), session.Options{
		Config:    testsupport.NewConfig(t),
		Client:    client,
		Generator: noopGenerator{},
	}, 42)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errkind.Kind(err) != errkind.KindAuthorization {
		t.Fatalf("kind = %s", errkind.Kind(err))
	}
}

func TestTombstoneInCreateModeFails(t *testing.T) {
	s := newCreateSession(t, &fakePostAPI{})
	if _, err := s.Tombstone(reconcile.KindImage, 1); err == nil {
		t.Fatal("expected an error in create mode")
	}
}
