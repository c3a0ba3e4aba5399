package submission_test

import (
	"errors"
	"reflect"
	"testing"

	"quill/internal/errkind"
	"quill/internal/media"
	"quill/internal/reconcile"
	"quill/internal/submission"
)

type fakeLister map[media.Category][]media.Attachment

func (f fakeLister) List(category media.Category) []media.Attachment {
	return f[category]
}

func validFields() submission.Fields {
	return submission.Fields{Title: "Release notes", Content: "Shipping today.", CategoryID: 4}
}

func TestAssembleRefusesIncompleteFields(t *testing.T) {
	_, err := submission.Assemble(submission.Fields{Title: "t"}, fakeLister{}, nil)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if errkind.Kind(err) != errkind.KindValidation {
		t.Fatalf("kind = %s", errkind.Kind(err))
	}
	var fieldErrs submission.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("error %T is not field-keyed", err)
	}
	for _, field := range []string{"content", "category_id"} {
		if len(fieldErrs[field]) == 0 {
			t.Errorf("missing error for field %s", field)
		}
	}
	if len(fieldErrs["title"]) != 0 {
		t.Error("title was provided and must not be flagged")
	}
}

func TestAssembleOrdersPartsByCategoryThenStaging(t *testing.T) {
	store := fakeLister{
		media.CategoryDocument: {{SourcePath: "/d/1.pdf", Name: "1.pdf", Category: media.CategoryDocument}},
		media.CategoryImage: {
			{SourcePath: "/i/a.png", Name: "a.png", Category: media.CategoryImage},
			{SourcePath: "/i/b.png", Name: "b.png", Category: media.CategoryImage},
		},
		media.CategoryAudio: {{SourcePath: "/a/x.mp3", Name: "x.mp3", Category: media.CategoryAudio}},
	}

	payload, err := submission.Assemble(validFields(), store, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	var got []string
	for _, part := range payload.Parts {
		got = append(got, part.FieldName+"/"+part.FileName)
	}
	want := []string{"images/a.png", "images/b.png", "audio/x.mp3", "documents/1.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parts = %v, want %v", got, want)
	}
	if payload.DeleteImages != nil || payload.DeleteFiles != nil {
		t.Fatal("create-mode payload must carry no deletion lists")
	}
}

func TestAssembleEditModeOmitsUntouchedPersistedMedia(t *testing.T) {
	registry := reconcile.NewRegistry([]reconcile.PersistedMedia{
		{ID: 1, Kind: reconcile.KindImage, Name: "one.png"},
		{ID: 2, Kind: reconcile.KindImage, Name: "two.png"},
		{ID: 3, Kind: reconcile.KindImage, Name: "three.png"},
	})
	registry.Tombstone(reconcile.KindImage, 2)

	payload, err := submission.Assemble(validFields(), fakeLister{}, registry)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !reflect.DeepEqual(payload.DeleteImages, []int64{2}) {
		t.Fatalf("DeleteImages = %v, want [2]", payload.DeleteImages)
	}
	if len(payload.DeleteFiles) != 0 {
		t.Fatalf("DeleteFiles = %v", payload.DeleteFiles)
	}
	// Untouched persisted media appears nowhere: not as parts, not as ids.
	if len(payload.Parts) != 0 {
		t.Fatalf("parts = %v", payload.Parts)
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	errs := submission.FieldErrors{}
	errs.Add("title", "title is required")
	if errs.Error() == "" || errs.Error() == "validation failed" {
		t.Fatalf("message = %q", errs.Error())
	}
}
