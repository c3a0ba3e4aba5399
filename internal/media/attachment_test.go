package media_test

import (
	"os"
	"path/filepath"
	"testing"

	"quill/internal/media"
)

func TestDescribeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Report.PDF")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	candidate, err := media.DescribeFile(path)
	if err != nil {
		t.Fatalf("DescribeFile failed: %v", err)
	}
	if candidate.Name != "Report.PDF" {
		t.Fatalf("unexpected name %q", candidate.Name)
	}
	if candidate.Extension != "pdf" {
		t.Fatalf("expected lower-cased extension, got %q", candidate.Extension)
	}
	if candidate.SizeBytes != int64(len("content")) {
		t.Fatalf("unexpected size %d", candidate.SizeBytes)
	}
}

func TestDescribeFileRejectsDirectories(t *testing.T) {
	if _, err := media.DescribeFile(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestNewAttachmentAssignsUniqueIDs(t *testing.T) {
	candidate := media.Candidate{Path: "/tmp/a.png", Name: "a.png", Extension: "png"}
	first := media.NewAttachment(media.CategoryImage, candidate)
	second := media.NewAttachment(media.CategoryImage, candidate)
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected unique ids, got %q and %q", first.ID, second.ID)
	}
	if first.Category != media.CategoryImage || first.Name != "a.png" {
		t.Fatalf("metadata not carried over: %+v", first)
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := media.FormatSize(tc.bytes); got != tc.want {
			t.Fatalf("FormatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
