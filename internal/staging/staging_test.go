package staging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"quill/internal/staging"
)

func TestWorkspaceLifecycle(t *testing.T) {
	root := t.TempDir()
	ws, err := staging.NewWorkspace(root, "session-1")
	if err != nil {
		t.Fatalf("NewWorkspace failed: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); err != nil {
		t.Fatalf("workspace directory missing: %v", err)
	}

	artifact := ws.Path("previews", "a.png")
	if err := os.MkdirAll(filepath.Dir(artifact), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(artifact, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ws.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Fatalf("workspace should be gone, stat err = %v", err)
	}
}

func TestNewWorkspaceRequiresRootAndSession(t *testing.T) {
	if _, err := staging.NewWorkspace("", "s"); err == nil {
		t.Fatal("expected error for empty root")
	}
	if _, err := staging.NewWorkspace(t.TempDir(), " "); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestCleanStaleRemovesOnlyOldDirectories(t *testing.T) {
	root := t.TempDir()
	oldDir := filepath.Join(root, "old-session")
	newDir := filepath.Join(root, "new-session")
	for _, dir := range []string{oldDir, newDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldDir, past, past); err != nil {
		t.Fatal(err)
	}

	result := staging.CleanStale(root, 24*time.Hour, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected only old dir removed, got %+v", result.Removed)
	}
	if _, err := os.Stat(newDir); err != nil {
		t.Fatalf("fresh workspace should survive: %v", err)
	}
}

func TestCleanStaleMissingRootIsQuiet(t *testing.T) {
	result := staging.CleanStale(filepath.Join(t.TempDir(), "absent"), time.Hour, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}
