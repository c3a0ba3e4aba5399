package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace is a per-session staging directory for preview artifacts.
type Workspace struct {
	dir string
}

// NewWorkspace creates (if needed) the session directory under root.
func NewWorkspace(root, sessionID string) (*Workspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("staging workspace: root directory not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("staging workspace: session id required")
	}
	dir := filepath.Join(root, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path joins parts below the workspace directory.
func (w *Workspace) Path(parts ...string) string {
	return filepath.Join(append([]string{w.dir}, parts...)...)
}

// Remove deletes the workspace directory and everything in it.
func (w *Workspace) Remove() error {
	if w == nil || w.dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove staging workspace: %w", err)
	}
	return nil
}
