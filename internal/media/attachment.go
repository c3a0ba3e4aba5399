package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Candidate describes a local file proposed for staging. Metadata is derived
// once, before admission, and is immutable afterward.
type Candidate struct {
	Path      string
	Name      string
	SizeBytes int64
	Extension string
}

// DescribeFile stats a local file and derives candidate metadata from it.
// The extension is normalized to lower case without the dot.
func DescribeFile(path string) (Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("describe file: %w", err)
	}
	if info.IsDir() {
		return Candidate{}, fmt.Errorf("describe file: %s is a directory", path)
	}
	name := filepath.Base(path)
	return Candidate{
		Path:      path,
		Name:      name,
		SizeBytes: info.Size(),
		Extension: NormalizeExtension(filepath.Ext(name)),
	}, nil
}

// Attachment is one file staged for upload. The id is unique for the lifetime
// of the authoring session; SourcePath references the host file, which the
// session does not own.
type Attachment struct {
	ID         string
	Category   Category
	SourcePath string
	Name       string
	SizeBytes  int64
	Extension  string
}

// NewAttachment stages an admitted candidate under a fresh session-unique id.
func NewAttachment(category Category, candidate Candidate) Attachment {
	return Attachment{
		ID:         uuid.NewString(),
		Category:   category,
		SourcePath: candidate.Path,
		Name:       candidate.Name,
		SizeBytes:  candidate.SizeBytes,
		Extension:  candidate.Extension,
	}
}

// FormatSize renders a byte count in human units for summary views.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGT"[exp])
}
