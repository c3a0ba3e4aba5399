package preview

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"quill/internal/fileutil"
	"quill/internal/media"
	"quill/internal/staging"
)

// Artifact is the renderable output of preview generation. Path is empty for
// document attachments, which carry metadata only. Width and Height are set
// for images whose format the probe understands.
type Artifact struct {
	Path   string
	Width  int
	Height int
}

// Generator produces a preview artifact for one staged attachment. Tests
// substitute implementations to control completion timing.
type Generator interface {
	Generate(attachment media.Attachment, workspace *staging.Workspace) (Artifact, error)
}

type fileGenerator struct{}

func (fileGenerator) Generate(attachment media.Attachment, workspace *staging.Workspace) (Artifact, error) {
	switch attachment.Category {
	case media.CategoryDocument:
		// Documents render from metadata alone.
		return Artifact{}, nil
	case media.CategoryImage:
		artifact := Artifact{}
		if width, height, err := probeImage(attachment.SourcePath); err == nil {
			artifact.Width = width
			artifact.Height = height
		}
		// Formats without a registered decoder (webp) still get a viewable
		// staging copy, just without dimensions.
		path := workspace.Path("previews", attachment.ID+"."+attachment.Extension)
		if err := fileutil.CopyFile(attachment.SourcePath, path); err != nil {
			return Artifact{}, fmt.Errorf("stage image preview: %w", err)
		}
		artifact.Path = path
		return artifact, nil
	case media.CategoryVideo, media.CategoryAudio:
		path := workspace.Path("previews", attachment.ID+"."+attachment.Extension)
		if err := fileutil.CopyFile(attachment.SourcePath, path); err != nil {
			return Artifact{}, fmt.Errorf("stage %s preview: %w", attachment.Category, err)
		}
		return Artifact{Path: path}, nil
	default:
		return Artifact{}, fmt.Errorf("generate preview: unknown category %q", attachment.Category)
	}
}

func probeImage(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
