package main

import (
	"github.com/spf13/cobra"

	"quill/internal/media"
	"quill/internal/session"
)

type attachFlags struct {
	images    []string
	videos    []string
	audio     []string
	documents []string
}

func (f *attachFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.images, "image", nil, "Image file to attach (repeatable)")
	cmd.Flags().StringArrayVar(&f.videos, "video", nil, "Video file to attach (repeatable)")
	cmd.Flags().StringArrayVar(&f.audio, "audio", nil, "Audio file to attach (repeatable)")
	cmd.Flags().StringArrayVar(&f.documents, "document", nil, "Document file to attach (repeatable)")
}

// restore prepends paths saved with a draft so resumed attachments keep their
// original order ahead of any newly flagged files.
func (f *attachFlags) restore(saved map[media.Category][]string) {
	f.images = append(append([]string{}, saved[media.CategoryImage]...), f.images...)
	f.videos = append(append([]string{}, saved[media.CategoryVideo]...), f.videos...)
	f.audio = append(append([]string{}, saved[media.CategoryAudio]...), f.audio...)
	f.documents = append(append([]string{}, saved[media.CategoryDocument]...), f.documents...)
}

func (f *attachFlags) byCategory() map[media.Category][]string {
	return map[media.Category][]string{
		media.CategoryImage:    f.images,
		media.CategoryVideo:    f.videos,
		media.CategoryAudio:    f.audio,
		media.CategoryDocument: f.documents,
	}
}

// apply stages every requested file, category by category. Rejected files
// produce an aggregate notice per category rather than an error; the valid
// subset is still staged.
func (f *attachFlags) apply(cmd *cobra.Command, s *session.Session) error {
	for _, category := range media.AllCategories() {
		paths := f.byCategory()[category]
		if len(paths) == 0 {
			continue
		}
		decision, err := s.Attach(category, paths)
		if err != nil {
			return err
		}
		renderRejections(cmd.OutOrStdout(), category, decision)
	}
	return nil
}
