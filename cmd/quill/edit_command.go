package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"quill/internal/errkind"
	"quill/internal/reconcile"
	"quill/internal/session"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var (
		title        string
		content      string
		categoryID   int64
		link         string
		attach       attachFlags
		deleteImages []int64
		deleteFiles  []int64
		assumeYes    bool
	)

	cmd := &cobra.Command{
		Use:   "edit <post-id>",
		Short: "Edit an existing post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || postID <= 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			s, err := session.NewEdit(cmd.Context(), session.Options{
				Config: cfg,
				Client: client,
				Logger: ctx.ensureLogger(),
			}, postID)
			if err != nil {
				switch errkind.Kind(err) {
				case errkind.KindAuthorization:
					return fmt.Errorf("you are not allowed to edit post %d: %w", postID, err)
				case errkind.KindNotFound:
					return fmt.Errorf("post %d does not exist: %w", postID, err)
				}
				return err
			}
			defer s.Close()

			// Loaded values stand unless a flag was given.
			if cmd.Flags().Changed("title") {
				s.SetTitle(title)
			}
			if cmd.Flags().Changed("content") {
				s.SetContent(content)
			}
			if cmd.Flags().Changed("category") {
				s.SetCategoryID(categoryID)
			}
			if cmd.Flags().Changed("link") {
				s.SetLink(link)
			}

			if err := attach.apply(cmd, s); err != nil {
				return err
			}

			if err := applyTombstones(cmd, s, reconcile.KindImage, deleteImages, assumeYes); err != nil {
				return err
			}
			if err := applyTombstones(cmd, s, reconcile.KindFile, deleteFiles, assumeYes); err != nil {
				return err
			}

			gate := s.Gate()
			if err := gate.Next(); err != nil {
				return fmt.Errorf("title, content, and category are required: %w", err)
			}
			if err := gate.Next(); err != nil {
				return err
			}

			s.Previews().Wait()
			renderReview(cmd.OutOrStdout(), s)

			if !assumeYes {
				ok, err := promptConfirm(cmd, "Submit these changes?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Edit cancelled; nothing was changed on the server")
					return nil
				}
			}
			s.Confirm()

			result, err := s.Submit(cmd.Context())
			if err != nil {
				if notifier := ctx.notifier(); notifier != nil {
					_ = notifier.NotifySubmissionFailed(cmd.Context(), s.Fields().Title, err)
				}
				if errkind.Retryable(err) {
					return fmt.Errorf("%w (staged files and pending deletions are untouched; run the same command again to retry)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated post %d\n", result.PostID)
			if notifier := ctx.notifier(); notifier != nil {
				_ = notifier.NotifyPostUpdated(cmd.Context(), s.Fields().Title, result.PostID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Replacement title")
	cmd.Flags().StringVar(&content, "content", "", "Replacement body")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "Replacement category id")
	cmd.Flags().StringVar(&link, "link", "", "Replacement link")
	attach.register(cmd)
	cmd.Flags().Int64SliceVar(&deleteImages, "delete-image", nil, "Persisted image id to delete (repeatable)")
	cmd.Flags().Int64SliceVar(&deleteFiles, "delete-file", nil, "Persisted file id to delete (repeatable)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
	return cmd
}

// applyTombstones marks persisted media for deletion. Deletions cannot be
// undone within the session, so each one is confirmed unless --yes was
// given. Unknown ids are reported but do not abort the edit.
func applyTombstones(cmd *cobra.Command, s *session.Session, kind reconcile.Kind, ids []int64, assumeYes bool) error {
	out := cmd.OutOrStdout()
	for _, id := range ids {
		registry := s.Registry()
		entry, known := registry.Lookup(kind, id)
		if !known {
			fmt.Fprintf(out, "Skipping unknown %s id %d\n", kind, id)
			continue
		}
		if !assumeYes {
			ok, err := promptConfirm(cmd, fmt.Sprintf("Delete %s %d (%s)? This cannot be undone in this session", kind, id, entry.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "Keeping %s %d\n", kind, id)
				continue
			}
		}
		if _, err := s.Tombstone(kind, id); err != nil {
			return err
		}
	}
	return nil
}
