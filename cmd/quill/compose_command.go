package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/drafts"
	"quill/internal/errkind"
	"quill/internal/session"
	"quill/internal/steps"
	"quill/internal/submission"
)

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var (
		title      string
		content    string
		categoryID int64
		link       string
		attach     attachFlags
		saveDraft  bool
		fromDraft  int64
		assumeYes  bool
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose and submit a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}

			fields := submission.Fields{Title: title, Content: content, CategoryID: categoryID, Link: link}
			var sourceDraft *drafts.Draft
			if fromDraft > 0 {
				store, err := drafts.Open(cfg)
				if err != nil {
					return err
				}
				draft, err := store.Get(cmd.Context(), fromDraft)
				closeErr := store.Close()
				if err != nil {
					return err
				}
				if closeErr != nil {
					return closeErr
				}
				sourceDraft = draft
				fields = mergeFields(draft.Fields, cmd, fields)
				attach.restore(draft.Attachments)
			}

			s, err := session.NewCreate(session.Options{
				Config: cfg,
				Client: client,
				Logger: ctx.ensureLogger(),
			})
			if err != nil {
				return err
			}
			defer s.Close()

			s.SetTitle(fields.Title)
			s.SetContent(fields.Content)
			s.SetCategoryID(fields.CategoryID)
			s.SetLink(fields.Link)

			if saveDraft {
				store, err := drafts.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				draft := drafts.Draft{Fields: s.Fields(), Attachments: attach.byCategory()}
				if sourceDraft != nil {
					draft.ID = sourceDraft.ID
					draft.CreatedAt = sourceDraft.CreatedAt
				}
				saved, err := store.Save(cmd.Context(), draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved draft %d\n", saved.ID)
				return nil
			}

			if err := attach.apply(cmd, s); err != nil {
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
				ok, err := promptConfirm(cmd, "Submit this post?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Submission cancelled")
					return nil
				}
			}
			s.Confirm()
			if gate.Current() != steps.StepReview {
				return fmt.Errorf("unexpected wizard state: step %d", gate.Current())
			}

			result, err := s.Submit(cmd.Context())
			if err != nil {
				if notifier := ctx.notifier(); notifier != nil {
					_ = notifier.NotifySubmissionFailed(cmd.Context(), s.Fields().Title, err)
				}
				if errkind.Retryable(err) {
					return fmt.Errorf("%w (staged files are untouched; run the same command again to retry)", err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Published post %d\n", result.PostID)
			if notifier := ctx.notifier(); notifier != nil {
				_ = notifier.NotifyPostPublished(cmd.Context(), s.Fields().Title, result.PostID)
			}

			if sourceDraft != nil {
				store, err := drafts.Open(cfg)
				if err == nil {
					_ = store.Delete(cmd.Context(), sourceDraft.ID)
					_ = store.Close()
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Post title")
	cmd.Flags().StringVar(&content, "content", "", "Post body")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "Category id (see 'quill categories')")
	cmd.Flags().StringVar(&link, "link", "", "Optional link to include")
	attach.register(cmd)
	cmd.Flags().BoolVar(&saveDraft, "draft", false, "Save as a local draft instead of submitting")
	cmd.Flags().Int64Var(&fromDraft, "from-draft", 0, "Start from a saved draft id")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the review confirmation prompt")
	return cmd
}

// mergeFields overlays explicitly-set flags onto draft fields.
func mergeFields(base submission.Fields, cmd *cobra.Command, overlay submission.Fields) submission.Fields {
	if cmd.Flags().Changed("title") {
		base.Title = overlay.Title
	}
	if cmd.Flags().Changed("content") {
		base.Content = overlay.Content
	}
	if cmd.Flags().Changed("category") {
		base.CategoryID = overlay.CategoryID
	}
	if cmd.Flags().Changed("link") {
		base.Link = overlay.Link
	}
	return base
}
