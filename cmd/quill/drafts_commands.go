package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"quill/internal/drafts"
	"quill/internal/media"
)

func newDraftsCommand(ctx *commandContext) *cobra.Command {
	draftsCmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage local post drafts",
	}

	draftsCmd.AddCommand(newDraftsListCommand(ctx))
	draftsCmd.AddCommand(newDraftsShowCommand(ctx))
	draftsCmd.AddCommand(newDraftsDeleteCommand(ctx))
	return draftsCmd
}

func withDraftsStore(ctx *commandContext, fn func(*drafts.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := drafts.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newDraftsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraftsStore(ctx, func(store *drafts.Store) error {
				all, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(all) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No drafts saved")
					return nil
				}
				rows := make([][]string, 0, len(all))
				for _, draft := range all {
					rows = append(rows, []string{
						strconv.FormatInt(draft.ID, 10),
						draft.Fields.Title,
						summarize(draft.Fields.Content, 40),
						draft.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]column{{title: "ID", right: true}, {title: "Title"}, {title: "Content"}, {title: "Updated"}},
					rows,
				))
				return nil
			})
		},
	}
}

func newDraftsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <draft-id>",
		Short: "Show one draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid draft id %q", args[0])
			}
			return withDraftsStore(ctx, func(store *drafts.Store) error {
				draft, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				renderHeading(out, fmt.Sprintf("Draft %d", draft.ID))
				fmt.Fprintf(out, "Title:    %s\n", draft.Fields.Title)
				fmt.Fprintf(out, "Category: %d\n", draft.Fields.CategoryID)
				if draft.Fields.Link != "" {
					fmt.Fprintf(out, "Link:     %s\n", draft.Fields.Link)
				}
				fmt.Fprintf(out, "Updated:  %s\n", draft.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				for _, category := range media.AllCategories() {
					for _, path := range draft.Attachments[category] {
						fmt.Fprintf(out, "%s: %s\n", categoryLabel(category), path)
					}
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, draft.Fields.Content)
				return nil
			})
		},
	}
}

func newDraftsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <draft-id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid draft id %q", args[0])
			}
			return withDraftsStore(ctx, func(store *drafts.Store) error {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft %d\n", id)
				return nil
			})
		},
	}
}
