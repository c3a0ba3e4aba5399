package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the server's post categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			categories, err := client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No categories available")
				return nil
			}
			rows := make([][]string, 0, len(categories))
			for _, category := range categories {
				rows = append(rows, []string{strconv.FormatInt(category.ID, 10), category.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{title: "ID", right: true}, {title: "Name"}},
				rows,
			))
			return nil
		},
	}
}
