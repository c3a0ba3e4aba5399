package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quill/internal/media"
	"quill/internal/reconcile"
	"quill/internal/session"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

var titleCaser = cases.Title(language.English)

func categoryLabel(category media.Category) string {
	return titleCaser.String(category.FieldName())
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderHeading(out io.Writer, heading string) {
	rule := strings.Repeat("-", len(heading))
	if shouldColorize(out) {
		heading = ansiBlue + heading + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	fmt.Fprintln(out, heading)
	fmt.Fprintln(out, rule)
}

// renderReview prints the step-three summary: fields, staged attachments,
// and in edit mode the remaining persisted media plus pending deletions.
func renderReview(out io.Writer, s *session.Session) {
	renderHeading(out, "Review")
	fields := s.Fields()
	fmt.Fprintf(out, "Title:    %s\n", fields.Title)
	fmt.Fprintf(out, "Category: %d\n", fields.CategoryID)
	if fields.Link != "" {
		fmt.Fprintf(out, "Link:     %s\n", fields.Link)
	}
	fmt.Fprintf(out, "Content:  %s\n", summarize(fields.Content, 120))

	if s.Store().TotalCount() > 0 {
		fmt.Fprintln(out)
		renderHeading(out, "Staged attachments")
		rows := make([][]string, 0, s.Store().TotalCount())
		for _, category := range media.AllCategories() {
			for _, attachment := range s.Store().List(category) {
				preview := ""
				if snapshot, ok := s.Previews().Snapshot(attachment.ID); ok {
					preview = string(snapshot.State)
					if snapshot.Width > 0 && snapshot.Height > 0 {
						preview = fmt.Sprintf("%s %dx%d", preview, snapshot.Width, snapshot.Height)
					}
				}
				rows = append(rows, []string{
					categoryLabel(category),
					attachment.Name,
					media.FormatSize(attachment.SizeBytes),
					preview,
				})
			}
		}
		fmt.Fprintln(out, renderTable(
			[]column{{title: "Category"}, {title: "Name"}, {title: "Size", right: true}, {title: "Preview"}},
			rows,
		))
	}

	if registry := s.Registry(); registry != nil {
		renderPersisted(out, registry)
	}
}

func renderPersisted(out io.Writer, registry *reconcile.Registry) {
	var rows [][]string
	for _, kind := range []reconcile.Kind{reconcile.KindImage, reconcile.KindFile} {
		for _, entry := range registry.VisiblePersisted(kind) {
			rows = append(rows, []string{
				fmt.Sprintf("%d", entry.ID),
				string(kind),
				entry.Name,
				media.FormatSize(entry.SizeBytes),
			})
		}
	}
	if len(rows) > 0 {
		fmt.Fprintln(out)
		renderHeading(out, "Existing media (unchanged)")
		fmt.Fprintln(out, renderTable(
			[]column{{title: "ID", right: true}, {title: "Kind"}, {title: "Name"}, {title: "Size", right: true}},
			rows,
		))
	}

	images, files := registry.PendingDeletionCounts()
	if images+files > 0 {
		fmt.Fprintln(out)
		renderHeading(out, "Pending deletions")
		for _, id := range registry.Tombstoned(reconcile.KindImage) {
			if entry, ok := registry.Lookup(reconcile.KindImage, id); ok {
				fmt.Fprintf(out, "image %d (%s)\n", id, entry.Name)
			}
		}
		for _, id := range registry.Tombstoned(reconcile.KindFile) {
			if entry, ok := registry.Lookup(reconcile.KindFile, id); ok {
				fmt.Fprintf(out, "file %d (%s)\n", id, entry.Name)
			}
		}
	}
}

func renderRejections(out io.Writer, category media.Category, decision media.Decision) {
	if len(decision.Rejected) == 0 {
		return
	}
	fmt.Fprintln(out, decision.RejectionNotice(category))
	for _, rejection := range decision.Rejected {
		fmt.Fprintf(out, "  %s\n", rejection.Candidate.Name)
	}
}

func summarize(text string, limit int) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

// promptConfirm asks for the explicit confirmation that unlocks submission.
func promptConfirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
