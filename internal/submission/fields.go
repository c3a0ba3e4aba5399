package submission

import (
	"sort"
	"strings"

	"quill/internal/errkind"
)

// Fields holds the form values submitted alongside attachments.
type Fields struct {
	Title      string
	Content    string
	CategoryID int64
	Link       string
}

// FieldErrors maps field names to their validation messages. It doubles as
// the local validation error and as the decoded shape of a server-side 400.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("validation failed:")
	for _, name := range names {
		for _, msg := range e[name] {
			b.WriteString(" ")
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(msg)
			b.WriteString(";")
		}
	}
	return strings.TrimSuffix(b.String(), ";")
}

func (e FieldErrors) ErrorKind() string {
	return errkind.KindValidation
}

// Add appends a message for the field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Validate checks the required fields. A nil return means the fields are
// complete enough to assemble a payload.
func (f Fields) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Title) == "" {
		errs.Add("title", "title is required")
	}
	if strings.TrimSpace(f.Content) == "" {
		errs.Add("content", "content is required")
	}
	if f.CategoryID <= 0 {
		errs.Add("category_id", "a category must be selected")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Complete reports whether the required fields would pass validation. The
// step gate uses this to recompute basics completion.
func (f Fields) Complete() bool {
	return f.Validate() == nil
}
