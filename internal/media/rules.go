package media

import (
	"fmt"
	"strings"
)

// RejectionReason distinguishes why a candidate file was refused. Callers rely
// on the distinction for user messaging, so these are the only two values.
type RejectionReason string

const (
	ReasonUnsupportedType RejectionReason = "unsupported_type"
	ReasonQuotaExceeded   RejectionReason = "quota_exceeded"
)

// DefaultMaxImages and DefaultMaxFiles are the quota defaults used when the
// configuration does not override them.
const (
	DefaultMaxImages = 10
	DefaultMaxFiles  = 5
)

var defaultExtensions = map[Category][]string{
	CategoryImage:    {"jpg", "jpeg", "png", "gif", "webp"},
	CategoryVideo:    {"mp4", "avi", "mov", "wmv", "webm"},
	CategoryAudio:    {"mp3", "wav", "ogg", "m4a", "flac"},
	CategoryDocument: {"pdf", "doc", "docx", "txt", "zip", "rar", "pptx", "xlsx"},
}

// Rules holds per-category admission constraints: the extension allow-list and
// the maximum attachment count.
type Rules struct {
	allowed map[Category]map[string]struct{}
	maxes   map[Category]int
}

// DefaultRules returns the platform default allow-lists and quotas.
func DefaultRules() *Rules {
	return NewRules(defaultExtensions, map[Category]int{
		CategoryImage:    DefaultMaxImages,
		CategoryVideo:    DefaultMaxFiles,
		CategoryAudio:    DefaultMaxFiles,
		CategoryDocument: DefaultMaxFiles,
	})
}

// NewRules builds a rule set from raw extension lists and quotas. Extensions
// are normalized to lower case with any leading dot stripped. Categories
// missing from either map fall back to the defaults.
func NewRules(extensions map[Category][]string, maxes map[Category]int) *Rules {
	rules := &Rules{
		allowed: make(map[Category]map[string]struct{}, len(allCategories)),
		maxes:   make(map[Category]int, len(allCategories)),
	}
	for _, category := range allCategories {
		list := extensions[category]
		if len(list) == 0 {
			list = defaultExtensions[category]
		}
		set := make(map[string]struct{}, len(list))
		for _, ext := range list {
			normalized := NormalizeExtension(ext)
			if normalized == "" {
				continue
			}
			set[normalized] = struct{}{}
		}
		rules.allowed[category] = set

		max := maxes[category]
		if max <= 0 {
			if category == CategoryImage {
				max = DefaultMaxImages
			} else {
				max = DefaultMaxFiles
			}
		}
		rules.maxes[category] = max
	}
	return rules
}

// MaxCount returns the maximum number of attachments the category accepts.
func (r *Rules) MaxCount(category Category) int {
	return r.maxes[category]
}

// Allows reports whether the extension is admissible for the category.
// Matching is case-insensitive.
func (r *Rules) Allows(category Category, extension string) bool {
	set, ok := r.allowed[category]
	if !ok {
		return false
	}
	_, ok = set[NormalizeExtension(extension)]
	return ok
}

// Extensions returns the sorted-by-insertion allow-list for display purposes.
func (r *Rules) Extensions(category Category) []string {
	set := r.allowed[category]
	out := make([]string, 0, len(set))
	for _, ext := range defaultExtensions[category] {
		if _, ok := set[ext]; ok {
			out = append(out, ext)
		}
	}
	// Include overrides that are not part of the defaults.
	for ext := range set {
		if !containsString(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// NormalizeExtension lower-cases an extension and strips a leading dot.
func NormalizeExtension(extension string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(extension)), ".")
}

// Rejection pairs a refused candidate with its reason.
type Rejection struct {
	Candidate Candidate
	Reason    RejectionReason
}

// Decision is the outcome of admitting a candidate batch: the admissible
// subset and the rejected subset, in input order.
type Decision struct {
	Admitted []Candidate
	Rejected []Rejection
}

// Admit evaluates the whole candidate batch against the category rules.
// currentCount is the number of attachments already staged in the category.
// The batch is never partially aborted: valid candidates are admitted up to
// the quota and everything else lands in Rejected with a distinguishable
// reason.
func (r *Rules) Admit(category Category, candidates []Candidate, currentCount int) Decision {
	decision := Decision{}
	remaining := r.MaxCount(category) - currentCount
	for _, candidate := range candidates {
		if !r.Allows(category, candidate.Extension) {
			decision.Rejected = append(decision.Rejected, Rejection{Candidate: candidate, Reason: ReasonUnsupportedType})
			continue
		}
		if remaining <= 0 {
			decision.Rejected = append(decision.Rejected, Rejection{Candidate: candidate, Reason: ReasonQuotaExceeded})
			continue
		}
		decision.Admitted = append(decision.Admitted, candidate)
		remaining--
	}
	return decision
}

// RejectionNotice renders one aggregate message for a decision's rejected
// subset, or "" when nothing was rejected.
func (d Decision) RejectionNotice(category Category) string {
	if len(d.Rejected) == 0 {
		return ""
	}
	var unsupported, overQuota int
	for _, rejection := range d.Rejected {
		switch rejection.Reason {
		case ReasonUnsupportedType:
			unsupported++
		case ReasonQuotaExceeded:
			overQuota++
		}
	}
	parts := make([]string, 0, 2)
	if unsupported > 0 {
		parts = append(parts, fmt.Sprintf("%d unsupported file type(s)", unsupported))
	}
	if overQuota > 0 {
		parts = append(parts, fmt.Sprintf("%d over the %s limit", overQuota, category.FieldName()))
	}
	return fmt.Sprintf("skipped %s", strings.Join(parts, " and "))
}
