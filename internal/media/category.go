package media

import "strings"

// Category classifies an attachment by media kind.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "document"
)

// allCategories is the canonical category order. Submission payloads and
// summary views iterate categories in this order.
var allCategories = []Category{
	CategoryImage,
	CategoryVideo,
	CategoryAudio,
	CategoryDocument,
}

var categorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(allCategories))
	for _, category := range allCategories {
		set[category] = struct{}{}
	}
	return set
}()

// AllCategories returns the ordered list of known categories.
func AllCategories() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// ParseCategory converts a string into a known Category. It accepts both the
// singular enum value and the plural field name used on the wire.
func ParseCategory(value string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", false
	}
	if category, ok := fieldNameIndex[normalized]; ok {
		return category, true
	}
	category := Category(normalized)
	_, ok := categorySet[category]
	return category, ok
}

// FieldName returns the plural multipart field name for the category, matching
// the submission contract (images, videos, audio, documents).
func (c Category) FieldName() string {
	switch c {
	case CategoryImage:
		return "images"
	case CategoryVideo:
		return "videos"
	case CategoryAudio:
		return "audio"
	case CategoryDocument:
		return "documents"
	default:
		return string(c)
	}
}

var fieldNameIndex = map[string]Category{
	"images":    CategoryImage,
	"videos":    CategoryVideo,
	"audio":     CategoryAudio,
	"documents": CategoryDocument,
}

// IsValid reports whether the category is one of the known enum values.
func (c Category) IsValid() bool {
	_, ok := categorySet[c]
	return ok
}
