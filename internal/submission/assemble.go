package submission

import (
	"quill/internal/media"
	"quill/internal/reconcile"
)

// FilePart is one attachment destined for a multipart form part. The part
// name comes from the attachment's category.
type FilePart struct {
	FieldName  string
	SourcePath string
	FileName   string
	SizeBytes  int64
}

// Payload is the complete, ordered description of one submission request.
type Payload struct {
	Fields       Fields
	Parts        []FilePart
	DeleteImages []int64
	DeleteFiles  []int64
}

// Lister is the attachment store surface the assembler reads.
type Lister interface {
	List(category media.Category) []media.Attachment
}

// Assemble validates the form fields and builds the payload. Categories
// appear in fixed order, attachments within each category in staging order.
// Pass a nil registry in create mode; in edit mode the registry's tombstoned
// ids become the deletion lists, and untouched persisted media contributes
// nothing to the payload at all.
func Assemble(fields Fields, store Lister, registry *reconcile.Registry) (Payload, error) {
	if err := fields.Validate(); err != nil {
		return Payload{}, err
	}

	payload := Payload{Fields: fields}
	for _, category := range media.AllCategories() {
		for _, attachment := range store.List(category) {
			payload.Parts = append(payload.Parts, FilePart{
				FieldName:  category.FieldName(),
				SourcePath: attachment.SourcePath,
				FileName:   attachment.Name,
				SizeBytes:  attachment.SizeBytes,
			})
		}
	}
	if registry != nil {
		payload.DeleteImages = registry.Tombstoned(reconcile.KindImage)
		payload.DeleteFiles = registry.Tombstoned(reconcile.KindFile)
	}
	return payload, nil
}
