// Package drafts persists unsubmitted post drafts locally so an authoring
// session can be resumed after the CLI exits. Drafts carry form fields only;
// staged attachments are per-session and are not persisted.
package drafts
