// Package submission builds the request payload handed to the posts API.
// Assembly is deterministic: categories appear in fixed order, attachments
// within a category in staging order, and persisted media that was never
// tombstoned is omitted entirely so the server leaves it untouched.
package submission
