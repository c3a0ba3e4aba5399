// Package logging builds the slog loggers used across quill.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Component loggers carry a standardized
// component attribute, and the Field* constants keep structured keys
// consistent (session, post, category, attachment identifiers).
//
// Construct loggers through New or NewFromConfig so level parsing and output
// wiring stay in one place; tests use NewNop.
package logging
