// Package api is the HTTP client for the posts service. It exposes the four
// operations the authoring flow needs: load a post for editing, list
// categories, create a post, and update a post. All calls take a context and
// classify failures so callers can decide between fixing input, giving up,
// and retrying.
package api
