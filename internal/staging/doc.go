// Package staging manages the on-disk workspace where preview artifacts live.
//
// Each authoring session gets its own directory under the configured staging
// root; removing the directory at session close is part of the preview
// release guarantee. CleanStale sweeps directories left behind by sessions
// that died without closing.
package staging
