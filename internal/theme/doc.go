// Package theme tracks the active UI theme for a session.
// The chosen theme is persisted in the state file; when nothing valid is
// stored the desktop's light/dark preference decides.
package theme
