// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for contact syncing:
//  1. [ContactListView] : Browse today's CRM contacts before syncing
//  2. [ConfirmView] : Confirm the sync run and review its policy
//  3. [SyncView] : Monitor real-time progress updates
//  4. [ResultView] : Display outcome counts and failed records
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ContactEngine, providing non-blocking status reporting during the run.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
