// Package ui implements the interactive terminal interface for resolution runs.
//
// The TUI follows the Elm architecture via bubbletea: a [Model] holds all
// state, Update reacts to messages, and View renders the current view.
//
// A run starts resolving immediately. While the pipeline works, the running
// view shows a spinner with the current phase and progress counts. Once the
// run finishes, the browse view lists every resolved video; failures are
// summarized beneath the list.
//
// Progress flows from the engine through a buffered channel bridged into
// bubbletea messages one update at a time.
package ui
