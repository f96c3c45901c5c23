// Package ui contains the Bubble Tea program behind the path picker.
//
// Model implements picker.Surface: the picker subscribes to its events and
// feeds it candidates, while the model owns input editing, the selection
// cursor and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry (keys, window size, watcher events).
//   - Edits to the typed value raise value-changed through the embedded
//     picker.Dispatcher; the picker's handler regenerates candidates and calls
//     SetItems before Update returns.
//   - Enter raises accept. Hide, whether called by the picker or bound to
//     esc, makes the current update return tea.Quit; Show's goroutine raises
//     hidden once the program has exited.
//
// State ownership:
//   - List state lives in internal/ui/state.List, which tracks the full and
//     filtered candidates, the typed value and both cursors.
//
// Live refresh:
//   - When a backend.Watcher is supplied, SetItems points it at the directory
//     the current value lists. A reported change re-raises value-changed so the
//     listing is regenerated without a keystroke.
package ui
