// Package tui implements the interactive terminal interface for
// controlling Key Lights.
//
// The interface is a Bubble Tea application following the Elm
// architecture: immutable models, typed messages, and a strict
// Model-Update-View loop. Device I/O never happens in Update; it runs
// inside tea.Cmd closures that report back with typed result messages,
// so the interface stays responsive while a light is slow to answer.
//
// # Screens
//
//   - Picker: runs a one-shot network scan with a spinner, then lists
//     the discovered lights. Enter selects, r rescans, q quits.
//   - Control: shows the selected light's live status. Space or t
//     toggles power, + and - step brightness, [ and ] step the color
//     temperature cooler and warmer, r re-reads the status, esc goes
//     back to the picker.
//
// Errors from the device are rendered inline on the control screen and
// never terminate the program; the previous known status stays visible.
//
// # Framework Components
//
//   - bubbles/list: device list with filtering
//   - bubbles/spinner: scan and in-flight operation indicators
//   - bubbles/progress: brightness meter
//   - bubbles/help + bubbles/key: context-sensitive key legends
//   - lipgloss: styling and layout
//
// # Usage Example
//
//	app := tui.NewAppModel(scan, nil)
//	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
//	    return err
//	}
//
// where scan is a ScanFunc, typically a closure over
// discovery.Browse with the configured timeout.
package tui
