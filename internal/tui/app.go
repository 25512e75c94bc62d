package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/keylightctl/internal/discovery"
)

// Screen identifies the active screen of the application
type Screen string

const (
	ScreenPicker  Screen = "picker"
	ScreenControl Screen = "control"
)

// ScanFunc performs one network scan and returns the lights found. The
// picker runs it inside a tea.Cmd so scanning never blocks the UI.
type ScanFunc func() ([]discovery.Device, error)

// AppModel is the top-level coordinator that routes messages to the
// active screen and handles transitions between them.
type AppModel struct {
	CurrentScreen Screen

	Picker  PickerModel
	Control ControlModel

	Width  int
	Height int

	scan ScanFunc
}

// NewAppModel creates the application model. With a preselected device
// the app opens straight on the control screen; otherwise it starts at
// the picker.
func NewAppModel(scan ScanFunc, device *discovery.Device) AppModel {
	model := AppModel{
		CurrentScreen: ScreenPicker,
		Picker:        NewPickerModel(scan),
		scan:          scan,
	}
	if device != nil {
		model.CurrentScreen = ScreenControl
		model.Control = NewControlModel(*device)
	}
	return model
}

// Init initializes the starting screen.
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenControl:
		return m.Control.Init()
	default:
		return m.Picker.Init()
	}
}

// Update handles global messages and routes the rest to the active
// screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes a message to the active screen and applies
// any transition it requested.
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenPicker:
		updated, c := m.Picker.Update(msg)
		m.Picker = updated.(PickerModel)
		cmd = c

		if m.Picker.Selected {
			if device := m.Picker.SelectedDevice(); device != nil {
				return m.openControl(*device)
			}
			m.Picker.Selected = false
		}

	case ScreenControl:
		updated, c := m.Control.Update(msg)
		m.Control = updated.(ControlModel)
		cmd = c

		if m.Control.BackRequested {
			return m.openPicker()
		}
	}

	return m, cmd
}

// openControl switches to the control screen for the given device.
func (m AppModel) openControl(device discovery.Device) (tea.Model, tea.Cmd) {
	m.CurrentScreen = ScreenControl
	m.Control = NewControlModel(device)
	m.Control.SetSize(m.Width, m.Height)
	return m, m.Control.Init()
}

// openPicker switches back to the picker and starts a fresh scan.
func (m AppModel) openPicker() (tea.Model, tea.Cmd) {
	m.CurrentScreen = ScreenPicker
	m.Picker = NewPickerModel(m.scan)
	m.Picker.SetSize(m.Width, m.Height)
	return m, m.Picker.Init()
}

// View renders the active screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenControl:
		return m.Control.View()
	default:
		return m.Picker.View()
	}
}
