package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap lists the dashboard bindings. Everything else is ignored.
type keyMap struct {
	Quit   key.Binding
	Select key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("delete", "ctrl+c"),
		key.WithHelp("delete", "exit"),
	),
	Select: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "show device"),
	),
}

// HandleKeyMsg applies a key press. It reports whether the key was bound.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.log.Info("Exiting..")
		return true, tea.Quit

	case key.Matches(msg, keys.Select):
		n := int(msg.String()[0] - '0')
		return true, m.selectDevice(n - 1)
	}
	return false, nil
}

// selectDevice shows device i when it exists. Switching to a board of another
// generation clears the screen so no stale cells of the old layout survive.
func (m *Model) selectDevice(i int) tea.Cmd {
	if m.snapshot == nil || i < 0 || i >= len(m.snapshot.Devices) {
		return nil
	}

	var cmds []tea.Cmd
	if m.snapshot.Devices[m.selected].Variant != m.snapshot.Devices[i].Variant {
		cmds = append(cmds, tea.ClearScreen)
	}
	m.selected = i
	m.log.Info("Showing device %d", i)

	cmds = append(cmds, m.startRefresh())
	return tea.Batch(cmds...)
}
