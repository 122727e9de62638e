// Package tui provides the interactive interface picker and the
// terminal styles shared with the CLI output.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RezaPourdast/dnsset/internal/ifaces"
)

// pickerModel is a minimal list selector over enumerated interfaces.
type pickerModel struct {
	interfaces []ifaces.Interface
	cursor     int
	chosen     bool
	aborted    bool
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.interfaces)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select Network Interface"))
	b.WriteString("\n\n")

	for i, iface := range m.interfaces {
		label := fmt.Sprintf("%s (%s%s)", iface.Name, iface.IPAddress, iface.CIDR)
		if iface.Default {
			label += " *"
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("▶ ") + itemStyle.Render(label))
		} else {
			b.WriteString(itemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑↓ select • enter confirm • q abort"))
	b.WriteString("\n")
	return b.String()
}

// PickInterface runs the interactive picker. ok is false when the user
// aborted.
func PickInterface(interfaces []ifaces.Interface) (ifaces.Interface, bool, error) {
	if len(interfaces) == 0 {
		return ifaces.Interface{}, false, fmt.Errorf("no interfaces to choose from")
	}

	program := tea.NewProgram(pickerModel{interfaces: interfaces})
	final, err := program.Run()
	if err != nil {
		return ifaces.Interface{}, false, err
	}

	m := final.(pickerModel)
	if m.aborted || !m.chosen {
		return ifaces.Interface{}, false, nil
	}
	return m.interfaces[m.cursor], true, nil
}
