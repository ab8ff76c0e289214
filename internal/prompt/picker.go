package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

type picker struct {
	title     string
	choices   []string
	cursor    int
	done      bool
	cancelled bool
	styles    styles
}

func newPicker(title string, devices []contracts.DeviceInfo, st styles) picker {
	choices := make([]string, len(devices))
	for i, d := range devices {
		choices[i] = d.String()
	}
	return picker{title: title, choices: choices, styles: st}
}

func (m picker) Init() tea.Cmd {
	return nil
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString(m.styles.question.Render("? " + m.title))

	if m.done {
		b.WriteString(" " + m.styles.answer.Render(m.choices[m.cursor]) + "\n")
		return b.String()
	}
	if m.cancelled {
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString(m.styles.cursor.Render("> "+choice) + "\n")
			continue
		}
		b.WriteString("  " + choice + "\n")
	}
	b.WriteString(m.styles.dim.Render("↑/↓ to move, enter to select, esc to quit") + "\n")
	return b.String()
}
