package prompt

import (
	tea "github.com/charmbracelet/bubbletea"
)

// confirm is a yes/no question answered with a single key.
type confirm struct {
	question  string
	value     bool
	done      bool
	cancelled bool
	styles    styles
}

func newConfirm(question string, def bool, st styles) confirm {
	return confirm{question: question, value: def, styles: st}
}

func (m confirm) Init() tea.Cmd {
	return nil
}

func (m confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "y", "Y":
		m.value = true
	case "n", "N":
		m.value = false
	case "enter":
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirm) View() string {
	q := m.styles.question.Render("? " + m.question)
	switch {
	case m.done:
		answer := "No"
		if m.value {
			answer = "Yes"
		}
		return q + " " + m.styles.answer.Render(answer) + "\n"
	case m.cancelled:
		return q + "\n"
	}

	hint := "(y/N)"
	if m.value {
		hint = "(Y/n)"
	}
	return q + " " + m.styles.dim.Render(hint)
}
