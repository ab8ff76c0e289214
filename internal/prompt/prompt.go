// Package prompt asks the user which MIDI device to open and whether to trace
// note numbers.
package prompt

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

type styles struct {
	question lipgloss.Style
	cursor   lipgloss.Style
	dim      lipgloss.Style
	answer   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		question: r.NewStyle().Bold(true),
		cursor:   r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		dim:      r.NewStyle().Faint(true),
		answer:   r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Terminal runs prompts on a terminal.
type Terminal struct {
	in     io.Reader
	out    io.Writer
	styles styles
}

// NewTerminal returns a Terminal reading keys from in and drawing on out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, styles: newStyles(out)}
}

// SelectDevice lets the user pick one of devices and returns its index in the slice.
func (t *Terminal) SelectDevice(devices []contracts.DeviceInfo) (int, error) {
	if len(devices) == 0 {
		return 0, contracts.ErrNoDevices
	}

	final, err := t.run(newPicker("Select a MIDI input device", devices, t.styles))
	if err != nil {
		return 0, err
	}
	p := final.(picker)
	if p.cancelled {
		return 0, ErrCancelled
	}
	return p.cursor, nil
}

// ConfirmDebug asks whether note numbers should be logged. The default is no.
func (t *Terminal) ConfirmDebug() (bool, error) {
	final, err := t.run(newConfirm("Debug note IDs", false, t.styles))
	if err != nil {
		return false, err
	}
	c := final.(confirm)
	if c.cancelled {
		return false, ErrCancelled
	}
	return c.value, nil
}

func (t *Terminal) run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}
