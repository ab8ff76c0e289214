// Package report renders startup errors for humans.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// contextLines is how many lines around the offending one are shown.
const contextLines = 2

// Diagnostic is an error with a short classification code.
type Diagnostic interface {
	error
	Code() string
}

// SourceDiagnostic is a Diagnostic that can point into the text that caused it.
type SourceDiagnostic interface {
	Diagnostic
	Source() (name, text string)
	Span() (offset, length int, ok bool)
	Label() string
}

type styles struct {
	title   lipgloss.Style
	code    lipgloss.Style
	gutter  lipgloss.Style
	pointer lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		code:    r.NewStyle().Faint(true),
		gutter:  r.NewStyle().Foreground(lipgloss.Color("12")),
		pointer: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// Render writes err to w. Source diagnostics get an excerpt of the offending
// text with a marker under the reported span.
func Render(w io.Writer, err error) {
	if err == nil {
		return
	}
	st := newStyles(w)

	code := "error"
	var diag Diagnostic
	if errors.As(err, &diag) {
		code = diag.Code()
	}

	fmt.Fprintf(w, "%s %s %s\n", st.title.Render("Error:"), st.code.Render("["+code+"]"), err.Error())

	var src SourceDiagnostic
	if !errors.As(err, &src) {
		return
	}
	name, text := src.Source()
	offset, length, ok := src.Span()
	if !ok {
		renderSource(w, st, name, text)
		return
	}
	renderExcerpt(w, st, name, text, offset, length, src.Label())
}

// renderSource shows the head of text when there is nothing to point at.
func renderSource(w io.Writer, st styles, name, text string) {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if text == "" {
		lines = nil
	}
	shown := min(len(lines), 2*contextLines+1)
	width := len(strconv.Itoa(max(shown, 1)))
	blank := strings.Repeat(" ", width)

	if name != "" {
		fmt.Fprintf(w, "%s %s %s\n", blank, st.gutter.Render("-->"), name)
	}
	if shown == 0 {
		return
	}
	fmt.Fprintf(w, "%s %s\n", blank, st.gutter.Render("|"))
	for i := 0; i < shown; i++ {
		number := fmt.Sprintf("%*d", width, i+1)
		fmt.Fprintf(w, "%s %s %s\n", st.gutter.Render(number), st.gutter.Render("|"), lines[i])
	}
	if shown < len(lines) {
		fmt.Fprintf(w, "%s %s\n", blank, st.gutter.Render("..."))
	}
}

func renderExcerpt(w io.Writer, st styles, name, text string, offset, length int, label string) {
	if offset > len(text) {
		offset = len(text)
	}
	lines := strings.Split(text, "\n")

	// locate the line holding offset
	line, lineStart := 0, 0
	for line < len(lines)-1 && lineStart+len(lines[line])+1 <= offset {
		lineStart += len(lines[line]) + 1
		line++
	}
	column := offset - lineStart

	location := fmt.Sprintf("%d:%d", line+1, column+1)
	if name != "" {
		location = name + ":" + location
	}

	first := max(0, line-contextLines)
	last := min(len(lines)-1, line+contextLines)
	if last > line && last == len(lines)-1 && lines[last] == "" {
		last--
	}
	width := len(strconv.Itoa(last + 1))
	blank := strings.Repeat(" ", width)

	fmt.Fprintf(w, "%s %s %s\n", blank, st.gutter.Render("-->"), location)
	fmt.Fprintf(w, "%s %s\n", blank, st.gutter.Render("|"))

	for i := first; i <= last; i++ {
		number := fmt.Sprintf("%*d", width, i+1)
		fmt.Fprintf(w, "%s %s %s\n", st.gutter.Render(number), st.gutter.Render("|"), lines[i])
		if i != line {
			continue
		}

		current := lines[i]
		end := min(len(current), column+length)
		marks := max(1, utf8.RuneCountInString(current[min(column, len(current)):end]))
		pad := strings.Map(func(r rune) rune {
			if r == '\t' {
				return '\t'
			}
			return ' '
		}, current[:min(column, len(current))])

		marker := strings.Repeat("^", marks)
		if label != "" {
			marker += " " + label
		}
		fmt.Fprintf(w, "%s %s %s%s\n", blank, st.gutter.Render("|"), pad, st.pointer.Render(marker))
	}
}
