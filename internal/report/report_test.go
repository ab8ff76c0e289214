package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/midikeys/internal/mapping"
)

type codedError struct{ code string }

func (e codedError) Error() string { return "no MIDI devices found" }
func (e codedError) Code() string  { return e.code }

func TestRenderPlainError(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, errors.New("boom"))
	assert.Equal(t, "Error: [error] boom\n", buf.String())
}

func TestRenderNil(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestRenderWrappedDiagnosticCode(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, fmt.Errorf("startup: %w", codedError{code: "devices"}))
	assert.Equal(t, "Error: [devices] startup: no MIDI devices found\n", buf.String())
}

func TestRenderConfigErrorIncludesSource(t *testing.T) {
	raw := "[[mapping]]\nnote = 60\nkey = = 65\n"
	_, err := mapping.Parse(raw)
	require.Error(t, err)

	var buf bytes.Buffer
	Render(&buf, err)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Error: [config] configuration error"), out)
	for _, line := range strings.Split(strings.TrimSuffix(raw, "\n"), "\n") {
		assert.Contains(t, out, line)
	}
	assert.Contains(t, out, "^")
}

type spanError struct {
	text           string
	offset, length int
}

func (e spanError) Error() string            { return "configuration error" }
func (e spanError) Code() string             { return "config" }
func (e spanError) Source() (string, string) { return "pad.toml", e.text }
func (e spanError) Span() (int, int, bool)   { return e.offset, e.length, true }
func (e spanError) Label() string            { return "bad value" }

func TestRenderExcerptLayout(t *testing.T) {
	text := "[[mapping]]\nnote = 60\nkey = x\n"
	var buf bytes.Buffer
	Render(&buf, spanError{text: text, offset: strings.Index(text, "x"), length: 1})

	want := "Error: [config] configuration error\n" +
		"  --> pad.toml:3:7\n" +
		"  |\n" +
		"1 | [[mapping]]\n" +
		"2 | note = 60\n" +
		"3 | key = x\n" +
		"  |       ^ bad value\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderExcerptAtEndOfText(t *testing.T) {
	text := "[[mapping]"
	var buf bytes.Buffer
	Render(&buf, spanError{text: text, offset: 99, length: 0})

	out := buf.String()
	assert.Contains(t, out, "pad.toml:1:11")
	assert.Contains(t, out, "1 | [[mapping]\n")
	assert.Contains(t, out, "^ bad value")
}

type unplacedError struct{ name, text string }

func (e unplacedError) Error() string            { return "configuration error: missing `mapping` collection" }
func (e unplacedError) Code() string             { return "config" }
func (e unplacedError) Source() (string, string) { return e.name, e.text }
func (e unplacedError) Span() (int, int, bool)   { return 0, 0, false }
func (e unplacedError) Label() string            { return "" }

func TestRenderSourceWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, unplacedError{name: "pad.toml", text: "title = \"pad\"\nmode = 1\n"})

	want := "Error: [config] configuration error: missing `mapping` collection\n" +
		"  --> pad.toml\n" +
		"  |\n" +
		"1 | title = \"pad\"\n" +
		"2 | mode = 1\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderSourceWithoutSpanTruncates(t *testing.T) {
	text := strings.Repeat("# comment\n", 8)
	var buf bytes.Buffer
	Render(&buf, unplacedError{text: text})

	out := buf.String()
	assert.Contains(t, out, "5 | # comment\n")
	assert.NotContains(t, out, "6 |")
	assert.Contains(t, out, "  ...\n")
	assert.NotContains(t, out, "-->")
}

func TestRenderWrongTypeConfigError(t *testing.T) {
	raw := "[[mapping]]\nnote = \"sixty\"\nkey = 65\n"
	_, err := mapping.Parse(raw)
	require.Error(t, err)

	var buf bytes.Buffer
	Render(&buf, err)
	out := buf.String()

	assert.Contains(t, out, "2 | note = \"sixty\"\n")
	assert.Contains(t, out, "  |        ^^^^^^^ mapping entry 1: `note` must be an integer, found a string\n")
}
