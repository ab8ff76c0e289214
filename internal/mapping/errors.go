package mapping

import "strings"

// Span locates a byte range in the configuration document.
type Span struct {
	Offset int // byte offset, from 0
	Length int // bytes, at least 1
	Line   int // from 1
	Column int // byte column, from 1
}

func newSpan(text string, offset, length int) *Span {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	if length < 1 {
		length = 1
	}

	before := text[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return &Span{
		Offset: offset,
		Length: length,
		Line:   strings.Count(before, "\n") + 1,
		Column: offset - lineStart + 1,
	}
}

// ConfigError reports a malformed configuration document together with the
// text needed to point at the problem.
type ConfigError struct {
	File     string // path the document was read from, empty for in-memory documents
	Document string // the complete source text
	Location *Span  // nil when the parser gave no position
	Message  string // parser message for the location
	Err      error  // underlying parser error, if any
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Code classifies the error for diagnostics.
func (e *ConfigError) Code() string { return "config" }

// Source returns the document name and text.
func (e *ConfigError) Source() (string, string) { return e.File, e.Document }

// Span returns the offending byte range.
func (e *ConfigError) Span() (offset, length int, ok bool) {
	if e.Location == nil {
		return 0, 0, false
	}
	return e.Location.Offset, e.Location.Length, true
}

// Label is the message shown under the offending text.
func (e *ConfigError) Label() string { return e.Message }
