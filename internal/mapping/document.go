package mapping

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// ErrReadConfig wraps failures to read the configuration file.
var ErrReadConfig = errors.New("read configuration")

var (
	entryHeader = regexp.MustCompile(`(?m)^[ \t]*\[\[[ \t]*mapping[ \t]*\]\]`)
	tableHeader = regexp.MustCompile(`(?m)^[ \t]*\[`)
	plainTable  = regexp.MustCompile(`(?m)^[ \t]*\[[ \t]*mapping[ \t]*\]`)
	assignments = map[string]*regexp.Regexp{
		"mapping": assignment("mapping"),
		"note":    assignment("note"),
		"key":     assignment("key"),
	}
)

// assignment matches `name = value` and captures the value up to a comment.
func assignment(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + name + `[ \t]*=[ \t]*([^#\n]*[^#\s])`)
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadConfig, path, err)
	}

	table, err := Parse(string(raw))
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.File = path
		}
		return nil, err
	}
	return table, nil
}

// Parse builds a table from a TOML document:
//
//	[[mapping]]
//	note = 60
//	key = 0x43
//
// Entries are applied in order, so a later entry for the same note wins.
// Entries whose note is outside 0-127 are dropped before the key is checked.
// Any failure is a *ConfigError carrying the document text.
func Parse(raw string) (*Table, error) {
	var doc map[string]any
	if _, err := toml.Decode(raw, &doc); err != nil {
		return nil, newParseError(raw, err)
	}

	value, ok := doc["mapping"]
	if !ok {
		return nil, &ConfigError{
			Document: raw,
			Message:  "missing `mapping` collection",
		}
	}
	entries, ok := tables(value)
	if !ok {
		return nil, collectionError(raw, fmt.Sprintf("`mapping` must be an array of tables, found %s", typeName(value)))
	}

	t := &Table{}
	for i, e := range entries {
		note, err := byteField(raw, i, e, "note")
		if err != nil {
			return nil, err
		}
		key, err := byteField(raw, i, e, "key")
		if err != nil {
			return nil, err
		}
		if note >= Len {
			continue
		}
		if key == 0 {
			return nil, entryError(raw, i, "key", "key 0 is not a virtual-key code")
		}
		t.set(note, contracts.KeyCode(key))
	}
	return t, nil
}

// tables accepts both [[mapping]] sections and an inline array of tables.
func tables(value any) ([]map[string]any, bool) {
	switch v := value.(type) {
	case []map[string]any:
		return v, true
	case []any:
		out := make([]map[string]any, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func byteField(raw string, index int, entry map[string]any, name string) (int, error) {
	value, ok := entry[name]
	if !ok {
		return 0, entryError(raw, index, "", fmt.Sprintf("missing `%s`", name))
	}
	n, ok := value.(int64)
	if !ok {
		return 0, entryError(raw, index, name, fmt.Sprintf("`%s` must be an integer, found %s", name, typeName(value)))
	}
	if n < 0 || n > math.MaxUint8 {
		return 0, entryError(raw, index, name, fmt.Sprintf("`%s` must be between 0 and 255, found %d", name, n))
	}
	return int(n), nil
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return "a string"
	case int64:
		return "an integer"
	case float64:
		return "a float"
	case bool:
		return "a boolean"
	case time.Time:
		return "a datetime"
	case []any, []map[string]any:
		return "an array"
	case map[string]any:
		return "a table"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func newParseError(raw string, err error) *ConfigError {
	cfgErr := &ConfigError{Document: raw, Err: err}

	var pErr toml.ParseError
	if !errors.As(err, &pErr) {
		cfgErr.Message = err.Error()
		return cfgErr
	}

	cfgErr.Message = pErr.Message
	if pErr.Position.Line > 0 {
		cfgErr.Location = newSpan(raw, pErr.Position.Start, pErr.Position.Len)
	}
	return cfgErr
}

// collectionError points at the `mapping` key itself.
func collectionError(raw, message string) *ConfigError {
	cfgErr := &ConfigError{Document: raw, Message: message}
	if span := assignmentSpan(raw, 0, topLevelEnd(raw), "mapping"); span != nil {
		cfgErr.Location = span
	} else if loc := plainTable.FindStringIndex(raw); loc != nil {
		cfgErr.Location = newSpan(raw, loc[0], loc[1]-loc[0])
	}
	return cfgErr
}

// entryError points at field's value in the index-th entry, or at the entry's
// [[mapping]] header when field is empty or not written as a plain assignment.
func entryError(raw string, index int, field, message string) *ConfigError {
	return &ConfigError{
		Document: raw,
		Location: entrySpan(raw, index, field),
		Message:  fmt.Sprintf("mapping entry %d: %s", index+1, message),
	}
}

func entrySpan(raw string, index int, field string) *Span {
	headers := entryHeader.FindAllStringIndex(raw, -1)
	if index >= len(headers) {
		// inline array: the best we can do is the `mapping = ...` line
		return assignmentSpan(raw, 0, topLevelEnd(raw), "mapping")
	}

	start, end := headers[index][0], headers[index][1]
	if field != "" {
		blockEnd := len(raw)
		if next := tableHeader.FindStringIndex(raw[end:]); next != nil {
			blockEnd = end + next[0]
		}
		if span := assignmentSpan(raw, end, blockEnd, field); span != nil {
			return span
		}
	}
	return newSpan(raw, start, end-start)
}

// assignmentSpan locates the value of `name = value` within raw[from:to].
func assignmentSpan(raw string, from, to int, name string) *Span {
	loc := assignments[name].FindStringSubmatchIndex(raw[from:to])
	if loc == nil {
		return nil
	}
	return newSpan(raw, from+loc[2], loc[3]-loc[2])
}

// topLevelEnd is where the first table header starts.
func topLevelEnd(raw string) int {
	if loc := tableHeader.FindStringIndex(raw); loc != nil {
		return loc[0]
	}
	return len(raw)
}
