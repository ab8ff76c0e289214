package mapping

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

func TestDefault(t *testing.T) {
	want := map[int]contracts.KeyCode{
		48: 0x20,
		60: 0x43,
		62: 0x44,
		64: 0x45,
		65: 0x46,
		67: 0x47,
	}

	table := Default()
	for note := 0; note < Len; note++ {
		key, ok := table.Lookup(note)
		if expected, mapped := want[note]; mapped {
			assert.True(t, ok, "note %d", note)
			assert.Equal(t, expected, key, "note %d", note)
		} else {
			assert.False(t, ok, "note %d", note)
		}
	}
}

func TestLookupOutOfRange(t *testing.T) {
	table := Default()
	for _, note := range []int{-1, -128, Len, 200, 255, 1 << 20} {
		key, ok := table.Lookup(note)
		assert.False(t, ok, "note %d", note)
		assert.Zero(t, key)
	}
}

func TestParseLastEntryWins(t *testing.T) {
	table, err := Parse(`
[[mapping]]
note = 60
key = 65

[[mapping]]
note = 60
key = 66
`)
	require.NoError(t, err)

	key, ok := table.Lookup(60)
	assert.True(t, ok)
	assert.Equal(t, contracts.KeyCode(66), key)
	assert.Len(t, table.Entries(), 1)
}

func TestParseDropsNotesOutsideTable(t *testing.T) {
	table, err := Parse(`
[[mapping]]
note = 200
key = 10
`)
	require.NoError(t, err)
	assert.Empty(t, table.Entries())
	for note := 0; note < Len; note++ {
		_, ok := table.Lookup(note)
		assert.False(t, ok)
	}
}

func TestParseStartsEmpty(t *testing.T) {
	table, err := Parse(`
[[mapping]]
note = 0x30
key = 0x20

[[mapping]]
note = 127
key = 0x1B
`)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Note: 48, Key: 0x20}, {Note: 127, Key: 0x1B}}, table.Entries())

	_, ok := table.Lookup(60)
	assert.False(t, ok, "defaults must not leak into parsed tables")
}

func TestParseEmptyCollection(t *testing.T) {
	table, err := Parse("mapping = []\n")
	require.NoError(t, err)
	assert.Empty(t, table.Entries())
}

func TestParseSyntaxError(t *testing.T) {
	raw := "[[mapping]]\nnote = 60\nkey = = 65\n"

	_, err := Parse(raw)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, raw, cfgErr.Document)
	assert.Equal(t, "config", cfgErr.Code())
	assert.NotEmpty(t, cfgErr.Label())
	require.NotNil(t, cfgErr.Location)
	assert.Equal(t, 3, cfgErr.Location.Line)

	offset, length, ok := cfgErr.Span()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, offset, len("[[mapping]]\nnote = 60\n"))
	assert.GreaterOrEqual(t, length, 1)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		message string
	}{
		{
			name:    "missing collection",
			raw:     "title = \"pad\"\n",
			message: "missing `mapping` collection",
		},
		{
			name:    "missing note",
			raw:     "[[mapping]]\nnote = 60\nkey = 65\n\n[[mapping]]\nkey = 66\n",
			message: "mapping entry 2: missing `note`",
		},
		{
			name:    "missing key",
			raw:     "[[mapping]]\nnote = 60\n",
			message: "mapping entry 1: missing `key`",
		},
		{
			name:    "zero key",
			raw:     "[[mapping]]\nnote = 60\nkey = 0\n",
			message: "mapping entry 1: key 0 is not a virtual-key code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.message, cfgErr.Message)
			assert.Equal(t, tt.raw, cfgErr.Document)
		})
	}
}

func TestEntryErrorPointsAtHeader(t *testing.T) {
	raw := "[[mapping]]\nnote = 60\nkey = 65\n\n[[mapping]]\nkey = 66\n"

	_, err := Parse(raw)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.NotNil(t, cfgErr.Location)
	assert.Equal(t, 5, cfgErr.Location.Line)
	assert.Equal(t, 1, cfgErr.Location.Column)
	assert.Equal(t, "[[mapping]]", raw[cfgErr.Location.Offset:cfgErr.Location.Offset+cfgErr.Location.Length])
}

func TestParseRejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		line    int
		snippet string
		message string
	}{
		{
			name:    "string note",
			raw:     "[[mapping]]\nnote = \"sixty\"\nkey = 65\n",
			line:    2,
			snippet: `"sixty"`,
			message: "mapping entry 1: `note` must be an integer, found a string",
		},
		{
			name:    "note too large",
			raw:     "[[mapping]]\nnote = 300\nkey = 65\n",
			line:    2,
			snippet: "300",
			message: "mapping entry 1: `note` must be between 0 and 255, found 300",
		},
		{
			name:    "negative key",
			raw:     "[[mapping]]\nnote = 60\nkey = -1\n",
			line:    3,
			snippet: "-1",
			message: "mapping entry 1: `key` must be between 0 and 255, found -1",
		},
		{
			name:    "float key with comment",
			raw:     "[[mapping]]\nnote = 60\nkey = 65\n\n[[mapping]]\nnote = 61\nkey = 65.5 # half\n",
			line:    7,
			snippet: "65.5",
			message: "mapping entry 2: `key` must be an integer, found a float",
		},
		{
			name:    "scalar collection",
			raw:     "mapping = 5\n",
			line:    1,
			snippet: "5",
			message: "`mapping` must be an array of tables, found an integer",
		},
		{
			name:    "array of integers",
			raw:     "mapping = [1, 2]\n",
			line:    1,
			snippet: "[1, 2]",
			message: "`mapping` must be an array of tables, found an array",
		},
		{
			name:    "single table",
			raw:     "[mapping]\nnote = 60\nkey = 65\n",
			line:    1,
			snippet: "[mapping]",
			message: "`mapping` must be an array of tables, found a table",
		},
		{
			name:    "inline entry without key",
			raw:     "mapping = [{note = 60}]\n",
			line:    1,
			snippet: "[{note = 60}]",
			message: "mapping entry 1: missing `key`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.raw, cfgErr.Document)
			assert.Equal(t, tt.message, cfgErr.Message)

			require.NotNil(t, cfgErr.Location)
			assert.Equal(t, tt.line, cfgErr.Location.Line)
			assert.Equal(t, tt.snippet, tt.raw[cfgErr.Location.Offset:cfgErr.Location.Offset+cfgErr.Location.Length])
		})
	}
}

func TestParseZeroKeyPointsAtValue(t *testing.T) {
	raw := "[[mapping]]\nnote = 60\nkey = 0\n"

	_, err := Parse(raw)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.NotNil(t, cfgErr.Location)
	assert.Equal(t, 3, cfgErr.Location.Line)
	assert.Equal(t, 7, cfgErr.Location.Column)
}

func TestParseDropsOutOfRangeNoteBeforeKeyCheck(t *testing.T) {
	table, err := Parse("[[mapping]]\nnote = 200\nkey = 0\n\n[[mapping]]\nnote = 60\nkey = 0x41\n")
	require.NoError(t, err)

	assert.Equal(t, []Entry{{Note: 60, Key: 0x41}}, table.Entries())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[mapping]]\nnote = 36\nkey = 0x20\n"), 0o644))

	table, err := Load(path)
	require.NoError(t, err)

	key, ok := table.Lookup(36)
	assert.True(t, ok)
	assert.Equal(t, contracts.KeyCode(0x20), key)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[mapping]\n"), 0o644))

	_, err = Load(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, path, cfgErr.File)
	assert.Contains(t, cfgErr.Error(), path)
}

func TestConcurrentLookup(t *testing.T) {
	table := Default()
	before := table.Entries()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for note := 0; note < Len; note++ {
				table.Lookup(note)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, before, table.Entries())
}

func TestNewSpanClamps(t *testing.T) {
	span := newSpan("ab\ncd", 99, 0)
	assert.Equal(t, &Span{Offset: 5, Length: 1, Line: 2, Column: 3}, span)
}
