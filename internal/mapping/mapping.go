// Package mapping resolves MIDI note numbers to virtual-key codes.
//
// A Table is built once, either from the built-in defaults or from a TOML
// document, and is read-only afterwards, so any number of goroutines may call
// Lookup concurrently.
package mapping

import "github.com/leandrodaf/midikeys/sdk/contracts"

// Len is the number of MIDI note numbers.
const Len = 128

// Virtual-key codes used by the default table.
const (
	vkSpace contracts.KeyCode = 0x20
	vkC     contracts.KeyCode = 0x43
	vkD     contracts.KeyCode = 0x44
	vkE     contracts.KeyCode = 0x45
	vkF     contracts.KeyCode = 0x46
	vkG     contracts.KeyCode = 0x47
)

type slot struct {
	key    contracts.KeyCode
	mapped bool
}

// Table maps each of the 128 note numbers to at most one key.
type Table struct {
	slots [Len]slot
}

// Entry is one mapped note.
type Entry struct {
	Note uint8
	Key  contracts.KeyCode
}

// Default returns the built-in table:
//
//	C3 (48) -> space
//	C4 (60) -> C
//	D4 (62) -> D
//	E4 (64) -> E
//	F4 (65) -> F
//	G4 (67) -> G
func Default() *Table {
	t := &Table{}
	t.set(48, vkSpace)
	t.set(60, vkC)
	t.set(62, vkD)
	t.set(64, vkE)
	t.set(65, vkF)
	t.set(67, vkG)
	return t
}

// set ignores notes outside the table.
func (t *Table) set(note int, key contracts.KeyCode) {
	if note < 0 || note >= Len {
		return
	}
	t.slots[note] = slot{key: key, mapped: true}
}

// Lookup returns the key mapped to note. Unmapped and out-of-range notes report false.
func (t *Table) Lookup(note int) (contracts.KeyCode, bool) {
	if note < 0 || note >= Len {
		return 0, false
	}
	s := t.slots[note]
	return s.key, s.mapped
}

// Entries lists the mapped notes in ascending order.
func (t *Table) Entries() []Entry {
	var out []Entry
	for note, s := range t.slots {
		if s.mapped {
			out = append(out, Entry{Note: uint8(note), Key: s.key})
		}
	}
	return out
}
