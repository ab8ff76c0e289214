package dispatch

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// ErrMalformedMessage is returned for a note message that cannot be decoded.
var ErrMalformedMessage = errors.New("malformed MIDI message")

// Kind discriminates classified messages.
type Kind uint8

const (
	// Other covers every message kind the dispatcher ignores.
	Other Kind = iota
	NoteOn
	NoteOff
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	default:
		return "other"
	}
}

// Event is a classified message. Note is only meaningful for NoteOn and NoteOff.
type Event struct {
	Kind Kind
	Note uint8
}

// Classify turns a raw message into an Event. Note-on with velocity 0 is a note-off.
func Classify(msg contracts.MIDI) (Event, error) {
	command := contracts.MIDICommand(msg.Command & 0xF0)
	if command != contracts.NoteOn && command != contracts.NoteOff {
		return Event{Kind: Other}, nil
	}

	if msg.Size != 0 && msg.Size < 3 {
		return Event{}, fmt.Errorf("%w: note message truncated to %d bytes", ErrMalformedMessage, msg.Size)
	}
	if msg.Note&0x80 != 0 || msg.Velocity&0x80 != 0 {
		return Event{}, fmt.Errorf("%w: data byte out of range (note 0x%02X, velocity 0x%02X)", ErrMalformedMessage, msg.Note, msg.Velocity)
	}

	if command == contracts.NoteOn && msg.Velocity > 0 {
		return Event{Kind: NoteOn, Note: msg.Note}, nil
	}
	return Event{Kind: NoteOff, Note: msg.Note}, nil
}
