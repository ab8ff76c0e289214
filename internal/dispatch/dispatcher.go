// Package dispatch turns incoming MIDI messages into synthetic key events.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// ErrInjection wraps failures reported by the key injector.
var ErrInjection = errors.New("key injection failed")

// Keymap resolves a note number to a key.
type Keymap interface {
	Lookup(note int) (contracts.KeyCode, bool)
}

// Dispatcher handles one message at a time and keeps no state between messages,
// so Handle may be called from any number of goroutines at once.
type Dispatcher struct {
	keymap   Keymap
	injector contracts.KeyInjector
	logger   contracts.Logger
	debug    bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDebug logs the note number of every note-on, to help writing a mapping file.
func WithDebug(debug bool) Option {
	return func(d *Dispatcher) {
		d.debug = debug
	}
}

// New creates a Dispatcher.
func New(keymap Keymap, injector contracts.KeyInjector, logger contracts.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		keymap:   keymap,
		injector: injector,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch classifies msg and, for a mapped note-on or note-off, sends the
// matching key down or key up. Ignored kinds and unmapped notes return nil.
func (d *Dispatcher) Dispatch(msg contracts.MIDI) error {
	event, err := Classify(msg)
	if err != nil {
		return err
	}
	if event.Kind == Other {
		return nil
	}

	if d.debug && event.Kind == NoteOn {
		d.logger.Info("Note", d.logger.Field().Uint8("note", event.Note))
	}

	key, ok := d.keymap.Lookup(int(event.Note))
	if !ok {
		return nil
	}

	action := contracts.KeyAction{Key: key, Direction: contracts.KeyDown}
	if event.Kind == NoteOff {
		action.Direction = contracts.KeyUp
	}

	if err := d.injector.Send(action); err != nil {
		return fmt.Errorf("%w: note %d: %w", ErrInjection, event.Note, err)
	}
	return nil
}

// Handle is the contracts.Handler registered with the MIDI client. Errors are
// logged and dropped so one bad message never stops the ones after it.
func (d *Dispatcher) Handle(msg contracts.MIDI) {
	if err := d.Dispatch(msg); err != nil {
		d.logger.Error("Failed to handle MIDI message",
			d.logger.Field().Error("error", err),
			d.logger.Field().Uint8("command", msg.Command),
			d.logger.Field().Uint8("note", msg.Note),
		)
	}
}
