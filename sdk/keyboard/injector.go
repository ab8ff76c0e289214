// Package keyboard creates the platform key injector.
package keyboard

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midikeys/internal/keyboard/kbdlinux"
	"github.com/leandrodaf/midikeys/internal/keyboard/kbdwindows"
	"github.com/leandrodaf/midikeys/sdk/contracts"
	"github.com/leandrodaf/midikeys/sdk/midi"
)

// ErrUnsupportedOS is returned when no key injector exists for the operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

var injectorInitializers = map[string]func(*contracts.ClientOptions) (contracts.KeyInjector, error){
	"windows": kbdwindows.NewKeyInjector, // SendInput
	"linux":   kbdlinux.NewKeyInjector,   // uinput
}

// NewKeyInjector creates the key injector for the current operating system,
// applying the same defaults as the MIDI client.
func NewKeyInjector(opts ...contracts.Option) (contracts.KeyInjector, error) {
	options, err := midi.ApplyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newInjectorFor(runtime.GOOS, &options)
}

func newInjectorFor(goos string, opts *contracts.ClientOptions) (contracts.KeyInjector, error) {
	if initializer, exists := injectorInitializers[goos]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}
