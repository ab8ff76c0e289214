//go:build linux
// +build linux

package kbdlinux

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holoplot/go-evdev"
	"go.uber.org/multierr"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// ErrUnmappedKey is returned for a virtual-key code with no Linux equivalent.
var ErrUnmappedKey = errors.New("virtual key has no Linux key code")

const (
	keyRelease = 0
	keyPress   = 1
	busUSB     = 0x03
)

// Injector writes key events to a uinput virtual keyboard.
type Injector struct {
	logger contracts.Logger
	mu     sync.Mutex
	device *evdev.InputDevice
}

// NewKeyInjector creates the virtual keyboard. The process needs write access to /dev/uinput.
func NewKeyInjector(options *contracts.ClientOptions) (contracts.KeyInjector, error) {
	var keys []evdev.EvCode
	for _, code := range supportedCodes() {
		keys = append(keys, evdev.EvCode(code))
	}

	device, err := evdev.CreateDevice(
		options.KeyboardConfig.DeviceName,
		evdev.InputID{BusType: busUSB, Vendor: 0x1209, Product: 0x4d4b, Version: 1},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: keys,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create uinput keyboard: %w", err)
	}

	options.Logger.Debug("Virtual keyboard created", options.Logger.Field().String("name", options.KeyboardConfig.DeviceName))
	return &Injector{logger: options.Logger, device: device}, nil
}

// Send writes one key event followed by a sync report.
func (i *Injector) Send(action contracts.KeyAction) error {
	code, ok := EvdevCode(action.Key)
	if !ok {
		return fmt.Errorf("%w: 0x%02X", ErrUnmappedKey, uint16(action.Key))
	}

	value := int32(keyPress)
	if action.Direction == contracts.KeyUp {
		value = keyRelease
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.device.WriteOne(&evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.EvCode(code), Value: value}); err != nil {
		return fmt.Errorf("write key 0x%02X %s: %w", uint16(action.Key), action.Direction, err)
	}
	if err := i.device.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}); err != nil {
		return fmt.Errorf("write sync report: %w", err)
	}
	return nil
}

// Close removes the virtual keyboard from the system and closes its file.
func (i *Injector) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return multierr.Append(evdev.DestroyDevice(i.device), i.device.Close())
}
