//go:build windows
// +build windows

package kbdwindows

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/leandrodaf/midikeys/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Constants for SendInput
const (
	INPUT_KEYBOARD  = 1      // The event is a keyboard event
	KEYEVENTF_KEYUP = 0x0002 // The key is being released
)

// ErrInputBlocked is returned when SendInput delivered no event, usually
// because another thread blocked input or UIPI rejected it.
var ErrInputBlocked = errors.New("input was blocked by another thread or by UIPI")

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// keyboardInput mirrors INPUT for INPUT_KEYBOARD; padding covers the larger MOUSEINPUT arm of the union.
type keyboardInput struct {
	inputType uint32
	ki        keybdInput
	padding   uint64
}

// Load the user32.dll library and required functions
var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSendInput           = user32.NewProc("SendInput")
	procGetMessageExtraInfo = user32.NewProc("GetMessageExtraInfo")
)

// Injector sends virtual-key events with SendInput.
type Injector struct {
	logger contracts.Logger
}

// NewKeyInjector checks that user32 is loadable and returns an injector.
func NewKeyInjector(options *contracts.ClientOptions) (contracts.KeyInjector, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32.dll: %w", err)
	}
	options.Logger.Debug("Key injector created for Windows")
	return &Injector{logger: options.Logger}, nil
}

// Send injects a single key down or key up event.
func (i *Injector) Send(action contracts.KeyAction) error {
	var flags uint32
	if action.Direction == contracts.KeyUp {
		flags = KEYEVENTF_KEYUP
	}

	extra, _, _ := procGetMessageExtraInfo.Call()
	input := keyboardInput{
		inputType: INPUT_KEYBOARD,
		ki: keybdInput{
			wVk:         uint16(action.Key),
			dwFlags:     flags,
			dwExtraInfo: extra,
		},
	}

	sent, _, callErr := procSendInput.Call(
		1,
		uintptr(unsafe.Pointer(&input)),
		unsafe.Sizeof(input),
	)
	if sent == 1 {
		return nil
	}

	var errno windows.Errno
	if errors.As(callErr, &errno) && errno != 0 {
		return fmt.Errorf("SendInput key 0x%02X %s: %w", uint16(action.Key), action.Direction, errno)
	}
	return fmt.Errorf("SendInput key 0x%02X %s: %w", uint16(action.Key), action.Direction, ErrInputBlocked)
}

// Close is a no-op; SendInput holds no resources.
func (i *Injector) Close() error {
	return nil
}
