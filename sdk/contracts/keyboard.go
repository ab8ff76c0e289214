package contracts

// KeyCode is a Windows virtual-key code. Injectors on other platforms translate it.
type KeyCode uint16

// KeyDirection tells whether a synthetic key event presses or releases the key.
type KeyDirection uint8

const (
	// KeyDown presses the key.
	KeyDown KeyDirection = iota
	// KeyUp releases the key.
	KeyUp
)

func (d KeyDirection) String() string {
	if d == KeyUp {
		return "up"
	}
	return "down"
}

// KeyAction is a single synthetic key event.
type KeyAction struct {
	Key       KeyCode
	Direction KeyDirection
}

// KeyInjector delivers synthetic key events to the operating system input stream.
type KeyInjector interface {
	Send(action KeyAction) error // Injects one key event and reports failure synchronously.
	Close() error                // Releases the underlying OS resources.
}
