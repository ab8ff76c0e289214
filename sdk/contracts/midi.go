package contracts

import "errors"

// MIDI represents a channel-voice MIDI message as delivered by a device.
type MIDI struct {
	Timestamp uint64 // Timestamp indicates the time the event occurred (Unix nanoseconds).
	Command   byte   // Command is the status nibble (e.g., 0x90 for Note On, 0x80 for Note Off).
	Channel   byte   // Channel is the zero-based MIDI channel (0-15).
	Note      byte   // Note represents the MIDI note number (0-127).
	Velocity  byte   // Velocity indicates the strength of the note being played (0-127).
	Size      int    // Size is the number of bytes the message occupied on the wire, status included. Zero means unknown.
}

// Handler receives one MIDI message. Clients may invoke it from any goroutine
// and concurrently, so implementations must not block and must be safe for concurrent use.
type Handler func(MIDI)

// ClientMIDI defines an interface for MIDI client operations.
type ClientMIDI interface {
	Stop() error                        // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error) // Lists all available MIDI input devices.
	SelectDevice(deviceID int) error    // Selects a MIDI device by its ID for communication.
	StartCapture(handler Handler) error // Starts capturing MIDI events and delivers each one to handler.
}

// ErrNoDevices is returned by ListDevices when the system exposes no MIDI input.
var ErrNoDevices = errors.New("no MIDI devices found")
