//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/midikeys/internal/midi/wire"
	"github.com/leandrodaf/midikeys/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = contracts.ErrNoDevices
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrNoDeviceSelected    = errors.New("no MIDI device selected")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// ClientMid manages MIDI operations on Darwin (macOS) systems.
// CoreMIDI invokes handleMIDIMessage on its own thread. Packets are delivered
// under a read lock, so taking the write lock in Stop waits for them.
type ClientMid struct {
	logger          contracts.Logger
	delivery        sync.RWMutex               // Guards handler.
	handler         contracts.Handler          // Receives every decoded message while capturing.
	client          coremidi.Client            // CoreMIDI client instance for MIDI operations.
	inputPort       coremidi.InputPort         // Input port for receiving MIDI events.
	portConn        internalPortConnection     // Connection to the MIDI port.
	midiEventFilter *contracts.MIDIEventFilter // Filter for specific MIDI events.
	mu              sync.Mutex                 // Mutex for thread safety on shared resources.
	stopOnce        sync.Once                  // Ensures Stop() is executed only once.
}

// NewMIDIClient initializes a new ClientMid for handling MIDI events on macOS.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, fmt.Errorf("coremidi client: %w", err)
	}
	options.Logger.Debug("MIDI client successfully created")

	return &ClientMid{
		logger:          options.Logger,
		client:          client,
		midiEventFilter: options.MIDIEventFilter,
	}, nil
}

// ListDevices retrieves and returns available MIDI sources.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice selects a MIDI source by ID and connects to it.
// If a device is already connected, it disconnects first.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "Input Port", m.handleMIDIMessage)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Debug("MIDI device successfully connected")
	return nil
}

// handleMIDIMessage decodes a CoreMIDI packet and hands each allowed message to the handler.
func (m *ClientMid) handleMIDIMessage(source coremidi.Source, packet coremidi.Packet) {
	m.delivery.RLock()
	defer m.delivery.RUnlock()

	if m.handler == nil {
		return
	}

	timestamp := uint64(time.Now().UTC().UnixNano())
	for _, event := range wire.Decode(packet.Data, timestamp) {
		if !m.midiEventFilter.Allows(event.Command) {
			continue
		}
		m.handler(event)
	}
}

// StartCapture begins delivering messages to handler.
func (m *ClientMid) StartCapture(handler contracts.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if handler == nil {
		return errors.New("StartCapture called with nil handler")
	}
	if m.portConn == nil {
		return ErrNoDeviceSelected
	}

	m.logger.Debug("Starting MIDI event capture")
	m.delivery.Lock()
	m.handler = handler
	m.delivery.Unlock()
	return nil
}

// Stop waits for packets already being delivered, then disconnects from the device.
// This function ensures it only executes once, even if called multiple times.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		// waits for packets already being delivered
		m.delivery.Lock()
		m.handler = nil
		m.delivery.Unlock()

		if m.portConn != nil {
			m.portConn.Disconnect()
			m.portConn = nil
		}

		m.logger.Info("MIDI capture stopped")
	})
	return nil
}
