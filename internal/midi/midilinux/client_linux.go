//go:build linux
// +build linux

package midilinux

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/midikeys/internal/midi/wire"
	"github.com/leandrodaf/midikeys/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Error definitions for ALSA/rtmidi failures.
var (
	ErrNoMIDIDevices     = contracts.ErrNoDevices
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrNoDeviceSelected  = errors.New("no MIDI device selected")
	ErrCaptureStarted    = errors.New("capture already started")
)

// ClientMid reads MIDI input through rtmidi (ALSA sequencer).
type ClientMid struct {
	logger          contracts.Logger
	drv             *rtmididrv.Driver
	inPort          drivers.In
	stopFn          func()
	midiEventFilter *contracts.MIDIEventFilter
	mu              sync.Mutex
	stopOnce        sync.Once
}

// NewMIDIClient initialises the rtmidi driver.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	options.Logger.Debug("MIDI client created for Linux")

	return &ClientMid{
		logger:          options.Logger,
		drv:             drv,
		midiEventFilter: options.MIDIEventFilter,
	}, nil
}

// ListDevices lists the available MIDI input ports.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI inputs: %w", err)
	}
	if len(ins) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceInfo{
			ID:         i,
			Name:       in.String(),
			EntityName: in.String(),
		}
	}
	return devices, nil
}

// SelectDevice picks the input port at index deviceID. The port is opened by StartCapture.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ins, err := m.drv.Ins()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI inputs: %w", err)
	}
	if deviceID < 0 || deviceID >= len(ins) {
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	m.closePort()
	m.inPort = ins[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", m.inPort.String()))
	return nil
}

// StartCapture opens the selected port and delivers every allowed message to handler.
// rtmidi calls back on its own thread.
func (m *ClientMid) StartCapture(handler contracts.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if handler == nil {
		return errors.New("StartCapture called with nil handler")
	}
	if m.inPort == nil {
		return ErrNoDeviceSelected
	}
	if m.stopFn != nil {
		return ErrCaptureStarted
	}

	stop, err := gomidi.ListenTo(m.inPort, func(msg gomidi.Message, timestampms int32) {
		timestamp := uint64(time.Now().UTC().UnixNano())
		for _, event := range wire.Decode(msg.Bytes(), timestamp) {
			if !m.midiEventFilter.Allows(event.Command) {
				continue
			}
			handler(event)
		}
	})
	if err != nil {
		return fmt.Errorf("listen to %s: %w", m.inPort.String(), err)
	}

	m.stopFn = stop
	m.logger.Debug("MIDI capture started")
	return nil
}

// Stop closes the port and the rtmidi driver. Safe to call more than once.
func (m *ClientMid) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.closePort()
		err = m.drv.Close()
		m.logger.Info("MIDI capture stopped")
	})
	return err
}

func (m *ClientMid) closePort() {
	if m.stopFn != nil {
		m.stopFn()
		m.stopFn = nil
	}
	if m.inPort != nil && m.inPort.IsOpen() {
		if err := m.inPort.Close(); err != nil {
			m.logger.Warn("Failed to close MIDI input", m.logger.Field().Error("error", err))
		}
	}
}
