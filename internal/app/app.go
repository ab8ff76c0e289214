// Package app wires the MIDI client, the mapping table, the dispatcher and the
// shutdown coordinator into the running program.
package app

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/leandrodaf/midikeys/internal/dispatch"
	"github.com/leandrodaf/midikeys/internal/mapping"
	"github.com/leandrodaf/midikeys/internal/shutdown"
	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// Registrar installs the callback run on every interrupt request.
type Registrar interface {
	Register(fn func()) error
}

// Selector asks the user for the startup choices.
type Selector interface {
	SelectDevice(devices []contracts.DeviceInfo) (int, error)
	ConfirmDebug() (bool, error)
}

// App owns the collaborators for one run of the program.
type App struct {
	client      contracts.ClientMIDI
	injector    contracts.KeyInjector
	registrar   Registrar
	selector    Selector
	logger      contracts.Logger
	coordinator *shutdown.Coordinator
}

// Option configures an App.
type Option func(*App)

// WithCoordinator replaces the default shutdown coordinator.
func WithCoordinator(c *shutdown.Coordinator) Option {
	return func(a *App) {
		a.coordinator = c
	}
}

// New creates an App. Close must be called once Run returns.
func New(client contracts.ClientMIDI, injector contracts.KeyInjector, registrar Registrar, selector Selector, logger contracts.Logger, opts ...Option) *App {
	a := &App{
		client:    client,
		injector:  injector,
		registrar: registrar,
		selector:  selector,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.coordinator == nil {
		a.coordinator = shutdown.New()
	}
	return a
}

// Run loads the mapping from configPath (the built-in table when empty), opens
// a device and translates notes until the first interrupt.
func (a *App) Run(configPath string) error {
	if err := a.registrar.Register(a.coordinator.Interrupt); err != nil {
		return NewError(CodeSignal, fmt.Errorf("register interrupt handler: %w", err))
	}

	keymap, err := loadKeymap(configPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Mapping loaded", a.logger.Field().Int("entries", len(keymap.Entries())))

	device, err := a.chooseDevice()
	if err != nil {
		return err
	}

	debug, err := a.selector.ConfirmDebug()
	if err != nil {
		return NewError(CodeIO, err)
	}

	if err := a.client.SelectDevice(device.ID); err != nil {
		return NewError(CodeOS, fmt.Errorf("open %s: %w", device, err))
	}

	d := dispatch.New(keymap, a.injector, a.logger, dispatch.WithDebug(debug))
	if err := a.client.StartCapture(d.Handle); err != nil {
		return NewError(CodeOS, fmt.Errorf("start capture: %w", err))
	}

	a.logger.Info("Listening, press Ctrl+C to stop", a.logger.Field().String("device", device.String()))
	a.coordinator.Wait()
	a.logger.Info("Shutting down")
	return nil
}

// Close releases the MIDI client and the key injector.
func (a *App) Close() error {
	return multierr.Append(a.client.Stop(), a.injector.Close())
}

func loadKeymap(path string) (*mapping.Table, error) {
	if path == "" {
		return mapping.Default(), nil
	}

	table, err := mapping.Load(path)
	if errors.Is(err, mapping.ErrReadConfig) {
		return nil, NewError(CodeIO, err)
	}
	return table, err
}

func (a *App) chooseDevice() (contracts.DeviceInfo, error) {
	devices, err := a.client.ListDevices()
	switch {
	case errors.Is(err, ErrNoDevices):
		return contracts.DeviceInfo{}, NewError(CodeDevices, err)
	case err != nil:
		return contracts.DeviceInfo{}, NewError(CodeOS, fmt.Errorf("list devices: %w", err))
	case len(devices) == 0:
		return contracts.DeviceInfo{}, NewError(CodeDevices, ErrNoDevices)
	case len(devices) == 1:
		a.logger.Info("Using the only MIDI device", a.logger.Field().String("device", devices[0].String()))
		return devices[0], nil
	}

	idx, err := a.selector.SelectDevice(devices)
	if err != nil {
		return contracts.DeviceInfo{}, NewError(CodeDevices, err)
	}
	if idx < 0 || idx >= len(devices) {
		return contracts.DeviceInfo{}, NewError(CodeDevices, fmt.Errorf("device index %d out of range", idx))
	}
	return devices[idx], nil
}
