package main

import (
	"fmt"

	"github.com/leandrodaf/midikeys/internal/dispatch"
	"github.com/leandrodaf/midikeys/internal/logger"
	"github.com/leandrodaf/midikeys/internal/mapping"
	"github.com/leandrodaf/midikeys/internal/shutdown"
	"github.com/leandrodaf/midikeys/sdk/contracts"
	"github.com/leandrodaf/midikeys/sdk/midi"
)

// logInjector prints key actions instead of sending them to the OS.
type logInjector struct {
	log contracts.Logger
}

func (l logInjector) Send(action contracts.KeyAction) error {
	l.log.Info("Key",
		l.log.Field().Int("code", int(action.Key)),
		l.log.Field().String("direction", action.Direction.String()),
	)
	return nil
}

func (l logInjector) Close() error { return nil }

func main() {
	log := logger.NewZapLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
		}),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}
	defer client.Stop()

	devices, err := client.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	if err = client.SelectDevice(devices[0].ID); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	d := dispatch.New(mapping.Default(), logInjector{log: log}, log, dispatch.WithDebug(true))
	if err := client.StartCapture(d.Handle); err != nil {
		log.Error("Failed to start capture", log.Field().Error("error", err))
		return
	}

	coordinator := shutdown.New()
	registrar := shutdown.NewSignalRegistrar()
	defer registrar.Stop()
	if err := registrar.Register(coordinator.Interrupt); err != nil {
		log.Error("Failed to register interrupt handler", log.Field().Error("error", err))
		return
	}

	fmt.Println("Dry run: key actions are logged, not sent. Press Ctrl+C to exit.")
	coordinator.Wait()
}
