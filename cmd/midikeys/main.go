// Command midikeys turns notes played on a MIDI controller into key presses.
//
//	midikeys [config.toml]
//
// Without a configuration file a built-in mapping is used.
package main

import (
	"os"

	"github.com/leandrodaf/midikeys/internal/app"
	"github.com/leandrodaf/midikeys/internal/logger"
	"github.com/leandrodaf/midikeys/internal/prompt"
	"github.com/leandrodaf/midikeys/internal/report"
	"github.com/leandrodaf/midikeys/internal/shutdown"
	"github.com/leandrodaf/midikeys/sdk/contracts"
	"github.com/leandrodaf/midikeys/sdk/keyboard"
	"github.com/leandrodaf/midikeys/sdk/midi"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	configPath, err := app.ParseArgs(args)
	if err != nil {
		report.Render(os.Stderr, err)
		return app.ExitCode(err)
	}

	log := logger.NewZapLogger()
	if s, ok := log.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
		}),
	}

	client, err := midi.NewMIDIClient(opts...)
	if err != nil {
		return fail(app.NewError(app.CodeOS, err))
	}

	injector, err := keyboard.NewKeyInjector(opts...)
	if err != nil {
		_ = client.Stop()
		return fail(app.NewError(app.CodeOS, err))
	}

	registrar := shutdown.NewSignalRegistrar()
	defer registrar.Stop()

	a := app.New(client, injector, registrar, prompt.NewTerminal(os.Stdin, os.Stdout), log)
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Cleanup failed", log.Field().Error("error", err))
		}
	}()

	if err := a.Run(configPath); err != nil {
		return fail(err)
	}
	return app.ExitOK
}

func fail(err error) int {
	report.Render(os.Stderr, err)
	return app.ExitCode(err)
}
