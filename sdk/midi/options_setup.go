package midi

import (
	"fmt"

	"github.com/leandrodaf/midikeys/internal/logger"
	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// DefaultClientName names the CoreMIDI client and the virtual keyboard.
const DefaultClientName = "midikeys"

// ApplyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized client options with defaults applied.
//   - error: An error if the log file could not be opened.
func ApplyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}

	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: DefaultClientName}
	}
	if options.KeyboardConfig == nil {
		options.KeyboardConfig = &contracts.KeyboardConfig{DeviceName: DefaultClientName}
	}

	// InfoLevel is the zero value, so an unset level already means Info.
	options.Logger.SetLevel(options.LogLevel)

	if options.LogFilePath != "" {
		if err := options.Logger.SetDestination(contracts.FileLog, options.LogFilePath); err != nil {
			return contracts.ClientOptions{}, fmt.Errorf("log destination: %w", err)
		}
	}
	return *options, nil
}
