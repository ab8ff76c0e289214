//go:build !windows
// +build !windows

package kbdwindows

import (
	"errors"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// ErrUnavailable is returned by the dummy injector.
var ErrUnavailable = errors.New("SendInput is only available on Windows")

type dummyInjector struct {
	logger contracts.Logger
}

// NewKeyInjector initializes a dummy injector for non-Windows systems.
func NewKeyInjector(options *contracts.ClientOptions) (contracts.KeyInjector, error) {
	options.Logger.Debug("Using dummy key injector for non-Windows system")
	return &dummyInjector{logger: options.Logger}, nil
}

func (d *dummyInjector) Send(action contracts.KeyAction) error {
	d.logger.Warn("Send called on dummy key injector")
	return ErrUnavailable
}

func (d *dummyInjector) Close() error {
	return nil
}
