//go:build !linux
// +build !linux

package kbdlinux

import (
	"errors"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// ErrUnavailable is returned by the dummy injector.
var ErrUnavailable = errors.New("uinput is only available on Linux")

type dummyInjector struct {
	logger contracts.Logger
}

// NewKeyInjector initializes a dummy injector for non-Linux systems.
func NewKeyInjector(options *contracts.ClientOptions) (contracts.KeyInjector, error) {
	options.Logger.Debug("Using dummy key injector for non-Linux system")
	return &dummyInjector{logger: options.Logger}, nil
}

func (d *dummyInjector) Send(action contracts.KeyAction) error {
	d.logger.Warn("Send called on dummy key injector")
	return ErrUnavailable
}

func (d *dummyInjector) Close() error {
	return nil
}
