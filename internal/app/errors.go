package app

import (
	"errors"

	"github.com/leandrodaf/midikeys/sdk/contracts"
)

// Error codes shown in rendered diagnostics. Configuration errors carry
// CodeConfig themselves.
const (
	CodeConfig  = "config"
	CodeDevices = "devices"
	CodeOS      = "os"
	CodeIO      = "io"
	CodeSignal  = "signal"
	CodeUsage   = "usage"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var (
	// ErrNoDevices is returned when no MIDI input device is available.
	ErrNoDevices = contracts.ErrNoDevices
	// ErrUsage is returned for a malformed command line.
	ErrUsage = errors.New("usage: midikeys [config.toml]")
)

// Error is a startup failure tagged with the code used when it is reported.
type Error struct {
	code string
	err  error
}

// NewError tags err with code.
func NewError(code string, err error) *Error {
	return &Error{code: code, err: err}
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Code() string  { return e.code }

// ExitCode maps the error returned by Run, or by argument parsing, to a
// process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// ParseArgs returns the optional configuration path from the positional
// arguments, program name excluded.
func ParseArgs(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	default:
		return "", NewError(CodeUsage, ErrUsage)
	}
}
