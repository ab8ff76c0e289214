// Package shutdown coordinates process shutdown between interrupt signals and
// the goroutine that waits for them.
package shutdown

import (
	"os"
	"sync/atomic"
)

// Exit codes.
const (
	ExitGraceful = 0
	ExitForced   = 1
)

// Coordinator holds the shutdown flag. The flag only ever goes from false to true.
type Coordinator struct {
	requested atomic.Bool
	wake      chan struct{}
	exit      func(code int)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithExit replaces os.Exit for the forced shutdown path.
func WithExit(exit func(code int)) Option {
	return func(c *Coordinator) {
		c.exit = exit
	}
}

// New returns a Coordinator in the running state.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		wake: make(chan struct{}, 1),
		exit: os.Exit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestShutdown sets the flag and wakes Wait. It reports whether this call
// was the one that set it.
func (c *Coordinator) RequestShutdown() bool {
	if c.requested.Swap(true) {
		return false
	}
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

// Requested reports whether shutdown has been requested.
func (c *Coordinator) Requested() bool {
	return c.requested.Load()
}

// Wait blocks until shutdown is requested and returns immediately if it already
// was. There is one wake token, so only one goroutine should wait.
func (c *Coordinator) Wait() {
	for !c.requested.Load() {
		<-c.wake
	}
}

// Interrupt is the interrupt callback: the first call requests shutdown, any
// later call terminates the process with ExitForced.
func (c *Coordinator) Interrupt() {
	if !c.RequestShutdown() {
		c.exit(ExitForced)
	}
}
