package shutdown

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ErrAlreadyRegistered is returned when a second callback is registered.
var ErrAlreadyRegistered = errors.New("interrupt handler already registered")

// SignalRegistrar invokes one callback per interrupt (Ctrl+C or SIGTERM).
type SignalRegistrar struct {
	mu      sync.Mutex
	signals chan os.Signal
	done    chan struct{}
}

// NewSignalRegistrar returns a registrar with no callback installed.
func NewSignalRegistrar() *SignalRegistrar {
	return &SignalRegistrar{}
}

// Register installs fn. Each signal runs fn on the registrar's goroutine.
func (r *SignalRegistrar) Register(fn func()) error {
	if fn == nil {
		return errors.New("nil interrupt handler")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.signals != nil {
		return ErrAlreadyRegistered
	}

	r.signals = make(chan os.Signal, 2)
	r.done = make(chan struct{})
	signal.Notify(r.signals, os.Interrupt, syscall.SIGTERM)

	go func(signals <-chan os.Signal, done <-chan struct{}) {
		for {
			select {
			case <-signals:
				fn()
			case <-done:
				return
			}
		}
	}(r.signals, r.done)
	return nil
}

// Stop restores default signal handling. The registrar cannot be reused.
func (r *SignalRegistrar) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.signals == nil || r.done == nil {
		return
	}
	signal.Stop(r.signals)
	close(r.done)
	r.done = nil
}
