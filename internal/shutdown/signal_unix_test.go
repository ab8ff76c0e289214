//go:build !windows

package shutdown

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalRegistrar(t *testing.T) {
	r := NewSignalRegistrar()
	defer r.Stop()

	calls := make(chan struct{}, 2)
	require.NoError(t, r.Register(func() { calls <- struct{}{} }))
	assert.ErrorIs(t, r.Register(func() {}), ErrAlreadyRegistered)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not invoked for SIGTERM")
	}
}
