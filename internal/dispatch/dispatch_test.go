package dispatch

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leandrodaf/midikeys/internal/logger"
	"github.com/leandrodaf/midikeys/internal/mapping"
	"github.com/leandrodaf/midikeys/sdk/contracts"
)

type fakeInjector struct {
	mu      sync.Mutex
	actions []contracts.KeyAction
	err     error
}

func (f *fakeInjector) Send(action contracts.KeyAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return f.err
}

func (f *fakeInjector) Close() error { return nil }

func (f *fakeInjector) sent() []contracts.KeyAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]contracts.KeyAction(nil), f.actions...)
}

func noteOn(note byte) contracts.MIDI {
	return contracts.MIDI{Command: 0x90, Note: note, Velocity: 100, Size: 3}
}

func noteOff(note byte) contracts.MIDI {
	return contracts.MIDI{Command: 0x80, Note: note, Size: 3}
}

func newTestDispatcher(t *testing.T, injector contracts.KeyInjector, opts ...Option) (*Dispatcher, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return New(mapping.Default(), injector, logger.NewWithCore(core), opts...), logs
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  contracts.MIDI
		want Event
	}{
		{"note on", noteOn(60), Event{Kind: NoteOn, Note: 60}},
		{"note on other channel", contracts.MIDI{Command: 0x90, Channel: 9, Note: 36, Velocity: 1, Size: 3}, Event{Kind: NoteOn, Note: 36}},
		{"note off", noteOff(60), Event{Kind: NoteOff, Note: 60}},
		{"note on velocity zero", contracts.MIDI{Command: 0x90, Note: 62, Size: 3}, Event{Kind: NoteOff, Note: 62}},
		{"unknown size", contracts.MIDI{Command: 0x90, Note: 64, Velocity: 5}, Event{Kind: NoteOn, Note: 64}},
		{"control change", contracts.MIDI{Command: 0xB0, Note: 64, Velocity: 127, Size: 3}, Event{Kind: Other}},
		{"program change", contracts.MIDI{Command: 0xC0, Note: 1, Size: 2}, Event{Kind: Other}},
		{"pitch bend", contracts.MIDI{Command: 0xE0, Note: 0, Velocity: 64, Size: 3}, Event{Kind: Other}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyMalformed(t *testing.T) {
	for _, msg := range []contracts.MIDI{
		{Command: 0x90, Note: 0xBC, Velocity: 10, Size: 3},
		{Command: 0x80, Note: 60, Velocity: 0x90, Size: 3},
		{Command: 0x90, Note: 60, Size: 2},
		{Command: 0x80, Size: 1},
	} {
		_, err := Classify(msg)
		assert.ErrorIs(t, err, ErrMalformedMessage, "%+v", msg)
	}
}

func TestDispatchMappedNote(t *testing.T) {
	injector := &fakeInjector{}
	d, _ := newTestDispatcher(t, injector)

	require.NoError(t, d.Dispatch(noteOn(60)))
	require.NoError(t, d.Dispatch(noteOff(60)))

	assert.Equal(t, []contracts.KeyAction{
		{Key: 0x43, Direction: contracts.KeyDown},
		{Key: 0x43, Direction: contracts.KeyUp},
	}, injector.sent())
}

func TestDispatchUnmappedNote(t *testing.T) {
	injector := &fakeInjector{}
	d, _ := newTestDispatcher(t, injector)

	assert.NoError(t, d.Dispatch(noteOn(61)))
	assert.NoError(t, d.Dispatch(noteOff(61)))
	assert.Empty(t, injector.sent())
}

func TestDispatchIgnoresOtherKinds(t *testing.T) {
	injector := &fakeInjector{}
	d, _ := newTestDispatcher(t, injector)

	assert.NoError(t, d.Dispatch(contracts.MIDI{Command: 0xB0, Note: 60, Velocity: 127, Size: 3}))
	assert.Empty(t, injector.sent())
}

func TestDispatchMalformedIsReported(t *testing.T) {
	injector := &fakeInjector{}
	d, _ := newTestDispatcher(t, injector)

	err := d.Dispatch(contracts.MIDI{Command: 0x90, Note: 0xBC, Velocity: 1, Size: 3})
	assert.ErrorIs(t, err, ErrMalformedMessage)
	assert.Empty(t, injector.sent())
}

func TestDispatchInjectionFailure(t *testing.T) {
	cause := errors.New("access denied")
	injector := &fakeInjector{err: cause}
	d, _ := newTestDispatcher(t, injector)

	err := d.Dispatch(noteOn(48))
	assert.ErrorIs(t, err, ErrInjection)
	assert.ErrorIs(t, err, cause)
}

func TestHandleKeepsGoingAfterFailure(t *testing.T) {
	injector := &fakeInjector{err: errors.New("blocked")}
	d, logs := newTestDispatcher(t, injector)

	d.Handle(noteOn(60))
	injector.mu.Lock()
	injector.err = nil
	injector.mu.Unlock()
	d.Handle(noteOn(62))

	assert.Equal(t, []contracts.KeyAction{
		{Key: 0x43, Direction: contracts.KeyDown},
		{Key: 0x44, Direction: contracts.KeyDown},
	}, injector.sent())

	errorsLogged := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorsLogged, 1)
	assert.Equal(t, "Failed to handle MIDI message", errorsLogged[0].Message)
}

func TestDebugTrace(t *testing.T) {
	injector := &fakeInjector{}
	d, logs := newTestDispatcher(t, injector, WithDebug(true))

	require.NoError(t, d.Dispatch(noteOn(61)))
	require.NoError(t, d.Dispatch(noteOff(61)))

	traces := logs.FilterMessage("Note").All()
	require.Len(t, traces, 1)
	assert.EqualValues(t, 61, traces[0].ContextMap()["note"])
	assert.Empty(t, injector.sent())
}

func TestNoDebugTraceByDefault(t *testing.T) {
	d, logs := newTestDispatcher(t, &fakeInjector{})

	require.NoError(t, d.Dispatch(noteOn(60)))
	assert.Zero(t, logs.FilterMessage("Note").Len())
}

func TestConcurrentDispatch(t *testing.T) {
	injector := &fakeInjector{}
	d, _ := newTestDispatcher(t, injector)

	var wg sync.WaitGroup
	for _, note := range []byte{60, 62} {
		wg.Add(1)
		go func(note byte) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.Handle(noteOn(note))
				d.Handle(noteOff(note))
			}
		}(note)
	}
	wg.Wait()

	counts := make(map[contracts.KeyAction]int)
	for _, a := range injector.sent() {
		counts[a]++
	}
	assert.Equal(t, map[contracts.KeyAction]int{
		{Key: 0x43, Direction: contracts.KeyDown}: 100,
		{Key: 0x43, Direction: contracts.KeyUp}:   100,
		{Key: 0x44, Direction: contracts.KeyDown}: 100,
		{Key: 0x44, Direction: contracts.KeyUp}:   100,
	}, counts)

	key, ok := mapping.Default().Lookup(60)
	assert.True(t, ok)
	assert.Equal(t, contracts.KeyCode(0x43), key)
}
