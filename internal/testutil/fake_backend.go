package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/process"
)

// FakeBackend is a scripted process.Backend. Started processes stay alive
// until the test exits them explicitly or the service cancels them, which
// keeps service tests free of real child processes.
type FakeBackend struct {
	mu      sync.Mutex
	started []*FakeHandle

	// StartErr, when set, is returned by Start instead of a handle.
	StartErr error
}

// NewFakeBackend creates an empty scripted backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

// Start implements process.Backend.
func (b *FakeBackend) Start(ctx context.Context, spec process.Spec, sink launch.EventSink) (process.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.StartErr != nil {
		return nil, b.StartErr
	}

	h := &FakeHandle{
		id:   uuid.NewString(),
		name: spec.Name,
		spec: spec,
		sink: sink,
	}
	b.started = append(b.started, h)
	sink.EmitEvent(events.ProcessStarted{
		ProcessID: h.id,
		Name:      h.name,
		Cmd:       spec.Cmd,
		PID:       1000 + len(b.started),
	})
	return h, nil
}

// Started returns the handles started so far, in order.
func (b *FakeBackend) Started() []*FakeHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*FakeHandle(nil), b.started...)
}

// Handle returns the started handle with the given process name, or nil.
func (b *FakeBackend) Handle(name string) *FakeHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.started {
		if h.name == name {
			return h
		}
	}
	return nil
}

// FakeHandle is a scripted process handle.
type FakeHandle struct {
	id   string
	name string
	spec process.Spec
	sink launch.EventSink

	mu       sync.Mutex
	exited   bool
	signals  []os.Signal
	exitCode int
}

// ID implements process.Handle.
func (h *FakeHandle) ID() string { return h.id }

// Name implements process.Handle.
func (h *FakeHandle) Name() string { return h.name }

// Spec returns the spec the handle was started with.
func (h *FakeHandle) Spec() process.Spec { return h.spec }

// IsAlive implements process.Handle.
func (h *FakeHandle) IsAlive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.exited
}

// Signal implements process.Handle, recording the signal for assertions.
func (h *FakeHandle) Signal(sig os.Signal) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exited {
		return nil
	}
	h.signals = append(h.signals, sig)
	return nil
}

// Signals returns the signals delivered so far.
func (h *FakeHandle) Signals() []os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]os.Signal(nil), h.signals...)
}

// Exit scripts the process exiting with the given code, emitting the exited
// event the way a real watcher would.
func (h *FakeHandle) Exit(code int) {
	h.mu.Lock()
	if h.exited {
		h.mu.Unlock()
		return
	}
	h.exited = true
	h.exitCode = code
	h.mu.Unlock()

	h.sink.EmitEvent(events.ProcessExited{
		ProcessID: h.id,
		Name:      h.name,
		Code:      code,
	})
}

// EmitOutput scripts a line of process output on the given stream.
func (h *FakeHandle) EmitOutput(stream, line string) {
	h.sink.EmitEvent(events.ProcessOutput{
		ProcessID: h.id,
		Name:      h.name,
		Stream:    stream,
		Line:      line,
	})
}

// Cancel implements launch.Cancellable, scripting a clean termination.
func (h *FakeHandle) Cancel(ctx context.Context) error {
	h.Exit(0)
	return nil
}

// String helps test failure messages.
func (h *FakeHandle) String() string {
	return fmt.Sprintf("fake process %s (%s)", h.name, h.id)
}
