// Package core contributes the built-in launch-file block kinds: arguments,
// configuration writes, processes, groups, includes, timers, event wiring,
// logging, and shutdown.
package core

import (
	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/registry"
)

// Module registers the built-in action kinds and event kinds.
type Module struct{}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("argument", buildArgument)
	r.RegisterAction("set", buildSet)
	r.RegisterAction("process", buildProcess)
	r.RegisterAction("group", buildGroup)
	r.RegisterAction("include", buildInclude)
	r.RegisterAction("log", buildLog)
	r.RegisterAction("timer", buildTimer)
	r.RegisterAction("on_exit", buildOnExit)
	r.RegisterAction("on_output", buildOnOutput)
	r.RegisterAction("on_shutdown", buildOnShutdown)
	r.RegisterAction("shutdown", buildShutdown)

	r.RegisterEventKind(events.KindProcessStarted)
	r.RegisterEventKind(events.KindProcessExited)
	r.RegisterEventKind(events.KindProcessOutput)
	r.RegisterEventKind(events.KindSignalProcess)
	r.RegisterEventKind(events.KindShutdown)
	r.RegisterEventKind(events.KindActionFailed)
	r.RegisterEventKind(events.KindTimerExpired)
}
