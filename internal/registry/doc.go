// Package registry is the engine's open extension surface: frontends resolve
// launch-file block kinds through it, expression substitutions pick up
// contributed functions from it, and event kinds register for discovery.
// New kinds are contributed by Modules at application wiring time; the
// engine itself never needs to change.
package registry
