// Package app wires the registry, the launch-file frontend, and the launch
// service into a runnable application with an isolated logger.
package app
