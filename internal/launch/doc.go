// Package launch defines the core contracts of the engine: entities,
// substitutions, conditions, events, event handlers, and the Context that
// every visit is evaluated against. Concrete variants live in their own
// packages (actions, substitution, condition, events, handlers); the engine
// dispatches through these interfaces only, so new kinds can be contributed
// without touching it.
package launch
