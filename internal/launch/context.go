package launch

import (
	"os"
	"slices"
	"strings"
)

// declaredArgument records the first declaration of a launch argument so that
// later re-declarations can be checked for conflicts.
type declaredArgument struct {
	Name        string
	Default     string // static description of the default, "" when absent
	HasDefault  bool
	Description string
}

// Context is the live evaluation environment shared by every visit: the
// configuration scope stack, an environment snapshot, the argument registry,
// and the handles into the owning service's queues.
//
// The Context is mutated only from inside the service's cooperative loop; it
// is not safe for concurrent use and never needs to be, because at most one
// visit or reaction runs at a time.
type Context struct {
	scopes  []map[string]string
	environ map[string]string
	args    map[string]declaredArgument

	// includePath is the chain of include sources currently being expanded,
	// used to detect include cycles.
	includePath []string

	// Events, Handlers, and Processes are the service-side collaborators
	// wired in by the owning service before the loop starts.
	Events   EventSink
	Handlers HandlerRegistry
	Tracker  Tracker
}

// NewContext creates a Context with a single root configuration scope and a
// snapshot of the current process environment.
func NewContext() *Context {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return &Context{
		scopes:  []map[string]string{make(map[string]string)},
		environ: environ,
		args:    make(map[string]declaredArgument),
	}
}

// PushScope enters a new configuration scope. Keys set inside it shadow outer
// values and disappear again when the scope is popped.
func (lc *Context) PushScope() {
	lc.scopes = append(lc.scopes, make(map[string]string))
}

// PopScope leaves the innermost configuration scope. The root scope cannot be
// popped; doing so is a programmer error in scope splicing.
func (lc *Context) PopScope() {
	if len(lc.scopes) <= 1 {
		panic("launch: configuration scope stack underflow")
	}
	lc.scopes = lc.scopes[:len(lc.scopes)-1]
}

// ScopeDepth returns the number of configuration scopes currently open,
// including the root scope.
func (lc *Context) ScopeDepth() int {
	return len(lc.scopes)
}

// SetConfiguration stores a key in the innermost scope.
func (lc *Context) SetConfiguration(name, value string) {
	lc.scopes[len(lc.scopes)-1][name] = value
}

// LookupConfiguration resolves a key against the scope stack, innermost
// scope first.
func (lc *Context) LookupConfiguration(name string) (string, bool) {
	for i := len(lc.scopes) - 1; i >= 0; i-- {
		if value, ok := lc.scopes[i][name]; ok {
			return value, true
		}
	}
	return "", false
}

// VisibleConfigurations flattens the scope stack into the key set visible
// from the innermost scope, with inner values shadowing outer ones. Used by
// expression substitutions to build their evaluation namespace.
func (lc *Context) VisibleConfigurations() map[string]string {
	visible := make(map[string]string)
	for _, scope := range lc.scopes {
		for k, v := range scope {
			visible[k] = v
		}
	}
	return visible
}

// Environ returns a copy of the environment snapshot.
func (lc *Context) Environ() map[string]string {
	environ := make(map[string]string, len(lc.environ))
	for k, v := range lc.environ {
		environ[k] = v
	}
	return environ
}

// LookupEnvironment resolves a variable from the environment snapshot taken
// when the context was created.
func (lc *Context) LookupEnvironment(name string) (string, bool) {
	value, ok := lc.environ[name]
	return value, ok
}

// SetEnvironment overrides a variable in the environment snapshot. Used by
// tests and by frontends applying initial overrides.
func (lc *Context) SetEnvironment(name, value string) {
	lc.environ[name] = value
}

// DeclareArgument registers a launch argument. Re-declaring with an identical
// default is a no-op; re-declaring with a different default is an
// ArgumentConflictError. defaultDesc is the static description of the
// default substitution, or "" when the argument has none.
func (lc *Context) DeclareArgument(name, defaultDesc string, hasDefault bool, description string) error {
	if prev, ok := lc.args[name]; ok {
		if prev.HasDefault != hasDefault || prev.Default != defaultDesc {
			return &ArgumentConflictError{
				Name:        name,
				Declared:    describeDefault(prev.Default, prev.HasDefault),
				Conflicting: describeDefault(defaultDesc, hasDefault),
			}
		}
		return nil
	}
	lc.args[name] = declaredArgument{
		Name:        name,
		Default:     defaultDesc,
		HasDefault:  hasDefault,
		Description: description,
	}
	return nil
}

// ArgumentDeclared reports whether an argument of the given name has been
// declared during this run.
func (lc *Context) ArgumentDeclared(name string) bool {
	_, ok := lc.args[name]
	return ok
}

func describeDefault(desc string, has bool) string {
	if !has {
		return "(none)"
	}
	return desc
}

// PushInclude enters an include identified by source, failing with an
// IncludeCycleError when the source is already on the include path.
func (lc *Context) PushInclude(source string) error {
	if slices.Contains(lc.includePath, source) {
		return &IncludeCycleError{Path: append(slices.Clone(lc.includePath), source)}
	}
	lc.includePath = append(lc.includePath, source)
	return nil
}

// PopInclude leaves the innermost include.
func (lc *Context) PopInclude() {
	if len(lc.includePath) == 0 {
		panic("launch: include path underflow")
	}
	lc.includePath = lc.includePath[:len(lc.includePath)-1]
}
