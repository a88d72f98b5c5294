package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/launchgo/internal/launch"
	"github.com/zclconf/go-cty/cty/function"
)

// Module is the interface a package of contributed kinds implements to be
// compiled into the engine.
type Module interface {
	Register(r *Registry)
}

// Block is one launch-file block handed to an action builder: its kind, its
// labels, and its raw body for the builder to decode.
type Block struct {
	Kind   string
	Labels []string
	Body   *hclsyntax.Body
	Range  hcl.Range
}

// Builder is the frontend callback surface available to action builders:
// recursion into nested entity blocks and lazy wrapping of expressions as
// substitutions.
type Builder interface {
	// Entities builds the ordered entities of a nested block body.
	Entities(ctx context.Context, body *hclsyntax.Body) ([]launch.Entity, error)

	// Substitution wraps an expression as a lazily evaluated substitution.
	Substitution(expr hcl.Expression) launch.Substitution

	// SubstitutionList resolves a static list expression into one
	// substitution per element, as needed for an argv.
	SubstitutionList(expr hcl.Expression) ([]launch.Substitution, error)

	// Load parses another launch file, as needed by include actions.
	Load(ctx context.Context, path string) (*launch.Description, error)
}

// BuildFunc constructs an action from a decoded block.
type BuildFunc func(ctx context.Context, blk *Block, b Builder) (launch.Entity, error)

// Registry holds the contributed action kinds, expression functions, and
// event kinds for a single application instance.
type Registry struct {
	actions    map[string]BuildFunc
	functions  map[string]function.Function
	eventKinds map[string]struct{}
}

// New creates and initializes a new Registry instance.
func New(modules ...Module) *Registry {
	r := &Registry{
		actions:    make(map[string]BuildFunc),
		functions:  make(map[string]function.Function),
		eventKinds: make(map[string]struct{}),
	}
	for _, mod := range modules {
		mod.Register(r)
	}
	return r
}

// RegisterAction registers a builder for a launch-file block kind.
func (r *Registry) RegisterAction(kind string, build BuildFunc) {
	if _, exists := r.actions[kind]; exists {
		panic(fmt.Sprintf("action kind '%s' already registered", kind))
	}
	if build == nil {
		panic(fmt.Sprintf("action kind '%s' registered with a nil builder", kind))
	}
	slog.Debug("Registering action kind.", "kind", kind)
	r.actions[kind] = build
}

// Action looks up the builder for a block kind.
func (r *Registry) Action(kind string) (BuildFunc, bool) {
	build, ok := r.actions[kind]
	return build, ok
}

// ActionKinds returns the registered block kinds, sorted for deterministic
// error messages.
func (r *Registry) ActionKinds() []string {
	kinds := make([]string, 0, len(r.actions))
	for kind := range r.actions {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// RegisterFunction contributes a pure function to the expression namespace.
func (r *Registry) RegisterFunction(name string, fn function.Function) {
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("expression function '%s' already registered", name))
	}
	slog.Debug("Registering expression function.", "name", name)
	r.functions[name] = fn
}

// Functions returns a copy of the contributed expression functions.
func (r *Registry) Functions() map[string]function.Function {
	funcs := make(map[string]function.Function, len(r.functions))
	for name, fn := range r.functions {
		funcs[name] = fn
	}
	return funcs
}

// RegisterEventKind makes a contributed event kind discoverable.
func (r *Registry) RegisterEventKind(kind string) {
	if _, exists := r.eventKinds[kind]; exists {
		panic(fmt.Sprintf("event kind '%s' already registered", kind))
	}
	r.eventKinds[kind] = struct{}{}
}

// HasEventKind reports whether an event kind has been registered.
func (r *Registry) HasEventKind(kind string) bool {
	_, ok := r.eventKinds[kind]
	return ok
}
