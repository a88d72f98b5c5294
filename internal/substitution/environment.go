package substitution

import (
	"fmt"

	"github.com/vk/launchgo/internal/launch"
)

// Environment resolves a variable from the context's environment snapshot.
type Environment struct {
	Name []launch.Substitution

	// Default is used when the variable is absent from the snapshot. A nil
	// slice means no default.
	Default []launch.Substitution
}

// NewEnvironment builds an environment lookup for a plain variable name.
func NewEnvironment(name string) *Environment {
	return &Environment{Name: TextList(name)}
}

// WithDefault returns the same lookup with a literal default attached.
func (e *Environment) WithDefault(value string) *Environment {
	e.Default = TextList(value)
	return e
}

// Evaluate implements launch.Substitution.
func (e *Environment) Evaluate(lc *launch.Context) (string, error) {
	name, err := launch.Resolve(lc, e.Name)
	if err != nil {
		return "", err
	}
	if value, ok := lc.LookupEnvironment(name); ok {
		return value, nil
	}
	if e.Default != nil {
		return launch.Resolve(lc, e.Default)
	}
	return "", &launch.MissingReferenceError{Kind: "environment variable", Name: name}
}

// Describe implements launch.Substitution.
func (e *Environment) Describe() string {
	return fmt.Sprintf("env(%s)", launch.DescribeAll(e.Name))
}
