package substitution

import (
	"fmt"

	"github.com/vk/launchgo/internal/launch"
)

// Configuration resolves a launch configuration key against the current scope
// stack. The key itself may be built from substitutions. Resolution order is
// exact match in the current scopes, then the default, else a
// missing-reference error.
type Configuration struct {
	Name []launch.Substitution

	// Default is used when the key is not set in any open scope. A nil slice
	// means no default; an empty value must be expressed as NewText("").
	Default []launch.Substitution
}

// NewConfiguration builds a configuration lookup for a plain key name with no
// default.
func NewConfiguration(name string) *Configuration {
	return &Configuration{Name: TextList(name)}
}

// WithDefault returns the same lookup with a literal default attached.
func (c *Configuration) WithDefault(value string) *Configuration {
	c.Default = TextList(value)
	return c
}

// Evaluate implements launch.Substitution.
func (c *Configuration) Evaluate(lc *launch.Context) (string, error) {
	name, err := launch.Resolve(lc, c.Name)
	if err != nil {
		return "", err
	}
	if value, ok := lc.LookupConfiguration(name); ok {
		return value, nil
	}
	if c.Default != nil {
		return launch.Resolve(lc, c.Default)
	}
	if lc.ArgumentDeclared(name) {
		return "", &launch.MissingReferenceError{Kind: "argument", Name: name}
	}
	return "", &launch.MissingReferenceError{Kind: "configuration", Name: name}
}

// Describe implements launch.Substitution.
func (c *Configuration) Describe() string {
	return fmt.Sprintf("config(%s)", launch.DescribeAll(c.Name))
}
