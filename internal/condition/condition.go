// Package condition provides the boolean guards that gate entity execution.
// A condition wraps substitutions expected to yield a canonical boolean
// token; anything else is a condition-evaluation error.
package condition

import (
	"strings"

	"github.com/vk/launchgo/internal/launch"
)

// ParseBool maps the canonical condition tokens onto a boolean,
// case-insensitively. Unrecognized tokens fail with a launch.ConditionError.
func ParseBool(token string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, &launch.ConditionError{Token: token}
	}
}

// If passes when its predicate substitutions resolve to a true token.
type If struct {
	Predicate []launch.Substitution
}

// NewIf builds an If condition over a single substitution.
func NewIf(predicate launch.Substitution) *If {
	return &If{Predicate: []launch.Substitution{predicate}}
}

// Evaluate implements launch.Condition.
func (c *If) Evaluate(lc *launch.Context) (bool, error) {
	token, err := launch.Resolve(lc, c.Predicate)
	if err != nil {
		return false, err
	}
	return ParseBool(token)
}

// Unless passes when its predicate substitutions resolve to a false token.
type Unless struct {
	Predicate []launch.Substitution
}

// NewUnless builds an Unless condition over a single substitution.
func NewUnless(predicate launch.Substitution) *Unless {
	return &Unless{Predicate: []launch.Substitution{predicate}}
}

// Evaluate implements launch.Condition.
func (c *Unless) Evaluate(lc *launch.Context) (bool, error) {
	token, err := launch.Resolve(lc, c.Predicate)
	if err != nil {
		return false, err
	}
	value, err := ParseBool(token)
	if err != nil {
		return false, err
	}
	return !value, nil
}
