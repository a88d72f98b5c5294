package substitution

import (
	"fmt"

	"github.com/vk/launchgo/internal/launch"
)

// Text is a literal substitution: it evaluates to its value unchanged.
type Text struct {
	Value string
}

// NewText wraps a literal string as a substitution.
func NewText(value string) *Text {
	return &Text{Value: value}
}

// Evaluate implements launch.Substitution.
func (t *Text) Evaluate(lc *launch.Context) (string, error) {
	return t.Value, nil
}

// Describe implements launch.Substitution.
func (t *Text) Describe() string {
	return fmt.Sprintf("%q", t.Value)
}

// TextList wraps each string as a Text substitution, for callers building
// descriptions from plain strings.
func TextList(values ...string) []launch.Substitution {
	subs := make([]launch.Substitution, len(values))
	for i, v := range values {
		subs[i] = NewText(v)
	}
	return subs
}
