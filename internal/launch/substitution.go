package launch

import "strings"

// Substitution is a deferred string-producing expression. Evaluation happens
// at execution time against the current Context, never at description build
// time.
type Substitution interface {
	// Evaluate resolves the substitution to its final string value.
	Evaluate(lc *Context) (string, error)

	// Describe returns a static, human-readable form of the substitution for
	// introspection and error messages. It must not evaluate anything.
	Describe() string
}

// Resolve evaluates a list of substitutions in order and concatenates the
// results. A nil or empty list resolves to the empty string.
func Resolve(lc *Context, subs []Substitution) (string, error) {
	var sb strings.Builder
	for _, sub := range subs {
		value, err := sub.Evaluate(lc)
		if err != nil {
			return "", err
		}
		sb.WriteString(value)
	}
	return sb.String(), nil
}

// DescribeAll returns the concatenated static description of a substitution
// list, used when reporting defaults and conflicts.
func DescribeAll(subs []Substitution) string {
	var sb strings.Builder
	for _, sub := range subs {
		sb.WriteString(sub.Describe())
	}
	return sb.String()
}

// Condition is a boolean execution guard evaluated against the Context at
// execution time.
type Condition interface {
	Evaluate(lc *Context) (bool, error)
}
