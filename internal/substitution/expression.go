package substitution

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/launchgo/internal/launch"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Expression evaluates a user-supplied HCL expression against a restricted
// namespace and stringifies the result.
//
// The namespace exposes `var.<key>` for visible launch configurations,
// `env.<name>` for the environment snapshot, and a fixed set of pure string
// and arithmetic functions. Nothing else is reachable, but the expression is
// still user code: treat launch files from untrusted sources accordingly.
type Expression struct {
	// Source is the expression text, kept for Describe and error messages.
	Source string

	expr hcl.Expression

	// Funcs extends the base function namespace. Contributed substitution
	// kinds register here through the extension registry; nil means the base
	// set only.
	Funcs map[string]function.Function
}

// ParseExpression parses expression source into a lazy substitution. Parse
// errors are reported immediately; evaluation errors only at execution time.
func ParseExpression(src string) (*Expression, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<expression>", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse expression %q: %w", src, diags)
	}
	return &Expression{Source: src, expr: expr}, nil
}

// FromHCL wraps an expression already parsed by a frontend. The source text
// is only used for introspection.
func FromHCL(expr hcl.Expression, source string) *Expression {
	return &Expression{Source: source, expr: expr}
}

// Evaluate implements launch.Substitution.
func (e *Expression) Evaluate(lc *launch.Context) (string, error) {
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": objectFromStrings(lc.VisibleConfigurations()),
			"env": objectFromStrings(lc.Environ()),
		},
		Functions: e.functions(),
	}

	val, diags := e.expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to evaluate expression %q: %w", e.Source, diags)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("expression %q did not produce a usable value", e.Source)
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("result of expression %q (%s) is not convertible to string: %w",
			e.Source, val.Type().FriendlyName(), err)
	}
	return str.AsString(), nil
}

// Describe implements launch.Substitution.
func (e *Expression) Describe() string {
	return fmt.Sprintf("expr(%s)", e.Source)
}

func (e *Expression) functions() map[string]function.Function {
	funcs := baseFunctions()
	for name, fn := range e.Funcs {
		funcs[name] = fn
	}
	return funcs
}

// baseFunctions is the restricted default namespace: pure, side-effect-free
// helpers only.
func baseFunctions() map[string]function.Function {
	return map[string]function.Function{
		"upper":    stdlib.UpperFunc,
		"lower":    stdlib.LowerFunc,
		"format":   stdlib.FormatFunc,
		"join":     stdlib.JoinFunc,
		"split":    stdlib.SplitFunc,
		"strlen":   stdlib.StrlenFunc,
		"substr":   stdlib.SubstrFunc,
		"trim":     stdlib.TrimFunc,
		"coalesce": stdlib.CoalesceFunc,
		"min":      stdlib.MinFunc,
		"max":      stdlib.MaxFunc,
		"abs":      stdlib.AbsoluteFunc,
	}
}

func objectFromStrings(values map[string]string) cty.Value {
	if len(values) == 0 {
		return cty.EmptyObjectVal
	}
	ctyValues := make(map[string]cty.Value, len(values))
	for k, v := range values {
		ctyValues[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(ctyValues)
}
