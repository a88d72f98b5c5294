package core

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/launchgo/internal/actions"
	"github.com/vk/launchgo/internal/condition"
	"github.com/vk/launchgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// attr looks up an attribute expression on a block body.
func attr(blk *registry.Block, name string) (hclsyntax.Expression, bool) {
	a, ok := blk.Body.Attributes[name]
	if !ok {
		return nil, false
	}
	return a.Expr, true
}

// requiredAttr is attr with a missing-attribute error.
func requiredAttr(blk *registry.Block, name string) (hclsyntax.Expression, error) {
	expr, ok := attr(blk, name)
	if !ok {
		return nil, fmt.Errorf("%q block at %s requires a %q attribute", blk.Kind, blk.Range.String(), name)
	}
	return expr, nil
}

// label returns the single required label of a block.
func label(blk *registry.Block) (string, error) {
	if len(blk.Labels) != 1 {
		return "", fmt.Errorf("%q block at %s requires exactly one label", blk.Kind, blk.Range.String())
	}
	return blk.Labels[0], nil
}

// staticString evaluates an expression that must be a constant string, such
// as an argument description.
func staticString(expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("expression at %s must be a constant: %w", expr.Range().String(), diags)
	}
	if !val.Type().Equals(cty.String) {
		return "", fmt.Errorf("expression at %s must be a string", expr.Range().String())
	}
	return val.AsString(), nil
}

// staticBool evaluates an expression that must be a constant bool.
func staticBool(expr hcl.Expression) (bool, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return false, fmt.Errorf("expression at %s must be a constant: %w", expr.Range().String(), diags)
	}
	if !val.Type().Equals(cty.Bool) {
		return false, fmt.Errorf("expression at %s must be a bool", expr.Range().String())
	}
	return val.True(), nil
}

// staticFloat evaluates an expression that must be a constant number.
func staticFloat(expr hcl.Expression) (float64, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("expression at %s must be a constant: %w", expr.Range().String(), diags)
	}
	if !val.Type().Equals(cty.Number) {
		return 0, fmt.Errorf("expression at %s must be a number", expr.Range().String())
	}
	f, _ := val.AsBigFloat().Float64()
	return f, nil
}

// objectItem is one key/value pair of an object literal, with the key
// resolved statically and the value left as an expression.
type objectItem struct {
	Key   string
	Value hclsyntax.Expression
}

// objectItems decodes an object literal such as an env map, keeping the
// source order of its entries.
func objectItems(expr hclsyntax.Expression) ([]objectItem, error) {
	obj, ok := expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return nil, fmt.Errorf("expression at %s must be an object literal", expr.Range().String())
	}
	items := make([]objectItem, 0, len(obj.Items))
	for _, item := range obj.Items {
		key, err := objectKey(item.KeyExpr)
		if err != nil {
			return nil, err
		}
		items = append(items, objectItem{Key: key, Value: item.ValueExpr})
	}
	return items, nil
}

// objectKey resolves an object key, accepting both bare identifiers and
// quoted strings.
func objectKey(expr hclsyntax.Expression) (string, error) {
	if wrapped, ok := expr.(*hclsyntax.ObjectConsKeyExpr); ok {
		if name := hcl.ExprAsKeyword(wrapped.Wrapped); name != "" {
			return name, nil
		}
		return staticString(wrapped.Wrapped)
	}
	return staticString(expr)
}

// guard decodes the optional "if"/"unless" attributes shared by every block
// kind into action options.
func guard(blk *registry.Block, b registry.Builder) ([]actions.Option, error) {
	ifExpr, hasIf := attr(blk, "if")
	unlessExpr, hasUnless := attr(blk, "unless")
	if hasIf && hasUnless {
		return nil, fmt.Errorf("%q block at %s sets both 'if' and 'unless'", blk.Kind, blk.Range.String())
	}
	if hasIf {
		cond := condition.NewIf(b.Substitution(ifExpr))
		return []actions.Option{actions.WithCondition(cond)}, nil
	}
	if hasUnless {
		cond := condition.NewUnless(b.Substitution(unlessExpr))
		return []actions.Option{actions.WithCondition(cond)}, nil
	}
	return nil, nil
}
