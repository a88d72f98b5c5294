package frontend

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/registry"
	"github.com/vk/launchgo/internal/substitution"
	"github.com/zclconf/go-cty/cty/function"
)

// builder is the registry.Builder handed to action builders. It dispatches
// nested blocks back through the registry and wraps expressions as lazy
// substitutions carrying the contributed function namespace.
type builder struct {
	loader *Loader
	funcs  map[string]function.Function
}

func (b *builder) Entities(ctx context.Context, body *hclsyntax.Body) ([]launch.Entity, error) {
	var entities []launch.Entity
	for _, blk := range body.Blocks {
		build, ok := b.loader.registry.Action(blk.Type)
		if !ok {
			return nil, fmt.Errorf("unknown block kind %q at %s, known kinds: %s",
				blk.Type, blk.DefRange().String(), strings.Join(b.loader.registry.ActionKinds(), ", "))
		}
		entity, err := build(ctx, &registry.Block{
			Kind:   blk.Type,
			Labels: blk.Labels,
			Body:   blk.Body,
			Range:  blk.DefRange(),
		}, b)
		if err != nil {
			return nil, fmt.Errorf("failed to build %q block at %s: %w", blk.Type, blk.DefRange().String(), err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (b *builder) Substitution(expr hcl.Expression) launch.Substitution {
	sub := substitution.FromHCL(expr, b.loader.sourceAt(expr.Range()))
	sub.Funcs = b.funcs
	return sub
}

func (b *builder) SubstitutionList(expr hcl.Expression) ([]launch.Substitution, error) {
	tuple, ok := expr.(*hclsyntax.TupleConsExpr)
	if !ok {
		return nil, fmt.Errorf("expression at %s must be a list literal", expr.Range().String())
	}
	subs := make([]launch.Substitution, 0, len(tuple.Exprs))
	for _, item := range tuple.Exprs {
		subs = append(subs, b.Substitution(item))
	}
	return subs, nil
}

func (b *builder) Load(ctx context.Context, path string) (*launch.Description, error) {
	return b.loader.Load(ctx, path)
}
