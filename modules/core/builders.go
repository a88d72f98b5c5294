package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/launchgo/internal/actions"
	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/events"
	"github.com/vk/launchgo/internal/handlers"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/registry"
	"github.com/vk/launchgo/internal/substitution"
)

// buildArgument decodes an `argument "name" {}` block with optional
// `default` and `description` attributes.
func buildArgument(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	name, err := label(blk)
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}

	action := actions.NewDeclareArgument(name, opts...)
	if expr, ok := attr(blk, "default"); ok {
		action.Default = []launch.Substitution{b.Substitution(expr)}
	}
	if expr, ok := attr(blk, "description"); ok {
		action.Description, err = staticString(expr)
		if err != nil {
			return nil, err
		}
	}
	return action, nil
}

// buildSet decodes a `set "key" { value = ... }` block.
func buildSet(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	key, err := label(blk)
	if err != nil {
		return nil, err
	}
	valueExpr, err := requiredAttr(blk, "value")
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}
	value := []launch.Substitution{b.Substitution(valueExpr)}
	return actions.NewSetConfiguration(substitution.TextList(key), value, opts...), nil
}

// buildProcess decodes a `process "name" {}` block with a required `cmd`
// list and optional `cwd` and `env` attributes.
func buildProcess(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	name, err := label(blk)
	if err != nil {
		return nil, err
	}
	cmdExpr, err := requiredAttr(blk, "cmd")
	if err != nil {
		return nil, err
	}
	cmd, err := b.SubstitutionList(cmdExpr)
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}

	action := actions.NewExecuteProcess(name, cmd, opts...)
	if expr, ok := attr(blk, "cwd"); ok {
		action.Cwd = []launch.Substitution{b.Substitution(expr)}
	}
	if expr, ok := attr(blk, "env"); ok {
		items, err := objectItems(expr)
		if err != nil {
			return nil, err
		}
		action.Env = make(map[string]launch.Substitution, len(items))
		for _, item := range items {
			action.Env[item.Key] = b.Substitution(item.Value)
		}
	}
	return action, nil
}

// buildGroup decodes a `group {}` block. Groups are scoped unless
// `scoped = false`.
func buildGroup(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	scoped := true
	if expr, ok := attr(blk, "scoped"); ok {
		var err error
		scoped, err = staticBool(expr)
		if err != nil {
			return nil, err
		}
	}
	children, err := b.Entities(ctx, blk.Body)
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}
	return actions.NewGroup(scoped, children, opts...), nil
}

// buildInclude decodes an `include { path = ... }` block. The path is a
// substitution, so the included file is only resolved and read when the
// include executes; relative paths are anchored at the including file's
// directory.
func buildInclude(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	pathExpr, err := requiredAttr(blk, "path")
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}

	pathSub := b.Substitution(pathExpr)
	baseDir := filepath.Dir(blk.Range.Filename)

	return actions.NewOpaqueFunction(func(ctx context.Context, lc *launch.Context) ([]launch.Entity, error) {
		path, err := pathSub.Evaluate(lc)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		path = filepath.Clean(path)

		inc := actions.NewInclude(path, nil)
		inc.Load = func(ctx context.Context, lc *launch.Context) (*launch.Description, error) {
			return b.Load(ctx, path)
		}
		return []launch.Entity{inc}, nil
	}, opts...), nil
}

// buildLog decodes a `log { message = ... }` block.
func buildLog(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	msgExpr, err := requiredAttr(blk, "message")
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}
	return actions.NewLogInfo([]launch.Substitution{b.Substitution(msgExpr)}, opts...), nil
}

// buildTimer decodes a `timer { after = <seconds> }` block whose nested
// blocks fire when the timer expires.
func buildTimer(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	afterExpr, err := requiredAttr(blk, "after")
	if err != nil {
		return nil, err
	}
	seconds, err := staticFloat(afterExpr)
	if err != nil {
		return nil, err
	}
	if seconds < 0 {
		return nil, fmt.Errorf("timer block at %s has a negative 'after'", blk.Range.String())
	}
	entities, err := b.Entities(ctx, blk.Body)
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}
	after := time.Duration(seconds * float64(time.Second))
	return actions.NewTimer(after, entities, opts...), nil
}

// buildOnExit decodes an `on_exit "process" {}` block whose nested blocks
// run when the named process exits. An empty label matches any process.
func buildOnExit(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	name, err := label(blk)
	if err != nil {
		return nil, err
	}
	entities, err := b.Entities(ctx, blk.Body)
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}
	return actions.NewRegisterEventHandler(handlers.OnProcessExit(name, entities...), opts...), nil
}

// buildOnOutput decodes an `on_output "process" {}` block that echoes the
// matched process's output lines through the launch logger. An empty label
// matches any process; an optional `stream` attribute restricts the echo to
// "stdout" or "stderr".
func buildOnOutput(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	name, err := label(blk)
	if err != nil {
		return nil, err
	}
	stream := ""
	if expr, ok := attr(blk, "stream"); ok {
		stream, err = staticString(expr)
		if err != nil {
			return nil, err
		}
		if stream != "stdout" && stream != "stderr" {
			return nil, fmt.Errorf("on_output block at %s has unknown stream %q, want \"stdout\" or \"stderr\"", blk.Range.String(), stream)
		}
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}

	echo := func(ctx context.Context, lc *launch.Context, out events.ProcessOutput) ([]launch.Entity, error) {
		ctxlog.FromContext(ctx).Info("Process output.", "name", out.Name, "stream", out.Stream, "line", out.Line)
		return nil, nil
	}
	var onStdout, onStderr handlers.OutputFunc
	if stream == "" || stream == "stdout" {
		onStdout = echo
	}
	if stream == "" || stream == "stderr" {
		onStderr = echo
	}
	return actions.NewRegisterEventHandler(handlers.OnProcessOutput(name, onStdout, onStderr), opts...), nil
}

// buildOnShutdown decodes an `on_shutdown {}` block whose nested blocks run
// as shutdown cleanup.
func buildOnShutdown(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	entities, err := b.Entities(ctx, blk.Body)
	if err != nil {
		return nil, err
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}
	return actions.NewRegisterEventHandler(handlers.OnShutdown(entities...), opts...), nil
}

// buildShutdown decodes a `shutdown { reason = ... }` block.
func buildShutdown(ctx context.Context, blk *registry.Block, b registry.Builder) (launch.Entity, error) {
	var reason []launch.Substitution
	if expr, ok := attr(blk, "reason"); ok {
		reason = []launch.Substitution{b.Substitution(expr)}
	}
	opts, err := guard(blk, b)
	if err != nil {
		return nil, err
	}
	return actions.NewShutdown(reason, opts...), nil
}
