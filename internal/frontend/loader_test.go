package frontend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/launchgo/internal/actions"
	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/frontend"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/registry"
	"github.com/vk/launchgo/internal/testutil"
	"github.com/vk/launchgo/modules/core"
)

func loadFiles(t *testing.T, files map[string]string) (*launch.Description, error) {
	t.Helper()
	dir := testutil.WriteLaunchFiles(t, files)
	loader := frontend.NewLoader(registry.New(&core.Module{}))
	ctx := ctxlog.Discard(context.Background())
	return loader.Load(ctx, dir+"/main.hcl")
}

func TestLoad_BuildsEntitiesInSourceOrder(t *testing.T) {
	desc, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  argument "who" {
    default     = "world"
    description = "who to greet"
  }

  set "greeting" {
    value = "hello"
  }

  log {
    message = "${var.greeting} ${var.who}"
  }

  process "server" {
    cmd = ["sh", "-c", "echo hi"]
    env = {
      MODE = var.greeting
    }
  }

  shutdown {
    reason = "example over"
  }
}
`,
	})
	require.NoError(t, err)

	entities := desc.Entities()
	require.Len(t, entities, 5)

	arg, ok := entities[0].(*actions.DeclareArgument)
	require.True(t, ok)
	assert.Equal(t, "who", arg.Name)
	assert.Equal(t, "who to greet", arg.Description)
	require.NotNil(t, arg.Default)

	_, ok = entities[1].(*actions.SetConfiguration)
	assert.True(t, ok)
	_, ok = entities[2].(*actions.LogInfo)
	assert.True(t, ok)

	proc, ok := entities[3].(*actions.ExecuteProcess)
	require.True(t, ok)
	assert.Equal(t, "server", proc.Name)
	assert.Len(t, proc.Cmd, 3)
	assert.Contains(t, proc.Env, "MODE")

	_, ok = entities[4].(*actions.Shutdown)
	assert.True(t, ok)
}

func TestLoad_GroupNestsChildren(t *testing.T) {
	desc, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  group {
    set "inner" {
      value = "x"
    }

    group {
      scoped = false

      log {
        message = "nested"
      }
    }
  }
}
`,
	})
	require.NoError(t, err)

	entities := desc.Entities()
	require.Len(t, entities, 1)
	group, ok := entities[0].(*actions.Group)
	require.True(t, ok)
	assert.True(t, group.Scoped)

	children := group.SubEntities()
	require.Len(t, children, 2)
	inner, ok := children[1].(*actions.Group)
	require.True(t, ok)
	assert.False(t, inner.Scoped)
}

func TestLoad_ConditionsAttach(t *testing.T) {
	desc, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  log {
    message = "guarded"
    if      = var.flag
  }

  log {
    message = "inverted"
    unless  = "true"
  }
}
`,
	})
	require.NoError(t, err)

	entities := desc.Entities()
	require.Len(t, entities, 2)
	for _, e := range entities {
		conditioned, ok := e.(launch.Conditioned)
		require.True(t, ok)
		assert.NotNil(t, conditioned.Condition())
	}
}

func TestLoad_IfAndUnlessConflict(t *testing.T) {
	_, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  log {
    message = "x"
    if      = "true"
    unless  = "false"
  }
}
`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both 'if' and 'unless'")
}

func TestLoad_TimerAndEventWiring(t *testing.T) {
	desc, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  timer {
    after = 1.5

    shutdown {
      reason = "timed out"
    }
  }

  on_exit "server" {
    log {
      message = "server finished"
    }
  }

  on_shutdown {
    log {
      message = "bye"
    }
  }
}
`,
	})
	require.NoError(t, err)

	entities := desc.Entities()
	require.Len(t, entities, 3)

	timer, ok := entities[0].(*actions.Timer)
	require.True(t, ok)
	assert.Equal(t, 1500, int(timer.After.Milliseconds()))
	assert.Len(t, timer.SubEntities(), 1)

	_, ok = entities[1].(*actions.RegisterEventHandler)
	assert.True(t, ok)
	_, ok = entities[2].(*actions.RegisterEventHandler)
	assert.True(t, ok)
}

func TestLoad_OnOutputBlock(t *testing.T) {
	desc, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  on_output "server" {
    stream = "stderr"
  }

  on_output "" {}
}
`,
	})
	require.NoError(t, err)

	entities := desc.Entities()
	require.Len(t, entities, 2)
	for _, e := range entities {
		_, ok := e.(*actions.RegisterEventHandler)
		assert.True(t, ok)
	}
}

func TestLoad_OnOutputRejectsUnknownStream(t *testing.T) {
	_, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  on_output "server" {
    stream = "stdin"
  }
}
`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stream")
}

func TestLoad_IncludeIsLazy(t *testing.T) {
	desc, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  include {
    path = "child.hcl"
  }
}
`,
		// Deliberately malformed: a lazy include must not parse it at load time.
		"child.hcl": `launch { log }`,
	})
	require.NoError(t, err)

	entities := desc.Entities()
	require.Len(t, entities, 1)
	_, ok := entities[0].(*actions.OpaqueFunction)
	assert.True(t, ok)
}

func TestLoad_UnknownBlockKind(t *testing.T) {
	_, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  rocket "to-the-moon" {}
}
`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown block kind "rocket"`)
	assert.Contains(t, err.Error(), "known kinds")
}

func TestLoad_RequiresLaunchBlock(t *testing.T) {
	_, err := loadFiles(t, map[string]string{
		"main.hcl": `set "x" { value = "y" }`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'launch'")
}

func TestLoad_RejectsDuplicateLaunchBlocks(t *testing.T) {
	_, err := loadFiles(t, map[string]string{
		"main.hcl": "launch {}\nlaunch {}\n",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoad_CmdMustBeAList(t *testing.T) {
	_, err := loadFiles(t, map[string]string{
		"main.hcl": `
launch {
  process "p" {
    cmd = "not-a-list"
  }
}
`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list")
}

func TestLoad_ParseErrorIsReported(t *testing.T) {
	_, err := loadFiles(t, map[string]string{
		"main.hcl": `launch {`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse launch file")
}

func TestLoad_DirectoryMergesFilesInLexicalOrder(t *testing.T) {
	dir := testutil.WriteLaunchFiles(t, map[string]string{
		"b.hcl": "launch {\n  set \"second\" {\n    value = \"2\"\n  }\n}\n",
		"a.hcl": "launch {\n  set \"first\" {\n    value = \"1\"\n  }\n}\n",
	})
	loader := frontend.NewLoader(registry.New(&core.Module{}))
	ctx := ctxlog.Discard(context.Background())

	desc, err := loader.Load(ctx, dir)
	require.NoError(t, err)
	require.Len(t, desc.Entities(), 2)

	first, ok := desc.Entities()[0].(*actions.SetConfiguration)
	require.True(t, ok)
	assert.Equal(t, `"first"`, launch.DescribeAll(first.Name))
}

func TestLoad_MissingPathFails(t *testing.T) {
	loader := frontend.NewLoader(registry.New(&core.Module{}))
	ctx := ctxlog.Discard(context.Background())
	_, err := loader.Load(ctx, "/nonexistent/launchgo/main.hcl")
	require.Error(t, err)
}
