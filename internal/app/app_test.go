package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/launchgo/internal/app"
	"github.com/vk/launchgo/internal/service"
	"github.com/vk/launchgo/internal/testutil"
)

// runWithArgs runs a launch file with argument overrides applied, the way
// the CLI's -arg flag does.
func runWithArgs(t *testing.T, path string, args map[string]string) *testutil.HarnessResult {
	t.Helper()

	cfg, err := app.NewConfig(app.Config{
		LaunchPath: path,
		LogLevel:   "debug",
		LogFormat:  "text",
		Arguments:  args,
	})
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp := app.NewApp(logBuffer, cfg)
	runErr := testApp.Run(context.Background(), cfg)
	return &testutil.HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}

func TestRun_SubstitutionsResolveLazily(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  argument "who" {
    default = "world"
  }

  set "greeting" {
    value = "hello"
  }

  log {
    message = format("%s %s", var.greeting, upper(var.who))
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "hello WORLD")
	assert.Equal(t, service.Stopped, result.App.Service().State())
}

func TestRun_ArgumentOverrideBeatsDefault(t *testing.T) {
	dir := testutil.WriteLaunchFiles(t, map[string]string{
		"main.hcl": `
launch {
  argument "who" {
    default = "default-value"
  }

  log {
    message = "who=${var.who}"
  }
}
`,
	})

	result := runWithArgs(t, dir+"/main.hcl", map[string]string{"who": "override"})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "who=override")
	assert.NotContains(t, result.LogOutput, "who=default-value")
}

func TestRun_MissingRequiredArgumentFails(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  argument "required" {}

  log {
    message = var.required
  }
}
`,
	})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "required")
}

func TestRun_ScopedGroupRestoresConfiguration(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  set "mode" {
    value = "outer"
  }

  group {
    set "mode" {
      value = "inner"
    }

    log {
      message = "inside=${var.mode}"
    }
  }

  log {
    message = "outside=${var.mode}"
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "inside=inner")
	assert.Contains(t, result.LogOutput, "outside=outer")
}

func TestRun_ConditionSkipsBlock(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  set "enabled" {
    value = "false"
  }

  log {
    message = "must-not-appear"
    if      = var.enabled
  }

  log {
    message = "must-appear"
    unless  = var.enabled
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.NotContains(t, result.LogOutput, "must-not-appear")
	assert.Contains(t, result.LogOutput, "must-appear")
}

func TestRun_IncludeSplicesAndScopes(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  set "from_parent" {
    value = "visible"
  }

  include {
    path = "child.hcl"
  }

  log {
    message = "after-include"
  }
}
`,
		"child.hcl": `
launch {
  log {
    message = "child sees ${var.from_parent}"
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "child sees visible")
	childIdx := strings.Index(result.LogOutput, "child sees")
	afterIdx := strings.Index(result.LogOutput, "after-include")
	assert.Less(t, childIdx, afterIdx, "included entities run before the entities after the include")
}

func TestRun_IncludeCycleFails(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  include {
    path = "loop.hcl"
  }
}
`,
		"loop.hcl": `
launch {
  include {
    path = "loop.hcl"
  }
}
`,
	})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "include cycle")
}

func TestRun_ProcessExitTriggersReaction(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  on_exit "worker" {
    log {
      message = "worker finished"
    }

    shutdown {
      reason = "work complete"
    }
  }

  process "worker" {
    cmd = ["sh", "-c", "echo doing-work"]
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "worker finished")
	assert.Contains(t, result.LogOutput, "work complete")
}

func TestRun_ShutdownActionStopsService(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  log {
    message = "first"
  }

  shutdown {
    reason = "done early"
  }

  log {
    message = "unreachable"
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "first")
	assert.NotContains(t, result.LogOutput, "unreachable")
}

func TestRun_TimerDelaysEntities(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  timer {
    after = 0.05

    log {
      message = "timer fired"
    }
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "timer fired")
}

func TestRun_LoadFailureSurfaces(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `launch {`,
	})
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to parse launch file")
}

func TestRun_OnOutputEchoesProcessLines(t *testing.T) {
	result := testutil.RunLaunchTest(t, map[string]string{
		"main.hcl": `
launch {
  on_output "echoer" {}

  process "echoer" {
    cmd = ["sh", "-c", "echo ping-from-child"]
  }
}
`,
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.LogOutput, "ping-from-child")
}
