package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/launchgo/internal/cli"
)

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, nil))
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_InvalidFlagReturnsExitError(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-log-format", "xml", "demo.hcl"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_ExecutesLaunchFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/main.hcl"
	content := `
launch {
  log {
    message = "smoke test ran"
  }
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var out bytes.Buffer
	require.NoError(t, run(&out, []string{"-log-format", "text", path}))
	assert.Contains(t, out.String(), "smoke test ran")
}
