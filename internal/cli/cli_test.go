package cli_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/launchgo/internal/cli"
)

func TestParse_PositionalLaunchPath(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse([]string{"demo.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "demo.hcl", cfg.LaunchPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_FlagBeatsPositional(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := cli.Parse([]string{"-launch", "from-flag.hcl", "positional.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.hcl", cfg.LaunchPath)

	cfg, _, err = cli.Parse([]string{"-l", "short.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "short.hcl", cfg.LaunchPath)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := cli.Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpIsACleanExit(t *testing.T) {
	var out bytes.Buffer
	_, exit, err := cli.Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-log-format", "xml", "demo.hcl"}, &out)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-log-level", "loud", "demo.hcl"}, &out)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_UnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-bogus"}, &out)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_ShutdownGrace(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := cli.Parse([]string{"-shutdown-grace", "2s", "demo.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.ShutdownGrace)
}

func TestParse_ArgumentOverrides(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := cli.Parse([]string{"-arg", "port=8080", "-arg", "host=localhost", "demo.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"port": "8080", "host": "localhost"}, cfg.Arguments)
}

func TestParse_MalformedArgumentOverride(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{"-arg", "portonly", "demo.hcl"}, &out)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
}
