package ctxlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/launchgo/internal/ctxlog"
)

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	ctxlog.FromContext(ctx).Info("carried through")
	assert.Contains(t, buf.String(), "carried through")
}

func TestFromContext_PanicsWithoutLogger(t *testing.T) {
	require.Panics(t, func() {
		ctxlog.FromContext(context.Background())
	})
}

func TestDiscard_ProducesUsableContext(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	require.NotPanics(t, func() {
		ctxlog.FromContext(ctx).Debug("dropped")
	})
}
