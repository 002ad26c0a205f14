package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"

	"go.trai.ch/weld/internal/adapters/telemetry/progrock"
	"go.trai.ch/weld/internal/core/ports"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecorder_Integration(t *testing.T) {
	recorder := progrock.New()

	ctx, vertex := recorder.Record(context.Background(), "style styles/main.scss")

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, fromCtx)

	_, err := vertex.Stdout().Write([]byte("compiled\n"))
	require.NoError(t, err)

	vertex.Cached()
	vertex.Complete(nil)

	_, failed := recorder.Record(context.Background(), "script app.ts")
	failed.Complete(errors.New("boom"))

	require.NoError(t, recorder.Close())
}

type countingWriter struct {
	updates int
	closes  int
}

func (w *countingWriter) WriteStatus(*vprogrock.StatusUpdate) error {
	w.updates++
	return nil
}

func (w *countingWriter) Close() error {
	w.closes++
	return nil
}

func TestRecorder_CloseOnce(t *testing.T) {
	w := &countingWriter{}
	recorder := progrock.NewRecorder(w)

	_, vertex := recorder.Record(context.Background(), "document index.html")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
	require.NoError(t, recorder.Close())
	assert.Equal(t, 1, w.closes)
	assert.Positive(t, w.updates)
}
