package otel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.IsType(t, noop.Meter{}, p.Meter("x"))

	ctx := context.Background()
	assert.NoError(t, p.Flush(ctx))
	assert.NoError(t, p.Shutdown(ctx))
}

func TestNew_EnabledWithoutWriter(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "drillsim"})
	assert.Error(t, err)
}

func TestNew_ExportsGlobalMeter(t *testing.T) {
	t.Cleanup(func() { otel.SetMeterProvider(noop.NewMeterProvider()) })

	path := filepath.Join(t.TempDir(), "metrics.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	p, err := New(Config{
		Enabled:        true,
		ServiceName:    "drillsim-test",
		ExportInterval: time.Hour,
		Writer:         f,
	})
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	counter, err := otel.Meter("drillsim/test").Int64Counter("drill.test.frames")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "drill.test.frames")
	assert.Contains(t, string(data), "drillsim-test")
}
