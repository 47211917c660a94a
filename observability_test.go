package scalarindex

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}
	idx := NewFixedWidth[int64](WithMetricsCollector(mc))

	require.NoError(t, idx.Build([]int64{5, 3, 3, 8, 1}))
	_, err := idx.In(3)
	require.NoError(t, err)
	_, err = idx.Range(3, OpLessEqual)
	require.NoError(t, err)
	_, err = idx.Range(3, Operator("bogus"))
	require.Error(t, err)

	bs, err := idx.Serialize()
	require.NoError(t, err)

	dst := NewFixedWidth[int64](WithMetricsCollector(mc))
	require.NoError(t, dst.Load(bs))

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(5), stats.BuildRows)
	assert.Equal(t, int64(3), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(2+3), stats.QueryMatches)
	assert.Equal(t, int64(1), stats.SerializeCount)
	assert.Equal(t, int64(8+5*16), stats.SerializeBytes)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(5), stats.LoadRows)
}

func TestLoggerRecordsOperations(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	idx := NewString(WithLogger(logger))
	require.NoError(t, idx.Build([]string{"a"}))
	_, err := idx.In("a")
	require.NoError(t, err)
	_, err = idx.Range("a", Operator("nope"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"build completed"`)
	assert.Contains(t, out, `"msg":"index sealed"`)
	assert.Contains(t, out, `"msg":"query completed"`)
	assert.Contains(t, out, `"msg":"query failed"`)
	assert.Contains(t, out, `"value_type":"string"`)
}

func TestNilObservabilityOptions(t *testing.T) {
	idx := NewFixedWidth[int8](WithLogger(nil), WithMetricsCollector(nil))
	require.NoError(t, idx.Build([]int8{1}))
	_, err := idx.In(1)
	require.NoError(t, err)
}

func TestNoopLoggerIsSilent(t *testing.T) {
	assert.False(t, NoopLogger().Enabled(t.Context(), slog.LevelError))
}
