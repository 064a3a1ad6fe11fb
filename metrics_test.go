package paramgrid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/paramgrid/label"
	"github.com/hupe1980/paramgrid/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}

	mc.RecordQuery("rate", 3, 10*time.Millisecond, nil)
	mc.RecordQuery("rate", 0, 30*time.Millisecond, errors.New("boom"))
	mc.RecordAdjust("rate", store.MergeStats{Updated: 2, Deleted: 1, Appended: 4, Replaced: 1}, time.Millisecond, nil)
	mc.RecordAdjust("rate", store.MergeStats{Updated: 9}, time.Millisecond, errors.New("boom"))
	mc.RecordArray("rate", 4, time.Millisecond, nil)
	mc.RecordIndexBuild(store.IndexOrdered, "year", 4, 2*time.Millisecond, nil)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, (20 * time.Millisecond).Nanoseconds(), stats.QueryAvgNanos)
	assert.Equal(t, int64(2), stats.AdjustCount)
	assert.Equal(t, int64(1), stats.AdjustErrors)
	assert.Equal(t, int64(2), stats.RecordsUpdated, "failed adjustments are not counted")
	assert.Equal(t, int64(2), stats.RecordsDeleted)
	assert.Equal(t, int64(4), stats.RecordsAppended)
	assert.Equal(t, int64(1), stats.ArrayCount)
	assert.Equal(t, int64(0), stats.ArrayErrors)
	assert.Equal(t, int64(1), stats.IndexBuilds)
	assert.Equal(t, (2 * time.Millisecond).Nanoseconds(), stats.IndexBuildAvgNs)
}

func TestMetricsCollectorWiring(t *testing.T) {
	ctx := context.Background()
	mc := &BasicMetricsCollector{}
	p := newParams(t, WithMetricsCollector(mc))

	_, err := p.Select(ctx, "rate", store.OpEq, map[string][]label.Value{"year": {label.Int(2025)}}, true)
	require.NoError(t, err)
	_, err = p.Select(ctx, "nope", store.OpEq, nil, true)
	require.Error(t, err)

	_, err = p.Adjust(ctx, map[string][]label.Record{"rate": {rec(0.5, map[string]any{"mars": "joint"})}})
	require.NoError(t, err)

	_, err = p.ToArray(ctx, "rate")
	require.NoError(t, err)

	st, err := p.Sel("rate")
	require.NoError(t, err)
	_, err = st.Label("year").Gte(label.Int(2025))
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.QueryCount)
	assert.Equal(t, int64(1), stats.QueryErrors)
	assert.Equal(t, int64(1), stats.AdjustCount)
	assert.Equal(t, int64(2), stats.RecordsUpdated)
	assert.Equal(t, int64(1), stats.ArrayCount)
	assert.Positive(t, stats.IndexBuilds)
	assert.Zero(t, stats.IndexBuildErrors)
}

func TestNilOptionsFallBackToNoop(t *testing.T) {
	p := New(nil, WithMetricsCollector(nil), WithLogger(nil))
	assert.Equal(t, NoopMetricsCollector{}, p.opts.metricsCollector)
	assert.NotNil(t, p.opts.logger)
	assert.Equal(t, 0, p.Grid().Len())
}
