package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/paramgrid/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(WithRegisterer(prometheus.NewRegistry()), WithNamespace("test"))
	require.NoError(t, err)
	return c
}

func TestCollector(t *testing.T) {
	c := newCollector(t)

	c.RecordQuery("rate", 3, time.Millisecond, nil)
	c.RecordQuery("rate", 0, time.Millisecond, errors.New("boom"))
	c.RecordAdjust("rate", store.MergeStats{Updated: 2, Deleted: 1, Replaced: 1, Appended: 3}, time.Millisecond, nil)
	c.RecordAdjust("rate", store.MergeStats{Updated: 5}, time.Millisecond, errors.New("boom"))
	c.RecordArray("rate", 4, time.Millisecond, nil)
	c.RecordIndexBuild(store.IndexOrdered, "year", 4, time.Millisecond, nil)
	c.RecordIndexBuild(store.IndexOrdered, "mars", 0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("query", "rate", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("query", "rate", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.records.WithLabelValues("rate", "updated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.records.WithLabelValues("rate", "deleted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.records.WithLabelValues("rate", "appended")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("array", "rate", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.indexBuilds.WithLabelValues(store.IndexOrdered, "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.indexSize.WithLabelValues(store.IndexOrdered, "year")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.indexSize))
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(WithRegisterer(reg))
	require.NoError(t, err)

	_, err = NewCollector(WithRegisterer(reg))
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}
