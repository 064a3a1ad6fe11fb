package store

import (
	"testing"

	"github.com/hupe1980/paramgrid/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(s *Store) []label.Value {
	var out []label.Value
	for _, r := range s.All() {
		out = append(out, r.Value)
	}
	return out
}

func TestApplyWildcardScenario(t *testing.T) {
	base := newBase(t)
	adj := []label.Record{rec(9, map[string]any{"d1": "a"})}

	out, stats, err := base.Apply(adj)
	require.NoError(t, err)
	assert.Equal(t, MergeStats{Updated: 2}, stats)
	assert.Equal(t, []label.Value{label.Int(9), label.Int(2), label.Int(9)}, values(out))
	assert.Equal(t, []label.Value{label.Int(1), label.Int(2), label.Int(3)}, values(base), "base untouched")

	want := []label.Record{
		rec(9, map[string]any{"d0": 1, "d1": "a"}),
		rec(2, map[string]any{"d0": 1, "d1": "b"}),
		rec(9, map[string]any{"d0": 2, "d1": "a"}),
	}
	assert.Equal(t, want, out.Records())
}

func TestApplyNullOnUnlabeledBase(t *testing.T) {
	base, err := FromRecords(grid, []label.Record{rec(1, nil), rec(2, nil)})
	require.NoError(t, err)

	out, stats, err := base.Apply([]label.Record{rec(nil, nil)})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 2, stats.Replaced)

	out, stats, err = base.Apply([]label.Record{rec(5, nil)})
	require.NoError(t, err)
	assert.Equal(t, []label.Value{label.Int(5)}, values(out))
	assert.Equal(t, MergeStats{Replaced: 2, Appended: 1}, stats)
}

func TestApplyUndeclaredLeavesBaseIntact(t *testing.T) {
	base := newBase(t)
	before := base.Records()

	adj := []label.Record{
		rec(7, map[string]any{"d0": 1, "d1": "a"}),
		rec(8, map[string]any{"d0": 1, "zz": "x"}),
	}
	_, err := base.ApplyInPlace(adj)
	var undeclared *label.ErrUndeclaredLabel
	require.ErrorAs(t, err, &undeclared)
	assert.Equal(t, "zz", undeclared.Label)
	assert.Equal(t, before, base.Records())

	_, _, err = base.Apply(adj)
	require.ErrorAs(t, err, &undeclared)
}

func TestApplyInPlaceMixed(t *testing.T) {
	base := newBase(t)
	stats, err := base.ApplyInPlace([]label.Record{
		rec(nil, map[string]any{"d0": 1, "d1": "b"}),
		rec(10, map[string]any{"d0": 2}),
		rec(11, map[string]any{"d0": 3, "d1": "b"}),
		rec(nil, map[string]any{"d0": 3, "d1": "a"}),
	})
	require.NoError(t, err)
	assert.Equal(t, MergeStats{Updated: 1, Deleted: 1, Appended: 1}, stats)
	assert.Equal(t, []int{0, 2, 3}, base.Indices())
	assert.Equal(t, []label.Value{label.Int(1), label.Int(10), label.Int(11)}, values(base))

	res, err := base.Label("d0").Eq(label.Int(3))
	require.NoError(t, err)
	assert.Equal(t, []int{3}, res.Indices())
}

func TestApplyIdempotent(t *testing.T) {
	adjustments := [][]label.Record{
		{rec(9, map[string]any{"d1": "a"})},
		{rec(nil, map[string]any{"d0": 1})},
		{
			rec(5, map[string]any{"d0": 3, "d1": "a"}),
			rec(6, map[string]any{"d0": 3, "d1": "b"}),
			rec(nil, map[string]any{"d0": 2, "d1": "a"}),
		},
		{
			rec(5, map[string]any{"d0": 1, "d1": "a"}),
			rec(6, map[string]any{"d0": 1, "d1": "a"}),
		},
	}
	for i, adj := range adjustments {
		once, _, err := newBase(t).Apply(adj)
		require.NoError(t, err)
		twice, _, err := once.Apply(adj)
		require.NoError(t, err)
		assert.ElementsMatch(t, once.Records(), twice.Records(), "adjustment %d", i)
	}
}

func TestApplyLastWriteWins(t *testing.T) {
	out, _, err := newBase(t).Apply([]label.Record{
		rec(5, map[string]any{"d0": 1, "d1": "a"}),
		rec(6, map[string]any{"d1": "a"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []label.Value{label.Int(6), label.Int(2), label.Int(6)}, values(out))

	out, _, err = newBase(t).Apply([]label.Record{
		rec(5, map[string]any{"d0": 1, "d1": "a"}),
		rec(nil, map[string]any{"d0": 1, "d1": "a"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out.Indices())
}

func TestApplyOrderIndependentWhenDisjoint(t *testing.T) {
	a := rec(7, map[string]any{"d0": 1, "d1": "a"})
	b := rec(nil, map[string]any{"d0": 2})
	c := rec(8, map[string]any{"d0": 3, "d1": "b"})

	x, _, err := newBase(t).Apply([]label.Record{a, b, c})
	require.NoError(t, err)
	y, _, err := newBase(t).Apply([]label.Record{c, b, a})
	require.NoError(t, err)
	assert.ElementsMatch(t, x.Records(), y.Records())
}

func TestApplyAutoFlag(t *testing.T) {
	base, err := FromRecords(grid, []label.Record{
		rec(1, map[string]any{"d0": 1, "d1": "a", label.AutoLabel: true}),
		rec(2, map[string]any{"d0": 1, "d1": "b", label.AutoLabel: true}),
	})
	require.NoError(t, err)
	assert.True(t, base.Missing(label.AutoLabel).IsEmpty())

	_, err = base.ApplyInPlace([]label.Record{rec(5, map[string]any{"d0": 1, "d1": "a"})})
	require.NoError(t, err)

	r, _ := base.Record(0)
	assert.False(t, r.Labels.Has(label.AutoLabel), "explicit overwrite clears the auto flag")
	assert.Equal(t, []int{0}, base.Missing(label.AutoLabel).Indices())

	auto, err := base.Label(label.AutoLabel).Eq(label.Bool(true))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, auto.Indices())
}

func TestApplyEmptyAdjustment(t *testing.T) {
	base := newBase(t)
	out, stats, err := base.Apply(nil)
	require.NoError(t, err)
	assert.Equal(t, MergeStats{}, stats)
	assert.Equal(t, base.Records(), out.Records())
}

func TestApplyOnEmptyStore(t *testing.T) {
	base := New(grid)
	out, stats, err := base.Apply([]label.Record{
		rec(1, map[string]any{"d0": 1, "d1": "a"}),
		rec(nil, map[string]any{"d0": 2, "d1": "a"}),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Appended)
	assert.Equal(t, 1, out.Len())
}
