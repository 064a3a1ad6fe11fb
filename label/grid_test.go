package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func years(ys ...int64) []Value {
	out := make([]Value, len(ys))
	for i, y := range ys {
		out[i] = Int(y)
	}
	return out
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(
		Dimension{Name: "year", Domain: years(2024, 2025, 2024)},
		Dimension{Name: "mars", Domain: []Value{String("single"), String("joint")}, Ordering: NewRanked(String("single"), String("joint"))},
		Dimension{Name: "idx"},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"year", "mars", "idx"}, g.Names())
	assert.Equal(t, years(2024, 2025), g.Domain("year"), "domain deduplicated")
	assert.Equal(t, Natural{}, g.Ordering("year"))
	assert.Equal(t, Natural{}, g.Ordering("nope"))
	assert.Nil(t, g.Domain("nope"))

	t.Run("AutoLabel", func(t *testing.T) {
		assert.True(t, g.Has(AutoLabel))
		d, ok := g.Dimension(AutoLabel)
		require.True(t, ok)
		assert.Equal(t, []Value{Bool(false), Bool(true)}, d.Domain)
		r, ok := g.Rank(AutoLabel, Bool(true))
		assert.True(t, ok)
		assert.Equal(t, 1, r)
		_, ok = g.Rank(AutoLabel, Int(1))
		assert.False(t, ok)
	})

	t.Run("Membership", func(t *testing.T) {
		r, ok := g.Rank("mars", String("joint"))
		assert.True(t, ok)
		assert.Equal(t, 1, r)
		assert.True(t, g.Contains("year", Int(2025)))
		assert.False(t, g.Contains("year", Int(2030)))
		assert.False(t, g.Contains("year", Float(2025)), "kinds must match")
		assert.True(t, g.Contains("idx", String("anything")), "empty domain is unrestricted")
		assert.False(t, g.Contains("nope", Int(1)))
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, dims := range [][]Dimension{
			{{Name: ""}},
			{{Name: ValueField}},
			{{Name: AutoLabel}},
			{{Name: "year"}, {Name: "year"}},
		} {
			_, err := NewGrid(dims...)
			assert.Error(t, err)
		}
		assert.Panics(t, func() { MustGrid(Dimension{Name: ValueField}) })
	})

	t.Run("NilGrid", func(t *testing.T) {
		var ng *Grid
		assert.Equal(t, 0, ng.Len())
		assert.Nil(t, ng.Names())
		assert.False(t, ng.Has("year"))
		assert.True(t, ng.Has(AutoLabel))
		assert.Nil(t, ng.Clone())
	})
}

func TestGridNarrow(t *testing.T) {
	g := MustGrid(
		Dimension{Name: "year", Domain: years(2024, 2025, 2026)},
		Dimension{Name: "idx"},
	)

	n, err := g.Narrow("year", years(2026, 2024))
	require.NoError(t, err)
	assert.Equal(t, years(2024, 2026), n.Domain("year"), "declared order kept")
	assert.Equal(t, years(2024, 2025, 2026), g.Domain("year"), "original untouched")
	_, ok := n.Rank("year", Int(2026))
	assert.True(t, ok)

	n, err = g.Narrow("idx", years(3, 1))
	require.NoError(t, err)
	assert.Equal(t, years(3, 1), n.Domain("idx"))

	_, err = g.Narrow("year", years(1999))
	assert.ErrorIs(t, err, ErrNotInDomain)

	for _, name := range []string{"year", "idx"} {
		_, err = g.Narrow(name, nil)
		assert.ErrorIs(t, err, ErrNotInDomain, "narrowing %s to nothing", name)
	}

	_, err = g.Narrow("nope", nil)
	var unknown *ErrUnknownLabel
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Label)

	_, err = g.Narrow(AutoLabel, []Value{Bool(true)})
	assert.ErrorAs(t, err, &unknown)
}

func TestGridClone(t *testing.T) {
	g := MustGrid(Dimension{Name: "year", Domain: years(2024)})
	c := g.Clone()
	c.Domain("year")[0] = Int(1999)
	assert.Equal(t, years(2024), g.Domain("year"))
}
