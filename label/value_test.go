package label

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	i, ok := Int(7).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	f, ok := Int(7).AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = String("x").AsFloat64()
	assert.False(t, ok)

	s, ok := String("joint").AsString()
	assert.True(t, ok)
	assert.Equal(t, "joint", s)
	assert.Empty(t, Int(1).StringValue())

	d, ok := Date(2024, time.February, 29).AsDate()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d)

	assert.True(t, Value{}.IsNull())
	assert.True(t, Null().IsNull())
	assert.False(t, Bool(false).IsNull())
}

func TestValueKeyAndEqual(t *testing.T) {
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, Int(1).Equal(Float(1)), "kinds differ")
	assert.True(t, Null().Equal(Value{}))
	assert.True(t, Array(Int(1), String("a")).Equal(Array(Int(1), String("a"))))
	assert.False(t, Array(Int(1)).Equal(Array(Int(1), Int(2))))
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Int(2024), "2024"},
		{Float(0.15), "0.15"},
		{Float(1e21), "1e+21"},
		{String("single"), "single"},
		{Bool(true), "true"},
		{Date(2024, time.January, 2), "2024-01-02"},
		{Array(Int(1), Array(Float(2.5))), "[1, [2.5]]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestParseDate(t *testing.T) {
	v, err := ParseDate("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, Date(2025, time.December, 31), v)

	_, err = ParseDate("31/12/2025")
	assert.Error(t, err)
}

func TestValueJSON(t *testing.T) {
	b, err := Date(2024, time.January, 2).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02"`, string(b))

	b, err = Array(Int(1), Null()).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `[1,null]`, string(b))

	var v Value
	require.NoError(t, v.UnmarshalJSON([]byte(`[2024, 2.5, "x"]`)))
	assert.Equal(t, Array(Int(2024), Float(2.5), String("x")), v)

	assert.Error(t, v.UnmarshalJSON([]byte(`{`)))
}

func TestValueClone(t *testing.T) {
	orig := Array(Int(1), Array(Int(2)))
	cp := orig.Clone()
	cp.A[1].A[0] = Int(99)
	assert.Equal(t, Int(2), orig.A[1].A[0])
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"IntInt", Int(1), Int(2), -1},
		{"IntFloat", Int(2), Float(1.5), 1},
		{"FloatIntEqual", Float(2), Int(2), 0},
		{"Strings", String("b"), String("a"), 1},
		{"Bools", Bool(false), Bool(true), -1},
		{"Dates", Date(2025, 1, 1), Date(2024, 12, 31), 1},
		{"ArrayPrefix", Array(Int(1)), Array(Int(1), Int(0)), -1},
		{"ArrayElement", Array(Int(2)), Array(Int(1), Int(5)), 1},
		{"Nulls", Null(), Value{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Incomparable", func(t *testing.T) {
		_, err := Compare(String("a"), Int(1))
		assert.True(t, errors.Is(err, ErrIncomparable))
		_, err = Compare(Array(String("a")), Array(Int(1)))
		assert.ErrorIs(t, err, ErrIncomparable)
		_, err = Compare(Null(), Int(1))
		assert.ErrorIs(t, err, ErrIncomparable)
	})
}

func TestOrderings(t *testing.T) {
	_, err := Natural{}.Key(Value{})
	assert.ErrorIs(t, err, ErrIncomparable)

	k, err := Natural{}.Key(Int(3))
	require.NoError(t, err)
	assert.Equal(t, Int(3), k)

	r := NewRanked(String("single"), String("joint"), String("single"))
	k, err = r.Key(String("joint"))
	require.NoError(t, err)
	assert.Equal(t, Int(1), k)
	k, err = r.Key(String("single"))
	require.NoError(t, err)
	assert.Equal(t, Int(0), k, "duplicates keep their first position")

	_, err = r.Key(String("widow"))
	assert.ErrorIs(t, err, ErrIncomparable)

	neg := OrderingFunc(func(v Value) (Value, error) {
		i, _ := v.AsInt64()
		return Int(-i), nil
	})
	k, err = neg.Key(Int(5))
	require.NoError(t, err)
	assert.Equal(t, Int(-5), k)
}
