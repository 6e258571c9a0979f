package ratingscale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(options []RatingOption) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

func TestDefaultScale(t *testing.T) {
	t.Run("four labelled options in order", func(t *testing.T) {
		scale := DefaultScale()

		require.Len(t, scale, 4)
		assert.Equal(t, []RatingOption{
			{Key: "1", Label: "Never Demonstrated"},
			{Key: "2", Label: "Inconsistently Demonstrated"},
			{Key: "3", Label: "Consistently Demonstrated"},
			{Key: "4", Label: "Role Model"},
		}, scale)
	})

	t.Run("callers get independent copies", func(t *testing.T) {
		a := DefaultScale()
		a[0].Label = "mutated"

		b := DefaultScale()
		assert.Equal(t, "Never Demonstrated", b[0].Label)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("nil and empty maps default", func(t *testing.T) {
		assert.Equal(t, DefaultScale(), Normalize(nil))
		assert.Equal(t, DefaultScale(), Normalize(Persisted{}))
	})

	t.Run("numeric not lexical order", func(t *testing.T) {
		got := Normalize(Persisted{"10": "Ten", "2": "Two", "1": "One"})

		assert.Equal(t, []string{"One", "Two", "Ten"}, labels(got))
		assert.Equal(t, "10", got[2].Key)
	})

	t.Run("labels are trimmed", func(t *testing.T) {
		got := Normalize(Persisted{"1": "  Low ", "2": "High\n"})

		assert.Equal(t, []RatingOption{{Key: "1", Label: "Low"}, {Key: "2", Label: "High"}}, got)
	})

	t.Run("all blank labels fall back to default", func(t *testing.T) {
		assert.Equal(t, DefaultScale(), Normalize(Persisted{"1": "   ", "2": ""}))
	})

	t.Run("blank entries are dropped", func(t *testing.T) {
		got := Normalize(Persisted{"1": "One", "2": " ", "3": "Three", "": "NoKey"})

		assert.Equal(t, []string{"One", "Three"}, labels(got))
	})

	t.Run("partially numeric keys never fail", func(t *testing.T) {
		var got []RatingOption
		assert.NotPanics(t, func() {
			got = Normalize(Persisted{"b": "Bee", "2": "Two", "a": "Ay", "1": "One"})
		})

		assert.Equal(t, []string{"One", "Two", "Ay", "Bee"}, labels(got))
	})

	t.Run("whitespace key gets positional key", func(t *testing.T) {
		got := Normalize(Persisted{"1": "One", " ": "Blank key"})

		require.Len(t, got, 2)
		assert.Equal(t, RatingOption{Key: "2", Label: "Blank key"}, got[1])
	})
}

func TestNormalizeJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "null", raw: `null`},
		{name: "empty object", raw: `{}`},
		{name: "string", raw: `"not an object"`},
		{name: "array", raw: `["a","b"]`},
		{name: "number", raw: `42`},
		{name: "invalid json", raw: `{"1":`},
		{name: "non-string values", raw: `{"1": 1, "2": true}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, DefaultScale(), NormalizeJSON([]byte(tc.raw)))
			})
		})
	}

	t.Run("mixed values keep strings", func(t *testing.T) {
		got := NormalizeJSON([]byte(`{"1":"Low","2":7,"3":"High"}`))

		assert.Equal(t, []string{"Low", "High"}, labels(got))
	})
}

func TestSerialize(t *testing.T) {
	t.Run("rekeys positionally", func(t *testing.T) {
		got := Serialize([]RatingOption{
			{Key: "9", Label: "Low"},
			{Key: "x", Label: "Mid"},
			{Key: "1", Label: "High"},
		})

		assert.Equal(t, Persisted{"1": "Low", "2": "Mid", "3": "High"}, got)
	})

	t.Run("drops blank labels without gaps", func(t *testing.T) {
		got := Serialize([]RatingOption{
			{Label: " Low "},
			{Label: "   "},
			{Label: "High"},
		})

		assert.Equal(t, Persisted{"1": "Low", "2": "High"}, got)
	})

	t.Run("empty input persists the default scale", func(t *testing.T) {
		want := Persisted{
			"1": "Never Demonstrated",
			"2": "Inconsistently Demonstrated",
			"3": "Consistently Demonstrated",
			"4": "Role Model",
		}

		assert.Equal(t, want, Serialize(nil))
		assert.Equal(t, want, Serialize([]RatingOption{}))
		assert.Equal(t, want, Serialize([]RatingOption{{Label: " "}}))
	})
}

func TestRoundTrip(t *testing.T) {
	scales := [][]string{
		{"No", "Yes"},
		{"Low", "Medium", "High"},
		{"Never Demonstrated", "Inconsistently Demonstrated", "Consistently Demonstrated", "Role Model"},
		{"1", "2", "3", "4", "5"},
		{"Exceeds", "Meets", "Below", "Far below", "Unrated"},
	}

	for _, want := range scales {
		options := make([]RatingOption, len(want))
		for i, l := range want {
			options[i] = RatingOption{Key: "k" + l, Label: l}
		}

		got := Normalize(Serialize(options))

		assert.Equal(t, want, labels(got))
		for i, o := range got {
			assert.Equal(t, i+1, mustAtoi(t, o.Key))
		}
	}
}

func TestToNumericOptions(t *testing.T) {
	t.Run("default scale is 1 to 4", func(t *testing.T) {
		got := ToNumericOptions(nil)

		require.Len(t, got, 4)
		for i, o := range got {
			assert.Equal(t, i+1, o.Value)
		}
		assert.Equal(t, "Role Model", got[3].Label)
	})

	t.Run("uses numeric keys", func(t *testing.T) {
		got := ToNumericOptions(Persisted{"10": "Ten", "2": "Two"})

		assert.Equal(t, []NumericOption{{Value: 2, Label: "Two"}, {Value: 10, Label: "Ten"}}, got)
	})

	t.Run("non-integer keys fall back to position", func(t *testing.T) {
		got := ToNumericOptions(Persisted{"1": "One", "z": "Zed"})

		assert.Equal(t, []NumericOption{{Value: 1, Label: "One"}, {Value: 2, Label: "Zed"}}, got)
	})
}

func TestIsValidRating(t *testing.T) {
	scale := Persisted{"1": "Low", "2": "High"}

	assert.True(t, IsValidRating(scale, 1))
	assert.True(t, IsValidRating(scale, 2))
	assert.False(t, IsValidRating(scale, 0))
	assert.False(t, IsValidRating(scale, 3))
	assert.True(t, IsValidRating(nil, 4))
	assert.False(t, IsValidRating(nil, 5))
}

func TestPersistedColumn(t *testing.T) {
	t.Run("value then scan", func(t *testing.T) {
		in := Persisted{"1": "Low", "2": "High"}

		v, err := in.Value()
		require.NoError(t, err)

		var out Persisted
		require.NoError(t, out.Scan(v))
		assert.Equal(t, in, out)
	})

	t.Run("malformed column degrades", func(t *testing.T) {
		var out Persisted
		require.NoError(t, out.Scan([]byte("not json")))

		assert.Empty(t, out)
		assert.Equal(t, DefaultScale(), Normalize(out))
	})

	t.Run("null column", func(t *testing.T) {
		var out Persisted
		require.NoError(t, out.Scan(nil))
		assert.Equal(t, DefaultScale(), Normalize(out))
	})
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, r := range s {
		require.True(t, r >= '0' && r <= '9', "key %q is not an integer", s)
		n = n*10 + int(r-'0')
	}
	return n
}
