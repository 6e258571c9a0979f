// Package ratingscale defines the rating-option vocabulary shared by questions,
// the engine and the scorer, and converts between the persisted key→label map
// and the ordered option list.
//
// Normalize and Serialize are total: malformed input degrades to the default
// scale instead of failing. Bounds on the number of options are enforced only
// by Editor.
package ratingscale

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	MinRatingOptions = 2
	MaxRatingOptions = 5
)

// RatingOption is one selectable value of a scale. Key is the ordinal ("1".."N").
type RatingOption struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// NumericOption is a RatingOption resolved to the integer a respondent submits.
type NumericOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

var defaultLabels = [...]string{
	"Never Demonstrated",
	"Inconsistently Demonstrated",
	"Consistently Demonstrated",
	"Role Model",
}

// DefaultScale returns a fresh copy of the 4-point default scale.
func DefaultScale() []RatingOption {
	out := make([]RatingOption, len(defaultLabels))
	for i, label := range defaultLabels {
		out[i] = RatingOption{Key: strconv.Itoa(i + 1), Label: label}
	}
	return out
}

// Normalize converts a persisted scale into an ordered option list sorted by the
// numeric value of each key. Entries with an empty key or a blank label are
// dropped; when nothing survives the default scale is returned.
func Normalize(persisted Persisted) []RatingOption {
	if len(persisted) == 0 {
		return DefaultScale()
	}

	type entry struct {
		key   string
		label string
	}
	entries := make([]entry, 0, len(persisted))
	for k, v := range persisted {
		label := strings.TrimSpace(v)
		if k == "" || label == "" {
			continue
		}
		entries = append(entries, entry{key: k, label: label})
	}
	if len(entries) == 0 {
		return DefaultScale()
	}

	sort.Slice(entries, func(i, j int) bool {
		return keyLess(entries[i].key, entries[j].key)
	})

	out := make([]RatingOption, len(entries))
	for i, e := range entries {
		key := strings.TrimSpace(e.key)
		if key == "" {
			key = strconv.Itoa(i + 1)
		}
		out[i] = RatingOption{Key: key, Label: e.label}
	}
	return out
}

// Serialize converts an ordered option list into the persisted form. Keys are
// re-derived from slice order ("1".."N" without gaps); incoming keys are ignored.
// Options with a blank label are dropped, and an empty result falls back to the
// default scale so an empty scale is never persisted.
func Serialize(fields []RatingOption) Persisted {
	out := make(Persisted, len(fields))
	for _, f := range fields {
		label := strings.TrimSpace(f.Label)
		if label == "" {
			continue
		}
		out[strconv.Itoa(len(out)+1)] = label
	}
	if len(out) == 0 {
		return Serialize(DefaultScale())
	}
	return out
}

// ToNumericOptions normalizes persisted and resolves each key to its integer
// value, falling back to the 1-based position when a key is not an integer.
func ToNumericOptions(persisted Persisted) []NumericOption {
	options := Normalize(persisted)
	out := make([]NumericOption, len(options))
	for i, o := range options {
		value, err := strconv.Atoi(o.Key)
		if err != nil {
			value = i + 1
		}
		out[i] = NumericOption{Value: value, Label: o.Label}
	}
	return out
}

// IsValidRating reports whether rating is one of the numeric options of persisted.
func IsValidRating(persisted Persisted, rating int) bool {
	for _, o := range ToNumericOptions(persisted) {
		if o.Value == rating {
			return true
		}
	}
	return false
}

// keyLess orders numeric keys by value, then non-numeric keys lexically after them.
func keyLess(a, b string) bool {
	na, okA := numericKey(a)
	nb, okB := numericKey(b)
	switch {
	case okA && okB:
		if na != nb {
			return na < nb
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

func numericKey(key string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
