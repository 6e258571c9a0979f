package ratingscale

import (
	"database/sql/driver"
	"encoding/json"
)

// Persisted is the storage and wire form of a scale: a sparse key→label map.
//
// Decoding is permissive. Anything that is not a JSON object decodes to an empty
// map, and non-string values are skipped, so Normalize always sees a map.
type Persisted map[string]string

// UnmarshalJSON never returns an error.
func (p *Persisted) UnmarshalJSON(data []byte) error {
	*p = decodePersisted(data)
	return nil
}

// Value stores the scale as JSON text.
func (p Persisted) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]string(p))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan reads a JSON text column. Malformed content yields an empty scale.
func (p *Persisted) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		*p = decodePersisted(v)
	case string:
		*p = decodePersisted([]byte(v))
	default:
		*p = Persisted{}
	}
	return nil
}

// NormalizeJSON normalizes a raw JSON scale of any shape.
func NormalizeJSON(raw []byte) []RatingOption {
	return Normalize(decodePersisted(raw))
}

func decodePersisted(data []byte) Persisted {
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return Persisted{}
	}
	out := make(Persisted, len(generic))
	for k, v := range generic {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
