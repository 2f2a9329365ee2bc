package domain

import "encoding/json"

// AreaEncoding tells how a stored area reached the application.
type AreaEncoding uint8

const (
	// AreaStructured holds an already decoded JSON value.
	AreaStructured AreaEncoding = iota
	// AreaEncoded holds a JSON document that was stored as a string.
	AreaEncoded
)

// RawArea is a stored area before normalization. Older writers stored the
// coordinate list as a JSON string instead of a JSON array, so both shapes
// appear in the same table.
type RawArea struct {
	Encoding AreaEncoding
	Value    any
	Text     string
}

// StructuredArea wraps a decoded value.
func StructuredArea(v any) RawArea {
	return RawArea{Encoding: AreaStructured, Value: v}
}

// EncodedArea wraps string-encoded area text.
func EncodedArea(text string) RawArea {
	return RawArea{Encoding: AreaEncoded, Text: text}
}

// ParseStoredArea classifies the textual form of a stored area column.
// A JSON string becomes an EncodedArea holding the string's contents, any
// other JSON value becomes a StructuredArea, and text that is not JSON at all
// is kept verbatim as an EncodedArea.
func ParseStoredArea(data []byte) RawArea {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return EncodedArea(string(data))
	}
	if s, ok := v.(string); ok {
		return EncodedArea(s)
	}
	return StructuredArea(v)
}

// MarshalJSON writes the area back in the shape it was stored in.
func (r RawArea) MarshalJSON() ([]byte, error) {
	if r.Encoding == AreaEncoded {
		return json.Marshal(r.Text)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *RawArea) UnmarshalJSON(data []byte) error {
	*r = ParseStoredArea(data)
	return nil
}
