package geospatial

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cast"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// MinVertices is the smallest vertex count accepted as a polygon.
const MinVertices = 3

// NormalizeArea converts a stored area into its canonical vertex list.
// Encoded areas get exactly one JSON decode; a payload that decodes to yet
// another string is malformed.
func NormalizeArea(raw domain.RawArea) (domain.Area, error) {
	switch raw.Encoding {
	case domain.AreaStructured:
		return CanonicalArea(raw.Value)
	case domain.AreaEncoded:
		var v any
		if err := json.Unmarshal([]byte(raw.Text), &v); err != nil {
			return nil, malformed("decode encoded area: %v", err)
		}
		return CanonicalArea(v)
	default:
		return nil, malformed("unknown area encoding %d", raw.Encoding)
	}
}

// CanonicalArea validates a decoded value: a sequence of at least MinVertices
// elements, each a two-element sequence of numbers. Vertex order is kept and
// the ring is not closed.
func CanonicalArea(v any) (domain.Area, error) {
	switch t := v.(type) {
	case domain.Area:
		if len(t) < MinVertices {
			return nil, malformed("need at least %d vertices, got %d", MinVertices, len(t))
		}
		for i, p := range t {
			if !finite(p[0]) || !finite(p[1]) {
				return nil, malformed("vertex %d is not finite", i)
			}
		}
		return append(domain.Area(nil), t...), nil
	case []any:
		if len(t) < MinVertices {
			return nil, malformed("need at least %d vertices, got %d", MinVertices, len(t))
		}
		area := make(domain.Area, 0, len(t))
		for i, el := range t {
			pair, ok := el.([]any)
			if !ok || len(pair) != 2 {
				return nil, malformed("vertex %d is not a coordinate pair", i)
			}
			lat, err := Coordinate(pair[0])
			if err != nil {
				return nil, malformed("vertex %d: %v", i, err)
			}
			lon, err := Coordinate(pair[1])
			if err != nil {
				return nil, malformed("vertex %d: %v", i, err)
			}
			area = append(area, domain.CoordinatePair{lat, lon})
		}
		return area, nil
	case nil:
		return nil, malformed("area is empty")
	default:
		return nil, malformed("area is a %T, not a sequence", v)
	}
}

// Coordinate converts a decoded JSON value to a finite float64. It accepts
// JSON numbers and numeric strings.
func Coordinate(v any) (float64, error) {
	switch v.(type) {
	case nil, bool, []any, map[string]any:
		return 0, fmt.Errorf("%v is not numeric", v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if !finite(f) {
		return 0, fmt.Errorf("%v is not finite", v)
	}
	return f, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func malformed(format string, args ...any) error {
	return &domain.MalformedAreaError{Reason: fmt.Sprintf(format, args...)}
}
