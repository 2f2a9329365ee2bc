package geospatial

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/samirrijal/geofence/internal/core/domain"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestNormalizeArea_Structured(t *testing.T) {
	raw := domain.StructuredArea(decode(t, `[[10,10],[10,20],[20,20],[20,10]]`))

	area, err := NormalizeArea(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Area{{10, 10}, {10, 20}, {20, 20}, {20, 10}}
	if !reflect.DeepEqual(area, want) {
		t.Errorf("got %v, want %v", area, want)
	}
}

func TestNormalizeArea_EncodedOnce(t *testing.T) {
	raw := domain.EncodedArea(`[[43.26,-2.93],[43.27,-2.93],[43.27,-2.92]]`)

	area, err := NormalizeArea(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(area) != 3 || area[0] != (domain.CoordinatePair{43.26, -2.93}) {
		t.Errorf("unexpected area %v", area)
	}
}

func TestNormalizeArea_NumericStrings(t *testing.T) {
	raw := domain.StructuredArea(decode(t, `[["1","2"],["3.5","4"],[5,"6e0"]]`))

	area, err := NormalizeArea(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Area{{1, 2}, {3.5, 4}, {5, 6}}
	if !reflect.DeepEqual(area, want) {
		t.Errorf("got %v, want %v", area, want)
	}
}

func TestNormalizeArea_DoesNotDecodeTwice(t *testing.T) {
	inner := `[[1,1],[1,2],[2,2]]`
	twice, _ := json.Marshal(inner)

	_, err := NormalizeArea(domain.EncodedArea(string(twice)))
	if !errors.Is(err, domain.ErrMalformedArea) {
		t.Fatalf("expected malformed area for doubly encoded text, got %v", err)
	}
}

func TestNormalizeArea_Malformed(t *testing.T) {
	cases := map[string]domain.RawArea{
		"not json":            domain.EncodedArea("not-json"),
		"empty text":          domain.EncodedArea(""),
		"object":              domain.StructuredArea(decode(t, `{"lat":1,"lon":2}`)),
		"number":              domain.StructuredArea(decode(t, `42`)),
		"null":                domain.StructuredArea(nil),
		"two points":          domain.StructuredArea(decode(t, `[[1,1],[2,2]]`)),
		"triple vertex":       domain.StructuredArea(decode(t, `[[1,1,1],[2,2],[3,3]]`)),
		"single axis":         domain.StructuredArea(decode(t, `[[1],[2,2],[3,3]]`)),
		"word coordinate":     domain.StructuredArea(decode(t, `[["a",1],[2,2],[3,3]]`)),
		"boolean coordinate":  domain.StructuredArea(decode(t, `[[true,1],[2,2],[3,3]]`)),
		"null coordinate":     domain.StructuredArea(decode(t, `[[null,1],[2,2],[3,3]]`)),
		"nested coordinate":   domain.StructuredArea(decode(t, `[[[1],1],[2,2],[3,3]]`)),
		"encoded object":      domain.EncodedArea(`{"area":[[1,1],[2,2],[3,3]]}`),
		"encoded short list":  domain.EncodedArea(`[[1,1]]`),
		"unknown encoding":    {Encoding: 9},
		"infinite coordinate": domain.StructuredArea(domain.Area{{1, 1}, {2, 2}, {3, inf()}}),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			area, err := NormalizeArea(raw)
			if err == nil {
				t.Fatalf("expected error, got area %v", area)
			}
			var mErr *domain.MalformedAreaError
			if !errors.As(err, &mErr) {
				t.Fatalf("expected *MalformedAreaError, got %T", err)
			}
			if mErr.Reason == "" {
				t.Error("expected a reason")
			}
		})
	}
}

func TestCanonicalArea_CopiesTypedArea(t *testing.T) {
	src := domain.Area{{1, 1}, {1, 2}, {2, 2}}
	got, err := CanonicalArea(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got[0] = domain.CoordinatePair{9, 9}
	if src[0] != (domain.CoordinatePair{1, 1}) {
		t.Error("CanonicalArea must not alias its input")
	}
}

func TestCanonicalArea_RejectsString(t *testing.T) {
	if _, err := CanonicalArea(`[[1,1],[1,2],[2,2]]`); err == nil {
		t.Fatal("a string is not a sequence")
	}
}

func inf() float64 {
	var zero float64
	return 1 / zero
}
