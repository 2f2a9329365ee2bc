package geospatial

import (
	"testing"

	"github.com/samirrijal/geofence/internal/core/domain"
)

var park = domain.Area{{10, 10}, {10, 20}, {20, 20}, {20, 10}}

func TestContains_InsideSquare(t *testing.T) {
	if !Contains(park, domain.GeoPoint{Lat: 15, Lon: 15}) {
		t.Fatal("expected center of square to be inside")
	}
}

func TestContains_OutsideSquare(t *testing.T) {
	cases := []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 15, Lon: 25},
		{Lat: 25, Lon: 15},
		{Lat: -1000, Lon: 1000},
	}
	for _, p := range cases {
		if Contains(park, p) {
			t.Errorf("expected %+v to be outside", p)
		}
	}
}

func TestContains_ConvexCentroid(t *testing.T) {
	polygons := []domain.Area{
		{{0, 0}, {4, 0}, {0, 4}},
		{{0, 0}, {2, -1}, {4, 0}, {4, 3}, {2, 5}, {0, 3}},
		{{43.25, -2.95}, {43.27, -2.95}, {43.27, -2.91}, {43.25, -2.91}},
	}
	for i, poly := range polygons {
		var c domain.GeoPoint
		for _, v := range poly {
			c.Lat += v[0]
			c.Lon += v[1]
		}
		c.Lat /= float64(len(poly))
		c.Lon /= float64(len(poly))
		if !Contains(poly, c) {
			t.Errorf("polygon %d: centroid %+v not inside", i, c)
		}
	}
}

func TestContains_ConcaveNotch(t *testing.T) {
	// U shape opening towards higher latitudes.
	u := domain.Area{{0, 0}, {0, 6}, {6, 6}, {6, 4}, {2, 4}, {2, 2}, {6, 2}, {6, 0}}

	if Contains(u, domain.GeoPoint{Lat: 4, Lon: 3}) {
		t.Error("point in the notch should be outside")
	}
	if !Contains(u, domain.GeoPoint{Lat: 4, Lon: 1}) {
		t.Error("point in the left arm should be inside")
	}
	if !Contains(u, domain.GeoPoint{Lat: 1, Lon: 3}) {
		t.Error("point in the base should be inside")
	}
}

func TestContains_ExplicitClosingVertex(t *testing.T) {
	closed := append(append(domain.Area{}, park...), park[0])
	points := []domain.GeoPoint{{Lat: 15, Lon: 15}, {Lat: 0, Lon: 0}, {Lat: 19.9, Lon: 10.1}}
	for _, p := range points {
		if Contains(park, p) != Contains(closed, p) {
			t.Errorf("open and closed rings disagree at %+v", p)
		}
	}
}

func TestContains_BoundaryIsHalfOpen(t *testing.T) {
	cases := []struct {
		name string
		p    domain.GeoPoint
		want bool
	}{
		{"low latitude edge", domain.GeoPoint{Lat: 10, Lon: 15}, true},
		{"low longitude edge", domain.GeoPoint{Lat: 15, Lon: 10}, true},
		{"high latitude edge", domain.GeoPoint{Lat: 20, Lon: 15}, false},
		{"high longitude edge", domain.GeoPoint{Lat: 15, Lon: 20}, false},
		{"low-low corner", domain.GeoPoint{Lat: 10, Lon: 10}, true},
		{"low-high corner", domain.GeoPoint{Lat: 10, Lon: 20}, false},
		{"high-low corner", domain.GeoPoint{Lat: 20, Lon: 10}, false},
		{"high-high corner", domain.GeoPoint{Lat: 20, Lon: 20}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(park, tc.p); got != tc.want {
				t.Errorf("Contains(%+v) = %v, want %v", tc.p, got, tc.want)
			}
			// Vertex order must not change the outcome.
			reversed := domain.Area{park[3], park[2], park[1], park[0]}
			if got := Contains(reversed, tc.p); got != tc.want {
				t.Errorf("reversed ring: Contains(%+v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestContains_DegenerateInputs(t *testing.T) {
	if Contains(domain.Area{{0, 0}, {1, 1}}, domain.GeoPoint{Lat: 0.5, Lon: 0.5}) {
		t.Error("two vertices cannot contain anything")
	}
	// Zero-area polygon: every vertex on one line.
	line := domain.Area{{0, 0}, {1, 1}, {2, 2}}
	if Contains(line, domain.GeoPoint{Lat: 1, Lon: 1}) {
		t.Error("collinear polygon should not contain points")
	}
}

func TestContains_SelfIntersectingBowtie(t *testing.T) {
	// Accepted as-is; even-odd parity decides.
	bowtie := domain.Area{{0, 0}, {4, 4}, {4, 0}, {0, 4}}
	if !Contains(bowtie, domain.GeoPoint{Lat: 1, Lon: 2}) {
		t.Error("expected the low-latitude lobe to be inside")
	}
	if !Contains(bowtie, domain.GeoPoint{Lat: 3, Lon: 2}) {
		t.Error("expected the high-latitude lobe to be inside")
	}
	if Contains(bowtie, domain.GeoPoint{Lat: 2, Lon: 1}) {
		t.Error("expected the gap between lobes to be outside")
	}
}
