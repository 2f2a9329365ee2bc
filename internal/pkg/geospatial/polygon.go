package geospatial

import "github.com/samirrijal/geofence/internal/core/domain"

// Contains reports whether p lies inside ring, using even-odd ray casting on
// planar coordinates. The ring is closed implicitly.
//
// An edge counts as a crossing when p.Lat falls in the half-open interval
// [min, max) of the edge's latitudes and the edge's longitude at p.Lat is
// strictly greater than p.Lon. Points on the boundary therefore resolve
// deterministically: for an axis-aligned rectangle the result is exactly the
// half-open box [minLat, maxLat) x [minLon, maxLon).
func Contains(ring domain.Area, p domain.GeoPoint) bool {
	n := len(ring)
	if n < MinVertices {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a[0] > p.Lat) == (b[0] > p.Lat) {
			continue
		}
		// a[0] != b[0] here, so the division is safe.
		lon := a[1] + (p.Lat-a[0])*(b[1]-a[1])/(b[0]-a[0])
		if lon > p.Lon {
			inside = !inside
		}
	}
	return inside
}
