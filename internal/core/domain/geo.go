package domain

// GeoPoint is a query coordinate. Lat and Lon map onto the first and second
// axis of a stored CoordinatePair.
type GeoPoint struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// CoordinatePair is a single polygon vertex, stored as [latitude, longitude].
type CoordinatePair [2]float64

// Lat returns the first axis.
func (c CoordinatePair) Lat() float64 { return c[0] }

// Lon returns the second axis.
func (c CoordinatePair) Lon() float64 { return c[1] }

// Area is an ordered vertex ring. The last vertex implicitly connects back to
// the first; a repeated closing vertex is allowed but not required.
type Area []CoordinatePair

// Bounds represents a planar bounding box over both coordinate axes.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Bounds returns the bounding box of the area. It returns nil for an empty area.
func (a Area) Bounds() *Bounds {
	if len(a) == 0 {
		return nil
	}
	b := &Bounds{MinLat: a[0][0], MaxLat: a[0][0], MinLon: a[0][1], MaxLon: a[0][1]}
	for _, p := range a[1:] {
		b.MinLat = min(b.MinLat, p[0])
		b.MaxLat = max(b.MaxLat, p[0])
		b.MinLon = min(b.MinLon, p[1])
		b.MaxLon = max(b.MaxLon, p[1])
	}
	return b
}
