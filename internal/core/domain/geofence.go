package domain

import "time"

// Geofence is a named polygonal zone with a validated area.
type Geofence struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Area      Area      `json:"area"`
	Bounds    *Bounds   `json:"bounds,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredGeofence is a geofence row as read from storage, area not yet validated.
type StoredGeofence struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Area      RawArea   `json:"area"`
	CreatedAt time.Time `json:"created_at"`
}

// ZoneRef identifies a geofence inside a membership result.
type ZoneRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SkippedZone is a stored geofence excluded from a read because its area is malformed.
type SkippedZone struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// MembershipResult lists every geofence containing a point, in storage order.
type MembershipResult struct {
	IsInside bool      `json:"is_inside"`
	Zones    []ZoneRef `json:"zones"`

	// Skipped is kept for logging and metrics; it is never sent to clients.
	Skipped []SkippedZone `json:"-"`
}

// Incident is a reported safety incident shown next to the map.
type Incident struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	ReportedAt  string `json:"reportedAt"`
}
