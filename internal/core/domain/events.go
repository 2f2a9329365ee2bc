package domain

import "time"

// PositionReport is a device location pushed onto the position stream.
type PositionReport struct {
	DeviceID string    `json:"device_id"`
	Location GeoPoint  `json:"location"`
	Time     time.Time `json:"time"`
}

// MembershipEvent is the membership result computed for one position report.
type MembershipEvent struct {
	DeviceID string    `json:"device_id"`
	Location GeoPoint  `json:"location"`
	IsInside bool      `json:"is_inside"`
	Zones    []ZoneRef `json:"zones"`
	Time     time.Time `json:"time"`
}

// TransitionType is the direction of a geofence crossing.
type TransitionType string

const (
	TransitionEntry TransitionType = "entry"
	TransitionExit  TransitionType = "exit"
)

// TransitionEvent is emitted when a device enters or leaves a geofence.
type TransitionEvent struct {
	DeviceID string         `json:"device_id"`
	Event    TransitionType `json:"event"`
	Zone     ZoneRef        `json:"zone"`
	Location GeoPoint       `json:"location"`
	Time     time.Time      `json:"time"`
}

// AuditReport summarises a scan over every stored geofence.
type AuditReport struct {
	RunID      string        `json:"run_id"`
	Total      int           `json:"total"`
	Valid      int           `json:"valid"`
	Malformed  []SkippedZone `json:"malformed"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}
