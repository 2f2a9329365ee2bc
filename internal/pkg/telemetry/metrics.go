package telemetry

// Instrumentation names shared by the API, tracker and auditor.
const (
	// Tracer scope
	TracerName = "github.com/samirrijal/geofence"

	// Spans
	SpanRegister  = "geofence.register"
	SpanList      = "geofence.list"
	SpanCheck     = "geofence.check"
	SpanLoadZones = "geofence.load_zones"
	SpanAudit     = "geofence.audit"
	SpanTrack     = "geofence.track"

	// Span attributes
	AttrZoneCount      = "geofence.zones"
	AttrMatchCount     = "geofence.matches"
	AttrMalformedCount = "geofence.malformed"
	AttrCacheHit       = "geofence.cache_hit"
	AttrDeviceID       = "geofence.device_id"
)
