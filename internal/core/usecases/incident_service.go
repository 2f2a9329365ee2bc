package usecases

import (
	"context"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// sampleIncidents is the fixed feed shown next to the map until a real
// incident source exists.
var sampleIncidents = []domain.Incident{
	{ID: "1", Title: "Theft at City Park", Description: "Bag stolen", Severity: "High", ReportedAt: "10 mins ago"},
	{ID: "2", Title: "Suspicious Activity", Description: "Loitering", Severity: "Medium", ReportedAt: "30 mins ago"},
	{ID: "3", Title: "Lost Tourist", Description: "Needs help", Severity: "Low", ReportedAt: "1 hour ago"},
}

// IncidentService serves the incident feed.
type IncidentService struct{}

// NewIncidentService creates a new IncidentService.
func NewIncidentService() *IncidentService {
	return &IncidentService{}
}

// List returns a copy of the incident feed.
func (s *IncidentService) List(_ context.Context) []domain.Incident {
	return append([]domain.Incident(nil), sampleIncidents...)
}
