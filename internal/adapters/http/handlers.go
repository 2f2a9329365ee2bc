package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/pkg/geospatial"
)

const (
	msgMissingZoneFields     = "Missing name or area data"
	msgMissingLocationFields = "Missing location data (latitude/longitude)"
	msgInvalidBody           = "request body must be a JSON object"
)

type registerRequest struct {
	Name *string         `json:"name"`
	Area json.RawMessage `json:"area"`
}

// parseRegisterRequest decodes a registration body. The area is returned as
// a plain decoded JSON value; shape checks belong to the service.
func parseRegisterRequest(body []byte) (string, any, string) {
	var req registerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", nil, msgInvalidBody
	}
	if req.Name == nil || len(req.Area) == 0 {
		return "", nil, msgMissingZoneFields
	}
	var area any
	if err := json.Unmarshal(req.Area, &area); err != nil {
		return "", nil, msgInvalidBody
	}
	return *req.Name, area, ""
}

type checkRequest struct {
	Latitude  any `json:"latitude"`
	Longitude any `json:"longitude"`
}

// parseCheckRequest decodes a membership query. Coordinates may be JSON
// numbers or numeric strings.
func parseCheckRequest(body []byte) (domain.GeoPoint, string) {
	var req checkRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.GeoPoint{}, msgInvalidBody
	}
	if req.Latitude == nil || req.Longitude == nil {
		return domain.GeoPoint{}, msgMissingLocationFields
	}
	lat, err := geospatial.Coordinate(req.Latitude)
	if err != nil {
		return domain.GeoPoint{}, "latitude: " + err.Error()
	}
	lon, err := geospatial.Coordinate(req.Longitude)
	if err != nil {
		return domain.GeoPoint{}, "longitude: " + err.Error()
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, ""
}

// RegisterGeofenceHandler creates a geofence and returns the stored record.
func RegisterGeofenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, area, msg := parseRegisterRequest(c.Body())
		if msg != "" {
			return errBadRequest(c, msg)
		}

		g, err := deps.Geofences.Register(c.UserContext(), name, area)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(g)
	}
}

// LegacyRegisterGeofenceHandler serves POST /geofences with the first
// revision's acknowledgement body.
func LegacyRegisterGeofenceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, area, msg := parseRegisterRequest(c.Body())
		if msg != "" {
			return errBadRequest(c, msg)
		}

		g, err := deps.Geofences.Register(c.UserContext(), name, area)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Geofence added successfully",
			"id":      g.ID,
		})
	}
}

// ListGeofencesHandler returns a page of valid geofences.
func ListGeofencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones, err := deps.Geofences.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return paginate(c, zones, 100, 500)
	}
}

// LegacyListGeofencesHandler returns every valid geofence as a bare array.
func LegacyListGeofencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones, err := deps.Geofences.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(zones)
	}
}

// CheckLocationHandler reports every geofence containing the posted point.
func CheckLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		point, msg := parseCheckRequest(c.Body())
		if msg != "" {
			return errBadRequest(c, msg)
		}

		res, err := deps.Geofences.Check(c.UserContext(), point)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListIncidentsHandler returns the incident feed.
func ListIncidentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Incidents.List(c.UserContext()))
	}
}
