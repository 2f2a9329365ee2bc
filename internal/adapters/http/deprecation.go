package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// legacySunset is when the unversioned routes of the first service revision go away.
var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// DeprecatedRoute describes a route kept only for existing clients.
type DeprecatedRoute struct {
	SunsetDate  time.Time // Date when endpoint will be removed
	Alternative string    // Recommended replacement endpoint (optional)
}

// Deprecated wraps a handler so its responses carry Deprecation, Sunset,
// Link and Warning headers.
func Deprecated(d DeprecatedRoute, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// RFC 8594 Sunset header (HTTP-Date format)
		c.Set("Deprecation", "true")
		c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))
		if d.Alternative != "" {
			c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
		}
		days := max(time.Until(d.SunsetDate).Hours()/24, 0)
		c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))

		return next(c)
	}
}
