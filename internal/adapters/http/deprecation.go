package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// boundsAliasSunset is when the legacy /bbox alias stops being served.
var boundsAliasSunset = time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers to a
// deprecated endpoint, pointing clients at its successor. RFC 8594.
func DeprecationMiddleware(successor string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Deprecation", "true")
		c.Set("Sunset", boundsAliasSunset.UTC().Format(time.RFC1123))
		if successor != "" {
			c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, successor))
		}
		days := time.Until(boundsAliasSunset).Hours() / 24
		if days > 0 {
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
		}
		return c.Next()
	}
}
