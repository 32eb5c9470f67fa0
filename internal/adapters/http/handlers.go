package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/trailhub/internal/core/domain"
)

// FeedStats holds row counts of the tracking tables.
type FeedStats struct {
	Trackers  int    `json:"trackers"`
	Trails    int    `json:"trails"`
	Fixes     int    `json:"fixes"`
	Regions   int    `json:"regions"`
	LastFixAt string `json:"last_fix_at,omitempty"`
}

// FeedStatsHandler returns row counts from the tracking tables.
func FeedStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats FeedStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM trackers),
				(SELECT count(*) FROM trails),
				(SELECT count(*) FROM fixes),
				(SELECT count(*) FROM regions),
				COALESCE((SELECT max(time)::text FROM fixes), '')
		`)
		if err := row.Scan(&stats.Trackers, &stats.Trails, &stats.Fixes,
			&stats.Regions, &stats.LastFixAt); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// ListTrackersHandler returns all registered trackers.
func ListTrackersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		trackers, err := deps.Trackers.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		// Apply offset/limit pagination on the full list
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(trackers)
		if offset >= total {
			trackers = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			trackers = trackers[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: trackers, Pagination: pg})
	}
}

// NearbyTrackersHandler returns trackers within a radius of a point.
func NearbyTrackersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 500)
		limit := c.QueryInt("limit", 50)

		if lat == 0 || lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 10000 {
			return errBadRequest(c, "radius must be between 1 and 10000 meters")
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		trackers, err := deps.Trackers.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=30")
		return c.JSON(trackers)
	}
}

// GetTrackerHandler returns a single tracker by ID.
func GetTrackerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "tracker id is required")
		}
		tracker, err := deps.Trackers.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "tracker not found")
		}
		return c.JSON(tracker)
	}
}

// TrackerTrailsHandler lists the trails recorded by a tracker.
func TrackerTrailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "tracker id is required")
		}
		trails, err := deps.Trails.ListByTracker(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(trails)
	}
}

// TrackerLatestFixHandler returns the most recent fix of a tracker.
func TrackerLatestFixHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "tracker id is required")
		}
		fix, err := deps.Trackers.LatestFix(c.Context(), id)
		if err != nil {
			return errNotFound(c, "no fixes for tracker")
		}
		return c.JSON(fix)
	}
}

// IngestFixHandler accepts a position fix pushed over HTTP and enqueues it
// on the ingest work queue. Processing is asynchronous, hence 202.
func IngestFixHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "tracker id is required")
		}

		var fix domain.Fix
		if err := c.BodyParser(&fix); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		fix.TrackerID = id
		if fix.Time.IsZero() {
			fix.Time = time.Now().UTC()
		}
		if fix.Location.Lat < -90 || fix.Location.Lat > 90 ||
			fix.Location.Lon < -180 || fix.Location.Lon > 180 {
			return errBadRequest(c, "location out of range")
		}

		if deps.Events == nil {
			return errInternal(c, "ingest queue unavailable")
		}
		if err := deps.Events.PublishRawFix(c.Context(), &fix); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(202)
	}
}

// StartTrailHandler opens a new trail for a tracker.
func StartTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "tracker id is required")
		}

		var trail domain.Trail
		if err := c.BodyParser(&trail); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		trail.TrackerID = id

		if err := deps.Trails.Start(c.Context(), &trail); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(trail)
	}
}

// GeofenceEventsHandler returns a tracker's recent geofence enter/exit
// events. By default it looks back 24 hours; `since` (RFC 3339) widens or
// narrows the window.
func GeofenceEventsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "tracker id is required")
		}

		since := time.Now().UTC().Add(-24 * time.Hour)
		if raw := c.Query("since"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return errBadRequest(c, "since must be an RFC 3339 timestamp")
			}
			since = parsed
		}
		limit := c.QueryInt("limit", 100)

		events, err := deps.Regions.EventsForTracker(c.Context(), id, since, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if events == nil {
			events = []domain.GeofenceEvent{}
		}
		return c.JSON(events)
	}
}

// GetTrailHandler returns a trail with its path and bounds.
func GetTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		trail, err := deps.Trails.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "trail not found")
		}
		return c.JSON(trail)
	}
}

// TrailBoundsHandler returns the axis-aligned bounding box of a trail.
// A trail with no fixes has no box; that is reported as 404 no_bounds,
// not as a server error.
func TrailBoundsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		bounds, err := deps.Trails.Bounds(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if bounds == nil {
			return errNoBounds(c, "trail has no fixes")
		}
		return c.JSON(bounds)
	}
}

// TrailStatsHandler returns the computed summary of a trail.
func TrailStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		stats, err := deps.Trails.Stats(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(stats)
	}
}

// TrailFixesHandler returns the ordered raw fixes of a trail.
func TrailFixesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		fixes, err := deps.Trails.Fixes(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fixes)
	}
}

// CloseTrailHandler marks a trail as finished.
func CloseTrailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "trail id is required")
		}
		if err := deps.Trails.Close(c.Context(), id, time.Now()); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// ListRegionsHandler returns all geofence regions.
func ListRegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		regions, err := deps.Regions.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(regions)
	}
}

// GetRegionHandler returns a region by slug.
func GetRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "region slug is required")
		}
		region, err := deps.Regions.GetBySlug(c.Context(), slug)
		if err != nil {
			return errNotFound(c, "region not found")
		}
		return c.JSON(region)
	}
}

// SaveRegionHandler creates or updates a region.
func SaveRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var region domain.Region
		if err := c.BodyParser(&region); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		region.Slug = c.Params("slug")

		if err := deps.Regions.Save(c.Context(), &region); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(204).Send(nil)
	}
}

// DeleteRegionHandler removes a region.
func DeleteRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		if slug == "" {
			return errBadRequest(c, "region slug is required")
		}
		if err := deps.Regions.Delete(c.Context(), slug); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// RegionTrailsHandler lists a tracker's trails whose bounds overlap a region.
func RegionTrailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		trackerID := c.Query("tracker_id")
		if slug == "" || trackerID == "" {
			return errBadRequest(c, "region slug and tracker_id are required")
		}
		trails, err := deps.Regions.TrailsIntersecting(c.Context(), slug, trackerID)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(trails)
	}
}
