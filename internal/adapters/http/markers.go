package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/pkg/geojson"
)

// SubmitResponse is returned after a successful commit.
type SubmitResponse struct {
	Marker  domain.GeoPoint     `json:"marker"`
	Label   string              `json:"label"`
	Session domain.SessionState `json:"session"`
}

// SubmitMarkerHandler commits the session's form as a new marker.
// Unreadable input yields 422 and leaves the store untouched.
func SubmitMarkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id := c.Params("id")

		p, err := deps.Markers.Submit(ctx, id)
		if err != nil {
			return errFromDomain(c, err)
		}
		st, err := deps.Sessions.Get(ctx, id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(SubmitResponse{Marker: p, Label: p.Label(), Session: st})
	}
}

// ListMarkersHandler returns the session's markers in insertion order.
func ListMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c)
		entries, total, err := deps.Markers.List(c.UserContext(), c.Params("id"), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: entries, Pagination: pg})
	}
}

// MarkersGeoJSONHandler exports the session's markers as a FeatureCollection.
func MarkersGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, _, err := deps.Markers.List(c.UserContext(), c.Params("id"), 0, 0)
		if err != nil {
			return errFromDomain(c, err)
		}
		data, err := geojson.Marshal(entries)
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}
