package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geopin/internal/core/domain"
)

// CreateSessionHandler starts a new map session.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := deps.Sessions.Create(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Location("/v1/sessions/" + st.ID)
		return c.Status(fiber.StatusCreated).JSON(st)
	}
}

// GetSessionHandler returns a session's form, modal and markers.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := deps.Sessions.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(st)
	}
}

// EndSessionHandler discards a session and its markers.
func EndSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Sessions.End(c.UserContext(), c.Params("id")); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type modalRequest struct {
	Open *bool `json:"open"`
}

// SetModalHandler opens or closes the coordinate entry modal.
func SetModalHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req modalRequest
		if err := c.BodyParser(&req); err != nil || req.Open == nil {
			return errBadRequest(c, `body must be {"open": true|false}`)
		}
		st, err := deps.Sessions.SetModal(c.UserContext(), c.Params("id"), *req.Open)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(st)
	}
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// SetModeHandler switches the form between DD and DMS.
func SetModeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req modeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		mode, err := domain.ParseMode(req.Mode)
		if err != nil {
			return errFromDomain(c, err)
		}
		return dispatch(c, deps, domain.FormAction{Kind: domain.ActionSetMode, Mode: mode})
	}
}

// PatchFormHandler overwrites the given form fields.
func PatchFormHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch domain.FormPatch
		if err := c.BodyParser(&patch); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		return dispatch(c, deps, domain.FormAction{Kind: domain.ActionSetFields, Patch: patch})
	}
}

// ConvertFormHandler is the "Convert to ..." button: DMS→DD in DMS mode,
// DD→DMS in DD mode. converted is false when the DD fields are not numbers.
func ConvertFormHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, converted, err := deps.Sessions.Dispatch(c.UserContext(), c.Params("id"), domain.FormAction{Kind: domain.ActionConvert})
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"converted": converted, "session": st})
	}
}

// ClearFormHandler empties the numeric form fields.
func ClearFormHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return dispatch(c, deps, domain.FormAction{Kind: domain.ActionClear})
	}
}

func dispatch(c *fiber.Ctx, deps *Dependencies, a domain.FormAction) error {
	st, _, err := deps.Sessions.Dispatch(c.UserContext(), c.Params("id"), a)
	if err != nil {
		return errFromDomain(c, err)
	}
	return c.JSON(st)
}

// clickRequest carries either display coordinates (x, y in EPSG:3857
// meters) or geographic ones (lat, lon).
type clickRequest struct {
	X   *float64 `json:"x"`
	Y   *float64 `json:"y"`
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// ClickHandler records a map click: the modal opens prefilled with the point.
func ClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req clickRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		var (
			st  domain.SessionState
			err error
		)
		switch {
		case req.X != nil && req.Y != nil:
			st, err = deps.Sessions.HandleMapClick(c.UserContext(), c.Params("id"), domain.DisplayCoordinate{X: *req.X, Y: *req.Y})
		case req.Lat != nil && req.Lon != nil:
			st, err = deps.Sessions.ClickAt(c.UserContext(), c.Params("id"), domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon})
		default:
			return errBadRequest(c, "body must carry x and y, or lat and lon")
		}
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(st)
	}
}
