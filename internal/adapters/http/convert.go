package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

// DDResponse is a decimal-degree conversion result.
type DDResponse struct {
	DD        float64 `json:"dd"`
	Formatted string  `json:"formatted"`
}

// DMSResponse is a DMS conversion result.
type DMSResponse struct {
	geospatial.DMS
	Formatted string `json:"formatted"`
}

// DMSToDDHandler converts ?degrees&minutes&seconds&direction to decimal degrees.
func DMSToDDHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		values := make([]float64, 3)
		for i, name := range []string{"degrees", "minutes", "seconds"} {
			raw := c.Query(name)
			if raw == "" && name != "degrees" {
				continue // missing minutes/seconds count as zero
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return errFromDomain(c, &domain.ValidationError{Field: name, Value: raw, Err: domain.ErrParse})
			}
			values[i] = v
		}

		dd, err := deps.Converter.ToDD(values[0], values[1], values[2], c.Query("direction"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(DDResponse{DD: dd, Formatted: geospatial.FormatDD(dd)})
	}
}

// DDToDMSHandler converts ?dd&axis=lat|lon to DMS.
func DDToDMSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("dd")
		dd, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errFromDomain(c, &domain.ValidationError{Field: "dd", Value: raw, Err: domain.ErrParse})
		}

		dms, err := deps.Converter.ToDMS(dd, c.Query("axis", "lat"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(DMSResponse{DMS: dms, Formatted: dms.String()})
	}
}

// NormalizeHandler applies a direction letter's sign to ?value.
func NormalizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("value")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errFromDomain(c, &domain.ValidationError{Field: "value", Value: raw, Err: domain.ErrParse})
		}

		out, err := deps.Converter.Normalize(v, c.Query("direction"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"value": out})
	}
}
