package projection

import (
	"github.com/wroge/wgs84"

	"github.com/samirrijal/geopin/internal/core/domain"
)

// WebMercator implements ports.Projection between EPSG:4326 and EPSG:3857,
// the projection used by slippy-map tile servers.
type WebMercator struct {
	forward func(a, b, c float64) (float64, float64, float64)
	inverse func(a, b, c float64) (float64, float64, float64)
}

// NewWebMercator builds the forward and inverse transforms once.
func NewWebMercator() *WebMercator {
	epsg := wgs84.EPSG()
	return &WebMercator{
		forward: epsg.Transform(4326, 3857),
		inverse: epsg.Transform(3857, 4326),
	}
}

// Project maps lon/lat degrees to Web Mercator meters.
func (w *WebMercator) Project(lon, lat float64) domain.DisplayCoordinate {
	x, y, _ := w.forward(lon, lat, 0)
	return domain.DisplayCoordinate{X: x, Y: y}
}

// Unproject maps Web Mercator meters back to lon/lat degrees.
func (w *WebMercator) Unproject(c domain.DisplayCoordinate) (lon, lat float64) {
	lon, lat, _ = w.inverse(c.X, c.Y, 0)
	return lon, lat
}
