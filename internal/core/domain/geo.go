package domain

import (
	"fmt"

	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

// GeoPoint represents a geographic coordinate (WGS 84) in signed decimal
// degrees. Negative latitude is south, negative longitude is west.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DMS returns the latitude and longitude as DMS values.
func (p GeoPoint) DMS() (lat, lon geospatial.DMS) {
	return geospatial.DDToDMS(p.Lat, true), geospatial.DDToDMS(p.Lon, false)
}

// Label renders the point as `48°51'27.00"N 2°21'3.00"E`.
func (p GeoPoint) Label() string {
	lat, lon := p.DMS()
	return fmt.Sprintf("%s %s", lat, lon)
}

// DistanceTo returns the great-circle distance to q in meters.
func (p GeoPoint) DistanceTo(q GeoPoint) float64 {
	return geospatial.GreatCircleMeters(p.Lat, p.Lon, q.Lat, q.Lon)
}

// DisplayCoordinate is a point in the map's projected space (EPSG:3857 meters).
type DisplayCoordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is where the map should be looking.
type Viewport struct {
	Center GeoPoint `json:"center"`
	Zoom   float64  `json:"zoom"`
}
