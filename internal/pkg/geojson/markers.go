// Package geojson exports a session's markers as a GeoJSON FeatureCollection.
package geojson

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/samirrijal/geopin/internal/core/domain"
)

// FeatureCollection builds one Point feature per marker, in order. Point
// coordinates are [lon, lat] as GeoJSON requires.
func FeatureCollection(entries []domain.MarkerEntry) geom.GeoJSONFeatureCollection {
	fc := make(geom.GeoJSONFeatureCollection, 0, len(entries))
	for _, e := range entries {
		pt := geom.NewPoint(geom.Coordinates{
			XY: geom.XY{X: e.Point.Lon, Y: e.Point.Lat},
		})
		props := map[string]interface{}{
			"index":   e.Index,
			"lat_dms": e.Lat,
			"lon_dms": e.Lon,
		}
		if e.DistanceM != nil {
			props["distance_m"] = *e.DistanceM
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry:   pt.AsGeometry(),
			ID:         e.Index,
			Properties: props,
		})
	}
	return fc
}

// Marshal encodes entries as a FeatureCollection document.
func Marshal(entries []domain.MarkerEntry) ([]byte, error) {
	return json.Marshal(FeatureCollection(entries))
}
