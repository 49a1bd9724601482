package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

// CommitMarker turns the active half of the form into a signed GeoPoint.
// It does not touch any store. A field that cannot be read yields a
// *ValidationError wrapping ErrParse.
func CommitMarker(form FormState) (GeoPoint, error) {
	switch form.Mode {
	case ModeDD:
		return commitDD(form)
	case ModeDMS:
		return commitDMS(form)
	default:
		return GeoPoint{}, fmt.Errorf("%w: %q", ErrInvalidMode, form.Mode)
	}
}

func commitDD(form FormState) (GeoPoint, error) {
	lat, err := field("lat_dd", form.LatDD)
	if err != nil {
		return GeoPoint{}, err
	}
	lon, err := field("lon_dd", form.LonDD)
	if err != nil {
		return GeoPoint{}, err
	}
	return GeoPoint{
		Lat: geospatial.NormalizeDirectionalSign(lat, form.LatDirection),
		Lon: geospatial.NormalizeDirectionalSign(lon, form.LonDirection),
	}, nil
}

func commitDMS(form FormState) (GeoPoint, error) {
	values := make([]float64, 6)
	fields := []struct {
		name string
		raw  string
	}{
		{"lat_degrees", form.LatDegrees},
		{"lat_minutes", form.LatMinutes},
		{"lat_seconds", form.LatSeconds},
		{"lon_degrees", form.LonDegrees},
		{"lon_minutes", form.LonMinutes},
		{"lon_seconds", form.LonSeconds},
	}
	for i, f := range fields {
		v, err := field(f.name, f.raw)
		if err != nil {
			return GeoPoint{}, err
		}
		values[i] = v
	}

	p := GeoPoint{
		Lat: geospatial.DMSToDD(values[0], values[1], values[2], form.LatDirection),
		Lon: geospatial.DMSToDD(values[3], values[4], values[5], form.LonDirection),
	}
	if math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return GeoPoint{}, &ValidationError{Field: "coordinates", Err: ErrParse}
	}
	return p, nil
}

func field(name, raw string) (float64, error) {
	v, err := parseFloat(raw)
	if err != nil {
		return 0, &ValidationError{Field: name, Value: strings.TrimSpace(raw), Err: ErrParse}
	}
	return v, nil
}

// RangePolicy decides what happens to values outside their natural range.
type RangePolicy string

const (
	// RangeAccept folds overflow arithmetically, e.g. 75 minutes adds 1°15'.
	RangeAccept RangePolicy = "accept"
	// RangeReject refuses minutes or seconds >= 60 and points beyond the poles
	// or the antimeridian.
	RangeReject RangePolicy = "reject"
)

// ParseRangePolicy defaults to RangeAccept for an empty string.
func ParseRangePolicy(s string) (RangePolicy, error) {
	switch RangePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RangeAccept:
		return RangeAccept, nil
	case RangeReject:
		return RangeReject, nil
	default:
		return "", fmt.Errorf("unknown range policy %q", s)
	}
}

// Check validates a committed point and the form it came from.
func (p RangePolicy) Check(form FormState, point GeoPoint) error {
	if p != RangeReject {
		return nil
	}

	if form.Mode == ModeDMS {
		for _, f := range []struct {
			name string
			raw  string
		}{
			{"lat_minutes", form.LatMinutes},
			{"lat_seconds", form.LatSeconds},
			{"lon_minutes", form.LonMinutes},
			{"lon_seconds", form.LonSeconds},
		} {
			if v := lenientFloat(f.raw); v < 0 || v >= 60 {
				return &ValidationError{Field: f.name, Value: strings.TrimSpace(f.raw), Err: ErrOutOfRange}
			}
		}
		for _, f := range []struct {
			name string
			raw  string
		}{
			{"lat_degrees", form.LatDegrees},
			{"lon_degrees", form.LonDegrees},
		} {
			if lenientFloat(f.raw) < 0 {
				return &ValidationError{Field: f.name, Value: strings.TrimSpace(f.raw), Err: ErrOutOfRange}
			}
		}
	}

	if math.Abs(point.Lat) > 90 {
		return &ValidationError{Field: "lat", Value: geospatial.FormatDD(point.Lat), Err: ErrOutOfRange}
	}
	if math.Abs(point.Lon) > 180 {
		return &ValidationError{Field: "lon", Value: geospatial.FormatDD(point.Lon), Err: ErrOutOfRange}
	}
	return nil
}
