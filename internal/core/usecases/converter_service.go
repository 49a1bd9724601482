package usecases

import (
	"fmt"
	"math"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/pkg/geospatial"
	"github.com/samirrijal/geopin/internal/pkg/metrics"
)

// ConverterService exposes the stateless coordinate conversions to the
// transport layer, applying the configured range policy.
type ConverterService struct {
	policy domain.RangePolicy
}

// NewConverterService creates a new ConverterService.
func NewConverterService(policy domain.RangePolicy) *ConverterService {
	return &ConverterService{policy: policy}
}

// ToDD converts a DMS triple to signed decimal degrees.
func (s *ConverterService) ToDD(degrees, minutes, seconds float64, direction string) (float64, error) {
	dir, err := geospatial.ParseDirection(direction)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidDirection, err)
	}
	for i, v := range []float64{degrees, minutes, seconds} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &domain.ValidationError{Field: dmsFields[i], Err: domain.ErrParse}
		}
	}

	if s.policy == domain.RangeReject {
		switch {
		case degrees < 0:
			return 0, &domain.ValidationError{Field: "degrees", Value: geospatial.FormatDD(degrees), Err: domain.ErrOutOfRange}
		case minutes < 0 || minutes >= 60:
			return 0, &domain.ValidationError{Field: "minutes", Value: geospatial.FormatDD(minutes), Err: domain.ErrOutOfRange}
		case seconds < 0 || seconds >= 60:
			return 0, &domain.ValidationError{Field: "seconds", Value: geospatial.FormatDD(seconds), Err: domain.ErrOutOfRange}
		}
	}

	dd := geospatial.DMSToDD(degrees, minutes, seconds, dir)
	if s.policy == domain.RangeReject && math.Abs(dd) > axisLimit(dir.Axis()) {
		return 0, &domain.ValidationError{Field: "degrees", Value: geospatial.FormatDD(dd), Err: domain.ErrOutOfRange}
	}

	metrics.Conversions.WithLabelValues("dms_to_dd", string(dir)).Inc()
	return dd, nil
}

// ToDMS converts signed decimal degrees on the given axis to DMS.
func (s *ConverterService) ToDMS(dd float64, axis string) (geospatial.DMS, error) {
	a, err := geospatial.ParseAxis(axis)
	if err != nil {
		return geospatial.DMS{}, &domain.ValidationError{Field: "axis", Value: axis, Err: domain.ErrParse}
	}
	if math.IsNaN(dd) || math.IsInf(dd, 0) {
		return geospatial.DMS{}, &domain.ValidationError{Field: "dd", Err: domain.ErrParse}
	}
	if s.policy == domain.RangeReject && math.Abs(dd) > axisLimit(a) {
		return geospatial.DMS{}, &domain.ValidationError{Field: "dd", Value: geospatial.FormatDD(dd), Err: domain.ErrOutOfRange}
	}

	dms := geospatial.DDToDMS(dd, a == geospatial.Latitude)
	metrics.Conversions.WithLabelValues("dd_to_dms", string(dms.Direction)).Inc()
	return dms, nil
}

// Normalize applies the direction letter's sign to value.
func (s *ConverterService) Normalize(value float64, direction string) (float64, error) {
	dir, err := geospatial.ParseDirection(direction)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidDirection, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &domain.ValidationError{Field: "value", Err: domain.ErrParse}
	}
	return geospatial.NormalizeDirectionalSign(value, dir), nil
}

var dmsFields = [3]string{"degrees", "minutes", "seconds"}

func axisLimit(a geospatial.Axis) float64 {
	if a == geospatial.Longitude {
		return 180
	}
	return 90
}
