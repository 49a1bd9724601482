package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geopin/internal/core/domain"
	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

func strp(s string) *string { return &s }

func TestNewFormState(t *testing.T) {
	f := domain.NewFormState()
	assert.Equal(t, domain.ModeDD, f.Mode)
	assert.Equal(t, geospatial.North, f.LatDirection)
	assert.Equal(t, geospatial.East, f.LonDirection)
}

func TestWithMode(t *testing.T) {
	f := domain.NewFormState()
	f.LatDD = "12.5"

	got, err := f.WithMode(domain.ModeDMS)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDMS, got.Mode)
	assert.Equal(t, "12.5", got.LatDD)
	assert.Equal(t, domain.ModeDD, f.Mode, "receiver must not change")

	_, err = f.WithMode("UTM")
	assert.True(t, errors.Is(err, domain.ErrInvalidMode))
}

func TestParseMode(t *testing.T) {
	m, err := domain.ParseMode("dms")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDMS, m)

	_, err = domain.ParseMode("mgrs")
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestWithFields(t *testing.T) {
	f, err := domain.NewFormState().WithFields(domain.FormPatch{
		LatDD:        strp("4.5709"),
		LonDD:        strp("74.2973"),
		LonDirection: strp("w"),
	})
	require.NoError(t, err)
	assert.Equal(t, "4.5709", f.LatDD)
	assert.Equal(t, "74.2973", f.LonDD)
	assert.Equal(t, geospatial.West, f.LonDirection)
	assert.Equal(t, geospatial.North, f.LatDirection)
}

func TestWithFields_DirectionOnWrongAxis(t *testing.T) {
	orig := domain.NewFormState()
	got, err := orig.WithFields(domain.FormPatch{LatDD: strp("1"), LatDirection: strp("E")})
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
	assert.Equal(t, orig, got)
}

func TestConvertDMSToDD(t *testing.T) {
	f := domain.NewFormState()
	f.Mode = domain.ModeDMS
	f.LatDegrees, f.LatMinutes, f.LatSeconds = "48", "51", "27"
	f.LonDegrees, f.LonMinutes, f.LonSeconds = "74", "17", "50"
	f.LonDirection = geospatial.West

	got := f.ConvertDMSToDD()
	assert.Equal(t, domain.ModeDD, got.Mode)
	assert.Equal(t, "48.857500", got.LatDD)
	assert.Equal(t, "74.297222", got.LonDD)
	assert.Equal(t, geospatial.West, got.LonDirection)
}

func TestConvertDMSToDD_BlankCountsAsZero(t *testing.T) {
	f := domain.NewFormState()
	f.Mode = domain.ModeDMS
	f.LatDegrees = "10"

	got := f.ConvertDMSToDD()
	assert.Equal(t, "10.000000", got.LatDD)
	assert.Equal(t, "0.000000", got.LonDD)
}

func TestConvertDDToDMS(t *testing.T) {
	f := domain.NewFormState()
	f.LatDD = "4.5709"
	f.LonDD = "74.2973"
	f.LonDirection = geospatial.West

	got, ok := f.ConvertDDToDMS()
	require.True(t, ok)
	assert.Equal(t, domain.ModeDMS, got.Mode)
	assert.Equal(t, "4", got.LatDegrees)
	assert.Equal(t, "34", got.LatMinutes)
	assert.Equal(t, "15.24", got.LatSeconds)
	assert.Equal(t, geospatial.North, got.LatDirection)
	assert.Equal(t, "74", got.LonDegrees)
	assert.Equal(t, "17", got.LonMinutes)
	assert.Equal(t, "50.28", got.LonSeconds)
	assert.Equal(t, geospatial.West, got.LonDirection)
}

func TestConvertDDToDMS_SecondsNeverReachSixty(t *testing.T) {
	f := domain.NewFormState()
	f.LatDD = "10.1"
	f.LonDD = "20.2"

	got, ok := f.ConvertDDToDMS()
	require.True(t, ok)
	assert.Equal(t, []string{"10", "6", "0.00"}, []string{got.LatDegrees, got.LatMinutes, got.LatSeconds})
	assert.Equal(t, []string{"20", "12", "0.00"}, []string{got.LonDegrees, got.LonMinutes, got.LonSeconds})

	p, err := domain.CommitMarker(got)
	require.NoError(t, err)
	require.NoError(t, domain.RangeReject.Check(got, p))
	assert.InDelta(t, 10.1, p.Lat, 1e-9)
	assert.InDelta(t, 20.2, p.Lon, 1e-9)
	assert.Equal(t, "10°6'0.00\"N 20°12'0.00\"E", p.Label())
}

func TestConvertDDToDMS_NegativeValueFollowsSelector(t *testing.T) {
	f := domain.NewFormState()
	f.LatDD = "-33.5"
	f.LonDD = "0"

	got, ok := f.ConvertDDToDMS()
	require.True(t, ok)
	assert.Equal(t, geospatial.North, got.LatDirection)
	assert.Equal(t, "33", got.LatDegrees)
	assert.Equal(t, "30", got.LatMinutes)
}

func TestConvertDDToDMS_NotANumberLeavesFormAlone(t *testing.T) {
	f := domain.NewFormState()
	f.LatDD = "abc"
	f.LonDD = "1"

	got, ok := f.ConvertDDToDMS()
	assert.False(t, ok)
	assert.Equal(t, f, got)

	f.LatDD = "1"
	f.LonDD = ""
	_, ok = f.ConvertDDToDMS()
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	f := domain.NewFormState()
	f.Mode = domain.ModeDMS
	f.LatDD, f.LonDD = "1", "2"
	f.LatDegrees, f.LonSeconds = "3", "4"
	f.LatDirection = geospatial.South

	got := f.Clear()
	assert.Empty(t, got.LatDD)
	assert.Empty(t, got.LonDD)
	assert.Empty(t, got.LatDegrees)
	assert.Empty(t, got.LonSeconds)
	assert.Equal(t, domain.ModeDMS, got.Mode)
	assert.Equal(t, geospatial.South, got.LatDirection)
}

func TestWithClick(t *testing.T) {
	f := domain.NewFormState()
	f.Mode = domain.ModeDMS

	got := f.WithClick(domain.GeoPoint{Lat: -12.0464, Lon: -77.0428})
	assert.Equal(t, domain.ModeDD, got.Mode)
	assert.Equal(t, "12.046400", got.LatDD)
	assert.Equal(t, "77.042800", got.LonDD)
	assert.Equal(t, geospatial.South, got.LatDirection)
	assert.Equal(t, geospatial.West, got.LonDirection)
}

func TestApply(t *testing.T) {
	f := domain.NewFormState()

	f, _, err := f.Apply(domain.FormAction{Kind: domain.ActionSetFields, Patch: domain.FormPatch{
		LatDD: strp("4.5709"), LonDD: strp("74.2973"), LonDirection: strp("W"),
	}})
	require.NoError(t, err)

	f, converted, err := f.Apply(domain.FormAction{Kind: domain.ActionConvert})
	require.NoError(t, err)
	assert.True(t, converted)
	assert.Equal(t, domain.ModeDMS, f.Mode)

	f, converted, err = f.Apply(domain.FormAction{Kind: domain.ActionConvert})
	require.NoError(t, err)
	assert.True(t, converted)
	assert.Equal(t, domain.ModeDD, f.Mode)
	assert.Equal(t, "4.570900", f.LatDD)

	f, _, err = f.Apply(domain.FormAction{Kind: domain.ActionClear})
	require.NoError(t, err)
	assert.Empty(t, f.LatDD)

	_, converted, err = f.Apply(domain.FormAction{Kind: domain.ActionConvert})
	require.NoError(t, err)
	assert.False(t, converted, "blank DD fields cannot convert")

	_, _, err = f.Apply(domain.FormAction{Kind: "explode"})
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	_, _, err = f.Apply(domain.FormAction{Kind: domain.ActionClick})
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}
