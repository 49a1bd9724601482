package geospatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

func TestDMSToDD_KnownPoints(t *testing.T) {
	tests := []struct {
		name    string
		d, m, s float64
		dir     geospatial.Direction
		want    float64
		delta   float64
	}{
		{"paris latitude", 48, 51, 27, geospatial.North, 48.8575, 1e-4},
		{"new jersey longitude", 74, 17, 50, geospatial.West, -74.2972, 1e-3},
		{"southern hemisphere", 33, 52, 4, geospatial.South, -33.867778, 1e-5},
		{"east is positive", 151, 12, 36, geospatial.East, 151.21, 1e-6},
		{"minute overflow is folded", 10, 75, 0, geospatial.North, 11.25, 1e-9},
		{"unknown letter stays positive", 1, 30, 0, geospatial.Direction("X"), 1.5, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geospatial.DMSToDD(tt.d, tt.m, tt.s, tt.dir)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestDMSToDD_ZeroIsExact(t *testing.T) {
	assert.Equal(t, 0.0, geospatial.DMSToDD(0, 0, 0, geospatial.North))
}

func TestDDToDMS_Zero(t *testing.T) {
	assert.Equal(t, geospatial.DMS{Direction: geospatial.North}, geospatial.DDToDMS(0, true))
	assert.Equal(t, geospatial.DMS{Direction: geospatial.East}, geospatial.DDToDMS(0, false))

	negZero := math.Copysign(0, -1)
	assert.Equal(t, geospatial.North, geospatial.DDToDMS(negZero, true).Direction)
	assert.Equal(t, geospatial.East, geospatial.DDToDMS(negZero, false).Direction)
}

func TestDDToDMS_Components(t *testing.T) {
	got := geospatial.DDToDMS(-74.2973, false)
	assert.Equal(t, 74, got.Degrees)
	assert.Equal(t, 17, got.Minutes)
	assert.InDelta(t, 50.28, got.Seconds, 1e-6)
	assert.Equal(t, geospatial.West, got.Direction)

	got = geospatial.DDToDMS(-33.5, true)
	assert.Equal(t, geospatial.DMS{Degrees: 33, Minutes: 30, Seconds: 0, Direction: geospatial.South}, got)
}

func TestDDToDMS_NonFinite(t *testing.T) {
	got := geospatial.DDToDMS(math.NaN(), true)
	assert.Equal(t, 0, got.Degrees)
	assert.Equal(t, 0.0, got.Seconds)

	got = geospatial.DDToDMS(math.Inf(-1), false)
	assert.Equal(t, geospatial.West, got.Direction)
	assert.Equal(t, 0, got.Degrees)
}

func TestDMS_RoundedCarriesIntoMinutesAndDegrees(t *testing.T) {
	lat := geospatial.DDToDMS(10.1, true)
	lon := geospatial.DDToDMS(20.2, false)
	assert.Equal(t, "10°6'0.00\"N", lat.String())
	assert.Equal(t, "20°12'0.00\"E", lon.String())
	assert.Equal(t, geospatial.DMS{Degrees: 10, Minutes: 6, Seconds: 0, Direction: geospatial.North}, lat.Rounded())

	edge := geospatial.DMS{Degrees: 1, Minutes: 59, Seconds: 59.999, Direction: geospatial.West}
	assert.Equal(t, geospatial.DMS{Degrees: 2, Direction: geospatial.West}, edge.Rounded())
	assert.Equal(t, "2°0'0.00\"W", edge.String())

	plain := geospatial.DMS{Degrees: 48, Minutes: 51, Seconds: 27.004, Direction: geospatial.North}
	assert.Equal(t, "48°51'27.00\"N", plain.String())
}

func TestRoundTrip_DMSThroughDD(t *testing.T) {
	for _, dir := range []geospatial.Direction{geospatial.North, geospatial.East} {
		isLat := dir == geospatial.North
		for d := 0; d <= 179; d += 7 {
			for m := 0; m <= 59; m += 4 {
				for _, s := range []float64{0, 0.35, 12.5, 29.99, 45.01, 59.9} {
					dd := geospatial.DMSToDD(float64(d), float64(m), s, dir)
					back := geospatial.DDToDMS(dd, isLat)

					want := float64(d)*3600 + float64(m)*60 + s
					require.InDelta(t, want, back.ArcSeconds(), 0.1, "d=%d m=%d s=%v", d, m, s)
					require.Equal(t, dir, back.Direction)
				}
			}
		}
	}
}

func TestRoundTrip_DDThroughDMS(t *testing.T) {
	cases := []struct {
		limit float64
		isLat bool
	}{
		{90, true},
		{180, false},
	}

	for _, c := range cases {
		for x := -c.limit; x <= c.limit; x += 0.7331 {
			dms := geospatial.DDToDMS(x, c.isLat)
			back := geospatial.DMSToDD(float64(dms.Degrees), float64(dms.Minutes), dms.Seconds, dms.Direction)
			require.InDelta(t, x, back, 1e-4, "x=%v", x)
		}
	}
}

func TestNormalizeDirectionalSign(t *testing.T) {
	tests := []struct {
		value float64
		dir   geospatial.Direction
		want  float64
	}{
		{74.2973, geospatial.West, -74.2973},
		{-74.2973, geospatial.West, -74.2973},
		{-4.5709, geospatial.North, 4.5709},
		{4.5709, geospatial.North, 4.5709},
		{10, geospatial.South, -10},
		{-10, geospatial.East, 10},
		{0, geospatial.South, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, geospatial.NormalizeDirectionalSign(tt.value, tt.dir), "%v %s", tt.value, tt.dir)
	}
}

func TestDirectionalNegationIsInvolutive(t *testing.T) {
	for _, x := range []float64{0.5, 12.25, 89.999, 179.5} {
		neg := geospatial.DMSToDD(x, 0, 0, geospatial.South)
		assert.Equal(t, x, -neg)
		assert.Equal(t, x, geospatial.NormalizeDirectionalSign(neg, geospatial.North))
	}
}

func TestParseDirection(t *testing.T) {
	d, err := geospatial.ParseDirection(" w ")
	require.NoError(t, err)
	assert.Equal(t, geospatial.West, d)
	assert.True(t, d.ValidFor(geospatial.Longitude))
	assert.False(t, d.ValidFor(geospatial.Latitude))

	_, err = geospatial.ParseDirection("Q")
	assert.Error(t, err)
}

func TestParseAxis(t *testing.T) {
	a, err := geospatial.ParseAxis("Latitude")
	require.NoError(t, err)
	assert.Equal(t, geospatial.Latitude, a)

	a, err = geospatial.ParseAxis("lng")
	require.NoError(t, err)
	assert.Equal(t, geospatial.Longitude, a)

	_, err = geospatial.ParseAxis("up")
	assert.Error(t, err)
}

func TestDMSString(t *testing.T) {
	dms := geospatial.DMS{Degrees: 48, Minutes: 51, Seconds: 27, Direction: geospatial.North}
	assert.Equal(t, "48°51'27.00\"N", dms.String())
	assert.Equal(t, "4.570900", geospatial.FormatDD(4.5709))
}
