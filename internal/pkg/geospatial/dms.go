package geospatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Direction is a cardinal hemisphere letter attached to a DMS magnitude.
type Direction string

const (
	North Direction = "N"
	South Direction = "S"
	East  Direction = "E"
	West  Direction = "W"
)

// Axis selects which pair of direction letters a value uses.
type Axis string

const (
	Latitude  Axis = "lat"
	Longitude Axis = "lon"
)

// ParseDirection accepts a single letter (N, S, E, W), case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case North, South, East, West:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// ParseAxis accepts lat/latitude and lon/lng/longitude.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lat", "latitude":
		return Latitude, nil
	case "lon", "lng", "longitude":
		return Longitude, nil
	default:
		return "", fmt.Errorf("unknown axis %q", s)
	}
}

// Negative reports whether the direction implies a negative signed value.
func (d Direction) Negative() bool {
	return d == South || d == West
}

// Axis returns the axis the direction belongs to.
func (d Direction) Axis() Axis {
	if d == East || d == West {
		return Longitude
	}
	return Latitude
}

// ValidFor reports whether d is one of the two letters of axis a.
func (d Direction) ValidFor(a Axis) bool {
	switch a {
	case Latitude:
		return d == North || d == South
	case Longitude:
		return d == East || d == West
	}
	return false
}

// DirectionFor returns the letter that matches the sign of dd on the given axis.
// Zero (including negative zero) is treated as non-negative.
func DirectionFor(dd float64, isLatitude bool) Direction {
	if isLatitude {
		if dd >= 0 {
			return North
		}
		return South
	}
	if dd >= 0 {
		return East
	}
	return West
}

// DMS is a coordinate expressed as an unsigned degrees/minutes/seconds
// magnitude plus a direction letter.
type DMS struct {
	Degrees   int       `json:"degrees"`
	Minutes   int       `json:"minutes"`
	Seconds   float64   `json:"seconds"`
	Direction Direction `json:"direction"`
}

// String renders the value as 48°51'27.00"N, after Rounded.
func (d DMS) String() string {
	r := d.Rounded()
	return fmt.Sprintf("%d°%d'%s\"%s", r.Degrees, r.Minutes, FormatSeconds(r.Seconds), r.Direction)
}

// ArcSeconds returns the unsigned magnitude in seconds of arc.
func (d DMS) ArcSeconds() float64 {
	return float64(d.Degrees)*3600 + float64(d.Minutes)*60 + d.Seconds
}

// Rounded returns d with seconds rounded to hundredths, carrying into
// minutes and degrees so that seconds never display as 60.00.
func (d DMS) Rounded() DMS {
	hundredths := int64(math.Round(d.ArcSeconds() * 100))
	return DMS{
		Degrees:   int(hundredths / 360000),
		Minutes:   int(hundredths % 360000 / 6000),
		Seconds:   float64(hundredths%6000) / 100,
		Direction: d.Direction,
	}
}

// DMSToDD combines degrees, minutes and seconds into signed decimal degrees.
// Minutes and seconds are not range checked: overflow such as 75 minutes is
// folded into the result arithmetically. S and W negate the result; any
// other letter leaves it positive.
func DMSToDD(degrees, minutes, seconds float64, dir Direction) float64 {
	dd := degrees + minutes/60 + seconds/3600
	if dir.Negative() {
		dd *= -1
	}
	return dd
}

// DDToDMS splits signed decimal degrees into a DMS value. isLatitude picks
// N/S over E/W. A non-finite input yields a zero magnitude.
func DDToDMS(dd float64, isLatitude bool) DMS {
	dir := DirectionFor(dd, isLatitude)
	if math.IsNaN(dd) || math.IsInf(dd, 0) {
		return DMS{Direction: dir}
	}

	absolute := math.Abs(dd)
	degrees := math.Floor(absolute)
	minutesDecimal := (absolute - degrees) * 60
	minutes := math.Floor(minutesDecimal)
	seconds := (minutesDecimal - minutes) * 60

	return DMS{
		Degrees:   int(degrees),
		Minutes:   int(minutes),
		Seconds:   seconds,
		Direction: dir,
	}
}

// NormalizeDirectionalSign reconciles a numeric value with a direction
// letter, letting the letter win: S/W force a positive value negative and
// N/E force a negative value positive.
func NormalizeDirectionalSign(value float64, dir Direction) float64 {
	switch {
	case dir.Negative() && value > 0:
		return -value
	case !dir.Negative() && value < 0:
		return math.Abs(value)
	}
	return value
}

// FormatDD renders decimal degrees with six fractional digits.
func FormatDD(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// FormatSeconds renders seconds of arc with two fractional digits.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
