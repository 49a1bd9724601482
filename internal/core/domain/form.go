package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/geopin/internal/pkg/geospatial"
)

// CoordinateMode selects which half of the entry form is active.
type CoordinateMode string

const (
	ModeDD  CoordinateMode = "DD"
	ModeDMS CoordinateMode = "DMS"
)

// ParseMode accepts dd/dms in any case.
func ParseMode(s string) (CoordinateMode, error) {
	switch CoordinateMode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeDD:
		return ModeDD, nil
	case ModeDMS:
		return ModeDMS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// FormState is the coordinate entry form. Numeric fields hold the raw text
// the user typed; the two direction selectors are shared by both modes.
// Every method returns a new value and leaves the receiver untouched.
type FormState struct {
	Mode CoordinateMode `json:"mode"`

	LatDD string `json:"lat_dd"`
	LonDD string `json:"lon_dd"`

	LatDegrees string `json:"lat_degrees"`
	LatMinutes string `json:"lat_minutes"`
	LatSeconds string `json:"lat_seconds"`
	LonDegrees string `json:"lon_degrees"`
	LonMinutes string `json:"lon_minutes"`
	LonSeconds string `json:"lon_seconds"`

	LatDirection geospatial.Direction `json:"lat_direction"`
	LonDirection geospatial.Direction `json:"lon_direction"`
}

// NewFormState returns an empty DD form pointing north-east.
func NewFormState() FormState {
	return FormState{
		Mode:         ModeDD,
		LatDirection: geospatial.North,
		LonDirection: geospatial.East,
	}
}

// FormPatch carries the fields a client wants to overwrite. Nil means keep.
type FormPatch struct {
	LatDD *string `json:"lat_dd,omitempty"`
	LonDD *string `json:"lon_dd,omitempty"`

	LatDegrees *string `json:"lat_degrees,omitempty"`
	LatMinutes *string `json:"lat_minutes,omitempty"`
	LatSeconds *string `json:"lat_seconds,omitempty"`
	LonDegrees *string `json:"lon_degrees,omitempty"`
	LonMinutes *string `json:"lon_minutes,omitempty"`
	LonSeconds *string `json:"lon_seconds,omitempty"`

	LatDirection *string `json:"lat_direction,omitempty"`
	LonDirection *string `json:"lon_direction,omitempty"`
}

// WithMode switches the active mode. Field contents are kept.
func (f FormState) WithMode(mode CoordinateMode) (FormState, error) {
	if mode != ModeDD && mode != ModeDMS {
		return f, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	f.Mode = mode
	return f, nil
}

// WithFields applies a patch. A direction letter that does not belong to
// its axis rejects the whole patch.
func (f FormState) WithFields(p FormPatch) (FormState, error) {
	if p.LatDirection != nil {
		d, err := parseAxisDirection(*p.LatDirection, geospatial.Latitude)
		if err != nil {
			return f, err
		}
		f.LatDirection = d
	}
	if p.LonDirection != nil {
		d, err := parseAxisDirection(*p.LonDirection, geospatial.Longitude)
		if err != nil {
			return f, err
		}
		f.LonDirection = d
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.LatDD, p.LatDD)
	set(&f.LonDD, p.LonDD)
	set(&f.LatDegrees, p.LatDegrees)
	set(&f.LatMinutes, p.LatMinutes)
	set(&f.LatSeconds, p.LatSeconds)
	set(&f.LonDegrees, p.LonDegrees)
	set(&f.LonMinutes, p.LonMinutes)
	set(&f.LonSeconds, p.LonSeconds)
	return f, nil
}

// ConvertDMSToDD fills the DD fields from the DMS fields and switches to DD.
// Blank or unreadable DMS fields count as zero. The DD fields receive the
// absolute values; the direction selectors carry the sign.
func (f FormState) ConvertDMSToDD() FormState {
	lat := geospatial.DMSToDD(lenientFloat(f.LatDegrees), lenientFloat(f.LatMinutes), lenientFloat(f.LatSeconds), f.LatDirection)
	lon := geospatial.DMSToDD(lenientFloat(f.LonDegrees), lenientFloat(f.LonMinutes), lenientFloat(f.LonSeconds), f.LonDirection)

	f.LatDD = geospatial.FormatDD(math.Abs(lat))
	f.LonDD = geospatial.FormatDD(math.Abs(lon))
	f.Mode = ModeDD
	return f
}

// ConvertDDToDMS fills the DMS fields from the DD fields and switches to DMS.
// ok is false, and f is returned unchanged, when either DD field is not a number.
func (f FormState) ConvertDDToDMS() (FormState, bool) {
	lat, err := parseFloat(f.LatDD)
	if err != nil {
		return f, false
	}
	lon, err := parseFloat(f.LonDD)
	if err != nil {
		return f, false
	}

	latDMS := geospatial.DDToDMS(geospatial.NormalizeDirectionalSign(lat, f.LatDirection), true).Rounded()
	lonDMS := geospatial.DDToDMS(geospatial.NormalizeDirectionalSign(lon, f.LonDirection), false).Rounded()

	f.LatDegrees = strconv.Itoa(latDMS.Degrees)
	f.LatMinutes = strconv.Itoa(latDMS.Minutes)
	f.LatSeconds = geospatial.FormatSeconds(latDMS.Seconds)
	f.LatDirection = latDMS.Direction

	f.LonDegrees = strconv.Itoa(lonDMS.Degrees)
	f.LonMinutes = strconv.Itoa(lonDMS.Minutes)
	f.LonSeconds = geospatial.FormatSeconds(lonDMS.Seconds)
	f.LonDirection = lonDMS.Direction

	f.Mode = ModeDMS
	return f, true
}

// Clear empties every numeric field. Mode and directions are kept.
func (f FormState) Clear() FormState {
	f.LatDD, f.LonDD = "", ""
	f.LatDegrees, f.LatMinutes, f.LatSeconds = "", "", ""
	f.LonDegrees, f.LonMinutes, f.LonSeconds = "", "", ""
	return f
}

// WithClick prefills the DD half of the form from a map click.
func (f FormState) WithClick(p GeoPoint) FormState {
	f.LatDD = geospatial.FormatDD(math.Abs(p.Lat))
	f.LonDD = geospatial.FormatDD(math.Abs(p.Lon))
	f.LatDirection = geospatial.DirectionFor(p.Lat, true)
	f.LonDirection = geospatial.DirectionFor(p.Lon, false)
	f.Mode = ModeDD
	return f
}

func parseAxisDirection(s string, axis geospatial.Axis) (geospatial.Direction, error) {
	d, err := geospatial.ParseDirection(s)
	if err != nil || !d.ValidFor(axis) {
		return "", fmt.Errorf("%w: %q is not a %s direction", ErrInvalidDirection, s, axis)
	}
	return d, nil
}

// parseFloat reads a whole trimmed field as a finite number.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: value is required", ErrParse)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrParse
	}
	return v, nil
}

func lenientFloat(s string) float64 {
	v, err := parseFloat(s)
	if err != nil {
		return 0
	}
	return v
}

// ActionKind names a form reducer.
type ActionKind string

const (
	ActionSetMode   ActionKind = "set_mode"
	ActionSetFields ActionKind = "set_fields"
	ActionConvert   ActionKind = "convert"
	ActionClear     ActionKind = "clear"
	ActionClick     ActionKind = "click"
)

// FormAction is one user event against the form.
type FormAction struct {
	Kind  ActionKind     `json:"kind"`
	Mode  CoordinateMode `json:"mode,omitempty"`
	Patch FormPatch      `json:"patch,omitempty"`
	Point *GeoPoint      `json:"point,omitempty"`
}

// Apply runs the reducer named by a. For ActionConvert, converted reports
// whether the form changed; the button converts away from the active mode.
func (f FormState) Apply(a FormAction) (next FormState, converted bool, err error) {
	switch a.Kind {
	case ActionSetMode:
		next, err = f.WithMode(a.Mode)
		return next, false, err
	case ActionSetFields:
		next, err = f.WithFields(a.Patch)
		return next, false, err
	case ActionConvert:
		if f.Mode == ModeDMS {
			return f.ConvertDMSToDD(), true, nil
		}
		next, converted = f.ConvertDDToDMS()
		return next, converted, nil
	case ActionClear:
		return f.Clear(), false, nil
	case ActionClick:
		if a.Point == nil {
			return f, false, fmt.Errorf("%w: click without a point", ErrInvalidAction)
		}
		return f.WithClick(*a.Point), false, nil
	default:
		return f, false, fmt.Errorf("%w: %q", ErrInvalidAction, a.Kind)
	}
}
