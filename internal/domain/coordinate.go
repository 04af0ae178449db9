package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Hemisphere is the single-letter prefix of a coordinate token.
type Hemisphere byte

const (
	North Hemisphere = 'N'
	South Hemisphere = 'S'
	East  Hemisphere = 'E'
	West  Hemisphere = 'W'
)

// Axis identifies which half of a position an angle belongs to.
type Axis int

const (
	AxisUnknown Axis = iota
	AxisLatitude
	AxisLongitude
)

func (a Axis) String() string {
	switch a {
	case AxisLatitude:
		return "latitude"
	case AxisLongitude:
		return "longitude"
	default:
		return "unknown"
	}
}

// Field widths of the fixed-width token layout, in bytes.
const (
	hemisphereWidth = 1
	latDegreesWidth = 2 // N/S: 00-90
	lonDegreesWidth = 3 // E/W: 000-180
	minutesWidth    = 2
	secondsMinWidth = 2 // seconds run to end of token; only used when formatting
)

// sexagesimalLimit is the exclusive upper bound for minutes and seconds.
const sexagesimalLimit = 60

// secondsRe accepts whole or fractional seconds, e.g. "07" or "07.25".
var secondsRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

func (h Hemisphere) valid() bool {
	switch h {
	case North, South, East, West:
		return true
	}
	return false
}

// Sign is +1 for N and E, -1 for S and W.
func (h Hemisphere) Sign() float64 {
	if h == South || h == West {
		return -1
	}
	return 1
}

// Axis returns the axis the hemisphere letter conventionally belongs to.
func (h Hemisphere) Axis() Axis {
	switch h {
	case North, South:
		return AxisLatitude
	case East, West:
		return AxisLongitude
	default:
		return AxisUnknown
	}
}

func (h Hemisphere) degreesWidth() int {
	if h.Axis() == AxisLongitude {
		return lonDegreesWidth
	}
	return latDegreesWidth
}

// Angle is one parsed coordinate. The sign lives in Hemisphere so that a
// zero-degree southern or western angle keeps its sign.
type Angle struct {
	Hemisphere Hemisphere
	Degrees    uint
	Minutes    uint
	Seconds    float64
}

// SignedDegrees returns the whole-degree component carrying the hemisphere sign.
// It is zero for zero degrees in any hemisphere; use Decimal for the signed value.
func (a Angle) SignedDegrees() int {
	return int(a.Hemisphere.Sign()) * int(a.Degrees)
}

// Decimal converts the angle to signed decimal degrees.
func (a Angle) Decimal() float64 {
	magnitude := float64(a.Degrees) + float64(a.Minutes)/60 + a.Seconds/3600
	return math.Copysign(magnitude, a.Hemisphere.Sign())
}

// String formats the angle back into its fixed-width token form.
func (a Angle) String() string {
	var b strings.Builder
	b.WriteByte(byte(a.Hemisphere))
	b.WriteString(zeroPad(strconv.FormatUint(uint64(a.Degrees), 10), a.Hemisphere.degreesWidth()))
	b.WriteString(zeroPad(strconv.FormatUint(uint64(a.Minutes), 10), minutesWidth))
	sec := strconv.FormatFloat(a.Seconds, 'f', -1, 64)
	whole, _, _ := strings.Cut(sec, ".")
	b.WriteString(strings.Repeat("0", max(0, secondsMinWidth-len(whole))))
	b.WriteString(sec)
	return b.String()
}

// ParseCoordinate parses a hemisphere-prefixed token such as "N523000" or
// "W0174530.5". N/S tokens carry two degree digits and E/W tokens three;
// minutes are always two digits and seconds take the remainder.
func ParseCoordinate(token string) (Angle, error) {
	if token == "" {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldHemisphere}
	}
	h := Hemisphere(token[0])
	if !h.valid() {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldHemisphere}
	}

	degStart := hemisphereWidth
	degEnd := degStart + h.degreesWidth()
	minEnd := degEnd + minutesWidth

	deg, err := parseDigits(token, degStart, degEnd)
	if err != nil {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldDegrees, Err: err}
	}

	minutes, err := parseDigits(token, degEnd, minEnd)
	if err != nil {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldMinutes, Err: err}
	}
	if minutes >= sexagesimalLimit {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldMinutes, Err: errOutOfRange}
	}

	if len(token) <= minEnd || !secondsRe.MatchString(token[minEnd:]) {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldSeconds}
	}
	sec, err := strconv.ParseFloat(token[minEnd:], 64)
	if err != nil {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldSeconds, Err: err}
	}
	if sec >= sexagesimalLimit {
		return Angle{}, &CoordinateFormatError{Token: token, Field: FieldSeconds, Err: errOutOfRange}
	}

	return Angle{
		Hemisphere: h,
		Degrees:    uint(deg),
		Minutes:    uint(minutes),
		Seconds:    sec,
	}, nil
}

// parseDigits parses token[start:end] as an unsigned decimal made only of
// ASCII digits (strconv alone would accept a leading '+').
func parseDigits(token string, start, end int) (uint64, error) {
	if end > len(token) {
		return 0, errTruncated
	}
	field := token[start:end]
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, errNotDigits
		}
	}
	return strconv.ParseUint(field, 10, 32)
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
