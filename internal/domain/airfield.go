package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RawAirfield is one Airfield element as extracted from the source document,
// before any parsing.
type RawAirfield struct {
	Index     int     // zero-based position among Airfield elements
	Line      int     // source line of the element, 0 if unknown
	Name      string  // Name attribute
	Position  string  // Position attribute, e.g. "N523000 E0174530"
	Elevation *string // Elevation attribute; nil when absent
}

// Validate reports a missing Name or Position attribute.
func (r RawAirfield) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w %q", ErrMissingAttribute, "Name")
	}
	if r.Position == "" {
		return fmt.Errorf("%w %q", ErrMissingAttribute, "Position")
	}
	return nil
}

// ParseElevation returns the elevation attribute as a number. ok is false
// when the attribute is present but not numeric; value is nil in both the
// absent and the unparsable case.
func (r RawAirfield) ParseElevation() (value *float64, ok bool) {
	if r.Elevation == nil {
		return nil, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*r.Elevation), 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}
