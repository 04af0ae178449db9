package domain

import (
	"fmt"
	"strings"
)

// Position is a parsed "latitude longitude" pair.
type Position struct {
	Lat Angle
	Lon Angle
}

// ParsePosition splits token on its first space and parses each half with
// ParseCoordinate. Hemisphere letters are not checked against their axis;
// call CheckAxes for that.
func ParsePosition(token string) (Position, error) {
	trimmed := strings.TrimSpace(token)
	latToken, lonToken, ok := strings.Cut(trimmed, " ")
	if !ok {
		return Position{}, &PositionFormatError{Token: token, Err: ErrNoSeparator}
	}

	lat, err := ParseCoordinate(latToken)
	if err != nil {
		return Position{}, &PositionFormatError{Token: token, Axis: AxisLatitude, Err: err}
	}
	lon, err := ParseCoordinate(lonToken)
	if err != nil {
		return Position{}, &PositionFormatError{Token: token, Axis: AxisLongitude, Err: err}
	}
	return Position{Lat: lat, Lon: lon}, nil
}

// CheckAxes reports an error unless the latitude uses N/S and the longitude E/W.
func (p Position) CheckAxes() error {
	if p.Lat.Hemisphere.Axis() != AxisLatitude {
		return &PositionFormatError{
			Token: p.String(),
			Axis:  AxisLatitude,
			Err:   fmt.Errorf("%w: got %c", ErrAxisMismatch, p.Lat.Hemisphere),
		}
	}
	if p.Lon.Hemisphere.Axis() != AxisLongitude {
		return &PositionFormatError{
			Token: p.String(),
			Axis:  AxisLongitude,
			Err:   fmt.Errorf("%w: got %c", ErrAxisMismatch, p.Lon.Hemisphere),
		}
	}
	return nil
}

// Decimal returns latitude and longitude in signed decimal degrees.
func (p Position) Decimal() (lat, lon float64) {
	return p.Lat.Decimal(), p.Lon.Decimal()
}

func (p Position) String() string {
	return p.Lat.String() + " " + p.Lon.String()
}
