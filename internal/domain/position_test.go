package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition("N523000 E0174530")
	require.NoError(t, err)

	assert.Equal(t, Angle{Hemisphere: North, Degrees: 52, Minutes: 30}, pos.Lat)
	assert.Equal(t, Angle{Hemisphere: East, Degrees: 17, Minutes: 45, Seconds: 30}, pos.Lon)

	lat, lon := pos.Decimal()
	assert.InDelta(t, 52.5, lat, 1e-9)
	assert.InDelta(t, 17.758333, lon, 1e-6)
}

func TestParsePosition_TrimsOuterWhitespace(t *testing.T) {
	pos, err := ParsePosition("  S335200 W0702400\n")
	require.NoError(t, err)
	lat, lon := pos.Decimal()
	assert.InDelta(t, -33.866667, lat, 1e-6)
	assert.InDelta(t, -70.4, lon, 1e-9)
}

func TestParsePosition_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		axis      Axis
		cause     error
		coordPart string // expected CoordinateFormatError.Field, empty when none
	}{
		{"bad latitude hemisphere", "X523000 E0174530", AxisLatitude, ErrMalformedCoordinate, FieldHemisphere},
		{"bad longitude hemisphere", "N523000 X0174530", AxisLongitude, ErrMalformedCoordinate, FieldHemisphere},
		{"no separator", "N523000E0174530", AxisUnknown, ErrNoSeparator, ""},
		{"empty", "", AxisUnknown, ErrNoSeparator, ""},
		{"double space", "N523000  E0174530", AxisLongitude, ErrMalformedCoordinate, FieldHemisphere},
		{"truncated longitude", "N523000 E01745", AxisLongitude, ErrMalformedCoordinate, FieldSeconds},
		{"bad latitude minutes", "N527500 E0174530", AxisLatitude, ErrMalformedCoordinate, FieldMinutes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePosition(tt.token)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedPosition)
			require.ErrorIs(t, err, tt.cause)

			var perr *PositionFormatError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.token, perr.Token)
			assert.Equal(t, tt.axis, perr.Axis)

			var cerr *CoordinateFormatError
			if tt.coordPart == "" {
				assert.NotErrorAs(t, err, &cerr)
				return
			}
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.coordPart, cerr.Field)
		})
	}
}

func TestParsePosition_AcceptsAnyHemisphereOrder(t *testing.T) {
	pos, err := ParsePosition("E0174530 N523000")
	require.NoError(t, err)
	assert.Equal(t, East, pos.Lat.Hemisphere)
	assert.Equal(t, North, pos.Lon.Hemisphere)
}

func TestPosition_CheckAxes(t *testing.T) {
	tests := []struct {
		name  string
		token string
		axis  Axis // AxisUnknown means no error expected
	}{
		{"north east", "N523000 E0174530", AxisUnknown},
		{"south west", "S335200 W0702400", AxisUnknown},
		{"swapped", "E0174530 N523000", AxisLatitude},
		{"two latitudes", "N523000 S523000", AxisLongitude},
		{"two longitudes", "W0174530 E0174530", AxisLatitude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ParsePosition(tt.token)
			require.NoError(t, err)

			err = pos.CheckAxes()
			if tt.axis == AxisUnknown {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrAxisMismatch)
			require.ErrorIs(t, err, ErrMalformedPosition)
			var perr *PositionFormatError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.axis, perr.Axis)
		})
	}
}

func TestPosition_String(t *testing.T) {
	pos, err := ParsePosition("N523000 E0174530.5")
	require.NoError(t, err)
	assert.Equal(t, "N523000 E0174530.5", pos.String())
}
