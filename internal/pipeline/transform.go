package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
)

// AirfieldTransformer implements Transformer by parsing the airfield position
// and mapping it onto a userpoint with the run's fixed column values.
type AirfieldTransformer struct {
	defaults  domain.WaypointDefaults
	axisCheck bool
	logger    *slog.Logger
}

// NewTransformer creates an AirfieldTransformer. When axisCheck is set, a
// position must list N/S before E/W.
func NewTransformer(defaults domain.WaypointDefaults, axisCheck bool, logger *slog.Logger) *AirfieldTransformer {
	return &AirfieldTransformer{
		defaults:  defaults,
		axisCheck: axisCheck,
		logger:    logger,
	}
}

func (t *AirfieldTransformer) Transform(_ context.Context, raw domain.RawAirfield) (domain.Waypoint, error) {
	if err := raw.Validate(); err != nil {
		return domain.Waypoint{}, err
	}

	pos, err := domain.ParsePosition(raw.Position)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("parse position: %w", err)
	}
	if t.axisCheck {
		if err := pos.CheckAxes(); err != nil {
			return domain.Waypoint{}, fmt.Errorf("check axes: %w", err)
		}
	}

	elevation, ok := raw.ParseElevation()
	if !ok {
		t.logger.Debug("ignoring unparsable elevation",
			"name", raw.Name,
			"line", raw.Line,
			"elevation", *raw.Elevation,
		)
	}

	return domain.BuildWaypoint(pos, raw.Name, elevation, t.defaults), nil
}
