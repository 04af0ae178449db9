package domain

// Fixed column values used when the pipeline is not configured otherwise.
const (
	DefaultWaypointType = "Airstrip"
	DefaultRegion       = "EP"
)

// WaypointDefaults holds the literal columns every waypoint of one run shares.
// Empty Region or ImportFilename leaves that column absent.
type WaypointDefaults struct {
	Type           string
	Region         string
	ImportFilename string
}

// Waypoint is one Little Navmap userpoint row. Pointer fields are optional
// and serialize as empty when nil.
type Waypoint struct {
	Type                string   `json:"type"`
	Name                string   `json:"name"`
	Ident               string   `json:"ident"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	Elevation           *float64 `json:"elevation,omitempty"`
	MagneticDeclination *float64 `json:"magnetic_declination,omitempty"`
	Tags                *string  `json:"tags,omitempty"`
	Description         *string  `json:"description,omitempty"`
	Region              *string  `json:"region,omitempty"`
	VisibleFrom         *int     `json:"visible_from,omitempty"`
	LastEdit            *string  `json:"last_edit,omitempty"`
	ImportFilename      *string  `json:"import_filename,omitempty"`
}

// BuildWaypoint maps a parsed position and its airfield attributes onto a
// waypoint. Ident always repeats Name; elevation passes through unconverted.
func BuildWaypoint(pos Position, name string, elevation *float64, d WaypointDefaults) Waypoint {
	lat, lon := pos.Decimal()
	return Waypoint{
		Type:           d.Type,
		Name:           name,
		Ident:          name,
		Latitude:       lat,
		Longitude:      lon,
		Elevation:      elevation,
		Region:         optional(d.Region),
		ImportFilename: optional(d.ImportFilename),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
