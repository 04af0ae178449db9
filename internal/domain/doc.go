// Package domain models SkyDemon airfield records and their conversion to
// Little Navmap userpoints.
//
// # Position Format
//
// SkyDemon writes an airfield position as two fixed-width tokens separated by
// a single space:
//
//	"N523000 E0174530"  →  52°30'00" N, 17°45'30" E
//
// Each token starts with a hemisphere letter, followed by degrees, two digits
// of minutes, and seconds running to the end of the token:
//
//	N/S: letter + DD  + MM + SS[.s…]   (latitude, 2 degree digits)
//	E/W: letter + DDD + MM + SS[.s…]   (longitude, 3 degree digits)
//
// Minutes and seconds must be below 60. Degrees are not range checked.
//
// # Sign Convention
//
// N and E are positive, S and W negative. The sign is kept with the
// hemisphere rather than folded into the degrees, so "S000030" converts to
// -0.008333 instead of silently losing its sign. See [Angle.Decimal].
//
// # Axis Agreement
//
// [ParsePosition] accepts any hemisphere letter in either half. Callers that
// want N/S first and E/W second call [Position.CheckAxes].
//
// # Output
//
// A [Waypoint] is one row of the Little Navmap userpoints CSV. Name doubles as
// Ident, and Type, Region and Import Filename are fixed per run through
// [WaypointDefaults]. The remaining descriptive columns are left empty.
package domain
