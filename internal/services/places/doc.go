// Package places looks up grocery stores near a coordinate through the
// Places Nearby Search API.
//
// Radius handling follows the vendor's limits: "distance" switches to
// rank-by-distance ordering, numeric radii are capped at 50km, and anything
// unparseable falls back to the configured default. A non-OK vendor status is
// reported on the Result rather than as an error so callers can show an empty
// map with the reason.
package places
