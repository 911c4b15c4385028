// Package dxf reads the subset of the DXF drawing-exchange format needed
// for geometry analysis: the $INSUNITS header variable and the 2D entities
// of the ENTITIES section. Everything else in the file is skipped.
package dxf

import "dxfmetrics/pkg/geometry"

// Document is the parsed drawing: its declared unit code and the entities
// found in the ENTITIES section, in file order.
type Document struct {
	// InsUnits is the $INSUNITS header value. HasInsUnits reports whether
	// the header declared it at all; a missing code is not the same as 0.
	InsUnits    int
	HasInsUnits bool

	Entities []Entity
}

// Entity is one drawing primitive. The concrete types below cover the
// entity types the analyzer understands; anything else is surfaced as
// Unknown so callers can skip it deliberately.
type Entity interface {
	EntityType() string
}

// Line is a straight segment between two endpoints.
type Line struct {
	Start geometry.Point
	End   geometry.Point
}

func (Line) EntityType() string { return "LINE" }

// Polyline covers both LWPOLYLINE and the legacy POLYLINE entity. An
// LWPOLYLINE carries its vertices inline and fills Points; a POLYLINE
// carries them as separate VERTEX entities, collected into Vertices. The
// two fields are the primary and the alternate vertex-access path.
type Polyline struct {
	Points   []geometry.Point
	Vertices []geometry.Point
	Flags    int
	Closed   bool
}

func (Polyline) EntityType() string { return "POLYLINE" }

// Circle is a full circle.
type Circle struct {
	Center geometry.Point
	Radius float64
}

func (Circle) EntityType() string { return "CIRCLE" }

// Arc is a circular arc swept counterclockwise from StartAngle to
// EndAngle, both in degrees.
type Arc struct {
	Center     geometry.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (Arc) EntityType() string { return "ARC" }

// Spline is a B-spline given by its control points. Knots may be empty;
// consumers synthesize a knot vector in that case.
type Spline struct {
	Control []geometry.Point
	Degree  int
	Knots   []float64
	Flags   int
}

func (Spline) EntityType() string { return "SPLINE" }

// Unknown is any entity type this package does not model, and also any
// modeled entity whose numeric fields could not be parsed. It carries the
// type name for diagnostics and nothing else.
type Unknown struct {
	Type string
}

func (u Unknown) EntityType() string { return u.Type }
