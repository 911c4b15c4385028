package analyze

import (
	"dxfmetrics/pkg/geometry"

	"github.com/peterstace/simplefeatures/geom"
)

// Metrics reduces the assembled geometry to scalar measurements: merged
// net area in mm², total cut length in mm (merged boundary plus every open
// line), and the bounding box. The merged geometry is the union of all
// polygons; with no polygons it stays the empty geometry and the bounds
// come from the open lines alone.
func Metrics(polys []Polygon, lines []geometry.Polyline) (area, length float64, bounds geometry.Rectangle, merged geom.Geometry) {
	hasGeom := false
	for _, p := range polys {
		if !hasGeom {
			merged = p.Geom
			hasGeom = true
			continue
		}
		u, err := geom.Union(merged, p.Geom)
		if err != nil {
			// A polygon the union can't digest is dropped, like any other
			// malformed piece of the drawing.
			continue
		}
		merged = u
	}

	if hasGeom {
		area = merged.Area()
		length = merged.Boundary().Length()
		if lo, hi, ok := merged.Envelope().MinMaxXYs(); ok {
			bounds = geometry.Rectangle{
				Min: geometry.Point{X: lo.X, Y: lo.Y},
				Max: geometry.Point{X: hi.X, Y: hi.Y},
			}
		}
	} else if len(lines) > 0 {
		bounds = lines[0].Bounds()
		for _, ln := range lines[1:] {
			bounds = bounds.Union(ln.Bounds())
		}
	}

	for _, ln := range lines {
		if d := ln.Length(); isFinite(d) {
			length += d
		}
	}
	return area, length, bounds, merged
}
