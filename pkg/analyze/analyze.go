// Package analyze turns a DXF drawing into manufacturing metrics: net
// area, total cut length, and bounding extents, all normalized to
// millimeters regardless of the drawing's native units.
//
// The pipeline is strictly linear: resolve the unit factor, flatten every
// entity to point sequences, assemble closed sequences into polygons with
// holes by geometric containment, then merge and measure. Only an
// unreadable file fails the analysis; malformed individual entities are
// dropped along the way, so a result may legitimately contain less
// geometry than the drawing shows on screen.
package analyze

import (
	"dxfmetrics/pkg/dxf"
	"dxfmetrics/pkg/geometry"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// Result is the aggregate of one drawing analysis. Coordinates inside the
// geometry fields are millimeters; the scalar fields carry the estimating
// units. Results are handed out once and never mutated afterwards; callers
// must treat them as read-only.
type Result struct {
	Path        string  `json:"path"`
	ScaleFactor float64 `json:"scale_factor"`
	AreaCm2     float64 `json:"area_cm2"`
	LengthM     float64 `json:"length_m"`
	WidthMm     float64 `json:"width_mm"`
	HeightMm    float64 `json:"height_mm"`

	// Geometry is the merged union of all polygons, empty when the drawing
	// had no closed contours. Polygons and OpenLines are the assembled
	// pieces it was built from, for rendering.
	Geometry  geom.Geometry       `json:"-"`
	Polygons  []Polygon           `json:"-"`
	OpenLines []geometry.Polyline `json:"-"`
}

// Analyze reads the DXF file at path and derives its metrics. The only
// fatal failure is a container that cannot be read at all; everything else
// degrades per entity.
func Analyze(path string) (*Result, error) {
	doc, err := dxf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	factor := UnitFactor(doc.InsUnits, doc.HasInsUnits)
	seqs := Flatten(doc.Entities, factor)
	polys, lines := Assemble(seqs)
	area, length, bounds, merged := Metrics(polys, lines)

	return &Result{
		Path:        path,
		ScaleFactor: factor,
		AreaCm2:     area / 100,
		LengthM:     length / 1000,
		WidthMm:     bounds.Width(),
		HeightMm:    bounds.Height(),
		Geometry:    merged,
		Polygons:    polys,
		OpenLines:   lines,
	}, nil
}
