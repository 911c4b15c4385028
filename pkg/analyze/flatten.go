package analyze

import (
	"dxfmetrics/pkg/cfg"
	"dxfmetrics/pkg/dxf"
	"dxfmetrics/pkg/geometry"
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kind records which entity type a point sequence came from.
type Kind string

const (
	KindLine   Kind = "line"
	KindPoly   Kind = "poly"
	KindCircle Kind = "circle"
	KindArc    Kind = "arc"
	KindSpline Kind = "spline"
)

// PointSeq is one flattened entity: an ordered run of points, already in
// millimeters, that either should form a ring (Closed) or is a free
// polyline.
type PointSeq struct {
	Closed bool
	Points geometry.Polyline
	Kind   Kind
}

// Flatten converts drawing entities into point sequences, multiplying
// every coordinate by scale so downstream stages only ever see
// millimeters. The scan is best-effort: entities that cannot be flattened
// are skipped, non-finite points are dropped, and sequences left with
// fewer than two points are discarded.
func Flatten(entities []dxf.Entity, scale float64) []PointSeq {
	var out []PointSeq
	for _, e := range entities {
		seqs, err := flattenEntity(e, scale)
		if err != nil {
			continue
		}
		for _, s := range seqs {
			s.Points = finitePoints(s.Points)
			if len(s.Points) >= 2 {
				out = append(out, s)
			}
		}
	}
	return out
}

func flattenEntity(e dxf.Entity, scale float64) ([]PointSeq, error) {
	switch e := e.(type) {
	case dxf.Line:
		pts := geometry.Polyline{e.Start.Scale(scale), e.End.Scale(scale)}
		return []PointSeq{{Points: pts, Kind: KindLine}}, nil

	case dxf.Polyline:
		pts := e.Points
		if len(pts) == 0 {
			pts = e.Vertices
		}
		if len(pts) == 0 {
			return nil, errors.New("polyline has no vertices")
		}
		closed := e.Closed || e.Flags&1 != 0
		return []PointSeq{{Closed: closed, Points: scalePoints(pts, scale), Kind: KindPoly}}, nil

	case dxf.Circle:
		pts := arcPoints(e.Center.X*scale, e.Center.Y*scale, e.Radius*scale, 0, 360)
		return []PointSeq{{Closed: true, Points: pts, Kind: KindCircle}}, nil

	case dxf.Arc:
		pts := arcPoints(e.Center.X*scale, e.Center.Y*scale, e.Radius*scale, e.StartAngle, e.EndAngle)
		return []PointSeq{{Points: pts, Kind: KindArc}}, nil

	case dxf.Spline:
		pts, err := geometry.FlattenSpline(e.Control, e.Degree, e.Knots, cfg.SplineTolerance)
		if err != nil {
			// Fall back to the raw control points as a coarse stand-in.
			pts = append(geometry.Polyline{}, e.Control...)
		}
		if len(pts) == 0 {
			return nil, errors.New("spline has no points")
		}
		scaled := scalePoints(pts, scale)
		closed := len(scaled) >= 3 &&
			scaled[0].Distance(scaled[len(scaled)-1]) < cfg.CoincidentDistance
		return []PointSeq{{Closed: closed, Points: scaled, Kind: KindSpline}}, nil
	}

	// Unsupported entity types produce nothing; the scan is lenient.
	return nil, nil
}

// arcPoints tessellates the arc swept counterclockwise from startDeg to
// endDeg. An end angle below the start wraps around through 360, so an arc
// from 350 to 10 sweeps 20 degrees, not -340. The sample count is the
// circle density prorated by the swept angle.
func arcPoints(cx, cy, r, startDeg, endDeg float64) geometry.Polyline {
	sa := startDeg * math.Pi / 180
	ea := endDeg * math.Pi / 180
	if ea < sa {
		ea += 2 * math.Pi
	}

	n := int(math.Round(float64(cfg.CirclePoints) * (ea - sa) / (2 * math.Pi)))
	if n < cfg.MinArcPoints {
		n = cfg.MinArcPoints
	}

	angles := floats.Span(make([]float64, n), sa, ea)
	pts := make(geometry.Polyline, 0, n)
	for _, a := range angles {
		pts = append(pts, geometry.Point{
			X: cx + r*math.Cos(a),
			Y: cy + r*math.Sin(a),
		})
	}
	return pts
}

func scalePoints(pts []geometry.Point, scale float64) geometry.Polyline {
	out := make(geometry.Polyline, len(pts))
	for i, p := range pts {
		out[i] = p.Scale(scale)
	}
	return out
}

func finitePoints(pts geometry.Polyline) geometry.Polyline {
	var out geometry.Polyline
	for _, p := range pts {
		if isFinite(p.X) && isFinite(p.Y) {
			out = append(out, p)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
