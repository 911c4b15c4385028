package geometry

import (
	"errors"
)

// maxSplineSplitDepth bounds the adaptive refinement; 2^20 segments per
// knot span is far beyond any sane tolerance.
const maxSplineSplitDepth = 20

// FlattenSpline approximates a B-spline by a polyline whose chordal error
// stays within tol. The control points and degree come straight from the
// drawing entity; if the knot vector is missing or has the wrong length, a
// clamped uniform one is synthesized. Callers are expected to fall back to
// the raw control points when an error is returned.
func FlattenSpline(control []Point, degree int, knots []float64, tol float64) (Polyline, error) {
	if len(control) < 2 {
		return nil, errors.New("spline needs at least two control points")
	}
	if tol <= 0 {
		return nil, errors.New("tolerance must be positive")
	}
	if degree <= 0 {
		degree = 3
	}
	if degree >= len(control) {
		degree = len(control) - 1
	}
	if len(knots) != len(control)+degree+1 {
		knots = clampedKnots(len(control), degree)
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			return nil, errors.New("knot vector is not nondecreasing")
		}
	}

	lo := knots[degree]
	hi := knots[len(control)]
	if hi <= lo {
		return nil, errors.New("empty spline domain")
	}

	out := Polyline{deBoor(control, degree, knots, lo)}
	var split func(ua, ub float64, pa, pb Point, depth int)
	split = func(ua, ub float64, pa, pb Point, depth int) {
		um := 0.5 * (ua + ub)
		pm := deBoor(control, degree, knots, um)
		if depth <= 0 || (LineSegment{A: pa, B: pb}).Distance(pm) <= tol {
			out = append(out, pb)
			return
		}
		split(ua, um, pa, pm, depth-1)
		split(um, ub, pm, pb, depth-1)
	}

	// Seed the refinement with one segment per nonempty knot span, so that
	// a span whose midpoint happens to sit on the chord can't hide a bend.
	prevU := lo
	prevP := out[0]
	for i := degree + 1; i <= len(control); i++ {
		u := knots[i]
		if u <= prevU {
			continue
		}
		p := deBoor(control, degree, knots, u)
		split(prevU, u, prevP, p, maxSplineSplitDepth)
		prevU, prevP = u, p
	}
	return out, nil
}

// clampedKnots builds the standard clamped uniform knot vector for n
// control points of the given degree.
func clampedKnots(n, degree int) []float64 {
	knots := make([]float64, n+degree+1)
	spans := n - degree
	for i := range knots {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= n:
			knots[i] = 1
		default:
			knots[i] = float64(i-degree) / float64(spans)
		}
	}
	return knots
}

// deBoor evaluates the B-spline at parameter u.
func deBoor(control []Point, degree int, knots []float64, u float64) Point {
	// Find the knot span k with knots[k] <= u < knots[k+1], clamping to the
	// last span so u == domain end evaluates at the final control point.
	k := degree
	for k < len(control)-1 && u >= knots[k+1] {
		k++
	}

	d := make([]Point, degree+1)
	copy(d, control[k-degree:k+1])
	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			i := k - degree + j
			den := knots[i+degree-r+1] - knots[i]
			alpha := 0.0
			if den != 0 {
				alpha = (u - knots[i]) / den
			}
			d[j] = Point{
				X: (1-alpha)*d[j-1].X + alpha*d[j].X,
				Y: (1-alpha)*d[j-1].Y + alpha*d[j].Y,
			}
		}
	}
	return d[degree]
}
