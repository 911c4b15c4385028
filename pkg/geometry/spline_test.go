package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlattenSplineDegreeOne(t *testing.T) {
	// A degree-1 B-spline is the polyline through its control points.
	control := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 0}}
	got, err := FlattenSpline(control, 1, nil, 0.5)
	if err != nil {
		t.Fatalf("FlattenSpline error: %s", err)
	}

	opt := cmp.Comparer(func(x, y float64) bool {
		return math.Abs(x-y) < 1e-9
	})
	if diff := cmp.Diff(Polyline(control), got, opt); diff != "" {
		t.Errorf("flattened polyline incorrect: %s", diff)
	}
}

func TestFlattenSplineEndpoints(t *testing.T) {
	// Clamped splines start and end at the outer control points.
	control := []Point{{0, 0}, {25, 80}, {75, 80}, {100, 0}}
	got, err := FlattenSpline(control, 3, nil, 0.5)
	if err != nil {
		t.Fatalf("FlattenSpline error: %s", err)
	}
	if len(got) < 4 {
		t.Fatalf("expected the curve to be refined, got %d points", len(got))
	}
	if got[0].Distance(control[0]) > 1e-9 {
		t.Errorf("first point %v, want %v", got[0], control[0])
	}
	if got[len(got)-1].Distance(control[3]) > 1e-9 {
		t.Errorf("last point %v, want %v", got[len(got)-1], control[3])
	}
}

func TestFlattenSplineTolerance(t *testing.T) {
	control := []Point{{0, 0}, {20, 120}, {80, -40}, {100, 50}}
	tol := 0.5

	coarse, err := FlattenSpline(control, 3, nil, tol)
	if err != nil {
		t.Fatalf("FlattenSpline error: %s", err)
	}
	// A near-exact reference rendering of the same curve.
	dense, err := FlattenSpline(control, 3, nil, 0.001)
	if err != nil {
		t.Fatalf("FlattenSpline reference error: %s", err)
	}

	// Every point of the reference must lie close to the coarse polyline.
	// The adaptive split tests midpoints only, so allow a little slack
	// beyond the nominal tolerance.
	for _, p := range dense {
		best := math.Inf(1)
		for i := 1; i < len(coarse); i++ {
			seg := LineSegment{A: coarse[i-1], B: coarse[i]}
			best = math.Min(best, seg.Distance(p))
		}
		if best > tol*1.5 {
			t.Fatalf("point %v is %v from the flattened curve, tolerance %v", p, best, tol)
		}
	}
}

func TestFlattenSplineErrors(t *testing.T) {
	if _, err := FlattenSpline([]Point{{1, 2}}, 3, nil, 0.5); err == nil {
		t.Errorf("expected error for a single control point")
	}
	if _, err := FlattenSpline([]Point{{0, 0}, {1, 1}, {2, 0}}, 2, []float64{0, 0, 0, 1, 0.5, 1}, 0.5); err == nil {
		t.Errorf("expected error for a decreasing knot vector")
	}
	if _, err := FlattenSpline([]Point{{0, 0}, {1, 1}}, 1, nil, 0); err == nil {
		t.Errorf("expected error for a zero tolerance")
	}
}
