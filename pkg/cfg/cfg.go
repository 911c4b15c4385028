package cfg

// CirclePoints is the tessellation density for curved entities: a full
// circle is sampled with this many points, and arcs get a share of it
// proportional to their swept angle.
var CirclePoints = 120

// MinArcPoints is the floor on arc tessellation, so that even tiny arcs
// keep some shape instead of collapsing to a chord.
var MinArcPoints = 4

// SplineTolerance is the chordal tolerance for spline flattening, in
// drawing units. It is applied before unit scaling, so a drawing in inches
// flattens more coarsely in absolute terms than one in millimeters - the
// same trade-off the fixed circle density makes.
var SplineTolerance = 0.5

// MinRingArea is the noise threshold in mm². Closed contours enclosing
// less area than this are zero-width or self-crossing artifacts and are
// dropped without being reported.
var MinRingArea = 1e-6

// CoincidentDistance is the distance in mm under which two points are
// considered the same point, e.g. when deciding whether a spline ends
// where it started.
var CoincidentDistance = 1e-6
