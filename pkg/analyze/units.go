package analyze

// unitFactors maps DXF $INSUNITS codes to millimeters per drawing unit.
// Only the codes that show up in real cutting drawings are listed.
var unitFactors = map[int]float64{
	1: 25.4,   // inches
	2: 304.8,  // feet
	4: 1.0,    // millimeters
	5: 10.0,   // centimeters
	6: 1000.0, // meters
}

// UnitFactor resolves a drawing's declared unit code to a millimeter scale
// factor. Unknown codes, and drawings that never declare one (ok=false),
// are treated as already being in millimeters. Never fails.
func UnitFactor(code int, ok bool) float64 {
	if !ok {
		return 1.0
	}
	if f, found := unitFactors[code]; found {
		return f
	}
	return 1.0
}
