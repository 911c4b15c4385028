package analyze

import "testing"

func TestUnitFactor(t *testing.T) {
	tests := []struct {
		code int
		ok   bool
		want float64
	}{
		{1, true, 25.4},
		{2, true, 304.8},
		{4, true, 1.0},
		{5, true, 10.0},
		{6, true, 1000.0},
		{0, true, 1.0},   // "unitless" drawings pass through
		{3, true, 1.0},   // miles, not in the table
		{99, true, 1.0},  // garbage code
		{4, false, 1.0},  // header never declared units
	}
	for i, test := range tests {
		got := UnitFactor(test.code, test.ok)
		if got != test.want {
			t.Errorf("Test %d - UnitFactor(%d, %v) = %v, want %v",
				i, test.code, test.ok, got, test.want)
		}
	}
}
