package analyze

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeDXF assembles a minimal DXF file with the given unit code and
// entity tags, and writes it into the test's temp dir.
func writeDXF(t *testing.T, units int, entityTags ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("0\nSECTION\n2\nHEADER\n")
	if units >= 0 {
		fmt.Fprintf(&b, "9\n$INSUNITS\n70\n%d\n", units)
	}
	b.WriteString("0\nENDSEC\n")
	b.WriteString("0\nSECTION\n2\nENTITIES\n")
	for _, tag := range entityTags {
		b.WriteString(tag)
		b.WriteString("\n")
	}
	b.WriteString("0\nENDSEC\n0\nEOF\n")

	path := filepath.Join(t.TempDir(), "drawing.dxf")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write fixture: %s", err)
	}
	return path
}

var squareTags = []string{
	"0", "LWPOLYLINE",
	"90", "4",
	"70", "1",
	"10", "0", "20", "0",
	"10", "100", "20", "0",
	"10", "100", "20", "100",
	"10", "0", "20", "100",
}

func TestAnalyzeSquareMillimeters(t *testing.T) {
	path := writeDXF(t, 4, squareTags...)
	r, err := Analyze(path)
	if err != nil {
		t.Fatalf("Analyze error: %s", err)
	}

	if r.ScaleFactor != 1.0 {
		t.Errorf("ScaleFactor = %v, want 1", r.ScaleFactor)
	}
	if math.Abs(r.AreaCm2-100) > 1e-6 {
		t.Errorf("AreaCm2 = %v, want 100", r.AreaCm2)
	}
	if math.Abs(r.LengthM-0.4) > 1e-6 {
		t.Errorf("LengthM = %v, want 0.4", r.LengthM)
	}
	if r.WidthMm != 100 || r.HeightMm != 100 {
		t.Errorf("size = %v x %v mm, want 100 x 100", r.WidthMm, r.HeightMm)
	}
	if len(r.Polygons) != 1 || len(r.OpenLines) != 0 {
		t.Errorf("got %d polygons and %d open lines, want 1 and 0", len(r.Polygons), len(r.OpenLines))
	}
}

func TestAnalyzeSquareInches(t *testing.T) {
	// Same square declared in inches: coordinates scale by 25.4 before any
	// geometry work happens.
	path := writeDXF(t, 1, squareTags...)
	r, err := Analyze(path)
	if err != nil {
		t.Fatalf("Analyze error: %s", err)
	}

	if r.ScaleFactor != 25.4 {
		t.Errorf("ScaleFactor = %v, want 25.4", r.ScaleFactor)
	}
	wantArea := 2540.0 * 2540.0 / 100 // (100 in × 25.4)² mm² in cm²
	if math.Abs(r.AreaCm2-wantArea) > 1e-6 {
		t.Errorf("AreaCm2 = %v, want %v", r.AreaCm2, wantArea)
	}
	if r.WidthMm != 2540 || r.HeightMm != 2540 {
		t.Errorf("size = %v x %v mm, want 2540 x 2540", r.WidthMm, r.HeightMm)
	}
}

func TestAnalyzeOpenSegment(t *testing.T) {
	path := writeDXF(t, 4,
		"0", "LINE",
		"10", "0", "20", "0",
		"11", "3", "21", "4",
	)
	r, err := Analyze(path)
	if err != nil {
		t.Fatalf("Analyze error: %s", err)
	}

	if r.AreaCm2 != 0 {
		t.Errorf("AreaCm2 = %v, want 0", r.AreaCm2)
	}
	if math.Abs(r.LengthM-0.005) > 1e-9 {
		t.Errorf("LengthM = %v, want 0.005", r.LengthM)
	}
	if r.WidthMm != 3 || r.HeightMm != 4 {
		t.Errorf("size = %v x %v mm, want 3 x 4", r.WidthMm, r.HeightMm)
	}
	if !r.Geometry.IsEmpty() {
		t.Errorf("merged geometry should be empty for a lone segment")
	}
}

func TestAnalyzeUnsupportedEntity(t *testing.T) {
	// A TEXT entity is skipped; the valid segment still comes through and
	// nothing fails.
	path := writeDXF(t, 4,
		"0", "TEXT",
		"10", "5", "20", "5",
		"1", "label",
		"0", "LINE",
		"10", "0", "20", "0",
		"11", "3", "21", "4",
	)
	r, err := Analyze(path)
	if err != nil {
		t.Fatalf("Analyze error: %s", err)
	}
	if len(r.OpenLines) != 1 {
		t.Fatalf("got %d open lines, want 1", len(r.OpenLines))
	}
	if math.Abs(r.LengthM-0.005) > 1e-9 {
		t.Errorf("LengthM = %v, want 0.005", r.LengthM)
	}
}

func TestAnalyzeNoUnitsHeader(t *testing.T) {
	path := writeDXF(t, -1,
		"0", "LINE",
		"10", "0", "20", "0",
		"11", "10", "21", "0",
	)
	r, err := Analyze(path)
	if err != nil {
		t.Fatalf("Analyze error: %s", err)
	}
	if r.ScaleFactor != 1.0 {
		t.Errorf("ScaleFactor = %v, want 1 for a drawing without $INSUNITS", r.ScaleFactor)
	}
}

func TestAnalyzeCircle(t *testing.T) {
	path := writeDXF(t, 4,
		"0", "CIRCLE",
		"10", "0", "20", "0",
		"40", "50",
	)
	r, err := Analyze(path)
	if err != nil {
		t.Fatalf("Analyze error: %s", err)
	}

	// The 120-gon slightly underestimates the true circle.
	wantArea := math.Pi * 50 * 50 / 100
	if math.Abs(r.AreaCm2-wantArea) > wantArea*0.01 {
		t.Errorf("AreaCm2 = %v, want about %v", r.AreaCm2, wantArea)
	}
	wantLength := 2 * math.Pi * 50 / 1000
	if math.Abs(r.LengthM-wantLength) > wantLength*0.01 {
		t.Errorf("LengthM = %v, want about %v", r.LengthM, wantLength)
	}
	if math.Abs(r.WidthMm-100) > 0.1 || math.Abs(r.HeightMm-100) > 0.1 {
		t.Errorf("size = %v x %v mm, want about 100 x 100", r.WidthMm, r.HeightMm)
	}
}

func TestAnalyzeWasherDrawing(t *testing.T) {
	// A washer: outer circle with a concentric bore. One polygon, one
	// hole, and the bore's circumference counts toward the cut length.
	path := writeDXF(t, 4,
		"0", "CIRCLE",
		"10", "0", "20", "0",
		"40", "50",
		"0", "CIRCLE",
		"10", "0", "20", "0",
		"40", "20",
	)
	r, err := Analyze(path)
	if err != nil {
		t.Fatalf("Analyze error: %s", err)
	}
	if len(r.Polygons) != 1 {
		t.Fatalf("got %d polygons, want 1", len(r.Polygons))
	}
	if len(r.Polygons[0].Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(r.Polygons[0].Holes))
	}

	wantArea := math.Pi * (50*50 - 20*20) / 100
	if math.Abs(r.AreaCm2-wantArea) > wantArea*0.01 {
		t.Errorf("AreaCm2 = %v, want about %v", r.AreaCm2, wantArea)
	}
}

func TestAnalyzeUnreadableFile(t *testing.T) {
	if _, err := Analyze(filepath.Join(t.TempDir(), "missing.dxf")); err == nil {
		t.Errorf("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.dxf")
	if err := os.WriteFile(path, []byte("0\nSECTION\n2\n"), 0644); err != nil {
		t.Fatalf("write fixture: %s", err)
	}
	if _, err := Analyze(path); err == nil {
		t.Errorf("expected an error for a truncated tag stream")
	}
}
