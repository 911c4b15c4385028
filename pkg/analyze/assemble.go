package analyze

import (
	"dxfmetrics/pkg/cfg"
	"dxfmetrics/pkg/geometry"
	"sort"

	"github.com/asim/quadtree"
	"github.com/peterstace/simplefeatures/geom"
)

// Polygon is one outer boundary plus the boundaries of every ring nested
// inside it, at any depth. Intermediate nesting levels are flattened: a
// ring two levels down becomes a hole of the top-level outer directly.
// Geom is the simplefeatures polygon used for metric computations; when
// the holes cannot be combined into a valid polygon it degrades to the
// bare outer ring.
type Polygon struct {
	Outer geometry.Polyline
	Holes []geometry.Polyline
	Geom  geom.Geometry
}

// ring is a validated simple closed boundary with its absolute area.
type ring struct {
	pts  geometry.Polyline
	g    geom.Geometry
	area float64
}

// Assemble partitions flattened sequences into polygons-with-holes and
// free polylines. Closed sequences that fail ring validation or enclose
// no meaningful area are treated as noise and dropped silently.
func Assemble(seqs []PointSeq) ([]Polygon, []geometry.Polyline) {
	var rings []ring
	var open []geometry.Polyline
	for _, s := range seqs {
		if s.Closed {
			if r, ok := newRing(s.Points); ok {
				rings = append(rings, r)
			}
			continue
		}
		if lineString(s.Points).Validate() != nil {
			continue
		}
		open = append(open, s.Points)
	}

	// Ascending area plus first-match parent scan means every ring's
	// parent is its smallest enclosing ring.
	sort.SliceStable(rings, func(i, j int) bool {
		return rings[i].area < rings[j].area
	})
	parent := findParents(rings)

	var polys []Polygon
	rootSlot := make(map[int]int)
	for i, r := range rings {
		if parent[i] == -1 {
			rootSlot[i] = len(polys)
			polys = append(polys, Polygon{Outer: r.pts, Geom: r.g})
		}
	}
	for i := range rings {
		if parent[i] == -1 {
			continue
		}
		root := parent[i]
		for parent[root] != -1 {
			root = parent[root]
		}
		slot := rootSlot[root]
		polys[slot].Holes = append(polys[slot].Holes, rings[i].pts)
	}

	// Punch the holes into the outer geometries. If a combination is not a
	// valid polygon, keep the bare outer rather than losing the part.
	for k := range polys {
		if len(polys[k].Holes) == 0 {
			continue
		}
		boundaries := make([]geom.LineString, 0, len(polys[k].Holes)+1)
		boundaries = append(boundaries, lineString(polys[k].Outer))
		for _, h := range polys[k].Holes {
			boundaries = append(boundaries, lineString(h))
		}
		p := geom.NewPolygon(boundaries)
		if p.Validate() == nil {
			polys[k].Geom = p.AsGeometry()
		}
	}

	return polys, open
}

// newRing validates a closed point sequence as a simple ring. A sequence
// whose endpoints differ is closed by repeating the first point. Returns
// false for degenerate or self-intersecting candidates and for rings at or
// below the noise area threshold.
func newRing(pts geometry.Polyline) (ring, bool) {
	if len(pts) < 3 {
		return ring{}, false
	}
	if pts[0] != pts[len(pts)-1] {
		closed := make(geometry.Polyline, 0, len(pts)+1)
		closed = append(closed, pts...)
		pts = append(closed, pts[0])
	}
	if len(pts) < 4 {
		return ring{}, false
	}

	p := geom.NewPolygon([]geom.LineString{lineString(pts)})
	if p.Validate() != nil {
		return ring{}, false
	}
	area := p.Area()
	if area <= cfg.MinRingArea {
		return ring{}, false
	}
	return ring{pts: pts, g: p.AsGeometry(), area: area}, true
}

// findParents assigns each ring the index of the smallest ring containing
// it, or -1 for roots. Rings must already be sorted ascending by area. A
// quadtree over one representative vertex per ring narrows the candidate
// children of each ring to those inside its envelope; full geometric
// containment still makes the decision.
func findParents(rings []ring) []int {
	parent := make([]int, len(rings))
	for i := range parent {
		parent[i] = -1
	}
	if len(rings) < 2 {
		return parent
	}

	qt := newRingTree(rings)
	candidates := make([][]int, len(rings))
	for j := range rings {
		lo, hi, ok := rings[j].g.Envelope().MinMaxXYs()
		if !ok {
			continue
		}
		pad := cfg.CoincidentDistance
		aabb := quadtree.NewAABB(
			quadtree.NewPoint((lo.X+hi.X)/2, (lo.Y+hi.Y)/2, nil),
			quadtree.NewPoint((hi.X-lo.X)/2+pad, (hi.Y-lo.Y)/2+pad, nil))
		for _, pt := range qt.Search(aabb) {
			for i := range pt.Data().(map[int]struct{}) {
				if i != j {
					candidates[i] = append(candidates[i], j)
				}
			}
		}
	}

	for i := range rings {
		for _, j := range candidates[i] {
			// Only later (larger or equal area) rings can contain ring i.
			if j <= i {
				continue
			}
			contains, err := geom.Contains(rings[j].g, rings[i].g)
			if err == nil && contains {
				parent[i] = j
				break
			}
		}
	}
	return parent
}

var zeroPoint = quadtree.NewPoint(0, 0, nil)

// newRingTree indexes one representative vertex per ring. Rings sharing an
// exact vertex share one tree point whose payload is the set of their
// indices.
func newRingTree(rings []ring) *quadtree.QuadTree {
	bounds := rings[0].pts.Bounds()
	for _, r := range rings[1:] {
		bounds = bounds.Union(r.pts.Bounds())
	}
	midX := (bounds.Min.X + bounds.Max.X) / 2
	midY := (bounds.Min.Y + bounds.Max.Y) / 2

	// Add a small margin to avoid dropping points at the edges.
	halfWidth := bounds.Max.X - midX + 10
	halfHeight := bounds.Max.Y - midY + 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	qt := quadtree.New(aabb, 0, nil)

	for i, r := range rings {
		x, y := r.pts[0].X, r.pts[0].Y
		point := quadtree.NewPoint(x, y, nil)
		existing := qt.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(existing) > 0 {
			px, py := existing[0].Coordinates()
			if px == x && py == y {
				existing[0].Data().(map[int]struct{})[i] = struct{}{}
				continue
			}
		}
		qt.Insert(quadtree.NewPoint(x, y, map[int]struct{}{i: {}}))
	}
	return qt
}

// lineString converts a polyline to the simplefeatures representation.
func lineString(pts geometry.Polyline) geom.LineString {
	coords := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		coords = append(coords, p.X, p.Y)
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}
