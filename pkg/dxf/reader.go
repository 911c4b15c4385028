package dxf

import (
	"bufio"
	"dxfmetrics/pkg/geometry"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// tag is one group-code/value pair, the atom of the DXF tagged format.
type tag struct {
	code  int
	value string
}

// ReadFile parses the DXF file at path. A file that cannot be opened or
// whose tag structure is broken is a fatal error; individual entities with
// bad numeric fields degrade to Unknown instead.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dxf: %w", err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("dxf: read %s: %w", path, err)
	}
	return doc, nil
}

// Read parses an ASCII DXF tag stream.
func Read(r io.Reader) (*Document, error) {
	tags, err := readTags(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	i := 0
	for i < len(tags) {
		if tags[i].code == 0 && tags[i].value == "SECTION" && i+1 < len(tags) && tags[i+1].code == 2 {
			name := tags[i+1].value
			end := findEndsec(tags, i+2)
			switch name {
			case "HEADER":
				parseHeader(doc, tags[i+2 : end])
			case "ENTITIES":
				doc.Entities = parseEntities(tags[i+2 : end])
			}
			i = end + 1
			continue
		}
		i++
	}
	return doc, nil
}

func readTags(r io.Reader) ([]tag, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var tags []tag
	for sc.Scan() {
		codeLine := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("group code %q has no value line", codeLine)
		}
		code, err := strconv.Atoi(codeLine)
		if err != nil {
			return nil, fmt.Errorf("bad group code %q", codeLine)
		}
		tags = append(tags, tag{code: code, value: strings.TrimSpace(sc.Text())})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// findEndsec returns the index of the 0/ENDSEC tag at or after start, or
// len(tags) if the section is unterminated.
func findEndsec(tags []tag, start int) int {
	for i := start; i < len(tags); i++ {
		if tags[i].code == 0 && tags[i].value == "ENDSEC" {
			return i
		}
	}
	return len(tags)
}

// parseHeader picks $INSUNITS out of the header section. Header variables
// are introduced by a 9/$NAME tag followed by their value tags.
func parseHeader(doc *Document, tags []tag) {
	for i := 0; i < len(tags); i++ {
		if tags[i].code != 9 || tags[i].value != "$INSUNITS" {
			continue
		}
		for j := i + 1; j < len(tags) && tags[j].code != 9; j++ {
			if tags[j].code == 70 {
				if v, err := strconv.Atoi(tags[j].value); err == nil {
					doc.InsUnits = v
					doc.HasInsUnits = true
				}
				return
			}
		}
		return
	}
}

func parseEntities(tags []tag) []Entity {
	var entities []Entity
	i := 0
	for i < len(tags) && tags[i].code != 0 {
		i++
	}
	for i < len(tags) {
		typ := tags[i].value
		j := i + 1
		for j < len(tags) && tags[j].code != 0 {
			j++
		}
		body := tags[i+1 : j]

		switch typ {
		case "LINE":
			entities = append(entities, parseLine(typ, body))
		case "LWPOLYLINE":
			entities = append(entities, parseLwpolyline(body))
		case "POLYLINE":
			var e Entity
			e, j = parsePolyline(tags, body, j)
			entities = append(entities, e)
		case "CIRCLE":
			entities = append(entities, parseCircle(typ, body))
		case "ARC":
			entities = append(entities, parseArc(typ, body))
		case "SPLINE":
			entities = append(entities, parseSpline(body))
		default:
			entities = append(entities, Unknown{Type: typ})
		}
		i = j
	}
	return entities
}

func parseLine(typ string, body []tag) Entity {
	x1, ok1 := floatField(body, 10)
	y1, ok2 := floatField(body, 20)
	x2, ok3 := floatField(body, 11)
	y2, ok4 := floatField(body, 21)
	if !(ok1 && ok2 && ok3 && ok4) {
		return Unknown{Type: typ}
	}
	return Line{
		Start: geometry.Point{X: x1, Y: y1},
		End:   geometry.Point{X: x2, Y: y2},
	}
}

func parseLwpolyline(body []tag) Entity {
	flags, _ := intField(body, 70)
	return Polyline{
		Points: vertexPairs(body),
		Flags:  flags,
		Closed: flags&1 != 0,
	}
}

// parsePolyline handles the legacy POLYLINE entity, whose vertices follow
// as separate VERTEX entities terminated by SEQEND. It returns the entity
// and the tag index just past the consumed block.
func parsePolyline(tags []tag, body []tag, next int) (Entity, int) {
	flags, _ := intField(body, 70)
	pl := Polyline{Flags: flags, Closed: flags&1 != 0}

	i := next
	for i < len(tags) {
		typ := tags[i].value
		j := i + 1
		for j < len(tags) && tags[j].code != 0 {
			j++
		}
		if typ == "SEQEND" {
			i = j
			break
		}
		if typ != "VERTEX" {
			break
		}
		x, ok1 := floatField(tags[i+1 : j], 10)
		y, ok2 := floatField(tags[i+1 : j], 20)
		if ok1 && ok2 {
			pl.Vertices = append(pl.Vertices, geometry.Point{X: x, Y: y})
		}
		i = j
	}
	return pl, i
}

func parseCircle(typ string, body []tag) Entity {
	cx, ok1 := floatField(body, 10)
	cy, ok2 := floatField(body, 20)
	r, ok3 := floatField(body, 40)
	if !(ok1 && ok2 && ok3) {
		return Unknown{Type: typ}
	}
	return Circle{Center: geometry.Point{X: cx, Y: cy}, Radius: r}
}

func parseArc(typ string, body []tag) Entity {
	cx, ok1 := floatField(body, 10)
	cy, ok2 := floatField(body, 20)
	r, ok3 := floatField(body, 40)
	sa, ok4 := floatField(body, 50)
	ea, ok5 := floatField(body, 51)
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return Unknown{Type: typ}
	}
	return Arc{
		Center:     geometry.Point{X: cx, Y: cy},
		Radius:     r,
		StartAngle: sa,
		EndAngle:   ea,
	}
}

func parseSpline(body []tag) Entity {
	flags, _ := intField(body, 70)
	degree, _ := intField(body, 71)
	sp := Spline{
		Control: vertexPairs(body),
		Degree:  degree,
		Flags:   flags,
	}
	for _, t := range body {
		if t.code == 40 {
			if v, err := strconv.ParseFloat(t.value, 64); err == nil {
				sp.Knots = append(sp.Knots, v)
			}
		}
	}
	return sp
}

// vertexPairs collects the 10/20 coordinate pairs of an entity body, in
// order. A 10 opens a vertex; the following 20 completes it. Vertices left
// without a Y keep 0, matching the format's field default.
func vertexPairs(body []tag) []geometry.Point {
	var pts []geometry.Point
	for _, t := range body {
		switch t.code {
		case 10:
			if v, err := strconv.ParseFloat(t.value, 64); err == nil {
				pts = append(pts, geometry.Point{X: v})
			}
		case 20:
			if len(pts) == 0 {
				continue
			}
			if v, err := strconv.ParseFloat(t.value, 64); err == nil {
				pts[len(pts)-1].Y = v
			}
		}
	}
	return pts
}

// floatField returns the first value with the given group code.
func floatField(body []tag, code int) (float64, bool) {
	for _, t := range body {
		if t.code == code {
			v, err := strconv.ParseFloat(t.value, 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

func intField(body []tag, code int) (int, bool) {
	for _, t := range body {
		if t.code == code {
			v, err := strconv.Atoi(t.value)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}
