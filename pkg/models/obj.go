package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/facet/pkg/math3d"
)

// LoadOBJ reads an OBJ-like mesh file. On any error no structure is returned.
func LoadOBJ(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	s, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	s.Name = filepath.Base(path)
	return s, nil
}

// objParser accumulates the state of one ParseOBJ call.
type objParser struct {
	s        *Structure
	line     int
	lineRefs []Edge
}

// ParseOBJ parses the directives v, vt, l and f; # starts a comment and
// other directives are ignored. Indices are 1-based, negative indices count
// back from the most recent element. Faces with more than three corners are
// fan-triangulated into a single face.
func ParseOBJ(r io.Reader) (*Structure, error) {
	p := &objParser{s: NewStructure("obj", Solid3D)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			err = p.vertex(fields[1:])
		case "vt":
			err = p.textureVertex(fields[1:])
		case "l":
			err = p.polyline(fields[1:])
		case "f":
			err = p.face(fields[1:])
		}
		if err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	s := p.s
	s.Edges = append(p.lineRefs, EdgesFromTriangles(s.Triangles)...)
	if len(s.Triangles) == 0 {
		s.Dimension = Line1D
	}
	s.RecalculateNormals()
	s.CalculateBounds()
	return s, nil
}

func (p *objParser) errorf(err error, format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (p *objParser) floats(fields []string, minN, maxN int, directive string) ([]float64, error) {
	if len(fields) < minN || len(fields) > maxN {
		return nil, p.errorf(nil, "%s: expected %d to %d values, got %d", directive, minN, maxN, len(fields))
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, p.errorf(err, "%s: value %d", directive, i+1)
		}
		out[i] = v
	}
	return out, nil
}

func (p *objParser) vertex(fields []string) error {
	xs, err := p.floats(fields, 3, 4, "v")
	if err != nil {
		return err
	}
	w := 1.0
	if len(xs) == 4 {
		w = xs[3]
	}
	p.s.Vertices = append(p.s.Vertices, Vertex{Position: math3d.V4(xs[0], xs[1], xs[2], w)})
	return nil
}

func (p *objParser) textureVertex(fields []string) error {
	xs, err := p.floats(fields, 1, 3, "vt")
	if err != nil {
		return err
	}
	var uv math3d.Vec3
	uv.X = xs[0]
	if len(xs) > 1 {
		uv.Y = xs[1]
	}
	if len(xs) > 2 {
		uv.Z = xs[2]
	}
	p.s.TextureVertices = append(p.s.TextureVertices, TextureVertex{UV: uv})
	return nil
}

// index converts a 1-based (or negative relative) reference into a 0-based
// index into a collection of length n.
func (p *objParser) index(field string, n int, what string) (int, error) {
	i, err := strconv.Atoi(field)
	if err != nil {
		return 0, p.errorf(err, "%s index %q", what, field)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, p.errorf(nil, "%s index %d out of range (have %d)", what, i, n)
	}
}

func (p *objParser) polyline(fields []string) error {
	if len(fields) < 2 {
		return p.errorf(nil, "l: expected at least 2 indices, got %d", len(fields))
	}
	idx := make([]int, len(fields))
	for i, f := range fields {
		// l entries may carry a texture reference as v/vt
		v, _, _ := strings.Cut(f, "/")
		n, err := p.index(v, len(p.s.Vertices), "vertex")
		if err != nil {
			return err
		}
		idx[i] = n
	}
	for i := 0; i+1 < len(idx); i++ {
		p.lineRefs = append(p.lineRefs, Edge{V: [2]int{idx[i], idx[i+1]}})
	}
	return nil
}

func (p *objParser) face(fields []string) error {
	if len(fields) < 3 {
		return p.errorf(nil, "f: expected at least 3 indices, got %d", len(fields))
	}
	poly := make([]int, len(fields))
	tex := make([]int, len(fields))
	textured := true
	for i, f := range fields {
		parts := strings.Split(f, "/")
		v, err := p.index(parts[0], len(p.s.Vertices), "vertex")
		if err != nil {
			return err
		}
		poly[i] = v
		if len(parts) > 1 && parts[1] != "" {
			t, err := p.index(parts[1], len(p.s.TextureVertices), "texture vertex")
			if err != nil {
				return err
			}
			tex[i] = t
		} else {
			textured = false
		}
	}
	if !textured {
		tex = nil
	}

	first := len(p.s.Triangles)
	p.s.Triangles = append(p.s.Triangles, FanTriangulate(poly, tex)...)
	idx := make([]int, 0, len(poly)-2)
	for i := first; i < len(p.s.Triangles); i++ {
		idx = append(idx, i)
	}
	p.s.Faces = append(p.s.Faces, Face{Triangles: idx, Appearance: DefaultAppearance(), Visible: true})
	return nil
}
