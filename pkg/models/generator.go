package models

import "fmt"

// Generator produces the four collections of a structure. Build calls the
// methods in declaration order; each step sees only the output of the
// previous one.
type Generator interface {
	Name() string
	Dimension() Dimension
	GenerateVertices() ([]Vertex, error)
	GenerateEdges(vertices []Vertex) []Edge
	GenerateTriangles(vertices []Vertex) []Triangle
	GenerateFaces(triangles []Triangle) []Face
}

// TextureGenerator is implemented by generators that emit texture vertices.
type TextureGenerator interface {
	GenerateTextureVertices(vertices []Vertex) []TextureVertex
}

// Build runs a generator and returns the finished structure with cached
// normals and bounds. On error no structure is returned.
func Build(g Generator) (*Structure, error) {
	vertices, err := g.GenerateVertices()
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", g.Name(), err)
	}

	s := &Structure{
		Name:      g.Name(),
		Dimension: g.Dimension(),
		Vertices:  vertices,
	}
	if tg, ok := g.(TextureGenerator); ok {
		s.TextureVertices = tg.GenerateTextureVertices(vertices)
	}
	s.Edges = g.GenerateEdges(vertices)
	s.Triangles = g.GenerateTriangles(vertices)
	s.Faces = g.GenerateFaces(s.Triangles)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("generate %s: %w", g.Name(), err)
	}

	s.RecalculateNormals()
	s.CalculateBounds()
	return s, nil
}

// Validate checks that every index refers to an existing element.
func (s *Structure) Validate() error {
	n := len(s.Vertices)
	for i, e := range s.Edges {
		for _, v := range e.V {
			if v < 0 || v >= n {
				return fmt.Errorf("edge %d: vertex index %d out of range [0,%d)", i, v, n)
			}
		}
	}
	for i, t := range s.Triangles {
		for _, v := range t.V {
			if v < 0 || v >= n {
				return fmt.Errorf("triangle %d: vertex index %d out of range [0,%d)", i, v, n)
			}
		}
		for _, tv := range t.T {
			if tv != NoTexture && (tv < 0 || tv >= len(s.TextureVertices)) {
				return fmt.Errorf("triangle %d: texture index %d out of range [0,%d)", i, tv, len(s.TextureVertices))
			}
		}
	}
	for i, f := range s.Faces {
		for _, ti := range f.Triangles {
			if ti < 0 || ti >= len(s.Triangles) {
				return fmt.Errorf("face %d: triangle index %d out of range [0,%d)", i, ti, len(s.Triangles))
			}
		}
	}
	return nil
}

// SingleFace groups every triangle into one visible face.
func SingleFace(triangles []Triangle, a Appearance) []Face {
	if len(triangles) == 0 {
		return nil
	}
	idx := make([]int, len(triangles))
	for i := range idx {
		idx[i] = i
	}
	return []Face{{Triangles: idx, Appearance: a, Visible: true}}
}

// FacesOfSize groups consecutive runs of size triangles into faces.
func FacesOfSize(triangles []Triangle, size int, a Appearance) []Face {
	if size <= 0 {
		return nil
	}
	faces := make([]Face, 0, len(triangles)/size+1)
	for start := 0; start < len(triangles); start += size {
		end := min(start+size, len(triangles))
		idx := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			idx = append(idx, i)
		}
		faces = append(faces, Face{Triangles: idx, Appearance: a, Visible: true})
	}
	return faces
}
