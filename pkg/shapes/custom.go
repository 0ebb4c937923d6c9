package shapes

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/facet/pkg/models"
)

// Custom wraps a structure loaded from a file so it can be used like any
// parametric shape. The source structure is copied on every build.
type Custom struct {
	Source *models.Structure
}

// Load reads an OBJ or glTF file into a Custom generator.
func Load(path string) (Custom, error) {
	var (
		s   *models.Structure
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		s, err = models.LoadOBJ(path)
	case ".glb", ".gltf":
		s, err = models.LoadGLTF(path)
	default:
		return Custom{}, fmt.Errorf("unsupported format: %s (use .obj, .gltf or .glb)", ext)
	}
	if err != nil {
		return Custom{}, err
	}
	return Custom{Source: s}, nil
}

func (c Custom) Name() string {
	if c.Source == nil {
		return "Custom"
	}
	return c.Source.Name
}

func (c Custom) Dimension() models.Dimension {
	if c.Source == nil {
		return models.Solid3D
	}
	return c.Source.Dimension
}

func (c Custom) GenerateVertices() ([]models.Vertex, error) {
	if c.Source == nil || len(c.Source.Vertices) == 0 {
		return nil, models.InvalidParameter("source", "empty structure")
	}
	return append([]models.Vertex(nil), c.Source.Vertices...), nil
}

func (c Custom) GenerateTextureVertices([]models.Vertex) []models.TextureVertex {
	return append([]models.TextureVertex(nil), c.Source.TextureVertices...)
}

func (c Custom) GenerateEdges([]models.Vertex) []models.Edge {
	return append([]models.Edge(nil), c.Source.Edges...)
}

func (c Custom) GenerateTriangles([]models.Vertex) []models.Triangle {
	return append([]models.Triangle(nil), c.Source.Triangles...)
}

func (c Custom) GenerateFaces([]models.Triangle) []models.Face {
	return c.Source.Clone().Faces
}
