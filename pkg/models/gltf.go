package models

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/facet/pkg/math3d"
)

// GLTFLoader loads glTF/GLB files into a Structure.
type GLTFLoader struct {
	// Options
	SmoothNormals bool // fill missing vertex normals by averaging
	LoadTextures  bool // decode base colour textures into face appearances
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		SmoothNormals: true,
		LoadTextures:  true,
	}
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF(path string) (*Structure, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads every triangle primitive of every mesh in the document into one
// structure. glTF is right-handed with the viewer on +Z; positions are
// mirrored in Z and windings reversed so outward normals stay outward.
func (l *GLTFLoader) Load(path string) (*Structure, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s := NewStructure(filepath.Base(path), Solid3D)
	appearances, err := l.materials(doc, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, s, appearances); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	s.Edges = EdgesFromTriangles(s.Triangles)
	s.RecalculateNormals()
	if l.SmoothNormals && !hasVertexNormals(s) {
		s.CalculateSmoothNormals()
	}
	s.CalculateBounds()

	return s, nil
}

func hasVertexNormals(s *Structure) bool {
	for _, v := range s.Vertices {
		if v.HasNormal {
			return true
		}
	}
	return false
}

// materials converts glTF PBR materials into appearances, one per material.
func (l *GLTFLoader) materials(doc *gltf.Document, dir string) ([]Appearance, error) {
	out := make([]Appearance, len(doc.Materials))
	for i, mat := range doc.Materials {
		a := DefaultAppearance()
		pbr := mat.PBRMetallicRoughness
		if pbr != nil && pbr.BaseColorFactor != nil {
			f := pbr.BaseColorFactor
			a.Color = color.RGBA{unit8(f[0]), unit8(f[1]), unit8(f[2]), unit8(f[3])}
		}
		if l.LoadTextures && pbr != nil && pbr.BaseColorTexture != nil {
			img, err := loadTextureImage(doc, pbr.BaseColorTexture.Index, dir)
			if err != nil {
				return nil, fmt.Errorf("material %q: %w", mat.Name, err)
			}
			if img != nil {
				c := a.Color
				a = Textured(img)
				a.Color = c
			}
		}
		out[i] = a
	}
	return out, nil
}

func unit8(f float64) uint8 {
	return uint8(math3d.Clamp(f, 0, 1)*255 + 0.5)
}

// loadTextureImage decodes the image behind a texture index, from an
// embedded buffer view or a file next to the document. Unknown textures
// yield a nil image.
func loadTextureImage(doc *gltf.Document, texIdx int, dir string) (image.Image, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil, nil
	}
	src := doc.Images[*doc.Textures[texIdx].Source]

	var data []byte
	var err error
	switch {
	case src.BufferView != nil:
		data, err = modeler.ReadBufferView(doc, doc.BufferViews[*src.BufferView])
	case src.URI != "" && !src.IsEmbeddedResource():
		data, err = os.ReadFile(filepath.Join(dir, src.URI))
	case src.URI != "":
		data, err = src.MarshalData()
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return img, nil
}

// processMesh appends the triangle primitives of one glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, s *Structure, appearances []Appearance) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		baseVertex := len(s.Vertices)
		baseTexture := len(s.TextureVertices)
		textured := len(uvs) == len(positions)

		for i, p := range positions {
			v := Vertex{Position: math3d.V4(float64(p[0]), float64(p[1]), -float64(p[2]), 1)}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), -float64(n[2])).Normalize()
				v.HasNormal = !v.Normal.IsZero()
			}
			s.Vertices = append(s.Vertices, v)
			if textured {
				// glTF puts V=0 at the top of the image; flip to bottom-left origin
				s.TextureVertices = append(s.TextureVertices, TextureVertex{UV: math3d.V3(float64(uvs[i][0]), 1-float64(uvs[i][1]), 0)})
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		appearance := DefaultAppearance()
		if prim.Material != nil && *prim.Material < len(appearances) {
			appearance = appearances[*prim.Material]
		}
		if appearance.Kind == AppearanceTextured && !textured {
			appearance = Solid(appearance.Color)
		}

		first := len(s.Triangles)
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+2]), int(indices[i+1]) // reversed winding
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("index out of range in primitive of %d vertices", len(positions))
			}
			t := Tri(baseVertex+a, baseVertex+b, baseVertex+c)
			if textured {
				t.T = [3]int{baseTexture + a, baseTexture + b, baseTexture + c}
			}
			s.Triangles = append(s.Triangles, t)
		}

		idx := make([]int, 0, len(s.Triangles)-first)
		for i := first; i < len(s.Triangles); i++ {
			idx = append(idx, i)
		}
		if len(idx) > 0 {
			s.Faces = append(s.Faces, Face{Triangles: idx, Appearance: appearance, Visible: true})
		}
	}

	return nil
}
