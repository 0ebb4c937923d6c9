package shapes

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

func assertOutward(t *testing.T, s *models.Structure) {
	t.Helper()
	center := s.Center()
	for i, tri := range s.Triangles {
		if tri.Degenerate() {
			continue
		}
		out := s.TriangleCentroid(i).Sub(center)
		assert.Greater(t, tri.Normal.Dot(out), 0.0, "triangle %d of %s points inward", i, s.Name)
	}
}

func TestCubeTopology(t *testing.T) {
	s, err := models.Build(Cube{SideLength: 2})
	require.NoError(t, err)

	assert.Len(t, s.Vertices, 8)
	assert.Len(t, s.Edges, 12)
	assert.Len(t, s.Faces, 6)
	assert.Len(t, s.Triangles, 12)
	for _, f := range s.Faces {
		assert.Len(t, f.Triangles, 2)
		assert.True(t, f.Visible)
	}
	for _, tri := range s.Triangles {
		assert.True(t, tri.Textured())
	}
	assertOutward(t, s)
	assert.True(t, s.Size().ApproxEqual(math3d.V3(2, 2, 2), 1e-12))
}

func TestSolidsOutward(t *testing.T) {
	tests := []struct {
		name string
		gen  models.Generator
		tris int
	}{
		{"cuboid", Cuboid{Length: 1, Width: 2, Height: 3}, 12},
		{"cone", Cone{Radius: 1, Height: 2, Resolution: 8}, 16},
		{"cylinder", Cylinder{TopRadius: 1, BottomRadius: 1, Height: 2, Resolution: 6}, 24},
		{"tapered cylinder", Cylinder{TopRadius: 0.5, BottomRadius: 1, Height: 2, Resolution: 5}, 20},
		{"sphere", Sphere{Radius: 1, Resolution: 8}, 2 * 8 * 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := models.Build(tt.gen)
			require.NoError(t, err)
			assert.Len(t, s.Triangles, tt.tris)
			assert.Equal(t, models.Solid3D, s.Dimension)
			assertOutward(t, s)
		})
	}
}

func TestTorusOutward(t *testing.T) {
	s, err := models.Build(Torus{InnerRadius: 1, OuterRadius: 2, Resolution: 12})
	require.NoError(t, err)
	assert.Len(t, s.Vertices, 144)
	assert.Len(t, s.Triangles, 288)
	assert.Len(t, s.Edges, 288)

	// Outward for a torus means away from the tube centre line.
	major := 1.5
	for i, tri := range s.Triangles {
		c := s.TriangleCentroid(i)
		axis := math3d.V3(c.X, 0, c.Z).Normalize().Scale(major)
		assert.Greater(t, tri.Normal.Dot(c.Sub(axis)), 0.0, "triangle %d", i)
	}
}

func TestFlatShapesFaceObserver(t *testing.T) {
	tests := []struct {
		name  string
		gen   models.Generator
		verts int
		tris  int
		edges int
	}{
		{"circle", Circle{Radius: 1, Resolution: 16}, 17, 16, 16},
		{"ellipse", Ellipse{MajorAxis: 4, MinorAxis: 2, Resolution: 3}, 4, 3, 3},
		{"square", Square{SideLength: 1}, 4, 2, 4},
		{"plane", Plane{Length: 3, Width: 1}, 4, 2, 4},
		{"ring", Ring{InnerRadius: 1, OuterRadius: 2, Resolution: 10}, 20, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := models.Build(tt.gen)
			require.NoError(t, err)
			assert.Equal(t, models.Planar2D, s.Dimension)
			assert.Len(t, s.Vertices, tt.verts)
			assert.Len(t, s.Triangles, tt.tris)
			assert.Len(t, s.Edges, tt.edges)
			for i, tri := range s.Triangles {
				assert.True(t, tri.Normal.ApproxEqual(math3d.V3(0, 0, -1), 1e-9), "triangle %d normal %v", i, tri.Normal)
			}
		})
	}
}

func TestPerimeterOrder(t *testing.T) {
	s, err := models.Build(Circle{Radius: 2, Resolution: 4})
	require.NoError(t, err)

	want := []math3d.Vec3{{2, 0, 0}, {0, 2, 0}, {-2, 0, 0}, {0, -2, 0}}
	for k, w := range want {
		assert.True(t, s.Position(1+k).ApproxEqual(w, 1e-12), "perimeter %d = %v, want %v", k, s.Position(1+k), w)
	}
}

func TestSquareSize(t *testing.T) {
	s, err := models.Build(Square{SideLength: 1})
	require.NoError(t, err)
	assert.Equal(t, math3d.V3(-0.5, -0.5, 0), s.BoundsMin)
	assert.Equal(t, math3d.V3(0.5, 0.5, 0), s.BoundsMax)
}

func TestInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		gen  models.Generator
	}{
		{"circle resolution", Circle{Radius: 1, Resolution: 2}},
		{"circle radius", Circle{Radius: 0, Resolution: 8}},
		{"ellipse resolution", Ellipse{MajorAxis: 1, MinorAxis: 1}},
		{"cone resolution", Cone{Radius: 1, Height: 1, Resolution: 1}},
		{"cylinder resolution", Cylinder{TopRadius: 1, BottomRadius: 1, Height: 1, Resolution: 2}},
		{"sphere resolution", Sphere{Radius: 1, Resolution: -5}},
		{"torus resolution", Torus{InnerRadius: 1, OuterRadius: 2, Resolution: 0}},
		{"torus radii", Torus{InnerRadius: 2, OuterRadius: 1, Resolution: 8}},
		{"ring resolution", Ring{InnerRadius: 1, OuterRadius: 2, Resolution: 2}},
		{"cube side", Cube{SideLength: -1}},
		{"cuboid nan", Cuboid{Length: math.NaN(), Width: 1, Height: 1}},
		{"plane width", Plane{Length: 1}},
		{"line length", Line{}},
		{"custom empty", Custom{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := models.Build(tt.gen)
			assert.ErrorIs(t, err, models.ErrInvalidParameter)
			assert.Nil(t, s)
		})
	}
}

func TestCubeCuboidRoundTrip(t *testing.T) {
	for _, side := range []float64{0.5, 1, 2, 7.25} {
		cuboid := Cube{SideLength: side}.ToCuboid()
		assert.Equal(t, Cuboid{Length: side, Width: side, Height: side}, cuboid)
		back := CubeFromCuboid(cuboid)
		assert.Equal(t, side, back.SideLength)
	}

	assert.Equal(t, 1.5, CubeFromCuboid(Cuboid{Length: 3, Width: 1.5, Height: 2}).SideLength)
	assert.Equal(t, 2.0, SquareFromPlane(Plane{Length: 2, Width: 5}).SideLength)
}

func TestShapeUpdate(t *testing.T) {
	sh, err := New(Circle{Radius: 1, Resolution: 8})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sh.Version())
	before := sh.Structure()

	require.NoError(t, sh.Update(func(c *Circle) { c.Resolution = 32 }))
	assert.Equal(t, uint64(2), sh.Version())
	assert.Equal(t, 32, sh.Params().Resolution)
	assert.Len(t, sh.Structure().Triangles, 32)
	assert.Len(t, before.Triangles, 8, "old structure must not be mutated")

	err = sh.Update(func(c *Circle) { c.Resolution = 2 })
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.Equal(t, 32, sh.Params().Resolution, "failed update keeps parameters")
	assert.Equal(t, uint64(2), sh.Version())
}

func TestShapeAppearanceSurvivesUpdate(t *testing.T) {
	sh, err := New(Cube{SideLength: 1})
	require.NoError(t, err)

	red := models.Solid(color.RGBA{255, 0, 0, 255})
	sh.SetAppearance(red)
	require.NoError(t, sh.Update(func(c *Cube) { c.SideLength = 3 }))

	for _, f := range sh.Structure().Faces {
		assert.Equal(t, red.Color, f.Appearance.Color)
	}
}

func TestShapeConcurrentReaders(t *testing.T) {
	sh, err := New(Sphere{Radius: 1, Resolution: 4})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Go(func() {
			for range 200 {
				// A reader sees either the old or the new topology, never a mix.
				assert.NoError(t, sh.Structure().Validate())
			}
		})
	}
	for r := 4; r < 20; r++ {
		require.NoError(t, sh.Update(func(s *Sphere) { s.Resolution = r }))
	}
	wg.Wait()
}

func TestCustomFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644))

	gen, err := Load(path)
	require.NoError(t, err)
	sh, err := New(gen)
	require.NoError(t, err)
	assert.Equal(t, "tri.obj", sh.Structure().Name)
	assert.Len(t, sh.Structure().Triangles, 1)

	_, err = Load(filepath.Join(t.TempDir(), "mesh.stl"))
	assert.Error(t, err)
}

func TestLineShape(t *testing.T) {
	s, err := models.Build(Line{Start: math3d.V3(-1, 0, 0), End: math3d.V3(1, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, models.Line1D, s.Dimension)
	assert.Len(t, s.Edges, 1)
	assert.Empty(t, s.Triangles)
}
