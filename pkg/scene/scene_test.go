package scene

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/shapes"
)

const eps = 1e-9

func TestNewOrientation(t *testing.T) {
	o, err := NewOrientation(math3d.V3(0, 0, 2), math3d.V3(0, 1, 1))
	require.NoError(t, err)
	assert.True(t, o.Forward().ApproxEqual(math3d.V3(0, 0, 1), eps))
	assert.True(t, o.Up().ApproxEqual(math3d.V3(0, 1, 0), eps))
	assert.True(t, o.Right().ApproxEqual(math3d.V3(1, 0, 0), eps))

	_, err = NewOrientation(math3d.V3(0, 1, 0), math3d.V3(0, 3, 0))
	assert.ErrorIs(t, err, ErrInvalidOrientation)
	_, err = NewOrientation(math3d.Zero3(), math3d.WorldUp())
	assert.ErrorIs(t, err, ErrInvalidOrientation)
}

func TestOrientationMatrixMapsAxes(t *testing.T) {
	tests := []struct {
		name        string
		forward, up math3d.Vec3
	}{
		{"default", math3d.V3(0, 0, 1), math3d.V3(0, 1, 0)},
		{"turned right", math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{"backwards", math3d.V3(0, 0, -1), math3d.V3(0, 1, 0)},
		{"upside down", math3d.V3(0, 0, 1), math3d.V3(0, -1, 0)},
		{"looking down", math3d.V3(0, -1, 0), math3d.V3(0, 0, 1)},
		{"oblique", math3d.V3(1, 1, 1), math3d.V3(0, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrientation(tt.forward, tt.up)
			require.NoError(t, err)
			m := o.Matrix()
			assert.True(t, m.MulVec3Dir(math3d.WorldForward()).ApproxEqual(o.Forward(), 1e-6),
				"forward: got %v want %v", m.MulVec3Dir(math3d.WorldForward()), o.Forward())
			assert.True(t, m.MulVec3Dir(math3d.WorldUp()).ApproxEqual(o.Up(), 1e-6),
				"up: got %v want %v", m.MulVec3Dir(math3d.WorldUp()), o.Up())
			assert.True(t, m.MulVec3Dir(math3d.WorldRight()).ApproxEqual(o.Right(), 1e-6))
		})
	}
}

func TestEntityModelToWorld(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity("e")
	assert.True(t, e.ModelToWorld().ApproxEqual(math3d.Identity(), eps))

	e.SetOrigin(math3d.V3(1, 2, 3))
	require.NoError(t, e.SetScaling(math3d.V3(2, 2, 2)))
	require.NoError(t, e.SetForward(math3d.V3(1, 0, 0)))

	// Model +Z becomes world +X, scaled by 2, then offset.
	got := e.ModelToWorld().MulVec3(math3d.V3(0, 0, 1))
	assert.True(t, got.ApproxEqual(math3d.V3(3, 2, 3), 1e-9), "got %v", got)

	inv := e.ModelToWorld().Inverse()
	assert.True(t, inv.MulVec3(got).ApproxEqual(math3d.V3(0, 0, 1), 1e-9))
}

func TestEntitySmallTurns(t *testing.T) {
	for _, angle := range []float64{1e-3, 1e-4, 2e-5} {
		e := NewWorld().NewEntity("e")
		e.RotateAbout(math3d.WorldUp(), angle)
		got := e.ModelToWorld().MulVec3Dir(math3d.WorldForward())
		want := math3d.V3(math.Sin(angle), 0, math.Cos(angle))
		assert.True(t, got.ApproxEqual(want, 1e-9), "turn %g: forward %v, want %v", angle, got, want)
	}
}

func TestEntityGenerationBumps(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity("e")
	g := e.Generation()

	e.Translate(math3d.V3(1, 0, 0))
	assert.Greater(t, e.Generation(), g)
	g = e.Generation()

	e.RotateAbout(math3d.WorldUp(), math.Pi/2)
	assert.Greater(t, e.Generation(), g)
	assert.True(t, e.Forward().ApproxEqual(math3d.V3(1, 0, 0), 1e-9), "forward %v", e.Forward())
	g = e.Generation()

	// Rejected mutations leave the entity untouched.
	assert.ErrorIs(t, e.SetUp(e.Forward()), ErrInvalidOrientation)
	assert.Error(t, e.SetScaling(math3d.V3(1, 0, 1)))
	assert.Equal(t, g, e.Generation())
}

func TestEntitySetForwardParallelToUp(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity("e")
	require.NoError(t, e.SetForward(math3d.V3(0, 1, 0)))
	assert.True(t, e.Forward().ApproxEqual(math3d.WorldUp(), eps))
	assert.InDelta(t, 0, e.Up().Dot(e.Forward()), eps)
}

func TestEntityLookAt(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity("cam")
	e.SetOrigin(math3d.V3(0, 0, -5))
	require.NoError(t, e.LookAt(math3d.Zero3(), math3d.WorldUp()))
	assert.True(t, e.Forward().ApproxEqual(math3d.WorldForward(), eps))

	assert.Error(t, e.LookAt(e.Origin(), math3d.WorldUp()))
}

func TestEntityPlaceLookingAt(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity("cam")
	g, wg := e.Generation(), w.Generation()

	require.NoError(t, e.PlaceLookingAt(math3d.V3(3, 0, 0), math3d.Zero3(), math3d.WorldUp()))
	assert.Equal(t, math3d.V3(3, 0, 0), e.Origin())
	assert.True(t, e.Forward().ApproxEqual(math3d.V3(-1, 0, 0), eps))
	assert.Equal(t, g+1, e.Generation(), "origin and orientation change together")
	assert.Equal(t, wg+1, w.Generation())

	err := e.PlaceLookingAt(math3d.V3(1, 1, 1), math3d.V3(1, 1, 1), math3d.WorldUp())
	assert.ErrorIs(t, err, ErrInvalidOrientation)
	assert.Equal(t, math3d.V3(3, 0, 0), e.Origin(), "a failed placement keeps the old origin")
}

func TestWorldIDsAreUnique(t *testing.T) {
	w := NewWorld()
	seen := map[uint64]bool{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				id := w.NewEntity("").ID()
				mu.Lock()
				assert.False(t, seen[id], "duplicate id %d", id)
				seen[id] = true
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Len(t, seen, 800)

	// Separate worlds allocate independently.
	assert.Equal(t, uint64(1), NewWorld().NextID())
}

func TestWorldObjects(t *testing.T) {
	w := NewWorld()
	cube, err := shapes.New(shapes.Cube{SideLength: 1})
	require.NoError(t, err)

	g0 := w.Generation()
	o := w.NewObject("cube", cube)
	assert.Len(t, w.Objects(), 1)
	assert.Greater(t, w.Generation(), g0)

	w.AddObject(o)
	assert.Len(t, w.Objects(), 1)

	g1 := w.Generation()
	require.NoError(t, cube.Update(func(c *shapes.Cube) { c.SideLength = 2 }))
	assert.Greater(t, w.Generation(), g1, "shape regeneration must mark the world stale")

	g2 := w.Generation()
	o.SetVisible(false)
	assert.False(t, o.Visible())
	assert.Greater(t, w.Generation(), g2)

	assert.True(t, w.RemoveObject(o))
	assert.False(t, w.RemoveObject(o))
	assert.Empty(t, w.Objects())
}

func TestWorldGenerationNeverRepeats(t *testing.T) {
	w := NewWorld()
	cube, err := shapes.New(shapes.Cube{SideLength: 1})
	require.NoError(t, err)
	a := w.NewObject("a", cube)
	b := w.NewObject("b", NewFixed(cube.Structure()))
	for range 3 {
		b.Translate(math3d.V3(1, 0, 0))
	}

	seen := map[uint64]bool{w.Generation(): true}
	check := func(what string) {
		t.Helper()
		g := w.Generation()
		assert.False(t, seen[g], "generation %d repeated after %s", g, what)
		seen[g] = true
	}

	assert.True(t, w.RemoveObject(b))
	check("remove")
	for range 4 {
		a.Translate(math3d.V3(0.5, 0, 0))
		check("translate")
	}
	require.NoError(t, cube.Update(func(c *shapes.Cube) { c.SideLength = 3 }))
	check("regenerate")
	w.AddObject(b)
	check("add")
	assert.Equal(t, w.Generation(), w.Generation(), "reading the generation is not a change")
}

func TestTracker(t *testing.T) {
	var tr Tracker
	assert.True(t, tr.Stale(0))
	tr.Mark(5)
	assert.False(t, tr.Stale(5))
	assert.True(t, tr.Stale(6))
	tr.Reset()
	assert.True(t, tr.Stale(5))
}

func TestMutationWaitsForFrame(t *testing.T) {
	w := NewWorld()
	e := w.NewEntity("e")

	end := w.BeginFrame()
	done := make(chan struct{})
	go func() {
		e.SetOrigin(math3d.V3(1, 1, 1))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("mutation completed while a frame was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	assert.True(t, e.Origin().ApproxEqual(math3d.Zero3(), eps))

	end()
	end() // ending twice is harmless
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutation did not resume after the frame ended")
	}
	assert.True(t, e.Origin().ApproxEqual(math3d.V3(1, 1, 1), eps))
}

func TestConcurrentFrames(t *testing.T) {
	w := NewWorld()
	end1 := w.BeginFrame()
	end2 := w.BeginFrame()
	end1()
	end2()
}
