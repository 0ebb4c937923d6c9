// Package shapes provides parametric mesh generators and a Shape wrapper
// that regenerates its structure atomically when a parameter changes.
package shapes

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Meshed is anything that exposes a current structure and a version that
// changes whenever the structure is replaced.
type Meshed interface {
	Structure() *models.Structure
	Version() uint64
}

// Shape holds a generator's parameters and the structure built from them.
// Readers always see a complete structure: Update builds the replacement
// first and swaps it in with one atomic store.
type Shape[G models.Generator] struct {
	mu        sync.Mutex // serializes Update
	params    G
	structure atomic.Pointer[models.Structure]
	version   atomic.Uint64

	appearance *models.Appearance
}

// New builds a shape from params.
func New[G models.Generator](params G) (*Shape[G], error) {
	s, err := models.Build(params)
	if err != nil {
		return nil, err
	}
	sh := &Shape[G]{params: params}
	sh.structure.Store(s)
	sh.version.Store(1)
	return sh, nil
}

// Structure returns the current structure. Callers must treat it as
// read-only; it may be shared with concurrent renderers.
func (s *Shape[G]) Structure() *models.Structure {
	return s.structure.Load()
}

// Version increases by one on every successful regeneration.
func (s *Shape[G]) Version() uint64 {
	return s.version.Load()
}

// Params returns a copy of the current parameters.
func (s *Shape[G]) Params() G {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Update applies fn to a copy of the parameters and regenerates the whole
// structure. On error the previous parameters and structure stay in place.
func (s *Shape[G]) Update(fn func(p *G)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.params
	fn(&next)
	built, err := models.Build(next)
	if err != nil {
		return err
	}
	if s.appearance != nil {
		built.SetAppearance(*s.appearance)
	}
	s.params = next
	s.structure.Store(built)
	s.version.Add(1)
	return nil
}

// SetAppearance recolours every face. The appearance survives later
// regenerations.
func (s *Shape[G]) SetAppearance(a models.Appearance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.structure.Load().Clone()
	next.SetAppearance(a)
	s.appearance = &a
	s.structure.Store(next)
	s.version.Add(1)
}

func checkResolution(res int) error {
	if res < 3 {
		return models.InvalidParameter("resolution", res)
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return models.InvalidParameter(name, v)
	}
	return nil
}

// ring returns n points counter-clockwise from angle 0 (seen from -Z for XY
// rings and from +Y for XZ rings), produced by at.
func ring(n int, at func(theta float64) math3d.Vec3) []models.Vertex {
	vs := make([]models.Vertex, n)
	for k := range n {
		p := at(2 * math.Pi * float64(k) / float64(n))
		vs[k] = models.V(p.X, p.Y, p.Z)
	}
	return vs
}

// loopEdges connects first..first+n-1 into a closed loop.
func loopEdges(first, n int) []models.Edge {
	edges := make([]models.Edge, n)
	for k := range n {
		edges[k] = models.Edge{V: [2]int{first + k, first + (k+1)%n}}
	}
	return edges
}

// unitSquareUV holds the texture vertices shared by rectangular faces.
func unitSquareUV() []models.TextureVertex {
	return []models.TextureVertex{
		{UV: math3d.V3(0, 0, 0)},
		{UV: math3d.V3(1, 0, 0)},
		{UV: math3d.V3(1, 1, 0)},
		{UV: math3d.V3(0, 1, 0)},
	}
}
