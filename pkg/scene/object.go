package scene

import (
	"sync/atomic"

	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/shapes"
)

// Object is a visible entity backed by a mesh.
type Object struct {
	*Entity

	mesh         shapes.Meshed
	meshSeen     atomic.Uint64 // mesh version last folded into the world counter
	visible      atomic.Bool
	castsShadows atomic.Bool
}

func newObject(e *Entity, mesh shapes.Meshed) *Object {
	o := &Object{Entity: e, mesh: mesh}
	o.meshSeen.Store(mesh.Version())
	o.visible.Store(true)
	o.castsShadows.Store(true)
	return o
}

// Mesh returns the object's mesh source.
func (o *Object) Mesh() shapes.Meshed { return o.mesh }

// Structure returns the current model-space structure.
func (o *Object) Structure() *models.Structure { return o.mesh.Structure() }

// Visible reports whether renderers draw the object.
func (o *Object) Visible() bool { return o.visible.Load() }

// SetVisible shows or hides the object.
func (o *Object) SetVisible(v bool) {
	if o.visible.Swap(v) != v {
		o.Touch()
	}
}

// CastsShadows reports whether the object is drawn into shadow maps.
func (o *Object) CastsShadows() bool { return o.castsShadows.Load() }

// SetCastsShadows toggles shadow casting.
func (o *Object) SetCastsShadows(v bool) {
	if o.castsShadows.Swap(v) != v {
		o.Touch()
	}
}

// Generation adds the mesh version to the entity generation so shape
// regeneration also marks the object stale.
func (o *Object) Generation() uint64 {
	return o.Entity.Generation() + o.mesh.Version()
}

// syncMesh reports whether the mesh version moved since the last call.
// Exactly one concurrent caller observes each change.
func (o *Object) syncMesh() bool {
	v := o.mesh.Version()
	old := o.meshSeen.Load()
	return v != old && o.meshSeen.CompareAndSwap(old, v)
}

// Fixed wraps a structure that never changes as a mesh source.
type Fixed struct {
	s *models.Structure
}

// NewFixed returns a mesh source for s.
func NewFixed(s *models.Structure) Fixed { return Fixed{s: s} }

// Structure returns the wrapped structure.
func (f Fixed) Structure() *models.Structure { return f.s }

// Version is always 1.
func (f Fixed) Version() uint64 { return 1 }
