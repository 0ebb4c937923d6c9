package scene

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Entity places something in a world: an origin, an orientation and a
// per-axis scaling, composed into a model-to-world matrix.
//
// Every setter waits for in-flight frames of the owning world to finish,
// recomputes ModelToWorld and bumps Generation.
type Entity struct {
	id    uint64
	name  string
	world *World

	mu           sync.RWMutex
	origin       math3d.Vec3
	orientation  Orientation
	scaling      math3d.Vec3
	modelToWorld math3d.Mat4

	generation atomic.Uint64
}

func newEntity(w *World, id uint64, name string) *Entity {
	e := &Entity{
		id:          id,
		name:        name,
		world:       w,
		orientation: DefaultOrientation(),
		scaling:     math3d.V3(1, 1, 1),
	}
	e.recalculate()
	e.generation.Store(1)
	return e
}

// ID returns the identifier assigned by the owning world.
func (e *Entity) ID() uint64 { return e.id }

// Name returns the entity's display name.
func (e *Entity) Name() string { return e.name }

// World returns the owning world.
func (e *Entity) World() *World { return e.world }

// Generation increases on every mutation.
func (e *Entity) Generation() uint64 { return e.generation.Load() }

// Origin returns the world-space origin.
func (e *Entity) Origin() math3d.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.origin
}

// Orientation returns the current orientation.
func (e *Entity) Orientation() Orientation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orientation
}

// Forward returns the world-space forward vector.
func (e *Entity) Forward() math3d.Vec3 { return e.Orientation().Forward() }

// Up returns the world-space up vector.
func (e *Entity) Up() math3d.Vec3 { return e.Orientation().Up() }

// Right returns the world-space right vector.
func (e *Entity) Right() math3d.Vec3 { return e.Orientation().Right() }

// Scaling returns the per-axis scale factors.
func (e *Entity) Scaling() math3d.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scaling
}

// ModelToWorld returns T(origin) · R(up) · R(forward) · S(scaling).
func (e *Entity) ModelToWorld() math3d.Mat4 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modelToWorld
}

// Snapshot returns the matrix and generation read together.
func (e *Entity) Snapshot() (math3d.Mat4, uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modelToWorld, e.generation.Load()
}

func (e *Entity) recalculate() {
	e.modelToWorld = math3d.Translate(e.origin).
		Mul(e.orientation.Matrix()).
		Mul(math3d.Scale(e.scaling))
}

// mutate runs fn under the world's frame guard and the entity lock.
func (e *Entity) mutate(fn func() error) error {
	unlock := e.world.lockMutation()
	defer unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	e.recalculate()
	e.generation.Add(1)
	e.world.changes.Add(1)
	return nil
}

// SetOrigin moves the entity.
func (e *Entity) SetOrigin(p math3d.Vec3) {
	_ = e.mutate(func() error {
		e.origin = p
		return nil
	})
}

// Translate moves the entity by d.
func (e *Entity) Translate(d math3d.Vec3) {
	_ = e.mutate(func() error {
		e.origin = e.origin.Add(d)
		return nil
	})
}

// SetOrientation replaces forward and up together.
func (e *Entity) SetOrientation(o Orientation) {
	_ = e.mutate(func() error {
		e.orientation = o
		return nil
	})
}

// SetForward turns the entity to face f, keeping up as close to its current
// direction as possible.
func (e *Entity) SetForward(f math3d.Vec3) error {
	return e.mutate(func() error {
		o, err := NewOrientation(f, e.orientation.up)
		if err != nil {
			// Up is parallel to the new forward; carry the old forward over as up.
			o, err = NewOrientation(f, e.orientation.forward)
		}
		if err != nil {
			return err
		}
		e.orientation = o
		return nil
	})
}

// SetUp rolls the entity about its forward axis so that up lies in the
// plane of u and forward.
func (e *Entity) SetUp(u math3d.Vec3) error {
	return e.mutate(func() error {
		o, err := NewOrientation(e.orientation.forward, u)
		if err != nil {
			return err
		}
		e.orientation = o
		return nil
	})
}

// RotateAbout turns the entity by angle radians about a world-space axis
// through its origin.
func (e *Entity) RotateAbout(axis math3d.Vec3, angle float64) {
	q := math3d.QuatFromAxisAngle(axis, angle)
	_ = e.mutate(func() error {
		e.orientation = e.orientation.Rotated(q)
		return nil
	})
}

// LookAt faces the entity toward target with up as close to worldUp as
// possible.
func (e *Entity) LookAt(target, worldUp math3d.Vec3) error {
	return e.mutate(func() error {
		o, err := NewOrientation(target.Sub(e.origin), worldUp)
		if err != nil {
			return err
		}
		e.orientation = o
		return nil
	})
}

// PlaceLookingAt moves the entity to origin and faces it toward target in
// one mutation, so no frame sees the new origin with the old orientation.
func (e *Entity) PlaceLookingAt(origin, target, worldUp math3d.Vec3) error {
	return e.mutate(func() error {
		o, err := NewOrientation(target.Sub(origin), worldUp)
		if err != nil {
			return err
		}
		e.origin, e.orientation = origin, o
		return nil
	})
}

// SetScaling sets per-axis scale factors; each must be non-zero.
func (e *Entity) SetScaling(s math3d.Vec3) error {
	if s.X == 0 || s.Y == 0 || s.Z == 0 {
		return fmt.Errorf("%w: scaling = %v", models.ErrInvalidParameter, s)
	}
	return e.mutate(func() error {
		e.scaling = s
		return nil
	})
}

// Touch bumps the generation without changing the transform.
func (e *Entity) Touch() {
	_ = e.Update(func() error { return nil })
}

// Update runs fn under the world's frame guard and bumps the generation
// unless fn fails. Types embedding an entity use it to change their own
// state with the same frame contract as the transform setters. fn must not
// call entity setters.
func (e *Entity) Update(fn func() error) error {
	unlock := e.world.lockMutation()
	defer unlock()

	if err := fn(); err != nil {
		return err
	}
	e.generation.Add(1)
	e.world.changes.Add(1)
	return nil
}
