package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/facet/pkg/math3d"
)

// ErrInvalidOrientation is returned for zero or parallel direction vectors.
var ErrInvalidOrientation = errors.New("invalid orientation")

// Orientation is an orthonormal forward/up pair. Right is always derived
// as up × forward, never stored.
type Orientation struct {
	forward, up math3d.Vec3
}

// DefaultOrientation looks down world +Z with world +Y up.
func DefaultOrientation() Orientation {
	return Orientation{forward: math3d.WorldForward(), up: math3d.WorldUp()}
}

// NewOrientation normalizes forward and makes up orthogonal to it.
func NewOrientation(forward, up math3d.Vec3) (Orientation, error) {
	f := forward.Normalize()
	if f.IsZero() {
		return Orientation{}, fmt.Errorf("%w: zero forward", ErrInvalidOrientation)
	}
	u := up.Sub(f.Scale(up.Dot(f))).Normalize()
	if u.IsZero() {
		return Orientation{}, fmt.Errorf("%w: up %v is parallel to forward %v", ErrInvalidOrientation, up, forward)
	}
	return Orientation{forward: f, up: u}, nil
}

// Forward returns the unit forward vector.
func (o Orientation) Forward() math3d.Vec3 { return o.forward }

// Up returns the unit up vector.
func (o Orientation) Up() math3d.Vec3 { return o.up }

// Right returns up × forward.
func (o Orientation) Right() math3d.Vec3 { return o.up.Cross(o.forward) }

// Rotated returns the orientation turned by q, re-orthonormalized to absorb
// drift.
func (o Orientation) Rotated(q math3d.Quat) Orientation {
	r, err := NewOrientation(q.Rotate(o.forward), q.Rotate(o.up))
	if err != nil {
		return o
	}
	return r
}

// Matrix returns the rotation that carries model forward (+Z) onto Forward
// and model up (+Y) onto Up. The forward alignment is applied first; the
// second rotation turns the already-rotated model up about Forward.
func (o Orientation) Matrix() math3d.Mat4 {
	modelForward, modelUp := math3d.WorldForward(), math3d.WorldUp()

	alignForward := math3d.RotateBetweenVectors(modelForward, o.forward, modelUp)
	rotatedUp := alignForward.MulVec3Dir(modelUp)
	alignUp := math3d.RotateBetweenVectors(rotatedUp, o.up, o.forward)

	return alignUp.Mul(alignForward)
}
