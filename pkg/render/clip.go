package render

import (
	"github.com/taigrr/facet/pkg/math3d"
)

// ClipVertex is a view-space position plus the attributes carried through
// clipping and interpolated at every split.
type ClipVertex struct {
	View  math3d.Vec3 // observer's view space
	World math3d.Vec3 // for shadow lookups
	Model math3d.Vec3 // for gradients
	UV    math3d.Vec3
}

// lerp interpolates every attribute.
func (a ClipVertex) lerp(b ClipVertex, t float64) ClipVertex {
	return ClipVertex{
		View:  a.View.Lerp(b.View, t),
		World: a.World.Lerp(b.World, t),
		Model: a.Model.Lerp(b.Model, t),
		UV:    a.UV.Lerp(b.UV, t),
	}
}

// ClipPolygon clips a convex polygon against each plane in turn
// (Sutherland–Hodgman). A vertex on a plane counts as inside. It returns
// nil once fewer than three vertices survive.
func ClipPolygon(poly []ClipVertex, planes []ClippingPlane) []ClipVertex {
	out := poly
	for _, pl := range planes {
		if len(out) < 3 {
			return nil
		}
		in := out
		out = make([]ClipVertex, 0, len(in)+2)
		for i, cur := range in {
			next := in[(i+1)%len(in)]
			curIn := pl.Distance(cur.View) >= 0
			nextIn := pl.Distance(next.View) >= 0
			if curIn {
				out = append(out, cur)
			}
			if curIn == nextIn {
				continue
			}
			t, ok := math3d.IntersectLinePlane(cur.View, next.View, pl.Point, pl.Normal)
			if !ok {
				// Edge parallel to the plane: nothing to split.
				continue
			}
			out = append(out, cur.lerp(next, math3d.Clamp(t, 0, 1)))
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// ClipTriangle clips one triangle and re-fans the surviving polygon. The
// result is empty when the triangle lies entirely outside any plane.
func ClipTriangle(tri [3]ClipVertex, planes []ClippingPlane) [][3]ClipVertex {
	allIn := true
	for _, pl := range planes {
		d0, d1, d2 := pl.Distance(tri[0].View), pl.Distance(tri[1].View), pl.Distance(tri[2].View)
		if d0 < 0 && d1 < 0 && d2 < 0 {
			return nil
		}
		if d0 < 0 || d1 < 0 || d2 < 0 {
			allIn = false
		}
	}
	if allIn {
		return [][3]ClipVertex{tri}
	}

	poly := ClipPolygon(tri[:], planes)
	if poly == nil {
		return nil
	}
	out := make([][3]ClipVertex, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		out = append(out, [3]ClipVertex{poly[0], poly[i], poly[i+1]})
	}
	return out
}

// ClipEdge clips a segment against every plane. ok is false when nothing
// of it remains.
func ClipEdge(a, b ClipVertex, planes []ClippingPlane) (ClipVertex, ClipVertex, bool) {
	for _, pl := range planes {
		da, db := pl.Distance(a.View), pl.Distance(b.View)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da >= 0 && db >= 0:
			continue
		}
		t, ok := math3d.IntersectLinePlane(a.View, b.View, pl.Point, pl.Normal)
		if !ok {
			return a, b, false
		}
		p := a.lerp(b, math3d.Clamp(t, 0, 1))
		if da < 0 {
			a = p
		} else {
			b = p
		}
	}
	return a, b, true
}
