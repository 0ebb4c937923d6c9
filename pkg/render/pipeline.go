package render

import (
	"context"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// Stats counts the work done by one frame or shadow pass.
type Stats struct {
	Objects          int
	ObjectsCulled    int
	TrianglesIn      int
	TrianglesClipped int // entirely outside the view volume
	TrianglesDrawn   int // after clipping, so one input may count several times
	BackFaces        int
	Degenerate       int
	EdgesDrawn       int
	PixelsWritten    int
	PointsDropped    int
	Duration         time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("objects", s.Objects)
	enc.AddInt("objects_culled", s.ObjectsCulled)
	enc.AddInt("triangles_in", s.TrianglesIn)
	enc.AddInt("triangles_clipped", s.TrianglesClipped)
	enc.AddInt("triangles_drawn", s.TrianglesDrawn)
	enc.AddInt("back_faces", s.BackFaces)
	enc.AddInt("degenerate", s.Degenerate)
	enc.AddInt("edges_drawn", s.EdgesDrawn)
	enc.AddInt("pixels_written", s.PixelsWritten)
	enc.AddInt("points_dropped", s.PointsDropped)
	enc.AddDuration("duration", s.Duration)
	return nil
}

// surface is what a shader knows about the triangle being filled.
type surface struct {
	appearance           models.Appearance
	textured             bool        // the triangle has texture vertices
	normal               math3d.Vec3 // unit, view space
	boundsMin, boundsMax math3d.Vec3 // model space, for gradients
}

// shaderFor returns the fragment shader for a surface, or nil for a
// depth-only pass.
type shaderFor func(s *surface) shadeFunc

// pass draws structures as seen by one observer into one rasterizer.
type pass struct {
	view    viewState
	frustum Frustum
	raster  *Rasterizer
	stats   *Stats
	cull    bool
	shader  shaderFor

	// per-structure scratch, reused between draws
	viewPos, worldPos []math3d.Vec3
}

func newPass(view viewState, raster *Rasterizer, stats *Stats) *pass {
	return &pass{
		view:    view,
		frustum: FrustumFromPlanes(view.planes),
		raster:  raster,
		stats:   stats,
	}
}

// ctxCheckInterval is how many triangles are drawn between cancellation
// checks.
const ctxCheckInterval = 64

// project maps a clipped vertex into window space.
func (p *pass) project(c ClipVertex) windowVertex {
	clip := p.view.viewToScreen.MulVec4(math3d.Point(c.View))
	invW := 1.0
	if clip.W != 0 {
		invW = 1 / clip.W
	}
	w := p.view.screenToWindow.MulVec3(clip.PerspectiveDivide())
	return windowVertex{X: w.X, Y: w.Y, Z: w.Z, InvW: invW, Attr: c}
}

func (p *pass) clipVertex(st *models.Structure, vi, ti int) ClipVertex {
	c := ClipVertex{View: p.viewPos[vi], World: p.worldPos[vi], Model: st.Position(vi)}
	if ti >= 0 && ti < len(st.TextureVertices) {
		c.UV = st.TextureVertices[ti].UV
	}
	return c
}

// drawStructure draws every visible triangle of st placed by modelToWorld.
// A structure without triangles, or any structure when edges is set, also
// has its edges drawn.
func (p *pass) drawStructure(ctx context.Context, st *models.Structure, modelToWorld math3d.Mat4, edges bool, edgeColor Color) error {
	if st == nil || len(st.Vertices) == 0 {
		return nil
	}
	p.stats.Objects++

	modelToView := p.view.worldToView.Mul(modelToWorld)
	bounds := AABB{Min: st.BoundsMin, Max: st.BoundsMax}.Transform(modelToView)
	if !p.frustum.IntersectAABB(bounds) {
		p.stats.ObjectsCulled++
		return nil
	}

	p.viewPos = p.viewPos[:0]
	p.worldPos = p.worldPos[:0]
	for i := range st.Vertices {
		m := st.Position(i)
		p.viewPos = append(p.viewPos, modelToView.MulVec3(m))
		p.worldPos = append(p.worldPos, modelToWorld.MulVec3(m))
	}

	planes := p.view.planes[:]
	faceOf := st.FaceOf()
	for ti, tri := range st.Triangles {
		if ti%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		p.stats.TrianglesIn++

		appearance := models.DefaultAppearance()
		if fi := faceOf[ti]; fi >= 0 {
			if !st.Faces[fi].Visible {
				continue
			}
			appearance = st.Faces[fi].Appearance
		}

		v0, v1, v2 := p.viewPos[tri.V[0]], p.viewPos[tri.V[1]], p.viewPos[tri.V[2]]
		normal, err := math3d.NormalFromPlane(v0, v1, v2)
		if err != nil {
			p.stats.Degenerate++
			continue
		}
		if p.cull {
			centroid := v0.Add(v1).Add(v2).Scale(1.0 / 3)
			if normal.Dot(p.view.proj.ViewDirection(centroid)) >= 0 {
				p.stats.BackFaces++
				continue
			}
		}

		var in [3]ClipVertex
		for k := range 3 {
			tex := models.NoTexture
			if tri.Textured() {
				tex = tri.T[k]
			}
			in[k] = p.clipVertex(st, tri.V[k], tex)
		}
		clipped := ClipTriangle(in, planes)
		if len(clipped) == 0 {
			p.stats.TrianglesClipped++
			continue
		}

		var shade shadeFunc
		if p.shader != nil {
			shade = p.shader(&surface{
				appearance: appearance,
				textured:   tri.Textured(),
				normal:     normal,
				boundsMin:  st.BoundsMin,
				boundsMax:  st.BoundsMax,
			})
		}
		for _, c := range clipped {
			w := [3]windowVertex{p.project(c[0]), p.project(c[1]), p.project(c[2])}
			if err := p.raster.fillTriangle(w, shade); err != nil {
				return err
			}
			p.stats.TrianglesDrawn++
		}
	}

	if edges || len(st.Triangles) == 0 {
		return p.drawEdges(ctx, st, edgeColor)
	}
	return nil
}
