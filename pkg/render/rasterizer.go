package render

import (
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// windowVertex is a clipped vertex after projection: window x and y,
// normalized depth, and 1/w for perspective-correct interpolation.
type windowVertex struct {
	X, Y, Z float64
	InvW    float64
	Attr    ClipVertex
}

// fragment is a covered pixel that passed the depth test.
type fragment struct {
	X, Y  int
	Depth float64
	Attr  ClipVertex
}

// shadeFunc colours a fragment. A nil shadeFunc makes a depth-only pass.
type shadeFunc func(f *fragment) Color

// Rasterizer scan-converts window-space triangles and lines into a depth
// buffer and, when it has one, a framebuffer. Pixel centres sit at integer
// window coordinates.
type Rasterizer struct {
	depth *DepthBuffer
	fb    *Framebuffer
	stats *Stats
}

// NewRasterizer creates a rasterizer over depth and an optional fb.
func NewRasterizer(depth *DepthBuffer, fb *Framebuffer, stats *Stats) *Rasterizer {
	if stats == nil {
		stats = &Stats{}
	}
	return &Rasterizer{depth: depth, fb: fb, stats: stats}
}

// barycentricEpsilon admits pixels that sit on a shared edge.
const barycentricEpsilon = 1e-9

// edgeCoeffs returns A, B, C of the edge function A*x + B*y + C for the
// directed edge (x0,y0)→(x1,y1).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// interpolate blends vertex attributes with perspective correction.
func interpolate(v *[3]windowVertex, b0, b1, b2 float64) ClipVertex {
	p0, p1, p2 := b0*v[0].InvW, b1*v[1].InvW, b2*v[2].InvW
	sum := p0 + p1 + p2
	if sum == 0 {
		p0, p1, p2, sum = b0, b1, b2, 1
	}
	p0, p1, p2 = p0/sum, p1/sum, p2/sum

	blend := func(a, b, c math3d.Vec3) math3d.Vec3 {
		return a.Scale(p0).Add(b.Scale(p1)).Add(c.Scale(p2))
	}
	return ClipVertex{
		View:  blend(v[0].Attr.View, v[1].Attr.View, v[2].Attr.View),
		World: blend(v[0].Attr.World, v[1].Attr.World, v[2].Attr.World),
		Model: blend(v[0].Attr.Model, v[1].Attr.Model, v[2].Attr.Model),
		UV:    blend(v[0].Attr.UV, v[1].Attr.UV, v[2].Attr.UV),
	}
}

// fillTriangle rasterizes one window-space triangle with either winding.
func (r *Rasterizer) fillTriangle(v [3]windowVertex, shade shadeFunc) error {
	area2 := (v[1].X-v[0].X)*(v[2].Y-v[0].Y) - (v[1].Y-v[0].Y)*(v[2].X-v[0].X)
	if math.Abs(area2) < 1e-12 {
		return nil
	}
	invArea := 1 / area2

	w, h := r.depth.Width(), r.depth.Height()
	minX := max(0, int(math.Ceil(min3(v[0].X, v[1].X, v[2].X)-barycentricEpsilon)))
	maxX := min(w-1, int(math.Floor(max3(v[0].X, v[1].X, v[2].X)+barycentricEpsilon)))
	minY := max(0, int(math.Ceil(min3(v[0].Y, v[1].Y, v[2].Y)-barycentricEpsilon)))
	maxY := min(h-1, int(math.Floor(max3(v[0].Y, v[1].Y, v[2].Y)+barycentricEpsilon)))
	if minX > maxX || minY > maxY {
		return nil
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(v[1].X, v[1].Y, v[2].X, v[2].Y)
	A1, B1, C1 := edgeCoeffs(v[2].X, v[2].Y, v[0].X, v[0].Y)
	A2, B2, C2 := edgeCoeffs(v[0].X, v[0].Y, v[1].X, v[1].Y)

	px, py := float64(minX), float64(minY)
	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	var frag fragment
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row

		for x := minX; x <= maxX; x++ {
			b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea
			if b0 >= -barycentricEpsilon && b1 >= -barycentricEpsilon && b2 >= -barycentricEpsilon {
				z := b0*v[0].Z + b1*v[1].Z + b2*v[2].Z
				written, err := r.depth.AddPoint(x, y, z)
				if err != nil {
					return err
				}
				if written {
					r.stats.PixelsWritten++
					if shade != nil && r.fb != nil {
						frag = fragment{X: x, Y: y, Depth: z, Attr: interpolate(&v, b0, b1, b2)}
						r.fb.SetPixel(x, y, shade(&frag))
					}
				}
			}

			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
	return nil
}

// drawLine steps along the segment one pixel at a time with depth testing.
// bias pulls the line toward the observer so edges win over the faces
// they bound.
func (r *Rasterizer) drawLine(a, b windowVertex, bias float64, shade shadeFunc) error {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		steps = 1
	}

	var frag fragment
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(a.X + dx*t))
		y := int(math.Round(a.Y + dy*t))
		z := a.Z + (b.Z-a.Z)*t - bias

		written, err := r.depth.AddPoint(x, y, z)
		if err != nil {
			return err
		}
		if !written {
			continue
		}
		r.stats.PixelsWritten++
		if shade == nil || r.fb == nil {
			continue
		}

		// Perspective-correct parameter along the segment.
		pa, pb := (1-t)*a.InvW, t*b.InvW
		tc := t
		if s := pa + pb; s != 0 {
			tc = pb / s
		}
		frag = fragment{X: x, Y: y, Depth: z, Attr: a.Attr.lerp(b.Attr, tc)}
		r.fb.SetPixel(x, y, shade(&frag))
	}
	return nil
}
