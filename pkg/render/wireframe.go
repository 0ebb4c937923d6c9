package render

import (
	"context"

	"github.com/taigrr/facet/pkg/models"
)

// edgeBias pulls edges toward the observer, in normalized depth, so they
// draw over the faces they bound.
const edgeBias = 2 * DepthEpsilon

// drawEdges draws the edges of st, whose vertices are already in the
// pass's scratch buffers, as depth-tested lines. Line structures use the
// first face's colour when they have one.
func (p *pass) drawEdges(ctx context.Context, st *models.Structure, c Color) error {
	if len(st.Triangles) == 0 && len(st.Faces) > 0 {
		c = st.Faces[0].Appearance.Color
	}
	var shade shadeFunc
	if p.shader != nil {
		shade = func(*fragment) Color { return c }
	}

	planes := p.view.planes[:]
	for i, e := range st.Edges {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		a := p.clipVertex(st, e.V[0], models.NoTexture)
		b := p.clipVertex(st, e.V[1], models.NoTexture)
		a, b, ok := ClipEdge(a, b, planes)
		if !ok {
			continue
		}
		if err := p.raster.drawLine(p.project(a), p.project(b), edgeBias, shade); err != nil {
			return err
		}
		p.stats.EdgesDrawn++
	}
	return nil
}
