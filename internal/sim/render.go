package sim

import (
	"math"

	"github.com/partsim/partsim/internal/core/stage"
)

// Vertex is one corner of a render triangle, in world coordinates with the
// particle's tint. Fifteen vertices (a five-triangle fan) approximate each
// circle.
type Vertex struct {
	X, Y       float32
	R, G, B, A uint8
}

const (
	fanSegments = 5
	fanTurn     = 6.28
)

// Unit rim offsets, one per fan angle. Index fanSegments lands just short of
// index 0 because fanTurn is not a full 2π; the sliver is invisible at
// particle scale and keeps the table identical to the classic demo's.
var fanTable = func() [fanSegments + 1][2]float64 {
	var t [fanSegments + 1][2]float64
	for i := range t {
		a := fanTurn * float64(i) / fanSegments
		t[i][0] = math.Cos(a)
		t[i][1] = math.Sin(a)
	}
	return t
}()

// RenderStage builds the frame's triangle list into a double-buffered vertex
// output; the viewer (when present) draws the front buffer one frame behind.
type RenderStage struct {
	c     *Components
	verts *stage.Buffer[Vertex]
	deps  []string
}

func NewRenderStage(c *Components, verts *stage.Buffer[Vertex], deps ...string) *RenderStage {
	return &RenderStage{c: c, verts: verts, deps: deps}
}

func (s *RenderStage) Name() string           { return "render" }
func (s *RenderStage) Dependencies() []string { return s.deps }
func (s *RenderStage) Reads() stage.Access    { return ColPosition | ColCircle | ColColor }
func (s *RenderStage) Writes() stage.Access   { return stage.AccessNone }
func (s *RenderStage) Len() int               { return s.c.Shape.Len() }

func (s *RenderStage) RunRange(ctx stage.Context, start, end int) {
	for i := start; i < end; i++ {
		id, sh := s.c.Shape.At(i)
		pos := s.c.Pos.MustGet(id)
		col := s.c.Col.MustGet(id)

		center := Vertex{
			X: float32(pos.V.X), Y: float32(pos.V.Y),
			R: col.R, G: col.G, B: col.B, A: col.A,
		}
		for seg := 0; seg < fanSegments; seg++ {
			s.verts.Append(ctx.Worker, center)
			s.verts.Append(ctx.Worker, rimVertex(center, pos.V.X, pos.V.Y, sh.Radius, seg))
			s.verts.Append(ctx.Worker, rimVertex(center, pos.V.X, pos.V.Y, sh.Radius, seg+1))
		}
	}
}

func rimVertex(tint Vertex, x, y, r float64, i int) Vertex {
	tint.X = float32(x + fanTable[i][0]*r)
	tint.Y = float32(y + fanTable[i][1]*r)
	return tint
}
