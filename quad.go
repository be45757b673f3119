package sdfatlas

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// Vertex is one corner of a glyph quad.
type Vertex struct {
	Position mgl32.Vec2
	TexCoord mgl32.Vec2
}

// vertexStride is the byte size of Vertex: two vec2<f32>.
const vertexStride = 16

// QuadIndices triangulates the corners returned by FontAtlas.Quad.
var QuadIndices = [6]uint16{0, 1, 2, 2, 1, 3}

// VertexLayout describes Vertex for a render pipeline: position at shader
// location 0, texture coordinate at location 1.
func VertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: vertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex coord
		},
	}
}

// Quad returns the corners of the cell of glyph index i, placed with its top
// left corner at (x, y) and scaled by scale. Corners are ordered top-left,
// top-right, bottom-left, bottom-right.
func (a *FontAtlas) Quad(i int, x, y, scale float32) [4]Vertex {
	g := a.Glyphs[i]
	side := float32(a.CellSize()) * scale
	tl := mgl32.Vec2{x, y}
	br := tl.Add(mgl32.Vec2{side, side})

	return [4]Vertex{
		{Position: tl, TexCoord: mgl32.Vec2{g.TopLeft.U, g.TopLeft.V}},
		{Position: mgl32.Vec2{br.X(), tl.Y()}, TexCoord: mgl32.Vec2{g.BottomRight.U, g.TopLeft.V}},
		{Position: mgl32.Vec2{tl.X(), br.Y()}, TexCoord: mgl32.Vec2{g.TopLeft.U, g.BottomRight.V}},
		{Position: br, TexCoord: mgl32.Vec2{g.BottomRight.U, g.BottomRight.V}},
	}
}
