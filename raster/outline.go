// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

// Point is a 2D point in pixel units. Y grows downward.
type Point struct {
	X, Y float32
}

// Op is the type of an outline segment.
type Op uint8

const (
	// OpMoveTo starts a new contour.
	OpMoveTo Op = iota

	// OpLineTo draws a line to the target point.
	OpLineTo

	// OpQuadTo draws a quadratic bezier curve.
	OpQuadTo

	// OpCubeTo draws a cubic bezier curve.
	OpCubeTo
)

// String returns a string representation of the operation.
func (op Op) String() string {
	switch op {
	case OpMoveTo:
		return "MoveTo"
	case OpLineTo:
		return "LineTo"
	case OpQuadTo:
		return "QuadTo"
	case OpCubeTo:
		return "CubeTo"
	default:
		return "Unknown"
	}
}

// pointCount returns how many of Segment.Args are used by op.
func (op Op) pointCount() int {
	switch op {
	case OpQuadTo:
		return 2
	case OpCubeTo:
		return 3
	default:
		return 1
	}
}

// Segment is one path operation of a glyph outline.
//   - MoveTo, LineTo: Args[0] is the target point
//   - QuadTo: Args[0] is the control point, Args[1] the target
//   - CubeTo: Args[0], Args[1] are control points, Args[2] the target
type Segment struct {
	Op   Op
	Args [3]Point
}

// Outline is the vector outline of one glyph in pixel units at the
// requested point size, relative to the glyph origin on the baseline.
// Contours are implicitly closed.
type Outline struct {
	Segments []Segment
}

// IsEmpty returns true if the outline has no segments.
func (o *Outline) IsEmpty() bool {
	return o == nil || len(o.Segments) == 0
}

// Bounds returns the control-point bounding box of the outline.
// Returns ok=false for an empty outline.
func (o *Outline) Bounds() (minPt, maxPt Point, ok bool) {
	if o.IsEmpty() {
		return Point{}, Point{}, false
	}
	minPt = Point{X: 1e30, Y: 1e30}
	maxPt = Point{X: -1e30, Y: -1e30}
	for _, seg := range o.Segments {
		for j := range seg.Op.pointCount() {
			p := seg.Args[j]
			minPt.X = min(minPt.X, p.X)
			minPt.Y = min(minPt.Y, p.Y)
			maxPt.X = max(maxPt.X, p.X)
			maxPt.Y = max(maxPt.Y, p.Y)
		}
	}
	return minPt, maxPt, true
}

// Transform returns a new outline with every point mapped to p*scale + offset.
func (o *Outline) Transform(scale float32, offset Point) *Outline {
	if o == nil {
		return nil
	}
	out := &Outline{Segments: make([]Segment, len(o.Segments))}
	for i, seg := range o.Segments {
		out.Segments[i].Op = seg.Op
		for j := range seg.Op.pointCount() {
			out.Segments[i].Args[j] = Point{
				X: seg.Args[j].X*scale + offset.X,
				Y: seg.Args[j].Y*scale + offset.Y,
			}
		}
	}
	return out
}

// Rect returns a closed axis-aligned rectangle outline from (x0, y0) to
// (x1, y1). It is mostly useful for synthetic fonts in tests and tools.
func Rect(x0, y0, x1, y1 float32) *Outline {
	return &Outline{Segments: []Segment{
		{Op: OpMoveTo, Args: [3]Point{{X: x0, Y: y0}}},
		{Op: OpLineTo, Args: [3]Point{{X: x1, Y: y0}}},
		{Op: OpLineTo, Args: [3]Point{{X: x1, Y: y1}}},
		{Op: OpLineTo, Args: [3]Point{{X: x0, Y: y1}}},
	}}
}
