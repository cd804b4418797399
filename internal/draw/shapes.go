package draw

import (
	"math"

	"github.com/tomz197/shapecollide/internal/geom"
	"github.com/tomz197/shapecollide/internal/shape"
)

const (
	circleSegments = 48
	// Longer segments are drawn as one Bresenham line instead of rasterized per point.
	maxRasterPoints = 4096
	marginRatio     = 0.1
)

// Viewport maps world coordinates (y up) onto a canvas's logical space (y down)
// with a uniform scale, so circles stay round.
type Viewport struct {
	min    geom.Point
	scale  float64
	offset Point
	height float64
}

// FitViewport fits the world box [lo, hi] plus a margin into a logical area
// of the given size, centered on both axes.
func FitViewport(lo, hi geom.Point, width, height float64) Viewport {
	w, h := hi.X-lo.X, hi.Y-lo.Y
	if w <= 0 {
		lo.X, w = lo.X-0.5, 1
	}
	if h <= 0 {
		lo.Y, h = lo.Y-0.5, 1
	}
	margin := marginRatio * math.Max(w, h)
	lo = geom.Pt(lo.X-margin, lo.Y-margin)
	w, h = w+2*margin, h+2*margin

	scale := math.Min(width/w, height/h)
	return Viewport{
		min:    lo,
		scale:  scale,
		offset: Point{X: (width - w*scale) / 2, Y: (height - h*scale) / 2},
		height: height,
	}
}

// Map converts a world point to logical canvas coordinates.
func (v Viewport) Map(p geom.Point) Point {
	return Point{
		X: v.offset.X + (p.X-v.min.X)*v.scale,
		Y: v.height - v.offset.Y - (p.Y-v.min.Y)*v.scale,
	}
}

// BoundsOf returns the union of the bounding boxes of shapes.
func BoundsOf(shapes ...shape.Shape) (geom.Point, geom.Point) {
	if len(shapes) == 0 {
		return geom.Point{}, geom.Point{}
	}
	lo, hi := shapes[0].Bounds()
	for _, s := range shapes[1:] {
		l, h := s.Bounds()
		lo = geom.Pt(math.Min(lo.X, l.X), math.Min(lo.Y, l.Y))
		hi = geom.Pt(math.Max(hi.X, h.X), math.Max(hi.Y, h.Y))
	}
	return lo, hi
}

// RenderShapes clears the canvas and draws shapes fitted to its logical area.
func RenderShapes(c *Canvas, shapes ...shape.Shape) Viewport {
	c.Clear()
	lo, hi := BoundsOf(shapes...)
	v := FitViewport(lo, hi, c.LogicalWidth(), c.LogicalHeight())
	for _, s := range shapes {
		DrawShape(c, v, s)
	}
	return v
}

// DrawShape draws the outline of s.
func DrawShape(c *Canvas, v Viewport, s shape.Shape) {
	switch s := s.(type) {
	case shape.Circle:
		drawCircle(c, v, s)
	case shape.Rect:
		for _, side := range s.Sides() {
			c.DrawLine(v.Map(side.A), v.Map(side.B))
		}
	case shape.Line:
		drawSegment(c, v, s)
	}
}

func drawCircle(c *Canvas, v Viewport, circle shape.Circle) {
	points := c.BorrowPoints(circleSegments)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / circleSegments
		points[i] = v.Map(geom.Pt(
			circle.Center.X+circle.Radius*math.Cos(angle),
			circle.Center.Y+circle.Radius*math.Sin(angle),
		))
	}
	c.DrawPolygon(points)
}

// drawSegment joins the rasterized points of l and closes on its far endpoint.
func drawSegment(c *Canvas, v Viewport, l shape.Line) {
	d := l.Direction()
	if math.Max(math.Abs(d.X), math.Abs(d.Y)) > maxRasterPoints {
		c.DrawLine(v.Map(l.A), v.Map(l.B))
		return
	}
	prev := v.Map(l.A)
	for p := range l.Points() {
		next := v.Map(p)
		c.DrawLine(prev, next)
		prev = next
	}
	c.DrawLine(prev, v.Map(l.B))
}
