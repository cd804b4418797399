package shape

import (
	"math"

	"github.com/tomz197/shapecollide/internal/geom"
)

// Circle is a circle given by its center and radius.
type Circle struct {
	Center geom.Point
	Radius float64
}

// NewCircle creates a circle centered at (x, y). The radius is not validated.
func NewCircle(x, y, radius float64) Circle {
	return Circle{Center: geom.Pt(x, y), Radius: radius}
}

func (Circle) Tag() Tag { return TagCircle }
func (Circle) sealed()  {}

// Collides reports whether c and other overlap. Tangency counts as a collision.
func (c Circle) Collides(other Shape) (bool, error) {
	switch tagOf(other) {
	case TagCircle:
		o, err := AsCircle(other)
		if err != nil {
			return false, err
		}
		return circleCircle(c, o), nil
	case TagRect:
		r, err := AsRect(other)
		if err != nil {
			return false, err
		}
		return circleRect(c, r), nil
	case TagLine:
		l, err := AsLine(other)
		if err != nil {
			return false, err
		}
		return lineCircle(l, c), nil
	default:
		return false, invalidType(tagOf(other))
	}
}

func (c Circle) Bounds() (geom.Point, geom.Point) {
	return geom.Pt(c.Center.X-c.Radius, c.Center.Y-c.Radius),
		geom.Pt(c.Center.X+c.Radius, c.Center.Y+c.Radius)
}

func (c Circle) Validate() error {
	if !c.Center.Finite() {
		return invalidConversion(TagCircle, TagCircle, "center is not finite")
	}
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return invalidConversion(TagCircle, TagCircle, "radius must be positive")
	}
	return nil
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p geom.Point) bool {
	return geom.Distance(c.Center, p) <= c.Radius
}

// circleCircle compares the center distance with the sum of radii.
func circleCircle(a, b Circle) bool {
	return geom.Distance(a.Center, b.Center) <= a.Radius+b.Radius
}

// circleRect clamps the circle center into the rectangle and compares the
// squared distance to the clamped point with the squared radius. A center
// inside the rectangle clamps to itself.
func circleRect(c Circle, r Rect) bool {
	hw, hh := r.HalfExtents()
	nearest := geom.Pt(
		geom.Clamp(c.Center.X, r.Center.X-hw, r.Center.X+hw),
		geom.Clamp(c.Center.Y, r.Center.Y-hh, r.Center.Y+hh),
	)
	return geom.DistanceSquared(c.Center, nearest) <= c.Radius*c.Radius
}
