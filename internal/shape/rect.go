package shape

import (
	"math"

	"github.com/tomz197/shapecollide/internal/geom"
)

// Rect is an axis-aligned rectangle given by its center and full extents.
type Rect struct {
	Center geom.Point
	Width  float64
	Height float64
}

// NewRect creates a rectangle centered at (x, y). Width and height are not validated.
func NewRect(x, y, width, height float64) Rect {
	return Rect{Center: geom.Pt(x, y), Width: width, Height: height}
}

func (Rect) Tag() Tag { return TagRect }
func (Rect) sealed()  {}

// Collides reports whether r and other overlap. Touching edges count as a collision.
func (r Rect) Collides(other Shape) (bool, error) {
	switch tagOf(other) {
	case TagCircle:
		c, err := AsCircle(other)
		if err != nil {
			return false, err
		}
		return circleRect(c, r), nil
	case TagRect:
		o, err := AsRect(other)
		if err != nil {
			return false, err
		}
		return rectRect(r, o), nil
	case TagLine:
		l, err := AsLine(other)
		if err != nil {
			return false, err
		}
		return lineRect(l, r), nil
	default:
		return false, invalidType(tagOf(other))
	}
}

// HalfExtents returns half the width and half the height.
func (r Rect) HalfExtents() (float64, float64) {
	return r.Width / 2, r.Height / 2
}

func (r Rect) Bounds() (geom.Point, geom.Point) {
	hw, hh := r.HalfExtents()
	return geom.Pt(r.Center.X-hw, r.Center.Y-hh), geom.Pt(r.Center.X+hw, r.Center.Y+hh)
}

func (r Rect) Validate() error {
	if !r.Center.Finite() {
		return invalidConversion(TagRect, TagRect, "center is not finite")
	}
	if !(r.Width > 0) || math.IsInf(r.Width, 0) {
		return invalidConversion(TagRect, TagRect, "width must be positive")
	}
	if !(r.Height > 0) || math.IsInf(r.Height, 0) {
		return invalidConversion(TagRect, TagRect, "height must be positive")
	}
	return nil
}

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p geom.Point) bool {
	hw, hh := r.HalfExtents()
	return math.Abs(r.Center.X-p.X) <= hw && math.Abs(r.Center.Y-p.Y) <= hh
}

// Sides returns the four boundary segments in the order top, bottom, left, right.
func (r Rect) Sides() [4]Line {
	hw, hh := r.HalfExtents()
	left, right := r.Center.X-hw, r.Center.X+hw
	bottom, top := r.Center.Y-hh, r.Center.Y+hh
	return [4]Line{
		NewLine(left, top, right, top),
		NewLine(left, bottom, right, bottom),
		NewLine(left, top, left, bottom),
		NewLine(right, top, right, bottom),
	}
}

// rectRect is the AABB overlap test with inclusive boundaries.
func rectRect(a, b Rect) bool {
	ahw, ahh := a.HalfExtents()
	bhw, bhh := b.HalfExtents()
	return math.Abs(a.Center.X-b.Center.X) <= ahw+bhw &&
		math.Abs(a.Center.Y-b.Center.Y) <= ahh+bhh
}
