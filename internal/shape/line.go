package shape

import (
	"iter"
	"math"

	"github.com/tomz197/shapecollide/internal/geom"
)

// Line is the segment between A and B. Neither endpoint is distinguished.
type Line struct {
	A geom.Point
	B geom.Point
}

// NewLine creates the segment from (x1, y1) to (x2, y2).
func NewLine(x1, y1, x2, y2 float64) Line {
	return Line{A: geom.Pt(x1, y1), B: geom.Pt(x2, y2)}
}

func (Line) Tag() Tag { return TagLine }
func (Line) sealed()  {}

// Collides reports whether l and other intersect. Touching at an endpoint
// counts as a collision.
func (l Line) Collides(other Shape) (bool, error) {
	switch tagOf(other) {
	case TagCircle:
		c, err := AsCircle(other)
		if err != nil {
			return false, err
		}
		return lineCircle(l, c), nil
	case TagRect:
		r, err := AsRect(other)
		if err != nil {
			return false, err
		}
		return lineRect(l, r), nil
	case TagLine:
		o, err := AsLine(other)
		if err != nil {
			return false, err
		}
		return lineLine(l, o), nil
	default:
		return false, invalidType(tagOf(other))
	}
}

func (l Line) Bounds() (geom.Point, geom.Point) {
	return geom.Pt(math.Min(l.A.X, l.B.X), math.Min(l.A.Y, l.B.Y)),
		geom.Pt(math.Max(l.A.X, l.B.X), math.Max(l.A.Y, l.B.Y))
}

func (l Line) Validate() error {
	if !l.A.Finite() || !l.B.Finite() {
		return invalidConversion(TagLine, TagLine, "endpoints are not finite")
	}
	if geom.Equal(l.A, l.B) {
		return invalidConversion(TagLine, TagLine, "endpoints must differ")
	}
	return nil
}

// Direction returns B - A.
func (l Line) Direction() geom.Point {
	return geom.Sub(l.B, l.A)
}

// Points yields points along the segment starting at A and stepping toward B
// in max(|dx|, |dy|) increments. B itself is never yielded. The sequence can
// be ranged over any number of times.
func (l Line) Points() iter.Seq[geom.Point] {
	return func(yield func(geom.Point) bool) {
		d := l.Direction()
		count := math.Max(math.Abs(d.X), math.Abs(d.Y))
		if count == 0 {
			return
		}
		step := geom.Scale(d, 1/count)
		for i := 0; float64(i) < count; i++ {
			if !yield(geom.Add(l.A, geom.Scale(step, float64(i)))) {
				return
			}
		}
	}
}

// lineCircle reports a hit when either endpoint is inside the circle or the
// parametric segment A + t(B-A) meets the circle for some t in [0, 1].
func lineCircle(l Line, c Circle) bool {
	if c.Contains(l.A) || c.Contains(l.B) {
		return true
	}

	d := l.Direction()
	f := geom.Sub(l.A, c.Center)

	a := geom.Dot(d, d)
	if a == 0 {
		// Zero-length segment: the endpoint checks above are exhaustive.
		return false
	}
	b := 2 * geom.Dot(f, d)
	cc := geom.Dot(f, f) - c.Radius*c.Radius

	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return false
	}
	discriminant = math.Sqrt(discriminant)

	t1 := (-b - discriminant) / (2 * a)
	if t1 >= 0 && t1 <= 1 {
		return true
	}
	t2 := (-b + discriminant) / (2 * a)
	return t2 >= 0 && t2 <= 1
}

// lineRect reports a hit when either endpoint is inside the rectangle or the
// segment crosses one of its sides.
func lineRect(l Line, r Rect) bool {
	if r.Contains(l.A) || r.Contains(l.B) {
		return true
	}
	for _, side := range r.Sides() {
		if lineLine(side, l) {
			return true
		}
	}
	return false
}

// lineLine intersects two segments p + t*r and q + u*s.
func lineLine(l, o Line) bool {
	r := l.Direction()
	s := o.Direction()
	qp := geom.Sub(o.A, l.A)

	uNumerator := geom.Cross(qp, r)
	denominator := geom.Cross(r, s)

	if uNumerator == 0 && denominator == 0 {
		// Collinear: touching endpoints, or projections that overlap on either axis.
		if geom.Equal(l.A, o.A) || geom.Equal(l.A, o.B) ||
			geom.Equal(l.B, o.A) || geom.Equal(l.B, o.B) {
			return true
		}
		return !allSame(
			o.A.X-l.A.X < 0,
			o.A.X-l.B.X < 0,
			o.B.X-l.A.X < 0,
			o.B.X-l.B.X < 0,
		) || !allSame(
			o.A.Y-l.A.Y < 0,
			o.A.Y-l.B.Y < 0,
			o.B.Y-l.A.Y < 0,
			o.B.Y-l.B.Y < 0,
		)
	}

	if denominator == 0 {
		// Parallel, not collinear.
		return false
	}

	u := uNumerator / denominator
	t := geom.Cross(qp, s) / denominator
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

func allSame(a, b, c, d bool) bool {
	return a == b && b == c && c == d
}
