// Package shape implements pairwise collision detection between circles,
// axis-aligned rectangles and line segments.
//
// Every shape carries a Tag identifying its variant. A Collides call
// dispatches on the tag of its argument, converts the argument to the
// concrete variant and runs the test for that ordered pair. Each ordered pair
// has its own code path; the results agree with their mirror pair.
package shape

import (
	"strings"

	"github.com/tomz197/shapecollide/internal/geom"
)

// Tag identifies the concrete variant of a Shape.
type Tag uint8

const (
	TagInvalid Tag = iota
	TagCircle
	TagRect
	TagLine
)

func (t Tag) String() string {
	switch t {
	case TagCircle:
		return "circle"
	case TagRect:
		return "rect"
	case TagLine:
		return "line"
	default:
		return "invalid"
	}
}

// ParseTag maps a shape type name to its Tag. "rectangle" is accepted as an
// alias for "rect". Unknown names return TagInvalid.
func ParseTag(name string) Tag {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle":
		return TagCircle
	case "rect", "rectangle":
		return TagRect
	case "line":
		return TagLine
	default:
		return TagInvalid
	}
}

// Shape is the closed set {Circle, Rect, Line}. It cannot be implemented
// outside this package.
type Shape interface {
	// Tag returns the variant discriminant.
	Tag() Tag
	// Collides reports whether the receiver and other overlap or touch.
	Collides(other Shape) (bool, error)
	// Bounds returns the axis-aligned bounding box as its min and max corners.
	Bounds() (min, max geom.Point)
	// Validate reports whether the shape is non-degenerate.
	Validate() error

	sealed()
}

// Compile-time checks that all variants implement Shape.
var (
	_ Shape = Circle{}
	_ Shape = Rect{}
	_ Shape = Line{}
)

// Collides reports whether a and b collide. It is the entry point used by
// callers that hold two shapes of unknown variant.
func Collides(a, b Shape) (bool, error) {
	if a == nil {
		return false, invalidType(TagInvalid)
	}
	return a.Collides(b)
}

// tagOf returns the tag of s, treating a nil shape as invalid.
func tagOf(s Shape) Tag {
	if s == nil {
		return TagInvalid
	}
	return s.Tag()
}

// AsCircle converts s to a Circle.
func AsCircle(s Shape) (Circle, error) {
	c, ok := s.(Circle)
	if !ok {
		return Circle{}, invalidConversion(tagOf(s), TagCircle, "")
	}
	return c, nil
}

// AsRect converts s to a Rect.
func AsRect(s Shape) (Rect, error) {
	r, ok := s.(Rect)
	if !ok {
		return Rect{}, invalidConversion(tagOf(s), TagRect, "")
	}
	return r, nil
}

// AsLine converts s to a Line.
func AsLine(s Shape) (Line, error) {
	l, ok := s.(Line)
	if !ok {
		return Line{}, invalidConversion(tagOf(s), TagLine, "")
	}
	return l, nil
}
