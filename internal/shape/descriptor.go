package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// Descriptor is the serialized form of a shape as callers send it. Optional
// fields are pointers so that an absent field can be told apart from zero.
type Descriptor struct {
	Type   string   `json:"type" yaml:"type"`
	X      float64  `json:"x" yaml:"x"`
	Y      float64  `json:"y" yaml:"y"`
	Radius *float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty"`
	X2     *float64 `json:"x2,omitempty" yaml:"x2,omitempty"`
	Y2     *float64 `json:"y2,omitempty" yaml:"y2,omitempty"`
}

// F returns a pointer to v, for filling optional Descriptor fields.
func F(v float64) *float64 {
	return &v
}

// Shape converts d to its concrete variant and validates it.
func (d Descriptor) Shape() (Shape, error) {
	tag := ParseTag(d.Type)
	var s Shape
	switch tag {
	case TagCircle:
		if d.Radius == nil {
			return nil, invalidConversion(tag, tag, "missing radius")
		}
		s = NewCircle(d.X, d.Y, *d.Radius)
	case TagRect:
		if d.Width == nil || d.Height == nil {
			return nil, invalidConversion(tag, tag, "missing width or height")
		}
		s = NewRect(d.X, d.Y, *d.Width, *d.Height)
	case TagLine:
		if d.X2 == nil || d.Y2 == nil {
			return nil, invalidConversion(tag, tag, "missing second endpoint")
		}
		s = NewLine(d.X, d.Y, *d.X2, *d.Y2)
	default:
		return nil, invalidTypeName(d.Type)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DescriptorOf returns the serialized form of s.
func DescriptorOf(s Shape) Descriptor {
	switch v := s.(type) {
	case Circle:
		return Descriptor{Type: TagCircle.String(), X: v.Center.X, Y: v.Center.Y, Radius: F(v.Radius)}
	case Rect:
		return Descriptor{Type: TagRect.String(), X: v.Center.X, Y: v.Center.Y, Width: F(v.Width), Height: F(v.Height)}
	case Line:
		return Descriptor{Type: TagLine.String(), X: v.A.X, Y: v.A.Y, X2: F(v.B.X), Y2: F(v.B.Y)}
	default:
		return Descriptor{Type: TagInvalid.String()}
	}
}

// String renders d in the text form accepted by ParseDescriptor.
func (d Descriptor) String() string {
	num := func(p *float64) string {
		if p == nil {
			return "?"
		}
		return strconv.FormatFloat(*p, 'g', -1, 64)
	}
	x := strconv.FormatFloat(d.X, 'g', -1, 64)
	y := strconv.FormatFloat(d.Y, 'g', -1, 64)
	switch ParseTag(d.Type) {
	case TagCircle:
		return fmt.Sprintf("circle %s %s %s", x, y, num(d.Radius))
	case TagRect:
		return fmt.Sprintf("rect %s %s %s %s", x, y, num(d.Width), num(d.Height))
	case TagLine:
		return fmt.Sprintf("line %s %s %s %s", x, y, num(d.X2), num(d.Y2))
	default:
		return d.Type
	}
}

// arity returns how many numbers follow the type name in the text form.
func arity(tag Tag) int {
	switch tag {
	case TagCircle:
		return 3
	case TagRect, TagLine:
		return 4
	default:
		return 0
	}
}

// ParseDescriptor parses the text form of a single shape:
//
//	circle x y r
//	rect x y w h
//	line x1 y1 x2 y2
//
// Commas may be used in place of spaces.
func ParseDescriptor(text string) (Descriptor, error) {
	d, rest, err := parseTokens(tokenize(text))
	if err != nil {
		return Descriptor{}, err
	}
	if len(rest) > 0 {
		return Descriptor{}, fmt.Errorf("unexpected input %q", strings.Join(rest, " "))
	}
	return d, nil
}

// ParsePair parses two shapes from one line, optionally separated by "|" or "vs":
//
//	circle 10 10 2 | rect 9 9 1 1
func ParsePair(text string) (Descriptor, Descriptor, error) {
	tokens := tokenize(text)
	a, rest, err := parseTokens(tokens)
	if err != nil {
		return Descriptor{}, Descriptor{}, err
	}
	if len(rest) > 0 && (rest[0] == "|" || strings.EqualFold(rest[0], "vs")) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return Descriptor{}, Descriptor{}, fmt.Errorf("expected a second shape")
	}
	b, rest, err := parseTokens(rest)
	if err != nil {
		return Descriptor{}, Descriptor{}, err
	}
	if len(rest) > 0 {
		return Descriptor{}, Descriptor{}, fmt.Errorf("unexpected input %q", strings.Join(rest, " "))
	}
	return a, b, nil
}

func tokenize(text string) []string {
	return strings.Fields(strings.ReplaceAll(text, ",", " "))
}

func parseTokens(tokens []string) (Descriptor, []string, error) {
	if len(tokens) == 0 {
		return Descriptor{}, nil, invalidTypeName("")
	}
	tag := ParseTag(tokens[0])
	n := arity(tag)
	if n == 0 {
		return Descriptor{}, nil, invalidTypeName(tokens[0])
	}
	if len(tokens) < n+1 {
		return Descriptor{}, nil, invalidConversion(tag, tag,
			fmt.Sprintf("expected %d numbers, got %d", n, len(tokens)-1))
	}

	nums := make([]float64, n)
	for i := range nums {
		v, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return Descriptor{}, nil, invalidConversion(tag, tag, fmt.Sprintf("%q is not a number", tokens[i+1]))
		}
		nums[i] = v
	}

	d := Descriptor{Type: tag.String(), X: nums[0], Y: nums[1]}
	switch tag {
	case TagCircle:
		d.Radius = F(nums[2])
	case TagRect:
		d.Width, d.Height = F(nums[2]), F(nums[3])
	case TagLine:
		d.X2, d.Y2 = F(nums[2]), F(nums[3])
	}
	return d, tokens[n+1:], nil
}
