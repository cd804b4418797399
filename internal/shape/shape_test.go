package shape

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pairCase struct {
	name string
	a, b Shape
	want bool
}

// checkPair asserts the result in both directions.
func checkPair(t *testing.T, tc pairCase) {
	t.Helper()

	got, err := tc.a.Collides(tc.b)
	require.NoError(t, err)
	assert.Equal(t, tc.want, got, "%v vs %v", tc.a, tc.b)

	got, err = tc.b.Collides(tc.a)
	require.NoError(t, err)
	assert.Equal(t, tc.want, got, "%v vs %v", tc.b, tc.a)
}

func TestCircleRect(t *testing.T) {
	circle := NewCircle(10, 10, 2)
	tests := []pairCase{
		{name: "corner within radius", a: circle, b: NewRect(9, 9, 1, 1), want: true},
		{name: "apart", a: circle, b: NewRect(5, 5, 2, 2), want: false},
		{name: "circle inside rectangle", a: circle, b: NewRect(10, 10, 1, 1), want: true},
		{name: "rectangle inside circle", a: circle, b: NewRect(10, 10, 5, 5), want: true},
		{name: "edge tangent", a: circle, b: NewRect(13, 10, 2, 2), want: true},
		{name: "corner just outside", a: NewCircle(0, 0, 1), b: NewRect(1.5, 1.5, 1, 1), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { checkPair(t, tt) })
	}
}

func TestCircleCircle(t *testing.T) {
	circle := NewCircle(10, 10, 1)
	tests := []pairCase{
		{name: "touching right", a: circle, b: NewCircle(12, 10, 1), want: true},
		{name: "touching up", a: circle, b: NewCircle(10, 12, 1), want: true},
		{name: "overlapping diagonal", a: circle, b: NewCircle(11, 11, 1), want: true},
		{name: "apart", a: circle, b: NewCircle(5, 5, 1), want: false},
		{name: "circle inside circle", a: circle, b: NewCircle(11, 10, 3), want: true},
		{name: "tangent at 3-4-5 distance", a: NewCircle(0, 0, 2), b: NewCircle(3, 4, 3), want: true},
		{name: "just past tangent", a: NewCircle(0, 0, 2), b: NewCircle(5+1e-9, 0, 3), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { checkPair(t, tt) })
	}
}

func TestRectRect(t *testing.T) {
	rect := NewRect(9, 9, 1, 1)
	tests := []pairCase{
		{name: "overlapping", a: rect, b: NewRect(10, 10, 2, 2), want: true},
		{name: "apart", a: rect, b: NewRect(4, 4, 2, 2), want: false},
		{name: "rectangle inside rectangle", a: rect, b: NewRect(10, 10, 4, 4), want: true},
		{name: "edge touching on x", a: NewRect(0, 0, 1, 1), b: NewRect(1, 0, 1, 1), want: true},
		{name: "edge touching on y", a: NewRect(0, 0, 1, 1), b: NewRect(0, -1, 1, 1), want: true},
		{name: "corner touching", a: NewRect(0, 0, 1, 1), b: NewRect(1, 1, 1, 1), want: true},
		{name: "gap on x", a: NewRect(0, 0, 1, 1), b: NewRect(1.0001, 0, 1, 1), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { checkPair(t, tt) })
	}
}

func TestLineRect(t *testing.T) {
	line := NewLine(1, 1, 10, 1)
	tests := []pairCase{
		{name: "endpoint inside", a: line, b: NewRect(4, 4, 6, 6), want: true},
		{name: "outside y span", a: line, b: NewRect(4, 4, 6, 4), want: false},
		{name: "endpoint on corner region", a: line, b: NewRect(12, 2, 4, 2), want: true},
		{name: "on corner edge", a: line, b: NewRect(5, 1, 12, 4), want: true},
		{name: "crossing without endpoints inside", a: NewLine(0, 5, 10, 5), b: NewRect(5, 5, 2, 2), want: true},
		{name: "diagonal missing corner", a: NewLine(0, 3, 3, 0), b: NewRect(3, 3, 2, 2), want: false},
		{name: "diagonal through corner", a: NewLine(0, 4, 4, 0), b: NewRect(3, 3, 2, 2), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { checkPair(t, tt) })
	}
}

func TestLineCircle(t *testing.T) {
	line := NewLine(1, 1, 10, 1)
	tests := []pairCase{
		{name: "crossing", a: line, b: NewCircle(4, 4, 4), want: true},
		{name: "tangent", a: line, b: NewCircle(4, 4, 3), want: true},
		{name: "line inside circle", a: line, b: NewCircle(4, 1, 6), want: true},
		{name: "apart", a: line, b: NewCircle(4, 4, 2), want: false},
		{name: "beyond the end of the segment", a: line, b: NewCircle(14, 1, 3), want: false},
		{name: "endpoint on circle", a: line, b: NewCircle(13, 1, 3), want: true},
		{name: "vertical chord", a: NewLine(0, -5, 0, 5), b: NewCircle(1, 0, 2), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { checkPair(t, tt) })
	}
}

func TestLineLine(t *testing.T) {
	line := NewLine(0, 5, 10, 5)
	tests := []pairCase{
		{name: "crossing", a: line, b: NewLine(5, 0, 5, 10), want: true},
		{name: "identical", a: line, b: NewLine(0, 5, 10, 5), want: true},
		{name: "parallel", a: line, b: NewLine(0, 6, 10, 6), want: false},
		{name: "shared endpoint", a: line, b: NewLine(10, 5, 10, 6), want: true},
		{name: "t junction", a: line, b: NewLine(5, 5, 5, 9), want: true},
		{name: "not reaching", a: line, b: NewLine(5, 6, 5, 9), want: false},
		{name: "crossing diagonals", a: NewLine(0, 0, 4, 4), b: NewLine(0, 4, 4, 0), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { checkPair(t, tt) })
	}
}

func TestLineLineParallelDisjoint(t *testing.T) {
	base := NewLine(0, 0, 10, 3)
	for _, offset := range []float64{0.5, 1, 7, 100, 1e6} {
		other := NewLine(0, offset, 10, 3+offset)
		checkPair(t, pairCase{a: base, b: other, want: false})
	}
}

func TestLineLineCollinear(t *testing.T) {
	tests := []pairCase{
		{name: "horizontal overlap", a: NewLine(0, 5, 10, 5), b: NewLine(5, 5, 15, 5), want: true},
		{name: "horizontal contained", a: NewLine(0, 5, 10, 5), b: NewLine(2, 5, 3, 5), want: true},
		{name: "horizontal gap", a: NewLine(0, 5, 10, 5), b: NewLine(12, 5, 15, 5), want: false},
		{name: "horizontal touching", a: NewLine(0, 5, 10, 5), b: NewLine(10, 5, 15, 5), want: true},
		{name: "horizontal reversed overlap", a: NewLine(10, 5, 0, 5), b: NewLine(15, 5, 5, 5), want: true},
		{name: "vertical overlap", a: NewLine(0, 0, 0, 2), b: NewLine(0, 1, 0, 3), want: true},
		{name: "vertical gap", a: NewLine(0, 0, 0, 1), b: NewLine(0, 3, 0, 4), want: false},
		{name: "vertical single shared point", a: NewLine(0, 0, 0, 2), b: NewLine(0, 2, 0, 4), want: true},
		{name: "vertical reversed gap", a: NewLine(0, 2, 0, 0), b: NewLine(0, 3, 0, 4), want: false},
		{name: "diagonal overlap", a: NewLine(0, 0, 4, 4), b: NewLine(2, 2, 6, 6), want: true},
		{name: "diagonal gap", a: NewLine(0, 0, 1, 1), b: NewLine(2, 2, 3, 3), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { checkPair(t, tt) })
	}
}

func TestCollidesWithCopy(t *testing.T) {
	for _, s := range []Shape{
		NewCircle(3, 4, 1),
		NewRect(-2, 7, 3, 0.5),
		NewLine(1, 1, 10, 1),
		NewLine(0, 0, 0, 5),
	} {
		got, err := Collides(s, s)
		require.NoError(t, err)
		assert.True(t, got, "%v", s)
	}
}

// randomShape draws a shape with small integer coordinates so that every
// intermediate value is exact.
func randomShape(r *rand.Rand) Shape {
	coord := func() float64 { return float64(r.IntN(21) - 10) }
	size := func() float64 { return float64(r.IntN(6) + 1) }
	switch r.IntN(3) {
	case 0:
		return NewCircle(coord(), coord(), size())
	case 1:
		return NewRect(coord(), coord(), size(), size())
	default:
		x1, y1 := coord(), coord()
		x2, y2 := coord(), coord()
		if x1 == x2 && y1 == y2 {
			x2++
		}
		return NewLine(x1, y1, x2, y2)
	}
}

func TestCollidesSymmetric(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		a, b := randomShape(r), randomShape(r)

		ab, err := a.Collides(b)
		require.NoError(t, err)
		ba, err := b.Collides(a)
		require.NoError(t, err)

		require.Equal(t, ab, ba, fmt.Sprintf("%#v vs %#v", a, b))
	}
}

func TestCollidesErrors(t *testing.T) {
	shapes := []Shape{NewCircle(0, 0, 1), NewRect(0, 0, 1, 1), NewLine(0, 0, 1, 1)}
	for _, s := range shapes {
		_, err := s.Collides(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidShapeType)
		assert.Equal(t, InvalidShapeType, KindOf(err))
	}

	_, err := Collides(nil, shapes[0])
	assert.ErrorIs(t, err, ErrInvalidShapeType)
}

func TestAsConversions(t *testing.T) {
	c := NewCircle(1, 2, 3)
	got, err := AsCircle(c)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = AsRect(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidShapeConversion)
	assert.NotErrorIs(t, err, ErrInvalidShapeType)
	assert.EqualError(t, err, "shape is invalid, cannot convert to rect: got circle")

	_, err = AsLine(NewRect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidShapeConversion)

	_, err = AsCircle(nil)
	assert.ErrorIs(t, err, ErrInvalidShapeConversion)
}

func TestTags(t *testing.T) {
	assert.Equal(t, TagCircle, NewCircle(0, 0, 1).Tag())
	assert.Equal(t, TagRect, NewRect(0, 0, 1, 1).Tag())
	assert.Equal(t, TagLine, NewLine(0, 0, 1, 1).Tag())

	assert.Equal(t, TagRect, ParseTag(" Rectangle "))
	assert.Equal(t, TagInvalid, ParseTag("triangle"))
	assert.Equal(t, "line", TagLine.String())
	assert.Equal(t, "invalid", Tag(42).String())
}

func TestBounds(t *testing.T) {
	lo, hi := NewCircle(1, 1, 2).Bounds()
	assert.Equal(t, [2]float64{-1, -1}, [2]float64{lo.X, lo.Y})
	assert.Equal(t, [2]float64{3, 3}, [2]float64{hi.X, hi.Y})

	lo, hi = NewLine(5, -1, 2, 4).Bounds()
	assert.Equal(t, [2]float64{2, -1}, [2]float64{lo.X, lo.Y})
	assert.Equal(t, [2]float64{5, 4}, [2]float64{hi.X, hi.Y})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, NewCircle(0, 0, 1).Validate())
	assert.ErrorIs(t, NewCircle(0, 0, 0).Validate(), ErrInvalidShapeConversion)
	assert.ErrorIs(t, NewRect(0, 0, 1, -1).Validate(), ErrInvalidShapeConversion)
	assert.ErrorIs(t, NewLine(1, 1, 1, 1).Validate(), ErrInvalidShapeConversion)
}
