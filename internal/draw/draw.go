// Package draw renders shapes onto a terminal using half-block characters.
package draw

import (
	"github.com/tomz197/shapecollide/internal/geom"
)

// Point is a coordinate in the canvas's logical space.
type Point = geom.Point

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
