// Package hex provides axial coordinates for a flat-top hexagonal grid. The
// planner never imports this package; positions cross into it as opaque
// identifier facts, and only grounding contexts, cost functions and the
// strategy layer do geometry.
package hex

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is an axial hex coordinate: Q is the column, R the row.
type Coord struct {
	Q int
	R int
}

// New creates a coordinate.
func New(q, r int) Coord {
	return Coord{Q: q, R: r}
}

// Distance returns the hex distance between two coordinates.
func (c Coord) Distance(other Coord) int {
	return (abs(c.Q-other.Q) + abs(c.Q+c.R-other.Q-other.R) + abs(c.R-other.R)) / 2
}

// Neighbors returns the six adjacent coordinates, north first, clockwise.
func (c Coord) Neighbors() [6]Coord {
	return [6]Coord{
		{c.Q, c.R - 1},     // north
		{c.Q + 1, c.R - 1}, // northeast
		{c.Q + 1, c.R},     // southeast
		{c.Q, c.R + 1},     // south
		{c.Q - 1, c.R + 1}, // southwest
		{c.Q - 1, c.R},     // northwest
	}
}

// StepToward returns the coordinate at most n steps from c along the axial
// delta toward target. Used to pick intermediate waypoints for far targets.
func (c Coord) StepToward(target Coord, n int) Coord {
	dq := target.Q - c.Q
	dr := target.R - c.R
	if abs(dq) > n {
		dq = sign(dq) * n
	}
	if abs(dr) > n {
		dr = sign(dr) * n
	}
	return Coord{Q: c.Q + dq, R: c.R + dr}
}

// String renders "q,r", the form positions take as identifier facts.
func (c Coord) String() string {
	return strconv.Itoa(c.Q) + "," + strconv.Itoa(c.R)
}

// Parse reads a "q,r" position string back into a coordinate.
func Parse(s string) (Coord, error) {
	left, right, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("hex: malformed position %q", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return Coord{}, fmt.Errorf("hex: malformed position %q: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return Coord{}, fmt.Errorf("hex: malformed position %q: %w", s, err)
	}
	return Coord{Q: q, R: r}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
