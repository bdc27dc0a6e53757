package hex

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		name string
		a, b Coord
		want int
	}{
		{"same hex", New(0, 0), New(0, 0), 0},
		{"adjacent", New(0, 0), New(1, 0), 1},
		{"along q axis", New(0, 0), New(3, 0), 3},
		{"along r axis", New(0, 0), New(0, -4), 4},
		{"diagonal cancel", New(0, 0), New(2, -2), 2},
		{"mixed", New(1, 2), New(4, 1), 3},
		{"negative quadrant", New(-2, -1), New(1, 1), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Distance(tc.b); got != tc.want {
				t.Errorf("Distance(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Distance(tc.a); got != tc.want {
				t.Errorf("Distance should be symmetric: %s to %s gave %d", tc.b, tc.a, got)
			}
		})
	}
}

func TestNeighbors(t *testing.T) {
	center := New(2, -1)
	for _, n := range center.Neighbors() {
		if center.Distance(n) != 1 {
			t.Errorf("Neighbor %s is at distance %d from %s", n, center.Distance(n), center)
		}
	}

	seen := map[Coord]bool{}
	for _, n := range center.Neighbors() {
		if seen[n] {
			t.Errorf("Duplicate neighbor %s", n)
		}
		seen[n] = true
	}
}

func TestStepToward(t *testing.T) {
	t.Run("Close targets are reached directly", func(t *testing.T) {
		if got := New(0, 0).StepToward(New(2, 1), 3); got != New(2, 1) {
			t.Errorf("Expected 2,1, got %s", got)
		}
	})

	t.Run("Far targets are clamped per axis", func(t *testing.T) {
		got := New(0, 0).StepToward(New(7, -5), 3)
		if got != New(3, -3) {
			t.Errorf("Expected 3,-3, got %s", got)
		}
	})

	t.Run("Waypoints make progress", func(t *testing.T) {
		from, target := New(0, 0), New(9, 0)
		step := from.StepToward(target, 3)
		if step.Distance(target) >= from.Distance(target) {
			t.Errorf("Waypoint %s is no closer to %s than %s", step, target, from)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		for _, c := range []Coord{New(0, 0), New(3, -1), New(-12, 7)} {
			got, err := Parse(c.String())
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", c.String(), err)
			}
			if got != c {
				t.Errorf("Parse(%q) = %s", c.String(), got)
			}
		}
	})

	t.Run("Malformed input", func(t *testing.T) {
		for _, s := range []string{"", "3", "a,b", "1,2,3"} {
			if _, err := Parse(s); err == nil {
				t.Errorf("Parse(%q) should fail", s)
			}
		}
	})
}
