package strategy

import (
	"testing"

	"upside-down-research.com/oss/hexplan/internal/goap"
	"upside-down-research.com/oss/hexplan/internal/hex"
)

func unitState(unitID string, pos hex.Coord, nearbyEnemies int) goap.WorldState {
	return goap.NewWorldState().
		With(UnitAtKey(unitID), goap.ID(pos.String())).
		With(NearbyEnemiesKey(unitID), goap.Int(nearbyEnemies))
}

func TestEliminateEnemies(t *testing.T) {
	d := EliminateEnemies{}

	t.Run("Achieved when nothing is nearby", func(t *testing.T) {
		state := unitState("ranger", hex.New(0, 0), 0)
		if !d.Achieved(state, "ranger") {
			t.Error("Expected achieved with zero nearby enemies")
		}
		if _, ok := d.Decompose(state, "ranger"); ok {
			t.Error("Achieved directive should not decompose")
		}
	})

	t.Run("Decomposes to an engagement goal", func(t *testing.T) {
		state := unitState("ranger", hex.New(0, 0), 2)
		goal, ok := d.Decompose(state, "ranger")
		if !ok {
			t.Fatal("Expected a goal with enemies nearby")
		}
		want := goap.Condition{Key: InCombatKey("ranger"), Value: goap.Bool(true)}
		if len(goal.Conditions()) != 1 || goal.Conditions()[0] != want {
			t.Errorf("Unexpected goal conditions %v", goal.Conditions())
		}
	})
}

func TestHoldArea(t *testing.T) {
	post := hex.New(2, 1)
	d := HoldArea{Targets: []hex.Coord{post}, Reason: "bridge"}

	t.Run("Off station moves to the closest target", func(t *testing.T) {
		state := unitState("sergeant", hex.New(0, 0), 0)
		goal, ok := d.Decompose(state, "sergeant")
		if !ok {
			t.Fatal("Expected a movement goal")
		}
		want := goap.Condition{Key: UnitAtKey("sergeant"), Value: goap.ID(post.String())}
		if goal.Conditions()[0] != want {
			t.Errorf("Expected goal at %s, got %v", post, goal.Conditions())
		}
	})

	t.Run("On station with intruders engages", func(t *testing.T) {
		state := unitState("sergeant", post, 1)
		goal, ok := d.Decompose(state, "sergeant")
		if !ok || goal.Name() != "DefendPost" {
			t.Fatalf("Expected DefendPost, got %v (ok=%v)", goal, ok)
		}
	})

	t.Run("On station quiet holds position", func(t *testing.T) {
		state := unitState("sergeant", post, 0)
		goal, ok := d.Decompose(state, "sergeant")
		if !ok || goal.Name() != "HoldPosition" {
			t.Fatalf("Expected HoldPosition, got %v (ok=%v)", goal, ok)
		}
		if !d.Achieved(state, "sergeant") {
			t.Error("Standing on a target hex should count as achieved")
		}
	})
}

func TestReachArea(t *testing.T) {
	d := ReachArea{Centers: []hex.Coord{hex.New(6, -2)}, Reason: "extraction"}

	t.Run("Achieved inside the default radius", func(t *testing.T) {
		state := unitState("ranger", hex.New(5, -1), 0)
		if !d.Achieved(state, "ranger") {
			t.Error("Expected achieved within 3 hexes of the center")
		}
	})

	t.Run("Far targets get a waypoint goal", func(t *testing.T) {
		state := unitState("ranger", hex.New(0, 0), 0)
		goal, ok := d.Decompose(state, "ranger")
		if !ok {
			t.Fatal("Expected a goal")
		}
		// The waypoint must be closer to the center than the unit is now.
		val := goal.Conditions()[0].Value
		waypoint, err := hex.Parse(val.AsString())
		if err != nil {
			t.Fatalf("Goal position %q unparseable: %v", val.AsString(), err)
		}
		center := hex.New(6, -2)
		if waypoint.Distance(center) >= hex.New(0, 0).Distance(center) {
			t.Errorf("Waypoint %s is not closer to %s", waypoint, center)
		}
	})

	t.Run("Missing position cannot decompose", func(t *testing.T) {
		if _, ok := d.Decompose(goap.NewWorldState(), "ghost"); ok {
			t.Error("No position fact should mean no goal")
		}
	})
}

func TestBesiegeFortress(t *testing.T) {
	d := BesiegeFortress{FortressID: "keep"}
	fortPos := hex.New(5, 0)

	base := func(unitPos hex.Coord, hp int, underSiege bool) goap.WorldState {
		return goap.NewWorldState().
			With(UnitAtKey("sergeant"), goap.ID(unitPos.String())).
			With(FortressAtKey("keep"), goap.ID(fortPos.String())).
			With(FortressHPKey("keep"), goap.Int(hp)).
			With(FortressSiegeKey("keep"), goap.Bool(underSiege))
	}

	t.Run("Far away approaches first", func(t *testing.T) {
		goal, ok := d.Decompose(base(hex.New(0, 0), 10, false), "sergeant")
		if !ok {
			t.Fatal("Expected an approach goal")
		}
		if goal.Conditions()[0].Key != UnitAtKey("sergeant") {
			t.Errorf("Expected a movement goal, got %v", goal.Conditions())
		}
	})

	t.Run("Adjacent begins the siege", func(t *testing.T) {
		goal, ok := d.Decompose(base(hex.New(4, 0), 10, false), "sergeant")
		if !ok || goal.Name() != "BeginSiege" {
			t.Fatalf("Expected BeginSiege, got %v (ok=%v)", goal, ok)
		}
	})

	t.Run("Under siege reduces the fortress", func(t *testing.T) {
		goal, ok := d.Decompose(base(hex.New(4, 0), 10, true), "sergeant")
		if !ok || goal.Name() != "ReduceFortress" {
			t.Fatalf("Expected ReduceFortress, got %v (ok=%v)", goal, ok)
		}
	})

	t.Run("Razed fortress is achieved", func(t *testing.T) {
		if !d.Achieved(base(hex.New(4, 0), 0, true), "sergeant") {
			t.Error("Expected achieved at zero HP")
		}
	})
}

func TestSelect(t *testing.T) {
	t.Run("Highest priority unachieved directive wins", func(t *testing.T) {
		directives := []Directive{
			ReachArea{Centers: []hex.Coord{hex.New(9, 0)}, Reason: "extraction"},
			EliminateEnemies{},
		}
		state := unitState("ranger", hex.New(0, 0), 1)

		d, goal, ok := Select(directives, state, "ranger")
		if !ok {
			t.Fatal("Expected a selection")
		}
		if _, isElim := d.(EliminateEnemies); !isElim {
			t.Errorf("Expected EliminateEnemies to outrank ReachArea, got %s", d)
		}
		if goal.Name() != "EngageEnemies" {
			t.Errorf("Unexpected goal %s", goal.Name())
		}
	})

	t.Run("Achieved directives are skipped", func(t *testing.T) {
		directives := []Directive{
			ReachArea{Centers: []hex.Coord{hex.New(9, 0)}, Reason: "extraction"},
			EliminateEnemies{},
		}
		state := unitState("ranger", hex.New(0, 0), 0) // no enemies

		d, _, ok := Select(directives, state, "ranger")
		if !ok {
			t.Fatal("Expected the fallback directive")
		}
		if _, isReach := d.(ReachArea); !isReach {
			t.Errorf("Expected ReachArea once combat is done, got %s", d)
		}
	})

	t.Run("Equal priority keeps the first directive listed", func(t *testing.T) {
		directives := []Directive{
			HoldArea{Targets: []hex.Coord{hex.New(5, 0)}, Reason: "north pass"},
			HoldArea{Targets: []hex.Coord{hex.New(-5, 0)}, Reason: "south pass"},
		}
		state := unitState("ranger", hex.New(0, 0), 0)

		d, _, ok := Select(directives, state, "ranger")
		if !ok {
			t.Fatal("Expected a selection")
		}
		if hold, isHold := d.(HoldArea); !isHold || hold.Reason != "north pass" {
			t.Errorf("Expected the first of the tied directives, got %s", d)
		}
	})

	t.Run("Nothing to do", func(t *testing.T) {
		state := unitState("ranger", hex.New(9, 0), 0)
		directives := []Directive{
			ReachArea{Centers: []hex.Coord{hex.New(9, 0)}, Reason: "extraction"},
			EliminateEnemies{},
		}
		if _, _, ok := Select(directives, state, "ranger"); ok {
			t.Error("All directives achieved should select nothing")
		}
	})
}
