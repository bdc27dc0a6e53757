// Package strategy turns long-term directives into per-turn planning goals.
// A directive spans many turns (clear the area, hold the pass, besiege the
// fortress); each turn it is decomposed against the current world snapshot
// into a small conjunction-of-facts goal the planner can search for.
package strategy

import (
	"fmt"

	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/hexplan/internal/goap"
	"upside-down-research.com/oss/hexplan/internal/hex"
)

// Fact key conventions shared with the game-world projection.
func UnitAtKey(unitID string) string { return "unit:" + unitID + ":at" }

func NearbyEnemiesKey(unitID string) string { return "unit:" + unitID + ":nearby_enemies" }

func InCombatKey(unitID string) string { return "unit:" + unitID + ":in_combat" }

func FortressAtKey(id string) string { return "fortress:" + id + ":at" }

func FortressHPKey(id string) string { return "fortress:" + id + ":hp" }

func FortressSiegeKey(id string) string { return "fortress:" + id + ":under_siege" }

func FortressCapturedKey(id string) string { return "fortress:" + id + ":captured" }

// Directive is a long-term objective for one unit. Decompose returns the
// goal to pursue this turn, or false when the directive has nothing to do in
// the current state.
type Directive interface {
	Decompose(state goap.WorldState, unitID string) (*goap.Goal, bool)
	Achieved(state goap.WorldState, unitID string) bool
	Priority() float64
	String() string
}

// Select returns the highest-priority directive that is not yet achieved and
// decomposes to a goal in the current state, with its per-turn goal.
func Select(directives []Directive, state goap.WorldState, unitID string) (Directive, *goap.Goal, bool) {
	candidates := goap.NewGoalSet()
	source := make(map[*goap.Goal]Directive)
	for _, d := range directives {
		if d.Achieved(state, unitID) {
			continue
		}
		goal, ok := d.Decompose(state, unitID)
		if !ok {
			continue
		}
		candidates.Add(goal)
		source[goal] = d
	}
	goal := candidates.HighestPriority()
	if goal == nil {
		return nil, nil, false
	}
	best := source[goal]
	log.Debug("directive selected", "unit", unitID, "directive", best.String(), "goal", goal.Name())
	return best, goal, true
}

// unitPosition reads a unit's position fact.
func unitPosition(state goap.WorldState, unitID string) (hex.Coord, bool) {
	v, ok := state.Get(UnitAtKey(unitID))
	if !ok || v.Kind() != goap.KindID {
		return hex.Coord{}, false
	}
	pos, err := hex.Parse(v.AsString())
	if err != nil {
		return hex.Coord{}, false
	}
	return pos, true
}

// reachGoal builds the goal of standing at target. Far targets decompose to
// an intermediate waypoint so one turn's plan stays small.
func reachGoal(current, target hex.Coord, unitID string, priority float64) *goap.Goal {
	dest := target
	if current.Distance(target) > 3 {
		dest = current.StepToward(target, 3)
	}
	return goap.NewGoal(
		fmt.Sprintf("Reach(%s)", dest),
		fmt.Sprintf("move unit %s to %s", unitID, dest),
		[]goap.Condition{{Key: UnitAtKey(unitID), Value: goap.ID(dest.String())}},
		priority,
	)
}

// EliminateEnemies pursues combat until no enemies remain nearby.
// SearchRadius zero means unlimited.
type EliminateEnemies struct {
	SearchRadius int
}

func (d EliminateEnemies) Priority() float64 { return 65 }

func (d EliminateEnemies) String() string {
	if d.SearchRadius == 0 {
		return "EliminateEnemies(unlimited)"
	}
	return fmt.Sprintf("EliminateEnemies(%d)", d.SearchRadius)
}

func (d EliminateEnemies) Achieved(state goap.WorldState, unitID string) bool {
	v, ok := state.Get(NearbyEnemiesKey(unitID))
	if !ok {
		return true
	}
	return v.AsInt() == 0
}

func (d EliminateEnemies) Decompose(state goap.WorldState, unitID string) (*goap.Goal, bool) {
	v, ok := state.Get(NearbyEnemiesKey(unitID))
	if !ok || v.AsInt() == 0 {
		return nil, false
	}
	return goap.NewGoal(
		"EngageEnemies",
		fmt.Sprintf("unit %s enters combat with nearby enemies", unitID),
		[]goap.Condition{{Key: InCombatKey(unitID), Value: goap.Bool(true)}},
		d.Priority(),
	), true
}

// HoldArea moves to the closest of its target hexes, engages enemies that
// appear, and otherwise holds position.
type HoldArea struct {
	Targets []hex.Coord
	Reason  string
}

func (d HoldArea) Priority() float64 { return 50 }

func (d HoldArea) String() string { return fmt.Sprintf("HoldArea(%v:%s)", d.Targets, d.Reason) }

func (d HoldArea) Achieved(state goap.WorldState, unitID string) bool {
	pos, ok := unitPosition(state, unitID)
	if !ok {
		return false
	}
	for _, t := range d.Targets {
		if pos == t {
			return true
		}
	}
	return false
}

func (d HoldArea) Decompose(state goap.WorldState, unitID string) (*goap.Goal, bool) {
	if len(d.Targets) == 0 {
		return nil, false
	}
	pos, ok := unitPosition(state, unitID)
	if !ok {
		return nil, false
	}
	closest := d.Targets[0]
	for _, t := range d.Targets[1:] {
		if pos.Distance(t) < pos.Distance(closest) {
			closest = t
		}
	}
	if pos != closest {
		return reachGoal(pos, closest, unitID, d.Priority()), true
	}
	// On station: engage intruders, otherwise hold this hex.
	if v, ok := state.Get(NearbyEnemiesKey(unitID)); ok && v.AsInt() > 0 {
		return goap.NewGoal(
			"DefendPost",
			fmt.Sprintf("unit %s engages intruders at %s", unitID, pos),
			[]goap.Condition{{Key: InCombatKey(unitID), Value: goap.Bool(true)}},
			d.Priority(),
		), true
	}
	return goap.NewGoal(
		"HoldPosition",
		fmt.Sprintf("unit %s holds %s", unitID, pos),
		[]goap.Condition{{Key: UnitAtKey(unitID), Value: goap.ID(pos.String())}},
		d.Priority(),
	), true
}

// ReachArea moves toward the closest of several area centers and is achieved
// within Radius hexes of any of them.
type ReachArea struct {
	Centers []hex.Coord
	Radius  int
	Reason  string
}

func (d ReachArea) Priority() float64 { return 30 }

func (d ReachArea) String() string { return fmt.Sprintf("ReachArea(%v:%s)", d.Centers, d.Reason) }

func (d ReachArea) radius() int {
	if d.Radius <= 0 {
		return 3
	}
	return d.Radius
}

func (d ReachArea) Achieved(state goap.WorldState, unitID string) bool {
	pos, ok := unitPosition(state, unitID)
	if !ok {
		return false
	}
	for _, c := range d.Centers {
		if pos.Distance(c) <= d.radius() {
			return true
		}
	}
	return false
}

func (d ReachArea) Decompose(state goap.WorldState, unitID string) (*goap.Goal, bool) {
	if len(d.Centers) == 0 {
		return nil, false
	}
	pos, ok := unitPosition(state, unitID)
	if !ok {
		return nil, false
	}
	closest := d.Centers[0]
	for _, c := range d.Centers[1:] {
		if pos.Distance(c) < pos.Distance(closest) {
			closest = c
		}
	}
	return reachGoal(pos, closest, unitID, d.Priority()), true
}

// BesiegeFortress approaches the fortress, begins the siege once adjacent,
// then reduces its HP to zero.
type BesiegeFortress struct {
	FortressID string
}

func (d BesiegeFortress) Priority() float64 { return 55 }

func (d BesiegeFortress) String() string { return "BesiegeFortress(" + d.FortressID + ")" }

func (d BesiegeFortress) Achieved(state goap.WorldState, unitID string) bool {
	if v, ok := state.Get(FortressHPKey(d.FortressID)); ok && v.AsInt() <= 0 {
		return true
	}
	v, ok := state.Get(FortressCapturedKey(d.FortressID))
	return ok && v.AsBool()
}

func (d BesiegeFortress) Decompose(state goap.WorldState, unitID string) (*goap.Goal, bool) {
	atVal, ok := state.Get(FortressAtKey(d.FortressID))
	if !ok {
		return nil, false
	}
	fortPos, err := hex.Parse(atVal.AsString())
	if err != nil {
		return nil, false
	}
	pos, ok := unitPosition(state, unitID)
	if !ok {
		return nil, false
	}

	siegeVal, _ := state.Get(FortressSiegeKey(d.FortressID))
	underSiege := siegeVal.AsBool()
	dist := pos.Distance(fortPos)

	switch {
	case dist <= 2 && !underSiege:
		return goap.NewGoal(
			"BeginSiege",
			fmt.Sprintf("unit %s lays siege to %s", unitID, d.FortressID),
			[]goap.Condition{{Key: FortressSiegeKey(d.FortressID), Value: goap.Bool(true)}},
			d.Priority(),
		), true
	case underSiege:
		if hp, ok := state.Get(FortressHPKey(d.FortressID)); ok && hp.AsInt() > 0 {
			return goap.NewGoal(
				"ReduceFortress",
				fmt.Sprintf("unit %s reduces %s", unitID, d.FortressID),
				[]goap.Condition{{Key: FortressHPKey(d.FortressID), Value: goap.Int(0)}},
				d.Priority(),
			), true
		}
		return nil, false
	default:
		return reachGoal(pos, fortPos, unitID, d.Priority()), true
	}
}
