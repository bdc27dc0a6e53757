// Package actions defines the battlefield action vocabulary: the
// parameterized templates the planner grounds against each turn's snapshot.
// Templates carry planning semantics only; their real-world consequences
// live in the game loop's Performer.
package actions

import (
	"upside-down-research.com/oss/hexplan/internal/goap"
	"upside-down-research.com/oss/hexplan/internal/hex"
	"upside-down-research.com/oss/hexplan/internal/strategy"
)

// Fact key helpers shared with the battlefield projection.
func enemyAtKey(id string) string { return "enemy:" + id + ":at" }

func enemyAliveKey(id string) string { return "enemy:" + id + ":alive" }

func itemAtKey(id string) string { return "item:" + id + ":at" }

func itemAvailableKey(id string) string { return "item:" + id + ":available" }

func unitWoundedKey(unit string) string { return "unit:" + unit + ":wounded" }

func unitCarriesKey(unit string) string { return "unit:" + unit + ":has:medkit" }

// BuildRegistry wires the full tactical vocabulary. Templates are registered
// once at startup and shared read-only by every planning call; registration
// order doubles as the planner's deterministic tie-break.
func BuildRegistry() *goap.Registry {
	registry := goap.NewRegistry()
	registerMovement(registry)
	registerCombat(registry)
	registerSupport(registry)
	return registry
}

// registerMovement wires MoveTo, the one template with a binding-dependent
// cost: the hex distance from the unit's current position.
func registerMovement(registry *goap.Registry) {
	registry.MustRegister(goap.NewActionTemplate(
		"MoveTo", "move the unit to a position",
		[]goap.ParamSpec{{Name: "unit", Domain: "self"}, {Name: "pos", Domain: "positions"}},
		0,
		nil,
		func(b goap.Binding) ([]goap.Effect, error) {
			return []goap.Effect{
				{Key: strategy.UnitAtKey(b["unit"].AsString()), Value: b["pos"]},
			}, nil
		},
		func(b goap.Binding, state goap.WorldState) float64 {
			at, ok := state.Get(strategy.UnitAtKey(b["unit"].AsString()))
			if !ok {
				return 0
			}
			from, err1 := hex.Parse(at.AsString())
			to, err2 := hex.Parse(b["pos"].AsString())
			if err1 != nil || err2 != nil {
				return 0
			}
			return float64(from.Distance(to))
		},
	))
}
