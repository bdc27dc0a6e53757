package actions

import (
	"upside-down-research.com/oss/hexplan/internal/goap"
	"upside-down-research.com/oss/hexplan/internal/strategy"
)

// registerCombat wires Attack and the two siege templates. Attack's third
// parameter exists so the grounding filter pairs each target with its true
// position: wrong (target, pos) bindings fail the enemy-at precondition and
// never become instances.
func registerCombat(registry *goap.Registry) {
	registry.MustRegister(goap.NewActionTemplate(
		"Attack", "strike a hostile at the unit's hex",
		[]goap.ParamSpec{
			{Name: "unit", Domain: "self"},
			{Name: "target", Domain: "enemies"},
			{Name: "pos", Domain: "positions"},
		},
		2.0,
		func(b goap.Binding) ([]goap.Condition, error) {
			target := b["target"].AsString()
			return []goap.Condition{
				{Key: enemyAtKey(target), Value: b["pos"]},
				{Key: strategy.UnitAtKey(b["unit"].AsString()), Value: b["pos"]},
				{Key: enemyAliveKey(target), Value: goap.Bool(true)},
			}, nil
		},
		func(b goap.Binding) ([]goap.Effect, error) {
			target := b["target"].AsString()
			return []goap.Effect{
				{Key: enemyAliveKey(target), Value: goap.Bool(false)},
				{Key: strategy.InCombatKey(b["unit"].AsString()), Value: goap.Bool(true)},
			}, nil
		},
		nil,
	))

	// Adjacency is the directive layer's concern: BesiegeFortress only emits
	// a siege goal once the unit has closed the distance.
	registry.MustRegister(goap.NewActionTemplate(
		"BeginSiege", "invest the fortress",
		[]goap.ParamSpec{{Name: "unit", Domain: "self"}, {Name: "fort", Domain: "fortresses"}},
		2.0,
		func(b goap.Binding) ([]goap.Condition, error) {
			fort := b["fort"].AsString()
			return []goap.Condition{
				{Key: strategy.FortressSiegeKey(fort), Value: goap.Bool(false)},
				{Key: strategy.FortressCapturedKey(fort), Value: goap.Bool(false)},
			}, nil
		},
		func(b goap.Binding) ([]goap.Effect, error) {
			return []goap.Effect{
				{Key: strategy.FortressSiegeKey(b["fort"].AsString()), Value: goap.Bool(true)},
			}, nil
		},
		nil,
	))

	registry.MustRegister(goap.NewActionTemplate(
		"Bombard", "reduce an invested fortress",
		[]goap.ParamSpec{{Name: "unit", Domain: "self"}, {Name: "fort", Domain: "fortresses"}},
		4.0,
		func(b goap.Binding) ([]goap.Condition, error) {
			fort := b["fort"].AsString()
			return []goap.Condition{
				{Key: strategy.FortressSiegeKey(fort), Value: goap.Bool(true)},
				{Key: strategy.FortressCapturedKey(fort), Value: goap.Bool(false)},
			}, nil
		},
		func(b goap.Binding) ([]goap.Effect, error) {
			fort := b["fort"].AsString()
			return []goap.Effect{
				{Key: strategy.FortressHPKey(fort), Value: goap.Int(0)},
				{Key: strategy.FortressCapturedKey(fort), Value: goap.Bool(true)},
			}, nil
		},
		nil,
	))
}
