package actions

import (
	"upside-down-research.com/oss/hexplan/internal/goap"
	"upside-down-research.com/oss/hexplan/internal/strategy"
)

// registerSupport wires item handling. PickupItem reserves its target through
// the team coordinator so two agents never plan around the same medkit.
func registerSupport(registry *goap.Registry) {
	registry.MustRegister(goap.NewActionTemplate(
		"PickupItem", "take an item from the ground",
		[]goap.ParamSpec{
			{Name: "unit", Domain: "self"},
			{Name: "item", Domain: "items"},
			{Name: "pos", Domain: "positions"},
		},
		1.0,
		func(b goap.Binding) ([]goap.Condition, error) {
			item := b["item"].AsString()
			return []goap.Condition{
				{Key: itemAtKey(item), Value: b["pos"]},
				{Key: strategy.UnitAtKey(b["unit"].AsString()), Value: b["pos"]},
				{Key: itemAvailableKey(item), Value: goap.Bool(true)},
			}, nil
		},
		func(b goap.Binding) ([]goap.Effect, error) {
			item := b["item"].AsString()
			return []goap.Effect{
				{Key: itemAvailableKey(item), Value: goap.Bool(false)},
				{Key: unitCarriesKey(b["unit"].AsString()), Value: goap.Bool(true)},
			}, nil
		},
		nil,
	).Reserving(func(b goap.Binding) []string {
		return []string{"item:" + b["item"].AsString()}
	}))

	registry.MustRegister(goap.NewActionTemplate(
		"Heal", "use a carried medkit",
		[]goap.ParamSpec{{Name: "unit", Domain: "self"}},
		3.0,
		func(b goap.Binding) ([]goap.Condition, error) {
			return []goap.Condition{
				{Key: unitCarriesKey(b["unit"].AsString()), Value: goap.Bool(true)},
			}, nil
		},
		func(b goap.Binding) ([]goap.Effect, error) {
			unit := b["unit"].AsString()
			return []goap.Effect{
				{Key: unitWoundedKey(unit), Value: goap.Bool(false)},
				{Key: unitCarriesKey(unit), Value: goap.Bool(false)},
			}, nil
		},
		nil,
	))
}
