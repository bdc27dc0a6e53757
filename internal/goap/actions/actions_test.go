package actions

import (
	"context"
	"testing"

	"upside-down-research.com/oss/hexplan/internal/goap"
	"upside-down-research.com/oss/hexplan/internal/strategy"
)

func TestBuildRegistry(t *testing.T) {
	registry := BuildRegistry()
	for _, name := range []string{"MoveTo", "Attack", "BeginSiege", "Bombard", "PickupItem", "Heal"} {
		if _, ok := registry.Template(name); !ok {
			t.Errorf("Expected template %s in the catalog", name)
		}
	}
}

func TestCatalogPlans(t *testing.T) {
	ctx := context.Background()
	planner := goap.NewPlanner(BuildRegistry())

	t.Run("Wounded unit fetches a medkit and heals", func(t *testing.T) {
		state := goap.NewWorldState().
			With(strategy.UnitAtKey("ranger"), goap.ID("0,0")).
			With(unitWoundedKey("ranger"), goap.Bool(true)).
			With(unitCarriesKey("ranger"), goap.Bool(false)).
			With(itemAtKey("medkit1"), goap.ID("2,-1")).
			With(itemAvailableKey("medkit1"), goap.Bool(true))

		gctx := &goap.GroundingContext{
			AgentID: "ranger",
			Domains: map[string][]goap.FactValue{
				"self":       {goap.ID("ranger")},
				"positions":  {goap.ID("2,-1")},
				"items":      {goap.ID("medkit1")},
				"enemies":    {},
				"fortresses": {},
			},
		}
		goal := goap.NewGoal("Mend", "", []goap.Condition{
			{Key: unitWoundedKey("ranger"), Value: goap.Bool(false)},
		}, 10)

		plan, err := planner.FindPlan(ctx, state, goal, gctx, goap.DefaultBudget())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := []string{"MoveTo", "PickupItem", "Heal"}
		if len(plan.Actions) != len(want) {
			t.Fatalf("Expected %v, got %v", want, plan.Actions)
		}
		for i, name := range want {
			if plan.Actions[i].Template != name {
				t.Errorf("Step %d: expected %s, got %s", i, name, plan.Actions[i].Template)
			}
		}
		// MoveTo cost is the hex distance 0,0 -> 2,-1, then pickup and heal.
		if plan.Cost != 2+1+3 {
			t.Errorf("Expected cost 6, got %.1f", plan.Cost)
		}
	})

	t.Run("Siege runs invest then bombard", func(t *testing.T) {
		state := goap.NewWorldState().
			With(strategy.UnitAtKey("sapper"), goap.ID("4,0")).
			With(strategy.FortressAtKey("keep"), goap.ID("5,0")).
			With(strategy.FortressHPKey("keep"), goap.Int(3)).
			With(strategy.FortressSiegeKey("keep"), goap.Bool(false)).
			With(strategy.FortressCapturedKey("keep"), goap.Bool(false))

		gctx := &goap.GroundingContext{
			AgentID: "sapper",
			Domains: map[string][]goap.FactValue{
				"self":       {goap.ID("sapper")},
				"positions":  {goap.ID("5,0")},
				"items":      {},
				"enemies":    {},
				"fortresses": {goap.ID("keep")},
			},
		}
		goal := goap.NewGoal("Raze", "", []goap.Condition{
			{Key: strategy.FortressHPKey("keep"), Value: goap.Int(0)},
		}, 10)

		plan, err := planner.FindPlan(ctx, state, goal, gctx, goap.DefaultBudget())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(plan.Actions) != 2 ||
			plan.Actions[0].Template != "BeginSiege" || plan.Actions[1].Template != "Bombard" {
			t.Fatalf("Expected [BeginSiege Bombard], got %v", plan.Actions)
		}
	})
}
