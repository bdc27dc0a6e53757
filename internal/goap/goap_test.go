package goap

import "testing"

func TestWorldState(t *testing.T) {
	t.Run("Get and With", func(t *testing.T) {
		ws := NewWorldState().
			With("hero:at", ID("0,0")).
			With("hero:hp", Int(42))

		if v, ok := ws.Get("hero:at"); !ok || v != ID("0,0") {
			t.Errorf("Expected hero:at=0,0, got %v (present=%v)", v, ok)
		}
		if v, ok := ws.Get("hero:hp"); !ok || v.AsInt() != 42 {
			t.Errorf("Expected hero:hp=42, got %v", v)
		}
		if _, ok := ws.Get("missing"); ok {
			t.Error("Missing key should not be present")
		}
	})

	t.Run("With does not mutate the original", func(t *testing.T) {
		base := NewWorldState().With("door:open", Bool(false))
		derived := base.With("door:open", Bool(true)).With("light:on", Bool(true))

		if v, _ := base.Get("door:open"); v != Bool(false) {
			t.Error("Original snapshot was mutated by With")
		}
		if base.Has("light:on") {
			t.Error("Original snapshot gained a fact from a derived snapshot")
		}
		if v, _ := derived.Get("door:open"); v != Bool(true) {
			t.Error("Derived snapshot missing its overwrite")
		}
	})

	t.Run("WithEffects applies in order", func(t *testing.T) {
		ws := NewWorldState().With("x", Int(1))
		next := ws.WithEffects([]Effect{
			{Key: "x", Value: Int(2)},
			{Key: "x", Value: Int(3)},
			{Key: "y", Value: Bool(true)},
		})

		if v, _ := next.Get("x"); v.AsInt() != 3 {
			t.Errorf("Expected last assignment to win, got %v", v)
		}
		if v, _ := ws.Get("x"); v.AsInt() != 1 {
			t.Error("WithEffects mutated the original")
		}
	})

	t.Run("Matches", func(t *testing.T) {
		ws := NewWorldState().
			With("a", Int(1)).
			With("b", Int(2))

		if !ws.Matches([]Condition{{Key: "a", Value: Int(1)}, {Key: "b", Value: Int(2)}}) {
			t.Error("State should match both conditions")
		}
		if ws.Matches([]Condition{{Key: "a", Value: Int(1)}, {Key: "c", Value: Int(3)}}) {
			t.Error("State should not match a condition on an absent fact")
		}
		if ws.Matches([]Condition{{Key: "a", Value: Int(9)}}) {
			t.Error("State should not match a mismatched value")
		}
	})

	t.Run("Canonical key is order independent", func(t *testing.T) {
		first := NewWorldState().With("a", Int(1)).With("b", Bool(true)).With("c", Enum("red"))
		second := NewWorldState().With("c", Enum("red")).With("a", Int(1)).With("b", Bool(true))

		if first.Key() != second.Key() {
			t.Errorf("Equal fact maps produced different keys: %q vs %q", first.Key(), second.Key())
		}

		third := second.With("a", Int(2))
		if first.Key() == third.Key() {
			t.Error("Different fact maps produced the same key")
		}
	})

	t.Run("Canonical key distinguishes value kinds", func(t *testing.T) {
		states := []WorldState{
			NewWorldState().With("door", Bool(true)),
			NewWorldState().With("door", Enum("true")),
			NewWorldState().With("door", ID("true")),
		}
		for i := range states {
			for j := i + 1; j < len(states); j++ {
				if states[i].Key() == states[j].Key() {
					t.Errorf("States %d and %d share key %q", i, j, states[i].Key())
				}
			}
		}

		if NewWorldState().With("n", Int(1)).Key() == NewWorldState().With("n", Enum("1")).Key() {
			t.Error("Int(1) and Enum(\"1\") share a key")
		}
	})

	t.Run("Canonical key resists structural payloads", func(t *testing.T) {
		// A value embedding the separators must not mimic a two-fact state.
		tricky := NewWorldState().With("a", Enum(`x" "b"=e:"y`))
		plain := NewWorldState().With("a", Enum("x")).With("b", Enum("y"))

		if tricky.Key() == plain.Key() {
			t.Errorf("Forged payload collided: %q", tricky.Key())
		}
	})
}

func TestFactValue(t *testing.T) {
	t.Run("Kinds are distinct", func(t *testing.T) {
		if Enum("x") == ID("x") {
			t.Error("Enum and ID with the same payload should differ")
		}
		if Bool(false) == Int(0) {
			t.Error("Bool and Int zero values should differ")
		}
	})

	t.Run("String rendering", func(t *testing.T) {
		if Bool(true).String() != "true" {
			t.Errorf("Bool rendering: got %q", Bool(true).String())
		}
		if Int(-3).String() != "-3" {
			t.Errorf("Int rendering: got %q", Int(-3).String())
		}
		if ID("2,-1").String() != "2,-1" {
			t.Errorf("ID rendering: got %q", ID("2,-1").String())
		}
	})
}

func TestGoal(t *testing.T) {
	t.Run("Satisfaction", func(t *testing.T) {
		goal := NewGoal("Secure", "secure the post", []Condition{
			{Key: "post:held", Value: Bool(true)},
			{Key: "hostiles", Value: Int(0)},
		}, 10)

		ws := NewWorldState().With("post:held", Bool(true))
		if goal.IsSatisfied(ws) {
			t.Error("Goal should not be satisfied with a condition missing")
		}
		if got := goal.UnsatisfiedCount(ws); got != 1 {
			t.Errorf("Expected 1 unsatisfied condition, got %d", got)
		}

		ws = ws.With("hostiles", Int(0))
		if !goal.IsSatisfied(ws) {
			t.Error("Goal should be satisfied")
		}
		if got := goal.UnsatisfiedCount(ws); got != 0 {
			t.Errorf("Expected 0 unsatisfied conditions, got %d", got)
		}
	})

	t.Run("UnsatisfiedConditions", func(t *testing.T) {
		goal := NewGoal("G", "", []Condition{
			{Key: "a", Value: Bool(true)},
			{Key: "b", Value: Bool(true)},
		}, 1)

		ws := NewWorldState().With("a", Bool(true))
		missing := goal.UnsatisfiedConditions(ws)
		if len(missing) != 1 || missing[0].Key != "b" {
			t.Errorf("Expected only b unsatisfied, got %v", missing)
		}
	})
}

func TestGoalSet(t *testing.T) {
	t.Run("HighestPriority", func(t *testing.T) {
		gs := NewGoalSet()
		gs.Add(NewGoal("Low", "", nil, 5))
		gs.Add(NewGoal("High", "", nil, 15))
		gs.Add(NewGoal("Mid", "", nil, 10))

		if got := gs.HighestPriority(); got.Name() != "High" {
			t.Errorf("Expected High, got %s", got.Name())
		}
	})

	t.Run("MostAchievable", func(t *testing.T) {
		ws := NewWorldState().With("a", Int(1))
		gs := NewGoalSet()
		gs.Add(NewGoal("Far", "", []Condition{
			{Key: "a", Value: Int(1)}, {Key: "b", Value: Int(2)}, {Key: "c", Value: Int(3)},
		}, 1))
		gs.Add(NewGoal("Close", "", []Condition{
			{Key: "a", Value: Int(1)}, {Key: "b", Value: Int(2)},
		}, 1))

		if got := gs.MostAchievable(ws); got.Name() != "Close" {
			t.Errorf("Expected Close, got %s", got.Name())
		}
	})
}
