package goap

import (
	"fmt"
	"strings"
)

// Goal is a conjunction of target fact conditions. A WorldState satisfies the
// goal iff every condition holds. Soft goals additionally let the planner
// return the best partial state found when no full match is reachable within
// budget.
type Goal struct {
	name        string
	description string
	conditions  []Condition
	weights     []float64 // parallel to conditions; 1.0 when unweighted
	priority    float64
	soft        bool
}

// NewGoal creates a goal over the given conditions. Priority orders competing
// goals when an agent has several (higher wins).
func NewGoal(name, description string, conditions []Condition, priority float64) *Goal {
	return &Goal{
		name:        name,
		description: description,
		conditions:  conditions,
		priority:    priority,
	}
}

// NewSoftGoal creates a goal the planner may satisfy partially, ranking
// partial states by how many conditions remain unsatisfied.
func NewSoftGoal(name, description string, conditions []Condition, priority float64) *Goal {
	g := NewGoal(name, description, conditions, priority)
	g.soft = true
	return g
}

// Weighted sets per-condition weights, parallel to the condition list.
// Weights only influence soft-goal ranking, never satisfaction.
func (g *Goal) Weighted(weights []float64) *Goal {
	g.weights = weights
	return g
}

// Name returns the goal's name.
func (g *Goal) Name() string { return g.name }

// Description returns what the goal accomplishes.
func (g *Goal) Description() string { return g.description }

// Priority returns the goal's priority.
func (g *Goal) Priority() float64 { return g.priority }

// Soft reports whether partial satisfaction is acceptable.
func (g *Goal) Soft() bool { return g.soft }

// Conditions returns the target conditions.
func (g *Goal) Conditions() []Condition { return g.conditions }

// IsSatisfied checks whether every condition holds in the state.
func (g *Goal) IsSatisfied(state WorldState) bool {
	return state.Matches(g.conditions)
}

// UnsatisfiedCount returns how many conditions do not hold. Used as the
// default admissible heuristic and for soft-goal ranking.
func (g *Goal) UnsatisfiedCount(state WorldState) int {
	n := 0
	for _, c := range g.conditions {
		if !state.Holds(c) {
			n++
		}
	}
	return n
}

// UnsatisfiedConditions returns the conditions that do not hold in the state.
func (g *Goal) UnsatisfiedConditions(state WorldState) []Condition {
	var out []Condition
	for _, c := range g.conditions {
		if !state.Holds(c) {
			out = append(out, c)
		}
	}
	return out
}

// unsatisfiedWeight sums the weights of unmet conditions, for soft ranking.
func (g *Goal) unsatisfiedWeight(state WorldState) float64 {
	total := 0.0
	for i, c := range g.conditions {
		if !state.Holds(c) {
			if g.weights != nil && i < len(g.weights) {
				total += g.weights[i]
			} else {
				total += 1.0
			}
		}
	}
	return total
}

// String renders the goal for logs.
func (g *Goal) String() string {
	parts := make([]string, len(g.conditions))
	for i, c := range g.conditions {
		parts[i] = c.String()
	}
	return fmt.Sprintf("Goal[%s: %s, priority=%.1f]", g.name, strings.Join(parts, " "), g.priority)
}

// GoalSet is a collection of competing goals an agent might pursue.
type GoalSet struct {
	goals []*Goal
}

// NewGoalSet creates an empty GoalSet.
func NewGoalSet() *GoalSet {
	return &GoalSet{}
}

// Add adds a goal to the set.
func (gs *GoalSet) Add(goal *Goal) {
	gs.goals = append(gs.goals, goal)
}

// Goals returns all goals in the set.
func (gs *GoalSet) Goals() []*Goal { return gs.goals }

// HighestPriority returns the goal with the highest priority, or nil for an
// empty set.
func (gs *GoalSet) HighestPriority() *Goal {
	if len(gs.goals) == 0 {
		return nil
	}
	highest := gs.goals[0]
	for _, g := range gs.goals[1:] {
		if g.priority > highest.priority {
			highest = g
		}
	}
	return highest
}

// MostAchievable returns the goal closest to satisfied in the given state,
// or nil for an empty set.
func (gs *GoalSet) MostAchievable(state WorldState) *Goal {
	if len(gs.goals) == 0 {
		return nil
	}
	best := gs.goals[0]
	bestDist := best.UnsatisfiedCount(state)
	for _, g := range gs.goals[1:] {
		if d := g.UnsatisfiedCount(state); d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

// Unsatisfied returns the goals not yet satisfied in the state.
func (gs *GoalSet) Unsatisfied(state WorldState) []*Goal {
	var out []*Goal
	for _, g := range gs.goals {
		if !g.IsSatisfied(state) {
			out = append(out, g)
		}
	}
	return out
}
