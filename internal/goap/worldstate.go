package goap

import (
	"sort"
	"strconv"
	"strings"
)

// WorldState is an immutable snapshot of named facts. Derivations (With,
// WithEffects) return fresh snapshots and never touch the receiver, so one
// snapshot can be shared by every node the search expands from it.
type WorldState struct {
	facts map[string]FactValue
}

// NewWorldState creates an empty WorldState.
func NewWorldState() WorldState {
	return WorldState{facts: map[string]FactValue{}}
}

// StateFromFacts builds a WorldState from a fact map. The map is copied.
func StateFromFacts(facts map[string]FactValue) WorldState {
	ws := WorldState{facts: make(map[string]FactValue, len(facts))}
	for k, v := range facts {
		ws.facts[k] = v
	}
	return ws
}

// Get retrieves a fact value. The second return reports presence.
func (ws WorldState) Get(key string) (FactValue, bool) {
	v, ok := ws.facts[key]
	return v, ok
}

// Has checks whether a fact is present.
func (ws WorldState) Has(key string) bool {
	_, ok := ws.facts[key]
	return ok
}

// Len returns the number of facts in the snapshot.
func (ws WorldState) Len() int {
	return len(ws.facts)
}

// With derives a new snapshot with one fact overwritten.
func (ws WorldState) With(key string, value FactValue) WorldState {
	next := WorldState{facts: make(map[string]FactValue, len(ws.facts)+1)}
	for k, v := range ws.facts {
		next.facts[k] = v
	}
	next.facts[key] = value
	return next
}

// WithEffects derives a new snapshot with every effect applied in order.
// Later assignments to the same key win.
func (ws WorldState) WithEffects(effects []Effect) WorldState {
	next := WorldState{facts: make(map[string]FactValue, len(ws.facts)+len(effects))}
	for k, v := range ws.facts {
		next.facts[k] = v
	}
	for _, e := range effects {
		next.facts[e.Key] = e.Value
	}
	return next
}

// Holds checks a single condition against the snapshot.
func (ws WorldState) Holds(c Condition) bool {
	v, ok := ws.facts[c.Key]
	return ok && v == c.Value
}

// Matches checks whether every condition holds.
func (ws WorldState) Matches(conditions []Condition) bool {
	for _, c := range conditions {
		if !ws.Holds(c) {
			return false
		}
	}
	return true
}

// Satisfies reports whether the snapshot satisfies the goal.
func (ws WorldState) Satisfies(goal *Goal) bool {
	return goal.IsSatisfied(ws)
}

// Distance counts the goal conditions the snapshot does not yet satisfy.
func (ws WorldState) Distance(goal *Goal) int {
	return goal.UnsatisfiedCount(ws)
}

// Key returns the canonical identity of the snapshot: facts sorted by key,
// each rendered as a quoted key and a kind-tagged quoted value. Two snapshots
// produce the same key iff their fact maps are equal, so it doubles as the
// closed-set identity for cycle detection.
func (ws WorldState) Key() string {
	if len(ws.facts) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(ws.facts))
	for k := range ws.facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteByte('=')
		sb.WriteString(ws.facts[k].canonical())
	}
	sb.WriteByte('}')
	return sb.String()
}

// String returns the canonical rendering, handy in logs.
func (ws WorldState) String() string {
	return ws.Key()
}
