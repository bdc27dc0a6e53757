package goap

import "fmt"

// GroundingContext carries the per-agent inputs a planning request grounds
// templates against: who is planning and the candidate values for every
// parameter domain (sensed enemy ids, reachable positions, carried items).
// The caller builds one per request; the engine never invents candidates.
type GroundingContext struct {
	AgentID string
	Domains map[string][]FactValue

	// Heuristic optionally refines the default unsatisfied-condition count
	// with domain knowledge (e.g. remaining travel distance). It must stay
	// admissible or plans lose their optimality guarantee.
	Heuristic HeuristicFunc
}

// Domain returns the candidate values for a named domain.
func (g *GroundingContext) Domain(name string) []FactValue {
	if g == nil || g.Domains == nil {
		return nil
	}
	return g.Domains[name]
}

// Ground enumerates every parameter binding for the template against the
// given state and returns the instances whose preconditions hold. The
// enumeration walks the cartesian product of domains in declared parameter
// order, so instance ordering is deterministic for identical inputs.
//
// An empty domain yields zero instances and no error; a domain missing from
// the context entirely means the parameter cannot be resolved and is an
// ErrInvalidGrounding. Builder failures and negative grounded costs are
// surfaced, never skipped.
func (t *ActionTemplate) Ground(state WorldState, gctx *GroundingContext) ([]*ActionInstance, error) {
	domains := make([][]FactValue, len(t.params))
	for i, p := range t.params {
		values, ok := gctx.Domains[p.Domain]
		if !ok {
			return nil, fmt.Errorf("template %q parameter %q: domain %q not supplied: %w",
				t.name, p.Name, p.Domain, ErrInvalidGrounding)
		}
		if len(values) == 0 {
			return nil, nil
		}
		domains[i] = values
	}

	var out []*ActionInstance
	binding := make(Binding, len(t.params))
	ordinal := 0

	var enumerate func(idx int) error
	enumerate = func(idx int) error {
		if idx == len(t.params) {
			inst, err := t.bind(state, gctx, binding, ordinal)
			if err != nil {
				return err
			}
			ordinal++
			if inst != nil {
				out = append(out, inst)
			}
			return nil
		}
		for _, v := range domains[idx] {
			binding[t.params[idx].Name] = v
			if err := enumerate(idx + 1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := enumerate(0); err != nil {
		return nil, err
	}
	return out, nil
}

// bind materializes one concrete instance, or nil when the binding's
// preconditions do not hold in the state it is grounded against.
func (t *ActionTemplate) bind(state WorldState, gctx *GroundingContext, b Binding, ordinal int) (*ActionInstance, error) {
	var pre []Condition
	if t.preconditions != nil {
		var err error
		pre, err = t.preconditions(b)
		if err != nil {
			return nil, fmt.Errorf("template %q preconditions: %v: %w", t.name, err, ErrInvalidGrounding)
		}
	}
	if !state.Matches(pre) {
		return nil, nil
	}

	var eff []Effect
	if t.effects != nil {
		var err error
		eff, err = t.effects(b)
		if err != nil {
			return nil, fmt.Errorf("template %q effects: %v: %w", t.name, err, ErrInvalidGrounding)
		}
	}

	cost := t.baseCost
	if t.cost != nil {
		cost += t.cost(b, state)
	}
	if cost < 0 {
		return nil, fmt.Errorf("template %q grounded cost %.2f: %w", t.name, cost, ErrNegativeCost)
	}

	var reserves []string
	if t.reserves != nil {
		reserves = t.reserves(b)
	}

	args := make(Binding, len(b))
	for k, v := range b {
		args[k] = v
	}

	return &ActionInstance{
		Name:           instanceName(t, b),
		Template:       t.name,
		Args:           args,
		Preconditions:  pre,
		Effects:        eff,
		Cost:           cost,
		Reserves:       reserves,
		templateOrder:  t.order,
		bindingOrdinal: ordinal,
	}, nil
}

// GroundAll grounds every registered template against the state, in
// registration order. Aggregated instance ordering is deterministic.
func (r *Registry) GroundAll(state WorldState, gctx *GroundingContext) ([]*ActionInstance, error) {
	var out []*ActionInstance
	for _, t := range r.templates {
		instances, err := t.Ground(state, gctx)
		if err != nil {
			return nil, err
		}
		out = append(out, instances...)
	}
	return out, nil
}
