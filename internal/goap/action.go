package goap

import (
	"fmt"
	"strings"
)

// Binding maps template parameter names to the concrete values chosen for one
// grounding. Bindings are built by the grounding enumeration and handed to
// the template's builders and cost function.
type Binding map[string]FactValue

// ParamSpec declares one template parameter: its name and the named domain of
// candidate values the caller supplies in the GroundingContext.
type ParamSpec struct {
	Name   string
	Domain string
}

// ConditionBuilder resolves a binding into the concrete fact predicates that
// must hold before the grounded action may run.
type ConditionBuilder func(b Binding) ([]Condition, error)

// EffectBuilder resolves a binding into the concrete fact assignments the
// grounded action applies on completion.
type EffectBuilder func(b Binding) ([]Effect, error)

// CostFunc computes the context-dependent part of a grounding's cost, e.g.
// the distance between the agent's position and a bound target position.
// The template owns the formula; the planner only consumes the number.
type CostFunc func(b Binding, state WorldState) float64

// ReserveFunc names the exclusive resources a grounding claims, used by the
// team coordinator to keep two agents from committing to the same target.
type ReserveFunc func(b Binding) []string

// ActionTemplate is a parameterized action schema: an ordered parameter list,
// precondition and effect builders over facts and parameters, and a cost
// function. Templates are registered once at process start and shared,
// read-only, across all planning requests.
type ActionTemplate struct {
	name          string
	description   string
	params        []ParamSpec
	baseCost      float64
	preconditions ConditionBuilder
	effects       EffectBuilder
	cost          CostFunc
	reserves      ReserveFunc

	order int // registration order, assigned by the Registry
}

// NewActionTemplate creates a template. Pass a nil cost function when the
// base cost alone describes the action.
func NewActionTemplate(name, description string, params []ParamSpec, baseCost float64,
	pre ConditionBuilder, eff EffectBuilder, cost CostFunc) *ActionTemplate {
	return &ActionTemplate{
		name:          name,
		description:   description,
		params:        params,
		baseCost:      baseCost,
		preconditions: pre,
		effects:       eff,
		cost:          cost,
	}
}

// Reserving attaches a resource-claim function and returns the template for
// chaining at registration sites.
func (t *ActionTemplate) Reserving(fn ReserveFunc) *ActionTemplate {
	t.reserves = fn
	return t
}

// Name returns the template's name.
func (t *ActionTemplate) Name() string { return t.name }

// Description returns what the template does.
func (t *ActionTemplate) Description() string { return t.description }

// Params returns the ordered parameter schema.
func (t *ActionTemplate) Params() []ParamSpec { return t.params }

// BaseCost returns the binding-independent part of the cost.
func (t *ActionTemplate) BaseCost() float64 { return t.baseCost }

// Registry is the read-only set of action templates shared by all planning
// requests. It is a plain configuration object passed by reference into each
// planning call, never a mutated global.
type Registry struct {
	templates []*ActionTemplate
	byName    map[string]*ActionTemplate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*ActionTemplate{}}
}

// Register adds a template. Duplicate names and negative base costs are
// configuration errors. Registration order is preserved and used by the
// planner's deterministic tie-break.
func (r *Registry) Register(t *ActionTemplate) error {
	if _, exists := r.byName[t.name]; exists {
		return fmt.Errorf("template %q already registered: %w", t.name, ErrInvalidGrounding)
	}
	if t.baseCost < 0 {
		return fmt.Errorf("template %q has base cost %.2f: %w", t.name, t.baseCost, ErrNegativeCost)
	}
	t.order = len(r.templates)
	r.templates = append(r.templates, t)
	r.byName[t.name] = t
	return nil
}

// MustRegister registers a template and panics on configuration errors. For
// process-start registration where a malformed template set cannot be
// recovered from.
func (r *Registry) MustRegister(t *ActionTemplate) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Template looks a template up by name.
func (r *Registry) Template(name string) (*ActionTemplate, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Templates returns all templates in registration order.
func (r *Registry) Templates() []*ActionTemplate { return r.templates }

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

// ActionInstance is a template with every parameter bound to a concrete
// value: resolved preconditions and effects, a precomputed cost, and the
// resources it claims. Instances live only inside one planning call and the
// Plan that references them.
type ActionInstance struct {
	Name          string
	Template      string
	Args          Binding
	Preconditions []Condition
	Effects       []Effect
	Cost          float64
	Reserves      []string

	templateOrder  int
	bindingOrdinal int
}

// IsApplicable reports whether every precondition holds in the given state.
func (a *ActionInstance) IsApplicable(state WorldState) bool {
	return state.Matches(a.Preconditions)
}

// Apply derives the successor state with the instance's effects applied.
func (a *ActionInstance) Apply(state WorldState) WorldState {
	return state.WithEffects(a.Effects)
}

func (a *ActionInstance) String() string {
	return a.Name
}

// instanceName renders "Template(arg1,arg2)" with args in parameter order.
func instanceName(t *ActionTemplate, b Binding) string {
	if len(t.params) == 0 {
		return t.name
	}
	args := make([]string, len(t.params))
	for i, p := range t.params {
		args[i] = b[p.Name].String()
	}
	return fmt.Sprintf("%s(%s)", t.name, strings.Join(args, ","))
}
