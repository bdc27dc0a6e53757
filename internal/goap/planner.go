package goap

import (
	"container/heap"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// HeuristicFunc estimates remaining cost from a state to a goal. It must be
// admissible (never overestimate) or the returned plans lose optimality.
type HeuristicFunc func(state WorldState, goal *Goal) float64

// Budget bounds a search so it terminates even when action effects cycle
// (action A undoing action B's effect). Exceeding the budget is a normal
// outcome, not a fault.
type Budget struct {
	MaxExpansions int
	MaxDepth      int
}

// DefaultBudget is a reasonable bound for small tactical state spaces.
func DefaultBudget() Budget {
	return Budget{MaxExpansions: 2000, MaxDepth: 50}
}

// Plan is the ordered action sequence produced by a successful search, plus
// its total cost. Plans are immutable once returned and owned by exactly one
// Executor afterwards. Partial marks a soft goal's best incomplete result.
type Plan struct {
	Actions []*ActionInstance
	Cost    float64
	Partial bool
}

// Empty reports whether the plan contains no actions.
func (p *Plan) Empty() bool { return len(p.Actions) == 0 }

// String renders the plan for logs.
func (p *Plan) String() string {
	if len(p.Actions) == 0 {
		return "Plan(empty)"
	}
	parts := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		parts[i] = fmt.Sprintf("%d. %s", i+1, a.Name)
	}
	label := "Plan"
	if p.Partial {
		label = "PartialPlan"
	}
	return fmt.Sprintf("%s (cost %.2f): %s", label, p.Cost, strings.Join(parts, " -> "))
}

// Planner finds minimum-cost action sequences with forward A* over grounded
// action instances. Planning is synchronous and touches nothing beyond its
// own working set, so independent requests may run in parallel.
type Planner struct {
	registry *Registry
}

// NewPlanner creates a planner over a template registry.
func NewPlanner(registry *Registry) *Planner {
	return &Planner{registry: registry}
}

// Registry returns the planner's template registry.
func (p *Planner) Registry() *Registry { return p.registry }

// FindPlan searches forward from start for a minimum-cost sequence of
// grounded actions satisfying the goal. The context is checked between node
// expansions for cooperative cancellation. Hard goals fail with
// ErrNoPlanFound or ErrBudgetExceeded; soft goals fall back to the best
// partial node found, ranked by unsatisfied-condition weight then cost.
func (p *Planner) FindPlan(ctx context.Context, start WorldState, goal *Goal, gctx *GroundingContext, budget Budget) (*Plan, error) {
	log.Debug("plan search starting", "goal", goal.Name(), "agent", gctx.AgentID, "facts", start.Len())

	if goal.IsSatisfied(start) {
		log.Debug("goal already satisfied", "goal", goal.Name())
		return &Plan{Actions: []*ActionInstance{}, Cost: 0}, nil
	}

	h := p.estimate(gctx, start, goal)
	open := &nodeQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &planNode{state: start, stateKey: start.Key(), h: h, seq: seq})

	closed := map[string]float64{}
	best := bestPartial{node: nil}
	depthPruned := false

	expansions := 0
	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPlanningCanceled, err)
		}
		if expansions >= budget.MaxExpansions {
			log.Debug("plan search budget exhausted", "goal", goal.Name(), "expansions", expansions)
			return p.partialOrErr(goal, best, ErrBudgetExceeded, expansions)
		}

		node := heap.Pop(open).(*planNode)
		if g, seen := closed[node.stateKey]; seen && g <= node.g {
			continue
		}
		closed[node.stateKey] = node.g
		expansions++

		if goal.IsSatisfied(node.state) {
			plan := reconstruct(node)
			log.Debug("plan found", "goal", goal.Name(), "actions", len(plan.Actions),
				"cost", plan.Cost, "expansions", expansions)
			return plan, nil
		}

		if goal.Soft() {
			best.consider(node, goal)
		}

		if budget.MaxDepth > 0 && node.depth >= budget.MaxDepth {
			depthPruned = true
			continue
		}

		instances, err := p.registry.GroundAll(node.state, gctx)
		if err != nil {
			return nil, err
		}
		for _, inst := range instances {
			next := inst.Apply(node.state)
			key := next.Key()
			g2 := node.g + inst.Cost
			if recorded, seen := closed[key]; seen && recorded <= g2 {
				continue
			}
			seq++
			heap.Push(open, &planNode{
				state:    next,
				stateKey: key,
				action:   inst,
				parent:   node,
				g:        g2,
				h:        p.estimate(gctx, next, goal),
				depth:    node.depth + 1,
				seq:      seq,
			})
		}
	}

	// A depth-capped exhaustion did not cover the full space, so it is a
	// budget outcome rather than proof the goal is unreachable.
	fail := ErrNoPlanFound
	if depthPruned {
		fail = ErrBudgetExceeded
	}
	log.Debug("plan search exhausted state space", "goal", goal.Name(),
		"expansions", expansions, "depth_pruned", depthPruned)
	return p.partialOrErr(goal, best, fail, expansions)
}

// estimate computes h for a state: the unsatisfied-condition count, plus the
// caller's domain heuristic when supplied.
func (p *Planner) estimate(gctx *GroundingContext, state WorldState, goal *Goal) float64 {
	h := float64(goal.UnsatisfiedCount(state))
	if gctx != nil && gctx.Heuristic != nil {
		h += gctx.Heuristic(state, goal)
	}
	return h
}

// partialOrErr returns the best partial plan for soft goals, or the given
// failure for hard ones.
func (p *Planner) partialOrErr(goal *Goal, best bestPartial, fail error, expansions int) (*Plan, error) {
	if goal.Soft() && best.node != nil {
		plan := reconstruct(best.node)
		plan.Partial = true
		log.Debug("returning best partial plan", "goal", goal.Name(),
			"unsatisfied", best.weight, "cost", plan.Cost)
		return plan, nil
	}
	return nil, fmt.Errorf("goal %q after %d expansions: %w", goal.Name(), expansions, fail)
}

// reconstruct walks parent back-references from a goal node to the root and
// reverses the path into a Plan.
func reconstruct(node *planNode) *Plan {
	var actions []*ActionInstance
	for n := node; n.action != nil; n = n.parent {
		actions = append(actions, n.action)
	}
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
	return &Plan{Actions: actions, Cost: node.g}
}

// planNode is one state in the search: the state, the action that produced
// it (nil for the root), cumulative cost g, heuristic h, and the parent
// back-reference used only for path reconstruction.
type planNode struct {
	state    WorldState
	stateKey string
	action   *ActionInstance
	parent   *planNode
	g        float64
	h        float64
	depth    int
	seq      int
	index    int
}

func (n *planNode) f() float64 { return n.g + n.h }

// bestPartial tracks the most promising node seen for soft-goal fallback.
type bestPartial struct {
	node   *planNode
	weight float64
}

func (b *bestPartial) consider(n *planNode, goal *Goal) {
	w := goal.unsatisfiedWeight(n.state)
	if b.node == nil || w < b.weight || (w == b.weight && n.g < b.node.g) {
		b.node = n
		b.weight = w
	}
}

// nodeQueue is a min-heap over f, with a deterministic tie-break: lower g
// first (more real progress, less speculation), then shorter paths, then the
// registration order of the last action, then its binding ordinal, then
// insertion order. Identical inputs therefore always pop in the same order
// and yield identical plans.
type nodeQueue []*planNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	if a.g != b.g {
		return a.g < b.g
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	ao, bo := lastActionOrder(a), lastActionOrder(b)
	if ao != bo {
		return ao < bo
	}
	ab, bb := lastBindingOrdinal(a), lastBindingOrdinal(b)
	if ab != bb {
		return ab < bb
	}
	return a.seq < b.seq
}

func lastActionOrder(n *planNode) int {
	if n.action == nil {
		return -1
	}
	return n.action.templateOrder
}

func lastBindingOrdinal(n *planNode) int {
	if n.action == nil {
		return -1
	}
	return n.action.bindingOrdinal
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x interface{}) {
	n := x.(*planNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // avoid memory leak
	node.index = -1
	*q = old[0 : n-1]
	return node
}
