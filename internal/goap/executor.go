package goap

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// ExecState is the executor's lifecycle state.
type ExecState int

const (
	Idle ExecState = iota
	Executing
	Completed
	Failed
	NeedsReplan
)

func (s ExecState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case NeedsReplan:
		return "needs_replan"
	default:
		return "unknown"
	}
}

// StepStatus reports the outcome of one Step call.
type StepStatus int

const (
	// StepSucceeded: the step's real-world effect was performed and the
	// executor advanced. More steps remain.
	StepSucceeded StepStatus = iota
	// StepCompleted: the final step succeeded; the plan is done.
	StepCompleted
	// StepNeedsReplan: the live world diverged from the planned state. The
	// step's effects were not applied and no later step will run.
	StepNeedsReplan
	// StepFailed: the performer hit an unrecoverable failure distinct from a
	// stale precondition (e.g. the target no longer exists).
	StepFailed
)

func (s StepStatus) String() string {
	switch s {
	case StepSucceeded:
		return "succeeded"
	case StepCompleted:
		return "completed"
	case StepNeedsReplan:
		return "needs_replan"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult describes what happened to one plan step.
type StepResult struct {
	Status StepStatus
	Action *ActionInstance
	Index  int
	// Expected is the bookkeeping state after the step's effects, i.e. what
	// the planner predicted the world should now look like.
	Expected WorldState
}

// Performer is the external collaborator that carries out an action's real
// consequence (movement, attack, pickup) in the live game world. The
// executor only does bookkeeping; it never touches the live world itself.
type Performer interface {
	Perform(ctx context.Context, action *ActionInstance, live WorldState) error
}

// PerformerFunc adapts a function to the Performer interface.
type PerformerFunc func(ctx context.Context, action *ActionInstance, live WorldState) error

func (f PerformerFunc) Perform(ctx context.Context, action *ActionInstance, live WorldState) error {
	return f(ctx, action, live)
}

// Executor walks a Plan step by step under the caller's single-writer game
// loop. Before each step it re-validates the step's preconditions against
// the current live world, which may have diverged from the planning-time
// snapshot; a violation halts the plan with NeedsReplan rather than skipping
// or reordering. NeedsReplan and Failed are terminal for the plan instance.
type Executor struct {
	agentID   string
	performer Performer
	plan      *Plan
	step      int
	state     ExecState
	expected  WorldState
}

// NewExecutor creates an idle executor for one agent.
func NewExecutor(agentID string, performer Performer) *Executor {
	return &Executor{agentID: agentID, performer: performer, state: Idle}
}

// State returns the executor's lifecycle state.
func (e *Executor) State() ExecState { return e.state }

// StepIndex returns the index of the next step to run.
func (e *Executor) StepIndex() int { return e.step }

// Plan returns the plan being executed, nil when idle.
func (e *Executor) Plan() *Plan { return e.plan }

// Start begins executing a plan. Only valid from Idle; a finished executor
// must be Reset or replaced, matching the one-plan-per-instance lifecycle.
func (e *Executor) Start(plan *Plan) error {
	if e.state != Idle {
		return fmt.Errorf("start from %s: %w", e.state, ErrInvalidTransition)
	}
	if plan == nil {
		return fmt.Errorf("start with nil plan: %w", ErrInvalidTransition)
	}
	e.plan = plan
	e.step = 0
	if plan.Empty() {
		e.state = Completed
		return nil
	}
	e.state = Executing
	log.Debug("executor started", "agent", e.agentID, "steps", len(plan.Actions), "cost", plan.Cost)
	return nil
}

// Step runs the next plan step against the current live world. The caller
// supplies the live view each call because the world may change between
// steps. On success the external Performer is invoked to apply the real
// effect, and only on its confirmation does the bookkeeping advance.
func (e *Executor) Step(ctx context.Context, live WorldState) (StepResult, error) {
	if e.state != Executing {
		return StepResult{}, fmt.Errorf("step from %s: %w", e.state, ErrInvalidTransition)
	}

	action := e.plan.Actions[e.step]
	idx := e.step

	if !action.IsApplicable(live) {
		e.state = NeedsReplan
		log.Info("live world diverged from plan", "agent", e.agentID,
			"step", idx, "action", action.Name)
		return StepResult{Status: StepNeedsReplan, Action: action, Index: idx},
			fmt.Errorf("step %d %s: %w", idx, action.Name, ErrPreconditionViolation)
	}

	if err := e.performer.Perform(ctx, action, live); err != nil {
		e.state = Failed
		log.Error("step failed", "agent", e.agentID, "step", idx,
			"action", action.Name, "error", err)
		return StepResult{Status: StepFailed, Action: action, Index: idx},
			fmt.Errorf("step %d %s: %w", idx, action.Name, err)
	}

	e.expected = action.Apply(live)
	e.step++

	if e.step >= len(e.plan.Actions) {
		e.state = Completed
		log.Debug("plan completed", "agent", e.agentID, "steps", e.step)
		return StepResult{Status: StepCompleted, Action: action, Index: idx, Expected: e.expected}, nil
	}

	return StepResult{Status: StepSucceeded, Action: action, Index: idx, Expected: e.expected}, nil
}

// Abort drops the current plan without applying further effects and returns
// the executor to Idle.
func (e *Executor) Abort() {
	if e.state == Executing {
		log.Debug("plan aborted", "agent", e.agentID, "at_step", e.step)
	}
	e.plan = nil
	e.step = 0
	e.state = Idle
}

// Invalidate forces a terminal NeedsReplan, used when the team coordinator
// evicts this agent's reservations mid-plan.
func (e *Executor) Invalidate() {
	if e.state == Executing {
		e.state = NeedsReplan
	}
}

// Reset returns a terminal executor to Idle so a fresh plan can start.
func (e *Executor) Reset() {
	e.plan = nil
	e.step = 0
	e.state = Idle
}
