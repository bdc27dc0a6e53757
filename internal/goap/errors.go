package goap

import "errors"

// Planning and execution outcomes the caller is expected to handle. Only
// configuration defects (ErrNegativeCost, ErrInvalidGrounding at registration
// or grounding time) indicate a broken template set; everything else is an
// ordinary result of running against a live, changing world.
var (
	// ErrNoPlanFound means the reachable state space was exhausted without
	// satisfying the goal. Recoverable: the caller falls back to default
	// behavior or picks another goal.
	ErrNoPlanFound = errors.New("goap: no plan found")

	// ErrBudgetExceeded means the search hit its expansion or depth budget
	// before exhausting the space. Recoverable: retry with a larger budget.
	ErrBudgetExceeded = errors.New("goap: search budget exceeded")

	// ErrPlanningCanceled means the caller's context was canceled between
	// node expansions. Partial work is discarded.
	ErrPlanningCanceled = errors.New("goap: planning canceled")

	// ErrInvalidGrounding means a template parameter could not be resolved
	// into a concrete fact predicate. A content defect, never skipped.
	ErrInvalidGrounding = errors.New("goap: invalid grounding")

	// ErrNegativeCost means a template's cost came out negative. Fatal
	// configuration error, rejected rather than clamped.
	ErrNegativeCost = errors.New("goap: negative action cost")

	// ErrPreconditionViolation means the live world diverged from the
	// planning-time snapshot before a step executed. Triggers NeedsReplan.
	ErrPreconditionViolation = errors.New("goap: precondition violated at execution time")

	// ErrInvalidTransition means an executor method was called in a state
	// that does not permit it (e.g. Start while Executing).
	ErrInvalidTransition = errors.New("goap: invalid executor transition")
)
