package goap

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Ticket identifies one agent's tentative reservation of the exclusive
// resources its plan claims. A ticket stays valid until released or evicted
// by a higher-priority agent.
type Ticket struct {
	ID        string
	AgentID   string
	Priority  float64
	Resources []string
	valid     bool
}

// Valid reports whether the reservation still stands.
func (t *Ticket) Valid() bool { return t.valid }

// Coordinator implements the minimal reservation protocol for agents
// planning concurrently against the same world: each plan's exclusive
// resource claims (pickup targets, choke hexes) are reserved tentatively,
// and conflicts are resolved by a caller-supplied priority. The losing
// agent's ticket is invalidated, forcing a NeedsReplan-equivalent outcome.
// Single-agent planning semantics are untouched.
type Coordinator struct {
	holders map[string]*Ticket // resource -> winning ticket
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{holders: map[string]*Ticket{}}
}

// Reserve claims every exclusive resource the plan's actions name. On
// conflict the higher priority wins (ties broken by agent ID so outcomes are
// deterministic); evicted tickets are invalidated and returned so their
// agents' executors can be told to replan. A losing Reserve returns a nil
// ticket; Holder reports who owns the contested resource.
func (c *Coordinator) Reserve(agentID string, priority float64, plan *Plan) (*Ticket, []*Ticket) {
	resources := planResources(plan)
	if len(resources) == 0 {
		// Nothing exclusive to claim; an always-valid ticket keeps the
		// caller's bookkeeping uniform.
		return &Ticket{ID: uuid.NewString(), AgentID: agentID, Priority: priority, valid: true}, nil
	}

	// Check every claim before touching any, so a losing agent never holds a
	// partial reservation.
	for _, res := range resources {
		holder, taken := c.holders[res]
		if !taken || holder.AgentID == agentID {
			continue
		}
		if holder.Priority > priority || (holder.Priority == priority && holder.AgentID < agentID) {
			log.Debug("reservation lost", "agent", agentID, "resource", res, "holder", holder.AgentID)
			return nil, nil
		}
	}

	ticket := &Ticket{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		Priority:  priority,
		Resources: resources,
		valid:     true,
	}

	var evicted []*Ticket
	for _, res := range resources {
		if holder, taken := c.holders[res]; taken && holder.AgentID != agentID && holder.valid {
			holder.valid = false
			evicted = append(evicted, holder)
			for _, held := range holder.Resources {
				if c.holders[held] == holder {
					delete(c.holders, held)
				}
			}
			log.Debug("reservation evicted", "loser", holder.AgentID, "winner", agentID, "resource", res)
		}
		c.holders[res] = ticket
	}
	return ticket, evicted
}

// Release frees a ticket's resources.
func (c *Coordinator) Release(t *Ticket) {
	if t == nil {
		return
	}
	t.valid = false
	for _, res := range t.Resources {
		if c.holders[res] == t {
			delete(c.holders, res)
		}
	}
}

// Holder returns the agent currently holding a resource, if any.
func (c *Coordinator) Holder(resource string) (string, bool) {
	t, ok := c.holders[resource]
	if !ok {
		return "", false
	}
	return t.AgentID, true
}

// planResources collects the distinct exclusive resources a plan claims, in
// sorted order for deterministic conflict handling.
func planResources(plan *Plan) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range plan.Actions {
		for _, res := range a.Reserves {
			if !seen[res] {
				seen[res] = true
				out = append(out, res)
			}
		}
	}
	sort.Strings(out)
	return out
}
