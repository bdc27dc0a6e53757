// Command skirmish runs a small hex-battlefield simulation that exercises
// the planning engine end to end: world-state projection, template
// grounding, A* planning, team reservations, and live execution with forced
// replans when the world diverges mid-plan.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"upside-down-research.com/oss/hexplan/internal/commands"
	"upside-down-research.com/oss/hexplan/internal/config"
	"upside-down-research.com/oss/hexplan/internal/goap"
	"upside-down-research.com/oss/hexplan/internal/goap/actions"
	"upside-down-research.com/oss/hexplan/internal/hex"
	"upside-down-research.com/oss/hexplan/internal/o11y"
	"upside-down-research.com/oss/hexplan/internal/progress"
	"upside-down-research.com/oss/hexplan/internal/strategy"
	"upside-down-research.com/oss/hexplan/internal/validation"
)

var CLI struct {
	Run    RunCommand             `cmd:"" default:"withargs" help:"Run the skirmish simulation"`
	Config commands.ConfigCommand `cmd:"" help:"Manage configuration"`
	Doctor commands.DoctorCommand `cmd:"" help:"Verify configuration"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("skirmish"),
		kong.Description("Skirmish - hex battlefield planning simulation."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RunCommand simulates a fixed number of turns.
type RunCommand struct {
	Config  string `name:"config" help:"Config file path." type:"path"`
	Turns   int    `name:"turns" help:"Number of turns to simulate." default:"12"`
	Seed    int64  `name:"seed" help:"RNG seed for the battlefield." default:"7"`
	Verbose bool   `name:"verbose" help:"Debug logging."`
	Metrics bool   `name:"metrics" help:"Push planner metrics per the config."`
	Quiet   bool   `name:"quiet" help:"Suppress the turn report."`
}

func (cmd *RunCommand) Run() error {
	cfg, err := config.LoadConfig(cmd.Config)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if result := validation.ValidateConfig(cfg); !result.IsValid() {
		for _, e := range result.Errors {
			log.Error("config invalid", "field", e.Field, "problem", e.Message)
		}
		return fmt.Errorf("invalid configuration, run 'skirmish doctor'")
	}
	if cmd.Verbose {
		log.SetLevel(log.DebugLevel)
	} else if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}

	var telemetry *o11y.Telemetry
	if cmd.Metrics {
		telemetry = o11y.New(o11y.Options{
			PushgatewayURL: cfg.Telemetry.PushgatewayURL,
			JobName:        cfg.Telemetry.JobName,
			InfluxURL:      cfg.Telemetry.InfluxURL,
			InfluxToken:    cfg.Telemetry.InfluxToken,
			InfluxOrg:      cfg.Telemetry.InfluxOrg,
			InfluxBucket:   cfg.Telemetry.InfluxBucket,
		})
	}

	runID := uuid.NewString()
	log.Info("skirmish starting", "run", runID, "turns", cmd.Turns, "seed", cmd.Seed)

	ind := progress.NewIndicator(!cmd.Quiet)
	field := newBattlefield(cmd.Seed)
	planner := goap.NewPlanner(actions.BuildRegistry())
	coordinator := goap.NewCoordinator()
	budget := goap.Budget{
		MaxExpansions: cfg.Planner.MaxExpansions,
		MaxDepth:      cfg.Planner.MaxDepth,
	}

	ctx := context.Background()
	lastTurn := cmd.Turns
	for turn := 1; turn <= cmd.Turns; turn++ {
		ind.Phase(fmt.Sprintf("Turn %d", turn))
		field.perturb(turn)

		for _, agent := range field.agents {
			runAgentTurn(ctx, turn, agent, field, planner, coordinator, budget, telemetry, ind)
		}

		if field.enemiesRemaining() == 0 && field.fortressesStanding() == 0 {
			lastTurn = turn
			break
		}
	}

	won := field.enemiesRemaining() == 0 && field.fortressesStanding() == 0
	ind.Summary(won, fmt.Sprintf("%d hostiles and %d fortresses left after %d turns",
		field.enemiesRemaining(), field.fortressesStanding(), lastTurn))
	log.Info("skirmish finished", "run", runID,
		"enemies_left", field.enemiesRemaining(), "fortresses_left", field.fortressesStanding())
	return nil
}

// runAgentTurn plans against a snapshot, reserves the plan's exclusive
// resources, and steps the plan against the live battlefield until it
// completes or needs a replan. The replan decision is the game loop's job,
// not the engine's; here one failed plan simply ends the agent's turn.
func runAgentTurn(ctx context.Context, turn int, agent *agent, field *battlefield,
	planner *goap.Planner, coordinator *goap.Coordinator, budget goap.Budget,
	telemetry *o11y.Telemetry, ind *progress.Indicator) {

	snapshot := field.project()
	_, goal, ok := strategy.Select(agent.directives, snapshot, agent.id)
	if !ok {
		log.Debug("nothing to do", "agent", agent.id)
		return
	}

	gctx := field.groundingFor(agent)
	addGoalPositions(gctx, goal)

	start := time.Now()
	plan, err := planner.FindPlan(ctx, snapshot, goal, gctx, budget)
	elapsed := time.Since(start)
	if err != nil {
		telemetry.ObservePlan(agent.id, "failed", 0, 0, elapsed)
		ind.Error(fmt.Sprintf("%s: %s", agent.id, goal.Name()), err)
		log.Warn("no plan", "agent", agent.id, "goal", goal.Name(), "error", err)
		return
	}
	telemetry.ObservePlan(agent.id, "planned", plan.Cost, len(plan.Actions), elapsed)
	telemetry.Record("plan", map[string]string{"agent": agent.id, "goal": goal.Name()},
		map[string]interface{}{"cost": plan.Cost, "actions": len(plan.Actions), "turn": turn})
	ind.Step(fmt.Sprintf("%s: %s → %d actions (cost %.1f)", agent.id, goal.Name(), len(plan.Actions), plan.Cost))
	log.Info("plan ready", "agent", agent.id, "goal", goal.Name(), "plan", plan.String())

	ticket, evicted := coordinator.Reserve(agent.id, goal.Priority(), plan)
	for _, loser := range evicted {
		if other := field.agentByID(loser.AgentID); other != nil && other.executor != nil {
			other.executor.Invalidate()
			log.Info("reservation evicted, forcing replan", "loser", loser.AgentID, "winner", agent.id)
		}
	}
	if ticket == nil {
		ind.Info(fmt.Sprintf("%s yields: resources held by higher priority", agent.id))
		log.Info("resources held by higher priority agent, yielding", "agent", agent.id)
		return
	}
	defer coordinator.Release(ticket)

	executor := goap.NewExecutor(agent.id, field)
	agent.executor = executor
	if err := executor.Start(plan); err != nil {
		log.Error("executor start failed", "agent", agent.id, "error", err)
		return
	}

	for executor.State() == goap.Executing {
		result, err := executor.Step(ctx, field.project())
		switch result.Status {
		case goap.StepSucceeded:
			ind.SubStep(result.Action.Name)
			log.Debug("step ok", "agent", agent.id, "action", result.Action.Name)
		case goap.StepCompleted:
			ind.SubStep(result.Action.Name)
			ind.Success(fmt.Sprintf("%s: plan complete", agent.id))
			log.Info("plan complete", "agent", agent.id, "steps", result.Index+1)
		case goap.StepNeedsReplan:
			ind.Info(fmt.Sprintf("%s: world diverged at %s, replanning next turn", agent.id, result.Action.Name))
			log.Info("replan needed", "agent", agent.id, "action", result.Action.Name)
		case goap.StepFailed:
			ind.Error(fmt.Sprintf("%s: %s", agent.id, result.Action.Name), err)
			log.Warn("plan failed", "agent", agent.id, "action", result.Action.Name, "error", err)
		}
	}
}

// addGoalPositions appends the goal's position-valued conditions to the
// grounding context's positions domain, so movement can always bind the
// destination the strategy layer just asked for.
func addGoalPositions(gctx *goap.GroundingContext, goal *goap.Goal) {
	known := map[string]bool{}
	for _, v := range gctx.Domains["positions"] {
		known[v.AsString()] = true
	}
	for _, c := range goal.Conditions() {
		if c.Value.Kind() != goap.KindID || known[c.Value.AsString()] {
			continue
		}
		if _, err := hex.Parse(c.Value.AsString()); err != nil {
			continue
		}
		gctx.Domains["positions"] = append(gctx.Domains["positions"], c.Value)
		known[c.Value.AsString()] = true
	}
}

// agent is one planning unit on the blue team.
type agent struct {
	id         string
	directives []strategy.Directive
	executor   *goap.Executor
}

// enemy is a red unit, visible to agents through fact projection.
type enemy struct {
	id    string
	pos   hex.Coord
	alive bool
}

// fortress is a red stronghold that must be invested and reduced.
type fortress struct {
	id         string
	pos        hex.Coord
	hp         int
	underSiege bool
	captured   bool
}

// battlefield is the live game world. Only the main loop writes it, and only
// through Perform — the single-writer discipline the engine relies on.
type battlefield struct {
	agents     []*agent
	agentPos   map[string]hex.Coord
	wounded    map[string]bool
	medkits    map[string]bool // holder -> has medkit
	enemies    []*enemy
	fortresses []*fortress
	items      map[string]hex.Coord // item id -> position, present until taken
	rng        *rand.Rand
}

func newBattlefield(seed int64) *battlefield {
	f := &battlefield{
		agentPos: map[string]hex.Coord{},
		wounded:  map[string]bool{},
		medkits:  map[string]bool{},
		items:    map[string]hex.Coord{},
		rng:      rand.New(rand.NewSource(seed)),
	}

	f.agents = []*agent{
		{id: "ranger", directives: []strategy.Directive{
			strategy.EliminateEnemies{},
			strategy.ReachArea{Centers: []hex.Coord{hex.New(6, -2)}, Reason: "screen the flank"},
		}},
		{id: "sergeant", directives: []strategy.Directive{
			strategy.EliminateEnemies{},
			strategy.HoldArea{Targets: []hex.Coord{hex.New(2, 1)}, Reason: "hold the ford"},
		}},
		{id: "sapper", directives: []strategy.Directive{
			strategy.BesiegeFortress{FortressID: "keep"},
		}},
	}
	f.agentPos["ranger"] = hex.New(0, 0)
	f.agentPos["sergeant"] = hex.New(1, 2)
	f.agentPos["sapper"] = hex.New(-1, 0)
	f.wounded["ranger"] = true

	f.enemies = []*enemy{
		{id: "raider1", pos: hex.New(3, -1), alive: true},
		{id: "raider2", pos: hex.New(4, 1), alive: true},
	}
	f.fortresses = []*fortress{
		{id: "keep", pos: hex.New(5, 0), hp: 3},
	}
	f.items["medkit1"] = hex.New(2, -1)
	return f
}

func (f *battlefield) agentByID(id string) *agent {
	for _, a := range f.agents {
		if a.id == id {
			return a
		}
	}
	return nil
}

func (f *battlefield) enemiesRemaining() int {
	n := 0
	for _, e := range f.enemies {
		if e.alive {
			n++
		}
	}
	return n
}

func (f *battlefield) fortressesStanding() int {
	n := 0
	for _, fort := range f.fortresses {
		if !fort.captured {
			n++
		}
	}
	return n
}

// perturb occasionally moves a raider, diverging the live world from any
// in-flight plan so the executor's re-validation path gets exercised.
func (f *battlefield) perturb(turn int) {
	if turn%3 != 0 {
		return
	}
	for _, e := range f.enemies {
		if e.alive && f.rng.Intn(2) == 0 {
			neighbors := e.pos.Neighbors()
			e.pos = neighbors[f.rng.Intn(len(neighbors))]
			log.Debug("raider repositioned", "enemy", e.id, "pos", e.pos)
		}
	}
}

// project builds the immutable fact snapshot the planner searches over.
func (f *battlefield) project() goap.WorldState {
	facts := map[string]goap.FactValue{}
	for id, pos := range f.agentPos {
		facts[strategy.UnitAtKey(id)] = goap.ID(pos.String())
		facts[strategy.InCombatKey(id)] = goap.Bool(false)
		facts[strategy.NearbyEnemiesKey(id)] = goap.Int(f.enemiesRemaining())
		facts["unit:"+id+":wounded"] = goap.Bool(f.wounded[id])
		facts["unit:"+id+":has:medkit"] = goap.Bool(f.medkits[id])
	}
	for _, e := range f.enemies {
		facts["enemy:"+e.id+":at"] = goap.ID(e.pos.String())
		facts["enemy:"+e.id+":alive"] = goap.Bool(e.alive)
	}
	for _, fort := range f.fortresses {
		facts[strategy.FortressAtKey(fort.id)] = goap.ID(fort.pos.String())
		facts[strategy.FortressHPKey(fort.id)] = goap.Int(fort.hp)
		facts[strategy.FortressSiegeKey(fort.id)] = goap.Bool(fort.underSiege)
		facts[strategy.FortressCapturedKey(fort.id)] = goap.Bool(fort.captured)
	}
	for id, pos := range f.items {
		facts["item:"+id+":at"] = goap.ID(pos.String())
		facts["item:"+id+":available"] = goap.Bool(true)
	}
	return goap.StateFromFacts(facts)
}

// groundingFor supplies the per-agent candidate domains: the agent itself,
// positions worth standing on, sensed enemies, visible items and fortresses.
func (f *battlefield) groundingFor(a *agent) *goap.GroundingContext {
	// f.items is a map; sort the ids so domain order, and with it the
	// planner's tie-breaking, is stable across runs.
	itemIDs := make([]string, 0, len(f.items))
	for id := range f.items {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	var positions []goap.FactValue
	for _, e := range f.enemies {
		if e.alive {
			positions = append(positions, goap.ID(e.pos.String()))
		}
	}
	for _, id := range itemIDs {
		positions = append(positions, goap.ID(f.items[id].String()))
	}

	var enemies []goap.FactValue
	for _, e := range f.enemies {
		if e.alive {
			enemies = append(enemies, goap.ID(e.id))
		}
	}
	var items []goap.FactValue
	for _, id := range itemIDs {
		items = append(items, goap.ID(id))
	}
	var fortresses []goap.FactValue
	for _, fort := range f.fortresses {
		if !fort.captured {
			fortresses = append(fortresses, goap.ID(fort.id))
		}
	}

	return &goap.GroundingContext{
		AgentID: a.id,
		Domains: map[string][]goap.FactValue{
			"self":       {goap.ID(a.id)},
			"positions":  positions,
			"enemies":    enemies,
			"items":      items,
			"fortresses": fortresses,
		},
	}
}

// Perform applies an action's real consequence to the live battlefield. It
// is the external collaborator the executor notifies per step.
func (f *battlefield) Perform(ctx context.Context, action *goap.ActionInstance, live goap.WorldState) error {
	unit := action.Args["unit"].AsString()
	switch action.Template {
	case "MoveTo":
		pos, err := hex.Parse(action.Args["pos"].AsString())
		if err != nil {
			return err
		}
		f.agentPos[unit] = pos
	case "Attack":
		target := action.Args["target"].AsString()
		for _, e := range f.enemies {
			if e.id == target {
				if !e.alive {
					return fmt.Errorf("target %s no longer exists", target)
				}
				e.alive = false
			}
		}
	case "BeginSiege":
		fort := f.fortressByID(action.Args["fort"].AsString())
		if fort == nil || fort.captured {
			return fmt.Errorf("fortress %s no longer stands", action.Args["fort"].AsString())
		}
		fort.underSiege = true
	case "Bombard":
		fort := f.fortressByID(action.Args["fort"].AsString())
		if fort == nil || fort.captured {
			return fmt.Errorf("fortress %s no longer stands", action.Args["fort"].AsString())
		}
		fort.hp = 0
		fort.captured = true
	case "PickupItem":
		item := action.Args["item"].AsString()
		if _, present := f.items[item]; !present {
			return fmt.Errorf("item %s no longer exists", item)
		}
		delete(f.items, item)
		f.medkits[unit] = true
	case "Heal":
		f.wounded[unit] = false
		f.medkits[unit] = false
	default:
		return fmt.Errorf("unknown action template %s", action.Template)
	}
	log.Debug("performed", "action", action.Name)
	return nil
}

func (f *battlefield) fortressByID(id string) *fortress {
	for _, fort := range f.fortresses {
		if fort.id == id {
			return fort
		}
	}
	return nil
}
