package sim

import (
	"fmt"
	"math/rand"
)

// SubStep is the fixed integration timestep. Hosts accumulate real elapsed
// time into Step(dt); the engine consumes it in SubStep slices.
const SubStep = 1.0 / 60.0

// Config seeds a new engine. The zero value is usable.
type Config struct {
	Seed             int64   // RNG seed; 0 means seed 1 (hosts pass time-based seeds for live variety)
	System           string  // rotation system for presets, default "5-1"
	OverlapTolerance float64 // legality slack, default DefaultOverlapTolerance
	Verbose          bool    // per-tick motion detail in the sim log
}

// manualCmd is a queued display-layer drag, consumed at the next tick.
type manualCmd struct {
	player int
	target Vec2
	clear  bool
}

// Engine owns the whole simulation: players, ball, rally machine, decision
// engine, resolver and motion planner. Single-threaded by contract: all
// mutation happens inside Step, reads may happen between steps.
type Engine struct {
	players []*Player
	ball    Ball

	phase       Phase
	servingSide Side
	rotation    [2]int
	scores      [2]int

	rallyIndex     int
	rallyStartTick int
	contacts       []ContactEvent
	history        []RallyRecord
	deadTicks      int
	preServeTicks  int
	serveRequested bool

	useLibero bool
	spectate  bool
	paused    bool

	system           string
	overlapTolerance float64

	tick  int
	accum float64
	rng   *rand.Rand

	log  *SimLog
	feed *traceFeed

	errCb func(error)

	lastBB         *Blackboard
	lastIntents    []Intent
	lastTraces     []DecisionTrace
	lastViolations []OverlapViolation

	manualProf  MotionProfile
	previewProf MotionProfile

	pendingManual []manualCmd
}

// rosterOrder is the fixed per-team roster layout; player index is
// side*NumRoles + position in this list.
var rosterOrder = [NumRoles]Role{
	RoleSetter, RoleOutside1, RoleMiddle1, RoleOpposite, RoleOutside2, RoleMiddle2, RoleLibero,
}

// NewEngine builds a ready-to-serve engine with both rosters placed in
// their rotation-1 formations.
func NewEngine(cfg Config) *Engine {
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if cfg.System == "" {
		cfg.System = "5-1"
	}
	if cfg.OverlapTolerance == 0 {
		cfg.OverlapTolerance = DefaultOverlapTolerance
	}
	e := &Engine{
		phase:            PhasePreServe,
		servingSide:      SideHome,
		rotation:         [2]int{1, 1},
		rallyIndex:       1,
		system:           cfg.System,
		overlapTolerance: cfg.OverlapTolerance,
		rng:              rand.New(rand.NewSource(cfg.Seed)),
		log:              NewSimLog(cfg.Verbose),
		feed:             newTraceFeed(),
		spectate:         true,
		manualProf:       ManualProfile(),
		previewProf:      PreviewProfile(),
	}
	e.players = make([]*Player, 0, 2*NumRoles)
	for s := SideHome; s <= SideAway; s++ {
		for _, role := range rosterOrder {
			e.players = append(e.players, newPlayer(len(e.players), s, role))
		}
	}
	e.lastIntents = make([]Intent, len(e.players))
	e.lastTraces = make([]DecisionTrace, len(e.players))
	e.ResetPlayers()
	e.resetForServe()
	return e
}

// --- command surface ---

// Step advances simulated time by dt seconds, consuming it in fixed
// sub-steps. A paused engine (after a fatal error) ignores time.
func (e *Engine) Step(dt float64) {
	if e.paused || dt <= 0 {
		return
	}
	e.accum += dt
	for e.accum >= SubStep-1e-9 {
		e.stepOnce()
		e.accum -= SubStep
	}
}

// Serve arms the next serve; it executes once the server reaches the
// service zone. A no-op outside PRE_SERVE.
func (e *Engine) Serve() {
	if e.phase == PhasePreServe {
		e.serveRequested = true
	}
}

// ResetPlayers returns every active player to its base formation spot and
// clears motion state. Roster composition is untouched.
func (e *Engine) ResetPlayers() {
	e.applyLibero()
	for _, p := range e.players {
		pp := presetPhaseFor(e.phase, p.Side == e.servingSide)
		p.Pos = basePosition(e.system, p.Side, p.Role, e.rotation[p.Side], pp)
		p.BaseGoal = p.Pos
		p.Vel = Vec2{}
		p.TacticalGoal = GoalBase
		p.GoalDone = false
		p.PathLocked = false
		p.ManualOverride = false
		p.PlannedShot = ShotNone
	}
}

// ResetRally force-ends the current rally, awarding it to the given side,
// and immediately arranges the next one: touch counts back to zero, all
// done/locked-path flags cleared, roster untouched.
func (e *Engine) ResetRally(winner Side) {
	if e.phase != PhaseBallDead {
		e.endRally(winner, ReasonNone)
	}
	if e.paused {
		return
	}
	e.beginNextRally()
}

// SetUseLibero toggles the libero substitution; the swap applies at the
// next pre-serve (or immediately while already there).
func (e *Engine) SetUseLibero(on bool) {
	e.useLibero = on
	if e.phase == PhasePreServe {
		e.applyLibero()
	}
}

// SetSpectateMode toggles autonomous preview playback. Off, the rally
// machine and decision engine idle and only manual drags move tokens,
// under the manual profile, which is always live.
func (e *Engine) SetSpectateMode(on bool) { e.spectate = on }

// SetManualTarget queues a drag override for a player; it is consumed at
// the start of the next tick and wins over any decision-tree output.
func (e *Engine) SetManualTarget(player int, target Vec2) {
	e.pendingManual = append(e.pendingManual, manualCmd{player: player, target: target})
}

// ClearManualOverride releases a dragged player back to the simulation.
func (e *Engine) ClearManualOverride(player int) {
	e.pendingManual = append(e.pendingManual, manualCmd{player: player, clear: true})
}

// OnError registers the single error callback. Errors raised inside a tick
// are delivered here, never thrown across the tick boundary.
func (e *Engine) OnError(cb func(error)) { e.errCb = cb }

// --- read surface ---

func (e *Engine) Phase() Phase { return e.phase }
func (e *Engine) ServingSide() Side { return e.servingSide }
func (e *Engine) Rotation(s Side) int { return e.rotation[s] }
func (e *Engine) Score(s Side) int { return e.scores[s] }
func (e *Engine) Tick() int { return e.tick }
func (e *Engine) Paused() bool { return e.paused }
func (e *Engine) SpectateMode() bool { return e.spectate }
func (e *Engine) UseLibero() bool { return e.useLibero }
func (e *Engine) Log() *SimLog { return e.log }

// BallState returns position, height and the recent-contact flag.
func (e *Engine) BallState() (Vec2, float64, bool) {
	return e.ball.Pos, e.ball.Height, e.ball.RecentContact()
}

// PlayerViews returns a display-ready copy of every roster entry.
func (e *Engine) PlayerViews() []PlayerView {
	out := make([]PlayerView, len(e.players))
	for i, p := range e.players {
		zone := ZoneFor(p.Role, e.rotation[p.Side])
		out[i] = PlayerView{
			Index: p.Index, Side: p.Side, Role: p.Role, Cat: p.Cat,
			Pos: p.Pos, Vel: p.Vel, MaxSpeed: p.MaxSpeed, Active: p.Active,
			Zone: zone, FrontRow: IsFrontRow(zone),
		}
	}
	return out
}

// LastIntents returns the previous tick's resolved intent per player.
func (e *Engine) LastIntents() []Intent {
	return append([]Intent(nil), e.lastIntents...)
}

// LastTraces returns the previous tick's decision traces.
func (e *Engine) LastTraces() []DecisionTrace {
	return append([]DecisionTrace(nil), e.lastTraces...)
}

// TraceFeed returns recent goal changes, oldest first.
func (e *Engine) TraceFeed() []DecisionTrace { return e.feed.Recent() }

// History returns all closed rallies.
func (e *Engine) History() []RallyRecord {
	return append([]RallyRecord(nil), e.history...)
}

// LastViolations returns the overlap faults found at the latest serve.
func (e *Engine) LastViolations() []OverlapViolation {
	return append([]OverlapViolation(nil), e.lastViolations...)
}

// PlayerLabel returns the display label for a player index.
func (e *Engine) PlayerLabel(index int) string { return e.players[index].Label }

// --- tick internals ---

// fatal reports a logic defect through the error callback and pauses the
// simulation. It never panics back into the host.
func (e *Engine) fatal(err error) {
	e.paused = true
	e.log.Add(e.tick, "--", "--", "phase", "fatal", err.Error(), 0)
	if e.errCb != nil {
		e.errCb(err)
	}
}

// stepOnce runs one fixed sub-step. Panics inside the tick are converted
// into the fatal-error path so the host animation loop never unwinds.
func (e *Engine) stepOnce() {
	defer func() {
		if r := recover(); r != nil {
			e.fatal(fmt.Errorf("tick %d panic: %v", e.tick, r))
		}
	}()
	e.tick++

	e.applyPendingManual()

	// Ball first: integrate and detect the frame's events.
	prevPos, prevHeight := e.ball.Pos, e.ball.Height
	landed := false
	crossed := false
	crossHeight := 0.0
	if e.spectate {
		landed = e.ball.Step(SubStep)
		if e.ball.InFlight || landed {
			before := prevPos.Y - NetY
			after := e.ball.Pos.Y - NetY
			if before*after < 0 {
				crossed = true
				t := before / (before - after)
				crossHeight = prevHeight + (e.ball.Height-prevHeight)*t
			}
		}
		e.stepPhase(landed, crossed, crossHeight)
		if e.paused {
			return
		}
	}

	e.refreshBaseGoals()

	bb := e.buildBlackboard()
	e.lastBB = bb

	// Decisions only run in playback; manual editing leaves tokens alone.
	intents := make([]Intent, len(e.players))
	if e.spectate {
		for _, p := range e.players {
			if !p.Active {
				continue
			}
			intents[p.Index] = decide(bb, p, e.rng)
			e.lastTraces[p.Index] = DecisionTrace{Tick: e.tick, Player: p.Index, Label: p.Label, Intent: intents[p.Index]}
			if intents[p.Index].Goal == GoalApproachAttack {
				p.PlannedShot = intents[p.Index].Shot
			}
		}
		e.lastIntents = intents
	} else {
		for _, p := range e.players {
			intents[p.Index] = maintainResponsibility(p)
		}
	}

	resolved := e.resolveIntents(bb, intents)

	for _, p := range e.players {
		if !p.Active {
			continue
		}
		r := resolved[p.Index]
		switch {
		case r.manual:
			advancePlayer(p, r.target, e.manualProf, SubStep)
		case e.spectate:
			advancePlayer(p, r.target, e.previewProf, SubStep)
		default:
			continue // editing mode: undragged tokens hold position
		}
		p.Pos = ClampToPlayArea(p.Pos, p.Side)
	}
	for s := SideHome; s <= SideAway; s++ {
		prof := e.previewProf
		if !e.spectate {
			prof = e.manualProf
		}
		applySeparation(e.players, s, prof, SubStep)
	}

	// While waiting to serve, the ball stays with the server.
	if e.phase == PhasePreServe && !e.ball.InFlight {
		if sv := e.serverPlayer(); sv != nil {
			e.ball.Pos = sv.Pos
			e.ball.Height = 1.0
		}
	}
}

// applyPendingManual consumes queued drag commands.
func (e *Engine) applyPendingManual() {
	for _, cmd := range e.pendingManual {
		if cmd.player < 0 || cmd.player >= len(e.players) {
			continue
		}
		p := e.players[cmd.player]
		if cmd.clear {
			p.ManualOverride = false
			continue
		}
		p.ManualOverride = true
		p.ManualTarget = cmd.target
	}
	e.pendingManual = e.pendingManual[:0]
}

// refreshBaseGoals re-derives every player's positional responsibility from
// the preset layer for the current phase.
func (e *Engine) refreshBaseGoals() {
	for _, p := range e.players {
		if !p.Active {
			continue
		}
		pp := presetPhaseFor(e.phase, p.Side == e.servingSide)
		p.BaseGoal = basePosition(e.system, p.Side, p.Role, e.rotation[p.Side], pp)
	}
}

// serverPlayer returns the active zone-1 player on the serving side.
func (e *Engine) serverPlayer() *Player {
	for _, p := range e.players {
		if p.Side == e.servingSide && p.Active && p.Cat != CatLibero &&
			ZoneFor(p.Role, e.rotation[e.servingSide]) == 1 {
			return p
		}
	}
	return nil
}

// applyLibero swaps the libero in for the back-row middle (and back out
// when that middle rotates to serve). A replaced middle that has rotated to
// the front row re-enters before any new swap, so rotation never strands a
// benched middle. Positions exchange so the swap reads as a substitution,
// not a teleport.
func (e *Engine) applyLibero() {
	for s := SideHome; s <= SideAway; s++ {
		current := backRowMiddle(e.rotation[s])
		var libero, middle, benched *Player
		for _, p := range e.players {
			if p.Side != s {
				continue
			}
			switch {
			case p.Role == RoleLibero:
				libero = p
			case p.Role == current:
				middle = p
			case CategoryOf(p.Role) == CatMiddle && !p.Active:
				benched = p
			}
		}
		if libero == nil || middle == nil {
			continue
		}
		if benched != nil && libero.Active {
			benched.Pos = libero.Pos
			benched.Active = true
			libero.Active = false
			e.log.Add(e.tick, benched.Label, s.String(), "intent", "libero_out",
				fmt.Sprintf("%s returns", benched.Label), 0)
		}
		middleServes := s == e.servingSide && ZoneFor(middle.Role, e.rotation[s]) == 1
		wantLibero := e.useLibero && !middleServes
		if wantLibero && !libero.Active && middle.Active {
			libero.Pos = middle.Pos
			libero.Active = true
			middle.Active = false
			e.log.Add(e.tick, libero.Label, s.String(), "intent", "libero_in",
				fmt.Sprintf("replacing %s", middle.Label), 0)
		} else if !wantLibero && libero.Active {
			middle.Pos = libero.Pos
			middle.Active = true
			libero.Active = false
			e.log.Add(e.tick, middle.Label, s.String(), "intent", "libero_out",
				fmt.Sprintf("%s returns", middle.Label), 0)
		}
	}
}

// resetForServe stages a dead ball with the serving side and restores
// per-player rally flags.
func (e *Engine) resetForServe() {
	e.applyLibero()
	e.ball = NewBall(localToWorld(e.servingSide, 7.0, -0.6))
	e.ball.Possession = e.servingSide
	for _, p := range e.players {
		p.GoalDone = false
		p.PathLocked = false
		p.PlannedShot = ShotNone
	}
}
