package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase is the rally state machine's current state.
type Phase int

const (
	PhasePreServe Phase = iota
	PhaseServeInAir
	PhaseServeReceive
	PhaseTransitionToOffense
	PhaseSetPhase
	PhaseAttackPhase
	PhaseTransitionToDefense
	PhaseDefensePhase
	PhaseBallDead
)

func (p Phase) String() string {
	switch p {
	case PhasePreServe:
		return "PRE_SERVE"
	case PhaseServeInAir:
		return "SERVE_IN_AIR"
	case PhaseServeReceive:
		return "SERVE_RECEIVE"
	case PhaseTransitionToOffense:
		return "TRANSITION_TO_OFFENSE"
	case PhaseSetPhase:
		return "SET_PHASE"
	case PhaseAttackPhase:
		return "ATTACK_PHASE"
	case PhaseTransitionToDefense:
		return "TRANSITION_TO_DEFENSE"
	case PhaseDefensePhase:
		return "DEFENSE_PHASE"
	case PhaseBallDead:
		return "BALL_DEAD"
	default:
		return "UNKNOWN"
	}
}

// allowedTransitions encodes the legal phase graph. Any transition outside
// it is a logic defect, not a game event, and is reported as fatal.
var allowedTransitions = map[Phase][]Phase{
	PhasePreServe:            {PhaseServeInAir, PhaseBallDead},
	PhaseServeInAir:          {PhaseServeReceive, PhaseBallDead},
	PhaseServeReceive:        {PhaseTransitionToOffense, PhaseBallDead},
	PhaseTransitionToOffense: {PhaseSetPhase, PhaseBallDead},
	PhaseSetPhase:            {PhaseAttackPhase, PhaseBallDead},
	PhaseAttackPhase:         {PhaseTransitionToDefense, PhaseBallDead},
	PhaseTransitionToDefense: {PhaseDefensePhase, PhaseBallDead},
	PhaseDefensePhase:        {PhaseTransitionToOffense, PhaseBallDead},
	PhaseBallDead:            {PhasePreServe},
}

// EndReason explains how a rally died.
type EndReason int

const (
	ReasonNone EndReason = iota
	ReasonLandedIn
	ReasonLandedOut
	ReasonServeFault
	ReasonNetFault
	ReasonFourTouches
)

func (r EndReason) String() string {
	switch r {
	case ReasonLandedIn:
		return "landed_in"
	case ReasonLandedOut:
		return "landed_out"
	case ReasonServeFault:
		return "serve_fault"
	case ReasonNetFault:
		return "net_fault"
	case ReasonFourTouches:
		return "four_touches"
	default:
		return "none"
	}
}

// ContactEvent is one ball contact in a rally's possession chain.
type ContactEvent struct {
	Tick   int
	Player int
	Side   Side
	Touch  int // 0 for the serve, 1..3 within a possession
}

// RallyRecord is one closed rally, immutable once appended to history.
type RallyRecord struct {
	ID          uuid.UUID
	Index       int
	StartTick   int
	EndTick     int
	ServingSide Side
	Winner      Side
	Reason      EndReason
	LastContact int // player index, -1 if the serve never happened
	Contacts    []ContactEvent
}

// deadDelayTicks is how long the engine lingers in BALL_DEAD before
// arranging the next rally (~1.2s at 60 TPS).
const deadDelayTicks = 72

// transitionTo moves the phase machine, treating an illegal edge as a fatal
// logic defect per the error-handling contract.
func (e *Engine) transitionTo(next Phase) {
	for _, ok := range allowedTransitions[e.phase] {
		if ok == next {
			e.log.Add(e.tick, "--", "--", "phase", "change",
				fmt.Sprintf("%s -> %s", e.phase, next), 0)
			e.phase = next
			return
		}
	}
	e.fatal(fmt.Errorf("invalid phase transition %s -> %s", e.phase, next))
}

// stepPhase advances the rally machine for one tick: ball events first,
// then contact opportunities, matching the order a referee would call them.
func (e *Engine) stepPhase(landed bool, crossed bool, crossHeight float64) {
	switch e.phase {
	case PhasePreServe:
		e.maybeServe()

	case PhaseServeInAir:
		if crossed {
			if crossHeight < NetHeight {
				e.endRally(e.servingSide.Other(), ReasonServeFault)
				return
			}
			e.ball.ResetTouches(e.servingSide.Other())
			e.transitionTo(PhaseServeReceive)
			return
		}
		if landed {
			// Never reached the net: service fault.
			e.endRally(e.servingSide.Other(), ReasonServeFault)
		}

	case PhaseServeReceive, PhaseTransitionToOffense, PhaseSetPhase, PhaseDefensePhase:
		if landed {
			e.resolveLanding()
			return
		}
		// A shanked pass or set driven into the tape kills the ball.
		if crossed && crossHeight < NetHeight {
			e.endRally(e.ball.LastTouchSide.Other(), ReasonNetFault)
			return
		}
		e.tryContact()

	case PhaseAttackPhase:
		// The hit is on its way to the net.
		if crossed {
			if crossHeight < NetHeight {
				e.endRally(e.ball.LastTouchSide.Other(), ReasonNetFault)
				return
			}
			e.transitionTo(PhaseTransitionToDefense)
			return
		}
		if landed {
			e.resolveLanding()
			return
		}
		// A fourth touch by the attacking side is caught here.
		e.tryContact()

	case PhaseTransitionToDefense:
		if landed {
			e.resolveLanding()
			return
		}
		// Defending side takes over once the ball starts dropping on its side.
		if e.ball.VelZ < 0 {
			e.ball.ResetTouches(e.ball.LastTouchSide.Other())
			e.transitionTo(PhaseDefensePhase)
		}

	case PhaseBallDead:
		e.deadTicks++
		if e.deadTicks >= deadDelayTicks {
			e.beginNextRally()
		}
	}
}

// resolveLanding scores a dead ball from where it fell.
func (e *Engine) resolveLanding() {
	side := SideOfCourt(e.ball.Pos)
	if InBounds(e.ball.Pos, side) {
		// In bounds: the side whose floor it hit loses the rally.
		e.endRally(side.Other(), ReasonLandedIn)
		return
	}
	// Out: the last side to touch the ball loses.
	e.endRally(e.ball.LastTouchSide.Other(), ReasonLandedOut)
}

// endRally closes the rally: one score increment, one immutable record.
func (e *Engine) endRally(winner Side, reason EndReason) {
	if e.phase == PhaseBallDead {
		return
	}
	e.scores[winner]++
	rec := RallyRecord{
		ID:          uuid.New(),
		Index:       e.rallyIndex,
		StartTick:   e.rallyStartTick,
		EndTick:     e.tick,
		ServingSide: e.servingSide,
		Winner:      winner,
		Reason:      reason,
		LastContact: e.ball.LastTouch,
		Contacts:    append([]ContactEvent(nil), e.contacts...),
	}
	e.history = append(e.history, rec)
	e.log.Add(e.tick, "--", winner.String(), "score", "rally_end",
		fmt.Sprintf("%s wins (%s), %d-%d", winner, reason, e.scores[SideHome], e.scores[SideAway]), float64(e.scores[winner]))
	e.ball.InFlight = false
	e.deadTicks = 0
	e.transitionTo(PhaseBallDead)
}

// beginNextRally applies side-out rotation and arms the next serve.
func (e *Engine) beginNextRally() {
	last := e.history[len(e.history)-1]
	if last.Winner != e.servingSide {
		// Side-out: the winner gains serve and rotates one position.
		e.servingSide = last.Winner
		e.rotation[last.Winner] = e.rotation[last.Winner]%NumZones + 1
		e.log.Add(e.tick, "--", last.Winner.String(), "phase", "side_out",
			fmt.Sprintf("%s to serve, rotation %d", last.Winner, e.rotation[last.Winner]), float64(e.rotation[last.Winner]))
	}
	e.rallyIndex++
	e.rallyStartTick = e.tick
	e.contacts = e.contacts[:0]
	e.resetForServe()
	e.transitionTo(PhasePreServe)
}

// maybeServe performs the serve once requested (or automatically in
// spectate playback) and the server's tree signals ready from the service
// zone with an ActionServeBall intent.
func (e *Engine) maybeServe() {
	if !e.serveRequested {
		if !e.spectate {
			return
		}
		e.preServeTicks++
		if e.preServeTicks < deadDelayTicks {
			return
		}
	}
	server := e.serverPlayer()
	if server == nil {
		e.fatal(fmt.Errorf("no active server for side %s rotation %d", e.servingSide, e.rotation[e.servingSide]))
		return
	}
	in := e.lastIntents[server.Index]
	if in.Kind != IntentGameAction || in.Action != ActionServeBall {
		return // still walking back
	}

	// Formation legality is judged at serve contact.
	e.lastViolations = e.checkFormations()
	for _, v := range e.lastViolations {
		e.log.Add(e.tick, "--", "--", "legality", "overlap", v.String(), v.Amount)
	}

	e.serveRequested = false
	e.preServeTicks = 0
	e.performServe(server)
	e.transitionTo(PhaseServeInAir)
}

// performServe launches the ball toward the receiving court with
// skill-scaled scatter. Faults (net cord, long, wide) emerge from the
// trajectory rather than an explicit roll.
func (e *Engine) performServe(server *Player) {
	recv := e.servingSide.Other()
	// Deep targets with an arcing float: short serves drop into the net.
	aim := localToWorld(recv, 1.5+e.rng.Float64()*6.0, 1.5+e.rng.Float64()*3.0)
	scatter := 1.35 - server.Skills.Serve
	aim.X += e.rng.NormFloat64() * scatter
	aim.Y += e.rng.NormFloat64() * scatter
	flight := 1.35 + e.rng.Float64()*0.25

	e.ball.Launch(server.Pos, 2.9, aim, 0, flight)
	e.ball.LastTouch = server.Index
	e.ball.LastTouchSide = server.Side
	e.ball.Possession = recv
	e.contacts = append(e.contacts, ContactEvent{Tick: e.tick, Player: server.Index, Side: server.Side, Touch: 0})
	e.log.Add(e.tick, server.Label, server.Side.String(), "ball", "serve",
		fmt.Sprintf("serve toward (%.1f, %.1f)", aim.X, aim.Y), flight)
}

// tryContact lets the possessing side play a reachable descending ball.
func (e *Engine) tryContact() {
	b := &e.ball
	if !b.InFlight || b.VelZ >= 0 || b.Height > contactHeight || b.RecentContact() {
		return
	}
	side := SideOfCourt(b.Pos)
	if side != b.Possession {
		// An overpass drifting above the wrong court is nobody's ball
		// until it crosses and possession flips with it.
		return
	}
	var contactor *Player
	bestDist := contactReach
	for _, p := range e.players {
		if p.Side != side || !p.Active || p.Index == b.LastTouch {
			continue
		}
		if d := p.Pos.Dist(b.Pos); d <= bestDist {
			contactor, bestDist = p, d
		}
	}
	if contactor == nil {
		return
	}
	if b.Touches[side] >= maxTouchesPerSide {
		e.endRally(side.Other(), ReasonFourTouches)
		return
	}
	e.executeContact(contactor, side)
}

// executeContact plays the ball by touch number: pass to the setter spot,
// set to the preferred hitter's lane, attack across the net.
func (e *Engine) executeContact(p *Player, side Side) {
	touch := e.ball.Touches[side] + 1
	bb := e.lastBB // contact targeting reads the same snapshot decisions did
	if bb == nil {
		bb = e.buildBlackboard()
	}

	switch touch {
	case 1:
		target := bb.SetterSpot[side]
		scatter := (1.15 - p.Skills.Passing) * 1.8
		target.X += e.rng.NormFloat64() * scatter
		target.Y += e.rng.NormFloat64() * scatter
		target = ClampToPlayArea(target, side)
		e.ball.Touch(p.Index, side, target, 2.0, 1.0+e.rng.Float64()*0.25)
		e.logContact(p, touch, "pass to setter")
		e.transitionTo(PhaseTransitionToOffense)

	case 2:
		hitter := bb.PreferredHit[side]
		var lane Vec2
		if hitter >= 0 {
			hx, _ := worldToLocal(side, e.players[hitter].Pos)
			lane = localToWorld(side, clamp(hx, 1.0, CourtWidth-1.0), 8.0)
		} else {
			lane = localToWorld(side, 2.0, 8.0)
		}
		scatter := (1.1 - p.Skills.Setting) * 1.2
		lane.X += e.rng.NormFloat64() * scatter
		lane.Y += e.rng.NormFloat64() * scatter * 0.5
		lane = ClampToPlayArea(lane, side)
		e.ball.Touch(p.Index, side, lane, 2.6, 1.0+e.rng.Float64()*0.3)
		e.logContact(p, touch, "set to the lane")
		e.transitionTo(PhaseSetPhase)

	case 3:
		e.executeAttack(p, side)
	}
}

// executeAttack sends the third touch across the net using the shot the
// attacker's tree pre-selected against the block.
func (e *Engine) executeAttack(p *Player, side Side) {
	opp := side.Other()
	shot := p.PlannedShot
	if shot == ShotNone {
		shot = ShotPower
	}
	var target Vec2
	var flight float64
	switch shot {
	case ShotTip:
		// Short drop behind the block.
		target = localToWorld(opp, 2.5+e.rng.Float64()*4.0, 5.5+e.rng.Float64()*1.5)
		flight = 0.85 + e.rng.Float64()*0.2
	default:
		// Driven ball deep in the court; scatter can push it long or wide.
		target = localToWorld(opp, 1.0+e.rng.Float64()*7.0, 1.0+e.rng.Float64()*5.0)
		scatter := (1.2 - p.Skills.Attacking) * 1.3
		target.X += e.rng.NormFloat64() * scatter
		target.Y += e.rng.NormFloat64() * scatter
		flight = 0.5 + e.rng.Float64()*0.15
	}
	// Jump contact above the tape so the drive clears it.
	e.ball.Height = NetHeight + 0.4 + 0.3*p.Skills.Attacking
	e.ball.Touch(p.Index, side, target, 0, flight)
	p.PlannedShot = ShotNone
	e.logContact(p, 3, fmt.Sprintf("%s attack", shot))
	e.transitionTo(PhaseAttackPhase)
}

func (e *Engine) logContact(p *Player, touch int, detail string) {
	e.contacts = append(e.contacts, ContactEvent{Tick: e.tick, Player: p.Index, Side: p.Side, Touch: touch})
	e.log.Add(e.tick, p.Label, p.Side.String(), "ball", "contact",
		fmt.Sprintf("touch %d: %s", touch, detail), float64(touch))
}

// checkFormations runs the overlap validator for both lineups.
func (e *Engine) checkFormations() []OverlapViolation {
	var all []OverlapViolation
	for s := SideHome; s <= SideAway; s++ {
		positions := make(map[Role]Vec2, NumRotationRoles)
		for _, p := range e.players {
			if p.Side != s || !p.Active {
				continue
			}
			positions[p.Role] = p.Pos
		}
		all = append(all, CheckOverlap(s, e.rotation[s], positions, e.overlapTolerance)...)
	}
	return all
}
