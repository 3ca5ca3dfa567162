package sim

import "math"

// PlayerView is the read-only per-player slice of the blackboard. Decision
// logic sees teammates and opponents only through these copies.
type PlayerView struct {
	Index    int
	Side     Side
	Role     Role
	Cat      Category
	Pos      Vec2
	Vel      Vec2
	MaxSpeed float64
	Active   bool
	Zone     int
	FrontRow bool
}

// Blackboard is the shared world snapshot rebuilt at the start of every
// tick and handed read-only to the decision engine and resolver. Nothing
// retains it past the tick.
type Blackboard struct {
	Tick        int
	Phase       Phase
	ServingSide Side
	Rotation    [2]int
	UseLibero   bool
	Spectate    bool

	// Ball kinematics.
	BallPos       Vec2
	BallHeight    float64
	BallVel       Vec2
	BallInFlight  bool
	Landing       Vec2
	TimeToLand    float64
	Possession    Side
	Touches       [2]int
	LastTouch     int // player index of the latest contact, -1 if none this rally
	LastTouchSide Side

	// Derived reads.
	Players       []PlayerView
	Server        int     // player index of the serving-zone player, -1 outside PRE_SERVE/serve flight
	FirstBall     [2]int  // per side: index of the player with the best claim on the next touch, -1 if none
	SetterSpot    [2]Vec2 // per side: where the setter runs the offence from
	PreferredHit  [2]int  // per side: front-row attacker a set should target, -1 if none
	AttackLane    [2]Vec2 // per side: estimated spot where the opponent attack arrives on that side
	BlockersAtNet [2]int  // per attacking side: opposing front-row bodies near its attack lane
}

// setterSpotLocal is the conventional setter target between zones 2 and 3,
// tight to the net.
var setterSpotLocal = Vec2{X: 6.0, Y: 7.9}

// arrivalEstimate is the contested-claim metric: straight-line time to the
// target at cruise speed, discounted by the role's priority bias.
func arrivalEstimate(maxSpeed float64, priority float64, from, to Vec2) float64 {
	if maxSpeed <= 0 {
		return math.MaxFloat64
	}
	return from.Dist(to)/maxSpeed - priority
}

// buildBlackboard assembles the tick snapshot from engine state. It is the
// only constructor; the engine discards the previous snapshot first.
func (e *Engine) buildBlackboard() *Blackboard {
	bb := &Blackboard{
		Tick:        e.tick,
		Phase:       e.phase,
		ServingSide: e.servingSide,
		Rotation:    e.rotation,
		UseLibero:   e.useLibero,
		Spectate:    e.spectate,

		BallPos:       e.ball.Pos,
		BallHeight:    e.ball.Height,
		BallVel:       e.ball.Vel,
		BallInFlight:  e.ball.InFlight,
		Possession:    e.ball.Possession,
		Touches:       e.ball.Touches,
		LastTouch:     e.ball.LastTouch,
		LastTouchSide: e.ball.LastTouchSide,

		Server:       -1,
		FirstBall:    [2]int{-1, -1},
		PreferredHit: [2]int{-1, -1},
	}
	bb.Landing, bb.TimeToLand = e.ball.PredictLanding()

	bb.Players = make([]PlayerView, len(e.players))
	for i, p := range e.players {
		zone := ZoneFor(p.Role, e.rotation[p.Side])
		bb.Players[i] = PlayerView{
			Index:    p.Index,
			Side:     p.Side,
			Role:     p.Role,
			Cat:      p.Cat,
			Pos:      p.Pos,
			Vel:      p.Vel,
			MaxSpeed: p.MaxSpeed,
			Active:   p.Active,
			Zone:     zone,
			FrontRow: IsFrontRow(zone),
		}
	}

	for s := SideHome; s <= SideAway; s++ {
		bb.SetterSpot[s] = localToWorld(s, setterSpotLocal.X, setterSpotLocal.Y)
		bb.FirstBall[s] = bb.bestClaim(s, bb.Landing)
		bb.PreferredHit[s] = bb.preferredAttacker(s)
		bb.AttackLane[s] = bb.estimateAttackLane(s)
	}
	for s := SideHome; s <= SideAway; s++ {
		bb.BlockersAtNet[s] = bb.countBlockers(s)
	}

	if e.phase == PhasePreServe || e.phase == PhaseServeInAir {
		for _, pv := range bb.Players {
			if pv.Side == e.servingSide && pv.Active && pv.Zone == 1 && pv.Cat != CatLibero {
				bb.Server = pv.Index
				break
			}
		}
	}
	return bb
}

// bestClaim returns the active player on side s with the lowest arrival
// estimate to the target, -1 if the side has no active players. Ties break
// on the stable player index.
func (bb *Blackboard) bestClaim(s Side, target Vec2) int {
	best, bestEst := -1, math.MaxFloat64
	for _, pv := range bb.Players {
		if pv.Side != s || !pv.Active {
			continue
		}
		est := arrivalEstimate(pv.MaxSpeed, priorityFor(pv.Cat), pv.Pos, target)
		if est < bestEst {
			best, bestEst = pv.Index, est
		}
	}
	return best
}

// preferredAttacker picks the front-row hitter a set should target:
// outsides first, then the opposite, then a middle.
func (bb *Blackboard) preferredAttacker(s Side) int {
	order := []Category{CatOutside, CatOpposite, CatMiddle}
	for _, cat := range order {
		for _, pv := range bb.Players {
			if pv.Side == s && pv.Active && pv.FrontRow && pv.Cat == cat {
				return pv.Index
			}
		}
	}
	return -1
}

// estimateAttackLane guesses where the opponent's attack arrives on side
// s's court: the ball's predicted landing while it is coming over, else a
// deep middle-court default.
func (bb *Blackboard) estimateAttackLane(s Side) Vec2 {
	fallback := localToWorld(s, 4.5, 3.5)
	if bb.BallInFlight && SideOfCourt(bb.Landing) == s {
		return bb.Landing
	}
	return fallback
}

// countBlockers counts defending front-row players already positioned near
// the attacking side's lane, the input to shot selection.
func (bb *Blackboard) countBlockers(attacking Side) int {
	lane := bb.AttackLane[attacking.Other()]
	count := 0
	for _, pv := range bb.Players {
		if pv.Side != attacking.Other() || !pv.Active || !pv.FrontRow {
			continue
		}
		nearNet := math.Abs(pv.Pos.Y-NetY) < 1.6
		if nearNet && math.Abs(pv.Pos.X-lane.X) < 1.5 {
			count++
		}
	}
	return count
}

// View returns the snapshot entry for a player index.
func (bb *Blackboard) View(index int) PlayerView { return bb.Players[index] }
