package sim

import (
	"fmt"
	"math/rand"
)

// Role trees are stateless and shared: all mutable context arrives through
// the blackboard and player, so building them once at package init is safe
// across engines.
var roleTrees [5]*node

func init() {
	roleTrees[CatSetter] = buildSetterTree()
	roleTrees[CatOutside] = buildHitterTree("outside")
	roleTrees[CatMiddle] = buildMiddleTree()
	roleTrees[CatOpposite] = buildHitterTree("opposite")
	roleTrees[CatLibero] = buildLiberoTree()
}

func treeFor(cat Category) *node { return roleTrees[cat] }

// --- shared predicates ---

func isServer(bb *Blackboard, p *Player) bool {
	return bb.Server == p.Index && bb.Phase == PhasePreServe
}

// firstBallMine: the ball is dropping on our side untouched this possession
// and my arrival estimate beats every teammate's.
func firstBallMine(bb *Blackboard, p *Player) bool {
	if !bb.BallInFlight || SideOfCourt(bb.Landing) != p.Side {
		return false
	}
	return bb.Touches[p.Side] == 0 && bb.FirstBall[p.Side] == p.Index
}

// secondBallOurs: we have made first contact and the ball is in the air on
// our side waiting for the set.
func secondBallOurs(bb *Blackboard, p *Player) bool {
	return bb.BallInFlight && SideOfCourt(bb.Landing) == p.Side &&
		bb.Touches[p.Side] == 1 && bb.LastTouch != p.Index
}

func opponentOffense(bb *Blackboard, p *Player) bool {
	if bb.Phase == PhasePreServe || bb.Phase == PhaseBallDead {
		return false
	}
	return bb.Possession == p.Side.Other()
}

func inFrontRow(bb *Blackboard, p *Player) bool {
	return bb.View(p.Index).FrontRow
}

// serveSpot is the service-zone position: behind the right third of the
// team's own baseline.
func serveSpot(side Side) Vec2 {
	return localToWorld(side, 7.0, -0.6)
}

// serveReadyDist is how close the server must stand to the service spot
// before the toss goes up.
const serveReadyDist = 0.6

// blockSpot fronts the estimated attack lane tight to the net on the
// defender's side.
func blockSpot(side Side, laneX float64) Vec2 {
	x := clamp(laneX, 0.5, CourtWidth-0.5)
	if side == SideHome {
		return Vec2{x, NetY - 0.4}
	}
	return Vec2{x, NetY + 0.4}
}

// digSpot pulls the defender slightly behind the estimated lane so the dig
// is taken in front of the body.
func digSpot(side Side, lane Vec2) Vec2 {
	lx, ly := worldToLocal(side, lane)
	return localToWorld(side, lx, clamp(ly-0.8, 0.5, 8.0))
}

// --- action leaves ---

func actServe(bb *Blackboard, p *Player, _ *rand.Rand) Intent {
	spot := serveSpot(p.Side)
	if p.Pos.Dist(spot) <= serveReadyDist {
		return gameAction(ActionServeBall, spot, "in the service zone, ball up")
	}
	return requestGoal(GoalServe, spot, "my service turn")
}

func actChaseFirst(bb *Blackboard, p *Player, _ *rand.Rand) Intent {
	return requestGoal(GoalChaseBall, bb.Landing,
		fmt.Sprintf("best arrival estimate on first ball (%.2fs out)", bb.TimeToLand))
}

func actRunSet(bb *Blackboard, p *Player, _ *rand.Rand) Intent {
	return requestGoal(GoalRunSet, bb.Landing, "taking second ball")
}

func actPenetrate(bb *Blackboard, p *Player, _ *rand.Rand) Intent {
	return requestGoal(GoalSetterSpot, bb.SetterSpot[p.Side], "penetrating to setter target")
}

// actApproach plans the attack run and pre-selects the shot against the
// seen block. This is the one weighted-random leaf in the trees: more
// blockers in the lane shift weight from power toward the tip.
func actApproach(bb *Blackboard, p *Player, rng *rand.Rand) Intent {
	blockers := bb.BlockersAtNet[p.Side]
	tipWeight := 0.15 + 0.25*float64(blockers)
	if tipWeight > 0.65 {
		tipWeight = 0.65
	}
	shot := ShotPower
	if rng.Float64() < tipWeight {
		shot = ShotTip
	}
	in := requestGoal(GoalApproachAttack, bb.Landing,
		fmt.Sprintf("set coming to me; %d blocker(s) up, choosing %s", blockers, shot))
	in.Shot = shot
	return in
}

func actBlock(bb *Blackboard, p *Player, _ *rand.Rand) Intent {
	lane := bb.AttackLane[p.Side]
	return requestGoal(GoalBlockNet, blockSpot(p.Side, lane.X), "fronting the attack lane")
}

func actDig(bb *Blackboard, p *Player, _ *rand.Rand) Intent {
	return requestGoal(GoalDefendLane, digSpot(p.Side, bb.AttackLane[p.Side]), "covering the estimated lane")
}

func actCoverTip(bb *Blackboard, p *Player, _ *rand.Rand) Intent {
	// Short coverage: between our attacker's lane and mid court.
	lane := bb.AttackLane[p.Side.Other()]
	lx, _ := worldToLocal(p.Side, lane)
	return requestGoal(GoalCoverTip, localToWorld(p.Side, lx, 6.0), "covering the tip behind our attack")
}

// --- trees ---

func buildSetterTree() *node {
	return selector("setter",
		sequence("serve-turn",
			cond("is_server", isServer),
			action("go_serve", actServe),
		),
		sequence("run-second-ball",
			cond("second_ball_ours", secondBallOurs),
			action("run_set", actRunSet),
		),
		sequence("emergency-first-ball",
			cond("first_ball_mine", firstBallMine),
			action("chase_ball", actChaseFirst),
		),
		sequence("penetrate",
			cond("ball_alive", func(bb *Blackboard, p *Player) bool {
				return bb.Phase != PhasePreServe && bb.Phase != PhaseBallDead
			}),
			action("to_setter_spot", actPenetrate),
		),
	)
}

// buildHitterTree serves both outside and opposite categories; their
// priorities match, only the preferred-attacker selection (computed on the
// blackboard) distinguishes them in play.
func buildHitterTree(name string) *node {
	return selector(name,
		sequence("serve-turn",
			cond("is_server", isServer),
			action("go_serve", actServe),
		),
		sequence("take-first-ball",
			cond("first_ball_mine", firstBallMine),
			action("chase_ball", actChaseFirst),
		),
		sequence("attack-approach",
			cond("set_coming_to_me", func(bb *Blackboard, p *Player) bool {
				return bb.Phase == PhaseSetPhase && bb.PreferredHit[p.Side] == p.Index &&
					SideOfCourt(bb.Landing) == p.Side
			}),
			action("approach", actApproach),
		),
		sequence("front-row-block",
			cond("front_row", inFrontRow),
			cond("opponent_offense", opponentOffense),
			action("block", actBlock),
		),
		sequence("back-row-defend",
			cond("opponent_offense", opponentOffense),
			action("dig", actDig),
		),
	)
}

func buildMiddleTree() *node {
	return selector("middle",
		sequence("serve-turn",
			cond("is_server", isServer),
			action("go_serve", actServe),
		),
		sequence("front-row-block",
			cond("front_row", inFrontRow),
			cond("opponent_offense", opponentOffense),
			action("block", actBlock),
		),
		sequence("quick-approach",
			cond("set_coming_to_me", func(bb *Blackboard, p *Player) bool {
				return bb.Phase == PhaseSetPhase && bb.PreferredHit[p.Side] == p.Index &&
					SideOfCourt(bb.Landing) == p.Side
			}),
			action("approach", actApproach),
		),
		sequence("take-first-ball",
			cond("first_ball_mine", firstBallMine),
			action("chase_ball", actChaseFirst),
		),
	)
}

func buildLiberoTree() *node {
	return selector("libero",
		sequence("take-first-ball",
			cond("first_ball_mine", firstBallMine),
			action("chase_ball", actChaseFirst),
		),
		sequence("dig-lane",
			cond("opponent_offense", opponentOffense),
			action("dig", actDig),
		),
		sequence("cover-tip",
			cond("our_attack", func(bb *Blackboard, p *Player) bool {
				return bb.Phase == PhaseSetPhase && bb.Possession == p.Side
			}),
			action("cover", actCoverTip),
		),
	)
}
