package sim

// resolvedTarget is the single outcome of intent resolution for one player:
// exactly one position (or serve action) per player per tick.
type resolvedTarget struct {
	target Vec2
	goal   GoalKind
	manual bool // move under the manual profile, not the preview profile
}

// contestedGoals are goals where several teammates may claim the same spot
// (the ball); they are arbitrated by arrival estimate.
func contested(g GoalKind) bool {
	return g == GoalChaseBall || g == GoalRunSet
}

// resolveIntents merges each player's tree output with its base
// responsibility and any manual override, then arbitrates contested claims.
//
// Precedence per player: manual override wins outright (the tree result is
// discarded); otherwise the tactical goal applies while it qualifies;
// otherwise the base responsibility. Contested claims go to the lowest
// arrival estimate, ties to the lowest player index (the estimate loop
// visits players in stable index order and only strictly better estimates
// displace the holder). A winner's path locks: they hold the claim across
// ticks until they stop chasing or a drag redirects them.
func (e *Engine) resolveIntents(bb *Blackboard, intents []Intent) []resolvedTarget {
	out := make([]resolvedTarget, len(e.players))

	// Arbitrate contested ball claims per side before assigning targets.
	// A holder with a locked path keeps the claim while it still chases;
	// re-arbitration waits until the holder lets go (ball dead or touched,
	// so the tree stops emitting the goal) or a manual drag takes them.
	var claimWinner [2]int
	claimWinner[SideHome] = -1
	claimWinner[SideAway] = -1
	for s := SideHome; s <= SideAway; s++ {
		for _, p := range e.players {
			if p.Side != s || !p.Active || p.ManualOverride || !p.PathLocked {
				continue
			}
			in := intents[p.Index]
			if in.Kind == IntentRequestGoal && contested(in.Goal) {
				claimWinner[s] = p.Index
				break
			}
		}
		if claimWinner[s] >= 0 {
			continue
		}
		best := 1e18
		for _, p := range e.players {
			if p.Side != s || !p.Active || p.ManualOverride {
				continue
			}
			in := intents[p.Index]
			if in.Kind != IntentRequestGoal || !contested(in.Goal) {
				continue
			}
			est := arrivalEstimate(p.MaxSpeed, p.Priority, p.Pos, in.Target)
			if est < best {
				best = est
				claimWinner[s] = p.Index
			}
		}
	}

	for _, p := range e.players {
		if !p.Active {
			continue
		}
		if p.ManualOverride {
			// Display-layer drag: consumed here, wins over everything.
			out[p.Index] = resolvedTarget{target: ClampToPlayArea(p.ManualTarget, p.Side), goal: GoalBase, manual: true}
			p.TacticalGoal = GoalBase
			p.PathLocked = false
			continue
		}
		in := intents[p.Index]
		if in.Kind == IntentGameAction {
			// The rally machine consumes the action; the player holds the
			// spot it acts from.
			p.PathLocked = false
			out[p.Index] = resolvedTarget{target: ClampToPlayArea(in.Target, p.Side), goal: p.TacticalGoal}
			continue
		}
		goal, target := in.Goal, in.Target
		if contested(goal) && claimWinner[p.Side] != p.Index {
			// Lost the claim: fall back to base responsibility.
			e.log.AddVerbose(bb.Tick, p.Label, p.Side.String(), "intent", "claim_lost",
				"contested ball claim lost, holding base", 0)
			goal, target = GoalBase, p.BaseGoal
		}
		if p.TacticalGoal != goal {
			e.feed.Add(DecisionTrace{Tick: bb.Tick, Player: p.Index, Label: p.Label, Intent: in})
			e.log.Add(bb.Tick, p.Label, p.Side.String(), "goal", "change",
				p.TacticalGoal.String()+" -> "+goal.String(), 0)
		}
		p.TacticalGoal = goal
		// A won ball claim locks the path: the player keeps running it
		// until the tree stops chasing or a drag takes them.
		p.PathLocked = contested(goal)
		out[p.Index] = resolvedTarget{target: ClampToPlayArea(target, p.Side), goal: goal}
	}
	return out
}
