package sim

import "math"

// MotionProfile tunes the planner. Two independent profiles exist: Manual
// for direct token dragging (always live, even with playback off) and
// Preview for autonomous playback. They must never cross-apply.
type MotionProfile struct {
	SpeedScale    float64 // multiplier on each player's MaxSpeed
	Accel         float64 // m/s^2 toward the desired velocity
	Brake         float64 // m/s^2 available for stopping
	LookaheadSecs float64 // horizon used for the curvature speed cap
	CurvatureGain float64 // how hard turn angle bites into the speed cap

	CollisionRadius    float64 // pairwise separation kicks in inside this
	SeparationStrength float64 // repulsion scale, metres/sec at full overlap
	MaxSeparationStep  float64 // hard cap on per-tick separation displacement, metres
	SidestepBlend      float64 // 0 = pure slowdown, 1 = pure lateral sidestep
	MaxLateralOffset   float64 // cap on lateral deviation from the straight path, metres

	ArriveEpsilon float64 // within this of the target counts as done
}

// ManualProfile is snappy and permissive: a dragged token should track the
// pointer without fighting the planner.
func ManualProfile() MotionProfile {
	return MotionProfile{
		SpeedScale:         1.6,
		Accel:              24.0,
		Brake:              30.0,
		LookaheadSecs:      0.1,
		CurvatureGain:      0.2,
		CollisionRadius:    0.5,
		SeparationStrength: 1.0,
		MaxSeparationStep:  0.04,
		SidestepBlend:      1.0,
		MaxLateralOffset:   0.4,
		ArriveEpsilon:      0.05,
	}
}

// PreviewProfile reads like real footwork: bounded acceleration, braking
// into position, wide separation so tokens do not stack on the ball.
func PreviewProfile() MotionProfile {
	return MotionProfile{
		SpeedScale:         1.0,
		Accel:              9.0,
		Brake:              12.0,
		LookaheadSecs:      0.35,
		CurvatureGain:      0.75,
		CollisionRadius:    0.9,
		SeparationStrength: 2.2,
		MaxSeparationStep:  0.06,
		SidestepBlend:      0.65,
		MaxLateralOffset:   0.8,
		ArriveEpsilon:      0.12,
	}
}

// curvatureCap lowers cruise speed when the desired direction differs from
// the current heading: the sharper the projected turn over the look-ahead
// horizon, the lower the cap.
func curvatureCap(vel Vec2, desired Vec2, maxSpeed float64, prof MotionProfile) float64 {
	speed := vel.Len()
	if speed < 0.3 {
		return maxSpeed // standing starts turn freely
	}
	heading := vel.Norm()
	turn := math.Acos(clamp(heading.Dot(desired.Norm()), -1, 1))
	// Normalize the turn over the horizon: a U-turn at full look-ahead
	// drives the cap to its floor.
	severity := clamp(turn/math.Pi*prof.CurvatureGain/math.Max(prof.LookaheadSecs, 0.05)*0.35, 0, 1)
	cap := maxSpeed * (1 - severity)
	if floor := maxSpeed * 0.2; cap < floor {
		cap = floor
	}
	return cap
}

// advancePlayer integrates one player toward its resolved target under the
// given profile: ramp toward a braking-aware cruise speed, cap by path
// curvature, then integrate.
func advancePlayer(p *Player, target Vec2, prof MotionProfile, dt float64) {
	p.TargetPos = target
	to := target.Sub(p.Pos)
	dist := to.Len()
	if dist <= prof.ArriveEpsilon {
		p.GoalDone = true
		// Bleed residual velocity rather than snapping.
		p.Vel = p.Vel.Scale(math.Max(0, 1-prof.Brake*dt))
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		return
	}
	p.GoalDone = false

	maxSpeed := p.MaxSpeed * prof.SpeedScale
	// Braking cap: never move faster than can be stopped within dist.
	cruise := math.Min(maxSpeed, math.Sqrt(2*prof.Brake*dist))
	cruise = math.Min(cruise, curvatureCap(p.Vel, to, maxSpeed, prof))

	desired := to.Norm().Scale(cruise)
	dv := desired.Sub(p.Vel)
	maxDV := prof.Accel * dt
	if dv.Len() > maxDV {
		dv = dv.Norm().Scale(maxDV)
	}
	p.Vel = p.Vel.Add(dv)
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
}

// applySeparation runs pairwise collision avoidance for one side's active
// players. Repulsion inside the collision radius is split according to the
// sidestep blend: the lateral share displaces the player perpendicular to
// its path, the rest slows it down. Per-tick displacement is hard-capped by
// MaxSeparationStep and lateral deviation by MaxLateralOffset.
func applySeparation(players []*Player, side Side, prof MotionProfile, dt float64) {
	for i, a := range players {
		if a.Side != side || !a.Active {
			continue
		}
		var push Vec2
		for j, b := range players {
			if i == j || b.Side != side || !b.Active {
				continue
			}
			d := a.Pos.Dist(b.Pos)
			if d >= prof.CollisionRadius || d < 1e-6 {
				continue
			}
			away := a.Pos.Sub(b.Pos).Norm()
			overlap := 1 - d/prof.CollisionRadius
			push = push.Add(away.Scale(prof.SeparationStrength * overlap))
		}
		if push.Len() < 1e-9 {
			continue
		}

		heading := a.Vel.Norm()
		if heading.Len() < 1e-9 {
			heading = a.TargetPos.Sub(a.Pos).Norm()
		}
		lateralDir := heading.Perp()
		lateral := lateralDir.Scale(push.Dot(lateralDir) * prof.SidestepBlend)

		// Cap lateral deviation from the straight path to the target.
		pathOffset := a.Pos.Sub(a.TargetPos)
		off := pathOffset.Dot(lateralDir)
		if math.Abs(off) > prof.MaxLateralOffset {
			lateral = Vec2{}
		}

		// The non-sidestep share slows the player along its heading.
		a.Vel = a.Vel.Scale(1 - (1-prof.SidestepBlend)*clamp(push.Len()*dt, 0, 0.5))

		step := lateral.Scale(dt)
		if step.Len() > prof.MaxSeparationStep {
			step = step.Norm().Scale(prof.MaxSeparationStep)
		}
		a.Pos = a.Pos.Add(step)
		a.Pos = ClampToPlayArea(a.Pos, a.Side)
	}
}
