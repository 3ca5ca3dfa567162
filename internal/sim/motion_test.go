package sim

import (
	"math"
	"testing"
)

func testPlayer(pos Vec2) *Player {
	p := newPlayer(0, SideHome, RoleOutside1)
	p.Pos = pos
	p.BaseGoal = pos
	return p
}

func TestAdvancePlayerRespectsSpeedCap(t *testing.T) {
	p := testPlayer(Vec2{1.0, 1.0})
	prof := PreviewProfile()
	cap := p.MaxSpeed * prof.SpeedScale

	for i := 0; i < 300; i++ {
		advancePlayer(p, Vec2{8.0, 8.0}, prof, SubStep)
		if s := p.Vel.Len(); s > cap+1e-9 {
			t.Fatalf("tick %d: speed %.3f exceeds cap %.3f", i, s, cap)
		}
	}
}

func TestAdvancePlayerArrivesAndStops(t *testing.T) {
	p := testPlayer(Vec2{2.0, 2.0})
	prof := PreviewProfile()
	target := Vec2{5.0, 6.0}

	for i := 0; i < 600 && !p.GoalDone; i++ {
		advancePlayer(p, target, prof, SubStep)
	}
	if !p.GoalDone {
		t.Fatalf("never arrived; stuck at %v", p.Pos)
	}
	if d := p.Pos.Dist(target); d > prof.ArriveEpsilon*2 {
		t.Errorf("flagged done %.2fm from target", d)
	}
	// Once done, residual velocity bleeds off instead of orbiting.
	for i := 0; i < 60; i++ {
		advancePlayer(p, target, prof, SubStep)
	}
	if s := p.Vel.Len(); s > 0.05 {
		t.Errorf("still moving at %.3f m/s after arrival", s)
	}
}

func TestAdvancePlayerBrakesIntoTarget(t *testing.T) {
	// Close to the target, the braking cap must dominate: speed never
	// exceeds what Brake can stop within the remaining distance.
	p := testPlayer(Vec2{0, 0})
	prof := PreviewProfile()
	target := Vec2{3.0, 0}

	for i := 0; i < 600 && !p.GoalDone; i++ {
		advancePlayer(p, target, prof, SubStep)
		dist := p.Pos.Dist(target)
		if dist < prof.ArriveEpsilon {
			continue
		}
		// One tick of slack: the cap was computed before this move.
		allowed := math.Sqrt(2*prof.Brake*dist) + (prof.Accel+prof.Brake)*SubStep
		if s := p.Vel.Len(); s > allowed {
			t.Fatalf("tick %d: %.3f m/s with %.2fm to stop (cap %.3f)", i, s, dist, allowed)
		}
	}
	if !p.GoalDone {
		t.Fatal("never arrived")
	}
}

func TestCurvatureCapSlowsTurns(t *testing.T) {
	prof := PreviewProfile()
	vel := Vec2{4.0, 0}

	straight := curvatureCap(vel, Vec2{1, 0}, 5.0, prof)
	uturn := curvatureCap(vel, Vec2{-1, 0}, 5.0, prof)
	if straight != 5.0 {
		t.Errorf("straight-line cap %.2f, want full speed", straight)
	}
	if uturn >= straight {
		t.Errorf("u-turn cap %.2f not below straight cap %.2f", uturn, straight)
	}
	if floor := 5.0 * 0.2; uturn < floor-1e-9 {
		t.Errorf("u-turn cap %.2f fell below the floor %.2f", uturn, floor)
	}
	// Standing starts turn freely.
	if got := curvatureCap(Vec2{}, Vec2{-1, 0}, 5.0, prof); got != 5.0 {
		t.Errorf("standing start capped to %.2f", got)
	}
}

func TestApplySeparationCapsPerTickStep(t *testing.T) {
	prof := PreviewProfile()
	a := testPlayer(Vec2{4.0, 4.0})
	b := testPlayer(Vec2{4.0, 4.3})
	b.Index = 1
	a.TargetPos = Vec2{8.0, 4.0}
	b.TargetPos = Vec2{0.0, 4.3}
	players := []*Player{a, b}

	start := a.Pos.Dist(b.Pos)
	for i := 0; i < 30; i++ {
		beforeA, beforeB := a.Pos, b.Pos
		applySeparation(players, SideHome, prof, SubStep)
		if step := a.Pos.Dist(beforeA); step > prof.MaxSeparationStep+1e-9 {
			t.Fatalf("tick %d: player a displaced %.4f, cap %.4f", i, step, prof.MaxSeparationStep)
		}
		if step := b.Pos.Dist(beforeB); step > prof.MaxSeparationStep+1e-9 {
			t.Fatalf("tick %d: player b displaced %.4f, cap %.4f", i, step, prof.MaxSeparationStep)
		}
	}
	if end := a.Pos.Dist(b.Pos); end <= start {
		t.Errorf("separation never opened the gap: %.3f -> %.3f", start, end)
	}
}

func TestApplySeparationIgnoresOtherSide(t *testing.T) {
	prof := PreviewProfile()
	a := testPlayer(Vec2{4.0, 4.0})
	b := newPlayer(1, SideAway, RoleOutside1)
	b.Pos = Vec2{4.05, 4.0}
	players := []*Player{a, b}

	before := a.Pos
	applySeparation(players, SideHome, prof, SubStep)
	if a.Pos != before {
		t.Errorf("opponent proximity moved the player: %v -> %v", before, a.Pos)
	}
}

func TestProfilesStayDistinct(t *testing.T) {
	m, p := ManualProfile(), PreviewProfile()
	if m.SpeedScale <= p.SpeedScale {
		t.Error("manual profile should out-pace preview for responsive drags")
	}
	if m.ArriveEpsilon >= p.ArriveEpsilon {
		t.Error("manual profile should settle tighter than preview")
	}
}
