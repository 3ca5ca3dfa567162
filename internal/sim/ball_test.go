package sim

import (
	"math"
	"testing"
)

func TestBallLaunchArrivesAtTarget(t *testing.T) {
	b := NewBall(Vec2{7.0, -0.6})
	target := Vec2{4.5, 14.0}
	b.Launch(b.Pos, 2.9, target, 0, 1.4)

	var landed bool
	steps := 0
	for !landed && steps < 120 {
		landed = b.Step(SubStep)
		steps++
	}
	if !landed {
		t.Fatal("ball never landed")
	}
	if d := b.Pos.Dist(target); d > 0.2 {
		t.Errorf("landed %.2fm from target (at %v)", d, b.Pos)
	}
	// Flight time quantizes to the tick: 1.4s is 84 sub-steps.
	if steps < 82 || steps > 88 {
		t.Errorf("landed after %d steps, want about 84", steps)
	}
}

func TestBallPredictLandingMatchesIntegration(t *testing.T) {
	b := NewBall(Vec2{2.0, 3.0})
	b.Launch(b.Pos, 1.0, Vec2{6.0, 8.0}, 2.0, 1.1)

	predicted, eta := b.PredictLanding()
	if eta <= 1.1 {
		t.Fatalf("eta %.2f: a ball aimed above the floor keeps flying past its target", eta)
	}
	for !b.Step(SubStep) {
	}
	if d := b.Pos.Dist(predicted); d > 0.25 {
		t.Errorf("integrated landing %v is %.2fm from prediction %v", b.Pos, d, predicted)
	}
}

func TestBallPredictLandingDeadBall(t *testing.T) {
	b := NewBall(Vec2{1.0, 1.0})
	p, eta := b.PredictLanding()
	if eta != 0 || p != b.Pos {
		t.Errorf("dead ball predicted (%v, %.2f), want (%v, 0)", p, eta, b.Pos)
	}
}

func TestBallTouchBookkeeping(t *testing.T) {
	b := NewBall(Vec2{4.0, 4.0})
	b.Launch(b.Pos, 2.0, Vec2{4.0, 4.0}, 0, 0.5)

	b.Touch(3, SideHome, Vec2{6.0, 7.9}, 2.0, 1.0)
	if b.Touches[SideHome] != 1 || b.LastTouch != 3 || b.LastTouchSide != SideHome {
		t.Errorf("after touch: touches=%v last=%d side=%s", b.Touches, b.LastTouch, b.LastTouchSide)
	}
	if !b.RecentContact() {
		t.Error("recent-contact flag not raised")
	}
	for i := 0; i < recentContactTicks; i++ {
		b.Step(SubStep)
	}
	if b.RecentContact() {
		t.Error("recent-contact flag never decayed")
	}

	b.ResetTouches(SideAway)
	if b.Touches != [2]int{} || b.Possession != SideAway {
		t.Errorf("after crossing reset: touches=%v possession=%s", b.Touches, b.Possession)
	}
}

func TestBallVerticalSolveHitsTargetHeight(t *testing.T) {
	// The solved launch must pass through the requested height at the
	// requested time: h(T) = h0 + vz*T - g/2*T^2.
	b := NewBall(Vec2{})
	b.Launch(Vec2{}, 0.8, Vec2{5, 0}, 2.0, 1.2)
	h := 0.8 + b.VelZ*1.2 - 0.5*gravity*1.2*1.2
	if math.Abs(h-2.0) > 1e-9 {
		t.Errorf("height at T = %.4f, want 2.0", h)
	}
}
