package sim

import (
	"strings"
	"testing"
)

func TestSimLogFilter(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "H-S", "home", "goal", "change", "base -> chase_ball", 0)
	sl.Add(2, "A-OH1", "away", "ball", "contact", "touch 1: pass to setter", 1)
	sl.Add(3, "H-S", "home", "goal", "change", "chase_ball -> base", 0)

	if got := sl.Filter("goal", "change"); len(got) != 2 {
		t.Errorf("goal/change filter returned %d entries, want 2", len(got))
	}
	if got := sl.Filter("ball", ""); len(got) != 1 {
		t.Errorf("ball filter returned %d entries, want 1", len(got))
	}
	if got := sl.Filter("", "contact"); len(got) != 1 {
		t.Errorf("key-only filter returned %d entries, want 1", len(got))
	}
	if got := sl.FilterPlayer("H-S"); len(got) != 2 {
		t.Errorf("player filter returned %d entries, want 2", len(got))
	}
	if got := sl.Filter("legality", ""); len(got) != 0 {
		t.Errorf("empty category matched %d entries", len(got))
	}
}

func TestSimLogVerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, "H-S", "home", "motion", "step", "detail", 0)
	if len(quiet.Entries()) != 0 {
		t.Error("verbose entry recorded with verbose off")
	}

	loud := NewSimLog(true)
	loud.AddVerbose(1, "H-S", "home", "motion", "step", "detail", 0)
	if len(loud.Entries()) != 1 {
		t.Error("verbose entry dropped with verbose on")
	}
}

func TestSimLogDump(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(42, "H-S", "home", "goal", "change", "base -> chase_ball", 0)
	dump := sl.Dump()
	if !strings.Contains(dump, "T=0042") || !strings.Contains(dump, "base -> chase_ball") {
		t.Errorf("dump missing entry content:\n%s", dump)
	}
}

func TestTraceFeedKeepsOrderAndCap(t *testing.T) {
	f := newTraceFeed()
	for i := 0; i < traceFeedCap+10; i++ {
		f.Add(DecisionTrace{Tick: i})
	}
	got := f.Recent()
	if len(got) != traceFeedCap {
		t.Fatalf("feed holds %d entries, cap is %d", len(got), traceFeedCap)
	}
	if got[0].Tick != 10 {
		t.Errorf("oldest retained tick %d, want 10", got[0].Tick)
	}
	if got[len(got)-1].Tick != traceFeedCap+9 {
		t.Errorf("newest tick %d, want %d", got[len(got)-1].Tick, traceFeedCap+9)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Tick != got[i-1].Tick+1 {
			t.Fatal("feed order broken")
		}
	}
}

func TestGoalKindStringsAreDistinct(t *testing.T) {
	seen := map[string]GoalKind{}
	for g := GoalBase; g <= GoalCoverTip; g++ {
		s := g.String()
		if s == "" {
			t.Errorf("goal %d renders empty", g)
		}
		if prev, dup := seen[s]; dup {
			t.Errorf("goals %d and %d share the string %q", prev, g, s)
		}
		seen[s] = g
	}
}
