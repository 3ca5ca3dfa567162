package sim

import (
	"strings"
	"testing"
)

func TestSetWon(t *testing.T) {
	cases := []struct {
		a, b   int
		side   Side
		wonYet bool
	}{
		{25, 20, SideHome, true},
		{20, 25, SideAway, true},
		{25, 24, SideHome, false}, // win by two
		{24, 26, SideAway, true},
		{24, 24, SideHome, false},
		{0, 0, SideHome, false},
		{27, 25, SideHome, true}, // extended set
	}
	for _, c := range cases {
		side, won := SetWon(c.a, c.b, 25)
		if won != c.wonYet || (won && side != c.side) {
			t.Errorf("SetWon(%d, %d) = (%s, %v), want (%s, %v)", c.a, c.b, side, won, c.side, c.wonYet)
		}
	}
}

func TestBuildReportAggregatesHistory(t *testing.T) {
	rig := NewTestRig(WithSeed(8))
	e := rig.Engine
	const rallies = 3
	for i := 0; i < rallies; i++ {
		if !rig.RunToPhase(PhasePreServe, 60*5) || !rig.RunRally(60*120) {
			t.Fatalf("rally %d did not complete (phase %s)", i, e.Phase())
		}
	}

	rep := e.BuildReport()
	if rep.Rallies != rallies {
		t.Fatalf("report counts %d rallies, want %d", rep.Rallies, rallies)
	}
	if rep.HomeScore+rep.AwayScore != rallies {
		t.Errorf("report score %d-%d does not total %d", rep.HomeScore, rep.AwayScore, rallies)
	}
	if rep.AvgTicks <= 0 {
		t.Error("average rally length missing")
	}
	reasonTotal := 0
	for _, n := range rep.ReasonCounts {
		reasonTotal += n
	}
	if reasonTotal != rallies {
		t.Errorf("reason counts total %d, want %d", reasonTotal, rallies)
	}
	if len(rep.Grades) != 2*NumRoles {
		t.Fatalf("%d player grades, want %d", len(rep.Grades), 2*NumRoles)
	}
	serves := 0
	for _, g := range rep.Grades {
		serves += g.Serves
	}
	if serves != rallies {
		t.Errorf("grades count %d serves across %d rallies", serves, rallies)
	}
}

func TestReportStringIsStable(t *testing.T) {
	rig := NewTestRig(WithSeed(8))
	if !rig.RunRally(60 * 120) {
		t.Fatal("rally never ended")
	}
	rep := rig.Engine.BuildReport()
	a, b := rep.String(), rep.String()
	if a != b {
		t.Error("report rendering is not stable")
	}
	if !strings.Contains(a, "rallies=1") {
		t.Errorf("report missing rally count:\n%s", a)
	}
	if !strings.Contains(a, "end reasons:") {
		t.Errorf("report missing reason line:\n%s", a)
	}
}

func TestDescribeRallyEndCoversEveryReason(t *testing.T) {
	e := NewEngine(Config{Seed: 1})
	for reason := ReasonNone; reason <= ReasonFourTouches; reason++ {
		rec := RallyRecord{Index: 1, Winner: SideHome, Reason: reason, LastContact: 0}
		desc := e.DescribeRallyEnd(rec)
		if !strings.HasPrefix(desc, "home wins rally 1") {
			t.Errorf("%s: unexpected description %q", reason, desc)
		}
	}
	// Without any contact the line must not invent a player.
	rec := RallyRecord{Index: 2, Winner: SideAway, Reason: ReasonServeFault, LastContact: -1}
	if desc := e.DescribeRallyEnd(rec); !strings.Contains(desc, "no contact") {
		t.Errorf("missing-contact description %q", desc)
	}
}
