package sim

import "testing"

// zoneCenterLineup places every rotation role at its zone centre, which is
// legal by construction in all rotations.
func zoneCenterLineup(side Side, rotation int) map[Role]Vec2 {
	positions := make(map[Role]Vec2, NumRotationRoles)
	for z := 1; z <= NumZones; z++ {
		positions[RoleAtZone(z, rotation)] = ZoneCenter(side, z)
	}
	return positions
}

func TestCheckOverlapZoneCentersAreLegal(t *testing.T) {
	for _, side := range []Side{SideHome, SideAway} {
		for rot := 1; rot <= NumZones; rot++ {
			got := CheckOverlap(side, rot, zoneCenterLineup(side, rot), DefaultOverlapTolerance)
			if len(got) != 0 {
				t.Errorf("%s rotation %d: zone centres flagged: %v", side, rot, got)
			}
		}
	}
}

func TestCheckOverlapColumnViolation(t *testing.T) {
	// Pull the front-middle behind the back-middle: exactly the 3-6
	// column pair must fire, nothing else.
	positions := zoneCenterLineup(SideHome, 1)
	front := RoleAtZone(3, 1)
	positions[front] = localToWorld(SideHome, 4.5, 2.0)

	got := CheckOverlap(SideHome, 1, positions, DefaultOverlapTolerance)
	if len(got) != 1 {
		t.Fatalf("expected exactly one violation, got %v", got)
	}
	v := got[0]
	if v.ZoneA != 3 || v.ZoneB != 6 || v.Axis != "column" {
		t.Errorf("wrong pair flagged: %v", v)
	}
	if v.RoleA != front || v.RoleB != RoleAtZone(6, 1) {
		t.Errorf("wrong roles flagged: %v", v)
	}
	if v.Amount <= 0 {
		t.Errorf("violation amount %.3f, want positive", v.Amount)
	}
}

func TestCheckOverlapRowViolation(t *testing.T) {
	// Slide the front-left hitter to the right of the front-middle.
	positions := zoneCenterLineup(SideHome, 1)
	left := RoleAtZone(4, 1)
	positions[left] = localToWorld(SideHome, 5.0, 7.0)

	got := CheckOverlap(SideHome, 1, positions, DefaultOverlapTolerance)
	if len(got) != 1 {
		t.Fatalf("expected exactly one violation, got %v", got)
	}
	v := got[0]
	if v.ZoneA != 4 || v.ZoneB != 3 || v.Axis != "row" {
		t.Errorf("wrong pair flagged: %v", v)
	}
}

func TestCheckOverlapMirrorsForAwaySide(t *testing.T) {
	// The same team-local infraction must be flagged identically on the
	// far side of the net, where world coordinates are mirrored.
	for _, side := range []Side{SideHome, SideAway} {
		positions := zoneCenterLineup(side, 1)
		positions[RoleAtZone(3, 1)] = localToWorld(side, 4.5, 2.0)
		got := CheckOverlap(side, 1, positions, DefaultOverlapTolerance)
		if len(got) != 1 || got[0].ZoneA != 3 {
			t.Errorf("%s: got %v, want the single 3-6 column violation", side, got)
		}
	}
}

func TestCheckOverlapToleranceBoundary(t *testing.T) {
	positions := zoneCenterLineup(SideHome, 1)
	front := RoleAtZone(3, 1)

	// Just inside the slack: legal.
	positions[front] = localToWorld(SideHome, 4.5, 2.96)
	if got := CheckOverlap(SideHome, 1, positions, 0.05); len(got) != 0 {
		t.Errorf("within tolerance still flagged: %v", got)
	}
	// Just past it: flagged.
	positions[front] = localToWorld(SideHome, 4.5, 2.94)
	if got := CheckOverlap(SideHome, 1, positions, 0.05); len(got) != 1 {
		t.Errorf("past tolerance not flagged: %v", got)
	}
}

func TestCheckOverlapAcceptsLiberoStandIn(t *testing.T) {
	rot := 1
	positions := zoneCenterLineup(SideHome, rot)
	mid := backRowMiddle(rot)

	// The libero takes the replaced middle's spot under its own key.
	spot := positions[mid]
	delete(positions, mid)
	positions[RoleLibero] = spot
	if got := CheckOverlap(SideHome, rot, positions, DefaultOverlapTolerance); len(got) != 0 {
		t.Fatalf("legal libero lineup flagged: %v", got)
	}

	// And is held to the same ordering rules through that zone.
	positions[RoleLibero] = localToWorld(SideHome, 4.5, 7.6) // in front of zone 3
	got := CheckOverlap(SideHome, rot, positions, DefaultOverlapTolerance)
	if len(got) != 1 {
		t.Fatalf("libero overlap not flagged: %v", got)
	}
	if got[0].RoleB != RoleLibero {
		t.Errorf("violation should name the libero: %v", got[0])
	}
}

func TestConstrainedPairsShape(t *testing.T) {
	// Middle zones 3 and 6 carry three constraints each, corners two,
	// and the 1-4 / 2-5 diagonals none.
	degree := map[int]int{}
	for _, pair := range constrainedPairs {
		degree[pair.a]++
		degree[pair.b]++
		if (pair.a == 1 && pair.b == 4) || (pair.a == 4 && pair.b == 1) ||
			(pair.a == 2 && pair.b == 5) || (pair.a == 5 && pair.b == 2) {
			t.Errorf("diagonal pair %d-%d must stay exempt", pair.a, pair.b)
		}
	}
	for z := 1; z <= NumZones; z++ {
		want := 2
		if z == 3 || z == 6 {
			want = 3
		}
		if degree[z] != want {
			t.Errorf("zone %d has %d constraints, want %d", z, degree[z], want)
		}
	}
}

func TestCheckOverlapSkipsMissingRoles(t *testing.T) {
	positions := map[Role]Vec2{
		RoleAtZone(3, 1): localToWorld(SideHome, 4.5, 2.0),
	}
	// With no zone-6 occupant there is nothing to order against.
	if got := CheckOverlap(SideHome, 1, positions, DefaultOverlapTolerance); len(got) != 0 {
		t.Errorf("partial lineup flagged: %v", got)
	}
}
