package sim

import "fmt"

// DefaultOverlapTolerance is the slack (metres) allowed before an ordering
// counts as broken. Real officiating keys on foot position, so a small
// tolerance avoids flagging players standing shoulder to shoulder.
const DefaultOverlapTolerance = 0.05

// OverlapViolation reports one broken ordering between two overlap-adjacent
// zones at serve contact.
type OverlapViolation struct {
	RoleA, RoleB Role
	ZoneA, ZoneB int
	Axis         string  // "row" or "column"
	Amount       float64 // how far past tolerance the order is broken, metres
}

func (v OverlapViolation) String() string {
	return fmt.Sprintf("%s(z%d) overlaps %s(z%d) on %s axis by %.2fm",
		v.RoleA, v.ZoneA, v.RoleB, v.ZoneB, v.Axis, v.Amount)
}

// CheckOverlap validates the T/L positional rule for one side's lineup.
// positions maps each rotation role to its world-space spot; roles absent
// from the map are skipped (the libero is checked through the zone it
// covers, so callers pass its position under the replaced middle's role or
// under RoleLibero; both are accepted).
//
// For every constrained zone pair the check compares team-local coordinates:
// same-row pairs must keep left/right order, same-column pairs front/back
// order. Diagonal pairs carry no constraint. Pure function, no side effects.
func CheckOverlap(side Side, rotation int, positions map[Role]Vec2, tolerance float64) []OverlapViolation {
	if tolerance < 0 {
		tolerance = DefaultOverlapTolerance
	}

	// Resolve each zone's occupant position in team-local coordinates.
	type occupant struct {
		role Role
		lx   float64
		ly   float64
		ok   bool
	}
	var zones [NumZones + 1]occupant
	for z := 1; z <= NumZones; z++ {
		role := RoleAtZone(z, rotation)
		pos, ok := positions[role]
		if !ok && role == backRowMiddle(rotation) {
			// A libero entry stands in for the middle it replaces.
			pos, ok = positions[RoleLibero]
			if ok {
				role = RoleLibero
			}
		}
		if !ok {
			continue
		}
		lx, ly := worldToLocal(side, pos)
		zones[z] = occupant{role: role, lx: lx, ly: ly, ok: true}
	}

	var violations []OverlapViolation
	for _, pair := range constrainedPairs {
		a, b := zones[pair.a], zones[pair.b]
		if !a.ok || !b.ok {
			continue
		}
		switch pair.axis {
		case axisRow:
			// a must stay left of b (smaller local x).
			if a.lx > b.lx+tolerance {
				violations = append(violations, OverlapViolation{
					RoleA: a.role, RoleB: b.role,
					ZoneA: pair.a, ZoneB: pair.b,
					Axis: pair.axis.String(), Amount: a.lx - b.lx - tolerance,
				})
			}
		case axisColumn:
			// a is the front zone: it must stay nearer the net (larger local y).
			if a.ly < b.ly-tolerance {
				violations = append(violations, OverlapViolation{
					RoleA: a.role, RoleB: b.role,
					ZoneA: pair.a, ZoneB: pair.b,
					Axis: pair.axis.String(), Amount: b.ly - a.ly - tolerance,
				})
			}
		}
	}
	return violations
}
