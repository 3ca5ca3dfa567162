package sim

// Role identifies one of the seven functional positions in a 5-1 lineup.
type Role int

const (
	RoleSetter Role = iota
	RoleOutside1
	RoleMiddle1
	RoleOpposite
	RoleOutside2
	RoleMiddle2
	RoleLibero
)

// NumRoles counts the full roster including the libero; NumRotationRoles
// counts only the six roles that occupy zones.
const (
	NumRoles         = 7
	NumRotationRoles = 6
	NumZones         = 6
)

func (r Role) String() string {
	switch r {
	case RoleSetter:
		return "S"
	case RoleOutside1:
		return "OH1"
	case RoleMiddle1:
		return "MB1"
	case RoleOpposite:
		return "OPP"
	case RoleOutside2:
		return "OH2"
	case RoleMiddle2:
		return "MB2"
	case RoleLibero:
		return "L"
	default:
		return "?"
	}
}

// Category is the functional grouping a decision tree is selected by.
type Category int

const (
	CatSetter Category = iota
	CatOutside
	CatMiddle
	CatOpposite
	CatLibero
)

func (c Category) String() string {
	switch c {
	case CatSetter:
		return "setter"
	case CatOutside:
		return "outside"
	case CatMiddle:
		return "middle"
	case CatOpposite:
		return "opposite"
	case CatLibero:
		return "libero"
	default:
		return "unknown"
	}
}

// CategoryOf maps a role to its functional category.
func CategoryOf(r Role) Category {
	switch r {
	case RoleSetter:
		return CatSetter
	case RoleOutside1, RoleOutside2:
		return CatOutside
	case RoleMiddle1, RoleMiddle2:
		return CatMiddle
	case RoleOpposite:
		return CatOpposite
	default:
		return CatLibero
	}
}

// baseZone is each rotation role's zone at rotation index 1. The 5-1 ring
// places the setter in zone 1 with opposite pairs three zones apart
// (S/OPP, OH1/OH2, MB1/MB2).
var baseZone = [NumRotationRoles]int{
	RoleSetter:   1,
	RoleOutside1: 2,
	RoleMiddle1:  3,
	RoleOpposite: 4,
	RoleOutside2: 5,
	RoleMiddle2:  6,
}

// ZoneFor returns the zone (1..6) the given role occupies at the given
// rotation index (1..6). It is a pure, total function: the libero reports
// the zone of the back-row middle it replaces. Inputs outside 1..6 are
// wrapped so the function stays total.
func ZoneFor(role Role, rotation int) int {
	rot := ((rotation-1)%NumZones + NumZones) % NumZones
	if role == RoleLibero {
		return ZoneFor(backRowMiddle(rotation), rotation)
	}
	z := baseZone[role] - 1 - rot
	z = ((z % NumZones) + NumZones) % NumZones
	return z + 1
}

// RoleAtZone is the inverse mapping for the six rotation roles.
func RoleAtZone(zone int, rotation int) Role {
	for r := Role(0); r < NumRotationRoles; r++ {
		if ZoneFor(r, rotation) == zone {
			return r
		}
	}
	return RoleSetter // unreachable for zone in 1..6
}

// backRowMiddle returns whichever middle is in the back row at the given
// rotation. The two middles are opposite in the ring, so exactly one is.
func backRowMiddle(rotation int) Role {
	if IsFrontRow(ZoneFor(RoleMiddle1, rotation)) {
		return RoleMiddle2
	}
	return RoleMiddle1
}

// IsFrontRow reports whether the zone is at the net (zones 2, 3, 4).
func IsFrontRow(zone int) bool {
	return zone >= 2 && zone <= 4
}

// zoneLocal gives each zone's centre in team-local coordinates (lx from the
// team's left sideline facing the net, ly from its own baseline).
var zoneLocal = [NumZones + 1]Vec2{
	1: {7.5, 3.0},
	2: {7.5, 7.0},
	3: {4.5, 7.0},
	4: {1.5, 7.0},
	5: {1.5, 3.0},
	6: {4.5, 3.0},
}

// ZoneCenter returns the world-space centre of a zone on the given side.
func ZoneCenter(side Side, zone int) Vec2 {
	l := zoneLocal[zone]
	return localToWorld(side, l.X, l.Y)
}

// zoneColumn returns 0/1/2 for the right/middle/left column in team-local
// terms, and zoneRow 0 for back, 1 for front.
func zoneColumn(zone int) int {
	switch zone {
	case 1, 2:
		return 0
	case 3, 6:
		return 1
	default: // 4, 5
		return 2
	}
}

// overlapAxis says which ordering a constrained zone pair must keep.
type overlapAxis int

const (
	axisRow    overlapAxis = iota // same-row left/right order
	axisColumn                    // same-column front/back order
)

func (a overlapAxis) String() string {
	if a == axisRow {
		return "row"
	}
	return "column"
}

// zonePair is one overlap-constrained adjacency.
type zonePair struct {
	a, b int // for axisRow: a is left of b (team-local); for axisColumn: a is front, b is back
	axis overlapAxis
}

// constrainedPairs lists every adjacency the overlap rule binds. Middle
// zones 3 and 6 each carry three constraints ("T"), corner zones two ("L").
// Rotationally opposite corner pairs (1-4, 2-5) are diagonal and exempt.
var constrainedPairs = []zonePair{
	{4, 3, axisRow}, // front row, left to right
	{3, 2, axisRow},
	{5, 6, axisRow}, // back row, left to right
	{6, 1, axisRow},
	{2, 1, axisColumn}, // right column
	{3, 6, axisColumn}, // middle column
	{4, 5, axisColumn}, // left column
}
