package sim

import "fmt"

// SkillRatings are 0-1 trained abilities that weight contact quality and
// shot selection. They never change during a rally.
type SkillRatings struct {
	Serve     float64 // serve accuracy and pace
	Passing   float64 // reception/dig accuracy
	Setting   float64 // set placement
	Attacking float64 // attack power and placement
	Blocking  float64 // block timing and reach
}

// defaultSkills returns a baseline rating set for a category. Hosts can
// overwrite these from roster data before the first rally.
func defaultSkills(cat Category) SkillRatings {
	switch cat {
	case CatSetter:
		return SkillRatings{Serve: 0.6, Passing: 0.6, Setting: 0.85, Attacking: 0.4, Blocking: 0.4}
	case CatOutside:
		return SkillRatings{Serve: 0.65, Passing: 0.7, Setting: 0.4, Attacking: 0.75, Blocking: 0.55}
	case CatMiddle:
		return SkillRatings{Serve: 0.55, Passing: 0.4, Setting: 0.3, Attacking: 0.7, Blocking: 0.75}
	case CatOpposite:
		return SkillRatings{Serve: 0.65, Passing: 0.5, Setting: 0.45, Attacking: 0.8, Blocking: 0.6}
	default: // libero
		return SkillRatings{Serve: 0.0, Passing: 0.9, Setting: 0.6, Attacking: 0.0, Blocking: 0.0}
	}
}

// Player is one token on the court. Players live in a dense slice owned by
// the engine; the index into that slice is the player's stable identity, so
// all-pairs queries in the resolver and motion planner stay cheap.
type Player struct {
	Index int
	Side  Side
	Role  Role
	Cat   Category
	Label string // e.g. "H-S", "A-OH1"

	Pos Vec2
	Vel Vec2

	MaxSpeed float64 // cruise cap, m/s
	Priority float64 // claim bias for contested targets, seconds subtracted from arrival estimates

	Skills SkillRatings

	// Active is false for a benched player (the middle a libero replaced,
	// or the libero while benched).
	Active bool

	// BaseGoal is the positional responsibility for the current phase,
	// refreshed from presets each tick. TacticalGoal is the last tree
	// request; it overrides BaseGoal only while its condition holds.
	BaseGoal     Vec2
	TacticalGoal GoalKind

	// Manual override: the display layer drags a token. Consumed at the
	// next tick; wins over any tree output while set.
	ManualOverride bool
	ManualTarget   Vec2

	// Motion state.
	TargetPos  Vec2
	GoalDone   bool // reached TargetPos within the arrive epsilon
	PathLocked bool // keep executing the current target until redirected

	// Chosen shot for the next attack contact (set by the decision tree).
	PlannedShot ShotKind
}

func playerLabel(side Side, role Role) string {
	prefix := "H"
	if side == SideAway {
		prefix = "A"
	}
	return fmt.Sprintf("%s-%s", prefix, role)
}

// newPlayer builds a roster entry at its bench spot.
func newPlayer(index int, side Side, role Role) *Player {
	cat := CategoryOf(role)
	speed := 5.0
	if cat == CatLibero {
		speed = 5.6 // defensive specialists read and move quickest
	}
	if cat == CatMiddle {
		speed = 4.6
	}
	return &Player{
		Index:    index,
		Side:     side,
		Role:     role,
		Cat:      cat,
		Label:    playerLabel(side, role),
		MaxSpeed: speed,
		Priority: priorityFor(cat),
		Skills:   defaultSkills(cat),
		Active:   role != RoleLibero,
	}
}

// priorityFor biases contested-ball arbitration: liberos and setters are
// expected to take first and second balls when arrival times are close.
func priorityFor(cat Category) float64 {
	switch cat {
	case CatLibero:
		return 0.25
	case CatSetter:
		return 0.15
	case CatOutside:
		return 0.10
	default:
		return 0.0
	}
}
