package sim

// GoalKind tags what a player is trying to do with their feet this tick.
type GoalKind int

const (
	GoalBase           GoalKind = iota // hold the phase's base responsibility spot
	GoalServe                          // walk to the service zone and serve
	GoalChaseBall                      // take the first ball to the landing point
	GoalSetterSpot                     // penetrate to the setter target
	GoalRunSet                         // setter chasing an off-target first ball
	GoalApproachAttack                 // attacker loading an approach lane
	GoalBlockNet                       // front row closing on the attack lane
	GoalDefendLane                     // back row digging the estimated lane
	GoalCoverTip                       // short coverage behind the block
)

func (g GoalKind) String() string {
	switch g {
	case GoalBase:
		return "base"
	case GoalServe:
		return "serve"
	case GoalChaseBall:
		return "chase_ball"
	case GoalSetterSpot:
		return "setter_spot"
	case GoalRunSet:
		return "run_set"
	case GoalApproachAttack:
		return "approach_attack"
	case GoalBlockNet:
		return "block_net"
	case GoalDefendLane:
		return "defend_lane"
	case GoalCoverTip:
		return "cover_tip"
	default:
		return "unknown"
	}
}

// IntentKind distinguishes positional requests from direct game actions.
type IntentKind int

const (
	IntentRequestGoal IntentKind = iota
	IntentGameAction
)

// GameAction is an immediate non-positional act.
type GameAction int

const (
	ActionNone GameAction = iota
	ActionServeBall
)

// ShotKind is an attacker's planned contact against the seen block.
type ShotKind int

const (
	ShotNone ShotKind = iota
	ShotPower
	ShotTip
)

func (s ShotKind) String() string {
	switch s {
	case ShotPower:
		return "power"
	case ShotTip:
		return "tip"
	default:
		return "none"
	}
}

// Alternative is one branch the decision tree rejected (or never reached)
// while picking this tick's intent, in evaluation order.
type Alternative struct {
	Name   string
	Reason string // why it lost: failed condition, or outranked by the winner
}

// Intent is one player's chosen action for a tick: either a positional goal
// request or a game action, plus the human-readable justification and the
// rejected branches for explainability. Produced fresh each tick; only the
// last tick's copy is retained.
type Intent struct {
	Kind   IntentKind
	Goal   GoalKind
	Target Vec2
	Action GameAction
	Shot   ShotKind // only for approach-attack intents

	Reason       string
	Alternatives []Alternative
}

// requestGoal is the common constructor for positional intents.
func requestGoal(goal GoalKind, target Vec2, reason string) Intent {
	return Intent{Kind: IntentRequestGoal, Goal: goal, Target: target, Reason: reason}
}

// gameAction is the constructor for immediate acts. The rally machine
// consumes the action; the target is the spot it is performed from.
func gameAction(a GameAction, target Vec2, reason string) Intent {
	return Intent{Kind: IntentGameAction, Action: a, Target: target, Reason: reason}
}
