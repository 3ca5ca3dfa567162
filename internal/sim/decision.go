package sim

import "math/rand"

// The decision tree is a tagged-variant tree: two composite kinds and two
// leaf kinds, all one struct. This keeps construction, evaluation and trace
// serialization uniform (no virtual dispatch, no interface fan-out).
type nodeKind int

const (
	nodeSelector  nodeKind = iota // first passing child wins
	nodeSequence                  // all condition children must pass, then the action child runs
	nodeCondition                 // pure predicate over blackboard + player
	nodeAction                    // emits an Intent
)

// node is one vertex of a role tree.
type node struct {
	kind     nodeKind
	name     string
	children []*node
	test     func(bb *Blackboard, p *Player) bool
	emit     func(bb *Blackboard, p *Player, rng *rand.Rand) Intent
}

func selector(name string, children ...*node) *node {
	return &node{kind: nodeSelector, name: name, children: children}
}

func sequence(name string, children ...*node) *node {
	return &node{kind: nodeSequence, name: name, children: children}
}

func cond(name string, test func(bb *Blackboard, p *Player) bool) *node {
	return &node{kind: nodeCondition, name: name, test: test}
}

func action(name string, emit func(bb *Blackboard, p *Player, rng *rand.Rand) Intent) *node {
	return &node{kind: nodeAction, name: name, emit: emit}
}

// evaluate walks the tree for one player against the tick snapshot.
// Selector children are tried in priority order; the first satisfied branch
// wins and every sibling (failed before the winner or skipped after) is
// recorded as a ranked alternative. Evaluation is deterministic for a given
// snapshot and seed; rng only reaches explicit weighted action leaves.
//
// The second return is false when no leaf was satisfied; the caller then
// falls back to the maintain-responsibility intent rather than erroring.
func evaluate(n *node, bb *Blackboard, p *Player, rng *rand.Rand, alts *[]Alternative) (Intent, bool) {
	switch n.kind {
	case nodeCondition:
		if n.test(bb, p) {
			return Intent{}, true
		}
		return Intent{}, false

	case nodeAction:
		return n.emit(bb, p, rng), true

	case nodeSequence:
		var act *node
		for _, c := range n.children {
			switch c.kind {
			case nodeCondition:
				if !c.test(bb, p) {
					return Intent{}, false
				}
			case nodeAction:
				act = c
			default:
				if intent, ok := evaluate(c, bb, p, rng, alts); ok {
					return intent, true
				}
				return Intent{}, false
			}
		}
		if act == nil {
			return Intent{}, false
		}
		return act.emit(bb, p, rng), true

	case nodeSelector:
		won := false
		var winner Intent
		for _, c := range n.children {
			if won {
				*alts = append(*alts, Alternative{Name: c.name, Reason: "outranked"})
				continue
			}
			if intent, ok := evaluate(c, bb, p, rng, alts); ok {
				won = true
				winner = intent
				continue
			}
			*alts = append(*alts, Alternative{Name: c.name, Reason: "condition failed"})
		}
		return winner, won
	}
	return Intent{}, false
}

// maintainResponsibility is the failure-semantics default: stay on (or
// return to) the base positional responsibility for the phase.
func maintainResponsibility(p *Player) Intent {
	return requestGoal(GoalBase, p.BaseGoal, "maintain base responsibility")
}

// decide evaluates the player's category tree and packages the result with
// its alternatives. It never returns a zero intent.
func decide(bb *Blackboard, p *Player, rng *rand.Rand) Intent {
	tree := treeFor(p.Cat)
	var alts []Alternative
	intent, ok := evaluate(tree, bb, p, rng, &alts)
	if !ok {
		intent = maintainResponsibility(p)
	}
	intent.Alternatives = alts
	return intent
}
