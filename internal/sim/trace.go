package sim

import "fmt"

// DecisionTrace is the per-player explainability record for one tick: the
// selected intent plus everything the tree turned down. Consumed only by
// the display layer.
type DecisionTrace struct {
	Tick   int
	Player int
	Label  string
	Intent Intent
}

func (t DecisionTrace) String() string {
	return fmt.Sprintf("[T=%04d] %-6s %-15s %s", t.Tick, t.Label, t.Intent.Goal, t.Intent.Reason)
}

// traceFeedCap bounds the display feed so a long preview session cannot
// grow memory without bound.
const traceFeedCap = 96

// traceFeed is a ring buffer of recent goal changes for the display layer,
// in the spirit of an on-screen thought log. Unlike lastTraces (one entry
// per player, replaced each tick) the feed only records changes, so it
// reads as a narrative.
type traceFeed struct {
	entries []DecisionTrace
	head    int
	count   int
}

func newTraceFeed() *traceFeed {
	return &traceFeed{entries: make([]DecisionTrace, traceFeedCap)}
}

// Add appends an entry, overwriting the oldest once full.
func (f *traceFeed) Add(t DecisionTrace) {
	f.entries[f.head] = t
	f.head = (f.head + 1) % traceFeedCap
	if f.count < traceFeedCap {
		f.count++
	}
}

// Recent returns buffered entries oldest-first.
func (f *traceFeed) Recent() []DecisionTrace {
	out := make([]DecisionTrace, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + traceFeedCap) % traceFeedCap
		out[i] = f.entries[idx]
	}
	return out
}
