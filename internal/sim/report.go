package sim

import (
	"fmt"
	"strings"
)

// DescribeRallyEnd renders the textual rally-end line the display layer
// shows: derived from end reason, winner, last contact and the possession
// chain.
func (e *Engine) DescribeRallyEnd(rec RallyRecord) string {
	loser := rec.Winner.Other()
	last := "no contact"
	if rec.LastContact >= 0 {
		last = e.players[rec.LastContact].Label
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s wins rally %d: ", rec.Winner, rec.Index)
	switch rec.Reason {
	case ReasonLandedIn:
		fmt.Fprintf(&b, "ball from %s landed in on the %s side", last, loser)
	case ReasonLandedOut:
		fmt.Fprintf(&b, "ball from %s landed out", last)
	case ReasonServeFault:
		fmt.Fprintf(&b, "service fault by %s", last)
	case ReasonNetFault:
		fmt.Fprintf(&b, "attack by %s into the net", last)
	case ReasonFourTouches:
		fmt.Fprintf(&b, "four touches by %s", loser)
	default:
		fmt.Fprintf(&b, "rally awarded by the host")
	}
	if n := len(rec.Contacts); n > 1 {
		fmt.Fprintf(&b, " (%d contacts)", n)
	}
	return b.String()
}

// LastRallyDescription describes the most recently closed rally, or an
// empty string before the first one.
func (e *Engine) LastRallyDescription() string {
	if len(e.history) == 0 {
		return ""
	}
	return e.DescribeRallyEnd(e.history[len(e.history)-1])
}

// SetWon reports whether a side has won the set under rally scoring:
// first to target (conventionally 25), win by two. Match-level scoring is a
// host concern; the engine only answers the question.
func SetWon(scoreA, scoreB, target int) (Side, bool) {
	if scoreA >= target && scoreA-scoreB >= 2 {
		return SideHome, true
	}
	if scoreB >= target && scoreB-scoreA >= 2 {
		return SideAway, true
	}
	return SideHome, false
}

// PlayerGrade summarizes one player's involvement across the session.
type PlayerGrade struct {
	Label       string
	Side        Side
	Role        Role
	Contacts    int
	Serves      int
	GoalChanges int
}

// RallyReport aggregates a finished session for the headless CLI.
type RallyReport struct {
	Rallies      int
	HomeScore    int
	AwayScore    int
	AvgTicks     float64
	AvgContacts  float64
	ReasonCounts map[EndReason]int
	Grades       []PlayerGrade
}

// BuildReport folds history and the sim log into a session report.
func (e *Engine) BuildReport() RallyReport {
	rep := RallyReport{
		Rallies:      len(e.history),
		HomeScore:    e.scores[SideHome],
		AwayScore:    e.scores[SideAway],
		ReasonCounts: make(map[EndReason]int),
	}
	totalTicks, totalContacts := 0, 0
	contactsBy := make(map[int]int)
	servesBy := make(map[int]int)
	for _, r := range e.history {
		rep.ReasonCounts[r.Reason]++
		totalTicks += r.EndTick - r.StartTick
		totalContacts += len(r.Contacts)
		for _, c := range r.Contacts {
			if c.Touch == 0 {
				servesBy[c.Player]++
			} else {
				contactsBy[c.Player]++
			}
		}
	}
	if rep.Rallies > 0 {
		rep.AvgTicks = float64(totalTicks) / float64(rep.Rallies)
		rep.AvgContacts = float64(totalContacts) / float64(rep.Rallies)
	}
	goalChanges := make(map[string]int)
	for _, entry := range e.log.Filter("goal", "change") {
		goalChanges[entry.Player]++
	}
	for _, p := range e.players {
		rep.Grades = append(rep.Grades, PlayerGrade{
			Label:       p.Label,
			Side:        p.Side,
			Role:        p.Role,
			Contacts:    contactsBy[p.Index],
			Serves:      servesBy[p.Index],
			GoalChanges: goalChanges[p.Label],
		})
	}
	return rep
}

// String renders the report in the fixed-width style of the headless CLI.
func (r RallyReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rallies=%d score home %d - %d away\n", r.Rallies, r.HomeScore, r.AwayScore)
	fmt.Fprintf(&b, "avg rally: %.0f ticks, %.1f contacts\n", r.AvgTicks, r.AvgContacts)
	b.WriteString("end reasons:")
	for reason := ReasonLandedIn; reason <= ReasonFourTouches; reason++ {
		if count := r.ReasonCounts[reason]; count > 0 {
			fmt.Fprintf(&b, " %s=%d", reason, count)
		}
	}
	b.WriteByte('\n')
	for _, g := range r.Grades {
		fmt.Fprintf(&b, "  %-6s %-8s contacts=%-3d serves=%-3d goal_changes=%d\n",
			g.Label, CategoryOf(g.Role), g.Contacts, g.Serves, g.GoalChanges)
	}
	return b.String()
}
