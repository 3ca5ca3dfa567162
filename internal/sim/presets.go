package sim

// PresetPhase groups rally phases into the three formation families a
// coach authors layouts for.
type PresetPhase int

const (
	PresetServe   PresetPhase = iota // serving team, pre-serve
	PresetReceive                    // receiving team, serve-receive
	PresetBase                       // in-rally defensive base
)

func (p PresetPhase) String() string {
	switch p {
	case PresetServe:
		return "serve"
	case PresetReceive:
		return "receive"
	default:
		return "base"
	}
}

// RotationPreset is one static reference layout: team-local positions per
// role plus optional coaching metadata. Never mutated at runtime.
type RotationPreset struct {
	System   string // e.g. "5-1"
	Rotation int
	Phase    PresetPhase

	Positions map[Role]Vec2   // team-local coordinates
	Arrows    map[Role]Vec2   // optional movement-arrow endpoints
	Tags      map[Role]string // optional status tags ("hidden", "stacked")
}

// presetKey indexes the static table.
type presetKey struct {
	system   string
	rotation int
	phase    PresetPhase
}

// presetTable holds the authored layouts. Missing entries are legitimate:
// lookups fall back to a generated default from the zone model.
var presetTable = map[presetKey]*RotationPreset{
	// Rotation 1 serve-receive: the setter (zone 1) creeps up the right
	// sideline to release to the net; three primary passers split the court.
	{"5-1", 1, PresetReceive}: {
		System: "5-1", Rotation: 1, Phase: PresetReceive,
		Positions: map[Role]Vec2{
			RoleSetter:   {8.2, 4.2},
			RoleOutside1: {7.2, 7.6},
			RoleMiddle1:  {4.5, 7.8},
			RoleOpposite: {1.5, 7.6},
			RoleOutside2: {3.0, 4.0},
			RoleMiddle2:  {6.0, 3.2},
		},
		Arrows: map[Role]Vec2{
			RoleSetter: {6.0, 7.9},
		},
		Tags: map[Role]string{
			RoleSetter: "release",
		},
	},
	// Rotation 2 serve-receive: setter (zone 6) stacks behind the middle
	// to release; outside 1 and the zone-5 middle carry the pass.
	{"5-1", 2, PresetReceive}: {
		System: "5-1", Rotation: 2, Phase: PresetReceive,
		Positions: map[Role]Vec2{
			RoleSetter:   {4.8, 6.0},
			RoleOutside1: {8.0, 4.2},
			RoleMiddle1:  {7.6, 7.4},
			RoleOpposite: {4.6, 7.7},
			RoleOutside2: {1.5, 7.3},
			RoleMiddle2:  {1.2, 4.0},
		},
		Arrows: map[Role]Vec2{
			RoleSetter: {6.0, 7.9},
		},
		Tags: map[Role]string{
			RoleSetter: "stacked",
		},
	},
}

// generatePreset builds the fallback layout straight from the zone model:
// every role at its zone centre. This is the recovery path for missing
// preset data and is never surfaced as an error.
func generatePreset(system string, rotation int, phase PresetPhase) *RotationPreset {
	pos := make(map[Role]Vec2, NumRotationRoles)
	for r := Role(0); r < NumRotationRoles; r++ {
		z := ZoneFor(r, rotation)
		l := zoneLocal[z]
		if phase == PresetBase && IsFrontRow(z) {
			// Base defense pulls the front row off the net a step.
			l.Y -= 1.0
		}
		pos[r] = l
	}
	return &RotationPreset{System: system, Rotation: rotation, Phase: phase, Positions: pos}
}

// LookupPreset returns the authored layout for (system, rotation, phase),
// or a generated default when none exists. The second return reports
// whether the layout was authored.
func LookupPreset(system string, rotation int, phase PresetPhase) (*RotationPreset, bool) {
	if p, ok := presetTable[presetKey{system, rotation, phase}]; ok {
		return p, true
	}
	return generatePreset(system, rotation, phase), false
}

// basePosition resolves one role's world-space responsibility for a rally
// phase, applying the libero's stand-in zone.
func basePosition(system string, side Side, role Role, rotation int, phase PresetPhase) Vec2 {
	lookup := role
	if role == RoleLibero {
		lookup = backRowMiddle(rotation)
	}
	preset, _ := LookupPreset(system, rotation, phase)
	l, ok := preset.Positions[lookup]
	if !ok {
		l = zoneLocal[ZoneFor(lookup, rotation)]
	}
	return localToWorld(side, l.X, l.Y)
}

// presetPhaseFor maps the live rally phase to the formation family a team
// should hold, given whether that team is serving.
func presetPhaseFor(phase Phase, serving bool) PresetPhase {
	switch phase {
	case PhasePreServe, PhaseServeInAir:
		if serving {
			return PresetServe
		}
		return PresetReceive
	default:
		return PresetBase
	}
}
