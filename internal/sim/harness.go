package sim

// TestRig is a headless engine wrapper used by tests and the report CLI.
// It pins the seed, exposes the sim log, and provides step helpers that
// keep scenario tests readable.
type TestRig struct {
	Engine *Engine
}

// RigOption configures a TestRig before the engine is built.
type RigOption func(*Config, *[]func(*Engine))

// WithSeed pins the RNG seed for a deterministic run.
func WithSeed(seed int64) RigOption {
	return func(cfg *Config, _ *[]func(*Engine)) { cfg.Seed = seed }
}

// WithSystem selects the preset system (default "5-1").
func WithSystem(system string) RigOption {
	return func(cfg *Config, _ *[]func(*Engine)) { cfg.System = system }
}

// WithVerbose enables per-tick detail in the sim log.
func WithVerbose(v bool) RigOption {
	return func(cfg *Config, _ *[]func(*Engine)) { cfg.Verbose = v }
}

// WithLibero enables the libero substitution from the first serve.
func WithLibero() RigOption {
	return func(_ *Config, post *[]func(*Engine)) {
		*post = append(*post, func(e *Engine) { e.SetUseLibero(true) })
	}
}

// WithRotation starts both teams at the given rotation index.
func WithRotation(rotation int) RigOption {
	return func(_ *Config, post *[]func(*Engine)) {
		*post = append(*post, func(e *Engine) {
			e.rotation = [2]int{rotation, rotation}
			e.ResetPlayers()
			e.resetForServe()
		})
	}
}

// NewTestRig builds a rig in two passes: config options first, then
// post-construction mutations against the live engine.
func NewTestRig(opts ...RigOption) *TestRig {
	cfg := Config{Seed: 1}
	var post []func(*Engine)
	for _, o := range opts {
		o(&cfg, &post)
	}
	e := NewEngine(cfg)
	for _, fn := range post {
		fn(e)
	}
	return &TestRig{Engine: e}
}

// StepTicks advances exactly n fixed sub-steps.
func (r *TestRig) StepTicks(n int) {
	for i := 0; i < n; i++ {
		r.Engine.Step(SubStep)
	}
}

// RunRally serves and steps until the rally dies or maxTicks elapse.
// It reports whether a rally record was closed.
func (r *TestRig) RunRally(maxTicks int) bool {
	before := len(r.Engine.history)
	r.Engine.Serve()
	for i := 0; i < maxTicks; i++ {
		r.Engine.Step(SubStep)
		if len(r.Engine.history) > before {
			return true
		}
	}
	return false
}

// RunToPhase steps until the engine reaches the phase or maxTicks elapse.
func (r *TestRig) RunToPhase(target Phase, maxTicks int) bool {
	for i := 0; i < maxTicks; i++ {
		if r.Engine.Phase() == target {
			return true
		}
		r.Engine.Step(SubStep)
	}
	return r.Engine.Phase() == target
}
