// Package view is the ebiten display host for the rally engine: court
// renderer, decision feed panel, HUD and input. It contains no game logic;
// everything it shows comes off the engine's read surface, everything it
// changes goes through the command surface.
package view

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/benchside/Rally-Sense/internal/sim"
)

// pixelsPerMetre converts court coordinates to screen pixels.
const pixelsPerMetre = 38

// borderWidth is the pixel gap between the window edge and the court area.
const borderWidth = 20

// feedPanelWidth is the right-hand decision feed panel.
const feedPanelWidth = 330

// simSpeeds are the selectable playback rates; 0 pauses time without
// leaving spectate mode.
var simSpeeds = []float64{0, 0.25, 0.5, 1, 2, 4}

// View owns the window: engine stepping, input and rendering.
type View struct {
	engine *sim.Engine

	width  int
	height int
	offX   int // pixel offset to the play-area origin
	offY   int

	simSpeed float64
	showHUD  bool

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool

	// Token drag state.
	dragging    bool
	dragPlayer  int
	dragVisited bool // at least one SetManualTarget issued this drag

	// Sticky status line (engine errors, clipboard results).
	status string

	fatalErr error
}

// New builds a View around an engine and registers for its errors.
func New(e *sim.Engine) *View {
	playW := (sim.CourtWidth + 2*sim.CourtMargin) * pixelsPerMetre
	playH := (sim.CourtLength + 2*sim.CourtMargin) * pixelsPerMetre
	v := &View{
		engine:     e,
		width:      borderWidth + int(playW) + borderWidth + feedPanelWidth,
		height:     borderWidth + int(playH) + borderWidth,
		offX:       borderWidth,
		offY:       borderWidth,
		simSpeed:   1.0,
		showHUD:    true,
		prevKeys:   make(map[ebiten.Key]bool),
		dragPlayer: -1,
	}
	e.OnError(func(err error) {
		v.fatalErr = err
		v.status = "engine error: " + err.Error()
	})
	return v
}

// Update advances the engine by the frame's share of simulated time and
// processes input. Input runs every frame so a paused sim stays editable.
func (v *View) Update() error {
	v.handleInput()
	if v.simSpeed > 0 && v.fatalErr == nil {
		v.engine.Step(sim.SubStep * v.simSpeed)
	}
	return nil
}

// Layout reports the fixed window size.
func (v *View) Layout(_, _ int) (int, int) {
	return v.width, v.height
}

// WindowSize is the initial window size for the host main.
func (v *View) WindowSize() (int, int) {
	return v.width, v.height
}

// worldToScreen maps court metres to window pixels. The court is drawn
// portrait: home baseline at the bottom, away at the top.
func (v *View) worldToScreen(p sim.Vec2) (float32, float32) {
	x := float64(v.offX) + (p.X+sim.CourtMargin)*pixelsPerMetre
	y := float64(v.offY) + (sim.CourtLength+sim.CourtMargin-p.Y)*pixelsPerMetre
	return float32(x), float32(y)
}

// screenToWorld is the inverse mapping, for mouse interaction.
func (v *View) screenToWorld(mx, my int) sim.Vec2 {
	x := (float64(mx)-float64(v.offX))/pixelsPerMetre - sim.CourtMargin
	y := sim.CourtLength + sim.CourtMargin - (float64(my)-float64(v.offY))/pixelsPerMetre
	return sim.Vec2{X: x, Y: y}
}

// speedLabel renders the playback rate for the HUD.
func (v *View) speedLabel() string {
	if v.simSpeed == 0 {
		return "PAUSED"
	}
	if v.simSpeed == float64(int(v.simSpeed)) {
		return fmt.Sprintf("%dx", int(v.simSpeed))
	}
	return fmt.Sprintf("%.2gx", v.simSpeed)
}
