package view

import (
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/benchside/Rally-Sense/internal/sim"
)

// grabRadius is how close (metres) the cursor must be to a token to start
// dragging it.
const grabRadius = 0.6

// handleInput processes edge-triggered keys and the token drag. Runs every
// frame regardless of playback speed.
func (v *View) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !v.prevKeys[k]
	}

	// Space: arm the next serve.
	if pressed(ebiten.KeySpace) {
		v.engine.Serve()
	}

	// R: force-end the rally in favour of the serving side and restage.
	if pressed(ebiten.KeyR) {
		v.engine.ResetRally(v.engine.ServingSide())
		v.status = ""
	}

	// B: return everyone to their formation spots without ending the rally.
	if pressed(ebiten.KeyB) {
		v.engine.ResetPlayers()
	}

	// L: libero substitution on/off.
	if pressed(ebiten.KeyL) {
		v.engine.SetUseLibero(!v.engine.UseLibero())
	}

	// E: toggle spectate playback / editing mode.
	if pressed(ebiten.KeyE) {
		v.engine.SetSpectateMode(!v.engine.SpectateMode())
	}

	// H: toggle the HUD legend.
	if pressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}

	// C: copy the session report to the system clipboard.
	if pressed(ebiten.KeyC) {
		rep := v.engine.BuildReport()
		if err := clipboard.WriteAll(rep.String()); err != nil {
			v.status = "clipboard: " + err.Error()
		} else {
			v.status = "report copied to clipboard"
		}
	}

	// P pauses; , and . walk the speed ladder.
	if pressed(ebiten.KeyP) {
		if v.simSpeed > 0 {
			v.simSpeed = 0
		} else {
			v.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		for i := len(simSpeeds) - 1; i >= 0; i-- {
			if simSpeeds[i] < v.simSpeed {
				v.simSpeed = simSpeeds[i]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for _, s := range simSpeeds {
			if s > v.simSpeed {
				v.simSpeed = s
				break
			}
		}
	}

	v.handleDrag()
	v.prevKeys = currentKeys
}

// handleDrag moves tokens with the mouse: press near a token to grab it,
// hold to steer it (a manual override the resolver honours over any tree
// output), release to hand it back to the simulation.
func (v *View) handleDrag() {
	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	defer func() { v.prevMouseLeft = mouseDown }()

	mx, my := ebiten.CursorPosition()
	world := v.screenToWorld(mx, my)

	switch {
	case mouseDown && !v.prevMouseLeft:
		if idx := v.tokenAt(world); idx >= 0 {
			v.dragging = true
			v.dragPlayer = idx
			v.dragVisited = false
		}
	case mouseDown && v.dragging:
		v.engine.SetManualTarget(v.dragPlayer, world)
		v.dragVisited = true
	case !mouseDown && v.dragging:
		if v.dragVisited {
			v.engine.ClearManualOverride(v.dragPlayer)
		}
		v.dragging = false
		v.dragPlayer = -1
	}
}

// tokenAt returns the index of the closest active player within grab range
// of the world point, or -1.
func (v *View) tokenAt(world sim.Vec2) int {
	best, bestDist := -1, grabRadius
	for _, pv := range v.engine.PlayerViews() {
		if !pv.Active {
			continue
		}
		if d := pv.Pos.Dist(world); d <= bestDist {
			best, bestDist = pv.Index, d
		}
	}
	return best
}
