package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/benchside/Rally-Sense/internal/sim"
)

var (
	bgColor     = color.RGBA{R: 14, G: 16, B: 20, A: 255}
	floorColor  = color.RGBA{R: 52, G: 64, B: 78, A: 255}
	courtColor  = color.RGBA{R: 196, G: 128, B: 70, A: 255}
	lineColor   = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	netColor    = color.RGBA{R: 30, G: 30, B: 34, A: 255}
	homeColor   = color.RGBA{R: 70, G: 120, B: 220, A: 255}
	awayColor   = color.RGBA{R: 225, G: 130, B: 50, A: 255}
	liberoRing  = color.RGBA{R: 240, G: 220, B: 80, A: 255}
	ballColor   = color.RGBA{R: 245, G: 240, B: 95, A: 255}
	shadowColor = color.RGBA{R: 0, G: 0, B: 0, A: 90}
	alertColor  = color.RGBA{R: 230, G: 70, B: 70, A: 255}
	panelColor  = color.RGBA{R: 8, G: 10, B: 12, A: 230}
	panelEdge   = color.RGBA{R: 70, G: 90, B: 110, A: 200}
)

// tokenRadius is the on-screen player circle, in pixels.
const tokenRadius = 11

func (v *View) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	v.drawCourt(screen)
	v.drawIntentLines(screen)
	v.drawTokens(screen)
	v.drawBall(screen)
	v.drawFeedPanel(screen)
	if v.showHUD {
		v.drawHUD(screen)
	}
	v.drawStatus(screen)
}

// drawCourt renders the floor, the painted court, the attack lines and the
// net band.
func (v *View) drawCourt(screen *ebiten.Image) {
	// Free zone floor.
	fx, fy := v.worldToScreen(sim.Vec2{X: -sim.CourtMargin, Y: sim.CourtLength + sim.CourtMargin})
	fw := float32((sim.CourtWidth + 2*sim.CourtMargin) * pixelsPerMetre)
	fh := float32((sim.CourtLength + 2*sim.CourtMargin) * pixelsPerMetre)
	vector.FillRect(screen, fx, fy, fw, fh, floorColor, false)

	// Painted court.
	cx, cy := v.worldToScreen(sim.Vec2{X: 0, Y: sim.CourtLength})
	cw := float32(sim.CourtWidth * pixelsPerMetre)
	ch := float32(sim.CourtLength * pixelsPerMetre)
	vector.FillRect(screen, cx, cy, cw, ch, courtColor, false)
	vector.StrokeRect(screen, cx, cy, cw, ch, 2, lineColor, false)

	// Attack lines, three metres off the net on both sides.
	for _, y := range []float64{sim.NetY - sim.AttackLineDepth, sim.NetY + sim.AttackLineDepth} {
		x1, sy := v.worldToScreen(sim.Vec2{X: 0, Y: y})
		x2, _ := v.worldToScreen(sim.Vec2{X: sim.CourtWidth, Y: y})
		vector.StrokeLine(screen, x1, sy, x2, sy, 1, lineColor, false)
	}

	// Faint zone columns. With the attack lines these mark the six zones
	// per side.
	grid := color.RGBA{R: 255, G: 255, B: 255, A: 40}
	for _, x := range []float64{3, 6} {
		sx, y1 := v.worldToScreen(sim.Vec2{X: x, Y: sim.CourtLength})
		_, y2 := v.worldToScreen(sim.Vec2{X: x, Y: 0})
		vector.StrokeLine(screen, sx, y1, sx, y2, 1, grid, false)
	}

	// Net: a dark band across the full free zone width.
	nx1, ny := v.worldToScreen(sim.Vec2{X: -sim.CourtMargin, Y: sim.NetY})
	nx2, _ := v.worldToScreen(sim.Vec2{X: sim.CourtWidth + sim.CourtMargin, Y: sim.NetY})
	vector.StrokeLine(screen, nx1, ny, nx2, ny, 4, netColor, false)
}

// drawIntentLines draws a faint line from each token to its current intent
// target, brighter while the goal is tactical rather than base holding.
func (v *View) drawIntentLines(screen *ebiten.Image) {
	views := v.engine.PlayerViews()
	for _, tr := range v.engine.LastTraces() {
		in := tr.Intent
		if in.Kind != sim.IntentRequestGoal || tr.Player >= len(views) {
			continue
		}
		pv := views[tr.Player]
		if !pv.Active || pv.Pos.Dist(in.Target) < 0.3 {
			continue
		}
		col := color.RGBA{R: 200, G: 200, B: 200, A: 28}
		if in.Goal != sim.GoalBase {
			col.A = 90
		}
		x1, y1 := v.worldToScreen(pv.Pos)
		x2, y2 := v.worldToScreen(in.Target)
		vector.StrokeLine(screen, x1, y1, x2, y2, 1, col, false)
	}
}

func (v *View) drawTokens(screen *ebiten.Image) {
	for _, pv := range v.engine.PlayerViews() {
		if !pv.Active {
			continue
		}
		x, y := v.worldToScreen(pv.Pos)
		col := homeColor
		if pv.Side == sim.SideAway {
			col = awayColor
		}
		vector.FillCircle(screen, x, y, tokenRadius, col, true)
		edge := lineColor
		if pv.Cat == sim.CatLibero {
			edge = liberoRing
		}
		vector.StrokeCircle(screen, x, y, tokenRadius, 2, edge, true)
		if v.dragging && pv.Index == v.dragPlayer {
			vector.StrokeCircle(screen, x, y, tokenRadius+4, 1, liberoRing, true)
		}

		label := pv.Role.String()
		tx := int(x) - len(label)*7/2
		text.Draw(screen, label, basicfont.Face7x13, tx, int(y)+4, color.Black)
	}
}

// drawBall renders the shadow at the court position and the ball lifted by
// its height, so flight arcs read on a top-down court.
func (v *View) drawBall(screen *ebiten.Image) {
	pos, height, inFlight := v.engine.BallState()
	x, y := v.worldToScreen(pos)

	shadowR := float32(6 - clampF(height, 0, 4))
	if shadowR < 2 {
		shadowR = 2
	}
	vector.FillCircle(screen, x, y, shadowR, shadowColor, true)

	lift := float32(height * 0.5 * pixelsPerMetre)
	r := float32(5)
	if inFlight {
		r = 6
	}
	vector.FillCircle(screen, x, y-lift, r, ballColor, true)
	vector.StrokeCircle(screen, x, y-lift, r, 1, color.RGBA{R: 120, G: 110, B: 40, A: 255}, true)
}

// drawFeedPanel renders the scoreboard block and the recent decision feed
// down the right edge.
func (v *View) drawFeedPanel(screen *ebiten.Image) {
	px := float32(v.width - feedPanelWidth)
	vector.FillRect(screen, px, 0, feedPanelWidth, float32(v.height), panelColor, false)
	vector.StrokeLine(screen, px, 0, px, float32(v.height), 1, panelEdge, false)

	e := v.engine
	face := basicfont.Face7x13
	tx := int(px) + 10
	ty := 22

	line := func(s string) {
		text.Draw(screen, s, face, tx, ty, lineColor)
		ty += 16
	}

	line(fmt.Sprintf("HOME %d - %d AWAY", e.Score(sim.SideHome), e.Score(sim.SideAway)))
	line(fmt.Sprintf("phase    %s", e.Phase()))
	line(fmt.Sprintf("serving  %s (rot %d/%d)", e.ServingSide(),
		e.Rotation(sim.SideHome), e.Rotation(sim.SideAway)))
	mode := "playback"
	if !e.SpectateMode() {
		mode = "editing"
	}
	line(fmt.Sprintf("mode     %s   speed %s", mode, v.speedLabel()))
	if e.UseLibero() {
		line("libero   on")
	}
	if won, ok := sim.SetWon(e.Score(sim.SideHome), e.Score(sim.SideAway), 25); ok {
		line(fmt.Sprintf("set won by %s", won))
	}
	if desc := e.LastRallyDescription(); desc != "" {
		line("")
		for _, w := range wrapText(desc, 38) {
			line(w)
		}
	}
	if viols := e.LastViolations(); len(viols) > 0 {
		ty += 4
		text.Draw(screen, "OVERLAP AT SERVE", face, tx, ty, alertColor)
		ty += 16
		for _, viol := range viols {
			for _, w := range wrapText(viol.String(), 38) {
				text.Draw(screen, w, face, tx, ty, alertColor)
				ty += 14
			}
		}
	}

	// Decision feed: most recent goal changes, oldest first.
	ty += 10
	text.Draw(screen, "-- decision feed --", face, tx, ty, panelEdge)
	ty += 8
	feed := e.TraceFeed()
	const maxLines = 38
	if len(feed) > maxLines {
		feed = feed[len(feed)-maxLines:]
	}
	for _, tr := range feed {
		ebitenutil.DebugPrintAt(screen, tr.String(), tx, ty)
		ty += 13
		if ty > v.height-16 {
			break
		}
	}
}

// drawHUD renders the key legend in the lower-left corner.
func (v *View) drawHUD(screen *ebiten.Image) {
	lines := []string{
		"SPACE serve   R reset rally   B reset players",
		"E playback/editing   L libero   drag = move token",
		"P pause   , . speed   C copy report   H hide",
	}
	const lineH = 13
	boxW := float32(320)
	boxH := float32(len(lines)*lineH + 10)
	bx := float32(v.offX)
	by := float32(v.height) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH, panelColor, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1, panelEdge, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(bx)+6, int(by)+5+i*lineH)
	}
}

// drawStatus renders the sticky status line (errors, clipboard feedback)
// over the top of the court.
func (v *View) drawStatus(screen *ebiten.Image) {
	if v.status == "" {
		return
	}
	col := lineColor
	if v.fatalErr != nil {
		col = alertColor
	}
	text.Draw(screen, v.status, basicfont.Face7x13, v.offX, 14, col)
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// wrapText splits a line into chunks of at most width characters, breaking
// on spaces where possible.
func wrapText(s string, width int) []string {
	var out []string
	for len(s) > width {
		cut := width
		for i := width; i > 0; i-- {
			if s[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, s[:cut])
		s = s[cut:]
		for len(s) > 0 && s[0] == ' ' {
			s = s[1:]
		}
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
