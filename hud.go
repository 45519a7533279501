package main

import (
	"fmt"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish)

const (
	hudPad       = 12.0
	hudBarW      = 180.0
	hudBarH      = 14.0
	gestureBoxW  = 86.0
	gestureBoxH  = 30.0
	gestureBoxGp = 8.0

	// The server reports player HP as an absolute value out of 100; it does
	// not send a max.
	playerMaxHP = 100
)

// drawHUD composites the in-game overlay: player vitals top-left, wave
// banner center, gesture prompt along the bottom and the connection banner
// when the link is gone. All values come from the last snapshot; nothing
// here is predicted.
func (g *Game) drawHUD(screen *ebiten.Image) {
	w, h := g.viewport.Size()

	y := hudPad
	// hp -1 means no snapshot has reported health yet; draw nothing rather
	// than a fake full bar.
	if g.hud.hp >= 0 {
		vector.DrawFilledRect(screen, float32(hudPad), float32(y), hudBarW, hudBarH, pal.panel, false)
		frac := float64(g.hud.hp) / playerMaxHP
		if frac > 1 {
			frac = 1
		}
		clr := pal.good
		if frac < 0.33 {
			clr = pal.bad
		}
		vector.DrawFilledRect(screen, float32(hudPad), float32(y), float32(hudBarW*frac), hudBarH, clr, false)
		drawText(screen, fmt.Sprintf("HP %d", g.hud.hp), hudPad+hudBarW+8, y-2, 14, pal.text, false)
		y += hudBarH + 8
	}

	drawText(screen, "Gold "+humanize.Comma(int64(g.hud.gold)), hudPad, y, 16, pal.gold, false)
	y += 22
	drawText(screen, "Score "+humanize.Comma(int64(g.hud.score)), hudPad, y, 16, pal.text, false)
	y += 22
	if g.hud.wave > 0 {
		drawText(screen, fmt.Sprintf("Wave %d", g.hud.wave), hudPad, y, 16, pal.dim, false)
	}

	if !g.waveBannerUntil.IsZero() && g.lastTick.Before(g.waveBannerUntil) {
		drawText(screen, fmt.Sprintf("Wave %d", g.hud.wave), w/2, h*0.22, 48, pal.accent, true)
	}

	g.drawGestureBar(screen)

	if g.net.gaveUp() {
		g.drawBanner(screen, "Connection lost. Restart the client to reconnect.", pal.bad)
	} else if !g.net.connected() && !g.replayMode && !g.fakeMode {
		g.drawBanner(screen, "Connecting to server...", pal.dim)
	}
}

// drawGestureBar shows the gesture sequence the server wants next, one box
// per step. The whole row flashes gold briefly when the server reports a
// match.
func (g *Game) drawGestureBar(screen *ebiten.Image) {
	if len(g.hud.gesture) == 0 {
		return
	}
	w, h := g.viewport.Size()

	n := float64(len(g.hud.gesture))
	total := n*gestureBoxW + (n-1)*gestureBoxGp
	x := (w - total) / 2
	y := h - gestureBoxH - hudPad

	flash := !g.gestureFlashUntil.IsZero() && g.lastTick.Before(g.gestureFlashUntil)
	for _, name := range g.hud.gesture {
		box := pal.panel
		border := pal.dim
		if flash || g.hud.gestureMatched {
			border = pal.gold
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), gestureBoxW, gestureBoxH, box, false)
		vector.StrokeRect(screen, float32(x), float32(y), gestureBoxW, gestureBoxH, 1.5, border, false)
		drawText(screen, titleCaser.String(name), x+gestureBoxW/2, y+6, 14, pal.text, true)
		x += gestureBoxW + gestureBoxGp
	}
	if flash {
		drawText(screen, "Matched!", w/2, y-26, 18, pal.gold, true)
	}
}

// drawBanner paints a full-width strip near the top with a short status
// line.
func (g *Game) drawBanner(screen *ebiten.Image, msg string, clr color.Color) {
	w, _ := g.viewport.Size()
	vector.DrawFilledRect(screen, 0, 40, float32(w), 28, pal.panel, false)
	drawText(screen, msg, w/2, 45, 16, clr, true)
}
