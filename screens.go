package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hako/durafmt"
	"github.com/pkg/browser"
	"github.com/skratchdot/open-golang/open"
	"golang.design/x/clipboard"
)

const helpURL = "https://github.com/Distortions81/gazefall#readme"

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// handleInput reacts to the handful of keys each screen accepts. Gameplay
// itself is gaze-driven; the keyboard only covers meta actions.
func (g *Game) handleInput(now time.Time) {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		gs.Fullscreen = !gs.Fullscreen
		ebiten.SetFullscreen(gs.Fullscreen)
		settingsDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		gs.ShowFPS = !gs.ShowFPS
		settingsDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		gs.Mute = !gs.Mute
		settingsDirty = true
	}

	switch g.mode {
	case modeLanding:
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.setMode(modeCountdown, now)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyH) {
			if err := browser.OpenURL(helpURL); err != nil {
				logWarn("open help: %v", err)
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyO) {
			open.Run(filepath.Join(dataDirPath, "recordings"))
		}
	case modePlaying:
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			g.net.sendCommand(cmdSkipGesture)
		}
	case modeGameOver:
		if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			g.net.sendCommand(cmdRestart)
			g.setMode(modeCountdown, now)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			text := fmt.Sprintf("Gazefall: score %s, wave %d",
				humanize.Comma(int64(g.final.FinalScore)), g.final.FinalWave)
			clipboard.Write(clipboard.FmtText, []byte(text))
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyO) {
			open.Run(filepath.Join(dataDirPath, "recordings"))
		}
	}
}

func (g *Game) drawLanding(screen *ebiten.Image) {
	w, h := g.viewport.Size()

	drawText(screen, "GAZEFALL", w/2, h*0.24, 64, pal.accent, true)
	drawText(screen, "Look to aim. Gestures attack. Gaze the edges to scroll.", w/2, h*0.24+80, 18, pal.dim, true)

	status := "Press Space to start"
	clr := pal.text
	switch {
	case g.fakeMode:
		status = "Demo mode. Press Space to start"
	case g.replayMode:
		status = "Replaying a recorded session"
	case g.net.gaveUp():
		status = "Could not reach the game server"
		clr = pal.bad
	case !g.net.connected():
		status = "Connecting to " + g.net.url + "..."
		clr = pal.dim
	}
	drawText(screen, status, w/2, h*0.55, 22, clr, true)

	if score, wave := bestScore(); score > 0 {
		line := fmt.Sprintf("Best score %s (wave %d)", humanize.Comma(int64(score)), wave)
		drawText(screen, line, w/2, h*0.55+40, 16, pal.gold, true)
	}

	drawText(screen, "H help   O recordings   M mute   F11 fullscreen", w/2, h-40, 14, pal.dim, true)
}

// drawCountdown overlays the 3-2-1 digits while snapshots are already
// streaming underneath.
func (g *Game) drawCountdown(screen *ebiten.Image) {
	w, h := g.viewport.Size()
	left := countdownDur - g.lastTick.Sub(g.modeSince)
	if left < 0 {
		left = 0
	}
	n := int(left/time.Second) + 1
	if n > 3 {
		n = 3
	}
	drawText(screen, fmt.Sprintf("%d", n), w/2, h*0.32, 120, pal.accent, true)
	drawText(screen, "Get ready", w/2, h*0.32+140, 24, pal.dim, true)
}

func (g *Game) drawGameOver(screen *ebiten.Image) {
	w, h := g.viewport.Size()

	drawText(screen, "GAME OVER", w/2, h*0.2, 56, pal.bad, true)
	drawText(screen, "Score "+humanize.Comma(int64(g.final.FinalScore)), w/2, h*0.2+90, 32, pal.text, true)
	drawText(screen, fmt.Sprintf("Wave %d", g.final.FinalWave), w/2, h*0.2+130, 22, pal.dim, true)

	if !g.runStart.IsZero() {
		d := g.lastTick.Sub(g.runStart)
		if g.modeSince.After(g.runStart) {
			d = g.modeSince.Sub(g.runStart)
		}
		dur := durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).Format(shortUnits)
		drawText(screen, "Run time "+dur, w/2, h*0.2+160, 16, pal.dim, true)
	}
	if g.newBest {
		drawText(screen, "New personal best!", w/2, h*0.2+200, 24, pal.gold, true)
	}

	drawText(screen, "R restart   C copy score   O recordings", w/2, h-40, 16, pal.dim, true)
}
