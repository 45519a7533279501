package main

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	dark "github.com/thiagokokada/dark-mode-go"
	"golang.org/x/image/font/gofont/goregular"

	"gazefall/scene"
)

// palette is picked once at startup to match the desktop theme.
type palette struct {
	sky      color.RGBA
	ground   color.RGBA
	post     color.RGBA
	text     color.RGBA
	dim      color.RGBA
	panel    color.RGBA
	accent   color.RGBA
	good     color.RGBA
	bad      color.RGBA
	gold     color.RGBA
	edgeGlow color.RGBA
}

var pal palette

func initPalette() {
	darkMode, err := dark.IsDarkMode()
	if err != nil {
		darkMode = true
	}
	if darkMode {
		pal = palette{
			sky:      color.RGBA{24, 26, 38, 255},
			ground:   color.RGBA{38, 34, 30, 255},
			post:     color.RGBA{58, 54, 48, 255},
			text:     color.RGBA{232, 230, 224, 255},
			dim:      color.RGBA{140, 140, 146, 255},
			panel:    color.RGBA{0, 0, 0, 170},
			accent:   color.RGBA{120, 190, 255, 255},
			good:     color.RGBA{110, 200, 110, 255},
			bad:      color.RGBA{214, 80, 80, 255},
			gold:     color.RGBA{235, 200, 90, 255},
			edgeGlow: color.RGBA{120, 190, 255, 40},
		}
		return
	}
	pal = palette{
		sky:      color.RGBA{198, 214, 233, 255},
		ground:   color.RGBA{151, 124, 83, 255},
		post:     color.RGBA{122, 100, 68, 255},
		text:     color.RGBA{28, 30, 34, 255},
		dim:      color.RGBA{90, 94, 100, 255},
		panel:    color.RGBA{255, 255, 255, 190},
		accent:   color.RGBA{30, 110, 200, 255},
		good:     color.RGBA{40, 150, 40, 255},
		bad:      color.RGBA{190, 40, 40, 255},
		gold:     color.RGBA{170, 130, 20, 255},
		edgeGlow: color.RGBA{30, 110, 200, 40},
	}
}

var fontSource *text.GoTextFaceSource

func initFonts() {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		logError("font init: %v", err)
		return
	}
	fontSource = src
}

func face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: fontSource, Size: size}
}

// drawText draws s at (x,y). centered centers horizontally on x; y is
// always the top of the line.
func drawText(screen *ebiten.Image, s string, x, y, size float64, clr color.Color, centered bool) {
	if fontSource == nil {
		ebitenutil.DebugPrintAt(screen, s, int(x), int(y))
		return
	}
	op := &text.DrawOptions{}
	if centered {
		op.PrimaryAlign = text.AlignCenter
	}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face(size), op)
}

func textWidth(s string, size float64) float64 {
	if fontSource == nil {
		return float64(len(s)) * size * 0.5
	}
	w, _ := text.Measure(s, face(size), 0)
	return w
}

func (g *Game) Draw(screen *ebiten.Image) {
	select {
	case <-gameStarted:
	default:
		return
	}

	g.drawBackground(screen)
	switch g.mode {
	case modeLanding:
		g.drawLanding(screen)
	case modeCountdown:
		g.drawWorld(screen)
		g.drawPointer(screen)
		g.drawHUD(screen)
		g.drawCountdown(screen)
	case modePlaying:
		g.drawWorld(screen)
		g.drawEdgeGlow(screen)
		g.drawPointer(screen)
		g.drawHUD(screen)
	case modeGameOver:
		g.drawWorld(screen)
		g.drawHUD(screen)
		g.drawGameOver(screen)
	}

	if gs.ShowFPS {
		msg := fmt.Sprintf("FPS %0.0f TPS %0.0f", ebiten.ActualFPS(), ebiten.ActualTPS())
		ebitenutil.DebugPrintAt(screen, msg, 4, 4)
	}
}

// drawBackground paints the sky, the ground band and world-anchored posts.
// The posts scroll with the camera, which is the player's only fixed
// reference for how far the view has panned.
func (g *Game) drawBackground(screen *ebiten.Image) {
	w, h := g.viewport.Size()
	screen.Fill(pal.sky)

	groundY := g.lib.Ground * h
	vector.DrawFilledRect(screen, 0, float32(groundY), float32(w), float32(h-groundY), pal.ground, false)

	const postSpacing = 256
	off := g.viewport.Offset()
	for wx := 0.0; wx <= g.viewport.WorldWidth(); wx += postSpacing {
		sx := wx - off
		if sx < -4 || sx > w+4 {
			continue
		}
		vector.DrawFilledRect(screen, float32(sx-2), float32(groundY-18), 4, 18, pal.post, false)
	}
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	for _, e := range g.roster.All() {
		g.drawEnemy(screen, e)
	}
	for _, fx := range g.effects.All() {
		g.drawEffect(screen, fx)
	}
}

func (g *Game) drawEnemy(screen *ebiten.Image, e *scene.Enemy) {
	def := g.lib.Enemies[e.TypeID]
	if def == nil {
		return
	}
	sx, sy := g.viewport.WorldToScreen(e.X, e.Y)
	w, _ := g.viewport.Size()

	spriteW, spriteH := 32.0, 32.0
	st := def.States[e.Anim.State()]
	if st != nil {
		spriteW = float64(st.FrameW) * def.Scale
		spriteH = float64(st.FrameH) * def.Scale
	}
	if sx+spriteW/2 < 0 || sx-spriteW/2 > w {
		return
	}

	var frame *ebiten.Image
	if st != nil {
		frame = g.lib.Frame(st.Image, e.Anim.SourceFrame(), st.FrameW, st.FrameH)
	}
	if frame == nil {
		// Sheet not decoded yet (or missing): flat stand-in at the same
		// footprint, so layout and HP bars stay stable.
		vector.DrawFilledRect(screen, float32(sx-spriteW/2), float32(sy-spriteH/2),
			float32(spriteW), float32(spriteH), pal.dim, false)
	} else {
		op := drawOptsPool.Get().(*ebiten.DrawImageOptions)
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		op.GeoM.Scale(def.Scale, def.Scale)
		op.GeoM.Translate(sx-spriteW/2, sy-spriteH/2)
		if e.Dead {
			op.ColorScale.ScaleAlpha(0.8)
		}
		screen.DrawImage(frame, op)
		drawOptsPool.Put(op)
	}

	if !e.Dead && e.MaxHP > 0 {
		g.drawHPBar(screen, sx, sy-spriteH/2-10, spriteW, e.HP, e.MaxHP)
	}
}

func (g *Game) drawHPBar(screen *ebiten.Image, cx, y, width float64, hp, maxHP int) {
	if hp < 0 {
		hp = 0
	}
	frac := float64(hp) / float64(maxHP)
	if frac > 1 {
		frac = 1
	}
	x := cx - width/2
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), 4, pal.panel, false)
	clr := pal.good
	if frac < 0.33 {
		clr = pal.bad
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width*frac), 4, clr, false)
}

func (g *Game) drawEffect(screen *ebiten.Image, fx *scene.Effect) {
	def := g.lib.Effects[fx.TypeID]
	if def == nil {
		return
	}
	sx, sy := g.viewport.WorldToScreen(fx.X, fx.Y)
	w, _ := g.viewport.Size()
	spriteW := float64(def.FrameW) * def.Scale
	spriteH := float64(def.FrameH) * def.Scale
	if sx+spriteW/2 < 0 || sx-spriteW/2 > w {
		return
	}

	frame := g.lib.Frame(def.Image, fx.Anim.SourceFrame(), def.FrameW, def.FrameH)
	if frame == nil {
		vector.StrokeCircle(screen, float32(sx), float32(sy), float32(spriteW/2), 2, pal.accent, false)
		return
	}
	op := drawOptsPool.Get().(*ebiten.DrawImageOptions)
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Filter = ebiten.FilterNearest
	op.GeoM.Scale(def.Scale, def.Scale)
	op.GeoM.Translate(sx-spriteW/2, sy-spriteH/2)
	screen.DrawImage(frame, op)
	drawOptsPool.Put(op)
}

// drawPointer renders the smoothed gaze cursor: a ring with a center dot.
// The ring flares while a gesture match is being celebrated.
func (g *Game) drawPointer(screen *ebiten.Image) {
	wx, y := g.pointer.Position()
	x, _ := g.viewport.WorldToScreen(wx, y)
	r := float32(g.pointer.Radius())
	if r <= 0 {
		r = 12
	}

	ring := pal.accent
	width := float32(2)
	if !g.gestureFlashUntil.IsZero() && g.lastTick.Before(g.gestureFlashUntil) {
		ring = pal.gold
		width = 4
	}
	vector.StrokeCircle(screen, float32(x), float32(y), r, width, ring, true)
	vector.DrawFilledCircle(screen, float32(x), float32(y), 3, ring, true)
}

// drawEdgeGlow marks the active scroll zone so the player can tell a
// deliberate edge dwell from a stray glance.
func (g *Game) drawEdgeGlow(screen *ebiten.Image) {
	w, h := g.viewport.Size()
	zoneW := w * gs.EdgeFraction

	zone := g.scroller.Zone()
	if zone == 0 {
		// Faint hint when the pointer merely nears an edge.
		edges := g.pointer.EdgeProximity(g.viewport, zoneW)
		if edges&scene.EdgeLeft != 0 && g.viewport.Offset() > 0 {
			glow := pal.edgeGlow
			glow.A /= 2
			vector.DrawFilledRect(screen, 0, 0, float32(zoneW/3), float32(h), glow, false)
		}
		if edges&scene.EdgeRight != 0 && g.viewport.Offset() < g.viewport.MaxOffset() {
			glow := pal.edgeGlow
			glow.A /= 2
			vector.DrawFilledRect(screen, float32(w-zoneW/3), 0, float32(zoneW/3), float32(h), glow, false)
		}
		return
	}

	glow := pal.edgeGlow
	if g.scroller.Scrolling(g.lastTick) {
		glow.A *= 2
	}
	if zone < 0 {
		vector.DrawFilledRect(screen, 0, 0, float32(zoneW/2), float32(h), glow, false)
	} else {
		vector.DrawFilledRect(screen, float32(w-zoneW/2), 0, float32(zoneW/2), float32(h), glow, false)
	}
}
