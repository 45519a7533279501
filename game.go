package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sqweek/dialog"

	"gazefall/scene"
	"gazefall/sheet"
)

// Screen modes.
const (
	modeLanding = iota
	modeCountdown
	modePlaying
	modeGameOver
)

const (
	countdownDur    = 3 * time.Second
	waveBannerDur   = 2 * time.Second
	gestureFlashDur = 600 * time.Millisecond
	// maxTickGap caps measured frame time so a stalled frame cannot
	// fast-forward every animation clock at once.
	maxTickGap = 250 * time.Millisecond
)

var errShutdown = errors.New("shutdown")

// gameStarted is closed once first-frame init has run. Fake mode waits on it
// before streaming synthetic snapshots.
var gameStarted = make(chan struct{})

// drawOptsPool pools DrawImageOptions to reduce allocations.
var drawOptsPool = sync.Pool{New: func() any { return &ebiten.DrawImageOptions{} }}

// hudModel is the HUD's view of the authoritative player fields. Snapshot
// fields are optional on the wire; values here only move when a snapshot
// carries them. hp starts at -1, hiding the health bar until the server
// first reports it.
type hudModel struct {
	hp, gold, score, wave int
	gesture               []string
	gestureMatched        bool
}

// Game is the whole client: presentation state, the server connection, the
// screen state machine and the HUD. Everything hangs off this struct rather
// than package globals so startup and teardown stay explicit.
type Game struct {
	ctx context.Context

	viewport *scene.Viewport
	pointer  *scene.Pointer
	roster   *scene.Roster
	effects  *scene.EffectSet
	scroller *scene.Scroller
	lib      *sheet.Library
	net      *netClient

	mode      int
	modeSince time.Time
	runStart  time.Time

	hud               hudModel
	waveBannerUntil   time.Time
	gestureFlashUntil time.Time

	final       gameOverMsg
	newBest     bool
	recPrompted bool

	replayMode bool
	fakeMode   bool

	lastTick      time.Time
	lastHousekeep time.Time

	initOnce sync.Once
}

func newGame(ctx context.Context, lib *sheet.Library, net *netClient) *Game {
	g := &Game{
		ctx:       ctx,
		lib:       lib,
		net:       net,
		viewport:  scene.NewViewport(lib.WorldWidth, float64(gs.WindowWidth), float64(gs.WindowHeight)),
		pointer:   scene.NewPointer(gs.SmoothingFactor, gs.CursorRadius),
		scroller:  scene.NewScroller(scrollConfig()),
		mode:      modeLanding,
		modeSince: time.Now(),
	}
	g.hud.hp = -1
	g.roster = scene.NewRoster(lib.EnemyClass)
	g.roster.Logf = logWarn
	g.effects = scene.NewEffectSet(lib.EffectClass)
	g.effects.Logf = logWarn
	lib.Logf = logWarn
	w, h := g.viewport.Size()
	cx, _ := g.viewport.ScreenToWorld(w/2, h/2)
	g.pointer.SetPosition(cx, h/2)
	return g
}

func scrollConfig() scene.ScrollConfig {
	return scene.ScrollConfig{
		EdgeFraction: gs.EdgeFraction,
		Dwell:        time.Duration(gs.ScrollDwellMs) * time.Millisecond,
		MinSpeed:     gs.ScrollMinSpeed,
		MaxSpeed:     gs.ScrollMaxSpeed,
	}
}

func (g *Game) Update() error {
	// Cache the current time once per tick and reuse everywhere.
	now := time.Now()
	select {
	case <-g.ctx.Done():
		saveSettings()
		return errShutdown
	default:
	}
	g.initOnce.Do(g.init)

	dt := now.Sub(g.lastTick)
	if g.lastTick.IsZero() || dt < 0 {
		dt = 0
	} else if dt > maxTickGap {
		dt = maxTickGap
	}
	g.lastTick = now

	// Effects that finished last tick have had their terminal pose drawn
	// once; clear them before new work.
	g.effects.Sweep()

	g.drainMessages(now)
	g.handleInput(now)

	switch g.mode {
	case modeCountdown:
		g.advance(now, dt)
		if now.Sub(g.modeSince) >= countdownDur {
			g.setMode(modePlaying, now)
		}
	case modePlaying:
		g.advance(now, dt)
	}

	g.housekeep(now)
	return nil
}

// advance runs the per-tick presentation updates: pointer easing, animation
// clocks and edge scrolling. The pointer free-runs every tick whether or not
// a fresh gaze sample arrived.
func (g *Game) advance(now time.Time, dt time.Duration) {
	if gs.MouseGaze {
		mx, my := ebiten.CursorPosition()
		_, h := g.viewport.Size()
		wx, _ := g.viewport.ScreenToWorld(float64(mx), float64(my))
		g.pointer.SetTarget(wx, float64(my), g.viewport.WorldWidth(), h)
	}
	g.pointer.Advance()

	// Clocks run through the countdown too, so enemies animate under the
	// overlay; only scrolling waits for play proper.
	g.roster.Advance(dt)
	g.effects.Advance(dt)

	if g.mode != modePlaying {
		return
	}
	px, _ := g.pointer.Position()
	g.scroller.Evaluate(g.viewport, px, now)
}

// drainMessages empties the inbox completely so snapshots never interleave
// with drawing; all state mutation happens here on the tick.
func (g *Game) drainMessages(now time.Time) {
	for {
		select {
		case msg := <-g.net.inbox:
			switch m := msg.(type) {
			case *gazeMsg:
				g.applyGaze(m)
			case *gameStateMsg:
				g.applyGameState(m, now)
			case *gameOverMsg:
				g.applyGameOver(m, now)
			}
		default:
			return
		}
	}
}

// applyGaze denormalizes one gaze sample and retargets the pointer: gaze_x
// against world width, gaze_y against viewport height. Keeping the pointer
// pinned in world space means a steady gaze holds a fixed world position
// while the camera scrolls, so edge scrolling stops by itself once the zone
// moves past it.
func (g *Game) applyGaze(m *gazeMsg) {
	_, h := g.viewport.Size()
	ww := g.viewport.WorldWidth()
	g.pointer.SetTarget(m.GazeX*ww, m.GazeY*h, ww, h)
}

// applyGameState reconciles one authoritative snapshot: enemy set, effect
// spawns and HUD fields. After game over the world is frozen and snapshots
// are ignored.
func (g *Game) applyGameState(m *gameStateMsg, now time.Time) {
	if g.mode == modeGameOver {
		return
	}
	_, h := g.viewport.Size()
	ww := g.viewport.WorldWidth()

	ups := make([]scene.EnemyUpdate, 0, len(m.Enemies))
	for _, row := range m.Enemies {
		ups = append(ups, scene.EnemyUpdate{
			ID:     row.ID,
			TypeID: row.TypeID,
			X:      row.X * ww,
			Y:      row.Y * h,
			HP:     row.CurrentHP,
			MaxHP:  row.MaxHP,
			Label:  row.AnimationState,
			Dead:   row.IsDead,
		})
	}
	g.roster.Reconcile(ups)

	groundY := g.lib.Ground * h
	for _, fx := range m.Effects {
		def := g.lib.Effects[fx.Type]
		y := groundY
		if def != nil {
			y += def.YOffset
		}
		if g.effects.SpawnIfNew(fx.ID, fx.Type, fx.X*ww, y) && def != nil {
			playCue(def.Sound)
		}
	}

	if m.PlayerHP != nil {
		g.hud.hp = *m.PlayerHP
	}
	if m.PlayerGold != nil {
		g.hud.gold = *m.PlayerGold
	}
	if m.PlayerScore != nil {
		g.hud.score = *m.PlayerScore
	}
	if m.WaveNumber != nil && *m.WaveNumber != g.hud.wave {
		g.hud.wave = *m.WaveNumber
		g.waveBannerUntil = now.Add(waveBannerDur)
		updateDiscordWave(g.hud.wave, g.hud.score)
	}
	if m.GestureSequence != nil {
		g.hud.gesture = m.GestureSequence
	}
	if m.GestureMatched != nil {
		if *m.GestureMatched && !g.hud.gestureMatched {
			g.gestureFlashUntil = now.Add(gestureFlashDur)
		}
		g.hud.gestureMatched = *m.GestureMatched
	}
}

func (g *Game) applyGameOver(m *gameOverMsg, now time.Time) {
	if g.mode != modePlaying && g.mode != modeCountdown {
		return
	}
	g.final = *m
	g.newBest = statRunFinished(m.FinalScore, m.FinalWave, now.Sub(g.runStart))
	g.setMode(modeGameOver, now)

	body := fmt.Sprintf("Final score %d, wave %d.", m.FinalScore, m.FinalWave)
	if g.newBest {
		body += " New personal best!"
	}
	notifyDesktop("Game over", body)
	g.maybePromptRecording()
}

// maybePromptRecording asks once whether to keep the session journal. The
// dialog blocks, so it runs off the tick.
func (g *Game) maybePromptRecording() {
	rec := g.net.rec
	if rec == nil || g.recPrompted || !gs.PromptOnSaveRecording {
		return
	}
	g.recPrompted = true
	go func() {
		keep := dialog.Message("Keep the recording of this session?\n\n%s", rec.Path()).
			Title("Save recording").YesNo()
		if keep {
			if err := rec.Close(); err != nil {
				logWarn("close recording: %v", err)
			}
			return
		}
		rec.Discard()
	}()
}

// setMode switches screens and runs the entry actions for the new mode.
func (g *Game) setMode(mode int, now time.Time) {
	if g.mode == mode {
		return
	}
	g.mode = mode
	g.modeSince = now
	updateDiscordMode(mode)

	switch mode {
	case modeCountdown:
		g.resetRun(now)
		g.net.sendCommand(cmdStartGame)
	case modePlaying:
		g.runStart = now
	}
}

// resetRun clears all per-run presentation state, including the effect
// seen-id guard, so a restarted game starts from nothing.
func (g *Game) resetRun(now time.Time) {
	g.roster = scene.NewRoster(g.lib.EnemyClass)
	g.roster.Logf = logWarn
	g.effects = scene.NewEffectSet(g.lib.EffectClass)
	g.effects.Logf = logWarn
	g.scroller.Reset()
	g.viewport.SetOffset(0)
	w, h := g.viewport.Size()
	cx, _ := g.viewport.ScreenToWorld(w/2, h/2)
	g.pointer.SetPosition(cx, h/2)
	g.hud = hudModel{hp: -1}
	g.waveBannerUntil = time.Time{}
	g.gestureFlashUntil = time.Time{}
	g.final = gameOverMsg{}
	g.newBest = false
	g.lastTick = now
}

// housekeep runs the once-per-second chores: settings autosave and window
// size tracking.
func (g *Game) housekeep(now time.Time) {
	if now.Sub(g.lastHousekeep) < time.Second {
		return
	}
	g.lastHousekeep = now
	if !gs.Fullscreen {
		if w, h := ebiten.WindowSize(); w > 0 && h > 0 && (w != gs.WindowWidth || h != gs.WindowHeight) {
			gs.WindowWidth, gs.WindowHeight = w, h
			settingsDirty = true
		}
	}
	maybeSaveSettings(now)
}

// init runs on the first tick, once the GPU context exists.
func (g *Game) init() {
	ebiten.SetWindowTitle("Gazefall")
	ebiten.SetVsyncEnabled(gs.Vsync)
	ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	initPalette()
	initFonts()
	close(gameStarted)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.viewport.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

func runGame(g *Game) {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// Keep Update() TPS synced with draw FPS; clocks use measured dt.
	ebiten.SetTPS(ebiten.SyncWithFPS)
	if gs.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	op := &ebiten.RunGameOptions{ScreenTransparent: false}
	if err := ebiten.RunGameWithOptions(g, op); err != nil && !errors.Is(err, errShutdown) {
		log.Printf("ebiten: %v", err)
	}
	saveSettings()
}
