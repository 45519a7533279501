package main

import (
	"context"
	"testing"
	"time"

	"gazefall/sheet"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := newGame(context.Background(), sheet.Default(), newNetClient("ws://127.0.0.1:1/ws"))
	g.mode = modePlaying
	return g
}

func TestSnapshotReconciliation(t *testing.T) {
	oldNotify := gs.Notifications
	gs.Notifications = false
	defer func() { gs.Notifications = oldNotify }()

	g := newTestGame(t)
	now := time.Now()
	ww := g.viewport.WorldWidth()

	snap1 := &gameStateMsg{
		Enemies: []enemyRow{
			{ID: "e1", TypeID: "slime", X: 0.5, Y: 0.8, CurrentHP: 50, MaxHP: 50, AnimationState: "walk"},
			{ID: "e2", TypeID: "bat", X: 0.3, Y: 0.5, CurrentHP: 30, MaxHP: 30, AnimationState: "walk"},
			{ID: "e3", TypeID: "golem", X: 0.9, Y: 0.8, CurrentHP: 160, MaxHP: 160, AnimationState: "walk"},
		},
		Effects: []effectRow{{ID: "fx1", Type: "fireSlash", X: 0.4}},
	}
	g.applyGameState(snap1, now)

	if g.roster.Len() != 3 {
		t.Fatalf("expected 3 enemies after first snapshot, got %d", g.roster.Len())
	}
	if g.effects.Len() != 1 {
		t.Fatalf("expected 1 effect after first snapshot, got %d", g.effects.Len())
	}
	if fx := g.effects.All()[0]; fx.Anim.Frame() != 0 {
		t.Fatalf("fresh effect should start at frame 0, got %d", fx.Anim.Frame())
	}

	// Run the clocks between snapshots; bat walk steps every 80ms.
	g.roster.Advance(250 * time.Millisecond)
	e2, _ := g.roster.Get("e2")
	batFrame := e2.Anim.Frame()
	if batFrame == 0 {
		t.Fatalf("bat clock should have advanced")
	}

	snap2 := &gameStateMsg{
		Enemies: []enemyRow{
			{ID: "e1", TypeID: "slime", X: 0.52, Y: 0.8, CurrentHP: 25, MaxHP: 50, AnimationState: "hurt"},
			{ID: "e2", TypeID: "bat", X: 0.32, Y: 0.5, CurrentHP: 30, MaxHP: 30, AnimationState: "walk"},
		},
		Effects: []effectRow{{ID: "fx1", Type: "fireSlash", X: 0.4}},
	}
	g.applyGameState(snap2, now)

	if g.roster.Len() != 2 {
		t.Fatalf("expected 2 enemies after second snapshot, got %d", g.roster.Len())
	}
	if _, ok := g.roster.Get("e3"); ok {
		t.Fatalf("e3 should be gone after dropping from the snapshot")
	}

	e1, _ := g.roster.Get("e1")
	if e1.Anim.State() != "hurt" || e1.Anim.Frame() != 0 {
		t.Fatalf("label change must reset the clock: state=%q frame=%d", e1.Anim.State(), e1.Anim.Frame())
	}
	if e1.HP != 25 {
		t.Fatalf("authoritative HP not applied: %d", e1.HP)
	}
	if e1.X != 0.52*ww {
		t.Fatalf("world X not denormalized: got %v want %v", e1.X, 0.52*ww)
	}

	e2, _ = g.roster.Get("e2")
	if e2.Anim.Frame() != batFrame {
		t.Fatalf("label-stable snapshot must preserve the clock: frame %d, was %d", e2.Anim.Frame(), batFrame)
	}

	if g.effects.Len() != 1 {
		t.Fatalf("repeated effect id must not respawn: %d effects", g.effects.Len())
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	g := newTestGame(t)
	now := time.Now()

	snap := &gameStateMsg{
		Enemies: []enemyRow{
			{ID: "e1", TypeID: "slime", X: 0.5, Y: 0.8, CurrentHP: 40, MaxHP: 50, AnimationState: "walk"},
		},
	}
	g.applyGameState(snap, now)
	g.roster.Advance(300 * time.Millisecond)
	e1, _ := g.roster.Get("e1")
	frame := e1.Anim.Frame()

	g.applyGameState(snap, now)
	e1b, _ := g.roster.Get("e1")
	if g.roster.Len() != 1 || e1b.Anim.Frame() != frame || e1b.Anim.State() != "walk" {
		t.Fatalf("reapplying the same snapshot changed state: len=%d frame=%d state=%q",
			g.roster.Len(), e1b.Anim.Frame(), e1b.Anim.State())
	}
}

func TestEffectNotRespawnedAfterSweep(t *testing.T) {
	g := newTestGame(t)
	now := time.Now()

	snap := &gameStateMsg{Effects: []effectRow{{ID: "fx1", Type: "fireSlash", X: 0.4}}}
	g.applyGameState(snap, now)
	if g.effects.Len() != 1 {
		t.Fatalf("expected 1 effect, got %d", g.effects.Len())
	}

	// fireSlash is 8 frames at 70ms; run it out and sweep.
	g.effects.Advance(700 * time.Millisecond)
	g.effects.Sweep()
	if g.effects.Len() != 0 {
		t.Fatalf("finished effect should be swept, got %d", g.effects.Len())
	}

	g.applyGameState(snap, now)
	if g.effects.Len() != 0 {
		t.Fatalf("a swept effect id must never respawn")
	}
}

func TestRestartClearsEffectGuard(t *testing.T) {
	g := newTestGame(t)
	now := time.Now()

	snap := &gameStateMsg{Effects: []effectRow{{ID: "fx1", Type: "fireSlash", X: 0.4}}}
	g.applyGameState(snap, now)
	if g.effects.Len() != 1 {
		t.Fatalf("expected 1 effect, got %d", g.effects.Len())
	}

	g.resetRun(now)
	if g.effects.Len() != 0 {
		t.Fatalf("reset should clear live effects")
	}
	g.applyGameState(snap, now)
	if g.effects.Len() != 1 {
		t.Fatalf("a fresh run must accept previous effect ids again")
	}
}

func TestPartialSnapshotKeepsHUD(t *testing.T) {
	g := newTestGame(t)
	now := time.Now()

	hp, gold := 80, 120
	g.applyGameState(&gameStateMsg{PlayerHP: &hp, PlayerGold: &gold}, now)
	if g.hud.hp != 80 || g.hud.gold != 120 {
		t.Fatalf("hud not updated: hp=%d gold=%d", g.hud.hp, g.hud.gold)
	}

	g.applyGameState(&gameStateMsg{}, now)
	if g.hud.hp != 80 || g.hud.gold != 120 {
		t.Fatalf("absent fields must leave hud alone: hp=%d gold=%d", g.hud.hp, g.hud.gold)
	}
}

func TestWaveChangeArmsBanner(t *testing.T) {
	g := newTestGame(t)
	now := time.Now()

	wave := 2
	g.applyGameState(&gameStateMsg{WaveNumber: &wave}, now)
	if g.hud.wave != 2 {
		t.Fatalf("wave not applied: %d", g.hud.wave)
	}
	until := g.waveBannerUntil
	if !until.After(now) {
		t.Fatalf("wave change should arm the banner")
	}

	// Same wave again must not re-arm.
	later := now.Add(3 * time.Second)
	g.applyGameState(&gameStateMsg{WaveNumber: &wave}, later)
	if !g.waveBannerUntil.Equal(until) {
		t.Fatalf("unchanged wave must not re-arm the banner")
	}
}

func TestApplyGazeTargetsPointer(t *testing.T) {
	g := newTestGame(t)
	_, h := g.viewport.Size()
	ww := g.viewport.WorldWidth()

	// gaze_x spans the whole world, gaze_y the viewport; a steady gaze
	// therefore pins a world position independent of the camera.
	g.applyGaze(&gazeMsg{GazeX: 0.5, GazeY: 0.5})
	tx, ty := g.pointer.Target()
	if tx != ww/2 || ty != h/2 {
		t.Fatalf("gaze target not denormalized: (%v,%v) want (%v,%v)", tx, ty, ww/2, h/2)
	}

	g.viewport.SetOffset(300)
	g.applyGaze(&gazeMsg{GazeX: 0.5, GazeY: 0.5})
	if tx, _ = g.pointer.Target(); tx != ww/2 {
		t.Fatalf("camera offset leaked into the gaze target: %v", tx)
	}
}

func TestCountdownAdvancesClocks(t *testing.T) {
	g := newTestGame(t)
	g.mode = modeCountdown
	now := time.Now()

	g.applyGameState(&gameStateMsg{
		Enemies: []enemyRow{{ID: "e1", TypeID: "slime", X: 0.5, Y: 0.8, CurrentHP: 50, MaxHP: 50, AnimationState: "walk"}},
		Effects: []effectRow{{ID: "fx1", Type: "fireSlash", X: 0.5}},
	}, now)

	g.advance(now, 250*time.Millisecond)

	e, _ := g.roster.Get("e1")
	if e.Anim.Frame() == 0 {
		t.Fatalf("enemy clock frozen during the countdown")
	}
	if fx := g.effects.All()[0]; fx.Anim.Frame() == 0 {
		t.Fatalf("effect clock frozen during the countdown")
	}
	// Scrolling still waits for play proper.
	if g.viewport.Offset() != 0 {
		t.Fatalf("countdown must not scroll the camera")
	}
}

func TestGameOverFreezesSnapshots(t *testing.T) {
	oldNotify := gs.Notifications
	gs.Notifications = false
	defer func() { gs.Notifications = oldNotify }()

	g := newTestGame(t)
	now := time.Now()
	g.runStart = now.Add(-time.Minute)

	g.applyGameState(&gameStateMsg{
		Enemies: []enemyRow{{ID: "e1", TypeID: "slime", X: 0.5, Y: 0.8, CurrentHP: 50, MaxHP: 50, AnimationState: "walk"}},
	}, now)

	g.applyGameOver(&gameOverMsg{FinalScore: 500, FinalWave: 3}, now)
	if g.mode != modeGameOver {
		t.Fatalf("game over message should switch modes, got %d", g.mode)
	}
	if g.final.FinalScore != 500 || g.final.FinalWave != 3 {
		t.Fatalf("final results not kept: %+v", g.final)
	}

	// A straggler snapshot after the end must not disturb the frozen world.
	g.applyGameState(&gameStateMsg{
		Enemies: []enemyRow{
			{ID: "e9", TypeID: "bat", X: 0.1, Y: 0.5, CurrentHP: 30, MaxHP: 30, AnimationState: "walk"},
		},
	}, now.Add(time.Second))
	if g.roster.Len() != 1 {
		t.Fatalf("snapshots after game over must be ignored, got %d enemies", g.roster.Len())
	}
	if _, ok := g.roster.Get("e1"); !ok {
		t.Fatalf("frozen world should still hold e1")
	}
}

func TestUnknownEnemyTypeSkipsRow(t *testing.T) {
	g := newTestGame(t)
	now := time.Now()

	g.applyGameState(&gameStateMsg{
		Enemies: []enemyRow{
			{ID: "e1", TypeID: "dragon", X: 0.5, Y: 0.8, CurrentHP: 10, MaxHP: 10, AnimationState: "walk"},
			{ID: "e2", TypeID: "slime", X: 0.3, Y: 0.8, CurrentHP: 50, MaxHP: 50, AnimationState: "walk"},
		},
	}, now)
	if g.roster.Len() != 1 {
		t.Fatalf("unknown type must be skipped without failing the snapshot, got %d", g.roster.Len())
	}
	if _, ok := g.roster.Get("e2"); !ok {
		t.Fatalf("known row should survive an unknown sibling")
	}
}
