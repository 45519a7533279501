package main

import (
	"strings"
	"testing"
)

func TestFakeSimEndsInGameOver(t *testing.T) {
	sim := newFakeSim(1)
	const dt = 1.0 / fakeSnapshotHz

	var over *gameOverMsg
	for steps := 0; over == nil && steps < 2*fakeSnapshotHz*int(fakeRunSecs); steps++ {
		over = sim.step(dt)
	}
	if over == nil {
		t.Fatalf("script should end in a game over")
	}
	if over.FinalScore <= 0 {
		t.Fatalf("script should have scored kills, got %d", over.FinalScore)
	}
	if over.FinalWave < 2 {
		t.Fatalf("script should have reached at least wave 2, got %d", over.FinalWave)
	}
}

func TestFakeSnapshotShape(t *testing.T) {
	sim := newFakeSim(2)
	const dt = 1.0 / fakeSnapshotHz
	for i := 0; i < 5*fakeSnapshotHz; i++ {
		if sim.step(dt) != nil {
			t.Fatalf("premature game over at %v", sim.t)
		}
	}

	m := sim.snapshot()
	if len(m.Enemies) == 0 {
		t.Fatalf("script should have spawned enemies by 5s")
	}
	for _, e := range m.Enemies {
		if !strings.HasPrefix(e.ID, "e-2-") {
			t.Fatalf("enemy ids must carry the loop prefix, got %q", e.ID)
		}
		switch e.TypeID {
		case "slime", "bat", "golem":
		default:
			t.Fatalf("unknown enemy type %q in fake snapshot", e.TypeID)
		}
		if e.X < -0.2 || e.X > 1.2 {
			t.Fatalf("enemy x out of range: %v", e.X)
		}
	}
	if m.PlayerHP == nil || m.PlayerGold == nil || m.PlayerScore == nil || m.WaveNumber == nil {
		t.Fatalf("fake snapshots always carry the hud fields")
	}
	if len(m.GestureSequence) == 0 {
		t.Fatalf("fake snapshots always carry a gesture sequence")
	}
}

func TestFakeGazeStaysNormalized(t *testing.T) {
	sim := newFakeSim(1)
	const dt = 1.0 / fakeSnapshotHz
	for i := 0; i < 30*fakeSnapshotHz; i++ {
		sim.step(dt)
		g := sim.gaze()
		if g.GazeX < 0 || g.GazeX > 1 || g.GazeY < 0 || g.GazeY > 1 {
			t.Fatalf("gaze out of [0,1] at t=%v: (%v,%v)", sim.t, g.GazeX, g.GazeY)
		}
	}
}
