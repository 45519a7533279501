package main

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Fake mode stands in for the whole server. A scripted simulation streams
// snapshots and gaze sweeps through the same inbox the websocket reader
// would fill, so every reconciliation, HUD and effect path runs without a
// backend or a camera.

const (
	fakeSnapshotHz = 20
	// fakeRunSecs is how long one scripted run lasts before its game over.
	fakeRunSecs = 90.0
)

var (
	fakeTypes    = []string{"slime", "slime", "bat", "golem", "bat"}
	fakeGestures = [][]string{
		{"fist", "open"},
		{"open", "pinch", "fist"},
		{"pinch", "fist"},
	}
)

type fakeEnemy struct {
	id      string
	typeID  string
	idx     int
	x, y    float64
	speed   float64
	hp      int
	maxHP   int
	state   string
	stateAt float64
	hurt    bool
	dead    bool
	hurtX   float64
	dieX    float64
}

type fakeFx struct {
	row   effectRow
	until float64
}

type fakeSim struct {
	loop int
	t    float64

	nextID  int
	nextFx  int
	spawnAt float64
	fxAt    float64
	enemies []*fakeEnemy
	recent  []fakeFx

	gold, score, wave int
	matchedAt         float64
}

func newFakeSim(loop int) *fakeSim {
	return &fakeSim{loop: loop, spawnAt: 1, fxAt: 3, wave: 1, matchedAt: -10}
}

func runFakeMode(ctx context.Context, n *netClient) {
	select {
	case <-ctx.Done():
		return
	case <-gameStarted:
	}
	logDebug("fake mode: streaming scripted snapshots")

	sim := newFakeSim(1)
	tick := time.NewTicker(time.Second / fakeSnapshotHz)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		if over := sim.step(1.0 / fakeSnapshotHz); over != nil {
			n.deliver(over)
			// Let the game-over screen sit for a beat, then run the script
			// again. A fresh id prefix keeps old seen-ids inert.
			select {
			case <-ctx.Done():
				return
			case <-time.After(4 * time.Second):
			}
			sim = newFakeSim(sim.loop + 1)
			continue
		}
		n.deliver(sim.snapshot())
		n.deliver(sim.gaze())
	}
}

// step advances the script by dt seconds. Returns the game over message
// once the run is finished, nil otherwise.
func (s *fakeSim) step(dt float64) *gameOverMsg {
	s.t += dt
	if s.t >= fakeRunSecs {
		return &gameOverMsg{FinalScore: s.score, FinalWave: s.wave}
	}

	if w := 1 + int(s.t/18); w != s.wave {
		s.wave = w
	}
	if s.t >= s.spawnAt {
		s.spawnAt += 2.8
		s.spawn()
	}
	if s.t >= s.fxAt {
		s.fxAt += 2.6
		s.attack()
	}
	if s.t-s.matchedAt > 9 {
		s.matchedAt = s.t
	}

	alive := s.enemies[:0]
	for _, e := range s.enemies {
		if e.dead {
			// Corpses linger long enough for the death pose to read, then
			// drop out of the snapshot so the client reconciles them away.
			if s.t-e.stateAt < 1.8 {
				alive = append(alive, e)
			}
			continue
		}
		e.x -= e.speed * dt
		if e.typeID == "bat" {
			e.y = 0.55 + 0.04*math.Sin(s.t*2+float64(e.idx))
		}
		switch {
		case e.x <= e.dieX:
			e.dead = true
			e.state = "death"
			e.stateAt = s.t
			e.hp = 0
			s.score += 100 + 20*(e.idx%4)
			s.gold += 10 + 5*(e.idx%3)
			s.addFx("coinBurst", e.x)
		case !e.hurt && e.x <= e.hurtX:
			e.hurt = true
			e.state = "hurt"
			e.stateAt = s.t
			e.hp = e.maxHP / 2
		case e.state == "hurt" && s.t-e.stateAt > 0.4:
			e.state = "walk"
		}
		alive = append(alive, e)
	}
	s.enemies = alive

	keep := s.recent[:0]
	for _, fx := range s.recent {
		if s.t < fx.until {
			keep = append(keep, fx)
		}
	}
	s.recent = keep
	return nil
}

func (s *fakeSim) spawn() {
	i := s.nextID
	s.nextID++
	typeID := fakeTypes[i%len(fakeTypes)]
	maxHP := 40 + 20*(i%3)
	y := 0.80
	switch typeID {
	case "bat":
		y = 0.55
	case "golem":
		y = 0.78
		maxHP = 120
	}
	s.enemies = append(s.enemies, &fakeEnemy{
		id:     fmt.Sprintf("e-%d-%d", s.loop, i),
		typeID: typeID,
		idx:    i,
		x:      1.05,
		y:      y,
		speed:  0.045 + 0.02*frac(float64(i)*0.61),
		hp:     maxHP,
		maxHP:  maxHP,
		state:  "walk",
		hurtX:  0.55 + 0.2*frac(float64(i)*0.37),
		dieX:   0.2 + 0.18*frac(float64(i)*0.53),
	})
}

// attack drops a strike effect on the most advanced live enemy.
func (s *fakeSim) attack() {
	var target *fakeEnemy
	for _, e := range s.enemies {
		if e.dead {
			continue
		}
		if target == nil || e.x < target.x {
			target = e
		}
	}
	x := 0.4
	if target != nil {
		x = target.x
	}
	typeID := "fireSlash"
	if s.nextFx%3 == 2 {
		typeID = "iceNova"
	}
	s.addFx(typeID, x)
}

func (s *fakeSim) addFx(typeID string, x float64) {
	id := fmt.Sprintf("fx-%d-%d", s.loop, s.nextFx)
	s.nextFx++
	// Spawns repeat across a few consecutive snapshots, like the real
	// server; the client's seen-id guard makes the repeats harmless.
	s.recent = append(s.recent, fakeFx{
		row:   effectRow{ID: id, Type: typeID, X: x},
		until: s.t + 0.6,
	})
}

func (s *fakeSim) snapshot() *gameStateMsg {
	m := &gameStateMsg{
		Enemies: make([]enemyRow, 0, len(s.enemies)),
		Effects: make([]effectRow, 0, len(s.recent)),
	}
	for _, e := range s.enemies {
		m.Enemies = append(m.Enemies, enemyRow{
			ID:             e.id,
			TypeID:         e.typeID,
			X:              e.x,
			Y:              e.y,
			CurrentHP:      e.hp,
			MaxHP:          e.maxHP,
			AnimationState: e.state,
			IsDead:         e.dead,
		})
	}
	for _, fx := range s.recent {
		m.Effects = append(m.Effects, fx.row)
	}

	// Copies, not field pointers: the message outlives this step.
	hp := 100 - int(s.t*100/fakeRunSecs)
	gold, score, wave := s.gold, s.score, s.wave
	matched := s.t-s.matchedAt < 0.6
	m.PlayerHP = &hp
	m.PlayerGold = &gold
	m.PlayerScore = &score
	m.WaveNumber = &wave
	m.GestureSequence = fakeGestures[(wave-1)%len(fakeGestures)]
	m.GestureMatched = &matched
	return m
}

// gaze sweeps the pointer in a slow Lissajous figure that dwells near the
// screen edges long enough to trip the scroll zones.
func (s *fakeSim) gaze() *gazeMsg {
	return &gazeMsg{
		GazeX: 0.5 + 0.48*math.Sin(s.t*0.5),
		GazeY: 0.55 + 0.2*math.Sin(s.t*0.33+1.1),
	}
}

func frac(v float64) float64 { return v - math.Floor(v) }
