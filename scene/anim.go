package scene

import "time"

// Playback selects what an animation state does when it runs off its last
// frame.
type Playback int

const (
	// PlaybackLoop wraps back to frame zero.
	PlaybackLoop Playback = iota
	// PlaybackHold clamps on the final frame and stops the clock. Death
	// poses and one-shot effects use this.
	PlaybackHold
	// PlaybackReturn switches to the owner's fallback state with a fresh
	// clock. Hurt flinches use this to drop back into walking.
	PlaybackReturn
)

// StateDef describes one animation state of a sprite sheet. Reverse marks
// sheets whose frames are authored last-to-first; the clock still counts
// forward and SourceFrame mirrors the index at draw time.
type StateDef struct {
	Frames    int
	FrameTime time.Duration
	Playback  Playback
	Reverse   bool
}

// StateTable maps animation-state labels to their definitions.
type StateTable map[string]StateDef

// Anim is a per-entity animation clock: current state label, frame index and
// time accumulated toward the next frame step. The server only relabels
// states; the clock itself free-runs on local time.
type Anim struct {
	table    StateTable
	fallback string
	state    string
	frame    int
	elapsed  time.Duration
	finished bool
}

// NewAnim builds a clock over table starting in the initial state. fallback
// is where PlaybackReturn states land when they complete.
func NewAnim(table StateTable, initial, fallback string) *Anim {
	return &Anim{table: table, fallback: fallback, state: initial}
}

// def resolves the current state, padding unknown or degenerate entries to a
// single-frame hold so a bad manifest row can never wedge the clock.
func (a *Anim) def() StateDef {
	d, ok := a.table[a.state]
	if !ok || d.Frames < 1 || d.FrameTime <= 0 {
		return StateDef{Frames: 1, FrameTime: time.Hour, Playback: PlaybackHold}
	}
	return d
}

// Advance accumulates dt and steps frames. Looping states wrap, hold states
// clamp on their last frame and mark the clock finished, returning states
// switch to the fallback state with a zeroed clock.
func (a *Anim) Advance(dt time.Duration) {
	if dt <= 0 || a.finished {
		return
	}
	d := a.def()
	a.elapsed += dt
	for a.elapsed >= d.FrameTime {
		a.elapsed -= d.FrameTime
		a.frame++
		if a.frame < d.Frames {
			continue
		}
		switch d.Playback {
		case PlaybackLoop:
			a.frame = 0
		case PlaybackHold:
			a.frame = d.Frames - 1
			a.elapsed = 0
			a.finished = true
			return
		case PlaybackReturn:
			a.SetState(a.fallback)
			return
		}
	}
}

// SetState switches to a new state and zeroes frame and elapsed time.
// Unconditional: callers that want to preserve a running clock check the
// label before calling.
func (a *Anim) SetState(label string) {
	a.state = label
	a.frame = 0
	a.elapsed = 0
	a.finished = false
}

// SourceFrame is the sheet column to draw: the logical frame index, mirrored
// for reverse-authored sheets.
func (a *Anim) SourceFrame() int {
	d := a.def()
	if d.Reverse {
		return d.Frames - 1 - a.frame
	}
	return a.frame
}

func (a *Anim) State() string  { return a.state }
func (a *Anim) Frame() int     { return a.frame }
func (a *Anim) Finished() bool { return a.finished }
