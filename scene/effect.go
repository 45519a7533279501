package scene

import (
	"sort"
	"time"
)

// Effect is one ephemeral visual: spawned at a fixed position, plays its
// single animation state once, then gets swept. The server never updates or
// removes effects; their whole lifecycle is client-local.
type Effect struct {
	ID     string
	TypeID string
	X, Y   float64
	Anim   *Anim
}

// EffectClass is the static metadata for an effect type: one non-looping
// animation state.
type EffectClass struct {
	State StateDef
}

// EffectSet owns the live effects and the at-most-once spawn guard. An id
// stays in the seen set after its effect is swept, so a snapshot that still
// carries a finished effect cannot respawn it.
type EffectSet struct {
	Classes func(typeID string) (*EffectClass, bool)
	Logf    func(format string, args ...any)

	effects map[string]*Effect
	seen    map[string]bool
	unknown map[string]bool
}

func NewEffectSet(classes func(string) (*EffectClass, bool)) *EffectSet {
	return &EffectSet{
		Classes: classes,
		effects: make(map[string]*Effect),
		seen:    make(map[string]bool),
		unknown: make(map[string]bool),
	}
}

// SpawnIfNew creates the effect unless its id was ever seen before. Returns
// true only on an actual spawn, which is the caller's cue to play the
// effect's sound exactly once. Unknown types are skipped with a one-time
// warning.
func (s *EffectSet) SpawnIfNew(id, typeID string, x, y float64) bool {
	if s.seen[id] {
		return false
	}
	var cls *EffectClass
	if s.Classes != nil {
		if c, ok := s.Classes(typeID); ok {
			cls = c
		}
	}
	if cls == nil {
		if !s.unknown[typeID] {
			s.unknown[typeID] = true
			if s.Logf != nil {
				s.Logf("unknown effect type %q in snapshot, skipping", typeID)
			}
		}
		return false
	}
	s.seen[id] = true
	def := cls.State
	def.Playback = PlaybackHold
	s.effects[id] = &Effect{
		ID:     id,
		TypeID: typeID,
		X:      x,
		Y:      y,
		Anim:   NewAnim(StateTable{"play": def}, "play", "play"),
	}
	return true
}

// Advance steps every effect clock by dt.
func (s *EffectSet) Advance(dt time.Duration) {
	for _, e := range s.effects {
		e.Anim.Advance(dt)
	}
}

// Sweep drops effects whose clocks have finished. Runs at the top of the
// tick after the one that finished them, so the terminal pose is drawn once
// before removal.
func (s *EffectSet) Sweep() {
	for id, e := range s.effects {
		if e.Anim.Finished() {
			delete(s.effects, id)
		}
	}
}

// All returns live effects sorted by id for a stable draw order.
func (s *EffectSet) All() []*Effect {
	out := make([]*Effect, 0, len(s.effects))
	for _, e := range s.effects {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *EffectSet) Len() int { return len(s.effects) }
