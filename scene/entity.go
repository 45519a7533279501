package scene

import (
	"sort"
	"time"
)

// EnemyState is the authoritative block of an enemy: every field here is
// owned by the server and overwritten wholesale on each snapshot. X is in
// world units, Y in screen units.
type EnemyState struct {
	X, Y      float64
	HP, MaxHP int
	Label     string
	Dead      bool
}

// Enemy is one shadow entity: the latest authoritative block plus the
// client-owned animation clock. The clock is deliberately outside EnemyState
// so snapshot application can never clobber it.
type Enemy struct {
	ID     string
	TypeID string
	EnemyState
	Anim *Anim
}

// EnemyUpdate is one row of a state snapshot, coordinates already
// denormalized by the caller.
type EnemyUpdate struct {
	ID     string
	TypeID string
	X, Y   float64
	HP     int
	MaxHP  int
	Label  string
	Dead   bool
}

// EntityClass is the static metadata the roster needs to animate a type: its
// state table and the state that self-returning states fall back to.
type EntityClass struct {
	States  StateTable
	Default string
}

// Roster is the shadow enemy set, reconciled against each authoritative
// snapshot by id. Classes resolves type metadata; Logf, when set, receives
// warnings (unknown type ids). Both may be left nil in tests.
type Roster struct {
	Classes func(typeID string) (*EntityClass, bool)
	Logf    func(format string, args ...any)

	enemies map[string]*Enemy
	unknown map[string]bool
}

func NewRoster(classes func(string) (*EntityClass, bool)) *Roster {
	return &Roster{
		Classes: classes,
		enemies: make(map[string]*Enemy),
		unknown: make(map[string]bool),
	}
}

// Reconcile makes the shadow set match the snapshot exactly: entities absent
// from updates are dropped, new ids are created with a zeroed clock, and
// surviving ids get their authoritative block overwritten. The clock resets
// only on an actual relabel, detected against the label the previous
// snapshot carried rather than the clock's current state, so a
// label-stable snapshot never disturbs playback even after a
// self-returning state has fallen back on its own. Applying the same
// snapshot twice is a no-op.
func (r *Roster) Reconcile(updates []EnemyUpdate) {
	seen := make(map[string]bool, len(updates))
	for i := range updates {
		seen[updates[i].ID] = true
	}
	for id := range r.enemies {
		if !seen[id] {
			delete(r.enemies, id)
		}
	}

	for i := range updates {
		u := &updates[i]
		e, ok := r.enemies[u.ID]
		if !ok {
			cls := r.class(u.TypeID)
			if cls == nil {
				continue
			}
			e = &Enemy{
				ID:     u.ID,
				TypeID: u.TypeID,
				Anim:   NewAnim(cls.States, u.Label, cls.Default),
			}
			r.enemies[u.ID] = e
		}
		prev := e.Label
		e.EnemyState = EnemyState{
			X: u.X, Y: u.Y,
			HP: u.HP, MaxHP: u.MaxHP,
			Label: u.Label,
			Dead:  u.Dead,
		}
		if ok && u.Label != prev {
			e.Anim.SetState(u.Label)
		}
	}
}

// class resolves type metadata, warning once per unknown type id. A nil
// return means the row should be skipped; a bad type in one row never fails
// the snapshot.
func (r *Roster) class(typeID string) *EntityClass {
	if r.Classes != nil {
		if cls, ok := r.Classes(typeID); ok {
			return cls
		}
	}
	if !r.unknown[typeID] {
		r.unknown[typeID] = true
		if r.Logf != nil {
			r.Logf("unknown enemy type %q in snapshot, skipping", typeID)
		}
	}
	return nil
}

// Advance steps every enemy clock by dt.
func (r *Roster) Advance(dt time.Duration) {
	for _, e := range r.enemies {
		e.Anim.Advance(dt)
	}
}

// All returns the enemies sorted by id. Map iteration order changes every
// pass, which would make overlapping sprites flicker frame to frame; sorting
// keeps the draw order stable.
func (r *Roster) All() []*Enemy {
	out := make([]*Enemy, 0, len(r.enemies))
	for _, e := range r.enemies {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Roster) Get(id string) (*Enemy, bool) {
	e, ok := r.enemies[id]
	return e, ok
}

func (r *Roster) Len() int { return len(r.enemies) }
