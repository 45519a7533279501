package scene

import (
	"testing"
	"time"
)

func testClasses(typeID string) (*EntityClass, bool) {
	switch typeID {
	case "slime", "bat":
		return &EntityClass{States: testTable(), Default: "walk"}, true
	}
	return nil, false
}

func update(id string, label string) EnemyUpdate {
	return EnemyUpdate{
		ID: id, TypeID: "slime",
		X: 100, Y: 200,
		HP: 40, MaxHP: 50,
		Label: label,
	}
}

func TestReconcileCreates(t *testing.T) {
	r := NewRoster(testClasses)
	r.Reconcile([]EnemyUpdate{update("e1", "walk")})

	e, ok := r.Get("e1")
	if !ok {
		t.Fatalf("e1 not created")
	}
	if e.TypeID != "slime" || e.X != 100 || e.Y != 200 || e.HP != 40 || e.MaxHP != 50 {
		t.Fatalf("authoritative fields wrong: %+v", e)
	}
	if e.Anim.State() != "walk" || e.Anim.Frame() != 0 {
		t.Fatalf("new entity clock not zeroed: state=%q frame=%d", e.Anim.State(), e.Anim.Frame())
	}
}

func TestReconcileDeletesAbsent(t *testing.T) {
	r := NewRoster(testClasses)
	r.Reconcile([]EnemyUpdate{update("A", "walk"), update("B", "walk"), update("C", "walk")})
	if r.Len() != 3 {
		t.Fatalf("setup: len = %d, want 3", r.Len())
	}

	r.Reconcile([]EnemyUpdate{update("A", "walk"), update("C", "walk")})
	if r.Len() != 2 {
		t.Fatalf("len = %d, want 2", r.Len())
	}
	if _, ok := r.Get("B"); ok {
		t.Fatalf("B still present after absence from snapshot")
	}
	for _, id := range []string{"A", "C"} {
		if _, ok := r.Get(id); !ok {
			t.Fatalf("%s missing", id)
		}
	}
}

func TestReconcileIdempotent(t *testing.T) {
	r := NewRoster(testClasses)
	snap := []EnemyUpdate{update("e1", "walk"), update("e2", "hurt")}
	r.Reconcile(snap)
	r.Advance(250 * time.Millisecond)

	e1, _ := r.Get("e1")
	frameBefore := e1.Anim.Frame()

	r.Reconcile(snap)
	r.Reconcile(snap)

	if r.Len() != 2 {
		t.Fatalf("len = %d after reapplying snapshot, want 2", r.Len())
	}
	e1b, _ := r.Get("e1")
	if e1b != e1 {
		t.Fatalf("entity recreated instead of updated")
	}
	if got := e1b.Anim.Frame(); got != frameBefore {
		t.Fatalf("frame = %d after reapplying identical snapshot, want %d", got, frameBefore)
	}
}

func TestReconcileClockResetOnlyOnLabelChange(t *testing.T) {
	r := NewRoster(testClasses)
	r.Reconcile([]EnemyUpdate{update("e1", "walk")})
	r.Advance(250 * time.Millisecond)

	e, _ := r.Get("e1")
	if e.Anim.Frame() != 2 {
		t.Fatalf("setup: frame = %d, want 2", e.Anim.Frame())
	}

	// Same label: clock untouched.
	r.Reconcile([]EnemyUpdate{update("e1", "walk")})
	if got := e.Anim.Frame(); got != 2 {
		t.Fatalf("label-stable reconcile moved frame to %d", got)
	}

	// New label: clock resets.
	r.Reconcile([]EnemyUpdate{update("e1", "hurt")})
	if e.Anim.State() != "hurt" || e.Anim.Frame() != 0 {
		t.Fatalf("after relabel: state=%q frame=%d, want hurt/0", e.Anim.State(), e.Anim.Frame())
	}
}

func TestReconcileRepeatedLabelAfterSelfReturn(t *testing.T) {
	r := NewRoster(testClasses)
	r.Reconcile([]EnemyUpdate{update("e1", "hurt")})

	// hurt (3 frames, self-returning) runs out and falls back to walk,
	// which then advances on its own.
	r.Advance(400 * time.Millisecond)
	r.Advance(250 * time.Millisecond)
	e, _ := r.Get("e1")
	if e.Anim.State() != "walk" || e.Anim.Frame() != 2 {
		t.Fatalf("setup: want walk/2 after self-return, got %q/%d", e.Anim.State(), e.Anim.Frame())
	}

	// The server keeps sending the same label it has all along; that is
	// not a relabel and must not replay the flinch.
	r.Reconcile([]EnemyUpdate{update("e1", "hurt")})
	if e.Anim.State() != "walk" || e.Anim.Frame() != 2 {
		t.Fatalf("repeated label replayed the flinch: %q/%d", e.Anim.State(), e.Anim.Frame())
	}

	// An actual relabel still resets the clock, whatever state it is in.
	r.Reconcile([]EnemyUpdate{update("e1", "walk")})
	if e.Anim.State() != "walk" || e.Anim.Frame() != 0 {
		t.Fatalf("relabel did not reset the clock: %q/%d", e.Anim.State(), e.Anim.Frame())
	}
}

func TestReconcileSkipsUnknownType(t *testing.T) {
	r := NewRoster(testClasses)
	var warnings int
	r.Logf = func(string, ...any) { warnings++ }

	bad := EnemyUpdate{ID: "g1", TypeID: "ghost", Label: "walk"}
	r.Reconcile([]EnemyUpdate{bad, update("e1", "walk")})

	if _, ok := r.Get("g1"); ok {
		t.Fatalf("entity with unknown type was created")
	}
	if _, ok := r.Get("e1"); !ok {
		t.Fatalf("valid row rejected because another row had an unknown type")
	}
	r.Reconcile([]EnemyUpdate{bad})
	if warnings != 1 {
		t.Fatalf("warnings = %d, want one per unknown type", warnings)
	}
}

func TestReconcileOverwritesAuthoritativeFields(t *testing.T) {
	r := NewRoster(testClasses)
	r.Reconcile([]EnemyUpdate{update("e1", "walk")})

	u := update("e1", "walk")
	u.X, u.Y = 900, 450
	u.HP = 5
	u.Dead = true
	r.Reconcile([]EnemyUpdate{u})

	e, _ := r.Get("e1")
	if e.X != 900 || e.Y != 450 || e.HP != 5 || !e.Dead {
		t.Fatalf("authoritative fields not overwritten: %+v", e.EnemyState)
	}
}

func TestRosterAllSortedByID(t *testing.T) {
	r := NewRoster(testClasses)
	r.Reconcile([]EnemyUpdate{update("c", "walk"), update("a", "walk"), update("b", "walk")})
	all := r.All()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ID != want {
			t.Fatalf("All()[%d] = %s, want %s", i, all[i].ID, want)
		}
	}
}
