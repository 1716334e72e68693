package stores

import (
	"testing"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/engagement"
)

func TestGetOrCreateReportsCreation(t *testing.T) {
	store := NewSessionsStore(nil)
	catalog := engagement.DefaultCatalog()

	state, created := store.GetOrCreate("s1", catalog)
	if !created {
		t.Fatal("first access must report creation")
	}
	if state.Tracker == nil {
		t.Fatal("created state must carry a tracker")
	}

	again, created := store.GetOrCreate("s1", catalog)
	if created {
		t.Error("second access must not report creation")
	}
	if again != state {
		t.Error("second access must return the same state object")
	}
}

func TestSweepIdleEvictsOnlyStale(t *testing.T) {
	store := NewSessionsStore(nil)
	catalog := engagement.DefaultCatalog()

	stale, _ := store.GetOrCreate("stale", catalog)
	stale.LastActive = time.Now().UTC().Add(-2 * time.Hour)
	store.GetOrCreate("fresh", catalog)

	evicted := store.SweepIdle(time.Hour)
	if len(evicted) != 1 || evicted[0] != "stale" {
		t.Fatalf("evicted = %v, want [stale]", evicted)
	}
	if store.Count() != 1 {
		t.Errorf("Count = %d, want 1", store.Count())
	}
	if _, found := store.Get("fresh"); !found {
		t.Error("fresh session must survive the sweep")
	}
}

func TestSummariesOrderedByActivity(t *testing.T) {
	store := NewSessionsStore(nil)
	catalog := engagement.DefaultCatalog()

	older, _ := store.GetOrCreate("older", catalog)
	older.LastActive = time.Now().UTC().Add(-time.Minute)
	store.GetOrCreate("newer", catalog)

	summaries := store.Summaries()
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(summaries))
	}
	if summaries[0].SessionID != "newer" {
		t.Errorf("first summary = %q, want most recently active", summaries[0].SessionID)
	}
}

func TestSetAdminFlagsSession(t *testing.T) {
	store := NewSessionsStore(nil)
	store.GetOrCreate("s1", engagement.DefaultCatalog())

	store.SetAdmin("s1", true)
	state, _ := store.Get("s1")
	if !state.IsAdmin {
		t.Error("session must be flagged admin")
	}

	// Flagging an unknown session is a no-op.
	store.SetAdmin("ghost", true)
	if store.Count() != 1 {
		t.Errorf("Count = %d, want 1", store.Count())
	}
}
