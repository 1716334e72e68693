package services

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/domain/events"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/manager"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	sessionstore "github.com/lumenlearn/engage-go/internal/infrastructure/persistence/session"
)

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError + 4,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		t.Fatalf("NewChanneledLogger: %v", err)
	}
	return logger
}

// fakeStateStore is an in-memory StateStore with a switchable failure mode.
type fakeStateStore struct {
	mu       sync.Mutex
	docs     map[string]map[string][]byte
	failSave bool
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{docs: make(map[string]map[string][]byte)}
}

func (f *fakeStateStore) Load(sessionID, stateKey string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[sessionID][stateKey], nil
}

func (f *fakeStateStore) Save(sessionID, stateKey string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("disk full")
	}
	if f.docs[sessionID] == nil {
		f.docs[sessionID] = make(map[string][]byte)
	}
	f.docs[sessionID][stateKey] = payload
	return nil
}

func (f *fakeStateStore) Delete(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, sessionID)
	return nil
}

func (f *fakeStateStore) get(sessionID, stateKey string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[sessionID][stateKey]
}

func (f *fakeStateStore) seed(sessionID, stateKey string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs[sessionID] == nil {
		f.docs[sessionID] = make(map[string][]byte)
	}
	f.docs[sessionID][stateKey] = payload
}

// fakeEventSink discards analytics events; the service emits them on
// goroutines so tests only assert on the synchronous surface.
type fakeEventSink struct{}

func (fakeEventSink) StoreInteractionEvent(*events.InteractionEvent) error { return nil }
func (fakeEventSink) StoreTriggerEvent(*events.TriggerEvent) error         { return nil }
func (fakeEventSink) StoreCTAClickEvent(*events.CTAClickEvent) error       { return nil }

func newTestTrackerService(t *testing.T, store StateStore) *TrackerService {
	t.Helper()
	logger := quietLogger(t)
	analytics := NewAnalyticsService(fakeEventSink{}, logger)
	return NewTrackerService(manager.NewManager(logger), store, analytics, engagement.DefaultCatalog(), logger)
}

func TestTrackRejectsUnknownType(t *testing.T) {
	svc := newTestTrackerService(t, newFakeStateStore())

	if _, err := svc.Track("s1", "page_scroll"); err == nil {
		t.Fatal("expected error for unknown interaction type")
	}
}

func TestTrackIncrementsAndPersistsCounts(t *testing.T) {
	store := newFakeStateStore()
	svc := newTestTrackerService(t, store)

	result, err := svc.Track("s1", engagement.Day1CardFlip)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if result.NewCount != 1 {
		t.Errorf("NewCount = %d, want 1", result.NewCount)
	}
	if result.Triggered {
		t.Error("first interaction should not trigger")
	}

	counts := engagement.DecodeCounts(store.get("s1", sessionstore.KeyInteractionCounts))
	if counts[engagement.Day1CardFlip] != 1 {
		t.Errorf("persisted count = %d, want 1", counts[engagement.Day1CardFlip])
	}
}

func TestTrackTriggerResolvesSectionAndPersistsShown(t *testing.T) {
	store := newFakeStateStore()
	svc := newTestTrackerService(t, store)

	svc.Track("s1", engagement.AgentsCardFlip)
	svc.Track("s1", engagement.AgentsPromptCopy)
	result, err := svc.Track("s1", engagement.AgentsCardFlip)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if !result.Triggered {
		t.Fatal("third agents interaction should trigger")
	}
	if result.SectionKey != "agents" {
		t.Errorf("SectionKey = %q, want %q", result.SectionKey, "agents")
	}
	if result.ContentID != "cta-agents-reserve" {
		t.Errorf("ContentID = %q, want %q", result.ContentID, "cta-agents-reserve")
	}

	shown := engagement.DecodeShown(store.get("s1", sessionstore.KeyShownSections))
	if len(shown) != 1 || shown[0] != "agents" {
		t.Errorf("persisted shown = %v, want [agents]", shown)
	}
}

func TestHydrateRestoresPersistedState(t *testing.T) {
	store := newFakeStateStore()
	countsPayload, err := engagement.EncodeCounts(map[engagement.InteractionType]int{
		engagement.AgentsCardFlip: 2,
	})
	if err != nil {
		t.Fatalf("EncodeCounts: %v", err)
	}
	store.seed("returning", sessionstore.KeyInteractionCounts, countsPayload)

	svc := newTestTrackerService(t, store)

	result, err := svc.Track("returning", engagement.AgentsPromptCopy)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if !result.Triggered {
		t.Error("restored counts plus one interaction should cross the agents threshold")
	}
}

func TestHydrateShownSetSuppressesReTrigger(t *testing.T) {
	store := newFakeStateStore()
	shownPayload, err := engagement.EncodeShown([]string{"agents"})
	if err != nil {
		t.Fatalf("EncodeShown: %v", err)
	}
	store.seed("returning", sessionstore.KeyShownSections, shownPayload)

	svc := newTestTrackerService(t, store)

	for i := 0; i < 5; i++ {
		result, err := svc.Track("returning", engagement.AgentsCardFlip)
		if err != nil {
			t.Fatalf("Track: %v", err)
		}
		if result.Triggered {
			t.Fatal("already-shown section must not re-trigger after hydration")
		}
	}
}

func TestTrackSurvivesPersistenceFailure(t *testing.T) {
	store := newFakeStateStore()
	store.failSave = true
	svc := newTestTrackerService(t, store)

	result, err := svc.Track("s1", engagement.Day2CardFlip)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if result.NewCount != 1 {
		t.Errorf("NewCount = %d, want 1", result.NewCount)
	}

	result, err = svc.Track("s1", engagement.Day2CardFlip)
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if result.NewCount != 2 {
		t.Errorf("in-memory state must stay authoritative, NewCount = %d, want 2", result.NewCount)
	}
}

func TestResetClearsStateAndPersists(t *testing.T) {
	store := newFakeStateStore()
	svc := newTestTrackerService(t, store)

	svc.Track("s1", engagement.AgentsCardFlip)
	svc.Track("s1", engagement.AgentsCardFlip)
	svc.Track("s1", engagement.AgentsCardFlip)

	svc.Reset("s1")

	snapshot := svc.Snapshot("s1")
	if len(snapshot.Counts) != 0 {
		t.Errorf("counts after reset = %v, want empty", snapshot.Counts)
	}
	if len(snapshot.ShownSections) != 0 {
		t.Errorf("shown sections after reset = %v, want empty", snapshot.ShownSections)
	}

	counts := engagement.DecodeCounts(store.get("s1", sessionstore.KeyInteractionCounts))
	if len(counts) != 0 {
		t.Errorf("persisted counts after reset = %v, want empty", counts)
	}
}

// blockingStateStore stalls the first Load so a test can interleave a second
// request while hydration is still in flight.
type blockingStateStore struct {
	*fakeStateStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingStateStore() *blockingStateStore {
	return &blockingStateStore{
		fakeStateStore: newFakeStateStore(),
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (b *blockingStateStore) Load(sessionID, stateKey string) ([]byte, error) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.fakeStateStore.Load(sessionID, stateKey)
}

func TestConcurrentFirstAccessWaitsForHydration(t *testing.T) {
	store := newBlockingStateStore()
	payload, err := engagement.EncodeCounts(map[engagement.InteractionType]int{
		engagement.ChatMessageSent: 3,
	})
	if err != nil {
		t.Fatalf("EncodeCounts: %v", err)
	}
	store.seed("returning", sessionstore.KeyInteractionCounts, payload)

	svc := newTestTrackerService(t, store)

	first := make(chan struct{})
	go func() {
		defer close(first)
		if _, err := svc.Track("returning", engagement.ChatMessageSent); err != nil {
			t.Errorf("Track: %v", err)
		}
	}()
	<-store.entered

	// A second request lands on the same brand-new session while the first
	// is still loading persisted state. It must wait for the merge instead
	// of mutating and persisting an un-hydrated tracker.
	second := make(chan struct{})
	go func() {
		defer close(second)
		if _, err := svc.Track("returning", engagement.ChatMessageSent); err != nil {
			t.Errorf("Track: %v", err)
		}
	}()

	select {
	case <-second:
		t.Fatal("second request completed before hydration finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	<-first
	<-second

	snapshot := svc.Snapshot("returning")
	if got := snapshot.Counts[engagement.ChatMessageSent]; got != 5 {
		t.Errorf("count after concurrent first access = %d, want 5", got)
	}

	// The two post-hydration persists may land in either order, but both
	// snapshots carry the restored history.
	persisted := engagement.DecodeCounts(store.get("returning", sessionstore.KeyInteractionCounts))
	if got := persisted[engagement.ChatMessageSent]; got < 4 {
		t.Errorf("persisted count = %d, restored history must survive", got)
	}
}

func TestSnapshotReflectsTrackedState(t *testing.T) {
	svc := newTestTrackerService(t, newFakeStateStore())

	svc.Track("s1", engagement.Day3CardFlip)
	svc.Track("s1", engagement.Day3PromptCopy)

	snapshot := svc.Snapshot("s1")
	if snapshot.Counts[engagement.Day3CardFlip] != 1 {
		t.Errorf("Day3CardFlip count = %d, want 1", snapshot.Counts[engagement.Day3CardFlip])
	}
	if snapshot.Counts[engagement.Day3PromptCopy] != 1 {
		t.Errorf("Day3PromptCopy count = %d, want 1", snapshot.Counts[engagement.Day3PromptCopy])
	}
}
