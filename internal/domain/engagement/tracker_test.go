package engagement

import (
	"reflect"
	"testing"
	"time"
)

func testCatalog() *Catalog {
	return &Catalog{
		Sections: []SectionConfig{
			{
				Key:          "agents",
				ContentID:    "cta-agents-reserve",
				Threshold:    3,
				Interactions: []InteractionType{AgentsCardFlip, AgentsPromptCopy},
			},
			{
				Key:          "day4",
				ContentID:    "cta-day4-reserve",
				Threshold:    2,
				Interactions: []InteractionType{Day4CardFlip, Day4PromptCopy},
			},
		},
	}
}

func TestTrackCountsExact(t *testing.T) {
	tr := NewTracker(testCatalog())

	for i := 0; i < 5; i++ {
		tr.Track(Day4CardFlip)
	}
	tr.Track(AgentsCardFlip)

	if got := tr.Count(Day4CardFlip); got != 5 {
		t.Fatalf("expected 5 day4_card_flip, got %d", got)
	}
	if got := tr.Count(AgentsCardFlip); got != 1 {
		t.Fatalf("expected 1 agents_card_flip, got %d", got)
	}
	if got := tr.Count(Day1CardFlip); got != 0 {
		t.Fatalf("expected 0 for untracked type, got %d", got)
	}
}

func TestTriggerScenario(t *testing.T) {
	tr := NewTracker(testCatalog())

	calls := []InteractionType{AgentsCardFlip, AgentsCardFlip, AgentsCardFlip, AgentsPromptCopy}
	wantKeys := []string{"", "", "agents", ""}

	for i, it := range calls {
		key, triggered := tr.Track(it)
		if key != wantKeys[i] {
			t.Fatalf("call %d: expected key %q, got %q", i+1, wantKeys[i], key)
		}
		if triggered != (wantKeys[i] != "") {
			t.Fatalf("call %d: unexpected triggered=%t", i+1, triggered)
		}
	}

	// Already shown: contributing interactions keep counting but never re-trigger.
	if key, triggered := tr.Track(AgentsCardFlip); triggered {
		t.Fatalf("expected no re-trigger, got %q", key)
	}
	if got := tr.Count(AgentsCardFlip); got != 4 {
		t.Fatalf("expected count to keep rising after trigger, got %d", got)
	}
}

func TestThresholdBoundary(t *testing.T) {
	tr := NewTracker(testCatalog())

	if _, triggered := tr.Track(Day4CardFlip); triggered {
		t.Fatal("one below threshold must not trigger")
	}
	key, triggered := tr.Track(Day4PromptCopy)
	if !triggered || key != "day4" {
		t.Fatalf("count == threshold must trigger, got key=%q triggered=%t", key, triggered)
	}
}

func TestAtMostOneTriggerPerCall(t *testing.T) {
	// Overlapping config: one interaction type contributes to both sections
	// and a single increment crosses both thresholds at once.
	catalog := &Catalog{
		Sections: []SectionConfig{
			{Key: "first", ContentID: "c1", Threshold: 1, Interactions: []InteractionType{ChatMessageSent}},
			{Key: "second", ContentID: "c2", Threshold: 1, Interactions: []InteractionType{ChatMessageSent}},
		},
	}
	tr := NewTracker(catalog)

	key, triggered := tr.Track(ChatMessageSent)
	if !triggered || key != "first" {
		t.Fatalf("expected first declared section to win, got %q", key)
	}

	// The second section qualifies on the next contributing interaction.
	key, triggered = tr.Track(ChatMessageSent)
	if !triggered || key != "second" {
		t.Fatalf("expected second section on next call, got %q triggered=%t", key, triggered)
	}
}

func TestTimeGateSuppressesTriggers(t *testing.T) {
	catalog := testCatalog()
	catalog.GateOpensAt = time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	tr := NewTracker(catalog)
	tr.now = func() time.Time { return catalog.GateOpensAt.Add(-time.Second) }

	for i := 0; i < 4; i++ {
		if key, triggered := tr.Track(AgentsCardFlip); triggered {
			t.Fatalf("gate closed: no trigger expected, got %q", key)
		}
	}
	if got := tr.Count(AgentsCardFlip); got != 4 {
		t.Fatalf("counting must continue behind the gate, got %d", got)
	}

	// At the gate instant the next interaction may trigger.
	tr.now = func() time.Time { return catalog.GateOpensAt }
	key, triggered := tr.Track(AgentsPromptCopy)
	if !triggered || key != "agents" {
		t.Fatalf("gate open: expected trigger, got key=%q triggered=%t", key, triggered)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	tr := NewTracker(testCatalog())
	tr.Track(AgentsCardFlip)

	counts := tr.Counts()
	counts[AgentsCardFlip] = 99
	if got := tr.Count(AgentsCardFlip); got != 1 {
		t.Fatalf("mutating the snapshot must not affect tracker state, got %d", got)
	}

	tr.Track(AgentsCardFlip)
	tr.Track(AgentsCardFlip)
	shown := tr.ShownSections()
	if len(shown) != 1 || shown[0] != "agents" {
		t.Fatalf("expected [agents], got %v", shown)
	}
	shown[0] = "mutated"
	if got := tr.ShownSections(); got[0] != "agents" {
		t.Fatalf("mutating the snapshot must not affect tracker state, got %v", got)
	}
}

func TestResetClearsAndReArms(t *testing.T) {
	tr := NewTracker(testCatalog())
	tr.Track(Day4CardFlip)
	tr.Track(Day4PromptCopy)
	if len(tr.ShownSections()) != 1 {
		t.Fatal("expected day4 to have triggered")
	}

	tr.Reset()
	if len(tr.Counts()) != 0 {
		t.Fatalf("expected empty counts after reset, got %v", tr.Counts())
	}
	if len(tr.ShownSections()) != 0 {
		t.Fatalf("expected empty shown set after reset, got %v", tr.ShownSections())
	}

	tr.Track(Day4CardFlip)
	key, triggered := tr.Track(Day4PromptCopy)
	if !triggered || key != "day4" {
		t.Fatalf("section must be able to trigger again after reset, got %q", key)
	}
}

func TestRestoreMergesPersistedState(t *testing.T) {
	tr := NewTracker(testCatalog())
	tr.Restore(map[InteractionType]int{AgentsCardFlip: 2}, []string{"day4"})

	if got := tr.Count(AgentsCardFlip); got != 2 {
		t.Fatalf("expected restored count 2, got %d", got)
	}
	if key, triggered := tr.Track(Day4CardFlip); triggered {
		t.Fatalf("restored shown section must not re-trigger, got %q", key)
	}

	// The restored counts contribute to thresholds.
	key, triggered := tr.Track(AgentsCardFlip)
	if !triggered || key != "agents" {
		t.Fatalf("expected agents to trigger from restored counts, got %q triggered=%t", key, triggered)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	counts := map[InteractionType]int{AgentsCardFlip: 3, Day4PromptCopy: 1}
	data, err := EncodeCounts(counts)
	if err != nil {
		t.Fatalf("encode counts: %v", err)
	}
	if got := DecodeCounts(data); !reflect.DeepEqual(got, counts) {
		t.Fatalf("count round-trip mismatch: %v != %v", got, counts)
	}

	shown := []string{"agents", "day4"}
	data, err = EncodeShown(shown)
	if err != nil {
		t.Fatalf("encode shown: %v", err)
	}
	if got := DecodeShown(data); !reflect.DeepEqual(got, shown) {
		t.Fatalf("shown round-trip mismatch: %v != %v", got, shown)
	}
}

func TestCodecToleratesCorruptInput(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("{"), []byte(`"nope"`), []byte("[1,2")} {
		if got := DecodeCounts(data); len(got) != 0 {
			t.Fatalf("corrupt counts %q must decode to empty, got %v", data, got)
		}
	}
	for _, data := range [][]byte{nil, []byte(""), []byte("{"), []byte("{}")} {
		if got := DecodeShown(data); len(got) != 0 {
			t.Fatalf("corrupt shown %q must decode to empty, got %v", data, got)
		}
	}

	// Negative persisted counts clamp to zero rather than violating the
	// non-negative invariant.
	got := DecodeCounts([]byte(`{"agents_card_flip":-2}`))
	if got[AgentsCardFlip] != 0 {
		t.Fatalf("negative count must clamp to 0, got %d", got[AgentsCardFlip])
	}
}

func TestDefaultCatalogSingleOwnership(t *testing.T) {
	catalog := DefaultCatalog()
	owner := make(map[InteractionType]string)
	for _, section := range catalog.Sections {
		for _, it := range section.Interactions {
			if prev, dup := owner[it]; dup {
				t.Fatalf("interaction %q contributes to both %q and %q", it, prev, section.Key)
			}
			owner[it] = section.Key
			if !IsKnownType(it) {
				t.Fatalf("section %q references unknown interaction type %q", section.Key, it)
			}
		}
	}
	if !catalog.GateOpen(time.Now()) {
		t.Fatal("shipped catalog must have an open CTA gate")
	}
}
