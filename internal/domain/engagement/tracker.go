package engagement

import (
	"sync"
	"time"
)

// Tracker owns the per-session interaction counts and the set of sections
// whose prompt has already fired. It is constructed explicitly at session
// start and carries no package-level state.
//
// Counts are monotonically non-decreasing within a session; a section key
// enters the shown set exactly once and only Reset removes it.
type Tracker struct {
	mu       sync.RWMutex
	catalog  *Catalog
	counts   map[InteractionType]int
	shown    []string
	shownSet map[string]bool
	now      func() time.Time
}

// NewTracker creates an empty tracker bound to a section catalog.
func NewTracker(catalog *Catalog) *Tracker {
	return &Tracker{
		catalog:  catalog,
		counts:   make(map[InteractionType]int),
		shownSet: make(map[string]bool),
		now:      time.Now,
	}
}

// Track records one occurrence of the interaction type and evaluates section
// thresholds. It returns the key of the first section that newly qualifies,
// or ("", false) when no section triggers. At most one section triggers per
// call, and a given section triggers at most once per session.
func (t *Tracker) Track(it InteractionType) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[it]++

	if !t.catalog.GateOpen(t.now()) {
		return "", false
	}

	for _, section := range t.catalog.Sections {
		if t.shownSet[section.Key] {
			continue
		}
		sum := 0
		for _, contributing := range section.Interactions {
			sum += t.counts[contributing]
		}
		if sum >= section.Threshold {
			t.shownSet[section.Key] = true
			t.shown = append(t.shown, section.Key)
			return section.Key, true
		}
	}

	return "", false
}

// Count returns the current count for a single interaction type.
func (t *Tracker) Count(it InteractionType) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[it]
}

// Counts returns a snapshot copy of the count map. Mutating the returned map
// does not affect tracker state.
func (t *Tracker) Counts() map[InteractionType]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(map[InteractionType]int, len(t.counts))
	for it, n := range t.counts {
		snapshot[it] = n
	}
	return snapshot
}

// ShownSections returns the section keys that have triggered, in trigger order.
func (t *Tracker) ShownSections() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make([]string, len(t.shown))
	copy(snapshot, t.shown)
	return snapshot
}

// Reset clears the count map and the shown set. A previously-triggered
// section may trigger again after reset.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts = make(map[InteractionType]int)
	t.shown = nil
	t.shownSet = make(map[string]bool)
}

// Restore merges persisted state into the tracker. It is used once per
// session on the read-merge-on-init path; persisted counts replace in-memory
// counts for their keys and shown sections are appended in persisted order.
func (t *Tracker) Restore(counts map[InteractionType]int, shown []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for it, n := range counts {
		if n > 0 {
			t.counts[it] = n
		}
	}
	for _, key := range shown {
		if !t.shownSet[key] {
			t.shownSet[key] = true
			t.shown = append(t.shown, key)
		}
	}
}
