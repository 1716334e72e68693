package performance

import "testing"

func TestSummaryAggregatesCompletedMarkers(t *testing.T) {
	tr := NewTracker()

	m1 := tr.StartOperation("post_track_request", "s1")
	m1.Complete()

	m2 := tr.StartOperation("post_track_request", "s2")
	m2.SetSuccess(false)
	m2.Complete()

	// Still in flight, must not be counted.
	tr.StartOperation("admin_login_request", "s3")

	stats := tr.Summary()

	track, ok := stats["post_track_request"]
	if !ok {
		t.Fatal("expected stats for post_track_request")
	}
	if track.Count != 2 {
		t.Errorf("Count = %d, want 2", track.Count)
	}
	if track.Failures != 1 {
		t.Errorf("Failures = %d, want 1", track.Failures)
	}
	if track.MaxDuration < m1.Duration && track.MaxDuration < m2.Duration {
		t.Errorf("MaxDuration = %v, want at least one marker's duration", track.MaxDuration)
	}

	if _, ok := stats["admin_login_request"]; ok {
		t.Error("incomplete markers must not appear in the summary")
	}
}

func TestSetErrorMarksFailure(t *testing.T) {
	tr := NewTracker()
	m := tr.StartOperation("post_state_request", "s1")
	m.SetError(errFake{})
	m.Complete()

	stats := tr.Summary()
	if stats["post_state_request"].Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats["post_state_request"].Failures)
	}
	if m.Error == "" {
		t.Error("expected error message on marker")
	}
}

type errFake struct{}

func (errFake) Error() string { return "boom" }
