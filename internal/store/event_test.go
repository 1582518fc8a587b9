package store

import "testing"

func TestEventRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	records := []*EventRecord{
		{SessionID: "a", Kind: "fist-trigger", Pose: "fist", Hand: "Right", TimestampMs: 0, Confidence: 0.6},
		{SessionID: "a", Kind: "pinch-trigger", Pose: "pinch", Hand: "Right", TimestampMs: 400, Confidence: 0.9},
		{SessionID: "a", Kind: "pinch-trigger", Pose: "pinch", Hand: "Right", TimestampMs: 800, Confidence: 0.9},
		{SessionID: "b", Kind: "fist-trigger", Pose: "fist", Hand: "Left", TimestampMs: 100, Confidence: 0.7},
	}
	for _, r := range records {
		if err := repo.Append(r); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
		if r.ID == 0 {
			t.Error("expected ID to be set")
		}
	}

	t.Run("ListBySession", func(t *testing.T) {
		got, err := repo.ListBySession("a", 0)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d", len(got))
		}
		if got[0].Kind != "fist-trigger" || got[2].TimestampMs != 800 {
			t.Errorf("unexpected order: %+v", got)
		}

		limited, err := repo.ListBySession("a", 2)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 events, got %d", len(limited))
		}
	})

	t.Run("CountByKind", func(t *testing.T) {
		counts, err := repo.CountByKind("a")
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if counts["pinch-trigger"] != 2 || counts["fist-trigger"] != 1 {
			t.Errorf("unexpected counts: %v", counts)
		}
	})

	t.Run("Sessions", func(t *testing.T) {
		sessions, err := repo.Sessions()
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(sessions) != 2 || sessions[0] != "b" {
			t.Errorf("unexpected sessions: %v", sessions)
		}
	})
}
