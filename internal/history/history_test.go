package history

import (
	"testing"
)

func TestRecordAndList(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Record(KindSummary, "## Summary\n- things are fine", 12); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	insights, err := s.List("", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}
	if insights[0].Kind != KindSummary {
		t.Errorf("expected kind %q, got %q", KindSummary, insights[0].Kind)
	}
	if insights[0].RecordCount != 12 {
		t.Errorf("expected record count 12, got %d", insights[0].RecordCount)
	}
	if insights[0].ID == 0 {
		t.Error("expected non-zero ID after create")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := setupTestStore(t)

	for _, content := range []string{"first", "second", "third"} {
		if err := s.Record(KindActions, content, 1); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	insights, err := s.List("", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(insights) != 3 {
		t.Fatalf("expected 3 insights, got %d", len(insights))
	}
	if insights[0].Content != "third" {
		t.Errorf("expected newest first, got %q", insights[0].Content)
	}
}

func TestListFilterByKind(t *testing.T) {
	s := setupTestStore(t)

	s.Record(KindSummary, "a summary", 5)
	s.Record(KindActions, "an action list", 5)

	insights, err := s.List(KindSummary, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(insights) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(insights))
	}
	if insights[0].Content != "a summary" {
		t.Errorf("expected summary content, got %q", insights[0].Content)
	}
}

func TestListLimit(t *testing.T) {
	s := setupTestStore(t)

	for i := 0; i < 5; i++ {
		s.Record(KindSummary, "s", 1)
	}

	insights, err := s.List("", 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(insights) != 2 {
		t.Errorf("expected 2 insights with limit, got %d", len(insights))
	}
}

func TestLatest(t *testing.T) {
	s := setupTestStore(t)

	if ins, err := s.Latest(KindSummary); err != nil || ins != nil {
		t.Fatalf("expected nil insight and nil error for empty store, got %v, %v", ins, err)
	}

	s.Record(KindSummary, "old", 1)
	s.Record(KindSummary, "new", 2)

	ins, err := s.Latest(KindSummary)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if ins == nil || ins.Content != "new" {
		t.Errorf("expected latest content 'new', got %+v", ins)
	}
}
