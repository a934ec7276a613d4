package session

import (
	"testing"
	"time"
)

func TestGetOrCreateAssignsID(t *testing.T) {
	s := NewMemoryStore(time.Hour, 10)
	sess := s.GetOrCreate("")
	if sess.ID == "" {
		t.Fatal("new session has empty id")
	}
	again := s.GetOrCreate(sess.ID)
	if again.ID != sess.ID {
		t.Errorf("lookup returned different id: %s vs %s", again.ID, sess.ID)
	}
}

func TestAppendAndHistory(t *testing.T) {
	s := NewMemoryStore(time.Hour, 10)
	sess := s.GetOrCreate("")
	s.Append(sess.ID, ChatMessage{Role: RoleUser, Content: "do you ship to Spain?"})
	s.Append(sess.ID, ChatMessage{Role: RoleAssistant, Content: "yes, within 5 days"})
	s.Append(sess.ID, ChatMessage{Role: RoleUser, Content: "how much?"})

	all := s.History(sess.ID, 0)
	if len(all) != 3 {
		t.Fatalf("history length = %d, want 3", len(all))
	}
	if all[0].Content != "do you ship to Spain?" || all[2].Content != "how much?" {
		t.Errorf("history out of order: %+v", all)
	}
	if all[0].Timestamp.IsZero() {
		t.Error("append did not stamp the message")
	}

	last := s.History(sess.ID, 2)
	if len(last) != 2 || last[0].Content != "yes, within 5 days" {
		t.Errorf("limited history = %+v", last)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	s := NewMemoryStore(time.Hour, 10)
	if got := s.History("nope", 0); got != nil {
		t.Errorf("unknown session history = %v, want nil", got)
	}
}

func TestSetAttributes(t *testing.T) {
	s := NewMemoryStore(time.Hour, 10)
	sess := s.GetOrCreate("")
	s.SetAttributes(sess.ID, map[string]string{"page_type": "product"})
	s.SetAttributes(sess.ID, map[string]string{"intent": "purchase"})

	got := s.GetOrCreate(sess.ID)
	if got.Attributes["page_type"] != "product" || got.Attributes["intent"] != "purchase" {
		t.Errorf("attributes = %v", got.Attributes)
	}
}

func TestDelete(t *testing.T) {
	s := NewMemoryStore(time.Hour, 10)
	sess := s.GetOrCreate("")
	s.Append(sess.ID, ChatMessage{Role: RoleUser, Content: "hi"})
	s.Delete(sess.ID)
	if got := s.History(sess.ID, 0); got != nil {
		t.Errorf("deleted session still has history: %v", got)
	}
}

func TestExpiry(t *testing.T) {
	s := NewMemoryStore(time.Hour, 10).(*memoryStore)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := base
	s.now = func() time.Time { return now }

	sess := s.GetOrCreate("")
	s.Append(sess.ID, ChatMessage{Role: RoleUser, Content: "hi"})

	now = base.Add(2 * time.Hour)
	if got := s.History(sess.ID, 0); got != nil {
		t.Errorf("expired session still has history: %v", got)
	}
}

func TestSessionCap(t *testing.T) {
	s := NewMemoryStore(time.Hour, 3).(*memoryStore)
	for i := 0; i < 5; i++ {
		s.GetOrCreate("")
		time.Sleep(time.Millisecond)
	}
	if len(s.sessions) > 3 {
		t.Errorf("%d sessions live, cap is 3", len(s.sessions))
	}
}

func TestCloneIsolation(t *testing.T) {
	s := NewMemoryStore(time.Hour, 10)
	sess := s.Append("", ChatMessage{Role: RoleUser, Content: "original"})
	sess.Messages[0].Content = "mutated"

	got := s.History(sess.ID, 0)
	if got[0].Content != "original" {
		t.Error("caller mutation leaked into the store")
	}
}
