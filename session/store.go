package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session holds the rolling history for one shopper conversation.
type Session struct {
	ID         string            `json:"id"`
	Messages   []ChatMessage     `json:"messages"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Store keeps conversation sessions. Implementations must be safe for
// concurrent use.
type Store interface {
	// GetOrCreate returns the session for id, creating one when id is empty
	// or unknown.
	GetOrCreate(id string) *Session
	// Append records a message on the session, creating it when needed.
	Append(id string, msg ChatMessage) *Session
	// History returns up to limit most recent messages in chronological
	// order. limit <= 0 means all.
	History(id string, limit int) []ChatMessage
	// SetAttributes merges shopper context attributes into the session.
	SetAttributes(id string, attrs map[string]string)
	// Delete removes a session.
	Delete(id string)
}

// memoryStore is an in-process Store with TTL expiry and a session cap.
type memoryStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// NewMemoryStore returns a Store that expires sessions idle longer than ttl
// and evicts the oldest when more than maxSessions are live. Zero values
// fall back to 1h and 1000.
func NewMemoryStore(ttl time.Duration, maxSessions int) Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	return &memoryStore{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

func (s *memoryStore) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.getOrCreateLocked(id))
}

func (s *memoryStore) Append(id string, msg ChatMessage) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	sess.Messages = append(sess.Messages, msg)
	sess.UpdatedAt = s.now()
	return cloneSession(sess)
}

func (s *memoryStore) History(id string, limit int) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		return nil
	}
	msgs := sess.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

func (s *memoryStore) SetAttributes(id string, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	if sess.Attributes == nil {
		sess.Attributes = make(map[string]string, len(attrs))
	}
	for k, v := range attrs {
		sess.Attributes[k] = v
	}
	sess.UpdatedAt = s.now()
}

func (s *memoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// getOrCreateLocked assumes s.mu is held.
func (s *memoryStore) getOrCreateLocked(id string) *Session {
	s.sweepLocked()
	if id != "" {
		if sess, ok := s.sessions[id]; ok && !s.expired(sess) {
			return sess
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now()
	sess := &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	s.sessions[id] = sess
	return sess
}

func (s *memoryStore) expired(sess *Session) bool {
	return s.now().Sub(sess.UpdatedAt) > s.ttl
}

// sweepLocked drops expired sessions and, when still over the cap, the
// least recently updated ones.
func (s *memoryStore) sweepLocked() {
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
	if len(s.sessions) < s.maxSessions {
		return
	}
	live := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	sort.Slice(live, func(i, j int) bool {
		return live[i].UpdatedAt.Before(live[j].UpdatedAt)
	})
	for _, sess := range live[:len(live)-s.maxSessions+1] {
		delete(s.sessions, sess.ID)
	}
}

func cloneSession(sess *Session) *Session {
	out := &Session{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
	if len(sess.Messages) > 0 {
		out.Messages = make([]ChatMessage, len(sess.Messages))
		copy(out.Messages, sess.Messages)
	}
	if len(sess.Attributes) > 0 {
		out.Attributes = make(map[string]string, len(sess.Attributes))
		for k, v := range sess.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}
