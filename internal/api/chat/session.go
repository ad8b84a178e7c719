package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api/dialogue"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	DefaultSessionTTL = time.Hour
	maxHistory        = 100
)

// Session is one conversation. Turns of the same session are serialised by
// Lock/Unlock; the fields below are only touched while it is held.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu sync.Mutex

	machine             *dialogue.Machine
	lastRecommendations []types.RecommendationRecord
	pendingSelection    []types.BucketListItem
	tripContext         *types.TripContext
	history             []types.ConversationMessage
}

func newSession(logger *slog.Logger, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		machine:   dialogue.NewMachine(logger),
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// History returns a copy of the recorded turns. The caller must hold the lock.
func (s *Session) History() []types.ConversationMessage {
	return append([]types.ConversationMessage(nil), s.history...)
}

func (s *Session) record(role types.MessageRole, content string, at time.Time) {
	s.history = append(s.history, types.ConversationMessage{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: at,
	})
	if over := len(s.history) - maxHistory; over > 0 {
		s.history = append([]types.ConversationMessage(nil), s.history[over:]...)
	}
}

// SessionStore keeps live sessions in memory. Idle sessions expire after the TTL.
type SessionStore struct {
	items  *cache.Cache
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewSessionStore(ttl time.Duration, logger *slog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	items := cache.New(ttl, ttl/2)
	items.OnEvicted(func(key string, _ any) {
		metrics.Get().ActiveSessions.Add(context.Background(), -1)
		logger.Debug("Chat session evicted", slog.String("session_id", key))
	})
	return &SessionStore{items: items, ttl: ttl, logger: logger, now: time.Now}
}

// Create opens a new session.
func (s *SessionStore) Create(ctx context.Context) *Session {
	sess := newSession(s.logger, s.now())
	s.items.SetDefault(sess.ID.String(), sess)
	metrics.Get().ActiveSessions.Add(ctx, 1)
	s.logger.InfoContext(ctx, "Chat session created", slog.String("session_id", sess.ID.String()))
	return sess
}

// Get returns a live session and extends its lifetime.
func (s *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	v, found := s.items.Get(id.String())
	if !found {
		return nil, false
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil, false
	}
	s.items.SetDefault(id.String(), sess)
	return sess, true
}

// Delete ends a session. It reports whether the session existed.
func (s *SessionStore) Delete(id uuid.UUID) bool {
	if _, found := s.items.Get(id.String()); !found {
		return false
	}
	s.items.Delete(id.String())
	return true
}

// Count is the number of live sessions, including expired ones not yet swept.
func (s *SessionStore) Count() int {
	return s.items.ItemCount()
}
