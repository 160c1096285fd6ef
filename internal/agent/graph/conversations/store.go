package conversations

import (
	"maps"
	"sync"
	"time"

	"github.com/PawsConnect/pawsbot/internal/agent/model"
	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

const DefaultHistoryLimit = 10

// Store owns the in-memory conversation state of every user. Create one per
// process (or per test) and share it between the engine and the sweeper.
type Store struct {
	mu           sync.RWMutex
	states       map[string]*model.ConversationState
	historyLimit int
	now          func() time.Time
}

type StoreOption func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(config model.ConversationConfig, opts ...StoreOption) *Store {
	s := &Store{
		states:       make(map[string]*model.ConversationState),
		historyLimit: config.HistoryLimit,
		now:          time.Now,
	}
	if s.historyLimit <= 0 {
		s.historyLimit = DefaultHistoryLimit
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a snapshot of the user's state, creating it on first access.
func (s *Store) Get(userID string) model.ConversationState {
	s.mu.RLock()
	st, ok := s.states[userID]
	if ok {
		snapshot := st.Clone()
		s.mu.RUnlock()
		return snapshot
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(userID).Clone()
}

// Update appends one exchange, keeps only the newest historyLimit entries,
// merges contextUpdates into the stored context and stamps LastInteraction.
func (s *Store) Update(userID string, exchange model.Exchange, contextUpdates map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.getOrCreateLocked(userID)
	st.History = trimTail(append(st.History, exchange), s.historyLimit)
	maps.Copy(st.Context, contextUpdates)
	st.LastInteraction = s.now()
}

// Sweep drops every state untouched for longer than maxAge and returns how many were removed.
func (s *Store) Sweep(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, st := range s.states {
		if st.LastInteraction.Before(cutoff) {
			delete(s.states, userID)
			removed++
		}
	}
	if removed > 0 {
		logx.Debug().Int("removed", removed).Int("remaining", len(s.states)).Dur("max_age", maxAge).
			Msg("Swept stale conversations")
	}
	return removed
}

// Has reports whether a state exists for userID without creating one.
func (s *Store) Has(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.states[userID]
	return ok
}

// Len returns the number of tracked users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Clear forgets a single user.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

func (s *Store) getOrCreateLocked(userID string) *model.ConversationState {
	st, ok := s.states[userID]
	if !ok {
		st = &model.ConversationState{
			UserID:          userID,
			History:         []model.Exchange{},
			Context:         map[string]any{},
			LastInteraction: s.now(),
		}
		s.states[userID] = st
	}
	return st
}

// ====================== Helper function ======================
// trimTail keeps the last max entries, oldest dropped first.
func trimTail[T any](items []T, max int) []T {
	if len(items) <= max {
		return items
	}
	source := items[len(items)-max:]
	result := make([]T, len(source))
	copy(result, source)
	return result
}

// Recent returns at most n of the newest exchanges, in original order.
func Recent(history []model.Exchange, n int) []model.Exchange {
	if n <= 0 {
		return nil
	}
	return trimTail(history, n)
}
