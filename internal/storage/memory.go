package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cdJohnEl/PocketLens/internal/core"
)

// MemoryStore keeps everything in process memory. Meant for local
// development and tests; data is lost on restart.
type MemoryStore struct {
	mu           sync.Mutex
	transactions map[string]core.Transaction
	preferences  map[string]core.Preferences
	insights     map[string]core.Insight
	lastCreated  time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]core.Transaction),
		preferences:  make(map[string]core.Preferences),
		insights:     make(map[string]core.Insight),
	}
}

func (s *MemoryStore) nextCreatedAt() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = now
	return now
}

func (s *MemoryStore) AddTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = s.nextCreatedAt()
	s.transactions[t.ID] = t
	return t, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, id string, patch core.TransactionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Method != nil {
		t.Method = *patch.Method
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	s.transactions[id] = t
	return nil
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *MemoryStore) Preferences(_ context.Context, userID string) (core.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.preferences[userID]; ok {
		return p, nil
	}
	return core.DefaultPreferences(), nil
}

func (s *MemoryStore) SavePreferences(_ context.Context, userID string, prefs core.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[userID] = prefs
	return nil
}

func (s *MemoryStore) Insight(_ context.Context, userID string) (core.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ins, ok := s.insights[userID]
	if !ok {
		return core.Insight{}, ErrNotFound
	}
	return ins, nil
}

func (s *MemoryStore) SaveInsight(_ context.Context, userID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights[userID] = core.Insight{Text: text, Dirty: false, GeneratedAt: time.Now().UTC()}
	return nil
}

func (s *MemoryStore) MarkInsightDirty(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ins := s.insights[userID]
	ins.Dirty = true
	s.insights[userID] = ins
	return nil
}

func (s *MemoryStore) DirtyInsightUsers(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []string
	for userID, ins := range s.insights {
		if ins.Dirty {
			users = append(users, userID)
			if len(users) == limit {
				break
			}
		}
	}
	return users, nil
}
