package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ugaemi/parkingdrive-server/internal/account"
)

// MemoryStore implements Store in process memory. Used when no database is
// configured; nothing survives a restart.
type MemoryStore struct {
	accounts map[string]*account.Account
	results  []*Result
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*account.Account),
	}
}

// FindByID looks up an account by internal ID. A missing account is (nil, nil).
func (s *MemoryStore) FindByID(_ context.Context, id string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

// Create inserts a new account.
func (s *MemoryStore) Create(_ context.Context, acc *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *acc
	s.accounts[acc.ID] = &cp
	return nil
}

// UpdateLastLogin updates the last login timestamp.
func (s *MemoryStore) UpdateLastLogin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[id]; ok {
		acc.LastLoginAt = time.Now()
	}
	return nil
}

// UpdateNickname updates the account nickname.
func (s *MemoryStore) UpdateNickname(_ context.Context, id string, nickname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[id]; ok {
		acc.Nickname = nickname
	}
	return nil
}

// SaveResult inserts a finished game.
func (s *MemoryStore) SaveResult(_ context.Context, res *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *res
	s.results = append(s.results, &cp)
	return nil
}

// RecentResults returns the latest results, newest first.
func (s *MemoryStore) RecentResults(_ context.Context, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}

	s.mu.RLock()
	out := make([]*Result, len(s.results))
	for i, r := range s.results {
		cp := *r
		out[i] = &cp
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
