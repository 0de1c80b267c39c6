package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps ownership links in process memory
type MemoryStore struct {
	assistants map[string]map[string]bool // userID -> assistantID set
	phones     map[string]map[string]bool // userID -> phoneID set
	mu         sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assistants: make(map[string]map[string]bool),
		phones:     make(map[string]map[string]bool),
	}
}

func link(sets map[string]map[string]bool, userID, id string) {
	if sets[userID] == nil {
		sets[userID] = make(map[string]bool)
	}
	sets[userID][id] = true
}

func members(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *MemoryStore) LinkAssistant(_ context.Context, userID, assistantID string) error {
	if userID == "" || assistantID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	link(s.assistants, userID, assistantID)
	return nil
}

func (s *MemoryStore) UnlinkAssistant(_ context.Context, assistantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range s.assistants {
		delete(set, assistantID)
	}
	return nil
}

func (s *MemoryStore) ListAssistantIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return members(s.assistants[userID]), nil
}

func (s *MemoryStore) LinkPhone(_ context.Context, userID, phoneID string) error {
	if userID == "" || phoneID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	link(s.phones, userID, phoneID)
	return nil
}

func (s *MemoryStore) ListPhoneIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return members(s.phones[userID]), nil
}

func (s *MemoryStore) TruncateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistants = make(map[string]map[string]bool)
	s.phones = make(map[string]map[string]bool)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
