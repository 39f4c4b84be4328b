package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is the registry used when no database is configured.
// Its contents do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	decks  map[string]Deck // by id
	byName map[string]string
	usage  []AIUsage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		decks:  make(map[string]Deck),
		byName: make(map[string]string),
	}
}

func (s *MemoryStore) SaveDeck(_ context.Context, d *Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.decks[d.ID]; exists {
		return fmt.Errorf("deck %s already registered", d.ID)
	}
	if _, exists := s.byName[d.Filename]; exists {
		return fmt.Errorf("filename %s already registered", d.Filename)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	s.decks[d.ID] = *d
	s.byName[d.Filename] = d.ID
	return nil
}

func (s *MemoryStore) GetDeck(_ context.Context, id string) (*Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.decks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *MemoryStore) GetDeckByFilename(ctx context.Context, filename string) (*Deck, error) {
	s.mu.RLock()
	id, ok := s.byName[filename]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetDeck(ctx, id)
}

func (s *MemoryStore) DeleteDeckByPath(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range s.decks {
		if d.Path == path {
			delete(s.decks, id)
			delete(s.byName, d.Filename)
		}
	}
	return nil
}

func (s *MemoryStore) ListDecks(_ context.Context) ([]Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decks := make([]Deck, 0, len(s.decks))
	for _, d := range s.decks {
		decks = append(decks, d)
	}
	sort.Slice(decks, func(i, j int) bool {
		return decks[i].CreatedAt.After(decks[j].CreatedAt)
	})
	return decks, nil
}

func (s *MemoryStore) LogAIUsage(_ context.Context, u *AIUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = len(s.usage) + 1
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.usage = append(s.usage, *u)
	return nil
}

// Usage returns a copy of the recorded AI usage rows.
func (s *MemoryStore) Usage() []AIUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AIUsage, len(s.usage))
	copy(out, s.usage)
	return out
}
