package quiz

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("quiz not found")

// Store is the persistent quiz store. Quizzes are owned by a single user
// handle; every call is scoped to one. Callers re-fetch the list after any
// mutation instead of patching a local copy.
type Store interface {
	List(ctx context.Context, userID string) ([]Quiz, error)
	Create(ctx context.Context, userID string, q Quiz) error
	UpdateScore(ctx context.Context, userID, quizID string, score float64) error
	Delete(ctx context.Context, userID, quizID string) error
}

type memoryStore struct {
	mu      sync.RWMutex
	byOwner map[string]map[string]Quiz
}

func NewInMemoryStore() Store {
	return &memoryStore{byOwner: map[string]map[string]Quiz{}}
}

func (m *memoryStore) List(ctx context.Context, userID string) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Quiz, 0, len(m.byOwner[userID]))
	for _, q := range m.byOwner[userID] {
		out = append(out, q)
	}
	// newest first; IDs are time-ordered
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryStore) Create(ctx context.Context, userID string, q Quiz) error {
	if err := q.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byOwner[userID] == nil {
		m.byOwner[userID] = map[string]Quiz{}
	}
	m.byOwner[userID][q.ID] = q
	return nil
}

func (m *memoryStore) UpdateScore(ctx context.Context, userID, quizID string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.byOwner[userID][quizID]
	if !ok {
		return ErrNotFound
	}
	q.LastScore = &score
	m.byOwner[userID][quizID] = q
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, userID, quizID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byOwner[userID][quizID]; !ok {
		return ErrNotFound
	}
	delete(m.byOwner[userID], quizID)
	return nil
}
