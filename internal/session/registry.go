package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/quizforge/quizforge/internal/author"
	"github.com/quizforge/quizforge/internal/draft"
	"github.com/quizforge/quizforge/internal/quiz"
)

// Registry holds one session per user handle. All sessions share the single
// draft slot; a second identity on the same deployment sees and overwrites
// the first's draft.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store  quiz.Store
	drafts *draft.Store
	gen    author.Generator
	events EventSink
	log    *slog.Logger
}

func NewRegistry(store quiz.Store, drafts *draft.Store, gen author.Generator, events EventSink, log *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		drafts:   drafts,
		gen:      gen,
		events:   events,
		log:      log,
	}
}

// Get returns the user's session, creating and authenticating one on first
// use.
func (r *Registry) Get(ctx context.Context, userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := New(userID, r.store, r.drafts, r.gen, r.events, r.log)
	s.Authenticate(ctx)
	r.sessions[userID] = s
	return s
}

// Drop ends the user's session, releasing any running attempt.
func (r *Registry) Drop(ctx context.Context, userID string) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()
	if ok {
		s.Logout(ctx)
	}
}
