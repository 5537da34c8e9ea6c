package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/quizforge/quizforge/internal/author"
	"github.com/quizforge/quizforge/internal/draft"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/taking"
)

var (
	ErrWrongScreen = errors.New("session: operation not valid on this screen")
	ErrNoSuchQuiz  = errors.New("session: quiz not found")
)

// EventSink receives audit events for quiz lifecycle changes. Append
// failures never affect the user-visible operation.
type EventSink interface {
	Append(ctx context.Context, typ, key string, data any) error
}

const (
	eventQuizCreated      = "QuizCreated"
	eventQuizDeleted      = "QuizDeleted"
	eventAttemptSubmitted = "AttemptSubmitted"
)

// Session drives one user's app state: it owns the state machine, executes
// its effects against the quiz store, draft store, authoring controller and
// taking engine, and keeps the cached quiz list consistent by re-fetching
// after every mutation.
type Session struct {
	mu     sync.Mutex
	userID string
	state  State
	prompt Prompt

	store  quiz.Store
	drafts *draft.Store
	gen    author.Generator
	events EventSink
	log    *slog.Logger

	author      *author.Controller
	engine      *taking.Engine
	quizzes     []quiz.Quiz
	active      *quiz.Quiz
	result      *taking.Result
	justCreated string
}

// New starts a session at the login screen. Authenticate moves it to the
// dashboard once the caller has an identity.
func New(userID string, store quiz.Store, drafts *draft.Store, gen author.Generator, events EventSink, log *slog.Logger) *Session {
	return &Session{
		userID: userID,
		state:  State{Screen: ScreenLogin},
		store:  store,
		drafts: drafts,
		gen:    gen,
		events: events,
		log:    log,
	}
}

func (s *Session) audit(ctx context.Context, typ, key string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, typ, key, data); err != nil {
		s.log.Warn("event append failed", "type", typ, "key", key, "err", err)
	}
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	Screen           Screen           `json:"screen"`
	Dirty            bool             `json:"dirty"`
	Prompt           Prompt           `json:"prompt,omitempty"`
	Quizzes          []quiz.Quiz      `json:"quizzes"`
	ActiveQuizID     string           `json:"activeQuizId,omitempty"`
	JustCreatedID    string           `json:"justCreatedId,omitempty"`
	CurrentQuestion  int              `json:"currentQuestion"`
	RemainingSeconds int              `json:"remainingSeconds"`
	Result           *taking.Result   `json:"result,omitempty"`
	HasPendingDraft  bool             `json:"hasPendingDraft"`
	Form             *draft.Draft     `json:"form,omitempty"`
	FileState        author.FileState `json:"fileState,omitempty"`
	FileError        string           `json:"fileError,omitempty"`
}

func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Screen:  s.state.Screen,
		Dirty:   s.dirtyLocked(),
		Prompt:  s.prompt,
		Quizzes: append([]quiz.Quiz(nil), s.quizzes...),
	}
	if s.active != nil {
		snap.ActiveQuizID = s.active.ID
	}
	snap.JustCreatedID = s.justCreated
	if s.engine != nil {
		snap.CurrentQuestion = s.engine.Current()
		snap.RemainingSeconds = s.engine.Remaining()
	}
	snap.Result = s.result
	if s.author != nil {
		snap.HasPendingDraft = s.author.PendingDraft() != nil
		form := s.author.Snapshot()
		snap.Form = &form
		snap.FileState = s.author.FileState()
		snap.FileError = s.author.FileError()
	}
	return snap
}

func (s *Session) dirtyLocked() bool {
	switch s.state.Screen {
	case ScreenCreating:
		return s.author != nil && s.author.IsDirty()
	case ScreenTakingQuiz:
		return s.engine != nil && s.engine.Dirty()
	}
	return false
}

// Authenticate lands the session on the dashboard with a fresh quiz list.
func (s *Session) Authenticate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ctx, Event{Kind: EventAuthenticated})
}

// Navigate requests a screen change. If the active screen reports unsaved
// state the returned prompt must be answered via Choose before the change
// happens.
func (s *Session) Navigate(ctx context.Context, target Screen) Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, Event{Kind: EventNavigate, Target: target})
}

// Choose answers an outstanding guard prompt.
func (s *Session) Choose(ctx context.Context, choice GuardChoice) Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, Event{Kind: EventChoice, Choice: choice})
}

// Logout resets everything and returns to the login screen.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ctx, Event{Kind: EventLogout})
}

func (s *Session) applyLocked(ctx context.Context, ev Event) Prompt {
	s.state.Dirty = s.dirtyLocked()
	next, effects, prompt := Transition(s.state, ev)
	s.state = next
	for _, eff := range effects {
		s.runEffect(ctx, eff)
	}
	if s.state.Screen == ScreenCreating && s.author == nil {
		s.author = author.NewController(s.drafts, s.gen)
	}
	s.prompt = prompt
	return prompt
}

func (s *Session) runEffect(ctx context.Context, eff Effect) {
	switch eff {
	case EffectSaveDraft:
		if s.author != nil {
			if err := s.author.SaveDraft(); err != nil {
				s.log.Warn("draft save failed", "user", s.userID, "err", err)
			}
		}
	case EffectClearDraft:
		if s.author != nil {
			_ = s.author.DiscardDraft()
		} else {
			_ = s.drafts.Clear()
		}
	case EffectResetAuthor:
		s.author = nil
	case EffectStopEngine:
		if s.engine != nil {
			s.engine.Stop()
			s.engine = nil
		}
	case EffectClearActive:
		s.active = nil
		s.result = nil
	case EffectLoadQuizzes:
		s.refreshListLocked(ctx)
	case EffectClearAll:
		s.author = nil
		if s.engine != nil {
			s.engine.Stop()
			s.engine = nil
		}
		s.quizzes = nil
		s.active = nil
		s.result = nil
		s.justCreated = ""
	}
}

// refreshListLocked re-fetches the quiz list. A store failure keeps the
// previous list rather than showing a half-applied mutation.
func (s *Session) refreshListLocked(ctx context.Context) {
	list, err := s.store.List(ctx, s.userID)
	if err != nil {
		s.log.Warn("quiz list fetch failed", "user", s.userID, "err", err)
		return
	}
	s.quizzes = list
}

// Author exposes the authoring controller while on the creating screen.
func (s *Session) Author() (*author.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Screen != ScreenCreating || s.author == nil {
		return nil, ErrWrongScreen
	}
	return s.author, nil
}

// SubmitAuthoring generates the quiz from the current form, persists it,
// and lands back on the dashboard. On generation failure the form keeps its
// values and the session stays on the creating screen.
func (s *Session) SubmitAuthoring(ctx context.Context) (quiz.Quiz, error) {
	s.mu.Lock()
	if s.state.Screen != ScreenCreating || s.author == nil {
		s.mu.Unlock()
		return quiz.Quiz{}, ErrWrongScreen
	}
	ctrl := s.author
	s.mu.Unlock()

	q, err := ctrl.Submit(ctx)
	if err != nil {
		return quiz.Quiz{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Create(ctx, s.userID, q); err != nil {
		s.log.Warn("quiz create failed", "user", s.userID, "err", err)
	} else {
		s.audit(ctx, eventQuizCreated, q.ID, map[string]any{
			"user": s.userID, "topic": q.Topic, "questions": len(q.Questions),
		})
	}
	s.refreshListLocked(ctx)
	s.justCreated = q.ID
	s.applyLocked(ctx, Event{Kind: EventNavigate, Target: ScreenDashboard})
	return q, nil
}

// StartTaking begins an attempt at one of the user's quizzes.
func (s *Session) StartTaking(ctx context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Screen != ScreenDashboard {
		return ErrWrongScreen
	}
	var target *quiz.Quiz
	for i := range s.quizzes {
		if s.quizzes[i].ID == quizID {
			target = &s.quizzes[i]
			break
		}
	}
	if target == nil {
		return ErrNoSuchQuiz
	}
	eng, err := taking.NewEngine(*target, func(res taking.Result) {
		s.handleResult(quizID, res)
	})
	if err != nil {
		return err
	}
	s.applyLocked(ctx, Event{Kind: EventNavigate, Target: ScreenTakingQuiz})
	if s.state.Screen != ScreenTakingQuiz {
		eng.Stop()
		return ErrWrongScreen
	}
	q := *target
	s.active = &q
	s.engine = eng
	s.justCreated = ""
	return nil
}

// Engine exposes the taking engine while an attempt is running.
func (s *Session) Engine() (*taking.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Screen != ScreenTakingQuiz || s.engine == nil {
		return nil, ErrWrongScreen
	}
	return s.engine, nil
}

// handleResult runs once per attempt, from whichever submission happened
// first. It must never fail: the locally computed result is shown even when
// score persistence or the list refresh do not go through.
func (s *Session) handleResult(quizID string, res taking.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.UpdateScore(ctx, s.userID, quizID, res.Score); err != nil {
		s.log.Warn("score update failed", "user", s.userID, "quiz", quizID, "err", err)
	}
	s.audit(ctx, eventAttemptSubmitted, quizID, map[string]any{
		"user": s.userID, "score": res.Score, "timedOut": res.TimedOut,
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Screen != ScreenTakingQuiz {
		// the user already left; the score is recorded but not shown
		return
	}
	s.result = &res
	s.refreshListLocked(ctx)
	s.applyLocked(ctx, Event{Kind: EventSubmitted})
}

// DeleteQuiz removes a quiz and re-fetches the list; a store failure shows
// up only as the quiz still being present after the refresh.
func (s *Session) DeleteQuiz(ctx context.Context, quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, s.userID, quizID); err != nil {
		s.log.Warn("quiz delete failed", "user", s.userID, "quiz", quizID, "err", err)
	} else {
		s.audit(ctx, eventQuizDeleted, quizID, map[string]any{"user": s.userID})
	}
	if s.justCreated == quizID {
		s.justCreated = ""
	}
	s.refreshListLocked(ctx)
}
