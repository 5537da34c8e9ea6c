package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/author"
	"github.com/quizforge/quizforge/internal/draft"
	"github.com/quizforge/quizforge/internal/kv"
	"github.com/quizforge/quizforge/internal/quiz"
)

type stubGenerator struct{ n int }

func (g *stubGenerator) Generate(_ context.Context, _ string, numQuestions int, difficulty *quiz.Difficulty) (quiz.GeneratedQuiz, error) {
	d := quiz.DifficultyEasy
	if difficulty != nil {
		d = *difficulty
	}
	qs := make([]quiz.Question, numQuestions)
	for i := range qs {
		qs[i] = quiz.Question{
			QuestionText:       "Q",
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: 1,
		}
	}
	g.n++
	return quiz.GeneratedQuiz{Title: "T", Description: "D", Difficulty: d, Questions: qs}, nil
}

func newTestSession(t *testing.T) (*Session, quiz.Store, *draft.Store) {
	t.Helper()
	store := quiz.NewInMemoryStore()
	drafts := draft.NewStore(kv.NewMemoryStore())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New("alice@example.com", store, drafts, &stubGenerator{}, nil, log)
	s.Authenticate(context.Background())
	return s, store, drafts
}

func TestGuardScenarioSaveAndDiscard(t *testing.T) {
	ctx := context.Background()
	s, _, drafts := newTestSession(t)

	require.Equal(t, ScreenDashboard, s.State().Screen)
	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))

	ctrl, err := s.Author()
	require.NoError(t, err)
	ctrl.SetTopic("Plate tectonics")
	require.True(t, s.State().Dirty)

	prompt := s.Navigate(ctx, ScreenDashboard)
	require.Equal(t, PromptUnsavedDraft, prompt)
	require.Equal(t, ScreenCreating, s.State().Screen, "no transition before the choice")

	// cancel stays put with the form intact
	require.Equal(t, PromptNone, s.Choose(ctx, ChoiceCancel))
	require.Equal(t, ScreenCreating, s.State().Screen)
	ctrl, err = s.Author()
	require.NoError(t, err)
	assert.Equal(t, "Plate tectonics", ctrl.Snapshot().Topic)

	// save & exit persists the last-seen snapshot
	require.Equal(t, PromptUnsavedDraft, s.Navigate(ctx, ScreenDashboard))
	require.Equal(t, PromptNone, s.Choose(ctx, ChoiceSaveExit))
	assert.Equal(t, ScreenDashboard, s.State().Screen)
	saved := drafts.Load()
	require.NotNil(t, saved)
	assert.Equal(t, "Plate tectonics", saved.Topic)

	// re-entering creating offers the draft back
	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))
	assert.True(t, s.State().HasPendingDraft)
	ctrl, err = s.Author()
	require.NoError(t, err)
	ctrl.RestoreDraft()
	assert.False(t, s.State().Dirty)
	ctrl.SetTopic("Volcanism")

	// discard & exit clears the slot and resets the form
	require.Equal(t, PromptUnsavedDraft, s.Navigate(ctx, ScreenDashboard))
	require.Equal(t, PromptNone, s.Choose(ctx, ChoiceDiscardExit))
	assert.Equal(t, ScreenDashboard, s.State().Screen)
	assert.Nil(t, drafts.Load())
}

func TestCleanCreatingExitsWithoutPrompt(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(t)
	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))
	assert.Equal(t, PromptNone, s.Navigate(ctx, ScreenDashboard))
	assert.Equal(t, ScreenDashboard, s.State().Screen)
}

func TestSubmitAuthoringCreatesAndReturnsToDashboard(t *testing.T) {
	ctx := context.Background()
	s, store, drafts := newTestSession(t)

	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))
	ctrl, err := s.Author()
	require.NoError(t, err)
	ctrl.SetTopic("Photosynthesis")
	ctrl.SetNumQuestions(5)
	ctrl.SetDifficulty(quiz.DifficultyMedium)

	q, err := s.SubmitAuthoring(ctx)
	require.NoError(t, err)
	assert.Len(t, q.Questions, 5)
	assert.Equal(t, quiz.DifficultyMedium, q.Difficulty)

	snap := s.State()
	assert.Equal(t, ScreenDashboard, snap.Screen)
	assert.Equal(t, q.ID, snap.JustCreatedID)
	require.Len(t, snap.Quizzes, 1)
	assert.Equal(t, q.ID, snap.Quizzes[0].ID)
	assert.Nil(t, drafts.Load())

	list, err := store.List(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTakeQuizSubmitAndViewResults(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)

	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))
	ctrl, err := s.Author()
	require.NoError(t, err)
	ctrl.SetTopic("Rivers")
	ctrl.SetNumQuestions(5)
	q, err := s.SubmitAuthoring(ctx)
	require.NoError(t, err)

	require.NoError(t, s.StartTaking(ctx, q.ID))
	require.Equal(t, ScreenTakingQuiz, s.State().Screen)

	eng, err := s.Engine()
	require.NoError(t, err)
	eng.Select(1) // correct
	eng.Next()
	eng.Select(0) // wrong
	eng.Submit()

	require.Eventually(t, func() bool {
		return s.State().Screen == ScreenViewingResults
	}, time.Second, 5*time.Millisecond)

	snap := s.State()
	require.NotNil(t, snap.Result)
	assert.InDelta(t, 20, snap.Result.Score, 1e-12) // 1 of 5

	list, err := store.List(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, list[0].LastScore)
	assert.InDelta(t, 20, *list[0].LastScore, 1e-12)

	// restart clears results
	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenDashboard))
	assert.Nil(t, s.State().Result)
}

func TestLeaveTakingLosesAnswers(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newTestSession(t)

	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))
	ctrl, err := s.Author()
	require.NoError(t, err)
	ctrl.SetTopic("Deserts")
	q, err := s.SubmitAuthoring(ctx)
	require.NoError(t, err)

	require.NoError(t, s.StartTaking(ctx, q.ID))
	eng, err := s.Engine()
	require.NoError(t, err)
	eng.Select(1)

	require.Equal(t, PromptAbandonAttempt, s.Navigate(ctx, ScreenDashboard))
	require.Equal(t, PromptNone, s.Choose(ctx, ChoiceLeave))
	assert.Equal(t, ScreenDashboard, s.State().Screen)

	_, err = s.Engine()
	assert.ErrorIs(t, err, ErrWrongScreen)

	list, err := store.List(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, list[0].LastScore, "abandoned attempts persist nothing")
}

func TestStartTakingUnknownQuiz(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(t)
	assert.ErrorIs(t, s.StartTaking(ctx, "nope"), ErrNoSuchQuiz)
}

func TestDeleteQuizRefreshesList(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(t)

	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))
	ctrl, err := s.Author()
	require.NoError(t, err)
	ctrl.SetTopic("Clouds")
	q, err := s.SubmitAuthoring(ctx)
	require.NoError(t, err)
	require.Len(t, s.State().Quizzes, 1)

	s.DeleteQuiz(ctx, q.ID)
	assert.Empty(t, s.State().Quizzes)
	assert.Empty(t, s.State().JustCreatedID)
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(t)

	require.Equal(t, PromptNone, s.Navigate(ctx, ScreenCreating))
	ctrl, err := s.Author()
	require.NoError(t, err)
	ctrl.SetTopic("Storms")

	s.Logout(ctx)
	snap := s.State()
	assert.Equal(t, ScreenLogin, snap.Screen)
	assert.Empty(t, snap.Quizzes)
	assert.Nil(t, snap.Form)
}

func TestRegistryReusesSession(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewInMemoryStore()
	drafts := draft.NewStore(kv.NewMemoryStore())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := NewRegistry(store, drafts, &stubGenerator{}, nil, log)

	a := reg.Get(ctx, "a@example.com")
	assert.Equal(t, ScreenDashboard, a.State().Screen)
	assert.Same(t, a, reg.Get(ctx, "a@example.com"))

	b := reg.Get(ctx, "b@example.com")
	assert.NotSame(t, a, b)

	reg.Drop(ctx, "a@example.com")
	assert.NotSame(t, a, reg.Get(ctx, "a@example.com"))
}

var _ author.Generator = (*stubGenerator)(nil)
