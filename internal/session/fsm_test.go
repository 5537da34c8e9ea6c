package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigateSameScreenIsNoOp(t *testing.T) {
	s := State{Screen: ScreenDashboard}
	next, effects, prompt := Transition(s, Event{Kind: EventNavigate, Target: ScreenDashboard})
	assert.Equal(t, s, next)
	assert.Empty(t, effects)
	assert.Equal(t, PromptNone, prompt)
}

func TestNavigateUnknownTargetRejected(t *testing.T) {
	s := State{Screen: ScreenCreating}
	next, _, prompt := Transition(s, Event{Kind: EventNavigate, Target: ScreenTakingQuiz})
	assert.Equal(t, ScreenCreating, next.Screen)
	assert.Equal(t, PromptNone, prompt)
}

func TestCleanNavigationProceedsImmediately(t *testing.T) {
	s := State{Screen: ScreenCreating, Dirty: false}
	next, effects, prompt := Transition(s, Event{Kind: EventNavigate, Target: ScreenDashboard})
	assert.Equal(t, ScreenDashboard, next.Screen)
	assert.Equal(t, PromptNone, prompt)
	assert.Contains(t, effects, EffectResetAuthor)
	assert.Contains(t, effects, EffectClearActive)
}

func TestDirtyCreatingPromptsThreeChoice(t *testing.T) {
	s := State{Screen: ScreenCreating, Dirty: true}
	next, effects, prompt := Transition(s, Event{Kind: EventNavigate, Target: ScreenDashboard})
	assert.Equal(t, ScreenCreating, next.Screen, "no transition before the choice")
	assert.Equal(t, ScreenDashboard, next.Pending)
	assert.Empty(t, effects)
	assert.Equal(t, PromptUnsavedDraft, prompt)

	t.Run("save and exit", func(t *testing.T) {
		after, eff, p := Transition(next, Event{Kind: EventChoice, Choice: ChoiceSaveExit})
		assert.Equal(t, ScreenDashboard, after.Screen)
		assert.False(t, after.Dirty)
		assert.Equal(t, PromptNone, p)
		assert.Equal(t, []Effect{EffectSaveDraft, EffectResetAuthor, EffectClearActive}, eff)
	})
	t.Run("discard and exit", func(t *testing.T) {
		after, eff, p := Transition(next, Event{Kind: EventChoice, Choice: ChoiceDiscardExit})
		assert.Equal(t, ScreenDashboard, after.Screen)
		assert.Equal(t, PromptNone, p)
		assert.Equal(t, []Effect{EffectClearDraft, EffectResetAuthor, EffectClearActive}, eff)
	})
	t.Run("cancel stays", func(t *testing.T) {
		after, eff, p := Transition(next, Event{Kind: EventChoice, Choice: ChoiceCancel})
		assert.Equal(t, ScreenCreating, after.Screen)
		assert.Empty(t, after.Pending)
		assert.Empty(t, eff)
		assert.Equal(t, PromptNone, p)
	})
}

func TestDirtyTakingPromptsTwoChoice(t *testing.T) {
	s := State{Screen: ScreenTakingQuiz, Dirty: true}
	next, _, prompt := Transition(s, Event{Kind: EventNavigate, Target: ScreenDashboard})
	assert.Equal(t, PromptAbandonAttempt, prompt)
	assert.Equal(t, ScreenTakingQuiz, next.Screen)

	t.Run("leave", func(t *testing.T) {
		after, eff, p := Transition(next, Event{Kind: EventChoice, Choice: ChoiceLeave})
		assert.Equal(t, ScreenDashboard, after.Screen)
		assert.False(t, after.Dirty)
		assert.Equal(t, PromptNone, p)
		assert.Equal(t, []Effect{EffectStopEngine, EffectClearActive}, eff)
	})
	t.Run("stay", func(t *testing.T) {
		after, eff, p := Transition(next, Event{Kind: EventChoice, Choice: ChoiceStay})
		assert.Equal(t, ScreenTakingQuiz, after.Screen)
		assert.Empty(t, eff)
		assert.Equal(t, PromptNone, p)
	})
	t.Run("creating choices rejected here", func(t *testing.T) {
		after, eff, p := Transition(next, Event{Kind: EventChoice, Choice: ChoiceSaveExit})
		assert.Equal(t, ScreenTakingQuiz, after.Screen)
		assert.NotEmpty(t, after.Pending)
		assert.Empty(t, eff)
		assert.Equal(t, PromptAbandonAttempt, p)
	})
}

func TestNavigationBlockedWhilePromptOutstanding(t *testing.T) {
	s := State{Screen: ScreenCreating, Dirty: true, Pending: ScreenDashboard}
	next, _, prompt := Transition(s, Event{Kind: EventNavigate, Target: ScreenDashboard})
	assert.Equal(t, s, next)
	assert.Equal(t, PromptNone, prompt)
}

func TestAuthenticatedLoadsQuizzes(t *testing.T) {
	for _, from := range []Screen{ScreenLogin, ScreenRegister} {
		next, eff, _ := Transition(State{Screen: from}, Event{Kind: EventAuthenticated})
		assert.Equal(t, ScreenDashboard, next.Screen)
		assert.Contains(t, eff, EffectLoadQuizzes)
	}
	// already logged in: ignored
	next, eff, _ := Transition(State{Screen: ScreenDashboard}, Event{Kind: EventAuthenticated})
	assert.Equal(t, ScreenDashboard, next.Screen)
	assert.Empty(t, eff)
}

func TestLogoutFromAnywhere(t *testing.T) {
	for _, from := range []Screen{ScreenDashboard, ScreenCreating, ScreenTakingQuiz, ScreenViewingResults} {
		next, eff, prompt := Transition(State{Screen: from, Dirty: true}, Event{Kind: EventLogout})
		assert.Equal(t, ScreenLogin, next.Screen)
		assert.False(t, next.Dirty)
		assert.Equal(t, []Effect{EffectClearAll}, eff)
		assert.Equal(t, PromptNone, prompt)
	}
}

func TestSubmittedBypassesGuard(t *testing.T) {
	next, eff, prompt := Transition(State{Screen: ScreenTakingQuiz, Dirty: true}, Event{Kind: EventSubmitted})
	assert.Equal(t, ScreenViewingResults, next.Screen)
	assert.False(t, next.Dirty)
	assert.Equal(t, PromptNone, prompt)
	assert.Contains(t, eff, EffectStopEngine)
	assert.NotContains(t, eff, EffectClearActive, "results remain visible")
}

func TestResultsOnlyRestartToDashboard(t *testing.T) {
	next, eff, _ := Transition(State{Screen: ScreenViewingResults}, Event{Kind: EventNavigate, Target: ScreenDashboard})
	assert.Equal(t, ScreenDashboard, next.Screen)
	assert.Contains(t, eff, EffectClearActive)

	next, _, _ = Transition(State{Screen: ScreenViewingResults}, Event{Kind: EventNavigate, Target: ScreenCreating})
	assert.Equal(t, ScreenViewingResults, next.Screen)
}

func TestLoginRegisterToggle(t *testing.T) {
	next, _, _ := Transition(State{Screen: ScreenLogin}, Event{Kind: EventNavigate, Target: ScreenRegister})
	assert.Equal(t, ScreenRegister, next.Screen)
	next, _, _ = Transition(next, Event{Kind: EventNavigate, Target: ScreenLogin})
	assert.Equal(t, ScreenLogin, next.Screen)
}
