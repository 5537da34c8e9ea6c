package session

// Screen is the top-level app state.
type Screen string

const (
	ScreenLogin          Screen = "login"
	ScreenRegister       Screen = "register"
	ScreenDashboard      Screen = "dashboard"
	ScreenCreating       Screen = "creating"
	ScreenTakingQuiz     Screen = "taking"
	ScreenViewingResults Screen = "results"
)

// GuardChoice resolves a pending confirmation prompt.
type GuardChoice string

const (
	ChoiceSaveExit    GuardChoice = "save_exit"
	ChoiceDiscardExit GuardChoice = "discard_exit"
	ChoiceCancel      GuardChoice = "cancel"
	ChoiceLeave       GuardChoice = "leave"
	ChoiceStay        GuardChoice = "stay"
)

// Prompt asks the user to confirm leaving a screen with unsaved state.
type Prompt string

const (
	PromptNone           Prompt = ""
	PromptUnsavedDraft   Prompt = "unsaved_draft"   // SaveExit / DiscardExit / Cancel
	PromptAbandonAttempt Prompt = "abandon_attempt" // Leave / Stay
)

// Effect is a side effect the orchestrator must perform after a transition.
type Effect string

const (
	EffectSaveDraft   Effect = "save_draft"
	EffectClearDraft  Effect = "clear_draft"
	EffectResetAuthor Effect = "reset_author"
	EffectStopEngine  Effect = "stop_engine"
	EffectClearActive Effect = "clear_active" // drop active quiz + results
	EffectLoadQuizzes Effect = "load_quizzes"
	EffectClearAll    Effect = "clear_all" // logout
)

type EventKind string

const (
	EventNavigate      EventKind = "navigate"
	EventChoice        EventKind = "choice"
	EventAuthenticated EventKind = "authenticated"
	EventLogout        EventKind = "logout"
	EventSubmitted     EventKind = "submitted"
)

type Event struct {
	Kind   EventKind
	Target Screen      // EventNavigate
	Choice GuardChoice // EventChoice
}

// State is the machine's full condition. Dirty is supplied by the caller
// from whichever controller owns the current screen. Pending holds the
// navigation target while a prompt is outstanding.
type State struct {
	Screen  Screen
	Dirty   bool
	Pending Screen
}

var allowedNav = map[Screen][]Screen{
	ScreenLogin:          {ScreenRegister},
	ScreenRegister:       {ScreenLogin},
	ScreenDashboard:      {ScreenCreating, ScreenTakingQuiz},
	ScreenCreating:       {ScreenDashboard},
	ScreenTakingQuiz:     {ScreenDashboard},
	ScreenViewingResults: {ScreenDashboard},
}

func navAllowed(from, to Screen) bool {
	for _, t := range allowedNav[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition is the pure state function: no I/O, no mutation; side effects
// come back as an ordered Effect list for the caller to execute.
func Transition(s State, ev Event) (State, []Effect, Prompt) {
	switch ev.Kind {
	case EventNavigate:
		if ev.Target == s.Screen || s.Pending != "" || !navAllowed(s.Screen, ev.Target) {
			return s, nil, PromptNone
		}
		if s.Dirty && s.Screen == ScreenCreating {
			s.Pending = ev.Target
			return s, nil, PromptUnsavedDraft
		}
		if s.Dirty && s.Screen == ScreenTakingQuiz {
			s.Pending = ev.Target
			return s, nil, PromptAbandonAttempt
		}
		return enter(s, ev.Target, nil)

	case EventChoice:
		if s.Pending == "" {
			return s, nil, PromptNone
		}
		target := s.Pending
		switch {
		case s.Screen == ScreenCreating && ev.Choice == ChoiceSaveExit:
			s.Pending = ""
			return enter(s, target, []Effect{EffectSaveDraft})
		case s.Screen == ScreenCreating && ev.Choice == ChoiceDiscardExit:
			s.Pending = ""
			return enter(s, target, []Effect{EffectClearDraft})
		case s.Screen == ScreenCreating && ev.Choice == ChoiceCancel,
			s.Screen == ScreenTakingQuiz && ev.Choice == ChoiceStay:
			s.Pending = ""
			return s, nil, PromptNone
		case s.Screen == ScreenTakingQuiz && ev.Choice == ChoiceLeave:
			s.Pending = ""
			return enter(s, target, nil)
		}
		// choice does not belong to this screen's prompt
		return s, nil, promptFor(s.Screen)

	case EventAuthenticated:
		if s.Screen != ScreenLogin && s.Screen != ScreenRegister {
			return s, nil, PromptNone
		}
		return enter(s, ScreenDashboard, []Effect{EffectLoadQuizzes})

	case EventLogout:
		s = State{Screen: ScreenLogin}
		return s, []Effect{EffectClearAll}, PromptNone

	case EventSubmitted:
		if s.Screen != ScreenTakingQuiz {
			return s, nil, PromptNone
		}
		s.Screen = ScreenViewingResults
		s.Dirty = false
		s.Pending = ""
		return s, []Effect{EffectStopEngine}, PromptNone
	}
	return s, nil, PromptNone
}

func promptFor(screen Screen) Prompt {
	switch screen {
	case ScreenCreating:
		return PromptUnsavedDraft
	case ScreenTakingQuiz:
		return PromptAbandonAttempt
	}
	return PromptNone
}

// enter performs a committed screen change: leaving effects first, then the
// target screen's entry effects. Leaving Creating or TakingQuiz always
// resets the dirty flag.
func enter(s State, target Screen, pre []Effect) (State, []Effect, Prompt) {
	eff := pre
	switch s.Screen {
	case ScreenCreating:
		eff = append(eff, EffectResetAuthor)
	case ScreenTakingQuiz:
		eff = append(eff, EffectStopEngine)
	}
	switch target {
	case ScreenDashboard, ScreenCreating:
		eff = append(eff, EffectClearActive)
	}
	s.Screen = target
	s.Dirty = false
	s.Pending = ""
	return s, eff, PromptNone
}
