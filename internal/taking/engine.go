package taking

import (
	"errors"
	"sync"
	"time"

	"github.com/quizforge/quizforge/internal/quiz"
)

// ErrEmptyQuiz means the quiz has no questions and cannot be taken.
var ErrEmptyQuiz = errors.New("taking: quiz has no questions")

// Result is produced exactly once per engine, at submission.
type Result struct {
	Answers  []quiz.UserAnswer
	Score    float64 // 0..100, full precision
	TimedOut bool
}

// Engine drives one attempt at a quiz: question navigation, answer
// recording, the countdown, and scoring. The first submission wins; any
// later submit attempt is a no-op.
type Engine struct {
	mu        sync.Mutex
	quiz      quiz.Quiz
	current   int
	answers   []quiz.UserAnswer
	remaining int
	submitted bool
	stopped   bool
	result    Result
	onSubmit  func(Result)
	stopTimer chan struct{}
}

// NewEngine initializes an attempt. onSubmit is invoked exactly once, from
// whichever of manual submit or timer expiry happens first; it must never
// fail the submission (score persistence errors are the caller's problem,
// the result is always reported).
func NewEngine(q quiz.Quiz, onSubmit func(Result)) (*Engine, error) {
	return newEngine(q, onSubmit, time.Second)
}

func newEngine(q quiz.Quiz, onSubmit func(Result), tick time.Duration) (*Engine, error) {
	if len(q.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	e := &Engine{
		quiz:     q,
		answers:  make([]quiz.UserAnswer, len(q.Questions)),
		onSubmit: onSubmit,
	}
	for i := range e.answers {
		e.answers[i] = quiz.UserAnswer{QuestionIndex: i, SelectedOption: quiz.Unanswered}
	}
	if q.TimeLimitMinutes > 0 {
		e.remaining = q.TimeLimitMinutes * 60
		e.stopTimer = make(chan struct{})
		go e.countdown(tick)
	}
	return e, nil
}

func (e *Engine) countdown(tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-e.stopTimer:
			return
		case <-t.C:
			e.mu.Lock()
			if e.submitted || e.stopped {
				e.mu.Unlock()
				return
			}
			e.remaining--
			if e.remaining > 0 {
				e.mu.Unlock()
				continue
			}
			e.submitLocked(true)
			e.mu.Unlock()
			return
		}
	}
}

func (e *Engine) Quiz() quiz.Quiz { return e.quiz }

func (e *Engine) Current() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Remaining reports the seconds left, or 0 when the quiz is untimed.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

func (e *Engine) Next() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current < len(e.quiz.Questions)-1 {
		e.current++
	}
}

func (e *Engine) Previous() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current > 0 {
		e.current--
	}
}

// Select records an option for the current question, overwriting any
// previous pick for that question only.
func (e *Engine) Select(option int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.submitted || e.stopped {
		return
	}
	if option < 0 || option >= quiz.OptionsPerQuestion {
		return
	}
	e.answers[e.current].SelectedOption = option
}

// Answers returns a copy of the current answer record.
func (e *Engine) Answers() []quiz.UserAnswer {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]quiz.UserAnswer, len(e.answers))
	copy(out, e.answers)
	return out
}

// Dirty is true once at least one question has a recorded answer.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range e.answers {
		if a.SelectedOption != quiz.Unanswered {
			return true
		}
	}
	return false
}

func (e *Engine) Submitted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitted
}

// Result is valid only after submission.
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.submitted
}

// Submit scores the attempt with whatever is recorded. Racing the timer is
// safe: only the first submission is honored.
func (e *Engine) Submit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitLocked(false)
}

func (e *Engine) submitLocked(timedOut bool) {
	if e.submitted || e.stopped {
		return
	}
	e.submitted = true
	correct := 0
	for i, q := range e.quiz.Questions {
		if e.answers[i].SelectedOption == q.CorrectAnswerIndex {
			correct++
		}
	}
	answers := make([]quiz.UserAnswer, len(e.answers))
	copy(answers, e.answers)
	e.result = Result{
		Answers:  answers,
		Score:    100 * float64(correct) / float64(len(e.quiz.Questions)),
		TimedOut: timedOut,
	}
	if e.stopTimer != nil && !timedOut {
		close(e.stopTimer)
	}
	if e.onSubmit != nil {
		res := e.result
		go e.onSubmit(res)
	}
}

// Stop abandons the attempt without submitting; recorded answers are lost.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.submitted || e.stopped {
		return
	}
	e.stopped = true
	if e.stopTimer != nil {
		close(e.stopTimer)
	}
}
