package quiz

import (
	"errors"
	"fmt"
)

// Difficulty of a generated quiz. The generation backend either receives a
// forced value or picks one of these and reports it back.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty maps a string onto a known difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), true
	}
	return "", false
}

// OptionsPerQuestion is fixed: every question has exactly four choices.
const OptionsPerQuestion = 4

type Question struct {
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

type Quiz struct {
	ID               string     `json:"id"`
	Topic            string     `json:"topic"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Difficulty       Difficulty `json:"difficulty"`
	CreatedAt        string     `json:"createdAt"`
	Questions        []Question `json:"questions"`
	LastScore        *float64   `json:"lastScore,omitempty"`
	TimeLimitMinutes int        `json:"timeLimitMinutes,omitempty"`
}

// Unanswered marks a question the user has not picked an option for.
const Unanswered = -1

// UserAnswer records the selection for one question during a taking session.
// It never outlives the session.
type UserAnswer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"` // Unanswered when no pick
}

// GeneratedQuiz is the schema-shaped payload the generation backend returns.
// It carries everything but the caller-owned fields (id, topic, createdAt,
// time limit).
type GeneratedQuiz struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Questions   []Question `json:"questions"`
}

// Validate checks the structural invariants every stored quiz must hold.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return errors.New("quiz has no questions")
	}
	for i, qu := range q.Questions {
		if qu.QuestionText == "" {
			return fmt.Errorf("question %d: empty text", i)
		}
		if len(qu.Options) != OptionsPerQuestion {
			return fmt.Errorf("question %d: %d options, want %d", i, len(qu.Options), OptionsPerQuestion)
		}
		if qu.CorrectAnswerIndex < 0 || qu.CorrectAnswerIndex >= len(qu.Options) {
			return fmt.Errorf("question %d: correct answer index %d out of range", i, qu.CorrectAnswerIndex)
		}
	}
	if _, ok := ParseDifficulty(string(q.Difficulty)); !ok {
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	return nil
}
