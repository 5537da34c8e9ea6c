package draft

import (
	"encoding/json"

	"github.com/quizforge/quizforge/internal/kv"
	"github.com/quizforge/quizforge/internal/quiz"
)

// Draft captures the authoring form so work in progress survives a restart.
// All fields are comparable so controllers can detect changes with ==.
type Draft struct {
	InputMode         string          `json:"inputMode"` // "topic" or "file"
	Topic             string          `json:"topic"`
	CustomTitle       string          `json:"customTitle"`
	AdditionalContext string          `json:"additionalContext"`
	FileName          string          `json:"fileName"`
	FileContent       string          `json:"fileContent"`
	NumQuestions      int             `json:"numQuestions"`
	Difficulty        quiz.Difficulty `json:"difficulty"`
	TimeLimitMinutes  int             `json:"timeLimitMinutes"`
}

const slotKey = "quizforge_draft"

// Store persists a single draft slot.
type Store struct{ kv kv.Store }

func NewStore(backend kv.Store) *Store { return &Store{kv: backend} }

func (s *Store) Save(d Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.kv.Set(slotKey, b)
}

// Load returns the saved draft, or nil when no usable draft exists.
// Corrupt data is treated the same as absence.
func (s *Store) Load() *Draft {
	b, err := s.kv.Get(slotKey)
	if err != nil {
		return nil
	}
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil
	}
	return &d
}

func (s *Store) Clear() error { return s.kv.Remove(slotKey) }
