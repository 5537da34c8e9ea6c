package http

import (
	"encoding/json"
	"net/http"

	"github.com/quizforge/quizforge/internal/session"
)

// POST /session/take  { "quizId": "..." }
func StartTakingHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID string `json:"quizId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		s := currentSession(reg, r)
		if err := s.StartTaking(r.Context(), req.QuizID); err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(s.State())
	}
}

// POST /session/take/select  { "option": 2 }
func SelectAnswerHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Option int `json:"option"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		s := currentSession(reg, r)
		eng, err := s.Engine()
		if err != nil {
			writeErr(w, err)
			return
		}
		eng.Select(req.Option)
		_ = json.NewEncoder(w).Encode(s.State())
	}
}

// POST /session/take/next and /session/take/previous
func MoveQuestionHandler(reg *session.Registry, forward bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(reg, r)
		eng, err := s.Engine()
		if err != nil {
			writeErr(w, err)
			return
		}
		if forward {
			eng.Next()
		} else {
			eng.Previous()
		}
		_ = json.NewEncoder(w).Encode(s.State())
	}
}

// POST /session/take/submit
// First submission wins; if the timer beat the caller this is a no-op and
// the snapshot already shows the results screen.
func SubmitAttemptHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(reg, r)
		eng, err := s.Engine()
		if err != nil {
			if s.State().Screen == session.ScreenViewingResults {
				_ = json.NewEncoder(w).Encode(s.State())
				return
			}
			writeErr(w, err)
			return
		}
		eng.Submit()
		_ = json.NewEncoder(w).Encode(s.State())
	}
}
