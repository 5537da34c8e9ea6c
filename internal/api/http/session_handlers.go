package http

import (
	"encoding/json"
	"net/http"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/session"
)

func currentSession(reg *session.Registry, r *http.Request) *session.Session {
	return reg.Get(r.Context(), auth.SubjectFromContext(r.Context()))
}

// GET /session
func SessionStateHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(currentSession(reg, r).State())
	}
}

// POST /session/navigate  { "target": "creating" }
// Answers with the resulting snapshot; a non-empty prompt means the caller
// must POST a choice before the screen changes.
func NavigateHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Target session.Screen `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		s := currentSession(reg, r)
		s.Navigate(r.Context(), req.Target)
		_ = json.NewEncoder(w).Encode(s.State())
	}
}

// POST /session/choice  { "choice": "save_exit" }
func GuardChoiceHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Choice session.GuardChoice `json:"choice"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		s := currentSession(reg, r)
		s.Choose(r.Context(), req.Choice)
		_ = json.NewEncoder(w).Encode(s.State())
	}
}
