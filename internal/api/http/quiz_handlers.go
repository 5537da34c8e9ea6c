package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/session"
)

// GET /quizzes
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []quiz.Quiz{}
		}
		_ = json.NewEncoder(w).Encode(list)
	}
}

// DELETE /quizzes/{quizID}
// Deletion goes through the session so its cached list stays consistent.
func DeleteQuizHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := reg.Get(r.Context(), auth.SubjectFromContext(r.Context()))
		s.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID"))
		w.WriteHeader(http.StatusNoContent)
	}
}
