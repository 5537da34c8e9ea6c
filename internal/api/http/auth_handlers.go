package http

import (
	"encoding/json"
	"net/http"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/session"
)

type authResponse struct {
	AccessToken string    `json:"access_token"`
	User        auth.User `json:"user"`
}

// POST /auth/register  { "email": "..." }
// Registering logs the user straight in: a token is issued and a session
// created on the dashboard.
func RegisterHandler(users *auth.Users, svc *auth.AuthService, reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		usr, err := users.Register(r.Context(), req.Email)
		if err != nil {
			writeErr(w, err)
			return
		}
		tok, err := svc.IssueJWT(usr.Email)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		reg.Get(r.Context(), usr.Email)
		_ = json.NewEncoder(w).Encode(authResponse{AccessToken: tok, User: usr})
	}
}

// POST /auth/login  { "email": "..." }
func LoginHandler(users *auth.Users, svc *auth.AuthService, reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		usr, err := users.Login(r.Context(), req.Email)
		if err != nil {
			writeErr(w, err)
			return
		}
		tok, err := svc.IssueJWT(usr.Email)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		reg.Get(r.Context(), usr.Email)
		_ = json.NewEncoder(w).Encode(authResponse{AccessToken: tok, User: usr})
	}
}

// POST /auth/logout
func LogoutHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg.Drop(r.Context(), auth.SubjectFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
