package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/session"
)

type Deps struct {
	Users       *auth.Users
	AuthService *auth.AuthService
	Store       quiz.Store
	Sessions    *session.Registry
	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Post("/auth/register", RegisterHandler(d.Users, d.AuthService, d.Sessions))
	r.Post("/auth/login", LoginHandler(d.Users, d.AuthService, d.Sessions))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.AuthService))

		pr.Post("/auth/logout", LogoutHandler(d.Sessions))

		pr.Get("/quizzes", ListQuizzesHandler(d.Store))
		pr.Delete("/quizzes/{quizID}", DeleteQuizHandler(d.Sessions))

		pr.Route("/session", func(sr chi.Router) {
			sr.Get("/", SessionStateHandler(d.Sessions))
			sr.Post("/navigate", NavigateHandler(d.Sessions))
			sr.Post("/choice", GuardChoiceHandler(d.Sessions))

			sr.Post("/author/form", AuthorFormHandler(d.Sessions))
			sr.Post("/author/file", AuthorFileHandler(d.Sessions))
			sr.Post("/author/draft/restore", AuthorDraftHandler(d.Sessions, "restore"))
			sr.Post("/author/draft/dismiss", AuthorDraftHandler(d.Sessions, "dismiss"))
			sr.Post("/author/draft/save", AuthorDraftHandler(d.Sessions, "save"))
			sr.Post("/author/draft/discard", AuthorDraftHandler(d.Sessions, "discard"))
			sr.Post("/author/submit", AuthorSubmitHandler(d.Sessions))

			sr.Post("/take", StartTakingHandler(d.Sessions))
			sr.Post("/take/select", SelectAnswerHandler(d.Sessions))
			sr.Post("/take/next", MoveQuestionHandler(d.Sessions, true))
			sr.Post("/take/previous", MoveQuestionHandler(d.Sessions, false))
			sr.Post("/take/submit", SubmitAttemptHandler(d.Sessions))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
