package http

import (
	"errors"
	"net/http"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/author"
	"github.com/quizforge/quizforge/internal/extract"
	"github.com/quizforge/quizforge/internal/genai"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/session"
	"github.com/quizforge/quizforge/internal/taking"
)

// statusFor maps domain errors onto HTTP status codes. Unknown errors are
// treated as server faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrBadEmail),
		errors.Is(err, author.ErrEmptyInput),
		errors.Is(err, extract.ErrUnsupportedFormat),
		errors.Is(err, taking.ErrEmptyQuiz):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrAlreadyExists),
		errors.Is(err, author.ErrFileNotReady),
		errors.Is(err, session.ErrWrongScreen):
		return http.StatusConflict
	case errors.Is(err, auth.ErrNotFound),
		errors.Is(err, quiz.ErrNotFound),
		errors.Is(err, session.ErrNoSuchQuiz):
		return http.StatusNotFound
	case errors.Is(err, genai.ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, genai.ErrSafetyRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, genai.ErrNotConfigured),
		errors.Is(err, genai.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, genai.ErrMalformedResponse):
		return http.StatusBadGateway
	}
	var ce *extract.CorruptError
	if errors.As(err, &ce) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}
