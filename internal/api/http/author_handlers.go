package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/session"
)

const (
	minQuestions  = 5
	maxQuestions  = 50
	maxUploadSize = 20 << 20 // 20 MiB
)

// POST /session/author/form
// Partial update of the authoring form; absent fields are untouched.
func AuthorFormHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			InputMode         *string `json:"inputMode"`
			Topic             *string `json:"topic"`
			CustomTitle       *string `json:"customTitle"`
			AdditionalContext *string `json:"additionalContext"`
			NumQuestions      *int    `json:"numQuestions"`
			Difficulty        *string `json:"difficulty"`
			TimeLimitMinutes  *int    `json:"timeLimitMinutes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		s := currentSession(reg, r)
		ctrl, err := s.Author()
		if err != nil {
			writeErr(w, err)
			return
		}
		if req.InputMode != nil {
			ctrl.SetInputMode(*req.InputMode)
		}
		if req.Topic != nil {
			ctrl.SetTopic(*req.Topic)
		}
		if req.CustomTitle != nil {
			ctrl.SetCustomTitle(*req.CustomTitle)
		}
		if req.AdditionalContext != nil {
			ctrl.SetAdditionalContext(*req.AdditionalContext)
		}
		if req.NumQuestions != nil {
			if *req.NumQuestions < minQuestions || *req.NumQuestions > maxQuestions {
				http.Error(w, "numQuestions must be between 5 and 50", 400)
				return
			}
			ctrl.SetNumQuestions(*req.NumQuestions)
		}
		if req.Difficulty != nil {
			d, ok := quiz.ParseDifficulty(*req.Difficulty)
			if !ok {
				http.Error(w, "unknown difficulty", 400)
				return
			}
			ctrl.SetDifficulty(d)
		}
		if req.TimeLimitMinutes != nil {
			if *req.TimeLimitMinutes < 0 {
				http.Error(w, "timeLimitMinutes must not be negative", 400)
				return
			}
			ctrl.SetTimeLimit(*req.TimeLimitMinutes)
		}
		_ = json.NewEncoder(w).Encode(s.State())
	}
}

// POST /session/author/file  (multipart, field "file")
// Extraction runs in the background; poll GET /session for the outcome.
func AuthorFileHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "file too large or bad multipart body", 400)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field required", 400)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		s := currentSession(reg, r)
		ctrl, err := s.Author()
		if err != nil {
			writeErr(w, err)
			return
		}
		ctrl.AttachFile(hdr.Filename, data)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(s.State())
	}
}

// POST /session/author/draft/{action}: restore, dismiss, save, discard
func AuthorDraftHandler(reg *session.Registry, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(reg, r)
		ctrl, err := s.Author()
		if err != nil {
			writeErr(w, err)
			return
		}
		switch action {
		case "restore":
			ctrl.RestoreDraft()
		case "dismiss":
			ctrl.DismissDraft()
		case "save":
			err = ctrl.SaveDraft()
		case "discard":
			err = ctrl.DiscardDraft()
		default:
			http.Error(w, "unknown draft action", 400)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(s.State())
	}
}

// POST /session/author/submit
// On success the session is back on the dashboard with the new quiz first
// in the list. Generation failures keep the form intact for a retry.
func AuthorSubmitHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := currentSession(reg, r)
		q, err := s.SubmitAuthoring(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(q)
	}
}
