// Package handler exposes the AI scoring HTTP surface.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campushire/internal/scoring/service"
	dErrors "campushire/pkg/domain-errors"
	"campushire/pkg/platform/httputil"
)

// Handler wires scoring endpoints to the scoring service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts scoring endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/scoring/resume", h.HandleResume)
	r.Post("/scoring/interview", h.HandleInterview)
}

type resumeRequest struct {
	ResumeText string `json:"resume_text"`
}

func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[resumeRequest](w, r)
	if !ok {
		return
	}
	if req.ResumeText == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "resume_text is required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.AnalyzeResume(r.Context(), req.ResumeText))
}

type interviewRequest struct {
	Transcript string `json:"transcript"`
	Question   string `json:"question"`
	Field      string `json:"field"`
}

func (h *Handler) HandleInterview(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[interviewRequest](w, r)
	if !ok {
		return
	}
	if req.Transcript == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "transcript is required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.AnalyzeInterview(r.Context(), req.Transcript, req.Question, req.Field))
}
