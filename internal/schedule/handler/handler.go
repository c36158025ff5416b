// Package handler exposes the schedule HTTP surface: interviews and the
// candidate timeline.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"campushire/internal/schedule/models"
	"campushire/internal/schedule/service"
	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
	"campushire/pkg/platform/httputil"
)

// Handler wires schedule endpoints to the schedule service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts schedule endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/interviews", h.HandleSchedule)
	r.Patch("/interviews/{interviewID}/status", h.HandleSetStatus)
	r.Get("/candidates/{candidateID}/interviews", h.HandleInterviews)
	r.Get("/candidates/{candidateID}/calendar", h.HandleMonth)
}

type scheduleRequest struct {
	CandidateID string    `json:"candidate_id"`
	RoleID      string    `json:"role_id"`
	CompanyName string    `json:"company_name"`
	Stage       string    `json:"stage"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[scheduleRequest](w, r)
	if !ok {
		return
	}
	candidateID, err := id.ParseCandidateID(req.CandidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	roleID, err := id.ParseRoleID(req.RoleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	interview, err := h.service.Schedule(r.Context(), candidateID, roleID, req.CompanyName, req.Stage, req.ScheduledAt)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, interview)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	interviewID, err := id.ParseInterviewID(chi.URLParam(r, "interviewID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[statusRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.SetStatus(r.Context(), interviewID, models.InterviewStatus(req.Status)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) HandleInterviews(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	flagged, err := h.service.Interviews(r.Context(), candidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"interviews": flagged})
}

// HandleMonth serves the month grid. Year and month come from query
// parameters; both are required.
func (h *Handler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "year query parameter is required"))
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "month query parameter must be 1-12"))
		return
	}

	view, err := h.service.Month(r.Context(), candidateID, year, time.Month(month))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
