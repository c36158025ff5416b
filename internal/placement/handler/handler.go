// Package handler exposes the placement HTTP surface: candidates, roles,
// admissions, and application status transitions.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campushire/internal/placement/models"
	"campushire/internal/placement/service"
	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
	"campushire/pkg/platform/httputil"
)

// CandidateWriter is the slice of the candidate store the handler needs for
// profile creation and freezing.
type CandidateWriter interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	SetFrozen(ctx context.Context, candidateID id.CandidateID, frozen bool) error
}

// RoleWriter is the slice of the role store the handler needs for posting
// and closing roles.
type RoleWriter interface {
	Create(ctx context.Context, role *models.Role) error
	Close(ctx context.Context, roleID id.RoleID) error
}

// Handler wires placement endpoints to the admission service.
type Handler struct {
	service    *service.Service
	candidates CandidateWriter
	roles      RoleWriter
	logger     *slog.Logger
	now        func() time.Time
}

func New(svc *service.Service, candidates CandidateWriter, roles RoleWriter, logger *slog.Logger) *Handler {
	return &Handler{
		service:    svc,
		candidates: candidates,
		roles:      roles,
		logger:     logger,
		now:        time.Now,
	}
}

// Register mounts placement endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/candidates", h.HandleCreateCandidate)
	r.Post("/candidates/{candidateID}/freeze", h.HandleFreezeCandidate)
	r.Get("/candidates/{candidateID}/roles", h.HandleRankedRoles)
	r.Get("/candidates/{candidateID}/applications", h.HandleCandidateApplications)

	r.Post("/roles", h.HandleCreateRole)
	r.Post("/roles/{roleID}/close", h.HandleCloseRole)
	r.Post("/roles/{roleID}/apply", h.HandleApply)
	r.Get("/roles/{roleID}/applicants", h.HandleApplicants)

	r.Patch("/applications/{applicationID}/status", h.HandleAdvanceApplication)
}

type createCandidateRequest struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
	GPA    float64  `json:"gpa"`
}

func (h *Handler) HandleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createCandidateRequest](w, r)
	if !ok {
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "name is required"))
		return
	}
	if req.GPA < 0 || req.GPA > 10 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "gpa must be on the 0-10 scale"))
		return
	}

	now := h.now()
	candidate := &models.Candidate{
		ID:        id.NewCandidateID(),
		Name:      req.Name,
		Skills:    req.Skills,
		GPA:       req.GPA,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.candidates.Create(r.Context(), candidate); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create candidate"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, candidate)
}

type freezeRequest struct {
	Frozen bool `json:"frozen"`
}

func (h *Handler) HandleFreezeCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[freezeRequest](w, r)
	if !ok {
		return
	}
	if err := h.candidates.SetFrozen(r.Context(), candidateID, req.Frozen); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "candidate not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"frozen": req.Frozen})
}

func (h *Handler) HandleRankedRoles(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ranked, err := h.service.RankedRoles(r.Context(), candidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"roles": ranked})
}

func (h *Handler) HandleCandidateApplications(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	applications, err := h.service.CandidateApplications(r.Context(), candidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"applications": applications})
}

type createRoleRequest struct {
	CompanyName   string    `json:"company_name"`
	Title         string    `json:"title"`
	Requirements  []string  `json:"requirements"`
	MaxApplicants int       `json:"max_applicants"`
	Deadline      time.Time `json:"deadline"`
}

func (h *Handler) HandleCreateRole(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createRoleRequest](w, r)
	if !ok {
		return
	}
	role, err := models.NewRole(id.NewRoleID(), req.CompanyName, req.Title, req.Requirements, req.MaxApplicants, req.Deadline, h.now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.roles.Create(r.Context(), role); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create role"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) HandleCloseRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := id.ParseRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.roles.Close(r.Context(), roleID); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "role not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(models.RoleStatusClosed)})
}

type applyRequest struct {
	CandidateID string `json:"candidate_id"`
}

func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	roleID, err := id.ParseRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[applyRequest](w, r)
	if !ok {
		return
	}
	candidateID, err := id.ParseCandidateID(req.CandidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	application, err := h.service.Admit(r.Context(), candidateID, roleID)
	if err != nil {
		h.logger.InfoContext(r.Context(), "admission denied",
			"candidate_id", candidateID,
			"role_id", roleID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "admission accepted",
		"candidate_id", candidateID,
		"role_id", roleID,
		"queue_rank", application.QueueRank,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, application)
}

func (h *Handler) HandleApplicants(w http.ResponseWriter, r *http.Request) {
	roleID, err := id.ParseRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	applicants, err := h.service.Applicants(r.Context(), roleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"applicants": applicants})
}

type advanceRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleAdvanceApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[advanceRequest](w, r)
	if !ok {
		return
	}

	application, err := h.service.AdvanceApplication(r.Context(), applicationID, models.ApplicationStatus(req.Status))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, application)
}
