// Package handler exposes the challenge HTTP surface: challenge CRUD,
// submissions, and the leaderboard.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"campushire/internal/challenge/models"
	"campushire/internal/challenge/service"
	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
	"campushire/pkg/platform/httputil"
)

// Handler wires challenge endpoints to the challenge service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts challenge endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/challenges", h.HandleCreate)
	r.Get("/challenges", h.HandleList)
	r.Get("/challenges/{challengeID}", h.HandleGet)
	r.Post("/challenges/{challengeID}/submissions", h.HandleSubmit)
	r.Get("/candidates/{candidateID}/submissions", h.HandleSubmissions)
	r.Get("/leaderboard", h.HandleLeaderboard)
}

type createRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Difficulty   string            `json:"difficulty"`
	RewardPoints int               `json:"reward_points"`
	Deadline     time.Time         `json:"deadline"`
	TestCases    []models.TestCase `json:"test_cases"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createRequest](w, r)
	if !ok {
		return
	}
	challenge, err := h.service.CreateChallenge(r.Context(), req.Title, req.Description,
		models.Difficulty(req.Difficulty), req.RewardPoints, req.Deadline, req.TestCases)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, challenge)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.service.Challenges(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"challenges": challenges})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	challengeID, err := id.ParseChallengeID(chi.URLParam(r, "challengeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	challenge, err := h.service.Challenge(r.Context(), challengeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, challenge)
}

type submitRequest struct {
	CandidateID string `json:"candidate_id"`
	Code        string `json:"code"`
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	challengeID, err := id.ParseChallengeID(chi.URLParam(r, "challengeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[submitRequest](w, r)
	if !ok {
		return
	}
	candidateID, err := id.ParseCandidateID(req.CandidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), candidateID, challengeID, req.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "submission handled",
		"candidate_id", candidateID,
		"challenge_id", challengeID,
		"verdict", result.Submission.Verdict,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) HandleSubmissions(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	submissions, err := h.service.Submissions(r.Context(), candidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"submissions": submissions})
}

func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		n = parsed
	}

	entries, err := h.service.Leaderboard(r.Context(), n)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
