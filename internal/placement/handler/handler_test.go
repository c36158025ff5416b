package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"campushire/internal/placement/handler"
	"campushire/internal/placement/models"
	"campushire/internal/placement/service"
	applicationstore "campushire/internal/placement/store/application"
	candidatestore "campushire/internal/placement/store/candidate"
	rolestore "campushire/internal/placement/store/role"
	id "campushire/pkg/domain"
)

type HandlerSuite struct {
	suite.Suite

	candidates *candidatestore.InMemory
	roles      *rolestore.InMemory
	router     chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.candidates = candidatestore.NewInMemory()
	s.roles = rolestore.NewInMemory()
	applications := applicationstore.NewInMemory()

	svc := service.New(s.candidates, s.roles, applications)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	handler.New(svc, s.candidates, s.roles, logger).Register(s.router)
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) seedCandidate(skills []string, gpa float64) *models.Candidate {
	now := time.Now()
	candidate := &models.Candidate{
		ID:        id.NewCandidateID(),
		Name:      "Dev Mehta",
		Skills:    skills,
		GPA:       gpa,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.candidates.Create(context.Background(), candidate))
	return candidate
}

func (s *HandlerSuite) seedRole(requirements []string, maxApplicants int) *models.Role {
	now := time.Now()
	role, err := models.NewRole(id.NewRoleID(), "Acme", "Data Intern", requirements, maxApplicants, now.AddDate(0, 1, 0), now)
	s.Require().NoError(err)
	s.Require().NoError(s.roles.Create(context.Background(), role))
	return role
}

func (s *HandlerSuite) TestCreateCandidate() {
	w := s.do(http.MethodPost, "/candidates", map[string]any{
		"name":   "Priya Shah",
		"skills": []string{"Go", "SQL"},
		"gpa":    8.4,
	})
	s.Equal(http.StatusCreated, w.Code)

	var resp models.Candidate
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("Priya Shah", resp.Name)
	s.False(resp.ID.IsNil())
}

func (s *HandlerSuite) TestCreateCandidateRejectsBadGPA() {
	w := s.do(http.MethodPost, "/candidates", map[string]any{
		"name": "Priya Shah",
		"gpa":  11.0,
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCreateRoleRejectsZeroCapacity() {
	w := s.do(http.MethodPost, "/roles", map[string]any{
		"company_name":   "Acme",
		"title":          "Intern",
		"max_applicants": 0,
	})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerSuite) TestApplyHappyPath() {
	candidate := s.seedCandidate([]string{"Go"}, 8.0)
	role := s.seedRole([]string{"Go"}, 2)

	w := s.do(http.MethodPost, fmt.Sprintf("/roles/%s/apply", role.ID), map[string]string{
		"candidate_id": candidate.ID.String(),
	})
	s.Equal(http.StatusCreated, w.Code)

	var resp models.Application
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(1, resp.QueueRank)
	s.Equal(models.StatusApplied, resp.Status)
}

func (s *HandlerSuite) TestApplyConflictAtCapacity() {
	role := s.seedRole([]string{"Go"}, 1)
	first := s.seedCandidate([]string{"Go"}, 7.0)
	second := s.seedCandidate([]string{"Go"}, 9.0)

	w := s.do(http.MethodPost, fmt.Sprintf("/roles/%s/apply", role.ID), map[string]string{
		"candidate_id": first.ID.String(),
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/roles/%s/apply", role.ID), map[string]string{
		"candidate_id": second.ID.String(),
	})
	s.Equal(http.StatusConflict, w.Code)

	var resp map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("conflict", resp["error"])
}

func (s *HandlerSuite) TestApplyRejectsMalformedCandidateID() {
	role := s.seedRole([]string{"Go"}, 1)

	w := s.do(http.MethodPost, fmt.Sprintf("/roles/%s/apply", role.ID), map[string]string{
		"candidate_id": "not-a-uuid",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestRankedRoles() {
	candidate := s.seedCandidate([]string{"Go", "SQL"}, 8.0)
	s.seedRole([]string{"Go", "SQL"}, 3)
	s.seedRole([]string{"Rust"}, 3)

	w := s.do(http.MethodGet, fmt.Sprintf("/candidates/%s/roles", candidate.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	var resp struct {
		Roles []service.RankedRole `json:"roles"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Roles, 2)
	s.GreaterOrEqual(resp.Roles[0].MatchScore, resp.Roles[1].MatchScore)
}

func (s *HandlerSuite) TestFreezeBlocksApply() {
	candidate := s.seedCandidate([]string{"Go"}, 8.0)
	role := s.seedRole([]string{"Go"}, 3)

	w := s.do(http.MethodPost, fmt.Sprintf("/candidates/%s/freeze", candidate.ID), map[string]bool{"frozen": true})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/roles/%s/apply", role.ID), map[string]string{
		"candidate_id": candidate.ID.String(),
	})
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestAdvanceApplicationStatus() {
	candidate := s.seedCandidate([]string{"Go"}, 8.0)
	role := s.seedRole([]string{"Go"}, 3)

	w := s.do(http.MethodPost, fmt.Sprintf("/roles/%s/apply", role.ID), map[string]string{
		"candidate_id": candidate.ID.String(),
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var created models.Application
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(http.MethodPatch, fmt.Sprintf("/applications/%s/status", created.ID), map[string]string{
		"status": "shortlisted",
	})
	s.Equal(http.StatusOK, w.Code)

	// Moving back to applied violates forward-only progression.
	w = s.do(http.MethodPatch, fmt.Sprintf("/applications/%s/status", created.ID), map[string]string{
		"status": "applied",
	})
	s.Equal(http.StatusConflict, w.Code)
}
