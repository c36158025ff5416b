package service

import (
	"context"

	placementports "campushire/internal/placement/ports"
	"campushire/internal/schedule/models"
	id "campushire/pkg/domain"
)

// PlacementDeadlineSource adapts the placement stores into a DeadlineSource:
// the deadlines that matter to a candidate are those of roles they applied
// to.
type PlacementDeadlineSource struct {
	applications placementports.ApplicationStore
	roles        placementports.RoleStore
}

func NewPlacementDeadlineSource(applications placementports.ApplicationStore, roles placementports.RoleStore) *PlacementDeadlineSource {
	return &PlacementDeadlineSource{applications: applications, roles: roles}
}

func (s *PlacementDeadlineSource) RoleDeadlines(ctx context.Context, candidateID id.CandidateID) ([]models.DeadlineEvent, error) {
	applications, err := s.applications.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	deadlines := make([]models.DeadlineEvent, 0, len(applications))
	for _, application := range applications {
		role, err := s.roles.FindByID(ctx, application.RoleID)
		if err != nil {
			return nil, err
		}
		if role.Deadline.IsZero() {
			continue
		}
		deadlines = append(deadlines, models.DeadlineEvent{
			RoleID: role.ID,
			Title:  role.Title,
			At:     role.Deadline,
		})
	}
	return deadlines, nil
}
