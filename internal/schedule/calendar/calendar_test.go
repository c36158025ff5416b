package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campushire/internal/schedule/calendar"
	"campushire/internal/schedule/models"
	id "campushire/pkg/domain"
)

func interview(at time.Time, company string) *models.Interview {
	return &models.Interview{
		ID:          id.NewInterviewID(),
		CandidateID: id.NewCandidateID(),
		RoleID:      id.NewRoleID(),
		CompanyName: company,
		ScheduledAt: at,
		Status:      models.InterviewScheduled,
	}
}

func marchFixture(t *testing.T) *calendar.Timeline {
	t.Helper()
	agg := calendar.New(time.UTC)

	interviews := []*models.Interview{
		interview(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), "Acme"),
		interview(time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC), "Globex"),
	}
	deadlines := []models.DeadlineEvent{
		{RoleID: id.NewRoleID(), Title: "Backend Intern", At: time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)},
	}
	return agg.Aggregate(interviews, deadlines, nil)
}

func TestMonthGridMarch2024(t *testing.T) {
	timeline := marchFixture(t)
	view := timeline.Month(2024, time.March)

	// March 2024 has 31 days and starts on a Friday.
	require.Len(t, view.Days, 31)
	assert.Equal(t, 4, view.LeadingBlanks)

	assert.Len(t, view.Days[4].Events, 2)  // March 5
	assert.Len(t, view.Days[9].Events, 1)  // March 10
	assert.Empty(t, view.Days[0].Events)   // March 1
	assert.Empty(t, view.Days[30].Events)  // March 31
	assert.NotNil(t, view.Days[30].Events) // empty days still render
}

func TestMonthGridBucketOrder(t *testing.T) {
	timeline := marchFixture(t)
	view := timeline.Month(2024, time.March)

	events := view.Days[4].Events
	require.Len(t, events, 2)
	assert.True(t, events[0].When().Before(events[1].When()))
}

func TestAggregateIdempotent(t *testing.T) {
	agg := calendar.New(time.UTC)
	interviews := []*models.Interview{
		interview(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), "Acme"),
	}

	first := agg.Aggregate(interviews, nil, nil).Month(2024, time.March)
	second := agg.Aggregate(interviews, nil, nil).Month(2024, time.March)
	assert.Equal(t, first, second)
}

func TestAggregateSkipsCancelledInterviews(t *testing.T) {
	agg := calendar.New(time.UTC)
	cancelled := interview(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), "Acme")
	cancelled.Status = models.InterviewCancelled

	timeline := agg.Aggregate([]*models.Interview{cancelled}, nil, nil)
	assert.Empty(t, timeline.Days())
}

func TestAggregateBucketsInReferenceLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	agg := calendar.New(kolkata)

	// 20:00 UTC on March 5 is already March 6 at 01:30 in Kolkata.
	late := interview(time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC), "Acme")
	timeline := agg.Aggregate([]*models.Interview{late}, nil, nil)

	days := timeline.Days()
	require.Len(t, days, 1)
	assert.Equal(t, calendar.DayKey{Year: 2024, Month: time.March, Day: 6}, days[0])
}

func TestDaysSortedAcrossMonths(t *testing.T) {
	agg := calendar.New(time.UTC)
	interviews := []*models.Interview{
		interview(time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), "Globex"),
		interview(time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC), "Acme"),
	}

	days := agg.Aggregate(interviews, nil, nil).Days()
	require.Len(t, days, 2)
	assert.Equal(t, time.March, days[0].Month)
	assert.Equal(t, time.April, days[1].Month)
}
