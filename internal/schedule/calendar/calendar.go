// Package calendar merges interviews and deadlines into a day-bucketed
// timeline with a month-grid view.
package calendar

import (
	"sort"
	"time"

	"campushire/internal/schedule/models"
)

// DayKey identifies one calendar day in the aggregator's reference location.
type DayKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// Timeline is the immutable result of one aggregation pass. Events inside a
// bucket keep chronological order.
type Timeline struct {
	loc     *time.Location
	buckets map[DayKey][]models.CalendarEvent
}

// Day is one cell of a month grid. Events is empty, never nil, for days
// without entries.
type Day struct {
	Date   time.Time              `json:"date"`
	Events []models.CalendarEvent `json:"events"`
}

// MonthView is a render-ready month: every day of the month in order, plus
// the number of blank cells a Monday-first grid needs before day 1.
type MonthView struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	LeadingBlanks int        `json:"leading_blanks"`
	Days          []Day      `json:"days"`
}

// Aggregator buckets events by calendar day in a single reference location
// so an interview at 23:30 and a deadline at 00:15 land on the days a user
// in that location would expect.
type Aggregator struct {
	loc *time.Location
}

func New(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{loc: loc}
}

// Aggregate merges the three sources into one day-bucketed timeline. Inputs
// are read only; calling twice with the same inputs yields equal timelines.
func (a *Aggregator) Aggregate(interviews []*models.Interview, roleDeadlines []models.DeadlineEvent, challengeDeadlines []models.ChallengeEvent) *Timeline {
	events := make([]models.CalendarEvent, 0, len(interviews)+len(roleDeadlines)+len(challengeDeadlines))
	for _, interview := range interviews {
		if interview.Status == models.InterviewCancelled {
			continue
		}
		events = append(events, models.InterviewEvent{Interview: interview})
	}
	for _, deadline := range roleDeadlines {
		events = append(events, deadline)
	}
	for _, deadline := range challengeDeadlines {
		events = append(events, deadline)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].When().Before(events[j].When())
	})

	buckets := make(map[DayKey][]models.CalendarEvent)
	for _, event := range events {
		key := a.dayOf(event.When())
		buckets[key] = append(buckets[key], event)
	}
	return &Timeline{loc: a.loc, buckets: buckets}
}

func (a *Aggregator) dayOf(t time.Time) DayKey {
	local := t.In(a.loc)
	return DayKey{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// Events returns the bucket for one day in chronological order.
func (t *Timeline) Events(key DayKey) []models.CalendarEvent {
	return append([]models.CalendarEvent(nil), t.buckets[key]...)
}

// Days returns the populated day keys in chronological order.
func (t *Timeline) Days() []DayKey {
	keys := make([]DayKey, 0, len(t.buckets))
	for key := range t.buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
	return keys
}

// Month returns the full grid for one month: every day present, empty days
// included, with the Monday-first leading blank count for rendering.
func (t *Timeline) Month(year int, month time.Month) MonthView {
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	view := MonthView{
		Year:          year,
		Month:         month,
		LeadingBlanks: mondayIndex(first.Weekday()),
		Days:          make([]Day, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		key := DayKey{Year: year, Month: month, Day: day}
		events := t.buckets[key]
		view.Days = append(view.Days, Day{
			Date:   time.Date(year, month, day, 0, 0, 0, 0, t.loc),
			Events: append([]models.CalendarEvent{}, events...),
		})
	}
	return view
}

// mondayIndex maps Go's Sunday-first weekday onto a Monday-first grid.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
