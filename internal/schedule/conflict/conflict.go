// Package conflict flags calendar events that sit too close together for a
// candidate to attend both.
package conflict

import (
	"sort"
	"time"

	"campushire/internal/schedule/models"
)

// OverlapWindow is the minimum gap two interviews need to not conflict.
// Anything scheduled strictly closer than this is flagged on both sides.
const OverlapWindow = 60 * time.Minute

// Flagged pairs a calendar event with its conflict marker.
type Flagged struct {
	Event      models.CalendarEvent `json:"event"`
	Conflicted bool                 `json:"conflicted"`
}

// DetectOverlaps returns the events in chronological order with interviews
// flagged when another interview sits within OverlapWindow. Only interview
// pairs conflict: deadlines are all-day markers and never flag anything.
// Flagging is symmetric, and the input slice is never mutated.
func DetectOverlaps(events []models.CalendarEvent) []Flagged {
	ordered := make([]models.CalendarEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].When().Before(ordered[j].When())
	})

	flagged := make([]Flagged, len(ordered))
	for i, event := range ordered {
		flagged[i] = Flagged{Event: event}
	}

	// Pairwise scan over the sorted order. The inner loop stops at the first
	// interview beyond the window, so clustered schedules stay cheap.
	for i := range flagged {
		if flagged[i].Event.Kind() != models.KindInterview {
			continue
		}
		for j := i + 1; j < len(flagged); j++ {
			if flagged[j].Event.Kind() != models.KindInterview {
				continue
			}
			gap := flagged[j].Event.When().Sub(flagged[i].Event.When())
			if gap >= OverlapWindow {
				break
			}
			flagged[i].Conflicted = true
			flagged[j].Conflicted = true
		}
	}
	return flagged
}
