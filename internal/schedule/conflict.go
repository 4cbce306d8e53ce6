package schedule

import (
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

// ConflictType classifies an advisory scheduling conflict.
type ConflictType string

const (
	ConflictOverlap         ConflictType = "overlap"
	ConflictTightTransition ConflictType = "tight_transition"
)

// TightGapMinutes is the threshold under which back-to-back events for the
// same member are flagged as a tight transition.
const TightGapMinutes = 15

// Conflict is an advisory finding against one existing event. Conflicts
// never block a save; callers present them and let the user override.
type Conflict struct {
	Type            ConflictType `json:"type"`
	Event           model.Event  `json:"event"`
	GapMinutes      int          `json:"gap_minutes,omitempty"`
	AffectedMembers []int64      `json:"affected_members"`
}

// Candidate is the event being checked. ID is zero for a new event and set
// when re-checking an edit, so the event never conflicts with itself.
type Candidate struct {
	ID         int64
	Start      time.Time
	End        time.Time
	AssignedTo []int64
}

// DetectConflicts compares the candidate against every active event that
// shares at least one assignee and reports overlaps and tight transitions.
// The scan is linear over the live event set, which is fine at household
// scale.
//
// The tight-transition check only measures from the other event's end to the
// candidate's start; a short gap after the candidate ends is not flagged.
func DetectConflicts(candidate Candidate, events []model.Event) []Conflict {
	var conflicts []Conflict

	for _, other := range events {
		if other.ID == candidate.ID || other.Deleted() {
			continue
		}
		shared := intersect(candidate.AssignedTo, other.AssignedTo)
		if len(shared) == 0 {
			continue
		}

		if candidate.Start.Before(other.EndTime) && candidate.End.After(other.StartTime) {
			conflicts = append(conflicts, Conflict{
				Type:            ConflictOverlap,
				Event:           other,
				AffectedMembers: shared,
			})
			continue
		}

		gap := candidate.Start.Sub(other.EndTime)
		if gap < 0 {
			gap = -gap
		}
		if gap > 0 && gap < TightGapMinutes*time.Minute {
			conflicts = append(conflicts, Conflict{
				Type:            ConflictTightTransition,
				Event:           other,
				GapMinutes:      int(gap / time.Minute),
				AffectedMembers: shared,
			})
		}
	}

	return conflicts
}

// intersect returns the member ids present in both lists, preserving the
// order of the first list.
func intersect(a, b []int64) []int64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	var out []int64
	for _, id := range a {
		if set[id] {
			out = append(out, id)
			set[id] = false
		}
	}
	return out
}
