package matching

import (
	"sort"

	"volunteerhub-workers/internal/models"
)

// OptimizeRequest describes one assignment-optimization run for an event.
type OptimizeRequest struct {
	Event      *models.Event
	Candidates []*models.VolunteerProfile

	// Existing assignments for the event, used for duplicate avoidance and
	// preserve-confirmed capacity accounting.
	Existing []models.AssignmentCandidate

	MinScore       int
	MaxAssignments int

	// PreserveConfirmed keeps already-confirmed volunteers in their slots:
	// they are never re-ranked or replaced and they count against capacity.
	PreserveConfirmed bool
}

// ProposedAssignment is one selected volunteer with the score that earned it.
type ProposedAssignment struct {
	VolunteerID  string `json:"volunteerId"`
	TotalScore   int    `json:"totalScore"`
	MatchQuality string `json:"matchQuality"`
}

// OptimizeResult is the outcome of a run. AtCapacity with a message is a
// valid result, not an error.
type OptimizeResult struct {
	EventID    string               `json:"eventId"`
	OpenSlots  int                  `json:"openSlots"`
	AtCapacity bool                 `json:"atCapacity"`
	Message    string               `json:"message,omitempty"`
	Proposed   []ProposedAssignment `json:"proposed"`
}

// OptimizeAssignments scores every candidate, filters out scores below
// MinScore, sorts descending by total score, and proposes at most
// min(MaxAssignments, open slots) assignments. Volunteers with an existing
// assignment are never proposed again.
func (e *Engine) OptimizeAssignments(req OptimizeRequest) *OptimizeResult {
	event := req.Event

	assigned := make(map[string]struct{}, len(req.Existing))
	confirmedCount := 0
	for _, existing := range req.Existing {
		assigned[existing.VolunteerID] = struct{}{}
		if existing.Status == models.AssignmentStatusConfirmed {
			confirmedCount++
		}
	}

	occupied := event.CurrentVolunteers
	if req.PreserveConfirmed && confirmedCount > occupied {
		// Confirmed assignments occupy slots even when the event's counter
		// has not caught up with them.
		occupied = confirmedCount
	}

	openSlots := event.MaxVolunteers - occupied
	if openSlots <= 0 {
		return &OptimizeResult{
			EventID:    event.ID,
			OpenSlots:  0,
			AtCapacity: true,
			Message:    "Event is at capacity; no open volunteer slots remain.",
			Proposed:   []ProposedAssignment{},
		}
	}

	seen := make(map[string]struct{}, len(req.Candidates))
	var ranked []ProposedAssignment
	for _, candidate := range req.Candidates {
		if candidate == nil || candidate.ID == "" {
			continue
		}
		if _, dup := seen[candidate.ID]; dup {
			continue
		}
		seen[candidate.ID] = struct{}{}

		if _, already := assigned[candidate.ID]; already {
			continue
		}

		result := e.CalculateMatchScore(candidate, event)
		if result.Error != "" || result.TotalScore < req.MinScore {
			continue
		}

		ranked = append(ranked, ProposedAssignment{
			VolunteerID:  candidate.ID,
			TotalScore:   result.TotalScore,
			MatchQuality: result.MatchQuality,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	limit := openSlots
	if req.MaxAssignments > 0 && req.MaxAssignments < limit {
		limit = req.MaxAssignments
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []ProposedAssignment{}
	}

	result := &OptimizeResult{
		EventID:   event.ID,
		OpenSlots: openSlots,
		Proposed:  ranked,
	}
	if len(ranked) == 0 {
		result.Message = "No candidates met the minimum match score."
	}
	return result
}
