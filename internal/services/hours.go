package services

import (
	"math"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

// HoursRequest tells the completion step how to credit hours.
type HoursRequest struct {
	Mode constants.HoursMode `json:"mode"`
	// Hours is required in manual mode.
	Hours *float64 `json:"hours,omitempty"`
	// CreditTo names the recipient of manual hours; it defaults to the
	// actor completing the task.
	CreditTo *string `json:"credit_to,omitempty"`
}

// Credit is one participant's share of a completion.
type Credit struct {
	UserID string
	Hours  float64
}

// RoundQuarter rounds hours to the nearest quarter hour, halves away from zero.
func RoundQuarter(hours float64) float64 {
	return math.Round(hours*4) / 4
}

// Participants returns the owner followed by the pool, without duplicates.
func Participants(ownerID *string, volunteers []string) []string {
	seen := make(map[string]bool, len(volunteers)+1)
	var out []string
	if ownerID != nil && *ownerID != "" {
		seen[*ownerID] = true
		out = append(out, *ownerID)
	}
	for _, id := range volunteers {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// EstimatedCredits splits the task's full budget, estimated hours times the
// number of volunteers needed, evenly across the people who took part.
//
// A task needing 5 helpers for 2 hours each is 10 person-hours; when only 2
// people show up each is credited 5 hours. A share that rounds to zero
// credits nobody.
func EstimatedCredits(estimated *float64, volunteersNeeded int, participants []string) []Credit {
	if estimated == nil || *estimated <= 0 || len(participants) == 0 {
		return nil
	}
	needed := volunteersNeeded
	if needed < 1 {
		needed = 1
	}

	share := RoundQuarter(*estimated * float64(needed) / float64(len(participants)))
	if share <= 0 {
		return nil
	}
	credits := make([]Credit, 0, len(participants))
	for _, userID := range participants {
		credits = append(credits, Credit{UserID: userID, Hours: share})
	}
	return credits
}

// Validate checks the request shape before any transaction is opened.
func (r HoursRequest) Validate() error {
	mode := r.Mode
	if mode == "" {
		mode = constants.HoursSkip
	}
	if !mode.Valid() {
		return apperrors.Validation("hours mode must be estimated, manual or skip")
	}
	if mode != constants.HoursManual {
		return nil
	}
	if r.Hours == nil {
		return apperrors.Validation("hours are required in manual mode")
	}
	h := *r.Hours
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return apperrors.Validation("manual hours must be a positive number")
	}
	if r.CreditTo != nil && *r.CreditTo == "" {
		return apperrors.Validation("credit_to must not be empty")
	}
	return nil
}

// planCredits decides who receives what for one completion of task.
func planCredits(task *model.Task, volunteers []string, actorID string, req HoursRequest) ([]Credit, error) {
	switch req.Mode {
	case constants.HoursManual:
		recipient := derefOr(req.CreditTo, actorID)
		allowed := Participants(task.OwnerID, volunteers)
		allowed = append(allowed, actorID)
		if !contains(allowed, recipient) {
			return nil, apperrors.Validation("hours can only be credited to the completer, the owner or a volunteer")
		}
		return []Credit{{UserID: recipient, Hours: *req.Hours}}, nil
	case constants.HoursEstimated:
		participants := Participants(task.OwnerID, volunteers)
		if len(participants) == 0 {
			participants = []string{actorID}
		}
		return EstimatedCredits(task.EstimatedHours, task.VolunteersNeeded, participants), nil
	default:
		return nil, nil
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
