package services

import (
	"errors"
	"math"
	"testing"

	apperrors "serve-board.com/serve-board/internal/errors"
	"serve-board.com/serve-board/pkg/constants"
	model "serve-board.com/serve-board/pkg/models"
)

func TestRoundQuarter(t *testing.T) {
	tests := map[float64]float64{
		5:      5,
		0.857:  0.75,
		0.875:  1,
		1.1:    1,
		1.125:  1.25,
		3.3333: 3.25,
	}
	for in, want := range tests {
		if got := RoundQuarter(in); got != want {
			t.Errorf("RoundQuarter(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestParticipantsDeduplicatesOwner(t *testing.T) {
	owner := "olivia"
	got := Participants(&owner, []string{"victor", "olivia", "wendy", "victor"})

	want := []string{"olivia", "victor", "wendy"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("participant %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEstimatedCreditsScalesBudgetToParticipants(t *testing.T) {
	credits := EstimatedCredits(floatPtr(2), 5, []string{"olivia", "victor"})

	if len(credits) != 2 {
		t.Fatalf("expected 2 credits, got %d", len(credits))
	}
	for _, c := range credits {
		if c.Hours != 5 {
			t.Errorf("expected 5 hours for %s, got %v", c.UserID, c.Hours)
		}
	}
}

func TestEstimatedCreditsRoundsToQuarterHours(t *testing.T) {
	credits := EstimatedCredits(floatPtr(1), 2, []string{"a", "b", "c"})

	for _, c := range credits {
		if c.Hours != 0.75 {
			t.Errorf("expected 2/3 hour rounded to 0.75, got %v", c.Hours)
		}
	}
}

func TestEstimatedCreditsWithoutEstimate(t *testing.T) {
	if got := EstimatedCredits(nil, 3, []string{"a"}); got != nil {
		t.Errorf("expected no credits without an estimate, got %v", got)
	}
	if got := EstimatedCredits(floatPtr(0), 3, []string{"a"}); got != nil {
		t.Errorf("expected no credits for a zero estimate, got %v", got)
	}
	if got := EstimatedCredits(floatPtr(0.1), 2, []string{"a", "b"}); got != nil {
		t.Errorf("expected no credits when the share rounds to zero, got %v", got)
	}
}

func TestHoursRequestValidate(t *testing.T) {
	empty := ""
	tests := []struct {
		name string
		req  HoursRequest
		ok   bool
	}{
		{"skip", HoursRequest{Mode: constants.HoursSkip}, true},
		{"default mode", HoursRequest{}, true},
		{"estimated", HoursRequest{Mode: constants.HoursEstimated}, true},
		{"manual", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(1.5)}, true},
		{"manual without hours", HoursRequest{Mode: constants.HoursManual}, false},
		{"manual negative", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(-1)}, false},
		{"manual zero", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(0)}, false},
		{"manual NaN", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(math.NaN())}, false},
		{"manual empty recipient", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(1), CreditTo: &empty}, false},
		{"unknown mode", HoursRequest{Mode: "guess"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPlanCreditsManualRecipient(t *testing.T) {
	owner := "olivia"
	task := &model.Task{ID: "t", OwnerID: &owner, VolunteersNeeded: 3}

	credits, err := planCredits(task, []string{"victor"}, "leader", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(3)})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(credits) != 1 || credits[0].UserID != "leader" || credits[0].Hours != 3 {
		t.Errorf("expected 3 hours to the completer, got %+v", credits)
	}

	credits, err = planCredits(task, []string{"victor"}, "leader", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(3), CreditTo: &owner})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if credits[0].UserID != "olivia" {
		t.Errorf("expected credit to owner, got %+v", credits)
	}

	stranger := "stranger"
	_, err = planCredits(task, nil, "leader", HoursRequest{Mode: constants.HoursManual, Hours: floatPtr(3), CreditTo: &stranger})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for outside recipient, got %v", err)
	}
}

func TestPlanCreditsEstimatedFallsBackToCompleter(t *testing.T) {
	task := &model.Task{ID: "t", VolunteersNeeded: 1, EstimatedHours: floatPtr(1.5)}

	credits, err := planCredits(task, nil, "leader", HoursRequest{Mode: constants.HoursEstimated})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(credits) != 1 || credits[0].UserID != "leader" || credits[0].Hours != 1.5 {
		t.Errorf("expected 1.5 hours to the completer, got %+v", credits)
	}
}
