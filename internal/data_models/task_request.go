package dto

type CreateTaskRequest struct {
	WeekID           string   `json:"week_id"`
	GroupID          *string  `json:"group_id"`
	Title            string   `json:"title"`
	Notes            string   `json:"notes"`
	EstimatedHours   *float64 `json:"estimated_hours"`
	VolunteersNeeded int      `json:"volunteers_needed"`
	Visibility       string   `json:"visibility"`
	OpenToVolunteers bool     `json:"open_to_volunteers"`
	OwnerID          *string  `json:"owner_id"`
	CoordinatorID    *string  `json:"coordinator_id"`
}

// TransitionRequest is the optional body of start, reopen, archive and
// unarchive. A zero ExpectedVersion skips the version check.
type TransitionRequest struct {
	ExpectedVersion uint `json:"expected_version"`
}

type CompleteTaskRequest struct {
	Mode            string   `json:"mode"`
	Hours           *float64 `json:"hours"`
	CreditTo        *string  `json:"credit_to"`
	ExpectedVersion uint     `json:"expected_version"`
}

// UserRequest names a user; a null UserID clears the role it targets.
type UserRequest struct {
	UserID *string `json:"user_id"`
}

type OpenToVolunteersRequest struct {
	Open *bool `json:"open"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type CommentRequest struct {
	Body string `json:"body"`
}

type RolloverRequest struct {
	FromWeek string `json:"from_week"`
	ToWeek   string `json:"to_week"`
}
