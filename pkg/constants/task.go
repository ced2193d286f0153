package constants

type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
	StatusArchived   TaskStatus = "ARCHIVED"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// HoursMode selects how hours are credited when a task is completed.
type HoursMode string

const (
	HoursEstimated HoursMode = "estimated"
	HoursManual    HoursMode = "manual"
	HoursSkip      HoursMode = "skip"
)

func (m HoursMode) Valid() bool {
	switch m {
	case HoursEstimated, HoursManual, HoursSkip:
		return true
	}
	return false
}
