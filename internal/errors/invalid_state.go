package errors

import "net/http"

var ErrInvalidState = &Exception{
	Kind:       KindInvalidState,
	Message:    "invalid state",
	StatusCode: http.StatusConflict,
}

var ErrTaskArchived = &Exception{
	Kind:       KindInvalidState,
	Code:       "task_archived",
	Message:    "task is archived",
	StatusCode: http.StatusConflict,
}

var ErrAlreadyVolunteered = &Exception{
	Kind:       KindInvalidState,
	Code:       "already_volunteered",
	Message:    "already volunteering for this task",
	StatusCode: http.StatusConflict,
}
