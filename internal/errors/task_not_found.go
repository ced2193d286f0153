package errors

import "net/http"

var ErrNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "not found",
	StatusCode: http.StatusNotFound,
}

var ErrTaskNotFound = &Exception{
	Kind:       KindNotFound,
	Code:       "task_not_found",
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrVolunteerNotFound = &Exception{
	Kind:       KindNotFound,
	Code:       "volunteer_not_found",
	Message:    "volunteer not found",
	StatusCode: http.StatusNotFound,
}

var ErrCommentNotFound = &Exception{
	Kind:       KindNotFound,
	Code:       "comment_not_found",
	Message:    "comment not found",
	StatusCode: http.StatusNotFound,
}
