package errors

import "net/http"

var ErrValidation = &Exception{
	Kind:       KindValidation,
	Message:    "invalid input",
	StatusCode: http.StatusBadRequest,
}

var ErrTaskIDRequired = &Exception{
	Kind:       KindValidation,
	Code:       "task_id_required",
	Message:    "task id is required",
	StatusCode: http.StatusBadRequest,
}

// Validation returns a validation error carrying msg.
func Validation(msg string) *Exception {
	return ErrValidation.WithMessage(msg)
}
