package errors

import "net/http"

var ErrUnauthorized = &Exception{
	Kind:       KindUnauthorized,
	Message:    "not a member of this organization",
	StatusCode: http.StatusUnauthorized,
}
