package errors

import "net/http"

var ErrForbidden = &Exception{
	Kind:       KindForbidden,
	Message:    "action not permitted",
	StatusCode: http.StatusForbidden,
}
