package errors

import "net/http"

var ErrPoolFull = &Exception{
	Kind:       KindInvalidState,
	Code:       "pool_full",
	Message:    "this opportunity is full",
	StatusCode: http.StatusConflict,
}
