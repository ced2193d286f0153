package errors

import "net/http"

var ErrOptimisticLock = &Exception{
	Kind:       KindConflict,
	Code:       "optimistic_lock",
	Message:    "optimistic locking conflict",
	StatusCode: http.StatusConflict,
}
