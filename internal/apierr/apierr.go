// Package apierr defines the error kinds surfaced by the HTTP layer and the
// translation of pipeline denials into terminal JSON responses.
//
// Guards and services signal expected denials by returning an *Error; the
// handler layer writes them with Write. Anything that is not an *Error is an
// unexpected fault and collapses to a generic 500 so internal details never
// reach the client.
package apierr

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// Error is a denial outcome with an HTTP status mapping.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequest signals malformed or invalid input shape.
func BadRequest(message string) *Error {
	if message == "" {
		message = "Bad Request"
	}
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthorized signals a missing or invalid credential, or a failed
// ownership or password check.
func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

// Forbidden signals an authenticated caller acting outside its permissions.
func Forbidden() *Error {
	return &Error{Status: http.StatusForbidden, Message: "Forbidden"}
}

// NotFound signals an absent referenced entity.
func NotFound() *Error {
	return &Error{Status: http.StatusNotFound, Message: "Not Found"}
}

type errorResponse struct {
	Error *Error `json:"error"`
}

// Write translates err into a terminal JSON response. Expected denials keep
// their kind and message; everything else becomes a generic 500.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		log.Printf("internal error on %s %s: %v", r.Method, r.URL.Path, err)
		apiErr = &Error{Status: http.StatusInternalServerError, Message: "Internal Server Error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	if encErr := json.NewEncoder(w).Encode(errorResponse{Error: apiErr}); encErr != nil {
		log.Printf("failed to encode error response: %v", encErr)
	}
}
