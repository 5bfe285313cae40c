package response

import (
	"encoding/json"
	"net/http"
)

// Response is the standard API envelope. Match is only set by the swipe
// endpoint, where the client needs to distinguish an instant match from a
// plain pending request.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Match   *bool       `json:"match,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// Message sends a success response carrying a human-readable message
func Message(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Message: message,
		Data:    data,
	})
}

// Matched sends the swipe-endpoint envelope with the match flag set
func Matched(w http.ResponseWriter, message string, match bool, data interface{}) {
	write(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Match:   &match,
		Data:    data,
	})
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{
		Success: false,
		Message: message,
	})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// BadRequest sends a 400 response
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 response
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 response
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404 response
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Conflict sends a 409 response
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message)
}

// InternalError sends a 500 response
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// Created sends a 201 response with data
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 response with data
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}
