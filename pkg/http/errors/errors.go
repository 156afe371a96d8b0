package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body shared by every error reply of the API.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// RespondError writes a standardized error response with the canonical message for status.
func RespondError(w http.ResponseWriter, status int) {
	RespondErrorMessage(w, status, MessageFor(status))
}

// RespondErrorMessage writes a standardized error response with a custom message.
func RespondErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}

// RespondBadRequest writes a 400 response.
func RespondBadRequest(w http.ResponseWriter) {
	RespondError(w, http.StatusBadRequest)
}

// RespondUnauthorized writes a 401 response.
func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, http.StatusUnauthorized)
}

// RespondNotFound writes a 404 response.
func RespondNotFound(w http.ResponseWriter) {
	RespondError(w, http.StatusNotFound)
}

// RespondMethodNotAllowed writes a 405 response.
func RespondMethodNotAllowed(w http.ResponseWriter) {
	RespondError(w, http.StatusMethodNotAllowed)
}

// RespondRequestTimeout writes a 408 response.
func RespondRequestTimeout(w http.ResponseWriter) {
	RespondError(w, http.StatusRequestTimeout)
}

// RespondUnprocessable writes a 422 response.
func RespondUnprocessable(w http.ResponseWriter) {
	RespondError(w, http.StatusUnprocessableEntity)
}

// RespondTooManyRequests writes a 429 response.
func RespondTooManyRequests(w http.ResponseWriter) {
	RespondError(w, http.StatusTooManyRequests)
}

// RespondInternalError writes a 500 response. Callers log the cause; it never reaches the client.
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError)
}
