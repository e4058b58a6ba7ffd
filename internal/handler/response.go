package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grana-app/backend/internal/apperror"
)

// ErrorResponse represents a JSON error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response with the given status code and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondAppError writes a JSON error response from an AppError.
// It extracts the status code and message from the error.
func respondAppError(w http.ResponseWriter, err *apperror.AppError) {
	resp := ErrorResponse{
		Error: err.Message,
		Field: err.Field,
	}
	respondJSON(w, err.StatusCode, resp)
}

// respondServiceError maps any error coming out of the service layer to
// an HTTP response. Non-AppError errors hide their detail behind a
// generic message.
func respondServiceError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		respondAppError(w, appErr)
		return
	}
	status := apperror.GetStatusCode(err)
	if status == http.StatusInternalServerError {
		respondError(w, status, "an internal error occurred")
		return
	}
	respondError(w, status, apperror.GetMessage(err))
}

// decodeJSON decodes the request body into v. Malformed JSON is a 400.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.BadRequest("invalid request body: " + err.Error())
	}
	return nil
}
