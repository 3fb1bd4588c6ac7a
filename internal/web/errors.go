package web

// errors.go provides unified error response handling for the API.
//
// Every fatal error follows the same path:
//  1. A handler calls respondError(w, r, err, status)
//  2. The error is mapped via core.MapError to a user-facing message and code
//  3. The technical error is logged with the request ID for correlation
//  4. The client receives an ErrorResponse as JSON
//
// Validation findings are not errors here; they are returned in the normal
// validation response.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/samplesheet/internal/core"
	"github.com/JonMunkholm/samplesheet/internal/logging"
	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
)

// errNoFile is returned when a request carries no sheet.
var errNoFile = errors.New("no file provided")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user-facing form with statusCode.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	log := logger.Warn
	if statusCode >= http.StatusInternalServerError {
		log = logger.Error
	}
	log("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	writeJSON(w, statusCode, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusFor picks the HTTP status for a fatal service error.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	var schemaErr *core.SchemaLoadError
	var formatErr *samplesheet.FormatError

	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &formatErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
