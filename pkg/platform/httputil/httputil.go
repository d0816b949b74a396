package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "tenantadmin/pkg/domain-errors"
)

// Development controls whether infrastructure error messages are surfaced in
// responses. Set once at startup from config; production keeps the generic
// message.
var Development bool

// ErrorResponse is the wire shape of every error this API returns.
type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into status codes and the
// API's {"message": ...} error body.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Message: internalMessage(err)})
		return
	}

	status := DomainCodeToHTTPStatus(domainErr.Code)
	msg := domainErr.Message
	// Unavailable keeps its stable message; it names no internals. Other 500s
	// stay generic in production and surface the cause in development.
	if status == http.StatusInternalServerError && domainErr.Code != dErrors.CodeUnavailable {
		cause := domainErr.Err
		if cause == nil {
			cause = domainErr
		}
		msg = internalMessage(cause)
	}
	if msg == "" {
		msg = string(domainErr.Code)
	}
	WriteJSON(w, status, ErrorResponse{Message: msg})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
// Conflicts map to 400, not 409: duplicate contact emails are reported as a
// plain client error by this API.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeConflict:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeUnavailable, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// internalMessage hides server-side failure details outside development.
func internalMessage(err error) string {
	if Development && err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Internal server error"
}
