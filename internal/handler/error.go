// Package handler contains the HTTP error and response helpers shared by
// the API handlers.
package handler

import (
	"net/http"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/middleware"
)

// ErrorCodeToHTTPStatus maps domain error codes onto HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EINTERNAL:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes err as the API's JSON error envelope:
//
//	{"error": {"code": "...", "message": "..."}}
//
// Validation errors additionally carry a "fields" object. Internal errors
// are logged with their full chain; the client sees only the safe message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	body := map[string]string{
		"code":    code,
		"message": message,
	}
	envelope := map[string]any{"error": body}
	if fields := domain.GetValidationFields(err); len(fields) > 0 {
		envelope["error"] = map[string]any{
			"code":    code,
			"message": message,
			"fields":  fields,
		}
	}

	respondJSON(w, status, envelope)
}
