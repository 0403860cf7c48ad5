package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/middleware"
	"github.com/dukerupert/fiscal/internal/telemetry"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.ETIMEOUT:
		return http.StatusServiceUnavailable // 503
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse logs err and writes {"error": {"code", "message"}} with the
// mapped status. Validation errors are delegated to ValidationErrorResponse.
// Internal errors are reported to Sentry and never expose their details.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		ValidationErrorResponse(w, r, err)
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	logger := middleware.GetLogger(r.Context())

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"error", err.Error(),
			"code", code,
			"op", domain.ErrorOp(err),
			"status", status,
		)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]any{
			"op":   domain.ErrorOp(err),
			"path": r.URL.Path,
		})
	} else {
		logger.Info("request rejected",
			"error", err.Error(),
			"code", code,
			"status", status,
		)
	}

	writeError(w, status, errorBody{Code: code, Message: domain.ErrorMessage(err)})
}

// ValidationErrorResponse writes a 400 carrying every field failure.
// Errors that are not validation errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fields := domain.GetValidationFields(err)
	if fields == nil {
		ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("validation failed",
		"error", err.Error(),
		"fields", len(fields),
	)

	writeError(w, http.StatusBadRequest, errorBody{
		Code:    domain.EINVALID,
		Message: "Os dados enviados são inválidos.",
		Fields:  fields,
	})
}

// NotFoundResponse answers requests that match no route.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errorBody{
		Code:    domain.ENOTFOUND,
		Message: "The requested resource was not found",
	})
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]errorBody{"error": body})
}
