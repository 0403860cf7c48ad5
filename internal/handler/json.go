package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/middleware"
)

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected so misspelled options do not pass silently.
func DecodeJSON(r *http.Request, op string, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return domain.Errorf(domain.ETOOLARGE, op, "request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return domain.Invalid(op, "request body is empty")
		default:
			return domain.Errorf(domain.EINVALID, op, "invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return domain.Invalid(op, "request body must hold a single JSON object")
	}
	return nil
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		middleware.GetLogger(r.Context()).Error("Failed to encode response", "error", fmt.Sprint(err))
	}
}
