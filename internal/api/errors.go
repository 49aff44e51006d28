package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hollis-dev/homeinv-core/internal/auth"
	"github.com/hollis-dev/homeinv-core/internal/guard"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
)

// validationErrorResponse carries every invalid field of a request.
type validationErrorResponse struct {
	Status int                    `json:"status"`
	Code   string                 `json:"code"`
	Fields []inventory.FieldError `json:"fields"`
}

// conflictResponse mirrors guard.Conflict over the wire.
type conflictResponse struct {
	Status   int    `json:"status"`
	Code     string `json:"code"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	Name     string `json:"name"`
	Guidance string `json:"guidance"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps guard, scope, and inventory errors onto HTTP
// responses. Unrecognised errors become a 500 with a generic message.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var fieldErrs inventory.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			Status: http.StatusBadRequest,
			Code:   ErrCodeValidation,
			Fields: fieldErrs,
		})
		return
	}

	var conflict *guard.Conflict
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, conflictResponse{
			Status:   http.StatusConflict,
			Code:     ErrCodeConflict,
			Action:   conflict.Action,
			Entity:   conflict.Entity,
			Name:     conflict.Name,
			Guidance: conflict.Guidance,
		})
		return
	}

	switch {
	case errors.Is(err, auth.ErrAccessDenied):
		writeForbidden(w, "access denied")
	case errors.Is(err, inventory.ErrPersonNotFound):
		writeNotFound(w, "person not found")
	case errors.Is(err, inventory.ErrRoomNotFound):
		writeNotFound(w, "room not found")
	case errors.Is(err, inventory.ErrDeviceTypeNotFound):
		writeNotFound(w, "device type not found")
	case errors.Is(err, inventory.ErrDeviceNotFound):
		writeNotFound(w, "device not found")
	case errors.Is(err, inventory.ErrInvalidReference):
		writeBadRequest(w, "referenced room or device type does not exist")
	default:
		s.logger.Error("request failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}
