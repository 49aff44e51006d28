package api

import (
	"encoding/json"
	"net/http"

	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

type deviceTypeRequest struct {
	Type            string `json:"type"`
	InformationType string `json:"information_type"`
}

// handleListDeviceTypes returns all device types.
func (s *Server) handleListDeviceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.types.List(r.Context())
	if err != nil {
		s.logger.Error("list device types failed", "error", err)
		writeInternalError(w, "failed to list device types")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_types": types,
		"count":        len(types),
	})
}

// handleGetDeviceType returns a single device type.
func (s *Server) handleGetDeviceType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device type id")
		return
	}

	dt, err := s.types.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dt)
}

// handleCreateDeviceType creates a device type.
func (s *Server) handleCreateDeviceType(w http.ResponseWriter, r *http.Request) {
	var req deviceTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	dt := &inventory.DeviceType{Type: req.Type, InformationType: req.InformationType}
	if err := s.guard.CreateDeviceType(r.Context(), dt); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "create", "device_type", dt.ID, actor.Email, map[string]any{"type": dt.Type})

	writeJSON(w, http.StatusCreated, dt)
}

// handleUpdateDeviceType updates a device type.
func (s *Server) handleUpdateDeviceType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device type id")
		return
	}

	dt, err := s.types.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req deviceTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	dt.Type = req.Type
	dt.InformationType = req.InformationType
	if err := s.guard.UpdateDeviceType(r.Context(), dt); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "update", "device_type", dt.ID, actor.Email, nil)

	writeJSON(w, http.StatusOK, dt)
}

// handleDeleteDeviceType removes a device type unless devices reference it.
func (s *Server) handleDeleteDeviceType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device type id")
		return
	}

	if err := s.guard.DeleteDeviceType(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "delete", "device_type", id, actor.Email, nil)

	w.WriteHeader(http.StatusNoContent)
}
