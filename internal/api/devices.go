package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hollis-dev/homeinv-core/internal/infrastructure/mqtt"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
	"github.com/hollis-dev/homeinv-core/internal/scope"
)

type deviceRequest struct {
	Name         string `json:"name"`
	DeviceTypeID int64  `json:"device_type_id"`
	RoomID       int64  `json:"room_id"`
}

type deviceStatusRequest struct {
	On bool `json:"on"`
}

type deviceValueRequest struct {
	Value string `json:"value"`
}

// deviceMutationResponse carries the updated device plus the caller's
// post-mutation landing target.
type deviceMutationResponse struct {
	Device *inventory.Device `json:"device"`
	Next   *scope.Target     `json:"next,omitempty"`
}

// handleListDevices returns every device. Admin only via the resolver.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	s.listScoped(w, r, scope.All())
}

// handleListRoomDevices returns the devices installed in a room.
func (s *Server) handleListRoomDevices(w http.ResponseWriter, r *http.Request) {
	roomID, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid room id")
		return
	}
	s.listScoped(w, r, scope.ByRoom(roomID))
}

// handleListUserDevices returns the devices assigned to a person. Users
// can only reach their own assignments.
func (s *Server) handleListUserDevices(w http.ResponseWriter, r *http.Request) {
	personID, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid person id")
		return
	}
	s.listScoped(w, r, scope.ForUser(personID))
}

// handleListUserRoomDevices returns a person's devices within one room.
func (s *Server) handleListUserRoomDevices(w http.ResponseWriter, r *http.Request) {
	personID, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid person id")
		return
	}
	roomID, err := idParam(r, "roomID")
	if err != nil {
		writeBadRequest(w, "invalid room id")
		return
	}
	s.listScoped(w, r, scope.ForUserInRoom(personID, roomID))
}

// listScoped runs a device listing through the resolver for the caller.
func (s *Server) listScoped(w http.ResponseWriter, r *http.Request, sc scope.Scope) {
	principal := principalFromContext(r.Context())

	devices, err := s.resolver.Devices(r.Context(), principal, sc)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDevice returns a single device with its type and room labels.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}

	device, err := s.devices.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, device)
}

// handleCreateDevice creates a device in a room.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	device := &inventory.Device{
		Name:         req.Name,
		DeviceTypeID: req.DeviceTypeID,
		RoomID:       req.RoomID,
	}
	if err := s.guard.CreateDevice(r.Context(), device); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "create", "device", device.ID, actor.Email, map[string]any{
		"name":    device.Name,
		"room_id": device.RoomID,
	})

	writeJSON(w, http.StatusCreated, device)
}

// handleUpdateDevice updates a device's name, type, or room.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}

	device, err := s.devices.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	device.Name = req.Name
	device.DeviceTypeID = req.DeviceTypeID
	device.RoomID = req.RoomID
	if err := s.guard.UpdateDevice(r.Context(), device); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "update", "device", device.ID, actor.Email, nil)

	writeJSON(w, http.StatusOK, device)
}

// handleDeleteDevice removes a device unless it is still assigned.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}

	if err := s.guard.DeleteDevice(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "delete", "device", id, actor.Email, nil)

	w.WriteHeader(http.StatusNoContent)
}

// handleSetDeviceStatus flips a device on or off and returns the updated
// device with the caller's landing target.
func (s *Server) handleSetDeviceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}

	var req deviceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	principal := principalFromContext(r.Context())
	device, err := s.guard.UpdateDeviceStatus(r.Context(), principal, id, req.On)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.announceStatus(device)
	s.auditLog(r.Context(), "update", "device", device.ID, principal.Email, map[string]any{
		"status_on": device.StatusOn,
	})

	next, err := s.routes.Route(r.Context(), principal)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deviceMutationResponse{Device: device, Next: next})
}

// handleSetDeviceValue sets a device's information reading and returns
// the updated device with the caller's landing target.
func (s *Server) handleSetDeviceValue(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid device id")
		return
	}

	var req deviceValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	principal := principalFromContext(r.Context())
	device, err := s.guard.UpdateDeviceValue(r.Context(), principal, id, req.Value)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.announceValue(device)
	s.auditLog(r.Context(), "update", "device", device.ID, principal.Email, map[string]any{
		"information": device.Information,
	})

	next, err := s.routes.Route(r.Context(), principal)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deviceMutationResponse{Device: device, Next: next})
}

// announceStatus pushes a status change to MQTT, the history recorder,
// and WebSocket subscribers. All three are best-effort.
func (s *Server) announceStatus(device *inventory.Device) {
	if s.mqtt != nil {
		topic := mqtt.Topics{}.DeviceStatus(device.ID)
		payload := []byte(strconv.FormatBool(device.StatusOn))
		if err := s.mqtt.PublishRetained(topic, payload); err != nil {
			s.logger.Warn("mqtt status publish failed", "device_id", device.ID, "error", err)
		}
	}
	s.history.RecordStatus(device)
	if s.hub != nil {
		s.hub.Broadcast("device.status_changed", device)
	}
}

// announceValue pushes an information reading like announceStatus.
func (s *Server) announceValue(device *inventory.Device) {
	if s.mqtt != nil {
		topic := mqtt.Topics{}.DeviceValue(device.ID)
		if err := s.mqtt.PublishRetained(topic, []byte(device.Information)); err != nil {
			s.logger.Warn("mqtt value publish failed", "device_id", device.ID, "error", err)
		}
	}
	s.history.RecordValue(device)
	if s.hub != nil {
		s.hub.Broadcast("device.value_changed", device)
	}
}
