package api

import (
	"encoding/json"
	"net/http"

	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

type roomRequest struct {
	Name string `json:"name"`
}

// handleListRooms returns the caller's room dashboard: admins see every
// room with total device counts, users only the rooms holding their own
// devices with per-person counts.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())

	rooms, err := s.resolver.Rooms(r.Context(), principal)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// handleGetRoom returns a single room.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid room id")
		return
	}

	room, err := s.rooms.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// handleCreateRoom creates a room.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	room := &inventory.Room{Name: req.Name}
	if err := s.guard.CreateRoom(r.Context(), room); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "create", "room", room.ID, actor.Email, map[string]any{"name": room.Name})

	writeJSON(w, http.StatusCreated, room)
}

// handleUpdateRoom renames a room.
func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid room id")
		return
	}

	room, err := s.rooms.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	room.Name = req.Name
	if err := s.guard.UpdateRoom(r.Context(), room); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "update", "room", room.ID, actor.Email, nil)

	writeJSON(w, http.StatusOK, room)
}

// handleDeleteRoom removes a room unless devices still live in it.
func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid room id")
		return
	}

	if err := s.guard.DeleteRoom(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "delete", "room", id, actor.Email, nil)

	w.WriteHeader(http.StatusNoContent)
}
