package api

import (
	"encoding/json"
	"net/http"

	"github.com/hollis-dev/homeinv-core/internal/auth"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

type createPersonRequest struct {
	Name     string    `json:"name"`
	Surname  string    `json:"surname"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

type updatePersonRequest struct {
	Name    string     `json:"name"`
	Surname string     `json:"surname"`
	Email   string     `json:"email"`
	Role    *auth.Role `json:"role,omitempty"`
}

type assignDevicesRequest struct {
	DeviceIDs []int64 `json:"device_ids"`
}

// handleListPeople returns all accounts.
func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.people.List(r.Context())
	if err != nil {
		s.logger.Error("list people failed", "error", err)
		writeInternalError(w, "failed to list people")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"people": people,
		"count":  len(people),
	})
}

// handleGetPerson returns a single account with its assigned device ids.
func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid person id")
		return
	}

	person, err := s.people.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	deviceIDs, err := s.people.DeviceIDs(r.Context(), id)
	if err != nil {
		s.logger.Error("list person devices failed", "person_id", id, "error", err)
		writeInternalError(w, "failed to load person")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"person":     person,
		"device_ids": deviceIDs,
	})
}

// handleCreatePerson creates an account with an admin-chosen role.
func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	role := req.Role
	if role == "" {
		role = auth.RoleUser
	}
	if !auth.IsValidRole(role) {
		writeBadRequest(w, "invalid role: must be ADMIN or USER")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", "error", err)
		writeInternalError(w, "failed to create person")
		return
	}

	person := &inventory.Person{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.guard.CreatePerson(r.Context(), person); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "create", "person", person.ID, actor.Email, map[string]any{
		"email": person.Email,
		"role":  person.Role,
	})

	writeJSON(w, http.StatusCreated, person)
}

// handleUpdatePerson updates an account's profile and role.
func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid person id")
		return
	}

	person, err := s.people.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var req updatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	person.Name = req.Name
	person.Surname = req.Surname
	person.Email = req.Email
	if req.Role != nil {
		if !auth.IsValidRole(*req.Role) {
			writeBadRequest(w, "invalid role: must be ADMIN or USER")
			return
		}
		person.Role = *req.Role
	}

	if err := s.guard.UpdatePerson(r.Context(), person); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "update", "person", person.ID, actor.Email, nil)

	writeJSON(w, http.StatusOK, person)
}

// handleDeletePerson removes an account along with its assignments.
func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid person id")
		return
	}

	if err := s.guard.DeletePerson(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "delete", "person", id, actor.Email, nil)

	w.WriteHeader(http.StatusNoContent)
}

// handleAssignDevices replaces the person's device assignment set.
func (s *Server) handleAssignDevices(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid person id")
		return
	}

	var req assignDevicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.guard.AssignDevices(r.Context(), id, req.DeviceIDs); err != nil {
		s.writeDomainError(w, err)
		return
	}

	actor := principalFromContext(r.Context())
	s.auditLog(r.Context(), "assign", "person", id, actor.Email, map[string]any{
		"device_ids": req.DeviceIDs,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"person_id":  id,
		"device_ids": req.DeviceIDs,
	})
}
