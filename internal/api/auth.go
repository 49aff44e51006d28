package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/hollis-dev/homeinv-core/internal/auth"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

const (
	// ticketTTL is how long a WebSocket ticket stays valid.
	ticketTTL = 60 * time.Second

	// ticketCleanInterval is how often expired tickets are swept.
	ticketCleanInterval = 30 * time.Second

	defaultTokenTTLMinutes = 15

	minPasswordLength = 8
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ticketStore holds pending single-use WebSocket authentication tickets.
type ticketStore struct {
	mu      sync.Mutex
	tickets map[string]ticketEntry
}

type ticketEntry struct {
	principal *auth.Principal
	expiresAt time.Time
}

func newTicketStore() *ticketStore {
	return &ticketStore{tickets: make(map[string]ticketEntry)}
}

// issue creates a new ticket bound to the principal.
func (ts *ticketStore) issue(principal *auth.Principal) string {
	ticket := generateTicket()
	ts.mu.Lock()
	ts.tickets[ticket] = ticketEntry{
		principal: principal,
		expiresAt: time.Now().Add(ticketTTL),
	}
	ts.mu.Unlock()
	return ticket
}

// consume validates and removes a ticket (single-use).
func (ts *ticketStore) consume(ticket string) (*auth.Principal, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	entry, ok := ts.tickets[ticket]
	if !ok {
		return nil, false
	}
	delete(ts.tickets, ticket)

	if time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.principal, true
}

// cleanLoop sweeps expired tickets until the context is cancelled.
func (ts *ticketStore) cleanLoop(ctx context.Context) {
	ticker := time.NewTicker(ticketCleanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			ts.mu.Lock()
			for ticket, entry := range ts.tickets {
				if now.After(entry.expiresAt) {
					delete(ts.tickets, ticket)
				}
			}
			ts.mu.Unlock()
		}
	}
}

const ticketBytes = 16

func generateTicket() string {
	b := make([]byte, ticketBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}

// handleLogin authenticates by email and password and returns a JWT.
// Unknown accounts and wrong passwords get the same response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	person, err := s.people.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, inventory.ErrPersonNotFound) {
			writeUnauthorized(w, "invalid credentials")
			return
		}
		s.logger.Error("login lookup failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, person.PasswordHash)
	if err != nil || !ok {
		writeUnauthorized(w, "invalid credentials")
		return
	}

	ttl := s.secCfg.JWT.AccessTokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTLMinutes
	}

	token, err := auth.GenerateAccessToken(person.ID, person.Email, person.Role, s.secCfg.JWT.Secret, ttl)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	s.auditLog(r.Context(), "login", "person", person.ID, person.Email, nil)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl * 60,
	})
}

// handleRegister creates a new user-role account.
// Registration always yields a plain user; roles are changed by admins.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	person := &inventory.Person{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleUser,
	}

	if err := s.guard.CreatePerson(r.Context(), person); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.auditLog(r.Context(), "register", "person", person.ID, person.Email, nil)

	writeJSON(w, http.StatusCreated, person)
}

// handleMe returns the account behind the current token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	if principal == nil {
		writeUnauthorized(w, "authentication required")
		return
	}

	person, err := s.people.GetByID(r.Context(), principal.PersonID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, person)
}

// handleWSTicket issues a single-use WebSocket ticket bound to the caller.
func (s *Server) handleWSTicket(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	ticket := s.tickets.issue(principal)

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket":     ticket,
		"expires_in": int(ticketTTL.Seconds()),
	})
}
