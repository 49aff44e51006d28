package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hollis-dev/homeinv-core/internal/audit"
)

// auditLog records a mutation to the audit trail, best-effort.
func (s *Server) auditLog(ctx context.Context, action, entityType string, entityID int64, actor string, details map[string]any) {
	if s.trail == nil {
		return
	}
	s.trail.Record(ctx, &audit.Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   strconv.FormatInt(entityID, 10),
		Actor:      actor,
		Details:    details,
	})
}

// handleListAudit returns the audit trail, filtered and paginated.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeNotFound(w, "audit trail not enabled")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = offset
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("list audit entries failed", "error", err)
		writeInternalError(w, "failed to list audit entries")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
