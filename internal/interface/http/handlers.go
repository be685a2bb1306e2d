package http

import (
	"github.com/sozow-hub/mentor-match/internal/application/query"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/observability"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/service"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, r, http.StatusNotFound, "not_found", "Unknown route")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{
		"service": "mentor-match",
		"version": "v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().String(),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// handleReady probes every configured dependency. Any failure flips the
// response to 503 so the orchestrator stops routing traffic here.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.deps.ReadinessChecks))
	ready := true
	for _, check := range s.deps.ReadinessChecks {
		if err := check.Check(ctx); err != nil {
			checks[check.Name] = err.Error()
			ready = false
			continue
		}
		checks[check.Name] = "ok"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, map[string]interface{}{
		"ready":  ready,
		"checks": checks,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// API HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListStudentsHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return
	}

	q := query.RankMentorsQuery{
		StudentID: r.PathValue("id"),
		Limit:     limit,
	}

	result, err := s.deps.RankMentorsHandler.Handle(r.Context(), q)
	if err != nil {
		s.observeRank(outcomeFor(err), 0, time.Since(start))
		s.writeDomainError(w, r, err)
		return
	}

	s.observeRank(observability.OutcomeOK, result.EligibleCount, time.Since(start))
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleCandidateSlots(w http.ResponseWriter, r *http.Request) {
	q := query.GetCandidateSlotsQuery{
		StudentID: r.PathValue("id"),
	}

	result, err := s.deps.GetCandidateSlotsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, err := s.deps.Syncer.Sync(r.Context())
	if err != nil {
		if errors.Is(err, shared.ErrSyncInProgress) {
			s.observeSync(observability.OutcomeBusy, report, time.Since(start))
			writeJSONError(w, r, http.StatusConflict, "sync_in_progress", "A sync is already running")
			return
		}
		s.observeSync(observability.OutcomeError, report, time.Since(start))
		s.logger.Error("manual sync failed", zap.Error(err))
		writeJSONError(w, r, http.StatusBadGateway, "sync_failed", "Profile sync failed")
		return
	}

	s.observeSync(observability.OutcomeOK, report, time.Since(start))
	writeJSON(w, r, http.StatusOK, report)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps domain error kinds onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, r, http.StatusNotFound, "not_found", "Student not found")
	case shared.IsValidation(err):
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case shared.IsExternalService(err):
		s.logger.Error("upstream failure", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, r, http.StatusBadGateway, "upstream_unavailable", "Profile data is temporarily unavailable")
	default:
		s.logger.Error("request failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, r, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

func outcomeFor(err error) string {
	if shared.IsNotFound(err) {
		return observability.OutcomeNotFound
	}
	return observability.OutcomeError
}

func (s *Server) observeRank(outcome string, eligible int, elapsed time.Duration) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveRank(outcome, eligible, elapsed)
	}
}

func (s *Server) observeSync(outcome string, report service.SyncReport, elapsed time.Duration) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveSync(outcome, report.Students, report.Mentors, report.Synonyms, elapsed)
	}
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("invalid limit")
	}
	return limit, nil
}
