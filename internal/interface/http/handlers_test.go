package http

import (
	"github.com/sozow-hub/mentor-match/internal/application/query"
	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/service"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST FIXTURES
// ══════════════════════════════════════════════════════════════════════════════

type memStudentRepo struct {
	students []matching.StudentProfile
}

func (r memStudentRepo) GetByID(_ context.Context, id matching.StudentID) (matching.StudentProfile, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return matching.StudentProfile{}, shared.ErrStudentNotFound
}

func (r memStudentRepo) List(_ context.Context) ([]matching.StudentProfile, error) {
	return r.students, nil
}

type memMentorRepo struct {
	mentors []matching.MentorProfile
}

func (r memMentorRepo) List(_ context.Context) ([]matching.MentorProfile, error) {
	return r.mentors, nil
}

type memSynonymRepo struct{}

func (memSynonymRepo) Get(_ context.Context) (*matching.SynonymTable, error) {
	return matching.NewSynonymTable(nil), nil
}

type stubSyncer struct {
	report service.SyncReport
	err    error
	calls  int
}

func (s *stubSyncer) Sync(_ context.Context) (service.SyncReport, error) {
	s.calls++
	return s.report, s.err
}

func mondaySlotGrid() map[matching.Slot]string {
	return map[matching.Slot]string{
		{Day: matching.WeekdayMonday, Hour: "1700"}: "TRUE",
	}
}

func newTestServer(t *testing.T, cfg Config, syncer Syncer) *Server {
	t.Helper()

	students := memStudentRepo{students: []matching.StudentProfile{
		{
			ID:          "S-001",
			DisplayName: "はると",
			Gender:      "女性",
			Availability: []matching.AvailabilityDeclaration{
				{HourLabel: "17:00〜18:00", Days: "月"},
			},
		},
	}}
	mentors := memMentorRepo{mentors: []matching.MentorProfile{
		{
			ID:                "M-001",
			DisplayName:       "さくら",
			Gender:            "女性",
			RemainingCapacity: 2,
			Availability:      mondaySlotGrid(),
		},
	}}

	engine := matching.NewEngine(matching.DefaultScoringPolicy(), nil)

	deps := Dependencies{
		RankMentorsHandler:       query.NewRankMentorsHandler(students, mentors, memSynonymRepo{}, engine),
		ListStudentsHandler:      query.NewListStudentsHandler(students),
		GetCandidateSlotsHandler: query.NewGetCandidateSlotsHandler(students),
		Syncer:                   syncer,
	}

	return NewServer(cfg, deps)
}

func doRequest(t *testing.T, server *Server, method, path string, header map[string]string) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var body JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestServer_ListStudents(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})

	rec, body := doRequest(t, server, http.MethodGet, "/api/v1/students", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_Matches(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})

	rec, body := doRequest(t, server, http.MethodGet, "/api/v1/students/S-001/matches", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	data, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var result query.RankMentorsResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "S-001", result.StudentID)
	assert.Equal(t, 1, result.EligibleCount)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "M-001", result.Matches[0].MentorID)
}

func TestServer_MatchesUnknownStudent(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})

	rec, body := doRequest(t, server, http.MethodGet, "/api/v1/students/S-999/matches", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestServer_MatchesRejectsBadLimit(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})

	rec, body := doRequest(t, server, http.MethodGet, "/api/v1/students/S-001/matches?limit=abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_limit", body.Error.Code)
}

func TestServer_CandidateSlots(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})

	rec, body := doRequest(t, server, http.MethodGet, "/api/v1/students/S-001/slots", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	data, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var result query.CandidateSlotsResult
	require.NoError(t, json.Unmarshal(data, &result))

	require.Len(t, result.Slots, 1)
	assert.Equal(t, "月", result.Slots[0].Day)
	assert.Equal(t, "1700", result.Slots[0].Hour)
}

func TestServer_SyncDisabledWithoutKeyHash(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})

	rec, _ := doRequest(t, server, http.MethodPost, "/api/v1/sync", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_SyncRequiresValidKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.AdminAPIKeyHash = string(hash)

	syncer := &stubSyncer{report: service.SyncReport{RunID: "run-1", Students: 2}}
	server := newTestServer(t, cfg, syncer)

	rec, _ := doRequest(t, server, http.MethodPost, "/api/v1/sync", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(t, server, http.MethodPost, "/api/v1/sync", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, syncer.calls)

	rec, body := doRequest(t, server, http.MethodPost, "/api/v1/sync", map[string]string{"X-API-Key": "secret-key"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, 1, syncer.calls)
}

func TestServer_SyncConflictWhileRunning(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.AdminAPIKeyHash = string(hash)

	server := newTestServer(t, cfg, &stubSyncer{err: shared.ErrSyncInProgress})

	rec, body := doRequest(t, server, http.MethodPost, "/api/v1/sync", map[string]string{"X-API-Key": "secret-key"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "sync_in_progress", body.Error.Code)
}

func TestServer_Readiness(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})
	server.deps.ReadinessChecks = []HealthCheck{
		{Name: "postgres", Check: func(context.Context) error { return nil }},
		{Name: "redis", Check: func(context.Context) error { return context.DeadlineExceeded }},
	}

	rec, body := doRequest(t, server, http.MethodGet, "/ready", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, body.Success)
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t, DefaultConfig(), &stubSyncer{})

	rec, body := doRequest(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}
