// Package service wires the external and persistence layers into the
// repository interfaces the matching domain consumes.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/persistence/postgres"
	"github.com/sozow-hub/mentor-match/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// ValueSource fetches raw cell values for an A1-notation range. Implemented by
// the Sheets API client.
type ValueSource interface {
	Values(ctx context.Context, sheetRange string) ([][]string, error)
}

// RowMapper converts raw sheet values into domain profiles. Implemented by the
// sheets package mapper.
type RowMapper interface {
	Students(values [][]string) []matching.StudentProfile
	Mentors(values [][]string) []matching.MentorProfile
	SynonymRows(values [][]string) [][]string
}

// SnapshotStore persists the last good sync. Implemented by
// postgres.ProfileRepo. Optional: a nil store disables the snapshot tier.
type SnapshotStore interface {
	SaveStudents(ctx context.Context, students []matching.StudentProfile) error
	LoadStudents(ctx context.Context) ([]matching.StudentProfile, time.Time, error)
	SaveMentors(ctx context.Context, mentors []matching.MentorProfile) error
	LoadMentors(ctx context.Context) ([]matching.MentorProfile, time.Time, error)
	SaveSynonymRows(ctx context.Context, rows [][]string) error
	LoadSynonymRows(ctx context.Context) ([][]string, time.Time, error)
	RecordSyncRun(ctx context.Context, run postgres.SyncRun) error
}

// TableCache is the hot profile tier. Implemented by redis.ProfileCache.
// Optional: a nil cache disables it.
type TableCache interface {
	SetStudents(ctx context.Context, students []matching.StudentProfile) error
	GetStudents(ctx context.Context) ([]matching.StudentProfile, error)
	SetMentors(ctx context.Context, mentors []matching.MentorProfile) error
	GetMentors(ctx context.Context) ([]matching.MentorProfile, error)
	SetSynonymRows(ctx context.Context, rows [][]string) error
	GetSynonymRows(ctx context.Context) ([][]string, error)
	Invalidate(ctx context.Context) error
}

// SheetRanges names the three worksheets in A1 notation.
type SheetRanges struct {
	Students string
	Mentors  string
	Synonyms string
}

// DefaultSheetRanges returns the worksheet ranges of the intake spreadsheet.
func DefaultSheetRanges() SheetRanges {
	return SheetRanges{
		Students: "スクール生!A1:AZ",
		Mentors:  "メンター!A1:AZ",
		Synonyms: "ゲーム名正規化!A1:B",
	}
}

// StaleSnapshotAge is how old a snapshot may get before reads served from it
// are flagged. Snapshots older than this still serve; capacity figures in them
// just may not reflect recent assignments.
const StaleSnapshotAge = time.Hour

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE SERVICE
// Read path walks cache -> snapshot -> live sheet. Sync refreshes all three
// tables from the sheet and writes through both tiers.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileService loads profile tables and implements the matching repository
// interfaces.
type ProfileService struct {
	source  ValueSource
	mapper  RowMapper
	store   SnapshotStore
	cache   TableCache
	ranges  SheetRanges
	logger  *zap.Logger
	syncing atomic.Bool
}

// NewProfileService creates a profile service. store and cache may be nil;
// the read path then falls straight through to the spreadsheet.
func NewProfileService(source ValueSource, mapper RowMapper, store SnapshotStore, cache TableCache, ranges SheetRanges, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	if ranges == (SheetRanges{}) {
		ranges = DefaultSheetRanges()
	}
	return &ProfileService{
		source: source,
		mapper: mapper,
		store:  store,
		cache:  cache,
		ranges: ranges,
		logger: log.With(logger.Component("profile_service")),
	}
}

// Students returns the student repository view of the service.
func (s *ProfileService) Students() matching.StudentRepository {
	return studentRepo{s}
}

// Mentors returns the mentor repository view of the service.
func (s *ProfileService) Mentors() matching.MentorRepository {
	return mentorRepo{s}
}

// Synonyms returns the synonym repository view of the service.
func (s *ProfileService) Synonyms() matching.SynonymRepository {
	return synonymRepo{s}
}

// The repository contracts both name a List method with different element
// types, so each gets a thin adapter instead of hanging methods directly off
// ProfileService.

type studentRepo struct{ svc *ProfileService }

func (r studentRepo) GetByID(ctx context.Context, id matching.StudentID) (matching.StudentProfile, error) {
	students, err := r.svc.loadStudents(ctx)
	if err != nil {
		return matching.StudentProfile{}, err
	}
	for _, student := range students {
		if student.ID == id {
			return student, nil
		}
	}
	return matching.StudentProfile{}, shared.ErrStudentNotFound
}

func (r studentRepo) List(ctx context.Context) ([]matching.StudentProfile, error) {
	return r.svc.loadStudents(ctx)
}

type mentorRepo struct{ svc *ProfileService }

func (r mentorRepo) List(ctx context.Context) ([]matching.MentorProfile, error) {
	return r.svc.loadMentors(ctx)
}

type synonymRepo struct{ svc *ProfileService }

func (r synonymRepo) Get(ctx context.Context) (*matching.SynonymTable, error) {
	return r.svc.loadSynonyms(ctx)
}

func (s *ProfileService) loadMentors(ctx context.Context) ([]matching.MentorProfile, error) {
	if s.cache != nil {
		if mentors, err := s.cache.GetMentors(ctx); err == nil {
			return mentors, nil
		}
	}
	if s.store != nil {
		if mentors, syncedAt, err := s.store.LoadMentors(ctx); err == nil {
			s.warnIfStale("mentors", syncedAt)
			s.backfillMentors(ctx, mentors)
			return mentors, nil
		}
	}
	values, err := s.source.Values(ctx, s.ranges.Mentors)
	if err != nil {
		return nil, fmt.Errorf("fetch mentor sheet: %w", err)
	}
	mentors := s.mapper.Mentors(values)
	s.backfillMentors(ctx, mentors)
	return mentors, nil
}

func (s *ProfileService) loadSynonyms(ctx context.Context) (*matching.SynonymTable, error) {
	if s.cache != nil {
		if rows, err := s.cache.GetSynonymRows(ctx); err == nil {
			return matching.NewSynonymTable(rows), nil
		}
	}
	if s.store != nil {
		if rows, syncedAt, err := s.store.LoadSynonymRows(ctx); err == nil {
			s.warnIfStale("synonyms", syncedAt)
			s.backfillSynonyms(ctx, rows)
			return matching.NewSynonymTable(rows), nil
		}
	}
	values, err := s.source.Values(ctx, s.ranges.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("fetch synonym sheet: %w", err)
	}
	rows := s.mapper.SynonymRows(values)
	s.backfillSynonyms(ctx, rows)
	return matching.NewSynonymTable(rows), nil
}

func (s *ProfileService) loadStudents(ctx context.Context) ([]matching.StudentProfile, error) {
	if s.cache != nil {
		if students, err := s.cache.GetStudents(ctx); err == nil {
			return students, nil
		}
	}
	if s.store != nil {
		if students, syncedAt, err := s.store.LoadStudents(ctx); err == nil {
			s.warnIfStale("students", syncedAt)
			s.backfillStudents(ctx, students)
			return students, nil
		}
	}
	values, err := s.source.Values(ctx, s.ranges.Students)
	if err != nil {
		return nil, fmt.Errorf("fetch student sheet: %w", err)
	}
	students := s.mapper.Students(values)
	s.backfillStudents(ctx, students)
	return students, nil
}

// warnIfStale flags reads served from a snapshot older than StaleSnapshotAge.
func (s *ProfileService) warnIfStale(table string, syncedAt time.Time) {
	age := time.Since(syncedAt)
	if age <= StaleSnapshotAge {
		return
	}
	s.logger.Warn("serving stale snapshot",
		zap.String("table", table),
		zap.Duration("age", age),
		zap.Error(shared.ErrSnapshotStale),
	)
}

// Backfills repopulate the cache after a lower tier served the read. Failures
// only cost the next read a cache miss, so they are logged and swallowed.

func (s *ProfileService) backfillStudents(ctx context.Context, students []matching.StudentProfile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetStudents(ctx, students); err != nil {
		s.logger.Warn("student cache backfill failed", zap.Error(err))
	}
}

func (s *ProfileService) backfillMentors(ctx context.Context, mentors []matching.MentorProfile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetMentors(ctx, mentors); err != nil {
		s.logger.Warn("mentor cache backfill failed", zap.Error(err))
	}
}

func (s *ProfileService) backfillSynonyms(ctx context.Context, rows [][]string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSynonymRows(ctx, rows); err != nil {
		s.logger.Warn("synonym cache backfill failed", zap.Error(err))
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SYNC
// ══════════════════════════════════════════════════════════════════════════════

// SyncReport summarizes one profile sync run.
type SyncReport struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	Students   int           `json:"students"`
	Mentors    int           `json:"mentors"`
	Synonyms   int           `json:"synonyms"`
}

// Sync fetches all three tables from the spreadsheet and writes them through
// the snapshot store and the cache. Only one sync runs at a time; concurrent
// calls get shared.ErrSyncInProgress.
func (s *ProfileService) Sync(ctx context.Context) (SyncReport, error) {
	if !s.syncing.CompareAndSwap(false, true) {
		return SyncReport{}, shared.ErrSyncInProgress
	}
	defer s.syncing.Store(false)

	report := SyncReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := s.logger.With(logger.SyncRunID(report.RunID))
	log.Info("profile sync started")

	syncErr := s.runSync(ctx, &report)

	report.FinishedAt = time.Now()
	report.Duration = report.FinishedAt.Sub(report.StartedAt)

	s.recordRun(ctx, report, syncErr)

	if syncErr != nil {
		log.Error("profile sync failed", zap.Error(syncErr), logger.Latency(report.Duration))
		return report, syncErr
	}

	log.Info("profile sync completed",
		zap.Int("students", report.Students),
		zap.Int("mentors", report.Mentors),
		zap.Int("synonyms", report.Synonyms),
		logger.Latency(report.Duration),
	)
	return report, nil
}

func (s *ProfileService) runSync(ctx context.Context, report *SyncReport) error {
	studentValues, err := s.source.Values(ctx, s.ranges.Students)
	if err != nil {
		return fmt.Errorf("fetch student sheet: %w", err)
	}
	mentorValues, err := s.source.Values(ctx, s.ranges.Mentors)
	if err != nil {
		return fmt.Errorf("fetch mentor sheet: %w", err)
	}
	synonymValues, err := s.source.Values(ctx, s.ranges.Synonyms)
	if err != nil {
		return fmt.Errorf("fetch synonym sheet: %w", err)
	}

	students := s.mapper.Students(studentValues)
	mentors := s.mapper.Mentors(mentorValues)
	synonyms := s.mapper.SynonymRows(synonymValues)

	if len(students) == 0 && len(mentors) == 0 {
		return shared.ErrNoProfileData
	}

	report.Students = len(students)
	report.Mentors = len(mentors)
	report.Synonyms = len(synonyms)

	if s.store != nil {
		if err := s.store.SaveStudents(ctx, students); err != nil {
			return fmt.Errorf("save student snapshot: %w", err)
		}
		if err := s.store.SaveMentors(ctx, mentors); err != nil {
			return fmt.Errorf("save mentor snapshot: %w", err)
		}
		if err := s.store.SaveSynonymRows(ctx, synonyms); err != nil {
			return fmt.Errorf("save synonym snapshot: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetStudents(ctx, students); err != nil {
			s.logger.Warn("student cache refresh failed", zap.Error(err))
		}
		if err := s.cache.SetMentors(ctx, mentors); err != nil {
			s.logger.Warn("mentor cache refresh failed", zap.Error(err))
		}
		if err := s.cache.SetSynonymRows(ctx, synonyms); err != nil {
			s.logger.Warn("synonym cache refresh failed", zap.Error(err))
		}
	}

	return nil
}

func (s *ProfileService) recordRun(ctx context.Context, report SyncReport, syncErr error) {
	if s.store == nil {
		return
	}
	run := postgres.SyncRun{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Students:   report.Students,
		Mentors:    report.Mentors,
		Synonyms:   report.Synonyms,
	}
	if syncErr != nil {
		run.Error = syncErr.Error()
	}
	if err := s.store.RecordSyncRun(ctx, run); err != nil {
		s.logger.Warn("sync run audit insert failed", zap.Error(err))
	}
}
