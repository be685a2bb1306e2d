package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE SNAPSHOT REPOSITORY
// One upserted JSONB row per table kind. Snapshots are the fallback read
// source: cache miss -> snapshot -> live spreadsheet.
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotKind names one persisted profile table.
type SnapshotKind string

const (
	KindStudents SnapshotKind = "students"
	KindMentors  SnapshotKind = "mentors"
	KindSynonyms SnapshotKind = "synonyms"
)

// ProfileRepo persists profile snapshots and the sync audit trail.
type ProfileRepo struct {
	conn *Connection
}

// NewProfileRepo creates a new repository.
func NewProfileRepo(conn *Connection) *ProfileRepo {
	return &ProfileRepo{conn: conn}
}

// SaveStudents upserts the student snapshot.
func (r *ProfileRepo) SaveStudents(ctx context.Context, students []matching.StudentProfile) error {
	return r.save(ctx, KindStudents, students, len(students))
}

// LoadStudents returns the student snapshot and its sync time.
func (r *ProfileRepo) LoadStudents(ctx context.Context) ([]matching.StudentProfile, time.Time, error) {
	var students []matching.StudentProfile
	syncedAt, err := r.load(ctx, KindStudents, &students)
	return students, syncedAt, err
}

// SaveMentors upserts the mentor snapshot.
func (r *ProfileRepo) SaveMentors(ctx context.Context, mentors []matching.MentorProfile) error {
	return r.save(ctx, KindMentors, mentors, len(mentors))
}

// LoadMentors returns the mentor snapshot and its sync time.
func (r *ProfileRepo) LoadMentors(ctx context.Context) ([]matching.MentorProfile, time.Time, error) {
	var mentors []matching.MentorProfile
	syncedAt, err := r.load(ctx, KindMentors, &mentors)
	return mentors, syncedAt, err
}

// SaveSynonymRows upserts the synonym table source rows.
func (r *ProfileRepo) SaveSynonymRows(ctx context.Context, rows [][]string) error {
	return r.save(ctx, KindSynonyms, rows, len(rows))
}

// LoadSynonymRows returns the synonym rows and their sync time.
func (r *ProfileRepo) LoadSynonymRows(ctx context.Context) ([][]string, time.Time, error) {
	var rows [][]string
	syncedAt, err := r.load(ctx, KindSynonyms, &rows)
	return rows, syncedAt, err
}

func (r *ProfileRepo) save(ctx context.Context, kind SnapshotKind, payload any, rowCount int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", kind, err)
	}

	_, err = r.conn.Exec(ctx, `
		INSERT INTO profile_snapshots (kind, payload, row_count, synced_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (kind) DO UPDATE
		SET payload = EXCLUDED.payload,
		    row_count = EXCLUDED.row_count,
		    synced_at = EXCLUDED.synced_at
	`, string(kind), data, rowCount)
	if err != nil {
		return fmt.Errorf("upsert %s snapshot: %w", kind, err)
	}
	return nil
}

func (r *ProfileRepo) load(ctx context.Context, kind SnapshotKind, out any) (time.Time, error) {
	var payload []byte
	var syncedAt time.Time

	err := r.conn.QueryRow(ctx,
		`SELECT payload, synced_at FROM profile_snapshots WHERE kind = $1`,
		string(kind),
	).Scan(&payload, &syncedAt)
	if IsNoRows(err) {
		return time.Time{}, shared.ErrSnapshotNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load %s snapshot: %w", kind, err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return time.Time{}, fmt.Errorf("unmarshal %s snapshot: %w", kind, err)
	}
	return syncedAt, nil
}

// SyncRun is one row of the sync audit trail.
type SyncRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Students   int
	Mentors    int
	Synonyms   int
	Error      string
}

// RecordSyncRun appends a sync run to the audit trail.
func (r *ProfileRepo) RecordSyncRun(ctx context.Context, run SyncRun) error {
	var errText *string
	if run.Error != "" {
		errText = &run.Error
	}

	_, err := r.conn.Exec(ctx, `
		INSERT INTO sync_runs (id, started_at, finished_at, students, mentors, synonyms, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Students, run.Mentors, run.Synonyms, errText)
	if err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}
	return nil
}
