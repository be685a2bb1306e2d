// Package jobs contains the scheduled job implementations.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sozow-hub/mentor-match/internal/domain/shared"
	"github.com/sozow-hub/mentor-match/internal/infrastructure/service"

	"go.uber.org/zap"
)

// ══════════════════════════════════════════════════════════════════════════════
// SYNC PROFILES JOB
// ══════════════════════════════════════════════════════════════════════════════

// ProfileSyncer runs one profile sync. Implemented by service.ProfileService.
type ProfileSyncer interface {
	Sync(ctx context.Context) (service.SyncReport, error)
}

// SyncProfilesJob refreshes the profile tables from the spreadsheet on a
// schedule so ranking requests rarely touch the Sheets API directly.
type SyncProfilesJob struct {
	syncer  ProfileSyncer
	logger  *zap.Logger
	timeout time.Duration
}

// DefaultSyncTimeout bounds one sync run. Three sequential sheet fetches at
// one request per second stay well inside this.
const DefaultSyncTimeout = 2 * time.Minute

// NewSyncProfilesJob creates the sync job. A non-positive timeout falls back
// to DefaultSyncTimeout.
func NewSyncProfilesJob(syncer ProfileSyncer, log *zap.Logger, timeout time.Duration) *SyncProfilesJob {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	return &SyncProfilesJob{syncer: syncer, logger: log, timeout: timeout}
}

// Name returns the unique job name.
func (j *SyncProfilesJob) Name() string {
	return "sync_profiles"
}

// Description returns a human-readable description.
func (j *SyncProfilesJob) Description() string {
	return "Refreshes student, mentor, and synonym tables from the intake spreadsheet"
}

// Run executes one sync with a per-run timeout. A sync already started by an
// API call is not an error; the job just skips this tick.
func (j *SyncProfilesJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	report, err := j.syncer.Sync(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSyncInProgress) {
			j.logger.Info("sync already running, skipping tick")
			return nil
		}
		return err
	}

	j.logger.Info("scheduled sync finished",
		zap.String("run_id", report.RunID),
		zap.Int("students", report.Students),
		zap.Int("mentors", report.Mentors),
		zap.Int("synonyms", report.Synonyms),
		zap.Duration("duration", report.Duration),
	)
	return nil
}
