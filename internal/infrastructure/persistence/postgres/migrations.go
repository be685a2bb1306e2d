package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// Schema bootstrap runs at startup. The whole schema is two small tables, so
// migrations are embedded strings applied inside transactions and tracked in
// schema_migrations.
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema step.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// GetMigrations returns all embedded migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_profile_snapshots", UpSQL: migration001Up},
		{Version: 2, Name: "create_sync_runs", UpSQL: migration002Up},
	}
}

const migration001Up = `
-- Latest loaded profile tables, one row per table kind
-- (students / mentors / synonyms). Payload is the JSON-serialized profile
-- slice so the service can boot from the last good sync when the
-- spreadsheet is unreachable.
CREATE TABLE IF NOT EXISTS profile_snapshots (
    kind       TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    row_count  INTEGER NOT NULL DEFAULT 0,
    synced_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_kind CHECK (kind IN ('students', 'mentors', 'synonyms')),
    CONSTRAINT valid_row_count CHECK (row_count >= 0)
);
`

const migration002Up = `
-- Audit trail of profile sync runs.
CREATE TABLE IF NOT EXISTS sync_runs (
    id           UUID PRIMARY KEY,
    started_at   TIMESTAMP WITH TIME ZONE NOT NULL,
    finished_at  TIMESTAMP WITH TIME ZONE NOT NULL,
    students     INTEGER NOT NULL DEFAULT 0,
    mentors      INTEGER NOT NULL DEFAULT 0,
    synonyms     INTEGER NOT NULL DEFAULT 0,
    error        TEXT
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_started_at ON sync_runs(started_at DESC);
`

// Migrator applies pending migrations.
type Migrator struct {
	conn      *Connection
	tableName string
}

// NewMigrator creates a migrator with the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn, tableName: "schema_migrations"}
}

// Migrate applies all pending migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, mig := range GetMigrations() {
		if _, done := applied[mig.Version]; done {
			continue
		}
		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("execute migration %d: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx,
				fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName),
				mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

func (m *Migrator) ensureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Query(ctx,
		fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName))
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan migration row: %w", err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}
