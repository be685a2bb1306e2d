package matching

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY CONTRACTS
// The core consumes immutable profile snapshots from an external data
// collaborator. Implementations live in infrastructure; the scoring path
// itself performs no I/O.
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository provides read access to student profiles.
type StudentRepository interface {
	// GetByID returns a single student or ErrStudentNotFound.
	GetByID(ctx context.Context, id StudentID) (StudentProfile, error)

	// List returns every student in sheet order.
	List(ctx context.Context) ([]StudentProfile, error)
}

// MentorRepository provides read access to the mentor collection.
type MentorRepository interface {
	// List returns every mentor in sheet order.
	List(ctx context.Context) ([]MentorProfile, error)
}

// SynonymRepository provides the game synonym table.
type SynonymRepository interface {
	// Get returns the current synonym table.
	Get(ctx context.Context) (*SynonymTable, error)
}
