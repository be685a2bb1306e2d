package query

import (
	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"

	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CANDIDATE SLOTS QUERY
// Debug view of the availability matcher: the exact (weekday, hour) slots the
// slot extractor derived for one student. Useful when a family reports "no
// matches" and the cause is an unparseable availability answer.
// ══════════════════════════════════════════════════════════════════════════════

// GetCandidateSlotsQuery identifies the student to inspect.
type GetCandidateSlotsQuery struct {
	// StudentID - the student whose declarations to parse. Required.
	StudentID string
}

// Validate checks the query parameters.
func (q *GetCandidateSlotsQuery) Validate() error {
	if q.StudentID == "" {
		return shared.ErrInvalidStudent
	}
	return nil
}

// SlotDTO is one derived candidate slot.
type SlotDTO struct {
	// Day - the weekday token (月 through 日).
	Day string `json:"day"`

	// Hour - the normalized digits-only hour label.
	Hour string `json:"hour"`
}

// CandidateSlotsResult is the debug response.
type CandidateSlotsResult struct {
	// StudentID - the inspected student.
	StudentID string `json:"student_id"`

	// Slots - the derived candidate slots. Empty means the student can
	// never match any mentor.
	Slots []SlotDTO `json:"slots"`

	// DeclarationCount - how many raw availability answers the student has.
	DeclarationCount int `json:"declaration_count"`

	// GeneratedAt - when the slots were derived.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetCandidateSlotsHandler handles slot-inspection queries.
type GetCandidateSlotsHandler struct {
	studentRepo matching.StudentRepository
}

// NewGetCandidateSlotsHandler creates a new handler.
func NewGetCandidateSlotsHandler(studentRepo matching.StudentRepository) *GetCandidateSlotsHandler {
	return &GetCandidateSlotsHandler{studentRepo: studentRepo}
}

// Handle derives the candidate slots for one student.
func (h *GetCandidateSlotsHandler) Handle(ctx context.Context, query GetCandidateSlotsQuery) (*CandidateSlotsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	student, err := h.studentRepo.GetByID(ctx, matching.StudentID(query.StudentID))
	if err != nil {
		return nil, shared.WrapError("query", "GetCandidateSlots", shared.ErrNotFound, "student lookup failed", err)
	}

	slots := matching.ComputeCandidateSlots(student)
	dtos := make([]SlotDTO, 0, len(slots))
	for _, s := range slots {
		dtos = append(dtos, SlotDTO{Day: s.Day.String(), Hour: s.Hour})
	}

	return &CandidateSlotsResult{
		StudentID:        query.StudentID,
		Slots:            dtos,
		DeclarationCount: len(student.Availability),
		GeneratedAt:      time.Now().UTC(),
	}, nil
}
