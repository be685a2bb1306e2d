package query

import (
	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"

	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// Feeds the selection control: id plus display fields for every loaded
// student, in sheet order.
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is one student row in the selection list.
type StudentDTO struct {
	// StudentID - the school-issued identifier.
	StudentID string `json:"student_id"`

	// DisplayName - nickname shown in the selection control.
	DisplayName string `json:"display_name"`

	// Gender - the student's gender as written on the form.
	Gender string `json:"gender"`

	// HasGenderPreference - whether the family declared a mentor gender
	// constraint.
	HasGenderPreference bool `json:"has_gender_preference"`

	// DeclaredSlotCount - how many recurring availability declarations
	// parsed into candidate slots.
	DeclaredSlotCount int `json:"declared_slot_count"`
}

// ListStudentsResult is the selection-list response.
type ListStudentsResult struct {
	// Students - every loaded student in sheet order.
	Students []StudentDTO `json:"students"`

	// Total - number of students.
	Total int `json:"total"`

	// GeneratedAt - when the list was assembled.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListStudentsHandler handles selection-list queries.
type ListStudentsHandler struct {
	studentRepo matching.StudentRepository
}

// NewListStudentsHandler creates a new handler.
func NewListStudentsHandler(studentRepo matching.StudentRepository) *ListStudentsHandler {
	return &ListStudentsHandler{studentRepo: studentRepo}
}

// Handle returns the selection list.
func (h *ListStudentsHandler) Handle(ctx context.Context) (*ListStudentsResult, error) {
	students, err := h.studentRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrExternalService, "student list unavailable", err)
	}

	dtos := make([]StudentDTO, 0, len(students))
	for _, s := range students {
		dtos = append(dtos, StudentDTO{
			StudentID:           s.ID.String(),
			DisplayName:         s.DisplayName,
			Gender:              s.Gender,
			HasGenderPreference: s.HasGenderPreference(),
			DeclaredSlotCount:   len(matching.ComputeCandidateSlots(s)),
		})
	}

	return &ListStudentsResult{
		Students:    dtos,
		Total:       len(dtos),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
