// Package query contains read operations (CQRS - Queries).
package query

import (
	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"

	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANK MENTORS QUERY
// The key query of the service: evaluates every mentor against one selected
// student and returns the ranked, explained match list the selection UI
// renders. Recomputed fresh on every call; nothing is persisted.
// ══════════════════════════════════════════════════════════════════════════════

// RankMentorsQuery contains the ranking parameters.
type RankMentorsQuery struct {
	// StudentID - the student to rank mentors for. Required.
	StudentID string

	// Limit - maximum number of matches to return. Defaults to the scoring
	// policy's TopN; never exceeds it.
	Limit int
}

// Validate checks and normalizes the query parameters.
func (q *RankMentorsQuery) Validate() error {
	if q.StudentID == "" {
		return shared.ErrInvalidStudent
	}
	if q.Limit < 0 {
		return shared.NewDomainError("query", "RankMentors", shared.ErrValueOutOfRange, "limit cannot be negative")
	}
	return nil
}

// MatchDTO is one ranked mentor in the response.
type MatchDTO struct {
	// MentorID - the mentor identifier.
	MentorID string `json:"mentor_id"`

	// DisplayName - the mentor nickname shown in result tables.
	DisplayName string `json:"display_name"`

	// Gender - the mentor's gender attribute.
	Gender string `json:"gender"`

	// RemainingCapacity - open student slots at evaluation time.
	RemainingCapacity int `json:"remaining_capacity"`

	// Score - the composite match score.
	Score float64 `json:"score"`

	// Reasons - the ordered reason trace explaining the score.
	Reasons []string `json:"reasons"`

	// RankPosition - 1-based position in the ranked list.
	RankPosition int `json:"rank_position"`
}

// RankMentorsResult is the full ranking response.
type RankMentorsResult struct {
	// StudentID - the evaluated student.
	StudentID string `json:"student_id"`

	// Matches - ranked mentors, best first.
	Matches []MatchDTO `json:"matches"`

	// TotalEvaluated - how many mentors the pipeline looked at.
	TotalEvaluated int `json:"total_evaluated"`

	// EligibleCount - how many scored above zero before truncation.
	EligibleCount int `json:"eligible_count"`

	// GeneratedAt - when the ranking was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// Criteria - echo of the applied parameters.
	Criteria RankCriteria `json:"criteria"`

	// Message - short operator-facing summary.
	Message string `json:"message,omitempty"`
}

// RankCriteria echoes the parameters the ranking ran with.
type RankCriteria struct {
	StudentID string `json:"student_id"`
	Limit     int    `json:"limit"`
}

// RankMentorsHandler handles mentor ranking queries.
type RankMentorsHandler struct {
	studentRepo matching.StudentRepository
	mentorRepo  matching.MentorRepository
	synonymRepo matching.SynonymRepository
	engine      *matching.Engine
}

// NewRankMentorsHandler creates a new handler.
func NewRankMentorsHandler(
	studentRepo matching.StudentRepository,
	mentorRepo matching.MentorRepository,
	synonymRepo matching.SynonymRepository,
	engine *matching.Engine,
) *RankMentorsHandler {
	return &RankMentorsHandler{
		studentRepo: studentRepo,
		mentorRepo:  mentorRepo,
		synonymRepo: synonymRepo,
		engine:      engine,
	}
}

// Handle runs the ranking pipeline for one student.
func (h *RankMentorsHandler) Handle(ctx context.Context, query RankMentorsQuery) (*RankMentorsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit == 0 || limit > h.engine.Policy().TopN {
		limit = h.engine.Policy().TopN
	}

	student, err := h.studentRepo.GetByID(ctx, matching.StudentID(query.StudentID))
	if err != nil {
		return nil, shared.WrapError("query", "RankMentors", shared.ErrNotFound, "student lookup failed", err)
	}

	mentors, err := h.mentorRepo.List(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "RankMentors", shared.ErrExternalService, "mentor list unavailable", err)
	}

	table, err := h.synonymRepo.Get(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "RankMentors", shared.ErrExternalService, "synonym table unavailable", err)
	}

	byID := make(map[matching.MentorID]matching.MentorProfile, len(mentors))
	for _, m := range mentors {
		byID[m.ID] = m
	}

	evaluated := h.engine.EvaluateAll(student, mentors, table)
	eligible := len(evaluated.FilterPositive())

	ranked := h.engine.Rank(evaluated)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	matches := make([]MatchDTO, 0, len(ranked))
	for _, r := range ranked {
		mentor := byID[r.MentorID]
		matches = append(matches, MatchDTO{
			MentorID:          r.MentorID.String(),
			DisplayName:       mentor.DisplayName,
			Gender:            mentor.Gender,
			RemainingCapacity: mentor.RemainingCapacity,
			Score:             r.Score,
			Reasons:           r.Reasons,
			RankPosition:      r.RankPosition,
		})
	}

	return &RankMentorsResult{
		StudentID:      query.StudentID,
		Matches:        matches,
		TotalEvaluated: len(mentors),
		EligibleCount:  eligible,
		GeneratedAt:    time.Now().UTC(),
		Criteria: RankCriteria{
			StudentID: query.StudentID,
			Limit:     limit,
		},
		Message: h.generateMessage(len(matches), eligible, len(mentors)),
	}, nil
}

// generateMessage produces the operator-facing summary line.
func (h *RankMentorsHandler) generateMessage(shown, eligible, total int) string {
	switch {
	case total == 0:
		return "No mentors loaded yet. Run a profile sync first."
	case eligible == 0:
		return "No mentor cleared the eligibility gate for this student."
	case eligible > shown:
		return "Showing the strongest candidates; more mentors were eligible."
	default:
		return "All eligible mentors are shown."
	}
}
