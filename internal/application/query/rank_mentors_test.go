package query

import (
	"github.com/sozow-hub/mentor-match/internal/domain/matching"
	"github.com/sozow-hub/mentor-match/internal/domain/shared"

	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories for handler tests.

type stubStudentRepo struct {
	students []matching.StudentProfile
}

func (r *stubStudentRepo) GetByID(_ context.Context, id matching.StudentID) (matching.StudentProfile, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return matching.StudentProfile{}, shared.ErrStudentNotFound
}

func (r *stubStudentRepo) List(_ context.Context) ([]matching.StudentProfile, error) {
	return r.students, nil
}

type stubMentorRepo struct {
	mentors []matching.MentorProfile
}

func (r *stubMentorRepo) List(_ context.Context) ([]matching.MentorProfile, error) {
	return r.mentors, nil
}

type stubSynonymRepo struct {
	table *matching.SynonymTable
}

func (r *stubSynonymRepo) Get(_ context.Context) (*matching.SynonymTable, error) {
	return r.table, nil
}

func fixtureStudent() matching.StudentProfile {
	return matching.StudentProfile{
		ID:          "S-001",
		DisplayName: "はると",
		Gender:      "男性",
		Strengths:   "マイクラで建築",
		Availability: []matching.AvailabilityDeclaration{
			{HourLabel: "17:00〜18:00", Days: "月"},
		},
	}
}

func fixtureMentor(id matching.MentorID, minecraftLevel float64) matching.MentorProfile {
	return matching.MentorProfile{
		ID:                id,
		DisplayName:       "mentor-" + string(id),
		Gender:            "女性",
		RemainingCapacity: 2,
		GameLevels:        map[string]float64{"マインクラフト": minecraftLevel},
		Availability: map[matching.Slot]string{
			{Day: matching.WeekdayMonday, Hour: "1700"}: "TRUE",
		},
	}
}

func newRankHandler(students []matching.StudentProfile, mentors []matching.MentorProfile) *RankMentorsHandler {
	return NewRankMentorsHandler(
		&stubStudentRepo{students: students},
		&stubMentorRepo{mentors: mentors},
		&stubSynonymRepo{table: matching.NewSynonymTable([][]string{{"マインクラフト", "マイクラ"}})},
		matching.NewEngine(matching.DefaultScoringPolicy(), nil),
	)
}

func TestRankMentorsHandler_RanksAndFilters(t *testing.T) {
	full := fixtureMentor("M-full", 5)
	full.RemainingCapacity = 0

	handler := newRankHandler(
		[]matching.StudentProfile{fixtureStudent()},
		[]matching.MentorProfile{fixtureMentor("M-weak", 3), fixtureMentor("M-strong", 5), full},
	)

	result, err := handler.Handle(context.Background(), RankMentorsQuery{StudentID: "S-001"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalEvaluated)
	assert.Equal(t, 2, result.EligibleCount)
	require.Len(t, result.Matches, 2)

	assert.Equal(t, "M-strong", result.Matches[0].MentorID)
	assert.Equal(t, 1, result.Matches[0].RankPosition)
	assert.Equal(t, "mentor-M-strong", result.Matches[0].DisplayName)
	assert.Equal(t, 25.0, result.Matches[0].Score)
	assert.NotEmpty(t, result.Matches[0].Reasons)

	assert.Equal(t, "M-weak", result.Matches[1].MentorID)
	assert.Equal(t, 15.0, result.Matches[1].Score)
}

func TestRankMentorsHandler_HonorsLimit(t *testing.T) {
	handler := newRankHandler(
		[]matching.StudentProfile{fixtureStudent()},
		[]matching.MentorProfile{fixtureMentor("M-1", 3), fixtureMentor("M-2", 4), fixtureMentor("M-3", 5)},
	)

	result, err := handler.Handle(context.Background(), RankMentorsQuery{StudentID: "S-001", Limit: 1})
	require.NoError(t, err)

	assert.Len(t, result.Matches, 1)
	assert.Equal(t, "M-3", result.Matches[0].MentorID)
	assert.Equal(t, 3, result.EligibleCount)
	assert.Equal(t, 1, result.Criteria.Limit)
}

type countingMatcher struct {
	compares int
}

func (m *countingMatcher) Tokenize(text string) []string {
	return strings.Fields(text)
}

func (m *countingMatcher) Compare(a, b string) float64 {
	m.compares++
	return 0
}

func TestRankMentorsHandler_ScoresEachMentorOnce(t *testing.T) {
	matcher := &countingMatcher{}
	handler := NewRankMentorsHandler(
		&stubStudentRepo{students: []matching.StudentProfile{fixtureStudent()}},
		&stubMentorRepo{mentors: []matching.MentorProfile{fixtureMentor("M-1", 5)}},
		&stubSynonymRepo{table: matching.NewSynonymTable([][]string{{"マインクラフト", "マイクラ"}})},
		matching.NewEngine(matching.DefaultScoringPolicy(), matcher),
	)

	result, err := handler.Handle(context.Background(), RankMentorsQuery{StudentID: "S-001"})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)

	// One eligible mentor costs exactly the three field-pair comparisons plus
	// the relation comparison, once per request.
	assert.Equal(t, 4, matcher.compares)
}

func TestRankMentorsHandler_StudentNotFound(t *testing.T) {
	handler := newRankHandler(nil, nil)

	_, err := handler.Handle(context.Background(), RankMentorsQuery{StudentID: "missing"})

	assert.True(t, shared.IsNotFound(err))
}

func TestRankMentorsHandler_RequiresStudentID(t *testing.T) {
	handler := newRankHandler(nil, nil)

	_, err := handler.Handle(context.Background(), RankMentorsQuery{})

	assert.ErrorIs(t, err, shared.ErrInvalidStudent)
}

func TestListStudentsHandler(t *testing.T) {
	handler := NewListStudentsHandler(&stubStudentRepo{students: []matching.StudentProfile{fixtureStudent()}})

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Students, 1)
	assert.Equal(t, "S-001", result.Students[0].StudentID)
	assert.Equal(t, "はると", result.Students[0].DisplayName)
	assert.False(t, result.Students[0].HasGenderPreference)
	assert.Equal(t, 1, result.Students[0].DeclaredSlotCount)
}

func TestGetCandidateSlotsHandler(t *testing.T) {
	handler := NewGetCandidateSlotsHandler(&stubStudentRepo{students: []matching.StudentProfile{fixtureStudent()}})

	result, err := handler.Handle(context.Background(), GetCandidateSlotsQuery{StudentID: "S-001"})
	require.NoError(t, err)

	assert.Equal(t, []SlotDTO{{Day: "月", Hour: "1700"}}, result.Slots)
	assert.Equal(t, 1, result.DeclarationCount)
}
