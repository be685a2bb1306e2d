package matching

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mondayStudent() StudentProfile {
	return StudentProfile{
		ID:     "S-001",
		Gender: "女性",
		Availability: []AvailabilityDeclaration{
			{HourLabel: "17:00〜18:00", Days: "月"},
		},
	}
}

func mondayMentor(id MentorID) MentorProfile {
	return MentorProfile{
		ID:                id,
		Gender:            "女性",
		RemainingCapacity: 2,
		Availability: map[Slot]string{
			{Day: WeekdayMonday, Hour: "1700"}: "TRUE",
		},
	}
}

func TestEngine_SameGenderMatch(t *testing.T) {
	engine := NewEngine(DefaultScoringPolicy(), nil)
	student := mondayStudent()

	result := engine.Score(student, ComputeCandidateSlots(student), mondayMentor("M-001"), NewSynonymTable(nil))

	assert.Equal(t, 10.0, result.Score)
	assert.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "same gender as student")
}

func TestEngine_ZeroCapacityOverridesEverything(t *testing.T) {
	engine := NewEngine(DefaultScoringPolicy(), nil)
	student := mondayStudent()
	mentor := mondayMentor("M-001")
	mentor.RemainingCapacity = 0
	mentor.GameLevels = map[string]float64{"マインクラフト": 5}

	result := engine.Score(student, ComputeCandidateSlots(student), mentor, NewSynonymTable(nil))

	assert.Zero(t, result.Score)
	assert.Equal(t, []string{ReasonNoCapacity}, result.Reasons)
}

func TestEngine_GameAffinityThroughAlias(t *testing.T) {
	engine := NewEngine(DefaultScoringPolicy(), nil)
	table := NewSynonymTable([][]string{{"マインクラフト", "マイクラ"}})

	student := mondayStudent()
	student.Gender = "男性" // no gender bonus, isolates the game channel
	student.Strengths = "マイクラ"

	mentor := mondayMentor("M-001")
	mentor.GameLevels = map[string]float64{"マインクラフト": 3}

	result := engine.Score(student, ComputeCandidateSlots(student), mentor, table)

	assert.Equal(t, 15.0, result.Score)
	assert.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "マインクラフト")
	assert.Contains(t, result.Reasons[0], "+15")
}

func TestEngine_FallbackReasonWhenNoFactorFired(t *testing.T) {
	policy := DefaultScoringPolicy()
	policy.BaseScore = 5
	engine := NewEngine(policy, nil)

	student := mondayStudent()
	student.Gender = "男性"

	result := engine.Score(student, ComputeCandidateSlots(student), mondayMentor("M-001"), NewSynonymTable(nil))

	assert.Equal(t, 5.0, result.Score)
	assert.Equal(t, []string{ReasonFallback}, result.Reasons)
}

func TestEngine_RelationBonus(t *testing.T) {
	engine := NewEngine(DefaultScoringPolicy(), nil)

	student := mondayStudent()
	student.Gender = "男性"
	student.RelatesWellWith = "落ち着いて 話を聞いてくれる 大人"

	mentor := mondayMentor("M-001")
	mentor.Personality = "落ち着いて 話を聞いてくれる 大人"

	result := engine.Score(student, ComputeCandidateSlots(student), mentor, NewSynonymTable(nil))

	assert.Equal(t, 10.0, result.Score)
	assert.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "communication style compatibility")
}

func TestScoreResultList_FilterSortTruncate(t *testing.T) {
	results := ScoreResultList{
		{MentorID: "A", Score: 80},
		{MentorID: "B", Score: 10},
		{MentorID: "C", Score: 0},
		{MentorID: "D", Score: 55},
		{MentorID: "E", Score: 30},
	}

	ranked := results.FilterPositive()
	sort.Stable(ranked)

	scores := make([]float64, 0, len(ranked))
	ids := make([]MentorID, 0, len(ranked))
	for _, r := range ranked {
		scores = append(scores, r.Score)
		ids = append(ids, r.MentorID)
	}
	assert.Equal(t, []float64{80, 55, 30, 10}, scores)
	assert.Equal(t, []MentorID{"A", "D", "E", "B"}, ids)

	assert.Len(t, ranked.TopN(2), 2)
	assert.Equal(t, ranked, ranked.TopN(10))
}

func TestEngine_RankMentors(t *testing.T) {
	engine := NewEngine(DefaultScoringPolicy(), nil)
	table := NewSynonymTable(nil)

	student := mondayStudent()
	student.Gender = "男性"
	student.Strengths = "minecraft"

	strong := mondayMentor("M-strong")
	strong.GameLevels = map[string]float64{"minecraft": 5} // 25

	weak := mondayMentor("M-weak")
	weak.GameLevels = map[string]float64{"minecraft": 3} // 15

	ineligible := mondayMentor("M-full")
	ineligible.RemainingCapacity = 0

	blank := mondayMentor("M-blank") // eligible but nothing to score

	ranked := engine.RankMentors(student, []MentorProfile{weak, ineligible, strong, blank}, table)

	assert.Len(t, ranked, 2)
	assert.Equal(t, MentorID("M-strong"), ranked[0].MentorID)
	assert.Equal(t, 1, ranked[0].RankPosition)
	assert.Equal(t, MentorID("M-weak"), ranked[1].MentorID)
	assert.Equal(t, 2, ranked[1].RankPosition)
}

func TestEngine_RankMentorsHonorsTopN(t *testing.T) {
	policy := DefaultScoringPolicy()
	policy.TopN = 1
	engine := NewEngine(policy, nil)

	student := mondayStudent() // same-gender bonus makes every mentor score 10

	ranked := engine.RankMentors(student, []MentorProfile{
		mondayMentor("M-1"), mondayMentor("M-2"), mondayMentor("M-3"),
	}, NewSynonymTable(nil))

	assert.Len(t, ranked, 1)
	assert.Equal(t, MentorID("M-1"), ranked[0].MentorID)
}

func TestEngine_EmptyAvailabilityNeverMatches(t *testing.T) {
	engine := NewEngine(DefaultScoringPolicy(), nil)
	student := StudentProfile{ID: "S-001", Gender: "女性"}

	results := engine.EvaluateAll(student, []MentorProfile{mondayMentor("M-1"), mondayMentor("M-2")}, NewSynonymTable(nil))

	for _, r := range results {
		assert.Zero(t, r.Score)
		assert.Equal(t, []string{ReasonSlotMismatch}, r.Reasons)
	}
	assert.Empty(t, engine.RankMentors(student, []MentorProfile{mondayMentor("M-1")}, NewSynonymTable(nil)))
}
