package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreGameAffinity_AliasResolvesToCanonical(t *testing.T) {
	policy := DefaultScoringPolicy()
	table := NewSynonymTable([][]string{{"マインクラフト", "マイクラ"}})

	student := StudentProfile{Strengths: "マイクラで建築するのが好き"}
	mentor := MentorProfile{GameLevels: map[string]float64{"マインクラフト": 3}}

	got := scoreGameAffinity(policy, table, student, mentor)

	assert.Equal(t, 15.0, got.points)
	assert.Equal(t, []string{"マインクラフト"}, got.names)
}

func TestScoreGameAffinity_MaximumAcrossChannelsNotSum(t *testing.T) {
	policy := DefaultScoringPolicy()
	table := NewSynonymTable(nil)

	student := StudentProfile{Strengths: "fortnite and minecraft"}
	mentor := MentorProfile{GameLevels: map[string]float64{
		"fortnite":  3, // 15 candidate points
		"minecraft": 5, // 25 candidate points
	}}

	got := scoreGameAffinity(policy, table, student, mentor)

	assert.Equal(t, 25.0, got.points)
	assert.Equal(t, []string{"fortnite", "minecraft"}, got.names)
}

func TestScoreGameAffinity_ProficiencyBelowFloorIgnored(t *testing.T) {
	policy := DefaultScoringPolicy()
	table := NewSynonymTable(nil)

	student := StudentProfile{Strengths: "minecraft"}
	mentor := MentorProfile{GameLevels: map[string]float64{"minecraft": 1}}

	assert.Zero(t, scoreGameAffinity(policy, table, student, mentor).points)
}

func TestScoreGameAffinity_FreeTextChannel(t *testing.T) {
	policy := DefaultScoringPolicy()
	table := NewSynonymTable([][]string{{"スプラトゥーン", "スプラ"}})

	student := StudentProfile{InterestArea: "スプラが得意"}
	mentor := MentorProfile{OtherGames: "スプラトゥーン／ポケモン、テトリス"}

	got := scoreGameAffinity(policy, table, student, mentor)

	assert.Equal(t, policy.OtherGamePoints, got.points)
	assert.Equal(t, []string{"スプラトゥーン"}, got.names)
}

func TestScoreGameAffinity_StructuredBeatsFreeTextWhenStronger(t *testing.T) {
	policy := DefaultScoringPolicy()
	table := NewSynonymTable([][]string{{"マインクラフト", "マイクラ"}})

	student := StudentProfile{Strengths: "マイクラ"}
	mentor := MentorProfile{
		GameLevels: map[string]float64{"マインクラフト": 5}, // 25 candidate points
		OtherGames: "マイクラ",                            // fixed 15
	}

	assert.Equal(t, 25.0, scoreGameAffinity(policy, table, student, mentor).points)
}

func TestScoreGameAffinity_NoStudentText(t *testing.T) {
	got := scoreGameAffinity(DefaultScoringPolicy(), NewSynonymTable(nil), StudentProfile{},
		MentorProfile{GameLevels: map[string]float64{"minecraft": 5}})

	assert.Zero(t, got.points)
	assert.Empty(t, got.names)
}

func TestSplitGameTokens(t *testing.T) {
	tokens := splitGameTokens("マイクラ、フォトナ／スプラ, chess  将棋")

	assert.Equal(t, []string{"マイクラ", "フォトナ", "スプラ", "chess", "将棋"}, tokens)
}
