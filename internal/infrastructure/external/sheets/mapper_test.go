package sheets

import (
	"testing"

	"github.com/sozow-hub/mentor-match/internal/domain/matching"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_Students(t *testing.T) {
	values := [][]string{
		{
			headerStudentID, headerStudentName, headerStudentGender, headerStudentGenderPref,
			headerStudentStrengths, headerStudentInterest,
			"定期的な空き時間【17:00〜18:00】", "定期的な空き時間【19:00〜20:00】",
		},
		{"S-001", "はると", "男性", "指定なし", "マイクラで建築", "ゲーム実況", "月, 水", ""},
		{"", "名無し", "女性", "", "", "", "月", ""},
		{"S-002", "ゆい", "女性", "女性", "イラスト", "", "", "土"},
	}

	students := NewMapper().Students(values)
	require.Len(t, students, 2)

	first := students[0]
	assert.Equal(t, matching.StudentID("S-001"), first.ID)
	assert.Equal(t, "はると", first.DisplayName)
	assert.Equal(t, "男性", first.Gender)
	assert.False(t, first.HasGenderPreference())
	require.Len(t, first.Availability, 1)
	assert.Equal(t, "17:00〜18:00", first.Availability[0].HourLabel)
	assert.Equal(t, "月, 水", first.Availability[0].Days)

	second := students[1]
	assert.True(t, second.HasGenderPreference())
	require.Len(t, second.Availability, 1)
	assert.Equal(t, "19:00〜20:00", second.Availability[0].HourLabel)
}

func TestMapper_Mentors(t *testing.T) {
	values := [][]string{
		{
			headerMentorID, headerMentorName, headerMentorGender, headerMentorCapacity,
			headerMentorOtherGames, headerMentorHobbies,
			"ゲーム_マインクラフト", "ゲーム_フォートナイト",
			"1on1可能時間_月_17:00～", "1on1可能時間_水_19:00～",
		},
		{"M-001", "さくら", "女性", "2", "スプラ、ポケモン", "絵を描くこと", "3", "未回答", "TRUE", "FALSE"},
		{"M-002", "たける", "男性", "なし", "", "", "abc", "4", "", "true"},
	}

	mentors := NewMapper().Mentors(values)
	require.Len(t, mentors, 2)

	first := mentors[0]
	assert.Equal(t, matching.MentorID("M-001"), first.ID)
	assert.Equal(t, 2, first.RemainingCapacity)
	// Non-numeric proficiency column is excluded entirely.
	assert.Equal(t, map[string]float64{"マインクラフト": 3}, first.GameLevels)
	assert.True(t, first.AvailableAt(matching.Slot{Day: matching.WeekdayMonday, Hour: "1700"}))
	assert.False(t, first.AvailableAt(matching.Slot{Day: matching.WeekdayWednesday, Hour: "1900"}))

	second := mentors[1]
	// Non-numeric capacity coerces to 0.
	assert.Equal(t, 0, second.RemainingCapacity)
	assert.Equal(t, map[string]float64{"フォートナイト": 4}, second.GameLevels)
	assert.True(t, second.AvailableAt(matching.Slot{Day: matching.WeekdayWednesday, Hour: "1900"}))
}

func TestMapper_ShortRowsTolerated(t *testing.T) {
	values := [][]string{
		{headerMentorID, headerMentorCapacity, "ゲーム_マインクラフト"},
		{"M-001"},
	}

	mentors := NewMapper().Mentors(values)
	require.Len(t, mentors, 1)
	assert.Equal(t, 0, mentors[0].RemainingCapacity)
	assert.Empty(t, mentors[0].GameLevels)
}

func TestMapper_SynonymRows(t *testing.T) {
	values := [][]string{
		{"正式名称", "別名"},
		{"マインクラフト", "マイクラ,まいくら"},
		{"", "孤立した別名"},
		{"フォートナイト", "フォトナ"},
	}

	rows := NewMapper().SynonymRows(values)
	require.Len(t, rows, 2)

	table := matching.NewSynonymTable(rows)
	assert.Equal(t, "マインクラフト", table.CanonicalOf("マイクラ"))
	assert.Equal(t, "フォートナイト", table.CanonicalOf("フォトナ"))
}

func TestHourAnnotation(t *testing.T) {
	label, ok := hourAnnotation("定期的な空き時間【17:00〜18:00】")
	require.True(t, ok)
	assert.Equal(t, "17:00〜18:00", label)

	_, ok = hourAnnotation("定期的な空き時間 17:00から")
	assert.False(t, ok)
}

func TestMapper_StudentsSkipUnbracketedAvailabilityHeaders(t *testing.T) {
	values := [][]string{
		{headerStudentID, "定期的な面談は2回まで", "定期的な空き時間【17:00〜18:00】"},
		{"S-001", "月, 水", "金"},
	}

	students := NewMapper().Students(values)
	require.Len(t, students, 1)

	require.Len(t, students[0].Availability, 1)
	assert.Equal(t, "17:00〜18:00", students[0].Availability[0].HourLabel)
	assert.Equal(t, "金", students[0].Availability[0].Days)
}

func TestParseGridSlot(t *testing.T) {
	slot, ok := parseGridSlot("1on1可能時間_月_17:00～")
	require.True(t, ok)
	assert.Equal(t, matching.Slot{Day: matching.WeekdayMonday, Hour: "1700"}, slot)

	_, ok = parseGridSlot("1on1可能時間_祝_17:00～")
	assert.False(t, ok)

	_, ok = parseGridSlot("1on1可能時間_月曜のみ")
	assert.False(t, ok)
}
