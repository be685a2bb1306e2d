package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mondaySlot() Slot {
	return Slot{Day: WeekdayMonday, Hour: "1700"}
}

func availableMentor() MentorProfile {
	return MentorProfile{
		ID:                "M-001",
		Gender:            "女性",
		RemainingCapacity: 2,
		Availability:      map[Slot]string{mondaySlot(): "TRUE"},
	}
}

func TestEvaluateGate_SlotMismatch(t *testing.T) {
	policy := DefaultScoringPolicy()
	mentor := availableMentor()

	out := evaluateGate(policy, StudentProfile{}, nil, mentor)
	assert.False(t, out.eligible)
	assert.Equal(t, ReasonSlotMismatch, out.reason)

	out = evaluateGate(policy, StudentProfile{}, []Slot{{Day: WeekdayTuesday, Hour: "1700"}}, mentor)
	assert.False(t, out.eligible)
	assert.Equal(t, ReasonSlotMismatch, out.reason)
}

func TestEvaluateGate_NoCapacity(t *testing.T) {
	mentor := availableMentor()
	mentor.RemainingCapacity = 0

	out := evaluateGate(DefaultScoringPolicy(), StudentProfile{Gender: "女性"}, []Slot{mondaySlot()}, mentor)

	assert.False(t, out.eligible)
	assert.Equal(t, ReasonNoCapacity, out.reason)
	assert.Zero(t, out.genderBonus)
}

func TestEvaluateGate_PreferenceMismatch(t *testing.T) {
	student := StudentProfile{Gender: "男性", MentorGenderPreference: "男性"}

	out := evaluateGate(DefaultScoringPolicy(), student, []Slot{mondaySlot()}, availableMentor())

	assert.False(t, out.eligible)
	assert.Equal(t, ReasonGenderMismatch, out.reason)
}

func TestEvaluateGate_PreferenceMatchBonus(t *testing.T) {
	policy := DefaultScoringPolicy()
	student := StudentProfile{Gender: "男性", MentorGenderPreference: "女性"}

	out := evaluateGate(policy, student, []Slot{mondaySlot()}, availableMentor())

	assert.True(t, out.eligible)
	assert.Equal(t, policy.PreferenceMatchBonus, out.genderBonus)
	assert.Contains(t, out.genderReason, "requested mentor gender")
}

func TestEvaluateGate_SameGenderBonusWithoutPreference(t *testing.T) {
	policy := DefaultScoringPolicy()
	student := StudentProfile{Gender: "女性", MentorGenderPreference: NoPreference}

	out := evaluateGate(policy, student, []Slot{mondaySlot()}, availableMentor())

	assert.True(t, out.eligible)
	assert.Equal(t, policy.SameGenderBonus, out.genderBonus)
	assert.Contains(t, out.genderReason, "same gender as student")
}

func TestEvaluateGate_DifferentGenderWithoutPreference(t *testing.T) {
	student := StudentProfile{Gender: "男性"}

	out := evaluateGate(DefaultScoringPolicy(), student, []Slot{mondaySlot()}, availableMentor())

	assert.True(t, out.eligible)
	assert.Zero(t, out.genderBonus)
	assert.Empty(t, out.genderReason)
}
