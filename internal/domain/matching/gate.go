package matching

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// ELIGIBILITY GATE
// Ordered short-circuit checks that can zero out a mentor before any weighted
// scoring runs: slot overlap, remaining capacity, gender policy. The first
// failing check decides the single rejection reason.
// ══════════════════════════════════════════════════════════════════════════════

// Rejection and fallback reason strings shared with the tests and the API
// layer.
const (
	ReasonSlotMismatch   = "time slot mismatch"
	ReasonNoCapacity     = "no open mentoring slot"
	ReasonGenderMismatch = "gender preference mismatch"
	ReasonFallback       = "meets minimum conditions"
)

// gateOutcome carries the gate verdict plus the gender bonus decided as part
// of the gender-policy check.
type gateOutcome struct {
	eligible     bool
	reason       string
	genderBonus  float64
	genderReason string
}

// evaluateGate runs the three hard filters in order. candidateSlots is the
// precomputed output of ComputeCandidateSlots for the student; an empty set
// fails the first check for every mentor.
func evaluateGate(policy ScoringPolicy, student StudentProfile, candidateSlots []Slot, mentor MentorProfile) gateOutcome {
	if !isSlotMatch(candidateSlots, mentor) {
		return gateOutcome{reason: ReasonSlotMismatch}
	}

	if mentor.RemainingCapacity < 1 {
		return gateOutcome{reason: ReasonNoCapacity}
	}

	if student.HasGenderPreference() {
		if student.GenderPreference() != mentor.Gender {
			return gateOutcome{reason: ReasonGenderMismatch}
		}
		return gateOutcome{
			eligible:     true,
			genderBonus:  policy.PreferenceMatchBonus,
			genderReason: fmt.Sprintf("matches requested mentor gender (%s)", mentor.Gender),
		}
	}

	if student.Gender != "" && student.Gender == mentor.Gender {
		return gateOutcome{
			eligible:     true,
			genderBonus:  policy.SameGenderBonus,
			genderReason: "same gender as student",
		}
	}

	return gateOutcome{eligible: true}
}
