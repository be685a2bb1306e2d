package matching

import (
	"strings"
	"unicode"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVAILABILITY MATCHER
// Derives the candidate weekly slots a student declared and tests them
// against a mentor's availability grid. Parsing is forgiving: a declaration
// that does not parse is skipped, never reported as an error.
// ══════════════════════════════════════════════════════════════════════════════

// ComputeCandidateSlots scans the student's recurring availability
// declarations and returns the de-duplicated set of (weekday, hour) slots.
// Each declaration value is split on half- and full-width commas; tokens
// outside the seven weekday values are dropped. The hour comes from the
// declaration's own annotation, normalized to the digits-only form shared
// with the mentor grid. A student with no parseable declaration gets an
// empty slice and will not match any mentor.
func ComputeCandidateSlots(student StudentProfile) []Slot {
	slots := make([]Slot, 0, len(student.Availability))
	seen := make(map[Slot]struct{}, len(student.Availability))

	for _, decl := range student.Availability {
		hour := NormalizeHourLabel(decl.HourLabel)
		if hour == "" {
			continue
		}
		for _, token := range splitWeekdayTokens(decl.Days) {
			day := Weekday(token)
			if !day.IsValid() {
				continue
			}
			slot := Slot{Day: day, Hour: hour}
			if _, dup := seen[slot]; dup {
				continue
			}
			seen[slot] = struct{}{}
			slots = append(slots, slot)
		}
	}

	return slots
}

// isSlotMatch reports whether at least one candidate slot is open in the
// mentor's grid.
func isSlotMatch(slots []Slot, mentor MentorProfile) bool {
	for _, slot := range slots {
		if mentor.AvailableAt(slot) {
			return true
		}
	}
	return false
}

// NormalizeHourLabel reduces an hour annotation such as "17:00〜18:00" or
// "１７：００～" to the digits-only start-hour form ("1700"). Only the text
// before the range dash is considered; colons and other punctuation are
// dropped and full-width digits are folded to ASCII. Returns "" when the
// label contains no digits.
func NormalizeHourLabel(label string) string {
	for _, dash := range []string{"〜", "～", "-"} {
		if head, _, found := strings.Cut(label, dash); found {
			label = head
			break
		}
	}

	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '０' && r <= '９':
			b.WriteRune('0' + (r - '０'))
		}
	}
	return b.String()
}

// splitWeekdayTokens splits a declaration value on comma variants and trims
// surrounding whitespace, including full-width spaces.
func splitWeekdayTokens(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '、' || r == '，'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimFunc(f, unicode.IsSpace); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
