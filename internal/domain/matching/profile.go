package matching

import (
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentID identifies a student row in the school roster sheet.
type StudentID string

// IsValid reports whether the StudentID is non-empty.
func (s StudentID) IsValid() bool {
	return len(s) > 0
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// MentorID identifies a mentor row in the mentor roster sheet.
type MentorID string

// IsValid reports whether the MentorID is non-empty.
func (m MentorID) IsValid() bool {
	return len(m) > 0
}

// String returns the string representation.
func (m MentorID) String() string {
	return string(m)
}

// Weekday is one of the seven Japanese weekday tokens used by the intake
// forms (月 through 日). Any other token is rejected during slot extraction.
type Weekday string

const (
	WeekdayMonday    Weekday = "月"
	WeekdayTuesday   Weekday = "火"
	WeekdayWednesday Weekday = "水"
	WeekdayThursday  Weekday = "木"
	WeekdayFriday    Weekday = "金"
	WeekdaySaturday  Weekday = "土"
	WeekdaySunday    Weekday = "日"
)

// Weekdays lists all seven weekday tokens in calendar order.
var Weekdays = [7]Weekday{
	WeekdayMonday, WeekdayTuesday, WeekdayWednesday, WeekdayThursday,
	WeekdayFriday, WeekdaySaturday, WeekdaySunday,
}

// IsValid reports whether the token is one of the seven weekday values.
func (w Weekday) IsValid() bool {
	switch w {
	case WeekdayMonday, WeekdayTuesday, WeekdayWednesday, WeekdayThursday,
		WeekdayFriday, WeekdaySaturday, WeekdaySunday:
		return true
	default:
		return false
	}
}

// String returns the weekday token.
func (w Weekday) String() string {
	return string(w)
}

// Slot is one recurring weekly session window: a weekday plus a normalized,
// digits-only hour label (17:00 becomes "1700"). Both sides of the match use
// the same normalization, so slots compare with plain equality.
type Slot struct {
	Day  Weekday
	Hour string
}

// IsValid reports whether both slot components are present.
func (s Slot) IsValid() bool {
	return s.Day.IsValid() && s.Hour != ""
}

// String returns the "day_hour" form used for grid keys and logging.
func (s Slot) String() string {
	return string(s.Day) + "_" + s.Hour
}

// MarshalText implements encoding.TextMarshaler so Slot can key JSON maps.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slot) UnmarshalText(text []byte) error {
	day, hour, ok := strings.Cut(string(text), "_")
	if !ok {
		return ErrInvalidSlot
	}
	parsed := Slot{Day: Weekday(day), Hour: hour}
	if !parsed.IsValid() {
		return ErrInvalidSlot
	}
	*s = parsed
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// NoPreference is the sentinel the intake form writes when a family declares
// no mentor gender preference. An empty string means the same thing.
const NoPreference = "指定なし"

// AvailabilityDeclaration is one recurring weekly availability answer from
// the student intake form. HourLabel carries the annotation of the form field
// itself (for example "17:00〜18:00"); Days carries the raw comma-separated
// weekday tokens the family selected (for example "月, 水").
type AvailabilityDeclaration struct {
	HourLabel string
	Days      string
}

// StudentProfile is an immutable snapshot of one student row.
type StudentProfile struct {
	// ID is the school-issued student identifier.
	ID StudentID

	// DisplayName is the nickname shown in the selection UI.
	DisplayName string

	// Gender is the student's own gender as written on the form.
	Gender string

	// MentorGenderPreference is the requested mentor gender. Empty or
	// NoPreference means no constraint.
	MentorGenderPreference string

	// Strengths is the free-text "things the child is good at and enjoys"
	// answer.
	Strengths string

	// InterestArea is the free-text "areas of interest" answer.
	InterestArea string

	// SchoolExpectations is the free-text "what the child looks forward to
	// at school" answer.
	SchoolExpectations string

	// RelatesWellWith describes the adults the child has historically
	// communicated well with.
	RelatesWellWith string

	// Availability holds the recurring weekly availability declarations.
	Availability []AvailabilityDeclaration
}

// InterestText concatenates the free-text fields searched for game mentions.
func (s StudentProfile) InterestText() string {
	return s.Strengths + s.InterestArea
}

// HasGenderPreference reports whether the family declared an actual mentor
// gender constraint (anything other than empty or the NoPreference sentinel).
func (s StudentProfile) HasGenderPreference() bool {
	pref := strings.TrimSpace(s.MentorGenderPreference)
	return pref != "" && pref != NoPreference
}

// GenderPreference returns the trimmed declared preference.
func (s StudentProfile) GenderPreference() string {
	return strings.TrimSpace(s.MentorGenderPreference)
}

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// MentorProfile is an immutable snapshot of one mentor row.
type MentorProfile struct {
	// ID is the mentor identifier.
	ID MentorID

	// DisplayName is the nickname shown in result tables.
	DisplayName string

	// Gender is the mentor's gender attribute.
	Gender string

	// RemainingCapacity is how many more students the mentor can take on.
	// Non-numeric sheet cells coerce to 0 at load time, which makes the
	// mentor ineligible rather than failing the load.
	RemainingCapacity int

	// GameLevels maps a game name (the ゲーム_* sheet columns) to the
	// mentor's numeric proficiency. Non-numeric cells are excluded at load
	// time and therefore never match.
	GameLevels map[string]float64

	// OtherGames is the free-text catch-all game field, split on comma,
	// slash, and whitespace separators during scoring.
	OtherGames string

	// Hobbies is the free-text "strengths, hobbies, interests" field.
	Hobbies string

	// Personality is the free-text communication-style field.
	Personality string

	// SupportStyle describes which students the mentor supports best.
	SupportStyle string

	// Availability is the 1on1 availability grid. Cells hold the raw sheet
	// value; only a case-insensitive "true" counts as available.
	Availability map[Slot]string
}

// AvailableAt reports whether the grid marks the slot as open.
func (m MentorProfile) AvailableAt(slot Slot) bool {
	cell, ok := m.Availability[slot]
	return ok && strings.EqualFold(strings.TrimSpace(cell), "true")
}
