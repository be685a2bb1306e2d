package sheets

import (
	"strconv"
	"strings"

	"github.com/sozow-hub/mentor-match/internal/domain/matching"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER
// Converts header-row + record rows from the intake worksheets into domain
// profiles. Forgiving by contract: a malformed cell degrades that one field
// and a row without an ID is dropped, but a single bad row never fails the
// whole load.
// ══════════════════════════════════════════════════════════════════════════════

// Student worksheet headers.
const (
	headerStudentID           = "(編集不可)スクールID"
	headerStudentName         = "ニックネーム"
	headerStudentStrengths    = "お子さまの得意なこと、好きなことを教えてください"
	headerStudentInterest     = "興味がある分野をお答えください"
	headerStudentExpectations = "お子さまがSOZOWスクールに期待していること、楽しみにしていることなどを教えてください"
	headerStudentRelatesWell  = "お子さまが今まで関わった大人の中で、良好なコミュニケーションがとれていた方に共通する特徴を教えてください"
	headerStudentGender       = "お子さまの性別"
	headerStudentGenderPref   = "メンターの性別のご希望"

	// Recurring-availability columns carry this marker plus a bracketed
	// hour annotation, e.g. "【定期的な空き時間】月〜金【17:00〜18:00】".
	availabilityMarker = "定期的"
)

// Mentor worksheet headers.
const (
	headerMentorID          = "メンターID"
	headerMentorName        = "ニックネーム\n（自動）"
	headerMentorCapacity    = "追加可能人数"
	headerMentorGender      = "属性_性別"
	headerMentorHobbies     = "得意なこと・趣味・興味のあること"
	headerMentorPersonality = "性格・コミュニケーション特性"
	headerMentorSupport     = "特にどんなスクール生のサポートが得意か"
	headerMentorOtherGames  = "その他の得意なゲーム"

	gameLevelPrefix = "ゲーム_"
	slotGridPrefix  = "1on1可能時間_"
)

// Mapper converts worksheet rows into domain profiles.
type Mapper struct{}

// NewMapper creates a new Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Students maps the student worksheet. The first row is the header.
func (m *Mapper) Students(values [][]string) []matching.StudentProfile {
	if len(values) < 2 {
		return nil
	}
	header := values[0]
	idx := headerIndex(header)

	students := make([]matching.StudentProfile, 0, len(values)-1)
	for _, row := range values[1:] {
		id := strings.TrimSpace(cell(row, idx.of(headerStudentID)))
		if id == "" {
			continue
		}

		s := matching.StudentProfile{
			ID:                     matching.StudentID(id),
			DisplayName:            cell(row, idx.of(headerStudentName)),
			Gender:                 strings.TrimSpace(cell(row, idx.of(headerStudentGender))),
			MentorGenderPreference: strings.TrimSpace(cell(row, idx.of(headerStudentGenderPref))),
			Strengths:              cell(row, idx.of(headerStudentStrengths)),
			InterestArea:           cell(row, idx.of(headerStudentInterest)),
			SchoolExpectations:     cell(row, idx.of(headerStudentExpectations)),
			RelatesWellWith:        cell(row, idx.of(headerStudentRelatesWell)),
		}

		for col, name := range header {
			if !strings.Contains(name, availabilityMarker) {
				continue
			}
			hourLabel, ok := hourAnnotation(name)
			if !ok {
				continue
			}
			days := cell(row, col)
			if strings.TrimSpace(days) == "" {
				continue
			}
			s.Availability = append(s.Availability, matching.AvailabilityDeclaration{
				HourLabel: hourLabel,
				Days:      days,
			})
		}

		students = append(students, s)
	}
	return students
}

// Mentors maps the mentor worksheet. The first row is the header.
func (m *Mapper) Mentors(values [][]string) []matching.MentorProfile {
	if len(values) < 2 {
		return nil
	}
	header := values[0]
	idx := headerIndex(header)

	mentors := make([]matching.MentorProfile, 0, len(values)-1)
	for _, row := range values[1:] {
		id := strings.TrimSpace(cell(row, idx.of(headerMentorID)))
		if id == "" {
			continue
		}

		p := matching.MentorProfile{
			ID:                matching.MentorID(id),
			DisplayName:       cell(row, idx.of(headerMentorName)),
			Gender:            strings.TrimSpace(cell(row, idx.of(headerMentorGender))),
			RemainingCapacity: parseCapacity(cell(row, idx.of(headerMentorCapacity))),
			OtherGames:        cell(row, idx.of(headerMentorOtherGames)),
			Hobbies:           cell(row, idx.of(headerMentorHobbies)),
			Personality:       cell(row, idx.of(headerMentorPersonality)),
			SupportStyle:      cell(row, idx.of(headerMentorSupport)),
			GameLevels:        make(map[string]float64),
			Availability:      make(map[matching.Slot]string),
		}

		for col, name := range header {
			switch {
			case strings.HasPrefix(name, gameLevelPrefix):
				game := strings.TrimPrefix(name, gameLevelPrefix)
				// Non-numeric proficiency cells never match.
				if level, err := strconv.ParseFloat(strings.TrimSpace(cell(row, col)), 64); err == nil {
					p.GameLevels[game] = level
				}

			case strings.HasPrefix(name, slotGridPrefix):
				slot, ok := parseGridSlot(name)
				if !ok {
					continue
				}
				p.Availability[slot] = cell(row, col)
			}
		}

		mentors = append(mentors, p)
	}
	return mentors
}

// SynonymRows maps the synonym worksheet into the raw rows the domain table
// is built from. The first row is the header.
func (m *Mapper) SynonymRows(values [][]string) [][]string {
	if len(values) < 2 {
		return nil
	}
	rows := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// columnIndex maps header names to their column, resolving missing headers
// to -1 so the cell helper treats them as empty.
type columnIndex map[string]int

func headerIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for col, name := range header {
		idx[name] = col
	}
	return idx
}

func (idx columnIndex) of(name string) int {
	if col, ok := idx[name]; ok {
		return col
	}
	return -1
}

// cell returns the raw cell value, tolerating rows shorter than the header.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// parseCapacity coerces the capacity cell to a non-negative int. Non-numeric
// cells become 0, which makes the mentor ineligible instead of failing the
// load.
func parseCapacity(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// hourAnnotation extracts the bracketed hour label from an availability
// header, e.g. "定期的な空き時間【17:00〜18:00】" -> "17:00〜18:00". A header
// without the bracket pair carries no usable hour and is not an availability
// column.
func hourAnnotation(header string) (string, bool) {
	open := strings.LastIndex(header, "【")
	shut := strings.LastIndex(header, "】")
	if open >= 0 && shut > open {
		return header[open+len("【") : shut], true
	}
	return "", false
}

// parseGridSlot parses a grid header "1on1可能時間_月_17:00～" into a Slot.
func parseGridSlot(header string) (matching.Slot, bool) {
	rest := strings.TrimPrefix(header, slotGridPrefix)
	dayToken, hourLabel, ok := strings.Cut(rest, "_")
	if !ok {
		return matching.Slot{}, false
	}
	slot := matching.Slot{
		Day:  matching.Weekday(strings.TrimSpace(dayToken)),
		Hour: matching.NormalizeHourLabel(hourLabel),
	}
	if !slot.IsValid() {
		return matching.Slot{}, false
	}
	return slot, true
}
