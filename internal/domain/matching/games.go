package matching

import (
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// GAME AFFINITY
// Compares the mentor's games against the student's free-text interests
// through the synonym table. Two channels: structured per-game proficiency
// columns and the free-text "other games" catch-all. The contribution is the
// single maximum candidate value across all matched channels, so one mentor
// is rewarded once for its strongest shared-game signal.
// ══════════════════════════════════════════════════════════════════════════════

// gameAffinity is the scorer outcome: the winning point value plus the
// sorted, de-duplicated canonical names of every matched game.
type gameAffinity struct {
	points float64
	names  []string
}

// scoreGameAffinity evaluates both channels for one mentor.
func scoreGameAffinity(policy ScoringPolicy, table *SynonymTable, student StudentProfile, mentor MentorProfile) gameAffinity {
	studentText := strings.ToLower(student.InterestText())
	if studentText == "" {
		return gameAffinity{}
	}

	matched := make(map[string]struct{})
	var best float64

	// Structured channel: each proficiency column above the floor whose
	// canonical name or alias the student mentions.
	for game, level := range mentor.GameLevels {
		if level < policy.GameLevelMin {
			continue
		}
		if !mentionsAny(studentText, table.AliasesOf(game)) {
			continue
		}
		matched[table.CanonicalOf(game)] = struct{}{}
		if points := level * policy.GameLevelWeight; points > best {
			best = points
		}
	}

	// Free-text channel: an alias mentioned by the student and present in
	// one of the mentor's "other games" tokens.
	if tokens := splitGameTokens(mentor.OtherGames); len(tokens) > 0 {
		for _, canonical := range table.Canonicals() {
			for _, alias := range table.AliasesOf(canonical) {
				lowered := strings.ToLower(alias)
				if !strings.Contains(studentText, lowered) {
					continue
				}
				if !tokenContains(tokens, lowered) {
					continue
				}
				matched[canonical] = struct{}{}
				if policy.OtherGamePoints > best {
					best = policy.OtherGamePoints
				}
				break
			}
		}
	}

	if len(matched) == 0 {
		return gameAffinity{}
	}

	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)

	return gameAffinity{points: best, names: names}
}

// mentionsAny reports whether any of the names appears as a case-insensitive
// substring of the already-lowercased student text.
func mentionsAny(loweredText string, names []string) bool {
	for _, name := range names {
		if name == "" {
			continue
		}
		if strings.Contains(loweredText, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

// tokenContains reports whether the lowered alias appears as a substring of
// any token.
func tokenContains(tokens []string, loweredAlias string) bool {
	for _, token := range tokens {
		if strings.Contains(strings.ToLower(token), loweredAlias) {
			return true
		}
	}
	return false
}

// splitGameTokens splits the free-text "other games" field on full- and
// half-width commas, slashes, and whitespace.
func splitGameTokens(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case ',', '、', '，', '/', '／':
			return true
		}
		return r == ' ' || r == '　' || r == '\t' || r == '\n' || r == '\r'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
