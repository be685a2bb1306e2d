package matching

import (
	"fmt"
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSITE SCORER / RANKER
// Folds gate verdict, game affinity, and textual similarity into one numeric
// score per mentor with an ordered reason trace, then filters, sorts, and
// truncates across the whole mentor collection.
// ══════════════════════════════════════════════════════════════════════════════

// ScoreResult is the outcome of evaluating one mentor for one student. Score
// 0 means ineligible; positive scores carry at least one reason.
type ScoreResult struct {
	MentorID     MentorID `json:"mentor_id"`
	Score        float64  `json:"score"`
	Reasons      []string `json:"reasons"`
	RankPosition int      `json:"rank_position"`
}

// ScoreResultList supports sorting and truncation of scored mentors.
type ScoreResultList []ScoreResult

// Len implements sort.Interface.
func (l ScoreResultList) Len() int { return len(l) }

// Less implements sort.Interface: descending by score. Ties keep input order
// under sort.Stable.
func (l ScoreResultList) Less(i, j int) bool { return l[i].Score > l[j].Score }

// Swap implements sort.Interface.
func (l ScoreResultList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// FilterPositive drops every zero-score entry.
func (l ScoreResultList) FilterPositive() ScoreResultList {
	out := make(ScoreResultList, 0, len(l))
	for _, r := range l {
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}

// TopN keeps the first n entries.
func (l ScoreResultList) TopN(n int) ScoreResultList {
	if n >= len(l) {
		return l
	}
	return l[:n]
}

// Engine runs the full matching pipeline. It is stateless apart from its
// policy and text matcher and safe for concurrent use; the synonym table
// travels with each call because it refreshes together with the profiles.
type Engine struct {
	policy ScoringPolicy
	text   TextMatcher
}

// NewEngine builds an engine. A nil matcher falls back to the default
// bag-of-words matcher.
func NewEngine(policy ScoringPolicy, text TextMatcher) *Engine {
	if text == nil {
		text = NewBagOfWordsMatcher()
	}
	return &Engine{policy: policy, text: text}
}

// Policy returns the engine's scoring policy.
func (e *Engine) Policy() ScoringPolicy {
	return e.policy
}

// Score evaluates one mentor against the student. candidateSlots must be the
// output of ComputeCandidateSlots for the same student. The call is total:
// any defect in the inputs degrades to a zero or neutral contribution.
func (e *Engine) Score(student StudentProfile, candidateSlots []Slot, mentor MentorProfile, table *SynonymTable) ScoreResult {
	gate := evaluateGate(e.policy, student, candidateSlots, mentor)
	if !gate.eligible {
		return ScoreResult{MentorID: mentor.ID, Reasons: []string{gate.reason}}
	}

	score := e.policy.BaseScore + gate.genderBonus
	reasons := make([]string, 0, 6)
	if gate.genderReason != "" {
		reasons = append(reasons, gate.genderReason)
	}

	affinity := scoreGameAffinity(e.policy, table, student, mentor)
	if affinity.points > 0 {
		score += affinity.points
		reasons = append(reasons, fmt.Sprintf("shared game interest: %s (+%.0f)",
			strings.Join(affinity.names, ", "), affinity.points))
	}

	// Mentor hobby text is enriched with the matched game names so a shared
	// game also counts toward lexical overlap.
	hobbyText := mentor.Hobbies
	if len(affinity.names) > 0 {
		hobbyText += " " + strings.Join(affinity.names, " ")
	}

	pairs := []struct {
		student string
		mentor  string
		label   string
	}{
		{student.Strengths, hobbyText, "strengths align with mentor hobbies"},
		{student.InterestArea, hobbyText, "interest area aligns with mentor hobbies"},
		{student.SchoolExpectations, mentor.SupportStyle, "school expectations align with mentor support style"},
	}

	var total float64
	for _, p := range pairs {
		sim := e.text.Compare(p.student, p.mentor)
		total += sim
		if sim > e.policy.SimilarityReasonMin {
			reasons = append(reasons, fmt.Sprintf("%s (similarity %.2f)", p.label, sim))
		}
	}
	score += total / float64(len(pairs)) * e.policy.SimilarityWeight

	relation := e.text.Compare(student.RelatesWellWith, mentor.Personality+" "+mentor.SupportStyle)
	if relation > e.policy.RelationMin {
		score += e.policy.RelationBonus
		reasons = append(reasons, fmt.Sprintf("communication style compatibility (similarity %.2f)", relation))
	}

	if score <= 0 {
		return ScoreResult{MentorID: mentor.ID, Reasons: []string{ReasonFallback}}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonFallback)
	}
	return ScoreResult{MentorID: mentor.ID, Score: score, Reasons: reasons}
}

// EvaluateAll scores every mentor in input order, including the ineligible
// ones, so callers can report totals before filtering.
func (e *Engine) EvaluateAll(student StudentProfile, mentors []MentorProfile, table *SynonymTable) ScoreResultList {
	slots := ComputeCandidateSlots(student)
	results := make(ScoreResultList, 0, len(mentors))
	for _, mentor := range mentors {
		results = append(results, e.Score(student, slots, mentor, table))
	}
	return results
}

// Rank discards zero scores from an already-evaluated list, stable-sorts the
// rest by score descending, keeps the policy's TopN, and assigns 1-based rank
// positions. The input list is not modified.
func (e *Engine) Rank(results ScoreResultList) ScoreResultList {
	ranked := results.FilterPositive()
	sort.Stable(ranked)
	ranked = ranked.TopN(e.policy.TopN)
	for i := range ranked {
		ranked[i].RankPosition = i + 1
	}
	return ranked
}

// RankMentors evaluates every mentor and ranks the result.
func (e *Engine) RankMentors(student StudentProfile, mentors []MentorProfile, table *SynonymTable) ScoreResultList {
	return e.Rank(e.EvaluateAll(student, mentors, table))
}
