// Package matching contains the mentor matching core for SOZOW Mentor Match.
//
// The package is pure: it performs no I/O, holds no global state, and never
// returns an error from the scoring path. Ranking one student against the
// mentor pool is a fold over immutable profile snapshots; every malformed
// input degrades to a zero or neutral contribution instead of failing.
//
// Pipeline, in evaluation order:
//  1. AvailabilityMatcher - derives a student's candidate weekly slots and
//     tests them against a mentor's availability grid.
//  2. EligibilityGate - ordered hard filters (slot, capacity, gender) that
//     can zero out a mentor before any weighted scoring runs.
//  3. GameAffinityScorer - canonical-name game overlap between mentor
//     proficiency data and the student's free-text interests.
//  4. TextualSimilarityScorer - bag-of-words cosine similarity between
//     short free-text profile fields.
//  5. Engine - composes the contributions into one score with an ordered
//     reason trace, then filters, sorts, and truncates across all mentors.
//
// All weights, bonuses, and thresholds live in ScoringPolicy so that tuning
// never touches gate or scorer logic.
package matching
