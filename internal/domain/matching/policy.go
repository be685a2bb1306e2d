package matching

// ══════════════════════════════════════════════════════════════════════════════
// SCORING POLICY
// Every tunable constant of the pipeline in one place. Gate and scorer code
// reads these fields and hard-codes nothing, so reweighting the matcher is a
// configuration change.
// ══════════════════════════════════════════════════════════════════════════════

// ScoringPolicy holds the weights, bonuses, and thresholds of the matching
// pipeline.
type ScoringPolicy struct {
	// BaseScore is the score an eligible mentor starts from before any
	// bonus is applied.
	BaseScore float64

	// PreferenceMatchBonus is awarded when the mentor's gender equals the
	// family's declared preference.
	PreferenceMatchBonus float64

	// SameGenderBonus is the smaller bonus awarded when no preference was
	// declared but the mentor and student genders match.
	SameGenderBonus float64

	// GameLevelMin is the minimum structured proficiency a mentor needs in
	// a game before it can count as shared.
	GameLevelMin float64

	// GameLevelWeight multiplies the proficiency of a matched structured
	// game into candidate points.
	GameLevelWeight float64

	// OtherGamePoints is the fixed candidate value for a game matched via
	// the free-text "other games" field.
	OtherGamePoints float64

	// SimilarityWeight scales the averaged field-pair cosine similarity
	// into the score.
	SimilarityWeight float64

	// SimilarityReasonMin is the per-pair similarity above which a reason
	// fragment is recorded.
	SimilarityReasonMin float64

	// RelationBonus is awarded when the relation-compatibility channel
	// exceeds RelationMin.
	RelationBonus float64

	// RelationMin is the similarity threshold of the relation channel.
	RelationMin float64

	// TopN is how many ranked mentors survive truncation.
	TopN int
}

// DefaultScoringPolicy returns the production weights.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		BaseScore:            0,
		PreferenceMatchBonus: 30,
		SameGenderBonus:      10,
		GameLevelMin:         2,
		GameLevelWeight:      5,
		OtherGamePoints:      15,
		SimilarityWeight:     20,
		SimilarityReasonMin:  0.15,
		RelationBonus:        10,
		RelationMin:          0.2,
		TopN:                 10,
	}
}

// Validate checks the policy for values that would break the pipeline.
func (p ScoringPolicy) Validate() error {
	if p.BaseScore < 0 {
		return ErrInvalidPolicy
	}
	if p.SimilarityReasonMin < 0 || p.SimilarityReasonMin > 1 {
		return ErrInvalidPolicy
	}
	if p.RelationMin < 0 || p.RelationMin > 1 {
		return ErrInvalidPolicy
	}
	if p.TopN <= 0 {
		return ErrInvalidPolicy
	}
	return nil
}
