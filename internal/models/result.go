// internal/models/result.go
package models

// FailureReason names the gate that rejected a candidate, empty on match.
type FailureReason string

const (
	ReasonNone               FailureReason = ""
	ReasonCannotEvaluate     FailureReason = "cannot_evaluate"
	ReasonGenderMismatch     FailureReason = "gender_mismatch"
	ReasonDealbreaker        FailureReason = "dealbreaker"
	ReasonTooManyRedFlags    FailureReason = "too_many_red_flags"
	ReasonNotEnoughGreenFlags FailureReason = "not_enough_green_flags"
	ReasonRequirementsNotMet FailureReason = "requirements_not_met"
)

// CategoryScore is the per-category scoring breakdown. Raw is the summed
// weight of shared traits, Normalized divides by the client set's total
// weight, Weighted multiplies by the authored category weight.
type CategoryScore struct {
	Category   TraitCategory `json:"category"`
	Raw        float64       `json:"raw"`
	Normalized float64       `json:"normalized"`
	Weight     float64       `json:"weight"`
	Weighted   float64       `json:"weighted"`
}

// MatchResult is the full evaluation verdict with its breakdown and the
// explanation lists shown to the player after a decision.
type MatchResult struct {
	CandidateID      string          `json:"candidateId"`
	IsMatch          bool            `json:"isMatch"`
	Score            float64         `json:"score"`
	FailureReason    FailureReason   `json:"failureReason,omitempty"`
	DealbreakerTrait string          `json:"dealbreakerTrait,omitempty"`
	RedFlags         int             `json:"redFlags"`
	GreenFlags       int             `json:"greenFlags"`
	CategoryScores   []CategoryScore `json:"categoryScores,omitempty"`
	BonusTotal       float64         `json:"bonusTotal"`
	PenaltyTotal     float64         `json:"penaltyTotal"`
	AgePenalty       float64         `json:"agePenalty"`

	RequirementsMet    []string `json:"requirementsMet,omitempty"`
	RequirementsFailed []string `json:"requirementsFailed,omitempty"`
	PreferencesMet     []string `json:"preferencesMet,omitempty"`
	AvoidsTriggered    []string `json:"avoidsTriggered,omitempty"`
}

// NonMatch builds the short-circuit result for a failed gate.
func NonMatch(candidateID string, reason FailureReason) *MatchResult {
	return &MatchResult{
		CandidateID:   candidateID,
		IsMatch:       false,
		Score:         0,
		FailureReason: reason,
	}
}
