// internal/engine/score/scorer.go
package score

import (
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/metrics"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

const componentName = "score-engine"

// Scorer evaluates candidates against client criteria. Evaluation is
// deterministic: no clock, no randomness, no retained state between
// calls. The requirement mode is fixed at construction.
type Scorer struct {
	config *Config
	logger logger.Logger
}

func NewScorer(config *Config, log logger.Logger) *Scorer {
	if config == nil {
		config = LoadConfig()
	}
	return &Scorer{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": componentName}),
	}
}

// Mode returns the requirement mode the scorer was built with.
func (s *Scorer) Mode() models.RequirementMode {
	return s.config.RequirementMode
}

// Evaluate runs the gate pipeline and scoring for one candidate. It
// never returns an error: invalid input yields a non-match with the
// cannot_evaluate reason.
func (s *Scorer) Evaluate(candidate *models.CandidateProfile, criteria *models.MatchCriteria) *models.MatchResult {
	if candidate == nil || candidate.ID == "" || criteria == nil {
		metrics.RecordEvaluation(false, string(models.ReasonCannotEvaluate))
		return models.NonMatch(candidateID(candidate), models.ReasonCannotEvaluate)
	}

	red, green := candidate.GuaranteedFlagCounts()

	if reason, trait := s.checkGates(candidate, criteria, red, green); reason != models.ReasonNone {
		result := models.NonMatch(candidate.ID, reason)
		result.DealbreakerTrait = trait
		result.RedFlags = red
		result.GreenFlags = green
		metrics.RecordEvaluation(false, string(reason))
		s.logger.Debug("candidate gated out", map[string]interface{}{
			"candidateId": candidate.ID,
			"reason":      string(reason),
		})
		return result
	}

	result := s.scoreCandidate(candidate, criteria)
	result.RedFlags = red
	result.GreenFlags = green

	metrics.RecordEvaluation(true, "")
	s.logger.Debug("candidate evaluated", map[string]interface{}{
		"candidateId": candidate.ID,
		"score":       result.Score,
	})
	return result
}

// checkGates applies the hard gates in their fixed order and returns the
// first failing reason, plus the offending trait for dealbreakers.
func (s *Scorer) checkGates(candidate *models.CandidateProfile, criteria *models.MatchCriteria, red, green int) (models.FailureReason, string) {
	if !criteria.AcceptsGender(candidate.Gender) {
		return models.ReasonGenderMismatch, ""
	}

	for _, set := range criteria.Dealbreakers {
		for _, traitID := range set {
			if candidate.HasTrait(traitID) {
				return models.ReasonDealbreaker, traitID
			}
		}
	}

	// MaxRedFlags below zero disables the red-flag gate.
	if criteria.MaxRedFlags >= 0 && red > criteria.MaxRedFlags {
		return models.ReasonTooManyRedFlags, ""
	}
	if green < criteria.MinGreenFlags {
		return models.ReasonNotEnoughGreenFlags, ""
	}

	if !s.requiredGatePasses(candidate, criteria) {
		return models.ReasonRequirementsNotMet, ""
	}

	return models.ReasonNone, ""
}

func (s *Scorer) requiredGatePasses(candidate *models.CandidateProfile, criteria *models.MatchCriteria) bool {
	required := criteria.RequirementsAt(models.LevelRequired)
	if len(required) == 0 {
		return true
	}

	satisfied := 0
	for i := range required {
		if requirementSatisfied(candidate, &required[i]) {
			satisfied++
		}
	}

	switch s.config.RequirementMode {
	case models.ModeExplicitThreshold:
		need := criteria.MinRequiredMet
		if need <= 0 {
			need = len(required)
		}
		return satisfied >= need
	case models.ModeImplicitSoftening:
		if len(required) == 1 {
			return true
		}
		return satisfied >= 1
	case models.ModeScoringOnly:
		return true
	}
	return true
}

// scoreCandidate computes the weighted category overlap plus requirement
// bonuses and penalties. Only called for candidates past every gate.
func (s *Scorer) scoreCandidate(candidate *models.CandidateProfile, criteria *models.MatchCriteria) *models.MatchResult {
	result := &models.MatchResult{
		CandidateID: candidate.ID,
		IsMatch:     true,
	}

	traitSet := candidate.TraitSet()

	base := 0.0
	for _, cat := range models.ScoredCategories {
		cs := scoreCategory(cat, traitSet, criteria)
		base += cs.Weighted
		result.CategoryScores = append(result.CategoryScores, cs)
	}

	required := criteria.RequirementsAt(models.LevelRequired)
	softened := s.config.RequirementMode == models.ModeImplicitSoftening && len(required) == 1

	bonus := 0.0
	penalty := 0.0

	for i := range required {
		req := &required[i]
		met := requirementSatisfied(candidate, req)
		switch {
		case met && softened:
			bonus += s.config.PreferredBonus
			result.PreferencesMet = append(result.PreferencesMet, req.Description)
		case met:
			bonus += s.config.RequiredBonus
			result.RequirementsMet = append(result.RequirementsMet, req.Description)
		case softened:
			// demoted to a preference: an unmet preference is not reported
		default:
			result.RequirementsFailed = append(result.RequirementsFailed, req.Description)
			if s.config.RequirementMode == models.ModeScoringOnly {
				penalty += s.config.RequiredMissPenalty
			}
		}
	}

	for _, req := range criteria.RequirementsAt(models.LevelPreferred) {
		if requirementSatisfied(candidate, &req) {
			bonus += s.config.PreferredBonus
			result.PreferencesMet = append(result.PreferencesMet, req.Description)
		}
	}

	for _, req := range criteria.RequirementsAt(models.LevelAvoid) {
		if requirementSatisfied(candidate, &req) {
			penalty += s.config.AvoidPenalty
			result.AvoidsTriggered = append(result.AvoidsTriggered, req.Description)
		}
	}

	agePenalty := float64(yearsOutsideRange(candidate.Age, criteria.MinAge, criteria.MaxAge)) * s.config.AgePenaltyPerYear
	penalty += agePenalty

	result.BonusTotal = bonus
	result.PenaltyTotal = penalty
	result.AgePenalty = agePenalty
	result.Score = base + bonus - penalty
	return result
}

// scoreCategory sums the match weights of traits the candidate shares
// with the client's set for the category, normalized by the client set's
// total weight so each category lands in [0,1] before weighting.
func scoreCategory(cat models.TraitCategory, candidateTraits map[string]models.Trait, criteria *models.MatchCriteria) models.CategoryScore {
	cs := models.CategoryScore{
		Category: cat,
		Weight:   criteria.CategoryWeights[cat],
	}

	clientTraits := criteria.ClientTraits[cat]
	total := 0
	for _, t := range clientTraits {
		total += t.MatchWeight
	}
	if total == 0 {
		return cs
	}

	shared := 0
	for _, t := range clientTraits {
		if _, ok := candidateTraits[t.ID]; ok {
			shared += t.MatchWeight
		}
	}

	cs.Raw = float64(shared)
	cs.Normalized = float64(shared) / float64(total)
	cs.Weighted = cs.Normalized * cs.Weight
	return cs
}

// requirementSatisfied reports whether the candidate holds at least one
// acceptable trait within the requirement's categories. An empty trait
// list is never satisfied.
func requirementSatisfied(candidate *models.CandidateProfile, req *models.TraitRequirement) bool {
	for _, id := range req.TraitIDs {
		for _, t := range candidate.Traits {
			if t.ID == id && req.AppliesTo(t.Category) {
				return true
			}
		}
	}
	return false
}

// yearsOutsideRange counts whole years outside [minAge, maxAge]. A zero
// bound disables that side of the range.
func yearsOutsideRange(age, minAge, maxAge int) int {
	if minAge > 0 && age < minAge {
		return minAge - age
	}
	if maxAge > 0 && age > maxAge {
		return age - maxAge
	}
	return 0
}

func candidateID(candidate *models.CandidateProfile) string {
	if candidate == nil {
		return ""
	}
	return candidate.ID
}
