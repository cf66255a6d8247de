// internal/models/trait.go
package models

// TraitCategory groups traits into the three scored dimensions.
type TraitCategory string

const (
	CategoryPersonality TraitCategory = "personality"
	CategoryInterests   TraitCategory = "interests"
	CategoryLifestyle   TraitCategory = "lifestyle"
)

// ScoredCategories is the evaluation order for category scoring.
var ScoredCategories = []TraitCategory{
	CategoryPersonality,
	CategoryInterests,
	CategoryLifestyle,
}

// Trait is a catalog entry. MatchWeight expresses how strongly the trait
// contributes when both sides share it (1 = weak signal, 10 = defining).
type Trait struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    TraitCategory `json:"category"`
	MatchWeight int           `json:"matchWeight"`
}

// RequirementLevel is how hard a client requirement binds.
type RequirementLevel string

const (
	LevelRequired  RequirementLevel = "required"
	LevelPreferred RequirementLevel = "preferred"
	LevelAvoid     RequirementLevel = "avoid"
)

// RequirementMode selects how Required requirements gate a verdict.
type RequirementMode string

const (
	// ModeExplicitThreshold gates on a minimum count of satisfied Required
	// requirements; a threshold of zero means all of them.
	ModeExplicitThreshold RequirementMode = "explicit_threshold"
	// ModeImplicitSoftening demotes a lone Required requirement to
	// Preferred; with two or more, at least one must be satisfied.
	ModeImplicitSoftening RequirementMode = "implicit_softening"
	// ModeScoringOnly never gates; unmet Required requirements only
	// subtract from the score.
	ModeScoringOnly RequirementMode = "scoring_only"
)

// Valid reports whether m is one of the three defined modes.
func (m RequirementMode) Valid() bool {
	switch m {
	case ModeExplicitThreshold, ModeImplicitSoftening, ModeScoringOnly:
		return true
	}
	return false
}

// TraitRequirement is one line of a client's wishlist. A candidate
// satisfies it by holding at least one of TraitIDs within Categories;
// for LevelAvoid, holding one triggers it instead.
type TraitRequirement struct {
	Description string           `json:"description" yaml:"description"`
	Level       RequirementLevel `json:"level" yaml:"level"`
	Categories  []TraitCategory  `json:"categories" yaml:"categories"`
	TraitIDs    []string         `json:"traitIds" yaml:"traitIds"`
}

// AppliesTo reports whether the requirement covers the given category.
// An empty category list covers all categories.
func (r *TraitRequirement) AppliesTo(cat TraitCategory) bool {
	if len(r.Categories) == 0 {
		return true
	}
	for _, c := range r.Categories {
		if c == cat {
			return true
		}
	}
	return false
}
