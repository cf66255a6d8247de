// internal/models/criteria.go
package models

// MatchCriteria is one client's quest definition: who they are (their own
// trait sets drive category overlap scoring) and what they want.
// MaxRedFlags below zero disables the red-flag gate; MinAge/MaxAge of
// zero disable that side of the age range.
type MatchCriteria struct {
	ClientID          string                      `json:"clientId"`
	ClientName        string                      `json:"clientName"`
	AcceptableGenders []Gender                    `json:"acceptableGenders,omitempty"`
	MinAge            int                         `json:"minAge"`
	MaxAge            int                         `json:"maxAge"`
	ClientTraits      map[TraitCategory][]Trait   `json:"clientTraits"`
	CategoryWeights   map[TraitCategory]float64   `json:"categoryWeights"`
	Requirements      []TraitRequirement          `json:"requirements,omitempty"`
	Dealbreakers      [][]string                  `json:"dealbreakers,omitempty"`
	MaxRedFlags       int                         `json:"maxRedFlags"`
	MinGreenFlags     int                         `json:"minGreenFlags"`
	MinRequiredMet    int                         `json:"minRequiredMet"`
}

// AcceptsGender reports whether the candidate gender passes the filter.
// An empty list accepts everyone.
func (mc *MatchCriteria) AcceptsGender(g Gender) bool {
	if len(mc.AcceptableGenders) == 0 {
		return true
	}
	for _, ag := range mc.AcceptableGenders {
		if ag == g {
			return true
		}
	}
	return false
}

// RequirementsAt returns the requirements at the given level, in authored
// order.
func (mc *MatchCriteria) RequirementsAt(level RequirementLevel) []TraitRequirement {
	var out []TraitRequirement
	for _, r := range mc.Requirements {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}
