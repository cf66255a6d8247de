// internal/models/candidate.go
package models

// Gender is free-form authored content; the engine only compares values.
type Gender string

// CandidateProfile is a fully resolved candidate: trait references from
// the content pack are already expanded into Trait values.
type CandidateProfile struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Age             int            `json:"age"`
	Gender          Gender         `json:"gender"`
	Bio             string         `json:"bio,omitempty"`
	Traits          []Trait        `json:"traits"`
	GuaranteedPosts []PostTemplate `json:"guaranteedPosts,omitempty"`
}

// HasTrait reports whether the candidate holds the trait.
func (c *CandidateProfile) HasTrait(traitID string) bool {
	for _, t := range c.Traits {
		if t.ID == traitID {
			return true
		}
	}
	return false
}

// TraitSet returns the candidate's traits keyed by ID. Duplicate entries
// collapse, so each trait counts once in scoring.
func (c *CandidateProfile) TraitSet() map[string]Trait {
	set := make(map[string]Trait, len(c.Traits))
	for _, t := range c.Traits {
		set[t.ID] = t
	}
	return set
}

// GuaranteedFlagCounts tallies red and green flags over the candidate's
// guaranteed posts.
func (c *CandidateProfile) GuaranteedFlagCounts() (red, green int) {
	for i := range c.GuaranteedPosts {
		if c.GuaranteedPosts[i].IsRedFlag {
			red++
		}
		if c.GuaranteedPosts[i].IsGreenFlag {
			green++
		}
	}
	return red, green
}

// GuaranteedSpanDays is the largest authored DaysAgo over guaranteed
// posts, zero when there are none.
func (c *CandidateProfile) GuaranteedSpanDays() int {
	span := 0
	for i := range c.GuaranteedPosts {
		if c.GuaranteedPosts[i].DaysAgo > span {
			span = c.GuaranteedPosts[i].DaysAgo
		}
	}
	return span
}
