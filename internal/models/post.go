// internal/models/post.go
package models

// PostType is the presentation type of a feed post. Status and photo
// posts are eligible for random pool draws; intro posts only appear as
// guaranteed slots on a candidate.
type PostType string

const (
	PostTypeStatus PostType = "status"
	PostTypePhoto  PostType = "photo"
	PostTypeIntro  PostType = "intro"
)

// FeedEligible reports whether pool entries of this type may be drawn
// into a generated feed.
func (t PostType) FeedEligible() bool {
	return t == PostTypeStatus || t == PostTypePhoto
}

// PostTemplate is authored content: either a shared pool entry or a
// candidate's guaranteed post. DaysAgo is only meaningful on guaranteed
// posts; drawn posts get a synthesized position in the recency window.
type PostTemplate struct {
	ID          string   `json:"id"`
	Type        PostType `json:"type"`
	Text        string   `json:"text"`
	ImageRef    string   `json:"imageRef,omitempty"`
	TraitIDs    []string `json:"traitIds,omitempty"`
	IsRedFlag   bool     `json:"isRedFlag,omitempty"`
	IsGreenFlag bool     `json:"isGreenFlag,omitempty"`
	DaysAgo     int      `json:"daysAgo,omitempty"`
}

// Clone returns a deep copy so generated feeds never alias authored
// content.
func (p *PostTemplate) Clone() PostTemplate {
	c := *p
	if p.TraitIDs != nil {
		c.TraitIDs = make([]string, len(p.TraitIDs))
		copy(c.TraitIDs, p.TraitIDs)
	}
	return c
}

// GeneratedPost is one rendered feed item for a candidate, carrying the
// fabricated engagement and recency alongside the copied template body.
type GeneratedPost struct {
	ID          string   `json:"id"`
	TemplateID  string   `json:"templateId"`
	CandidateID string   `json:"candidateId"`
	Type        PostType `json:"type"`
	Text        string   `json:"text"`
	ImageRef    string   `json:"imageRef,omitempty"`
	TraitIDs    []string `json:"traitIds,omitempty"`
	IsRedFlag   bool     `json:"isRedFlag"`
	IsGreenFlag bool     `json:"isGreenFlag"`
	Guaranteed  bool     `json:"guaranteed"`
	Likes       int      `json:"likes"`
	Comments    int      `json:"comments"`
	DaysAgo     int      `json:"daysAgo"`
}
