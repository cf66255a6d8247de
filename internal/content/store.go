// internal/content/store.go

// Package content loads and resolves game content: the trait catalog,
// candidate packs, the shared post pool, and quest lines. The engine
// only ever sees fully resolved values; raw IDs stop here.
package content

import (
	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// Store is the resolved content set for one simulation run. Immutable
// after load; every accessor hands back the shared slices read-only.
type Store struct {
	traits     map[string]models.Trait
	candidates []*models.CandidateProfile
	posts      []models.PostTemplate
	questLine  *models.QuestLine
}

// NewStore builds a store from already-resolved content. Loaders go
// through buildStore for trait resolution; this path is for content
// assembled in memory.
func NewStore(traits map[string]models.Trait, candidates []*models.CandidateProfile, posts []models.PostTemplate, questLine *models.QuestLine) *Store {
	return &Store{
		traits:     traits,
		candidates: candidates,
		posts:      posts,
		questLine:  questLine,
	}
}

// Traits returns the catalog keyed by trait ID.
func (s *Store) Traits() map[string]models.Trait {
	return s.traits
}

// Trait looks up a catalog entry.
func (s *Store) Trait(id string) (models.Trait, bool) {
	t, ok := s.traits[id]
	return t, ok
}

// Candidates returns every loaded candidate profile.
func (s *Store) Candidates() []*models.CandidateProfile {
	return s.candidates
}

// Posts returns the shared post pool.
func (s *Store) Posts() []models.PostTemplate {
	return s.posts
}

// QuestLine returns the loaded quest line, nil when none was configured.
func (s *Store) QuestLine() *models.QuestLine {
	return s.questLine
}

// Quest looks up a quest by ID within the loaded line.
func (s *Store) Quest(id string) (*models.Quest, error) {
	if s.questLine != nil {
		for _, q := range s.questLine.Quests {
			if q.ID == id {
				return q, nil
			}
		}
	}
	return nil, errors.NewQuestNotFoundError(id)
}

// --- Raw pack types (wire shape before trait resolution) ---

type rawCandidate struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Age             int                   `json:"age"`
	Gender          string                `json:"gender"`
	Bio             string                `json:"bio,omitempty"`
	TraitIDs        []string              `json:"traitIds"`
	GuaranteedPosts []models.PostTemplate `json:"guaranteedPosts,omitempty"`
}

type rawQuestLine struct {
	Name   string     `yaml:"name" json:"name"`
	Quests []rawQuest `yaml:"quests" json:"quests"`
}

type rawQuest struct {
	ID             string      `yaml:"id" json:"id"`
	Name           string      `yaml:"name" json:"name"`
	QueueSize      int         `yaml:"queueSize" json:"queueSize"`
	MinGoodMatches int         `yaml:"minGoodMatches" json:"minGoodMatches"`
	PassAccuracy   float64     `yaml:"passAccuracy" json:"passAccuracy"`
	Criteria       rawCriteria `yaml:"criteria" json:"criteria"`
}

type rawCriteria struct {
	ClientID          string                    `yaml:"clientId" json:"clientId"`
	ClientName        string                    `yaml:"clientName" json:"clientName"`
	AcceptableGenders []string                  `yaml:"acceptableGenders" json:"acceptableGenders"`
	MinAge            int                       `yaml:"minAge" json:"minAge"`
	MaxAge            int                       `yaml:"maxAge" json:"maxAge"`
	ClientTraitIDs    map[string][]string       `yaml:"clientTraitIds" json:"clientTraitIds"`
	CategoryWeights   map[string]float64        `yaml:"categoryWeights" json:"categoryWeights"`
	Requirements      []models.TraitRequirement `yaml:"requirements" json:"requirements"`
	Dealbreakers      [][]string                `yaml:"dealbreakers" json:"dealbreakers"`
	MaxRedFlags       *int                      `yaml:"maxRedFlags" json:"maxRedFlags"`
	MinGreenFlags     int                       `yaml:"minGreenFlags" json:"minGreenFlags"`
	MinRequiredMet    int                       `yaml:"minRequiredMet" json:"minRequiredMet"`
}

// --- Resolution ---

// buildStore resolves every raw reference against the trait catalog and
// assembles the immutable store. Any unknown trait reference fails the
// whole load.
func buildStore(traits []models.Trait, candidates []rawCandidate, posts []models.PostTemplate, questLine *rawQuestLine) (*Store, error) {
	catalog := make(map[string]models.Trait, len(traits))
	for _, t := range traits {
		catalog[t.ID] = t
	}

	store := &Store{traits: catalog, posts: posts}

	for i := range posts {
		for _, id := range posts[i].TraitIDs {
			if _, ok := catalog[id]; !ok {
				return nil, errors.NewUnknownTraitRefError(id, "post "+posts[i].ID)
			}
		}
	}

	for _, raw := range candidates {
		resolved, err := resolveCandidate(raw, catalog)
		if err != nil {
			return nil, err
		}
		store.candidates = append(store.candidates, resolved)
	}

	if questLine != nil {
		line := &models.QuestLine{Name: questLine.Name}
		for _, rq := range questLine.Quests {
			quest, err := resolveQuest(rq, catalog)
			if err != nil {
				return nil, err
			}
			line.Quests = append(line.Quests, quest)
		}
		store.questLine = line
	}

	return store, nil
}

func resolveCandidate(raw rawCandidate, catalog map[string]models.Trait) (*models.CandidateProfile, error) {
	profile := &models.CandidateProfile{
		ID:              raw.ID,
		Name:            raw.Name,
		Age:             raw.Age,
		Gender:          models.Gender(raw.Gender),
		Bio:             raw.Bio,
		GuaranteedPosts: raw.GuaranteedPosts,
	}
	for _, id := range raw.TraitIDs {
		trait, ok := catalog[id]
		if !ok {
			return nil, errors.NewUnknownTraitRefError(id, "candidate "+raw.ID)
		}
		profile.Traits = append(profile.Traits, trait)
	}
	for i := range raw.GuaranteedPosts {
		for _, id := range raw.GuaranteedPosts[i].TraitIDs {
			if _, ok := catalog[id]; !ok {
				return nil, errors.NewUnknownTraitRefError(id, "candidate "+raw.ID+" guaranteed post")
			}
		}
	}
	return profile, nil
}

func resolveQuest(raw rawQuest, catalog map[string]models.Trait) (*models.Quest, error) {
	criteria, err := resolveCriteria(raw.Criteria, catalog, raw.ID)
	if err != nil {
		return nil, err
	}
	return &models.Quest{
		ID:             raw.ID,
		Name:           raw.Name,
		Criteria:       criteria,
		QueueSize:      raw.QueueSize,
		MinGoodMatches: raw.MinGoodMatches,
		PassAccuracy:   raw.PassAccuracy,
	}, nil
}

func resolveCriteria(raw rawCriteria, catalog map[string]models.Trait, owner string) (*models.MatchCriteria, error) {
	criteria := &models.MatchCriteria{
		ClientID:        raw.ClientID,
		ClientName:      raw.ClientName,
		MinAge:          raw.MinAge,
		MaxAge:          raw.MaxAge,
		ClientTraits:    make(map[models.TraitCategory][]models.Trait),
		CategoryWeights: make(map[models.TraitCategory]float64),
		Requirements:    raw.Requirements,
		Dealbreakers:    raw.Dealbreakers,
		MinGreenFlags:   raw.MinGreenFlags,
		MinRequiredMet:  raw.MinRequiredMet,
	}

	// absent maxRedFlags means the red-flag gate is off
	criteria.MaxRedFlags = -1
	if raw.MaxRedFlags != nil {
		criteria.MaxRedFlags = *raw.MaxRedFlags
	}

	for _, g := range raw.AcceptableGenders {
		criteria.AcceptableGenders = append(criteria.AcceptableGenders, models.Gender(g))
	}
	for cat, weight := range raw.CategoryWeights {
		criteria.CategoryWeights[models.TraitCategory(cat)] = weight
	}
	for cat, ids := range raw.ClientTraitIDs {
		for _, id := range ids {
			trait, ok := catalog[id]
			if !ok {
				return nil, errors.NewUnknownTraitRefError(id, "quest "+owner)
			}
			criteria.ClientTraits[models.TraitCategory(cat)] = append(criteria.ClientTraits[models.TraitCategory(cat)], trait)
		}
	}
	for _, req := range raw.Requirements {
		for _, id := range req.TraitIDs {
			if _, ok := catalog[id]; !ok {
				return nil, errors.NewUnknownTraitRefError(id, "quest "+owner+" requirement")
			}
		}
	}
	for _, set := range raw.Dealbreakers {
		for _, id := range set {
			if _, ok := catalog[id]; !ok {
				return nil, errors.NewUnknownTraitRefError(id, "quest "+owner+" dealbreaker")
			}
		}
	}

	return criteria, nil
}
