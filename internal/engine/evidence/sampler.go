// internal/engine/evidence/sampler.go
package evidence

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/metrics"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

const componentName = "evidence-sampler"

// Sampler fabricates per-candidate evidence feeds from a shared post
// pool. Feeds are built once per candidate per session and cached; a
// pool entry drawn for any candidate is never drawn again until
// ResetPool. Not safe for concurrent use.
type Sampler struct {
	config *Config
	rng    *rand.Rand
	logger logger.Logger

	pool    []models.PostTemplate
	used    map[int]struct{}
	feeds   map[string][]models.GeneratedPost
	friends map[string]int
}

func NewSampler(config *Config, pool []models.PostTemplate, rng *rand.Rand, log logger.Logger) *Sampler {
	if config == nil {
		config = LoadConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{
		config:  config,
		rng:     rng,
		logger:  log.WithFields(map[string]interface{}{"component": componentName}),
		pool:    pool,
		used:    make(map[int]struct{}),
		feeds:   make(map[string][]models.GeneratedPost),
		friends: make(map[string]int),
	}
}

// PostsFor returns the candidate's session feed: guaranteed posts first,
// then freshly drawn pool posts. Repeat calls within a session return
// the cached feed unchanged. A nil candidate yields an empty feed with
// no state change.
func (s *Sampler) PostsFor(candidate *models.CandidateProfile) []models.GeneratedPost {
	if candidate == nil || candidate.ID == "" {
		return nil
	}
	if feed, ok := s.feeds[candidate.ID]; ok {
		return feed
	}

	friendsCount := s.friendsCountFor(candidate.ID)

	feed := make([]models.GeneratedPost, 0, len(candidate.GuaranteedPosts)+s.config.RandomPostMax)
	for i := range candidate.GuaranteedPosts {
		post := s.generate(&candidate.GuaranteedPosts[i], candidate.ID, friendsCount, true)
		feed = append(feed, post)
		metrics.PostsGeneratedTotal.WithLabelValues("guaranteed").Inc()
	}

	drawn := s.drawForCandidate(candidate, friendsCount)
	feed = append(feed, drawn...)

	s.feeds[candidate.ID] = feed
	s.logger.Debug("feed generated", map[string]interface{}{
		"candidateId": candidate.ID,
		"guaranteed":  len(candidate.GuaranteedPosts),
		"drawn":       len(drawn),
	})
	return feed
}

// UsedCount returns how many pool entries this session has consumed.
func (s *Sampler) UsedCount() int {
	return len(s.used)
}

// ResetPool clears the used-entry set, cached feeds, and friends counts
// for a new session. Never invoked mid-session.
func (s *Sampler) ResetPool() {
	s.used = make(map[int]struct{})
	s.feeds = make(map[string][]models.GeneratedPost)
	s.friends = make(map[string]int)
	s.logger.Debug("pool reset", map[string]interface{}{"poolSize": len(s.pool)})
}

// drawForCandidate draws the random portion of a feed, truncating
// silently when the eligible pool runs short.
func (s *Sampler) drawForCandidate(candidate *models.CandidateProfile, friendsCount int) []models.GeneratedPost {
	want := s.config.RandomPostMin
	if spread := s.config.RandomPostMax - s.config.RandomPostMin; spread > 0 {
		want += s.rng.Intn(spread + 1)
	}

	eligible := s.eligibleIndexes()
	if want > len(eligible) {
		want = len(eligible)
	}
	if want <= 0 {
		return nil
	}

	window := s.recencyWindow(candidate)

	posts := make([]models.GeneratedPost, 0, want)
	for i := 0; i < want; i++ {
		idx := s.pickIndex(eligible, candidate)
		if idx < 0 {
			break
		}
		s.used[idx] = struct{}{}
		eligible = removeIndex(eligible, idx)

		post := s.generate(&s.pool[idx], candidate.ID, friendsCount, false)
		post.DaysAgo = s.recencyFor(i+1, want, window)
		posts = append(posts, post)
		metrics.PostsGeneratedTotal.WithLabelValues("pool").Inc()
	}
	return posts
}

// eligibleIndexes lists unused pool entries of a feed-eligible type.
func (s *Sampler) eligibleIndexes() []int {
	var out []int
	for i := range s.pool {
		if _, taken := s.used[i]; taken {
			continue
		}
		if s.pool[i].Type.FeedEligible() {
			out = append(out, i)
		}
	}
	return out
}

// pickIndex chooses one pool index from the eligible set: a wild-card
// draw ignores trait relevance entirely; otherwise the set is first
// biased toward one presentation type, then sampled with probability
// proportional to trait affinity + 1 so zero-affinity entries stay
// reachable.
func (s *Sampler) pickIndex(eligible []int, candidate *models.CandidateProfile) int {
	if len(eligible) == 0 {
		return -1
	}

	if s.rng.Float64() < s.config.WildcardChance {
		return eligible[s.rng.Intn(len(eligible))]
	}

	biased := s.biasByType(eligible)

	total := 0
	weights := make([]int, len(biased))
	traits := candidate.TraitSet()
	for i, idx := range biased {
		w := s.traitAffinity(&s.pool[idx], traits) + 1
		weights[i] = w
		total += w
	}

	roll := s.rng.Intn(total)
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return biased[i]
		}
	}
	return biased[len(biased)-1]
}

// biasByType restricts the eligible set to one presentation type,
// falling back to the whole set when the biased subset is empty.
func (s *Sampler) biasByType(eligible []int) []int {
	wantType := models.PostTypeStatus
	if s.rng.Float64() < s.config.PhotoBias {
		wantType = models.PostTypePhoto
	}

	var subset []int
	for _, idx := range eligible {
		if s.pool[idx].Type == wantType {
			subset = append(subset, idx)
		}
	}
	if len(subset) == 0 {
		return eligible
	}
	return subset
}

// traitAffinity sums match weights of the post's trait associations the
// candidate holds.
func (s *Sampler) traitAffinity(post *models.PostTemplate, candidateTraits map[string]models.Trait) int {
	affinity := 0
	for _, id := range post.TraitIDs {
		if trait, ok := candidateTraits[id]; ok {
			affinity += trait.MatchWeight
		}
	}
	return affinity
}

// generate clones the template into a GeneratedPost and fabricates its
// engagement numbers. Guaranteed posts keep their authored recency.
func (s *Sampler) generate(template *models.PostTemplate, candidateID string, friendsCount int, guaranteed bool) models.GeneratedPost {
	clone := template.Clone()

	likes := float64(friendsCount) * s.config.LikeBaseMultiplier * s.uniform(0.5, 1.5)
	if clone.IsGreenFlag {
		likes *= s.config.GreenFlagBoost
	}
	if clone.IsRedFlag {
		// red flags polarize: some get piled on, some get buried
		likes *= s.uniform(0.5, 2.0)
	}
	if clone.Type == models.PostTypePhoto {
		likes *= s.config.PhotoBoost
	}
	comments := likes * s.config.CommentRatio * s.uniform(0.5, 1.5)

	return models.GeneratedPost{
		ID:          uuid.New().String(),
		TemplateID:  clone.ID,
		CandidateID: candidateID,
		Type:        clone.Type,
		Text:        clone.Text,
		ImageRef:    clone.ImageRef,
		TraitIDs:    clone.TraitIDs,
		IsRedFlag:   clone.IsRedFlag,
		IsGreenFlag: clone.IsGreenFlag,
		Guaranteed:  guaranteed,
		Likes:       nonNegative(likes),
		Comments:    nonNegative(comments),
		DaysAgo:     clone.DaysAgo,
	}
}

// recencyWindow sizes the drawn-post window so it always clears the
// candidate's guaranteed-post span by at least two weeks.
func (s *Sampler) recencyWindow(candidate *models.CandidateProfile) int {
	window := s.config.MinRecencyWindowDays
	if span := candidate.GuaranteedSpanDays() + 14; span > window {
		window = span
	}
	return window
}

// recencyFor spreads the i-th of n drawn posts across the window with a
// small jitter, clamped to [1, window].
func (s *Sampler) recencyFor(i, n, window int) int {
	pos := int(math.Round(float64(i) / float64(n+1) * float64(window)))
	if j := s.config.RecencyJitterDays; j > 0 {
		pos += s.rng.Intn(2*j+1) - j
	}
	if pos < 1 {
		pos = 1
	}
	if pos > window {
		pos = window
	}
	return pos
}

func (s *Sampler) friendsCountFor(candidateID string) int {
	if n, ok := s.friends[candidateID]; ok {
		return n
	}
	n := s.config.FriendsMin
	if spread := s.config.FriendsMax - s.config.FriendsMin; spread > 0 {
		n += s.rng.Intn(spread + 1)
	}
	s.friends[candidateID] = n
	return n
}

func (s *Sampler) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func nonNegative(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}

func removeIndex(indexes []int, value int) []int {
	for i, idx := range indexes {
		if idx == value {
			return append(indexes[:i], indexes[i+1:]...)
		}
	}
	return indexes
}
