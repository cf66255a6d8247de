// internal/engine/evidence/sampler_test.go
package evidence

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.RandomPostMin = 2
	cfg.RandomPostMax = 4
	return cfg
}

func createTestPool(size int) []models.PostTemplate {
	pool := make([]models.PostTemplate, 0, size)
	for i := 0; i < size; i++ {
		postType := models.PostTypeStatus
		if i%3 == 0 {
			postType = models.PostTypePhoto
		}
		pool = append(pool, models.PostTemplate{
			ID:       fmt.Sprintf("pool-%d", i),
			Type:     postType,
			Text:     fmt.Sprintf("pool post %d", i),
			TraitIDs: []string{"hiking"},
		})
	}
	return pool
}

func createTestCandidate(id string) *models.CandidateProfile {
	return &models.CandidateProfile{
		ID:     id,
		Name:   "Test Candidate",
		Age:    28,
		Gender: "female",
		Traits: []models.Trait{
			{ID: "hiking", Name: "Hiking", Category: models.CategoryInterests, MatchWeight: 5},
		},
		GuaranteedPosts: []models.PostTemplate{
			{ID: "g-1", Type: models.PostTypeIntro, Text: "hello"},
			{ID: "g-2", Type: models.PostTypeStatus, Text: "busy week", IsGreenFlag: true, DaysAgo: 10},
		},
	}
}

func newTestSampler(t *testing.T, pool []models.PostTemplate, seed int64) *Sampler {
	return NewSampler(createTestConfig(), pool, rand.New(rand.NewSource(seed)), logger.NewTestLogger(t))
}

func TestPostsFor_GuaranteedFirstThenDraws(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(20), 1)
	candidate := createTestCandidate("c-1")

	feed := sampler.PostsFor(candidate)

	require.GreaterOrEqual(t, len(feed), 2+2)
	assert.True(t, feed[0].Guaranteed)
	assert.Equal(t, "g-1", feed[0].TemplateID)
	assert.True(t, feed[1].Guaranteed)
	for _, post := range feed[2:] {
		assert.False(t, post.Guaranteed)
	}
}

func TestPostsFor_CachedWithinSession(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(20), 2)
	candidate := createTestCandidate("c-1")

	first := sampler.PostsFor(candidate)
	second := sampler.PostsFor(candidate)

	assert.Equal(t, first, second)
	assert.Equal(t, len(first)-2, sampler.UsedCount(), "no extra draws on repeat call")
}

func TestPostsFor_NoTemplateReuseAcrossCandidates(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(30), 3)

	seen := make(map[string]string)
	for i := 0; i < 5; i++ {
		candidate := createTestCandidate(fmt.Sprintf("c-%d", i))
		for _, post := range sampler.PostsFor(candidate) {
			if post.Guaranteed {
				continue
			}
			prev, dup := seen[post.TemplateID]
			assert.False(t, dup, "template %s drawn for both %s and %s", post.TemplateID, prev, candidate.ID)
			seen[post.TemplateID] = candidate.ID
		}
	}
}

func TestPostsFor_TruncatesOnExhaustedPool(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(1), 4)
	candidate := createTestCandidate("c-1")

	feed := sampler.PostsFor(candidate)

	// 2 guaranteed + at most the single pool entry
	assert.LessOrEqual(t, len(feed), 3)
	assert.GreaterOrEqual(t, len(feed), 2)
}

func TestPostsFor_EmptyPoolStillServesGuaranteed(t *testing.T) {
	sampler := newTestSampler(t, nil, 5)
	candidate := createTestCandidate("c-1")

	feed := sampler.PostsFor(candidate)

	require.Len(t, feed, 2)
	for _, post := range feed {
		assert.True(t, post.Guaranteed)
	}
}

func TestPostsFor_NilCandidate(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(10), 6)

	assert.Nil(t, sampler.PostsFor(nil))
	assert.Zero(t, sampler.UsedCount())
}

func TestPostsFor_IntroPostsNeverDrawnFromPool(t *testing.T) {
	pool := createTestPool(6)
	pool = append(pool, models.PostTemplate{ID: "intro-1", Type: models.PostTypeIntro, Text: "hi"})
	sampler := newTestSampler(t, pool, 7)

	for i := 0; i < 3; i++ {
		feed := sampler.PostsFor(createTestCandidate(fmt.Sprintf("c-%d", i)))
		for _, post := range feed {
			if !post.Guaranteed {
				assert.NotEqual(t, "intro-1", post.TemplateID)
			}
		}
	}
}

func TestPostsFor_ClonesTemplates(t *testing.T) {
	pool := createTestPool(10)
	sampler := newTestSampler(t, pool, 8)
	candidate := createTestCandidate("c-1")

	feed := sampler.PostsFor(candidate)

	for i := range feed {
		if len(feed[i].TraitIDs) == 0 {
			continue
		}
		feed[i].TraitIDs[0] = "mutated"
	}
	for _, template := range pool {
		for _, id := range template.TraitIDs {
			assert.NotEqual(t, "mutated", id, "generated posts must not alias pool templates")
		}
	}
	assert.Equal(t, "hello", candidate.GuaranteedPosts[0].Text)
}

func TestEngagement_NonNegativeAndBounded(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(20), 9)
	cfg := createTestConfig()
	candidate := createTestCandidate("c-1")

	feed := sampler.PostsFor(candidate)

	// analytic ceiling: friendsMax * base * 1.5 * greenBoost * redMax * photoBoost
	maxLikes := float64(cfg.FriendsMax) * cfg.LikeBaseMultiplier * 1.5 * cfg.GreenFlagBoost * 2.0 * cfg.PhotoBoost
	for _, post := range feed {
		assert.GreaterOrEqual(t, post.Likes, 0)
		assert.GreaterOrEqual(t, post.Comments, 0)
		assert.LessOrEqual(t, float64(post.Likes), maxLikes)
		assert.LessOrEqual(t, float64(post.Comments), float64(post.Likes)*cfg.CommentRatio*1.5+1)
	}
}

func TestRecency_DrawnPostsWithinWindow(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(20), 10)
	candidate := createTestCandidate("c-1")
	// guaranteed span is 10, so the window is max(30, 10+14) = 30
	window := 30

	feed := sampler.PostsFor(candidate)

	for _, post := range feed {
		if post.Guaranteed {
			continue
		}
		assert.GreaterOrEqual(t, post.DaysAgo, 1)
		assert.LessOrEqual(t, post.DaysAgo, window)
	}
}

func TestRecency_WindowExceedsGuaranteedSpan(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(20), 11)
	candidate := createTestCandidate("c-1")
	candidate.GuaranteedPosts[1].DaysAgo = 40

	window := sampler.recencyWindow(candidate)
	assert.Equal(t, 54, window)
}

func TestRecency_GuaranteedPostsKeepAuthoredDaysAgo(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(20), 12)
	candidate := createTestCandidate("c-1")

	feed := sampler.PostsFor(candidate)

	assert.Equal(t, 0, feed[0].DaysAgo)
	assert.Equal(t, 10, feed[1].DaysAgo)
}

func TestResetPool_AllowsReuse(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(4), 13)
	candidate := createTestCandidate("c-1")

	first := sampler.PostsFor(candidate)
	require.NotEmpty(t, first)
	usedBefore := sampler.UsedCount()
	require.Greater(t, usedBefore, 0)

	sampler.ResetPool()
	assert.Zero(t, sampler.UsedCount())

	second := sampler.PostsFor(candidate)
	assert.NotEmpty(t, second)
	assert.Greater(t, sampler.UsedCount(), 0, "pool entries drawable again after reset")
}

func TestFriendsCount_StablePerCandidate(t *testing.T) {
	sampler := newTestSampler(t, createTestPool(20), 14)

	a := sampler.friendsCountFor("c-1")
	b := sampler.friendsCountFor("c-1")
	assert.Equal(t, a, b)

	cfg := createTestConfig()
	assert.GreaterOrEqual(t, a, cfg.FriendsMin)
	assert.LessOrEqual(t, a, cfg.FriendsMax)
}

func BenchmarkPostsFor(b *testing.B) {
	sampler := NewSampler(createTestConfig(), createTestPool(500), rand.New(rand.NewSource(1)), logger.NewNoOpLogger())
	candidate := createTestCandidate("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sampler.ResetPool()
		sampler.PostsFor(candidate)
	}
}
