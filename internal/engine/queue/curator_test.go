// internal/engine/queue/curator_test.go
package queue

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// stubScorer matches candidates whose ID is in the good set.
type stubScorer struct {
	good map[string]bool
}

func (s *stubScorer) Evaluate(candidate *models.CandidateProfile, criteria *models.MatchCriteria) *models.MatchResult {
	if candidate == nil {
		return models.NonMatch("", models.ReasonCannotEvaluate)
	}
	if s.good[candidate.ID] {
		return &models.MatchResult{CandidateID: candidate.ID, IsMatch: true, Score: 50}
	}
	return models.NonMatch(candidate.ID, models.ReasonRequirementsNotMet)
}

func createTestPool(size int) []*models.CandidateProfile {
	pool := make([]*models.CandidateProfile, 0, size)
	for i := 0; i < size; i++ {
		pool = append(pool, &models.CandidateProfile{
			ID:   fmt.Sprintf("cand-%d", i),
			Name: fmt.Sprintf("Candidate %d", i),
			Age:  25 + i,
		})
	}
	return pool
}

func newTestCurator(t *testing.T, goodIDs ...string) *Curator {
	good := make(map[string]bool)
	for _, id := range goodIDs {
		good[id] = true
	}
	rng := rand.New(rand.NewSource(42))
	return NewCurator(&stubScorer{good: good}, rng, logger.NewTestLogger(t))
}

func TestPopulateForQuest_GoodMatchFloor(t *testing.T) {
	curator := newTestCurator(t, "cand-0", "cand-3", "cand-7")
	pool := createTestPool(10)

	entries := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 5, 2)

	require.Len(t, entries, 5)
	goodCount := 0
	for _, e := range entries {
		if e.Result.IsMatch {
			goodCount++
		}
		assert.Equal(t, models.DecisionPending, e.State)
	}
	assert.GreaterOrEqual(t, goodCount, 2)
}

func TestPopulateForQuest_FloorClampedToAvailableGood(t *testing.T) {
	curator := newTestCurator(t, "cand-1")
	pool := createTestPool(10)

	entries := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 5, 3)

	require.Len(t, entries, 5)
	goodCount := 0
	for _, e := range entries {
		if e.Result.IsMatch {
			goodCount++
		}
	}
	assert.Equal(t, 1, goodCount)
}

func TestPopulateForQuest_BackfillsWithGoodWhenBadExhausted(t *testing.T) {
	// 8 of 10 are matches and only 2 decoys exist
	curator := newTestCurator(t,
		"cand-0", "cand-1", "cand-2", "cand-3", "cand-4", "cand-5", "cand-6", "cand-7")
	pool := createTestPool(10)

	entries := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 6, 2)

	require.Len(t, entries, 6)
	goodCount := 0
	for _, e := range entries {
		if e.Result.IsMatch {
			goodCount++
		}
	}
	assert.Equal(t, 4, goodCount, "2 floor + 2 decoys + 2 backfilled matches")
}

func TestPopulateForQuest_TargetCountClampedToPool(t *testing.T) {
	curator := newTestCurator(t, "cand-0")
	pool := createTestPool(3)

	entries := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 10, 1)
	assert.Len(t, entries, 3)
}

func TestPopulateForQuest_ZeroTargetGivesEmptyQueue(t *testing.T) {
	curator := newTestCurator(t, "cand-0")

	changed := 0
	curator.OnQueueChanged(func(count int) { changed++ })

	entries := curator.PopulateForQuest(&models.MatchCriteria{}, createTestPool(5), 0, 0)
	assert.Empty(t, entries)
	assert.Equal(t, 1, changed, "wholesale replace still signals")
}

func TestPopulateForQuest_ReplacesPriorQueueWholesale(t *testing.T) {
	curator := newTestCurator(t, "cand-0", "cand-1")
	pool := createTestPool(6)

	changed := 0
	curator.OnQueueChanged(func(count int) { changed++ })

	first := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 4, 1)
	first[0].State = models.DecisionAccepted

	second := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 4, 1)

	assert.Equal(t, 2, changed)
	assert.Equal(t, 4, curator.PendingCount(), "prior decision states discarded")
	assert.Len(t, second, 4)

	// lookup map follows the new queue
	for _, e := range second {
		got, ok := curator.Entry(e.Candidate.ID)
		require.True(t, ok)
		assert.Same(t, e, got)
	}
}

func TestPopulateForQuest_NilCriteriaStillPopulates(t *testing.T) {
	curator := newTestCurator(t)
	pool := createTestPool(6)

	entries := curator.PopulateForQuest(nil, pool, 4, 2)

	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.False(t, e.Result.IsMatch)
	}
	assert.Nil(t, curator.ActiveCriteria())
}

func TestSelection_AdvanceSkipsDecided(t *testing.T) {
	curator := newTestCurator(t, "cand-0", "cand-1")
	pool := createTestPool(4)
	curator.PopulateForQuest(&models.MatchCriteria{}, pool, 4, 1)

	first := curator.Selected()
	require.NotNil(t, first)
	first.State = models.DecisionAccepted

	next := curator.AdvanceSelection()
	require.NotNil(t, next)
	assert.NotEqual(t, first.Candidate.ID, next.Candidate.ID)
	assert.True(t, next.Pending())
}

func TestSelection_AdvanceReturnsNilWhenNothingPending(t *testing.T) {
	curator := newTestCurator(t)
	pool := createTestPool(2)
	curator.PopulateForQuest(&models.MatchCriteria{}, pool, 2, 0)

	for _, e := range curator.Entries() {
		e.State = models.DecisionRejected
	}

	assert.Nil(t, curator.AdvanceSelection())
}

func TestSelect_ByCandidateID(t *testing.T) {
	curator := newTestCurator(t)
	pool := createTestPool(3)
	entries := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 3, 0)

	target := entries[2].Candidate.ID
	require.True(t, curator.Select(target))
	assert.Equal(t, target, curator.Selected().Candidate.ID)

	assert.False(t, curator.Select("missing"))
}

func TestResetDecisions_PreservesMembership(t *testing.T) {
	curator := newTestCurator(t, "cand-0")
	pool := createTestPool(4)
	entries := curator.PopulateForQuest(&models.MatchCriteria{}, pool, 4, 1)

	for _, e := range entries {
		e.State = models.DecisionAccepted
	}
	curator.ResetDecisions()

	assert.Equal(t, 4, curator.PendingCount())
	assert.Equal(t, entries, curator.Entries())
}
