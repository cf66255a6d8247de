// internal/engine/ledger/ledger_test.go
package ledger

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/engine/queue"
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
		return &models.MatchResult{CandidateID: candidate.ID, IsMatch: true, Score: 42}
	}
	return models.NonMatch(candidate.ID, models.ReasonRequirementsNotMet)
}

type fixture struct {
	ledger  *Ledger
	curator *queue.Curator
	good    map[string]bool
}

// newFixture populates a queue of size candidates where the listed IDs
// are ground-truth matches.
func newFixture(t *testing.T, size int, autoAdvance bool, goodIDs ...string) *fixture {
	good := make(map[string]bool)
	for _, id := range goodIDs {
		good[id] = true
	}
	scorer := &stubScorer{good: good}
	log := logger.NewTestLogger(t)

	curator := queue.NewCurator(scorer, rand.New(rand.NewSource(7)), log)
	pool := make([]*models.CandidateProfile, 0, size)
	for i := 0; i < size; i++ {
		pool = append(pool, &models.CandidateProfile{
			ID:   fmt.Sprintf("cand-%d", i),
			Name: fmt.Sprintf("Candidate %d", i),
		})
	}
	curator.PopulateForQuest(&models.MatchCriteria{}, pool, size, len(goodIDs))

	return &fixture{
		ledger:  NewLedger(scorer, curator, autoAdvance, log),
		curator: curator,
		good:    good,
	}
}

func TestDecide_ConfusionMatrixClassification(t *testing.T) {
	tests := []struct {
		name    string
		decide  string
		action  models.DecisionAction
		outcome models.DecisionOutcome
		correct bool
	}{
		{"accept a match", "cand-0", models.ActionAccept, models.OutcomeTruePositive, true},
		{"reject a match", "cand-0", models.ActionReject, models.OutcomeFalseNegative, false},
		{"accept a non-match", "cand-1", models.ActionAccept, models.OutcomeFalsePositive, false},
		{"reject a non-match", "cand-1", models.ActionReject, models.OutcomeTrueNegative, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 4, false, "cand-0")

			record, err := f.ledger.Decide(tt.decide, tt.action)
			require.NoError(t, err)

			assert.Equal(t, tt.outcome, record.Outcome)
			assert.Equal(t, tt.correct, record.Correct)
			assert.Equal(t, f.good[tt.decide], record.WasMatch)
			assert.NotEmpty(t, record.ID)
		})
	}
}

func TestDecide_TwiceFailsWithoutMutation(t *testing.T) {
	f := newFixture(t, 3, false, "cand-0")

	_, err := f.ledger.Decide("cand-0", models.ActionAccept)
	require.NoError(t, err)
	statsBefore := f.ledger.Stats()

	_, err = f.ledger.Decide("cand-0", models.ActionReject)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCannotDecide))
	assert.Equal(t, statsBefore, f.ledger.Stats())
	assert.Len(t, f.ledger.Records(), 1)
}

func TestDecide_UnknownCandidateFails(t *testing.T) {
	f := newFixture(t, 3, false)

	_, err := f.ledger.Decide("nobody", models.ActionAccept)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCannotDecide))
	assert.Empty(t, f.ledger.Records())
}

func TestDecide_InvalidActionFails(t *testing.T) {
	f := newFixture(t, 3, false)

	_, err := f.ledger.Decide("cand-0", models.DecisionAction("maybe"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCannotDecide))
}

func TestAccuracy_DerivedNeverStale(t *testing.T) {
	f := newFixture(t, 10, false, "cand-0", "cand-1", "cand-2")

	assert.Zero(t, f.ledger.Accuracy(), "no decisions yet")

	_, err := f.ledger.Decide("cand-0", models.ActionAccept) // TP
	require.NoError(t, err)
	assert.InDelta(t, 100.0, f.ledger.Accuracy(), 0.001)

	_, err = f.ledger.Decide("cand-5", models.ActionReject) // TN
	require.NoError(t, err)
	assert.InDelta(t, 100.0, f.ledger.Accuracy(), 0.001)

	_, err = f.ledger.Decide("cand-6", models.ActionAccept) // FP
	require.NoError(t, err)
	assert.InDelta(t, 66.667, f.ledger.Accuracy(), 0.01)

	stats := f.ledger.Stats()
	assert.Equal(t, 1, stats.TruePositives)
	assert.Equal(t, 1, stats.TrueNegatives)
	assert.Equal(t, 1, stats.FalsePositives)
	assert.Equal(t, 0, stats.FalseNegatives)
	assert.Equal(t, 3, stats.Total)
}

func TestConfusionMatrixConservation(t *testing.T) {
	f := newFixture(t, 6, false, "cand-0", "cand-2", "cand-4")

	actions := []models.DecisionAction{
		models.ActionAccept, models.ActionReject, models.ActionAccept,
		models.ActionReject, models.ActionAccept, models.ActionReject,
	}
	for i, action := range actions {
		_, err := f.ledger.Decide(fmt.Sprintf("cand-%d", i), action)
		require.NoError(t, err)
	}

	stats := f.ledger.Stats()
	sum := stats.TruePositives + stats.TrueNegatives + stats.FalsePositives + stats.FalseNegatives
	assert.Equal(t, len(actions), sum)
	assert.Len(t, f.ledger.Records(), len(actions))
}

func TestCompletion_FiresExactlyOnceAfterRecorded(t *testing.T) {
	f := newFixture(t, 3, false, "cand-0")

	var order []string
	f.ledger.OnDecisionRecorded(func(r *models.DecisionRecord) {
		order = append(order, "recorded:"+r.CandidateID)
	})
	completions := 0
	f.ledger.OnAllDecisionsComplete(func(stats models.SessionStats) {
		completions++
		order = append(order, "complete")
		assert.Equal(t, 3, stats.Total)
	})

	for i := 0; i < 3; i++ {
		_, err := f.ledger.Decide(fmt.Sprintf("cand-%d", i), models.ActionReject)
		require.NoError(t, err)
		if i < 2 {
			assert.False(t, f.ledger.Complete())
		}
	}

	assert.Equal(t, 1, completions)
	assert.True(t, f.ledger.Complete())
	require.Len(t, order, 4)
	assert.Equal(t, "complete", order[3], "completion follows the final decision-recorded")
}

func TestAutoAdvance_LandsOnPendingEntry(t *testing.T) {
	f := newFixture(t, 4, true, "cand-0")

	first := f.curator.Selected()
	require.NotNil(t, first)

	_, err := f.ledger.Decide(first.Candidate.ID, models.ActionReject)
	require.NoError(t, err)

	selected := f.curator.Selected()
	require.NotNil(t, selected)
	assert.True(t, selected.Pending())
	assert.NotEqual(t, first.Candidate.ID, selected.Candidate.ID)
}

func TestResetSession_PreservesQueueMembership(t *testing.T) {
	f := newFixture(t, 3, false, "cand-0")

	_, err := f.ledger.Decide("cand-0", models.ActionAccept)
	require.NoError(t, err)
	_, err = f.ledger.Decide("cand-1", models.ActionReject)
	require.NoError(t, err)

	resets := 0
	f.ledger.OnSessionReset(func() { resets++ })

	f.ledger.ResetSession()

	assert.Zero(t, f.ledger.Accuracy())
	assert.Empty(t, f.ledger.Records())
	assert.False(t, f.ledger.Complete())
	assert.Equal(t, 1, resets)

	// membership and decision states stay with the curator
	assert.Equal(t, 3, f.curator.Len())
	assert.Equal(t, 1, f.curator.PendingCount())
}

func TestResetSession_ReArmsCompletion(t *testing.T) {
	f := newFixture(t, 2, false, "cand-0")

	completions := 0
	f.ledger.OnAllDecisionsComplete(func(models.SessionStats) { completions++ })

	_, err := f.ledger.Decide("cand-0", models.ActionAccept)
	require.NoError(t, err)
	_, err = f.ledger.Decide("cand-1", models.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, 1, completions)

	f.ledger.ResetSession()
	f.curator.ResetDecisions()

	_, err = f.ledger.Decide("cand-0", models.ActionReject)
	require.NoError(t, err)
	_, err = f.ledger.Decide("cand-1", models.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, 2, completions, "completion fires again after an explicit reset")
}
