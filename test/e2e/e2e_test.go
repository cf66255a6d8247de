// test/e2e/e2e_test.go

// Package e2e plays whole sessions through the real wiring: file pack
// load, engine, orchestrator, telemetry. No external services needed.
package e2e

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/content"
	"github.com/ben3683914/maskhot-sub000/internal/engine"
	"github.com/ben3683914/maskhot-sub000/internal/models"
	"github.com/ben3683914/maskhot-sub000/internal/session"
	"github.com/ben3683914/maskhot-sub000/internal/telemetry"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Content.Dir = "testdata"
	cfg.Engine.Seed = 12345
	cfg.Simulation.InterQuestDelayMs = 1
	return cfg
}

func loadTestStore(t *testing.T, cfg *config.Config) *content.Store {
	t.Helper()
	loader := content.NewFileLoader(cfg.Content, nil, logger.NewTestLogger(t))
	store, err := loader.Load(context.Background())
	require.NoError(t, err)
	return store
}

func TestFullRun_OraclePlaysTheQuestLine(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Simulation.Sessions = 2
	cfg.Simulation.Policy = "oracle"
	cfg.Simulation.OracleErrorRate = 0

	store := loadTestStore(t, cfg)
	require.NotNil(t, store.QuestLine())
	require.Len(t, store.QuestLine().Quests, 2)

	log := logger.NewTestLogger(t)
	eng := engine.New(cfg, store.Posts(), log)
	orch := session.NewOrchestrator(eng, store, telemetry.NewLogSink(log), nil, cfg.Simulation, log)

	type graded struct {
		questID string
		stats   models.SessionStats
		passed  bool
	}
	var results []graded
	orch.OnSessionGraded(func(q *models.Quest, stats models.SessionStats, passed bool) {
		results = append(results, graded{q.ID, stats, passed})
	})

	rng := rand.New(rand.NewSource(cfg.Engine.Seed))
	policy := session.PolicyFromConfig(cfg.Simulation, rng)
	require.NoError(t, orch.Run(context.Background(), policy))

	require.Len(t, results, 2)
	assert.Equal(t, "quest-dana", results[0].questID)
	assert.Equal(t, "quest-omar", results[1].questID)

	// An error-free oracle grades out perfect and passes both bars.
	for _, r := range results {
		assert.True(t, r.stats.Complete)
		assert.InDelta(t, 100.0, r.stats.Accuracy, 0.001)
		assert.True(t, r.passed)
		assert.Zero(t, r.stats.FalsePositives)
		assert.Zero(t, r.stats.FalseNegatives)
	}
	assert.Equal(t, 6, results[0].stats.Total)
	assert.Equal(t, 5, results[1].stats.Total)
}

func TestInteractiveSession_QueueEvidenceDecisions(t *testing.T) {
	cfg := loadTestConfig(t)
	store := loadTestStore(t, cfg)

	log := logger.NewTestLogger(t)
	eng := engine.New(cfg, store.Posts(), log)
	orch := session.NewOrchestrator(eng, store, nil, nil, cfg.Simulation, log)

	quest, err := store.Quest("quest-dana")
	require.NoError(t, err)
	require.NoError(t, orch.BeginQuest(quest))

	entries := eng.Queue()
	require.Len(t, entries, quest.QueueSize)

	goodMatches := 0
	for _, entry := range entries {
		require.NotNil(t, entry.Result)
		if entry.Result.IsMatch {
			goodMatches++
		}

		// Dana only dates women; anyone else in the queue is a decoy.
		if entry.Candidate.Gender != "female" {
			assert.False(t, entry.Result.IsMatch)
			assert.Equal(t, models.ReasonGenderMismatch, entry.Result.FailureReason)
		}

		// Every profile carries browsable evidence, guaranteed posts first.
		posts := eng.PostsFor(entry.Candidate)
		require.NotEmpty(t, posts)
		for i, guaranteed := range entry.Candidate.GuaranteedPosts {
			assert.Equal(t, guaranteed.ID, posts[i].TemplateID)
			assert.True(t, posts[i].Guaranteed)
		}
	}
	require.GreaterOrEqual(t, goodMatches, quest.MinGoodMatches)

	// The known smoker trips Dana's dealbreaker whenever she gets queued.
	if entry, ok := eng.QueueEntry("cand-elif"); ok {
		assert.False(t, entry.Result.IsMatch)
		assert.Equal(t, models.ReasonDealbreaker, entry.Result.FailureReason)
	}

	for _, entry := range entries {
		action := models.ActionReject
		if entry.Result.IsMatch {
			action = models.ActionAccept
		}
		record, err := orch.Decide(entry.Candidate.ID, action)
		require.NoError(t, err)
		assert.True(t, record.Correct)
	}

	stats, passed, err := orch.GradeSession(context.Background())
	require.NoError(t, err)
	assert.True(t, passed)
	assert.Equal(t, quest.QueueSize, stats.Total)
	assert.InDelta(t, 100.0, stats.Accuracy, 0.001)
}

func TestRetry_ReplaysTheSameQueue(t *testing.T) {
	cfg := loadTestConfig(t)
	store := loadTestStore(t, cfg)

	log := logger.NewTestLogger(t)
	eng := engine.New(cfg, store.Posts(), log)
	orch := session.NewOrchestrator(eng, store, nil, nil, cfg.Simulation, log)

	quest, err := store.Quest("quest-omar")
	require.NoError(t, err)
	require.NoError(t, orch.BeginQuest(quest))

	// Throw the session by accepting everyone.
	for _, entry := range eng.Queue() {
		_, err := orch.Decide(entry.Candidate.ID, models.ActionAccept)
		require.NoError(t, err)
	}
	firstStats, _, err := orch.GradeSession(context.Background())
	require.NoError(t, err)

	var before []string
	for _, entry := range eng.Queue() {
		before = append(before, entry.Candidate.ID)
	}

	require.NoError(t, orch.RetryQuest())
	assert.False(t, eng.Complete())
	assert.Zero(t, eng.Stats().Total)

	var after []string
	for _, entry := range eng.Queue() {
		after = append(after, entry.Candidate.ID)
	}
	assert.Equal(t, before, after)

	// Replaying with ground truth beats the first attempt.
	for _, entry := range eng.Queue() {
		action := models.ActionReject
		if entry.Result.IsMatch {
			action = models.ActionAccept
		}
		_, err := orch.Decide(entry.Candidate.ID, action)
		require.NoError(t, err)
	}
	retryStats, passed, err := orch.GradeSession(context.Background())
	require.NoError(t, err)
	assert.True(t, passed)
	assert.GreaterOrEqual(t, retryStats.Accuracy, firstStats.Accuracy)
	assert.InDelta(t, 100.0, retryStats.Accuracy, 0.001)
}
