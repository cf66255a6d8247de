// internal/engine/engine.go

// Package engine composes the four decision-evaluation services behind
// one facade so the orchestrator and tests wire a single object.
package engine

import (
	"math/rand"
	"time"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/engine/evidence"
	"github.com/ben3683914/maskhot-sub000/internal/engine/ledger"
	"github.com/ben3683914/maskhot-sub000/internal/engine/queue"
	"github.com/ben3683914/maskhot-sub000/internal/engine/score"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// Engine is the in-process decision core: deterministic scoring, queue
// curation, evidence fabrication, and decision grading. Single-threaded
// cooperative use; concurrent callers must serialize externally.
type Engine struct {
	scorer  *score.Scorer
	curator *queue.Curator
	sampler *evidence.Sampler
	ledger  *ledger.Ledger
}

// New builds an engine from the application config and the loaded post
// pool. A zero seed falls back to the clock.
func New(cfg *config.Config, pool []models.PostTemplate, log logger.Logger) *Engine {
	seed := int64(0)
	if cfg != nil {
		seed = cfg.Engine.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	scorer := score.NewScorer(score.FromApp(cfg), log)
	curator := queue.NewCurator(scorer, rng, log)
	sampler := evidence.NewSampler(evidence.FromApp(cfg), pool, rng, log)

	autoAdvance := cfg != nil && cfg.Engine.Ledger.AutoAdvance
	led := ledger.NewLedger(scorer, curator, autoAdvance, log)

	return &Engine{
		scorer:  scorer,
		curator: curator,
		sampler: sampler,
		ledger:  led,
	}
}

// NewFromParts wires pre-built services; used by tests that need direct
// control over one component.
func NewFromParts(scorer *score.Scorer, curator *queue.Curator, sampler *evidence.Sampler, led *ledger.Ledger) *Engine {
	return &Engine{scorer: scorer, curator: curator, sampler: sampler, ledger: led}
}

// --- ScoreEngine ---

func (e *Engine) Evaluate(candidate *models.CandidateProfile, criteria *models.MatchCriteria) *models.MatchResult {
	return e.scorer.Evaluate(candidate, criteria)
}

// --- QueueCurator ---

func (e *Engine) PopulateForQuest(criteria *models.MatchCriteria, pool []*models.CandidateProfile, targetCount, minGoodMatches int) []*models.QueueEntry {
	return e.curator.PopulateForQuest(criteria, pool, targetCount, minGoodMatches)
}

func (e *Engine) Queue() []*models.QueueEntry { return e.curator.Entries() }

func (e *Engine) QueueEntry(id string) (*models.QueueEntry, bool) { return e.curator.Entry(id) }

func (e *Engine) PendingCount() int { return e.curator.PendingCount() }

func (e *Engine) Selected() *models.QueueEntry { return e.curator.Selected() }

func (e *Engine) Select(candidateID string) bool { return e.curator.Select(candidateID) }

func (e *Engine) AdvanceSelection() *models.QueueEntry { return e.curator.AdvanceSelection() }

// --- EvidenceSampler ---

func (e *Engine) PostsFor(candidate *models.CandidateProfile) []models.GeneratedPost {
	return e.sampler.PostsFor(candidate)
}

// --- DecisionLedger ---

func (e *Engine) Decide(candidateID string, action models.DecisionAction) (*models.DecisionRecord, error) {
	return e.ledger.Decide(candidateID, action)
}

func (e *Engine) Accuracy() float64 { return e.ledger.Accuracy() }

func (e *Engine) Stats() models.SessionStats { return e.ledger.Stats() }

func (e *Engine) Records() []models.DecisionRecord { return e.ledger.Records() }

func (e *Engine) Complete() bool { return e.ledger.Complete() }

// --- Session lifecycle ---

// BeginSession arms a fresh session on the current content: the used
// post pool, cached feeds, decision log, and counters all reset. Queue
// membership is only replaced by the next PopulateForQuest.
func (e *Engine) BeginSession() {
	e.sampler.ResetPool()
	e.ledger.ResetSession()
}

// RetrySession re-runs the active queue: decision states return to
// Pending and the ledger zeroes, with membership preserved.
func (e *Engine) RetrySession() {
	e.curator.ResetDecisions()
	e.ledger.ResetSession()
}

// --- Listener registration ---

func (e *Engine) OnQueueChanged(fn func(count int)) {
	e.curator.OnQueueChanged(fn)
}

func (e *Engine) OnDecisionRecorded(fn func(*models.DecisionRecord)) {
	e.ledger.OnDecisionRecorded(fn)
}

func (e *Engine) OnAllDecisionsComplete(fn func(models.SessionStats)) {
	e.ledger.OnAllDecisionsComplete(fn)
}

func (e *Engine) OnSessionReset(fn func()) {
	e.ledger.OnSessionReset(fn)
}
