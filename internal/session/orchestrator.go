// internal/session/orchestrator.go

// Package session owns quest-line progression: which quest is active,
// when a session begins and ends, and the delay between quests. It is
// the only owner of the inter-quest timer; the engine itself has no
// async-shaped operations.
package session

import (
	"context"
	"time"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/observability"
	"github.com/ben3683914/maskhot-sub000/internal/content"
	"github.com/ben3683914/maskhot-sub000/internal/engine"
	"github.com/ben3683914/maskhot-sub000/internal/models"
	"github.com/ben3683914/maskhot-sub000/internal/telemetry"
)

const componentName = "session-orchestrator"

// Orchestrator drives sessions against the engine. Not safe for
// concurrent use.
type Orchestrator struct {
	engine *engine.Engine
	store  *content.Store
	sink   telemetry.Sink
	obs    *observability.Observability
	cfg    config.SimulationConfig
	logger logger.Logger

	activeQuest *models.Quest
	graded      bool

	questStartedFns  []func(*models.Quest)
	sessionGradedFns []func(*models.Quest, models.SessionStats, bool)
}

func NewOrchestrator(eng *engine.Engine, store *content.Store, sink telemetry.Sink, obs *observability.Observability, cfg config.SimulationConfig, log logger.Logger) *Orchestrator {
	if sink == nil {
		sink = telemetry.NopSink{}
	}
	o := &Orchestrator{
		engine: eng,
		store:  store,
		sink:   sink,
		obs:    obs,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": componentName}),
	}

	eng.OnDecisionRecorded(func(record *models.DecisionRecord) {
		if err := o.sink.RecordDecision(context.Background(), record); err != nil {
			o.logger.Warn("telemetry decision dropped", map[string]interface{}{"error": err.Error()})
		}
	})

	return o
}

// OnQuestStarted registers a listener fired after each BeginQuest.
func (o *Orchestrator) OnQuestStarted(fn func(*models.Quest)) {
	o.questStartedFns = append(o.questStartedFns, fn)
}

// OnSessionGraded registers a listener fired after each graded session
// with the stats and the pass/fail verdict.
func (o *Orchestrator) OnSessionGraded(fn func(*models.Quest, models.SessionStats, bool)) {
	o.sessionGradedFns = append(o.sessionGradedFns, fn)
}

// ActiveQuest returns the quest whose session is in play, nil between
// quests.
func (o *Orchestrator) ActiveQuest() *models.Quest {
	return o.activeQuest
}

// BeginQuest arms a fresh session for the quest: post pool and ledger
// reset, queue repopulated against the quest's criteria.
func (o *Orchestrator) BeginQuest(quest *models.Quest) error {
	if quest == nil || quest.Criteria == nil {
		return errors.NewSessionStateInvalidError("quest or criteria missing")
	}

	o.engine.BeginSession()
	o.engine.PopulateForQuest(quest.Criteria, o.store.Candidates(), quest.QueueSize, quest.MinGoodMatches)
	o.activeQuest = quest
	o.graded = false

	o.logger.Info("quest started", map[string]interface{}{
		"questId":   quest.ID,
		"queueSize": o.engine.PendingCount(),
	})
	for _, fn := range o.questStartedFns {
		fn(quest)
	}
	return nil
}

// RetryQuest replays the active quest on the same queue: decision
// states reset, ledger zeroed, membership preserved.
func (o *Orchestrator) RetryQuest() error {
	if o.activeQuest == nil {
		return errors.NewSessionStateInvalidError("no active quest to retry")
	}
	o.engine.RetrySession()
	o.graded = false
	o.logger.Info("quest retried", map[string]interface{}{"questId": o.activeQuest.ID})
	return nil
}

// Decide forwards the player's call to the engine.
func (o *Orchestrator) Decide(candidateID string, action models.DecisionAction) (*models.DecisionRecord, error) {
	if o.activeQuest == nil {
		return nil, errors.NewSessionStateInvalidError("no active quest")
	}
	return o.engine.Decide(candidateID, action)
}

// GradeSession closes out a completed session: pass/fail against the
// quest's accuracy bar, telemetry flush, observability. Idempotent per
// session; grading an incomplete session is an error.
func (o *Orchestrator) GradeSession(ctx context.Context) (models.SessionStats, bool, error) {
	if o.activeQuest == nil {
		return models.SessionStats{}, false, errors.NewSessionStateInvalidError("no active quest")
	}
	if !o.engine.Complete() {
		return models.SessionStats{}, false, errors.NewSessionStateInvalidError("decisions still pending")
	}

	stats := o.engine.Stats()
	passed := stats.Accuracy >= o.activeQuest.PassAccuracy

	if !o.graded {
		o.graded = true
		if err := o.sink.RecordSession(ctx, o.activeQuest.ID, stats); err != nil {
			o.logger.Warn("telemetry session dropped", map[string]interface{}{"error": err.Error()})
		}
		if o.obs != nil {
			o.obs.RecordSessionCompleted(ctx, o.activeQuest.ID, stats.Accuracy)
		}
		o.logger.Info("session graded", map[string]interface{}{
			"questId":  o.activeQuest.ID,
			"accuracy": stats.Accuracy,
			"passed":   passed,
		})
		for _, fn := range o.sessionGradedFns {
			fn(o.activeQuest, stats, passed)
		}
	}
	return stats, passed, nil
}

// Run plays the loaded quest line with the given policy, pausing the
// configured delay between quests. With Sessions > 0 it stops after
// that many sessions; otherwise it loops the line until ctx is done.
func (o *Orchestrator) Run(ctx context.Context, policy Policy) error {
	line := o.store.QuestLine()
	if line == nil || len(line.Quests) == 0 {
		return errors.NewSessionStateInvalidError("no quest line loaded")
	}

	o.logger.Info("run started", map[string]interface{}{
		"questLine": line.Name,
		"quests":    len(line.Quests),
		"policy":    policy.Name(),
		"sessions":  o.cfg.Sessions,
	})

	played := 0
	for {
		for _, quest := range line.Quests {
			if err := ctx.Err(); err != nil {
				return nil
			}
			if err := o.playQuest(ctx, quest, policy); err != nil {
				return err
			}
			played++
			if o.cfg.Sessions > 0 && played >= o.cfg.Sessions {
				o.logger.Info("run finished", map[string]interface{}{"sessions": played})
				return nil
			}
			if err := o.waitBetweenQuests(ctx); err != nil {
				return nil
			}
		}
		if o.cfg.Sessions == 0 {
			continue
		}
	}
}

func (o *Orchestrator) playQuest(ctx context.Context, quest *models.Quest, policy Policy) error {
	if err := o.BeginQuest(quest); err != nil {
		return err
	}

	for _, entry := range o.engine.Queue() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		action := policy.Decide(entry)
		if _, err := o.Decide(entry.Candidate.ID, action); err != nil {
			return err
		}
	}

	_, _, err := o.GradeSession(ctx)
	return err
}

// waitBetweenQuests is the one deliberate suspension near the core: a
// plain timer, cancelable through ctx.
func (o *Orchestrator) waitBetweenQuests(ctx context.Context) error {
	delay := config.GetDuration(o.cfg.InterQuestDelayMs)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
