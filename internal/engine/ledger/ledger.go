// internal/engine/ledger/ledger.go
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/metrics"
	"github.com/ben3683914/maskhot-sub000/internal/engine/queue"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

const componentName = "decision-ledger"

// Evaluator re-derives ground truth at decision time.
type Evaluator interface {
	Evaluate(candidate *models.CandidateProfile, criteria *models.MatchCriteria) *models.MatchResult
}

// Ledger grades the player's decisions against ground truth and keeps
// the session confusion matrix. Decisions are single-shot per candidate;
// everything else is re-invocable. Not safe for concurrent use.
type Ledger struct {
	scorer  Evaluator
	curator *queue.Curator
	logger  logger.Logger

	autoAdvance bool

	truePositives  int
	trueNegatives  int
	falsePositives int
	falseNegatives int

	records          []models.DecisionRecord
	completeSignaled bool

	decisionRecordedFns []func(*models.DecisionRecord)
	allCompleteFns      []func(models.SessionStats)
	sessionResetFns     []func()
}

func NewLedger(scorer Evaluator, curator *queue.Curator, autoAdvance bool, log logger.Logger) *Ledger {
	return &Ledger{
		scorer:      scorer,
		curator:     curator,
		autoAdvance: autoAdvance,
		logger:      log.WithFields(map[string]interface{}{"component": componentName}),
	}
}

// OnDecisionRecorded registers a listener fired after every graded
// decision, in registration order.
func (l *Ledger) OnDecisionRecorded(fn func(*models.DecisionRecord)) {
	l.decisionRecordedFns = append(l.decisionRecordedFns, fn)
}

// OnAllDecisionsComplete registers a listener fired exactly once per
// session, after the decision-recorded listeners for the completing
// decision.
func (l *Ledger) OnAllDecisionsComplete(fn func(models.SessionStats)) {
	l.allCompleteFns = append(l.allCompleteFns, fn)
}

// OnSessionReset registers a listener fired after ResetSession.
func (l *Ledger) OnSessionReset(fn func()) {
	l.sessionResetFns = append(l.sessionResetFns, fn)
}

// Decide grades the player's call on a queued candidate. The candidate
// must be a Pending member of the active queue; otherwise a
// CANNOT_DECIDE error is returned and nothing changes.
func (l *Ledger) Decide(candidateID string, action models.DecisionAction) (*models.DecisionRecord, error) {
	if action != models.ActionAccept && action != models.ActionReject {
		return nil, errors.NewCannotDecideError(candidateID, "unknown action")
	}

	entry, ok := l.curator.Entry(candidateID)
	if !ok {
		return nil, errors.NewCannotDecideError(candidateID, "not in the active queue")
	}
	if !entry.Pending() {
		return nil, errors.NewCannotDecideError(candidateID, "already decided")
	}

	truth := l.scorer.Evaluate(entry.Candidate, l.curator.ActiveCriteria())
	outcome := models.ClassifyDecision(action, truth.IsMatch)

	switch outcome {
	case models.OutcomeTruePositive:
		l.truePositives++
	case models.OutcomeTrueNegative:
		l.trueNegatives++
	case models.OutcomeFalsePositive:
		l.falsePositives++
	case models.OutcomeFalseNegative:
		l.falseNegatives++
	}

	if action == models.ActionAccept {
		entry.State = models.DecisionAccepted
	} else {
		entry.State = models.DecisionRejected
	}

	record := models.DecisionRecord{
		ID:            uuid.New().String(),
		CandidateID:   entry.Candidate.ID,
		CandidateName: entry.Candidate.Name,
		Action:        action,
		WasMatch:      truth.IsMatch,
		Correct:       outcome.Correct(),
		Outcome:       outcome,
		Score:         truth.Score,
		FailureReason: truth.FailureReason,
		DecidedAt:     time.Now().UTC(),
	}
	l.records = append(l.records, record)

	metrics.RecordDecision(string(outcome))
	l.logger.Info("decision recorded", map[string]interface{}{
		"candidateId": record.CandidateID,
		"action":      string(action),
		"outcome":     string(outcome),
		"accuracy":    l.Accuracy(),
	})

	for _, fn := range l.decisionRecordedFns {
		fn(&record)
	}

	if !l.completeSignaled && l.curator.PendingCount() == 0 {
		l.completeSignaled = true
		stats := l.Stats()
		metrics.SessionAccuracy.Set(stats.Accuracy)
		metrics.SessionsCompletedTotal.Inc()
		l.logger.Info("all decisions complete", map[string]interface{}{
			"decisions": stats.Total,
			"accuracy":  stats.Accuracy,
		})
		for _, fn := range l.allCompleteFns {
			fn(stats)
		}
	}

	if l.autoAdvance {
		l.curator.AdvanceSelection()
	}

	return &record, nil
}

// Accuracy derives the running accuracy on demand; zero with no
// decisions.
func (l *Ledger) Accuracy() float64 {
	total := l.totalDecisions()
	if total == 0 {
		return 0
	}
	return 100 * float64(l.truePositives+l.trueNegatives) / float64(total)
}

// Stats returns the confusion matrix plus derived accuracy.
func (l *Ledger) Stats() models.SessionStats {
	return models.SessionStats{
		TruePositives:  l.truePositives,
		TrueNegatives:  l.trueNegatives,
		FalsePositives: l.falsePositives,
		FalseNegatives: l.falseNegatives,
		Total:          l.totalDecisions(),
		Accuracy:       l.Accuracy(),
		Complete:       l.completeSignaled,
	}
}

// Records returns the ordered decision log for this session. Callers
// treat it read-only.
func (l *Ledger) Records() []models.DecisionRecord {
	return l.records
}

// Complete reports whether the all-decisions-complete signal has fired.
func (l *Ledger) Complete() bool {
	return l.completeSignaled
}

// ResetSession zeroes counters, clears the log, and re-arms the
// completion signal. Queue membership and decision states are untouched;
// the curator owns those.
func (l *Ledger) ResetSession() {
	l.truePositives = 0
	l.trueNegatives = 0
	l.falsePositives = 0
	l.falseNegatives = 0
	l.records = nil
	l.completeSignaled = false

	l.logger.Debug("session reset", nil)
	for _, fn := range l.sessionResetFns {
		fn()
	}
}

func (l *Ledger) totalDecisions() int {
	return l.truePositives + l.trueNegatives + l.falsePositives + l.falseNegatives
}
