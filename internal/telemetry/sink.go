// internal/telemetry/sink.go

// Package telemetry forwards graded decisions and session stats to an
// optional sink. Sinks log and drop on failure; telemetry never fails a
// session and never runs inside the evaluation hot path.
package telemetry

import (
	"context"

	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// Sink receives decision records and session summaries.
type Sink interface {
	RecordDecision(ctx context.Context, record *models.DecisionRecord) error
	RecordSession(ctx context.Context, questID string, stats models.SessionStats) error
	Close(ctx context.Context) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordDecision(context.Context, *models.DecisionRecord) error { return nil }
func (NopSink) RecordSession(context.Context, string, models.SessionStats) error {
	return nil
}
func (NopSink) Close(context.Context) error { return nil }

// LogSink writes every record through the structured logger.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log.WithFields(map[string]interface{}{"component": "telemetry-log"})}
}

func (s *LogSink) RecordDecision(_ context.Context, record *models.DecisionRecord) error {
	s.logger.Info("decision", map[string]interface{}{
		"candidateId": record.CandidateID,
		"action":      string(record.Action),
		"outcome":     string(record.Outcome),
		"correct":     record.Correct,
		"score":       record.Score,
	})
	return nil
}

func (s *LogSink) RecordSession(_ context.Context, questID string, stats models.SessionStats) error {
	s.logger.Info("session", map[string]interface{}{
		"questId":        questID,
		"decisions":      stats.Total,
		"accuracy":       stats.Accuracy,
		"truePositives":  stats.TruePositives,
		"trueNegatives":  stats.TrueNegatives,
		"falsePositives": stats.FalsePositives,
		"falseNegatives": stats.FalseNegatives,
	})
	return nil
}

func (s *LogSink) Close(context.Context) error { return nil }
