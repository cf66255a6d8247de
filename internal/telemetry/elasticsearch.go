// internal/telemetry/elasticsearch.go
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// ElasticsearchSink buffers decision records per session and bulk
// indexes them when the session summary arrives.
type ElasticsearchSink struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger

	pending []pendingDoc
}

type pendingDoc struct {
	id  string
	doc []byte
}

type sessionDoc struct {
	QuestID string              `json:"questId"`
	Stats   models.SessionStats `json:"stats"`
	Kind    string              `json:"kind"`
}

func NewElasticsearchSink(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchSink {
	return &ElasticsearchSink{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "telemetry-elasticsearch"}),
	}
}

// RecordDecision buffers the record for the next session flush.
func (s *ElasticsearchSink) RecordDecision(_ context.Context, record *models.DecisionRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return errors.NewTelemetryFailedError("elasticsearch", err)
	}
	s.pending = append(s.pending, pendingDoc{id: record.ID, doc: doc})
	return nil
}

// RecordSession bulk-indexes the buffered decisions plus a session
// summary document.
func (s *ElasticsearchSink) RecordSession(ctx context.Context, questID string, stats models.SessionStats) error {
	summary, err := json.Marshal(sessionDoc{QuestID: questID, Stats: stats, Kind: "session"})
	if err != nil {
		return errors.NewTelemetryFailedError("elasticsearch", err)
	}

	var buf bytes.Buffer
	for _, p := range s.pending {
		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":%q}}`+"\n", s.index, p.id)
		buf.Write(p.doc)
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, `{"index":{"_index":%q}}`+"\n", s.index)
	buf.Write(summary)
	buf.WriteByte('\n')

	count := len(s.pending)
	s.pending = nil

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return errors.NewTelemetryFailedError("elasticsearch", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewTelemetryFailedError("elasticsearch",
			fmt.Errorf("bulk index status %s", res.Status()))
	}

	s.logger.Info("session flushed", map[string]interface{}{
		"questId":   questID,
		"decisions": count,
		"index":     s.index,
	})
	return nil
}

// Close drops anything still buffered; an interrupted session is not
// worth a partial flush.
func (s *ElasticsearchSink) Close(context.Context) error {
	if n := len(s.pending); n > 0 {
		s.logger.Warn("discarding unflushed decisions", map[string]interface{}{"count": n})
		s.pending = nil
	}
	return nil
}
