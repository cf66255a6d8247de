// internal/content/postgres.go
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/metrics"
	"github.com/ben3683914/maskhot-sub000/internal/content/queries"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// PostgresLoader reads the content pack from a PostgreSQL database via
// the named-query registry. Quest lines stay file-authored; the
// database carries traits, candidates, and the post pool.
type PostgresLoader struct {
	db     *sql.DB
	files  *FileLoader
	logger logger.Logger
}

// NewPostgresLoader wires the database and an optional file loader used
// only for quests.yaml.
func NewPostgresLoader(db *sql.DB, cfg config.ContentConfig, log logger.Logger) *PostgresLoader {
	var files *FileLoader
	if cfg.Dir != "" {
		files = NewFileLoader(cfg, nil, log)
	}
	return &PostgresLoader{
		db:     db,
		files:  files,
		logger: log.WithFields(map[string]interface{}{"component": "content-postgres"}),
	}
}

// Load runs the three content queries and resolves the pack.
func (l *PostgresLoader) Load(ctx context.Context) (*Store, error) {
	start := time.Now()

	traitRows, err := l.query(ctx, "traits")
	if err != nil {
		return nil, err
	}
	candidateRows, err := l.query(ctx, "candidates")
	if err != nil {
		return nil, err
	}
	postRows, err := l.query(ctx, "posts")
	if err != nil {
		return nil, err
	}

	traits := make([]models.Trait, 0)
	for _, r := range traitRows.([]queries.TraitRow) {
		traits = append(traits, models.Trait{
			ID:          r.ID,
			Name:        r.Name,
			Category:    models.TraitCategory(r.Category),
			MatchWeight: r.MatchWeight,
		})
	}

	candidates := make([]rawCandidate, 0)
	for _, r := range candidateRows.([]queries.CandidateRow) {
		raw := rawCandidate{
			ID:       r.ID,
			Name:     r.Name,
			Age:      r.Age,
			Gender:   r.Gender,
			Bio:      r.Bio,
			TraitIDs: r.TraitIDs,
		}
		if len(r.GuaranteedPosts) > 0 {
			if err := json.Unmarshal(r.GuaranteedPosts, &raw.GuaranteedPosts); err != nil {
				return nil, errors.NewContentInvalidError(
					fmt.Sprintf("candidate %s guaranteed posts: %s", r.ID, err.Error()))
			}
		}
		candidates = append(candidates, raw)
	}

	posts := make([]models.PostTemplate, 0)
	for _, r := range postRows.([]queries.PostRow) {
		posts = append(posts, models.PostTemplate{
			ID:          r.ID,
			Type:        models.PostType(r.Type),
			Text:        r.Text,
			ImageRef:    r.ImageRef,
			TraitIDs:    r.TraitIDs,
			IsRedFlag:   r.IsRedFlag,
			IsGreenFlag: r.IsGreenFlag,
			DaysAgo:     r.DaysAgo,
		})
	}

	questLine, err := l.loadQuestLine(ctx)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(traits, candidates, posts, questLine)
	if err != nil {
		return nil, err
	}

	metrics.ContentLoadDuration.WithLabelValues("postgres").Observe(time.Since(start).Seconds())
	l.logger.Info("content pack loaded", map[string]interface{}{
		"traits":     len(store.Traits()),
		"candidates": len(store.Candidates()),
		"posts":      len(store.Posts()),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return store, nil
}

func (l *PostgresLoader) query(ctx context.Context, name string) (interface{}, error) {
	rows, count, execMs, err := queries.Execute(ctx, l.db, name)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError(name, err)
	}
	l.logger.Debug("content query executed", map[string]interface{}{
		"query":  name,
		"rows":   count,
		"execMs": execMs,
	})
	return rows, nil
}

func (l *PostgresLoader) loadQuestLine(ctx context.Context) (*rawQuestLine, error) {
	if l.files == nil {
		return nil, nil
	}
	return l.files.loadQuests(ctx)
}
