// internal/content/files.go
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/metrics"
	"github.com/ben3683914/maskhot-sub000/internal/common/validation"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// FileLoader reads a content pack from a directory: traits.json,
// candidates.json, posts.json, and an optional quests.yaml. Every JSON
// file is schema-validated before decoding. An optional cache serves
// raw file bytes read-through.
type FileLoader struct {
	dir    string
	cache  *Cache
	logger logger.Logger
}

func NewFileLoader(cfg config.ContentConfig, cache *Cache, log logger.Logger) *FileLoader {
	return &FileLoader{
		dir:    cfg.Dir,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "content-files"}),
	}
}

// Load reads, validates, and resolves the whole pack.
func (l *FileLoader) Load(ctx context.Context) (*Store, error) {
	start := time.Now()

	traitsRaw, err := l.readFile(ctx, "traits.json")
	if err != nil {
		return nil, err
	}
	candidatesRaw, err := l.readFile(ctx, "candidates.json")
	if err != nil {
		return nil, err
	}
	postsRaw, err := l.readFile(ctx, "posts.json")
	if err != nil {
		return nil, err
	}

	var traits []models.Trait
	if err := validateAndDecode(validation.KindTraits, traitsRaw, &traits); err != nil {
		return nil, err
	}
	var candidates []rawCandidate
	if err := validateAndDecode(validation.KindCandidates, candidatesRaw, &candidates); err != nil {
		return nil, err
	}
	var posts []models.PostTemplate
	if err := validateAndDecode(validation.KindPosts, postsRaw, &posts); err != nil {
		return nil, err
	}

	questLine, err := l.loadQuests(ctx)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(traits, candidates, posts, questLine)
	if err != nil {
		return nil, err
	}

	metrics.ContentLoadDuration.WithLabelValues("files").Observe(time.Since(start).Seconds())
	l.logger.Info("content pack loaded", map[string]interface{}{
		"dir":        l.dir,
		"traits":     len(store.Traits()),
		"candidates": len(store.Candidates()),
		"posts":      len(store.Posts()),
		"quests":     questCount(store),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return store, nil
}

// loadQuests reads quests.yaml when present; a missing file just means
// no scripted quest line.
func (l *FileLoader) loadQuests(ctx context.Context) (*rawQuestLine, error) {
	path := filepath.Join(l.dir, "quests.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	raw, err := l.readFile(ctx, "quests.yaml")
	if err != nil {
		return nil, err
	}

	var line rawQuestLine
	if err := yaml.Unmarshal(raw, &line); err != nil {
		return nil, errors.NewContentInvalidError(fmt.Sprintf("quests.yaml: %s", err.Error()))
	}
	return &line, nil
}

// readFile fetches bytes through the cache when one is attached.
func (l *FileLoader) readFile(ctx context.Context, name string) ([]byte, error) {
	path := filepath.Join(l.dir, name)
	load := func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewContentLoadFailedError(path, err)
		}
		return data, nil
	}

	if l.cache != nil {
		return l.cache.GetOrLoad(ctx, name, load)
	}
	return load()
}

// validateAndDecode runs the JSON Schema check, then unmarshals.
func validateAndDecode(kind validation.PackKind, raw []byte, out interface{}) error {
	result, err := validation.ValidatePack(kind, raw)
	if err != nil {
		return errors.NewContentInvalidError(fmt.Sprintf("%s: %s", kind, err.Error()))
	}
	if !result.Valid {
		var parts []string
		for _, v := range result.Errors {
			parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
		}
		return errors.NewContentInvalidError(fmt.Sprintf("%s: %s", kind, strings.Join(parts, "; ")))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewContentInvalidError(fmt.Sprintf("%s: %s", kind, err.Error()))
	}
	return nil
}

func questCount(store *Store) int {
	if store.QuestLine() == nil {
		return 0
	}
	return len(store.QuestLine().Quests)
}
