// internal/engine/queue/curator.go
package queue

import (
	"math/rand"
	"time"

	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/metrics"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

const componentName = "queue-curator"

// Evaluator produces the ground-truth verdict used to mix the queue.
type Evaluator interface {
	Evaluate(candidate *models.CandidateProfile, criteria *models.MatchCriteria) *models.MatchResult
}

// Curator owns the session queue: the curated entries, the active
// criteria they were curated against, and the selection cursor. Not safe
// for concurrent use.
type Curator struct {
	scorer Evaluator
	rng    *rand.Rand
	logger logger.Logger

	entries  []*models.QueueEntry
	byID     map[string]*models.QueueEntry
	criteria *models.MatchCriteria
	selected int

	queueChangedFns []func(count int)
}

func NewCurator(scorer Evaluator, rng *rand.Rand, log logger.Logger) *Curator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Curator{
		scorer:   scorer,
		rng:      rng,
		logger:   log.WithFields(map[string]interface{}{"component": componentName}),
		byID:     make(map[string]*models.QueueEntry),
		selected: -1,
	}
}

// OnQueueChanged registers a listener fired after every wholesale
// repopulation, in registration order.
func (c *Curator) OnQueueChanged(fn func(count int)) {
	c.queueChangedFns = append(c.queueChangedFns, fn)
}

// PopulateForQuest evaluates the whole pool, partitions it into true
// matches and decoys, and builds a shuffled queue holding at least
// min(minGoodMatches, available) true matches. The prior queue, decision
// states, and selection cursor are replaced wholesale.
func (c *Curator) PopulateForQuest(criteria *models.MatchCriteria, pool []*models.CandidateProfile, targetCount, minGoodMatches int) []*models.QueueEntry {
	start := time.Now()

	if targetCount < 0 {
		targetCount = 0
	}

	var good, bad []*models.QueueEntry
	for _, candidate := range pool {
		if candidate == nil {
			continue
		}
		result := c.scorer.Evaluate(candidate, criteria)
		entry := &models.QueueEntry{
			Candidate: candidate,
			Result:    result,
			State:     models.DecisionPending,
		}
		if result.IsMatch {
			good = append(good, entry)
		} else {
			bad = append(bad, entry)
		}
	}

	if available := len(good) + len(bad); targetCount > available {
		targetCount = available
	}

	c.rng.Shuffle(len(good), func(i, j int) { good[i], good[j] = good[j], good[i] })
	c.rng.Shuffle(len(bad), func(i, j int) { bad[i], bad[j] = bad[j], bad[i] })

	floor := minGoodMatches
	if floor < 0 {
		floor = 0
	}
	if floor > len(good) {
		floor = len(good)
	}
	if floor > targetCount {
		floor = targetCount
	}

	selected := make([]*models.QueueEntry, 0, targetCount)
	selected = append(selected, good[:floor]...)

	goodIdx, badIdx := floor, 0
	for len(selected) < targetCount && badIdx < len(bad) {
		selected = append(selected, bad[badIdx])
		badIdx++
	}
	// decoys exhausted: backfill with more true matches
	for len(selected) < targetCount && goodIdx < len(good) {
		selected = append(selected, good[goodIdx])
		goodIdx++
	}

	c.rng.Shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })

	c.entries = selected
	c.byID = make(map[string]*models.QueueEntry, len(selected))
	for _, entry := range selected {
		c.byID[entry.Candidate.ID] = entry
	}
	c.criteria = criteria
	c.selected = -1
	if len(selected) > 0 {
		c.selected = 0
	}

	goodCount := 0
	for _, entry := range selected {
		if entry.Result.IsMatch {
			goodCount++
		}
	}
	metrics.QueuePopulationsTotal.Inc()
	if len(selected) > 0 {
		metrics.QueueGoodMatchRatio.Observe(float64(goodCount) / float64(len(selected)))
	}

	c.logger.Info("queue populated", map[string]interface{}{
		"poolSize":    len(pool),
		"queueSize":   len(selected),
		"goodMatches": goodCount,
		"durationMs":  time.Since(start).Milliseconds(),
	})

	for _, fn := range c.queueChangedFns {
		fn(len(selected))
	}
	return selected
}

// Entries returns the live queue in order. Callers treat it read-only.
func (c *Curator) Entries() []*models.QueueEntry {
	return c.entries
}

// Entry looks up a queue member by candidate ID.
func (c *Curator) Entry(candidateID string) (*models.QueueEntry, bool) {
	entry, ok := c.byID[candidateID]
	return entry, ok
}

func (c *Curator) Len() int {
	return len(c.entries)
}

// PendingCount returns how many entries still await a decision.
func (c *Curator) PendingCount() int {
	n := 0
	for _, entry := range c.entries {
		if entry.Pending() {
			n++
		}
	}
	return n
}

// ActiveCriteria returns the criteria the current queue was curated
// against; nil before the first population.
func (c *Curator) ActiveCriteria() *models.MatchCriteria {
	return c.criteria
}

// Selected returns the entry under the selection cursor, nil when the
// queue is empty.
func (c *Curator) Selected() *models.QueueEntry {
	if c.selected < 0 || c.selected >= len(c.entries) {
		return nil
	}
	return c.entries[c.selected]
}

// Select moves the cursor to the given candidate.
func (c *Curator) Select(candidateID string) bool {
	for i, entry := range c.entries {
		if entry.Candidate.ID == candidateID {
			c.selected = i
			return true
		}
	}
	return false
}

// AdvanceSelection moves the cursor to the next Pending entry after the
// current one, wrapping around. It returns the new selection, or nil
// when nothing is Pending (cursor unchanged).
func (c *Curator) AdvanceSelection() *models.QueueEntry {
	if len(c.entries) == 0 {
		return nil
	}
	start := c.selected
	for i := 1; i <= len(c.entries); i++ {
		idx := (start + i) % len(c.entries)
		if idx < 0 {
			idx += len(c.entries)
		}
		if c.entries[idx].Pending() {
			c.selected = idx
			return c.entries[idx]
		}
	}
	return nil
}

// ResetDecisions returns every entry to Pending for a retry of the same
// queue. Membership and order are preserved.
func (c *Curator) ResetDecisions() {
	for _, entry := range c.entries {
		entry.ResetDecision()
	}
	if len(c.entries) > 0 {
		c.selected = 0
	}
}
