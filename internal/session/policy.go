// internal/session/policy.go
package session

import (
	"math/rand"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

// Policy plays a session in the daemon: given a queued candidate, it
// picks the accept/reject call. Interactive frontends bypass policies
// and call Orchestrator.Decide directly.
type Policy interface {
	Name() string
	Decide(entry *models.QueueEntry) models.DecisionAction
}

// RandomPolicy flips a coin.
type RandomPolicy struct {
	rng *rand.Rand
}

func (p *RandomPolicy) Name() string { return "random" }

func (p *RandomPolicy) Decide(*models.QueueEntry) models.DecisionAction {
	if p.rng.Intn(2) == 0 {
		return models.ActionAccept
	}
	return models.ActionReject
}

// AcceptAllPolicy accepts everyone; useful for exercising the
// false-positive path under load.
type AcceptAllPolicy struct{}

func (AcceptAllPolicy) Name() string { return "accept_all" }

func (AcceptAllPolicy) Decide(*models.QueueEntry) models.DecisionAction {
	return models.ActionAccept
}

// OraclePolicy plays the curation-time ground truth, flipping its call
// with the configured error rate so accuracy stays off 100%.
type OraclePolicy struct {
	rng       *rand.Rand
	errorRate float64
}

func (p *OraclePolicy) Name() string { return "oracle" }

func (p *OraclePolicy) Decide(entry *models.QueueEntry) models.DecisionAction {
	correct := models.ActionReject
	if entry.Result != nil && entry.Result.IsMatch {
		correct = models.ActionAccept
	}
	if p.rng.Float64() < p.errorRate {
		if correct == models.ActionAccept {
			return models.ActionReject
		}
		return models.ActionAccept
	}
	return correct
}

// PolicyFromConfig builds the configured policy; unknown names fall
// back to oracle.
func PolicyFromConfig(cfg config.SimulationConfig, rng *rand.Rand) Policy {
	switch cfg.Policy {
	case "random":
		return &RandomPolicy{rng: rng}
	case "accept_all":
		return AcceptAllPolicy{}
	default:
		return &OraclePolicy{rng: rng, errorRate: cfg.OracleErrorRate}
	}
}
