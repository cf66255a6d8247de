// internal/engine/score/config.go
package score

import (
	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/models"
)

type Config struct {
	RequirementMode     models.RequirementMode
	PreferredBonus      float64
	RequiredBonus       float64
	AvoidPenalty        float64
	RequiredMissPenalty float64
	AgePenaltyPerYear   float64
}

func LoadConfig() *Config {
	return &Config{
		RequirementMode:     models.ModeExplicitThreshold,
		PreferredBonus:      6,
		RequiredBonus:       10,
		AvoidPenalty:        8,
		RequiredMissPenalty: 12,
		AgePenaltyPerYear:   2,
	}
}

// FromApp maps the application config onto scoring tunables.
func FromApp(appCfg *config.Config) *Config {
	cfg := LoadConfig()
	if appCfg == nil {
		return cfg
	}

	if mode := models.RequirementMode(appCfg.Engine.RequirementMode); mode.Valid() {
		cfg.RequirementMode = mode
	}
	if appCfg.Engine.Scoring.PreferredBonus > 0 {
		cfg.PreferredBonus = appCfg.Engine.Scoring.PreferredBonus
	}
	if appCfg.Engine.Scoring.RequiredBonus > 0 {
		cfg.RequiredBonus = appCfg.Engine.Scoring.RequiredBonus
	}
	if appCfg.Engine.Scoring.AvoidPenalty > 0 {
		cfg.AvoidPenalty = appCfg.Engine.Scoring.AvoidPenalty
	}
	if appCfg.Engine.Scoring.RequiredMissPenalty > 0 {
		cfg.RequiredMissPenalty = appCfg.Engine.Scoring.RequiredMissPenalty
	}
	if appCfg.Engine.Scoring.AgePenaltyPerYear > 0 {
		cfg.AgePenaltyPerYear = appCfg.Engine.Scoring.AgePenaltyPerYear
	}
	return cfg
}
