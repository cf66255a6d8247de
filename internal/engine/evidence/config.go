// internal/engine/evidence/config.go
package evidence

import "github.com/ben3683914/maskhot-sub000/internal/common/config"

type Config struct {
	RandomPostMin        int
	RandomPostMax        int
	WildcardChance       float64
	PhotoBias            float64
	FriendsMin           int
	FriendsMax           int
	LikeBaseMultiplier   float64
	GreenFlagBoost       float64
	PhotoBoost           float64
	CommentRatio         float64
	MinRecencyWindowDays int
	RecencyJitterDays    int
}

func LoadConfig() *Config {
	return &Config{
		RandomPostMin:        3,
		RandomPostMax:        6,
		WildcardChance:       0.15,
		PhotoBias:            0.4,
		FriendsMin:           80,
		FriendsMax:           600,
		LikeBaseMultiplier:   0.12,
		GreenFlagBoost:       1.3,
		PhotoBoost:           1.2,
		CommentRatio:         0.08,
		MinRecencyWindowDays: 30,
		RecencyJitterDays:    3,
	}
}

// FromApp maps the application config onto sampling tunables.
func FromApp(appCfg *config.Config) *Config {
	cfg := LoadConfig()
	if appCfg == nil {
		return cfg
	}

	ev := appCfg.Engine.Evidence
	if ev.RandomPostMin > 0 {
		cfg.RandomPostMin = ev.RandomPostMin
	}
	if ev.RandomPostMax > 0 {
		cfg.RandomPostMax = ev.RandomPostMax
	}
	if ev.WildcardChance > 0 {
		cfg.WildcardChance = ev.WildcardChance
	}
	if ev.PhotoBias > 0 {
		cfg.PhotoBias = ev.PhotoBias
	}
	if ev.FriendsMin > 0 {
		cfg.FriendsMin = ev.FriendsMin
	}
	if ev.FriendsMax > 0 {
		cfg.FriendsMax = ev.FriendsMax
	}
	if ev.LikeBaseMultiplier > 0 {
		cfg.LikeBaseMultiplier = ev.LikeBaseMultiplier
	}
	if ev.GreenFlagBoost > 0 {
		cfg.GreenFlagBoost = ev.GreenFlagBoost
	}
	if ev.PhotoBoost > 0 {
		cfg.PhotoBoost = ev.PhotoBoost
	}
	if ev.CommentRatio > 0 {
		cfg.CommentRatio = ev.CommentRatio
	}
	if ev.MinRecencyWindowDays > 0 {
		cfg.MinRecencyWindowDays = ev.MinRecencyWindowDays
	}
	if ev.RecencyJitterDays > 0 {
		cfg.RecencyJitterDays = ev.RecencyJitterDays
	}
	return cfg
}
