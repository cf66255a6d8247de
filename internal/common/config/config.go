// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Content    ContentConfig    `mapstructure:"content"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// HTTPConfig holds the health/metrics server settings.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// --- Engine Configuration ---

// EngineConfig carries every gameplay tunable. Each engine subpackage
// has its own Config with matching defaults; these values override them
// when set.
type EngineConfig struct {
	RequirementMode string         `mapstructure:"requirement_mode"`
	Seed            int64          `mapstructure:"seed"` // 0 = time-seeded
	Scoring         ScoringConfig  `mapstructure:"scoring"`
	Evidence        EvidenceConfig `mapstructure:"evidence"`
	Ledger          LedgerConfig   `mapstructure:"ledger"`
}

type ScoringConfig struct {
	PreferredBonus      float64 `mapstructure:"preferred_bonus"`
	RequiredBonus       float64 `mapstructure:"required_bonus"`
	AvoidPenalty        float64 `mapstructure:"avoid_penalty"`
	RequiredMissPenalty float64 `mapstructure:"required_miss_penalty"`
	AgePenaltyPerYear   float64 `mapstructure:"age_penalty_per_year"`
}

type EvidenceConfig struct {
	RandomPostMin        int     `mapstructure:"random_post_min"`
	RandomPostMax        int     `mapstructure:"random_post_max"`
	WildcardChance       float64 `mapstructure:"wildcard_chance"`
	PhotoBias            float64 `mapstructure:"photo_bias"`
	FriendsMin           int     `mapstructure:"friends_min"`
	FriendsMax           int     `mapstructure:"friends_max"`
	LikeBaseMultiplier   float64 `mapstructure:"like_base_multiplier"`
	GreenFlagBoost       float64 `mapstructure:"green_flag_boost"`
	PhotoBoost           float64 `mapstructure:"photo_boost"`
	CommentRatio         float64 `mapstructure:"comment_ratio"`
	MinRecencyWindowDays int     `mapstructure:"min_recency_window_days"`
	RecencyJitterDays    int     `mapstructure:"recency_jitter_days"`
}

type LedgerConfig struct {
	AutoAdvance bool `mapstructure:"auto_advance"`
}

// --- Content Configuration ---

type ContentConfig struct {
	Source          string `mapstructure:"source"` // files | postgres
	Dir             string `mapstructure:"dir"`
	ManifestPath    string `mapstructure:"manifest_path"`
	RemoteURL       string `mapstructure:"remote_url"`
	CacheEnabled    bool   `mapstructure:"cache_enabled"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Telemetry Configuration ---

type TelemetryConfig struct {
	Sink  string `mapstructure:"sink"` // none | log | elasticsearch
	Index string `mapstructure:"index"`
}

// --- Simulation Configuration ---

// SimulationConfig shapes the daemon's automated playthroughs.
type SimulationConfig struct {
	Sessions          int     `mapstructure:"sessions"` // 0 = run until signal
	Policy            string  `mapstructure:"policy"`   // random | accept_all | oracle
	OracleErrorRate   float64 `mapstructure:"oracle_error_rate"`
	InterQuestDelayMs int     `mapstructure:"inter_quest_delay_ms"`
}
