// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like ENGINE_REQUIREMENT_MODE
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from several locations so tests and tools can
// run from nested directories.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies well-known environment variables for values
// still empty after expansion.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
	if cfg.Database.Elasticsearch.URL == "" {
		if val := os.Getenv("ELASTICSEARCH_URL"); val != "" {
			cfg.Database.Elasticsearch.URL = val
		}
	}
	if cfg.Content.Dir == "" {
		if val := os.Getenv("CONTENT_DIR"); val != "" {
			cfg.Content.Dir = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "matchsim"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}

	// Engine defaults
	if cfg.Engine.RequirementMode == "" {
		cfg.Engine.RequirementMode = "explicit_threshold"
	}
	if cfg.Engine.Scoring.PreferredBonus == 0 {
		cfg.Engine.Scoring.PreferredBonus = 6
	}
	if cfg.Engine.Scoring.RequiredBonus == 0 {
		cfg.Engine.Scoring.RequiredBonus = 10
	}
	if cfg.Engine.Scoring.AvoidPenalty == 0 {
		cfg.Engine.Scoring.AvoidPenalty = 8
	}
	if cfg.Engine.Scoring.RequiredMissPenalty == 0 {
		cfg.Engine.Scoring.RequiredMissPenalty = 12
	}
	if cfg.Engine.Scoring.AgePenaltyPerYear == 0 {
		cfg.Engine.Scoring.AgePenaltyPerYear = 2
	}
	if cfg.Engine.Evidence.RandomPostMin == 0 {
		cfg.Engine.Evidence.RandomPostMin = 3
	}
	if cfg.Engine.Evidence.RandomPostMax == 0 {
		cfg.Engine.Evidence.RandomPostMax = 6
	}
	if cfg.Engine.Evidence.WildcardChance == 0 {
		cfg.Engine.Evidence.WildcardChance = 0.15
	}
	if cfg.Engine.Evidence.PhotoBias == 0 {
		cfg.Engine.Evidence.PhotoBias = 0.4
	}
	if cfg.Engine.Evidence.FriendsMin == 0 {
		cfg.Engine.Evidence.FriendsMin = 80
	}
	if cfg.Engine.Evidence.FriendsMax == 0 {
		cfg.Engine.Evidence.FriendsMax = 600
	}
	if cfg.Engine.Evidence.LikeBaseMultiplier == 0 {
		cfg.Engine.Evidence.LikeBaseMultiplier = 0.12
	}
	if cfg.Engine.Evidence.GreenFlagBoost == 0 {
		cfg.Engine.Evidence.GreenFlagBoost = 1.3
	}
	if cfg.Engine.Evidence.PhotoBoost == 0 {
		cfg.Engine.Evidence.PhotoBoost = 1.2
	}
	if cfg.Engine.Evidence.CommentRatio == 0 {
		cfg.Engine.Evidence.CommentRatio = 0.08
	}
	if cfg.Engine.Evidence.MinRecencyWindowDays == 0 {
		cfg.Engine.Evidence.MinRecencyWindowDays = 30
	}
	if cfg.Engine.Evidence.RecencyJitterDays == 0 {
		cfg.Engine.Evidence.RecencyJitterDays = 3
	}

	// Content defaults
	if cfg.Content.Source == "" {
		cfg.Content.Source = "files"
	}
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "./content"
	}
	if cfg.Content.CacheTTLSeconds == 0 {
		cfg.Content.CacheTTLSeconds = 300
	}

	// Database defaults
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	// Telemetry defaults
	if cfg.Telemetry.Sink == "" {
		cfg.Telemetry.Sink = "log"
	}
	if cfg.Telemetry.Index == "" {
		cfg.Telemetry.Index = "matchsim-decisions"
	}

	// Simulation defaults
	if cfg.Simulation.Policy == "" {
		cfg.Simulation.Policy = "oracle"
	}
	if cfg.Simulation.OracleErrorRate == 0 {
		cfg.Simulation.OracleErrorRate = 0.2
	}
	if cfg.Simulation.InterQuestDelayMs == 0 {
		cfg.Simulation.InterQuestDelayMs = 2000
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Engine.RequirementMode {
	case "explicit_threshold", "implicit_softening", "scoring_only":
	default:
		return fmt.Errorf("engine.requirement_mode must be one of explicit_threshold, implicit_softening, scoring_only")
	}

	if cfg.Engine.Evidence.RandomPostMin > cfg.Engine.Evidence.RandomPostMax {
		return fmt.Errorf("engine.evidence.random_post_min exceeds random_post_max")
	}
	if cfg.Engine.Evidence.FriendsMin > cfg.Engine.Evidence.FriendsMax {
		return fmt.Errorf("engine.evidence.friends_min exceeds friends_max")
	}

	switch cfg.Content.Source {
	case "files":
		if cfg.Content.Dir == "" {
			return fmt.Errorf("content.dir is required for the files source")
		}
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required for the postgres source")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required for the postgres source")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required for the postgres source")
		}
	default:
		return fmt.Errorf("content.source must be files or postgres")
	}

	if cfg.Content.CacheEnabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when content.cache_enabled is set")
	}

	switch cfg.Telemetry.Sink {
	case "none", "log":
	case "elasticsearch":
		if len(cfg.Database.Elasticsearch.Addresses) == 0 && cfg.Database.Elasticsearch.URL == "" {
			return fmt.Errorf("database.elasticsearch.addresses or url is required for the elasticsearch sink")
		}
	default:
		return fmt.Errorf("telemetry.sink must be none, log, or elasticsearch")
	}

	switch cfg.Simulation.Policy {
	case "random", "accept_all", "oracle":
	default:
		return fmt.Errorf("simulation.policy must be random, accept_all, or oracle")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
