// Package config loads engine configuration from the environment (prefix
// DREAMTIDES_) with optional overrides from a YAML config file named by
// DREAMTIDES_CONFIG_FILE.
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

type Config struct {
	// Debug enables debug-level logging.
	Debug bool
	// Threads sizes the worker pool for parallel candidate searches.
	Threads int
	// BudgetMultiplier scales the global iteration budget relative to the
	// per-action maximum.
	BudgetMultiplier int
	// SearchSeed is the base seed for search randomization. Zero means
	// derive one from the battle.
	SearchSeed uint64
	// GraphDumpPath, when set, receives a gzipped JSON dump of the
	// winning candidate's search tree after each search decision.
	GraphDumpPath string
	// GraphDumpDepth limits the dumped tree depth.
	GraphDumpDepth int
	// NatsURL and BotChannel configure the bot server.
	NatsURL    string
	BotChannel string
	// MatchupDBPath, when set, stores matchup results in sqlite.
	MatchupDBPath string
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("dreamtides")
	v.AutomaticEnv()

	v.SetDefault("debug", false)
	v.SetDefault("threads", runtime.NumCPU())
	v.SetDefault("budget_multiplier", 6)
	v.SetDefault("search_seed", 0)
	v.SetDefault("graph_dump_path", "")
	v.SetDefault("graph_dump_depth", 3)
	v.SetDefault("nats_url", "nats://127.0.0.1:4222")
	v.SetDefault("bot_channel", "dreamtides.bot")
	v.SetDefault("matchup_db_path", "")

	if cfgFile := v.GetString("config_file"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{
		Debug:            v.GetBool("debug"),
		Threads:          v.GetInt("threads"),
		BudgetMultiplier: v.GetInt("budget_multiplier"),
		SearchSeed:       v.GetUint64("search_seed"),
		GraphDumpPath:    v.GetString("graph_dump_path"),
		GraphDumpDepth:   v.GetInt("graph_dump_depth"),
		NatsURL:          v.GetString("nats_url"),
		BotChannel:       v.GetString("bot_channel"),
		MatchupDBPath:    v.GetString("matchup_db_path"),
	}
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	return cfg, nil
}

// Default returns the configuration with no environment applied.
func Default() *Config {
	return &Config{
		Threads:          runtime.NumCPU(),
		BudgetMultiplier: 6,
		GraphDumpDepth:   3,
		NatsURL:          "nats://127.0.0.1:4222",
		BotChannel:       "dreamtides.bot",
	}
}
