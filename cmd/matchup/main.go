package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dreamtides/dreamtides/ai/agent"
	"github.com/dreamtides/dreamtides/automatic"
	"github.com/dreamtides/dreamtides/config"
)

var (
	agentAFlag  = flag.String("a", `{"uct1MaxIterations":1000}`, "agent A config (JSON)")
	agentBFlag  = flag.String("b", `"randomAction"`, "agent B config (JSON)")
	numGames    = flag.Int("n", 100, "number of battles to play")
	threads     = flag.Int("threads", 0, "worker threads (0 = config default)")
	logFile     = flag.String("logfile", "", "per-action CSV log path")
	seedFile    = flag.String("seedfile", "", "battle seed file (see genseeds)")
	genSeeds    = flag.Int("genseeds", 0, "generate this many seeds to -seedfile and exit")
	profilePath = flag.String("profilepath", "", "path for profile")
)

func parseAgent(name, raw string) agent.Config {
	var cfg agent.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		log.Fatal().Err(err).Str("agent", name).Msg("could not parse agent config")
	}
	return cfg
}

func main() {
	flag.Parse()

	if *profilePath != "" {
		f, err := os.Create(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *genSeeds > 0 {
		if *seedFile == "" {
			log.Fatal().Msg("-genseeds requires -seedfile")
		}
		if err := automatic.SaveSeeds(automatic.GenerateSeeds(*genSeeds), *seedFile); err != nil {
			log.Fatal().Err(err).Msg("could not save seeds")
		}
		log.Info().Int("seeds", *genSeeds).Str("path", *seedFile).Msg("wrote seed file")
		return
	}

	var seeds []uint64
	if *seedFile != "" {
		seeds, err = automatic.LoadSeeds(*seedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load seeds")
		}
	}

	var store *automatic.ResultStore
	if cfg.MatchupDBPath != "" {
		store, err = automatic.OpenResultStore(cfg.MatchupDBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open result store")
		}
		defer store.Close()
	}

	workers := *threads
	if workers == 0 {
		workers = cfg.Threads
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	results, err := automatic.RunMatchup(ctx,
		cfg,
		parseAgent("A", *agentAFlag),
		parseAgent("B", *agentBFlag),
		*numGames, workers, *logFile, seeds, store)
	if err != nil {
		log.Fatal().Err(err).Msg("matchup failed")
	}
	fmt.Print(results.Summary())
}
