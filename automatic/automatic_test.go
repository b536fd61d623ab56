package automatic

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamtides/dreamtides/ai/agent"
	"github.com/dreamtides/dreamtides/config"
	"github.com/dreamtides/dreamtides/game"
)

func runnerConfig() *config.Config {
	cfg := config.Default()
	cfg.Threads = 2
	cfg.SearchSeed = 7
	return cfg
}

func TestPlayBattleFinishes(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, runnerConfig())
	agents := [2]agent.Config{{Kind: agent.UniformRandom}, {Kind: agent.UniformRandom}}
	b := r.PlayBattle(13, agents)
	is.Equal(b.Status, game.StatusGameOver)
	is.True(b.Winner != game.WinnerNone)
}

func TestPlayBattleLogsActions(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 10000)
	r := NewGameRunner(logchan, runnerConfig())
	agents := [2]agent.Config{{Kind: agent.FirstLegal}, {Kind: agent.FirstLegal}}
	b := r.PlayBattle(13, agents)
	close(logchan)

	lines := 0
	for msg := range logchan {
		is.True(strings.HasPrefix(msg, b.ID+","))
		is.Equal(len(strings.Split(strings.TrimSpace(msg), ",")), 7)
		lines++
	}
	is.True(lines > 0)
}

func TestRunMatchupAggregates(t *testing.T) {
	cfg := runnerConfig()
	a := agent.Config{Kind: agent.UniformRandom}
	b := agent.Config{Kind: agent.FirstLegal}
	results, err := RunMatchup(context.Background(), cfg, a, b, 8, 2, "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, results.Games)
	assert.Equal(t, 8, results.Wins[0]+results.Wins[1]+results.Draws)
	assert.Equal(t, 8, results.Turns.Iterations())
	assert.NotEmpty(t, results.Summary())
}

func TestRunMatchupWritesLogFile(t *testing.T) {
	cfg := runnerConfig()
	path := filepath.Join(t.TempDir(), "matchup.csv")
	a := agent.Config{Kind: agent.FirstLegal}
	_, err := RunMatchup(context.Background(), cfg, a, a, 2, 1, path, []uint64{21, 22}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), logHeader))
	assert.Greater(t, strings.Count(string(data), "\n"), 2)
}

func TestSeedRoundTrip(t *testing.T) {
	is := is.New(t)
	seeds := GenerateSeeds(20)
	is.Equal(len(seeds), 20)
	for _, s := range seeds {
		is.True(s != 0)
	}
	path := filepath.Join(t.TempDir(), "seeds.txt")
	is.NoErr(SaveSeeds(seeds, path))
	back, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(back, seeds)
}

func TestSeededMatchupReproducible(t *testing.T) {
	cfg := runnerConfig()
	a := agent.Config{Kind: agent.FirstLegal}
	seeds := []uint64{31, 32, 33, 34}
	first, err := RunMatchup(context.Background(), cfg, a, a, 4, 1, "", seeds, nil)
	require.NoError(t, err)
	second, err := RunMatchup(context.Background(), cfg, a, a, 4, 1, "", seeds, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Wins, second.Wins)
	assert.Equal(t, first.Draws, second.Draws)
}

func TestResultStore(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := OpenResultStore(path)
	is.NoErr(err)
	defer store.Close()

	r := NewGameRunner(nil, runnerConfig())
	agents := [2]agent.Config{{Kind: agent.FirstLegal}, {Kind: agent.FirstLegal}}
	b := r.PlayBattle(41, agents)
	is.NoErr(store.Record(b, "firstLegal", "firstLegal"))
	is.NoErr(store.Record(b, "firstLegal", "firstLegal"))

	counts, err := store.WinCounts("firstLegal", "firstLegal")
	is.NoErr(err)
	is.Equal(counts[b.Winner.String()], 2)
}
