package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/dreamtides/dreamtides/ai/agent"
	"github.com/dreamtides/dreamtides/config"
	"github.com/dreamtides/dreamtides/game"
	"github.com/dreamtides/dreamtides/stats"
)

var (
	MatchCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	MatchCounter = expvar.NewInt("matchCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// MatchResults aggregates a matchup between agent A and agent B. Wins are
// indexed by agent, SeatWins by seat, so the two views separate agent
// strength from first-player advantage.
type MatchResults struct {
	Games    int
	Wins     [2]int
	Draws    int
	SeatWins [2]int
	Turns    stats.Statistic

	turnCounts []float64
}

func (m *MatchResults) add(winnerAgent int, winnerSeat game.PlayerName, draw bool, turns int) {
	m.Games++
	if draw {
		m.Draws++
	} else {
		m.Wins[winnerAgent]++
		m.SeatWins[winnerSeat]++
	}
	m.Turns.Push(float64(turns))
	m.turnCounts = append(m.turnCounts, float64(turns))
}

// Summary renders win totals and a histogram of battle lengths.
func (m *MatchResults) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "games: %d\n", m.Games)
	fmt.Fprintf(&sb, "agent A wins: %d (%.1f%%)\n", m.Wins[0], pct(m.Wins[0], m.Games))
	fmt.Fprintf(&sb, "agent B wins: %d (%.1f%%)\n", m.Wins[1], pct(m.Wins[1], m.Games))
	fmt.Fprintf(&sb, "draws: %d\n", m.Draws)
	fmt.Fprintf(&sb, "seat one wins: %d, seat two wins: %d\n", m.SeatWins[0], m.SeatWins[1])
	fmt.Fprintf(&sb, "turns: mean %.1f ± %.1f (95%%), stdev %.1f, min %v, max %v\n",
		m.Turns.Mean(), stats.Z95*m.Turns.StandardError(),
		m.Turns.Stdev(), m.Turns.Min(), m.Turns.Max())
	if len(m.turnCounts) > 1 {
		hist := histogram.Hist(10, m.turnCounts)
		histogram.Fprint(&sb, hist, histogram.Linear(40))
	}
	return sb.String()
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

type job struct {
	seed uint64
	// swapped seats agent B as player One.
	swapped bool
}

type outcome struct {
	winner  game.Winner
	swapped bool
	turns   int
}

// RunMatchup plays numGames battles between agentA and agentB across a
// worker pool, alternating seats each game. If seeds is non-empty it
// supplies the battle seeds (cycled); otherwise seeds are random. An
// output filename enables per-action CSV logging, and a non-nil store
// records every battle. Returns once every battle completes or ctx is
// cancelled.
func RunMatchup(ctx context.Context, cfg *config.Config, agentA, agentB agent.Config,
	numGames, threads int, outputFilename string, seeds []uint64, store *ResultStore) (*MatchResults, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("a matchup is already being played, please wait till complete")
	}
	if threads < 1 {
		threads = 1
	}

	var logChan chan string
	var logDone chan struct{}
	if outputFilename != "" {
		logfile, err := os.Create(outputFilename)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
		logDone = make(chan struct{})
		go func() {
			logfile.WriteString(logHeader)
			for msg := range logChan {
				logfile.WriteString(msg)
			}
			logfile.Close()
			close(logDone)
		}()
	}
	log.Info().
		Int("games", numGames).
		Int("threads", threads).
		Str("agentA", agentA.String()).
		Str("agentB", agentB.String()).
		Msg("starting matchup")

	MatchCounter.Set(0)
	jobs := make(chan job, 100)
	outcomes := make(chan outcome, 100)
	var wg sync.WaitGroup
	wg.Add(threads)
	for i := 0; i < threads; i++ {
		go func() {
			defer wg.Done()
			r := NewGameRunner(logChan, cfg)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for j := range jobs {
				seats := [2]agent.Config{agentA, agentB}
				if j.swapped {
					seats = [2]agent.Config{agentB, agentA}
				}
				b := r.PlayBattle(j.seed, seats)
				if store != nil {
					if err := store.Record(b, seats[0].String(), seats[1].String()); err != nil {
						log.Err(err).Str("battle", b.ID).Msg("recording battle result")
					}
				}
				outcomes <- outcome{winner: b.Winner, swapped: j.swapped, turns: b.Turn.ID}
				MatchCounter.Add(1)
			}
		}()
	}

	go func() {
	gameLoop:
		for i := 0; i < numGames; i++ {
			seed := frand.Uint64n(1<<63) + 1
			if len(seeds) > 0 {
				seed = seeds[i%len(seeds)]
			}
			jobs <- job{seed: seed, swapped: i%2 == 1}
			select {
			case <-ctx.Done():
				log.Info().Msg("got stop signal, exiting soon...")
				break gameLoop
			default:
			}
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
		if logChan != nil {
			close(logChan)
		}
	}()

	results := &MatchResults{}
	for o := range outcomes {
		seat, isPlayer := o.winner.Player()
		if !isPlayer {
			results.add(0, 0, true, o.turns)
			continue
		}
		winnerAgent := int(seat)
		if o.swapped {
			winnerAgent = 1 - winnerAgent
		}
		results.add(winnerAgent, seat, false, o.turns)
	}
	if logDone != nil {
		<-logDone
	}
	log.Info().Int("games", results.Games).Msg("matchup finished")
	return results, nil
}
