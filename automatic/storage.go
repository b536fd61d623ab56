package automatic

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dreamtides/dreamtides/game"
)

// ResultStore persists per-battle matchup outcomes in sqlite for offline
// analysis across runs.
type ResultStore struct {
	db *sql.DB
}

const resultSchema = `
CREATE TABLE IF NOT EXISTS battle_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	played_at TEXT NOT NULL,
	seed TEXT NOT NULL,
	seat_one_agent TEXT NOT NULL,
	seat_two_agent TEXT NOT NULL,
	winner TEXT NOT NULL,
	turns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_battle_results_agents
	ON battle_results (seat_one_agent, seat_two_agent);
`

func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}
	if _, err := db.Exec(resultSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create result schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

// Record stores the outcome of one completed battle.
func (s *ResultStore) Record(b *game.Battle, seatOne, seatTwo string) error {
	_, err := s.db.Exec(
		`INSERT INTO battle_results
			(played_at, seed, seat_one_agent, seat_two_agent, winner, turns)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		fmt.Sprintf("%016x", b.Seed),
		seatOne,
		seatTwo,
		b.Winner.String(),
		b.Turn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to record battle result: %w", err)
	}
	return nil
}

// WinCounts returns total recorded wins per winner label ("One", "Two",
// "Draw") for a seat pairing.
func (s *ResultStore) WinCounts(seatOne, seatTwo string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT winner, COUNT(*) FROM battle_results
		 WHERE seat_one_agent = ? AND seat_two_agent = ?
		 GROUP BY winner`,
		seatOne, seatTwo)
	if err != nil {
		return nil, fmt.Errorf("failed to query win counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var winner string
		var n int
		if err := rows.Scan(&winner, &n); err != nil {
			return nil, fmt.Errorf("failed to scan win count: %w", err)
		}
		counts[winner] = n
	}
	return counts, rows.Err()
}
