// Package journal provides SQLite-backed narration of village life: what
// each villager did, and every trade that went through. Writes are
// best-effort; a failed insert is logged and dropped, never surfaced to the
// simulation.
package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Entry is one narrated event.
type Entry struct {
	ID        string    `db:"id" json:"id"`
	Villager  string    `db:"villager" json:"villager"`
	Kind      string    `db:"kind" json:"kind"`
	Message   string    `db:"message" json:"message"`
	SimHour   int       `db:"sim_hour" json:"sim_hour"`
	SimMinute int       `db:"sim_minute" json:"sim_minute"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Trade is one completed resource exchange.
type Trade struct {
	ID        string    `db:"id" json:"id"`
	Villager  string    `db:"villager" json:"villager"`
	Provider  string    `db:"provider" json:"provider"`
	Resource  string    `db:"resource" json:"resource"`
	Quantity  float64   `db:"quantity" json:"quantity"`
	SimHour   int       `db:"sim_hour" json:"sim_hour"`
	SimMinute int       `db:"sim_minute" json:"sim_minute"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SimTime reports the current in-game hour and minute for stamping entries.
type SimTime func() (hour, minute int)

// Journal wraps a SQLite connection for event narration.
type Journal struct {
	conn    *sqlx.DB
	simTime SimTime
}

// Open opens or creates a journal database at the given path.
func Open(path string, simTime SimTime) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{conn: conn, simTime: simTime}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		villager TEXT NOT NULL,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		sim_hour INTEGER NOT NULL,
		sim_minute INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		villager TEXT NOT NULL,
		provider TEXT NOT NULL,
		resource TEXT NOT NULL,
		quantity REAL NOT NULL,
		sim_hour INTEGER NOT NULL,
		sim_minute INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_villager ON entries(villager);
	CREATE INDEX IF NOT EXISTS idx_trades_villager ON trades(villager);
	`
	_, err := j.conn.Exec(schema)
	return err
}

func (j *Journal) stamp() (int, int) {
	if j.simTime == nil {
		return 0, 0
	}
	return j.simTime()
}

// Record stores one narrated event.
func (j *Journal) Record(villagerID, kind, message string) {
	hour, minute := j.stamp()
	_, err := j.conn.Exec(
		`INSERT INTO entries (id, villager, kind, message, sim_hour, sim_minute, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), villagerID, kind, message, hour, minute, time.Now().UTC(),
	)
	if err != nil {
		slog.Warn("journal write failed", "villager", villagerID, "kind", kind, "error", err)
	}
}

// RecordTrade stores one completed trade.
func (j *Journal) RecordTrade(villagerID, providerID, resource string, quantity float64) {
	hour, minute := j.stamp()
	_, err := j.conn.Exec(
		`INSERT INTO trades (id, villager, provider, resource, quantity, sim_hour, sim_minute, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), villagerID, providerID, resource, quantity, hour, minute, time.Now().UTC(),
	)
	if err != nil {
		slog.Warn("trade journal write failed", "villager", villagerID, "provider", providerID, "error", err)
	}
}

// Recent returns the newest entries, most recent first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := j.conn.Select(&entries,
		"SELECT * FROM entries ORDER BY created_at DESC LIMIT ?", limit)
	return entries, err
}

// RecentTrades returns the newest trades, most recent first.
func (j *Journal) RecentTrades(limit int) ([]Trade, error) {
	var trades []Trade
	err := j.conn.Select(&trades,
		"SELECT * FROM trades ORDER BY created_at DESC LIMIT ?", limit)
	return trades, err
}
