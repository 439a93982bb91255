package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// SQLiteRecorder persists portfolio history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			currency         TEXT,
			total_invested   REAL,
			total_value      REAL,
			total_profit     REAL,
			total_return_pct REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON portfolio_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS holding_valuations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			quantity    REAL,
			price       REAL,
			value       REAL,
			invested    REAL,
			profit      REAL,
			return_pct  REAL,
			change_24h  REAL,
			priced      INTEGER,
			FOREIGN KEY (snapshot_id) REFERENCES portfolio_snapshots(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_valuations_snapshot ON holding_valuations(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_valuations_symbol ON holding_valuations(symbol)`,

		`CREATE TABLE IF NOT EXISTS refresh_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			duration_ms INTEGER,
			fetched     INTEGER,
			empty       INTEGER,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_log(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSnapshot stores the totals row and one valuation row per
// holding, atomically.
func (r *SQLiteRecorder) RecordSnapshot(snap *model.PortfolioSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO portfolio_snapshots
		(timestamp, currency, total_invested, total_value, total_profit, total_return_pct)
		VALUES (?,?,?,?,?,?)`,
		snap.GeneratedAt.Unix(), snap.Currency,
		snap.TotalInvested.InexactFloat64(), snap.TotalValue.InexactFloat64(),
		snap.TotalProfit.InexactFloat64(), snap.TotalReturnPct.InexactFloat64(),
	)
	if err != nil {
		return err
	}
	snapID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, row := range snap.Rows {
		priced := 0
		if row.Priced {
			priced = 1
		}
		if _, err := tx.Exec(`INSERT INTO holding_valuations
			(snapshot_id, symbol, quantity, price, value, invested, profit, return_pct, change_24h, priced)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			snapID, row.Symbol, row.Quantity,
			row.Price.InexactFloat64(), row.Value.InexactFloat64(),
			row.Invested.InexactFloat64(), row.ProfitEUR.InexactFloat64(),
			row.ReturnPct.InexactFloat64(), row.Change24h.InexactFloat64(), priced,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordRefresh appends one refresh outcome row.
func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_log
		(timestamp, duration_ms, fetched, empty, failed)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Duration.Milliseconds(),
		evt.Fetched, evt.Empty, evt.Failed,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
