package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"MarketLens/internal/model"
)

// SQLiteStore keeps one SQLite database file per ticker, so the
// one-file-per-key invariant holds for this engine too.
type SQLiteStore struct {
	dir string
}

// NewSQLiteStore creates the cache directory if needed.
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &SQLiteStore{dir: dir}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) path(ticker string) string {
	return filepath.Join(s.dir, ticker+".db")
}

func (s *SQLiteStore) open(ticker string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path(ticker))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			schema_version TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS prices (
			date      TEXT PRIMARY KEY,
			adj_close REAL NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ticker string) (*Entry, error) {
	if _, err := os.Stat(s.path(ticker)); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := s.open(ticker)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	e := &Entry{}
	if err := db.QueryRow(`SELECT schema_version FROM meta`).Scan(&e.SchemaVersion); err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	rows, err := db.Query(`SELECT date, adj_close FROM prices ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date  string
			price float64
		)
		if err := rows.Scan(&date, &price); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		d, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", date, err)
		}
		e.Series = append(e.Series, model.PricePoint{Date: d, AdjClose: price})
	}
	return e, rows.Err()
}

func (s *SQLiteStore) Save(ticker string, e *Entry) error {
	db, err := s.open(ticker)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM meta`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM prices`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO meta (schema_version) VALUES (?)`, e.SchemaVersion); err != nil {
		return err
	}
	for _, p := range e.Series {
		if _, err := tx.Exec(`INSERT INTO prices (date, adj_close) VALUES (?, ?)`,
			p.Date.Format(dateLayout), p.AdjClose); err != nil {
			return err
		}
	}
	return tx.Commit()
}
