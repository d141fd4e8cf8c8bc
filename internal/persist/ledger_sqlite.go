package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteLedger is the file-backed ledger for local runs.
type SQLiteLedger struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the ledger database at path and applies
// migrations. ":memory:" keeps everything in process.
func OpenSQLite(ctx context.Context, path string) (*SQLiteLedger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty ledger path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	if err := migrate(ctx, db, "sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) Append(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledger begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sync_checksums (peer_id, cycle, checksum, units, seed)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (peer_id, cycle) DO UPDATE
		 SET checksum = excluded.checksum, units = excluded.units, seed = excluded.seed`)
	if err != nil {
		return fmt.Errorf("ledger prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.PeerID, int64(r.Cycle), int64(r.Checksum), r.Units, int64(r.Seed)); err != nil {
			return fmt.Errorf("ledger insert: %w", err)
		}
	}
	return tx.Commit()
}

func (l *SQLiteLedger) Checksums(ctx context.Context, peerID string) ([]Record, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT cycle, checksum, units, seed FROM sync_checksums
		 WHERE peer_id = ? ORDER BY cycle`, peerID)
	if err != nil {
		return nil, fmt.Errorf("ledger query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var cycle, sum, seed int64
		r := Record{PeerID: peerID}
		if err := rows.Scan(&cycle, &sum, &r.Units, &seed); err != nil {
			return nil, fmt.Errorf("ledger scan: %w", err)
		}
		r.Cycle, r.Checksum, r.Seed = uint64(cycle), uint32(sum), uint32(seed)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (l *SQLiteLedger) FirstDivergence(ctx context.Context, peerA, peerB string) (uint64, bool, error) {
	var cycle int64
	err := l.db.QueryRowContext(ctx, fmt.Sprintf(firstDivergenceQuery, "?", "?"), peerB, peerA).Scan(&cycle)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("ledger divergence: %w", err)
	}
	return uint64(cycle), true, nil
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
