package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PGLedger is the Postgres ledger.
type PGLedger struct {
	db *DB
}

func NewPGLedger(db *DB) *PGLedger {
	return &PGLedger{db: db}
}

// Append writes the batch in a single transaction.
func (l *PGLedger) Append(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := l.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ledger begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range recs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO sync_checksums (peer_id, cycle, checksum, units, seed)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (peer_id, cycle) DO UPDATE
			 SET checksum = EXCLUDED.checksum, units = EXCLUDED.units, seed = EXCLUDED.seed`,
			r.PeerID, int64(r.Cycle), int64(r.Checksum), r.Units, int64(r.Seed),
		); err != nil {
			return fmt.Errorf("ledger insert: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (l *PGLedger) Checksums(ctx context.Context, peerID string) ([]Record, error) {
	rows, err := l.db.Pool.Query(ctx,
		`SELECT cycle, checksum, units, seed FROM sync_checksums
		 WHERE peer_id = $1 ORDER BY cycle`, peerID)
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

func (l *PGLedger) FirstDivergence(ctx context.Context, peerA, peerB string) (uint64, bool, error) {
	var cycle int64
	err := l.db.Pool.QueryRow(ctx, fmt.Sprintf(firstDivergenceQuery, "$1", "$2"), peerA, peerB).Scan(&cycle)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("ledger divergence: %w", err)
	}
	return uint64(cycle), true, nil
}

func (l *PGLedger) Close() error {
	l.db.Close()
	return nil
}
