// Package persist stores the sync checksum ledger: one row per peer and
// recorded cycle, so runs of the same scenario can be compared after the
// fact.
package persist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/config"
)

// Record is one ledger row.
type Record struct {
	PeerID   string
	Cycle    uint64
	Checksum uint32
	Units    int
	Seed     uint32
}

// Ledger persists checksum records.
type Ledger interface {
	// Append writes a batch atomically. Re-recording a cycle overwrites it.
	Append(ctx context.Context, recs []Record) error
	// Checksums returns a peer's records in cycle order.
	Checksums(ctx context.Context, peerID string) ([]Record, error)
	// FirstDivergence returns the first cycle both peers recorded with
	// different checksums.
	FirstDivergence(ctx context.Context, peerA, peerB string) (cycle uint64, found bool, err error)
	Close() error
}

// Open connects the configured ledger backend and applies migrations. An
// empty driver yields a nil Ledger and no error.
func Open(ctx context.Context, cfg config.LedgerConfig, log *zap.Logger) (Ledger, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "postgres":
		db, err := NewDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, err
		}
		return NewPGLedger(db), nil
	case "sqlite":
		l, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
}

const firstDivergenceQuery = `
SELECT a.cycle FROM sync_checksums a
JOIN sync_checksums b ON b.cycle = a.cycle AND b.peer_id = %[2]s
WHERE a.peer_id = %[1]s AND a.checksum <> b.checksum
ORDER BY a.cycle LIMIT 1`
