package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/stratago/simcore/internal/core/system"
	"github.com/stratago/simcore/internal/persist"
	"github.com/stratago/simcore/internal/synchash"
	"github.com/stratago/simcore/internal/world"
)

// ChecksumSystem records the sync checksum into the ledger every interval
// cycles. Records are batched; a failed write is logged and dropped, the
// simulation never waits on it. Phase 5 (Persist).
type ChecksumSystem struct {
	world     *world.State
	hash      *synchash.Hash
	ledger    persist.Ledger
	peerID    string
	interval  uint64
	batchSize int
	pending   []persist.Record
	log       *zap.Logger
}

func NewChecksumSystem(ws *world.State, hash *synchash.Hash, ledger persist.Ledger, peerID string, interval uint64, batchSize int, log *zap.Logger) *ChecksumSystem {
	if interval == 0 {
		interval = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &ChecksumSystem{
		world:     ws,
		hash:      hash,
		ledger:    ledger,
		peerID:    peerID,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

func (s *ChecksumSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *ChecksumSystem) Update(cycle uint64) {
	if s.ledger == nil || cycle%s.interval != 0 {
		return
	}
	rec := persist.Record{
		PeerID:   s.peerID,
		Cycle:    cycle,
		Checksum: s.hash.Sum32(),
		Units:    s.world.UnitCount(),
	}
	if s.world.Rand != nil {
		rec.Seed = s.world.Rand.Seed()
	}
	s.pending = append(s.pending, rec)
	if len(s.pending) >= s.batchSize {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Flush(ctx)
	}
}

// Flush writes pending records now. Called for graceful shutdown.
func (s *ChecksumSystem) Flush(ctx context.Context) {
	if s.ledger == nil || len(s.pending) == 0 {
		return
	}
	if err := s.ledger.Append(ctx, s.pending); err != nil {
		s.log.Warn("checksum ledger write failed",
			zap.Int("records", len(s.pending)),
			zap.Uint64("first_cycle", s.pending[0].Cycle),
			zap.Error(err),
		)
	}
	s.pending = s.pending[:0]
}
