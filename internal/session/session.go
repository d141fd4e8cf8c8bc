// Package session assembles one simulation run: unit types, world state,
// the phase runner with its systems, the scenario engine and the optional
// trace and ledger outputs.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/config"
	"github.com/stratago/simcore/internal/core/event"
	coresys "github.com/stratago/simcore/internal/core/system"
	"github.com/stratago/simcore/internal/data"
	"github.com/stratago/simcore/internal/persist"
	"github.com/stratago/simcore/internal/scripting"
	"github.com/stratago/simcore/internal/synchash"
	"github.com/stratago/simcore/internal/system"
	"github.com/stratago/simcore/internal/trace"
	"github.com/stratago/simcore/internal/world"
)

// Stats counts what happened during the run, fed by the event bus.
type Stats struct {
	Killed    int
	Destroyed int
	Hits      int
	Revealed  int
}

// Session owns every piece of one run. Not safe for concurrent use.
type Session struct {
	cfg       *config.Config
	world     *world.State
	hash      *synchash.Hash
	runner    *coresys.Runner
	action    *system.ActionSystem
	checksums *system.ChecksumSystem
	scenario  *scripting.Engine
	ledger    persist.Ledger
	sink      *trace.FileSink

	cycle uint64
	stats Stats
	log   *zap.Logger
}

// New loads the unit types named in the config and builds a session.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Session, error) {
	types, err := data.LoadUnitTypes(cfg.Data.UnitTypes)
	if err != nil {
		return nil, err
	}
	return NewWithTypes(ctx, cfg, types, log)
}

// NewWithTypes builds a session over an already loaded type table. The
// scenario file, when configured, runs before the first cycle.
func NewWithTypes(ctx context.Context, cfg *config.Config, types *data.Table, log *zap.Logger) (*Session, error) {
	s := &Session{
		cfg:  cfg,
		hash: synchash.New(0),
		log:  log.With(zap.String("peer", cfg.Sim.PeerID)),
	}
	bus := event.NewBus()
	s.world = world.NewState(types, synchash.NewRand(cfg.Sim.Seed), bus, s.log)
	s.subscribe(bus)

	var sink trace.Sink = trace.Nop{}
	if cfg.Trace.Enabled {
		fs, err := trace.NewFileSink(cfg.Trace.Dir, cfg.Sim.PeerID)
		if err != nil {
			return nil, err
		}
		s.sink = fs
		sink = fs
	}

	ledger, err := persist.Open(ctx, cfg.Ledger, s.log)
	if err != nil {
		s.closeOutputs()
		return nil, fmt.Errorf("ledger: %w", err)
	}
	s.ledger = ledger

	s.scenario = scripting.NewEngine(s.world, s.log)
	if cfg.Data.Scenario != "" {
		if err := s.scenario.LoadFile(cfg.Data.Scenario); err != nil {
			s.scenario.Close()
			s.closeOutputs()
			return nil, err
		}
	}

	s.action = system.NewActionSystem(s.world, s.hash, sink, cfg.Sim.CyclesPerSecond, s.log)
	s.checksums = system.NewChecksumSystem(s.world, s.hash, ledger, cfg.Sim.PeerID,
		cfg.Ledger.RecordInterval, cfg.Ledger.BatchSize, s.log)

	s.runner = coresys.NewRunner()
	s.runner.Register(system.NewInputSystem(s.scenario, s.log))
	s.runner.Register(system.NewEventSystem(bus))
	s.runner.Register(s.action)
	s.runner.Register(s.checksums)
	s.runner.Register(system.NewCleanupSystem(s.world.ECS()))
	return s, nil
}

func (s *Session) subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(event.UnitKilled) { s.stats.Killed++ })
	event.Subscribe(bus, func(event.UnitDestroyed) { s.stats.Destroyed++ })
	event.Subscribe(bus, func(event.UnitHit) { s.stats.Hits++ })
	event.Subscribe(bus, func(event.UnitRevealed) { s.stats.Revealed++ })
}

// Step simulates one cycle and returns the checksum after it.
func (s *Session) Step() uint32 {
	s.runner.Tick(s.cycle)
	s.cycle++
	return s.hash.Sum32()
}

// Run simulates n cycles, or until ctx is done. A positive tick paces the
// cycles in real time.
func (s *Session) Run(ctx context.Context, n uint64, tick time.Duration) error {
	var ticker *time.Ticker
	if tick > 0 {
		ticker = time.NewTicker(tick)
		defer ticker.Stop()
	}
	for i := uint64(0); i < n; i++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		s.Step()
	}
	return nil
}

// Cycle returns the next cycle to simulate.
func (s *Session) Cycle() uint64 { return s.cycle }

// Checksum returns the sync checksum so far.
func (s *Session) Checksum() uint32 { return s.hash.Sum32() }

func (s *Session) Stats() Stats { return s.stats }

func (s *Session) World() *world.State { return s.world }

func (s *Session) Scenario() *scripting.Engine { return s.scenario }

// Hooks exposes the AI and animation entry points.
func (s *Session) Hooks() *system.Hooks { return s.action.Hooks() }

// Ledger returns the checksum ledger, nil when none is configured.
func (s *Session) Ledger() persist.Ledger { return s.ledger }

// TracePath returns the trace file, empty when tracing is off.
func (s *Session) TracePath() string {
	if s.sink == nil {
		return ""
	}
	return s.sink.Path()
}

// Close flushes pending checksum records, then releases the ledger, the
// trace file and the Lua VM.
func (s *Session) Close(ctx context.Context) error {
	s.checksums.Flush(ctx)
	s.scenario.Close()
	return s.closeOutputs()
}

func (s *Session) closeOutputs() error {
	var errs []error
	if s.ledger != nil {
		if err := s.ledger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ledger: %w", err))
		}
		s.ledger = nil
	}
	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace: %w", err))
		}
	}
	return errors.Join(errs...)
}
