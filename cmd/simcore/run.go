package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/session"
)

func newRunCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the configured scenario",
		Long: `Run the configured scenario for sim.max_cycles cycles, paced by
sim.tick_rate. SIGINT or SIGTERM stops the loop; pending ledger records are
written before exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd.Context(), root)
		},
	}
}

func runSim(parent context.Context, root *rootOptions) error {
	// 1. Load config
	cfg, err := root.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if !root.Quiet {
		printBanner(cfg.Sim.PeerID)
		printSection("setup")
	}

	// 3. Build the session: types, scenario, trace, ledger
	setupCtx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()
	s, err := session.New(setupCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if !root.Quiet {
		printStat("unit types", s.World().Types.Count())
		printStat("units", s.World().UnitCount())
		printStat("scheduled commands", s.Scenario().Scheduled())
		if s.Ledger() != nil {
			printOK(fmt.Sprintf("checksum ledger (%s)", cfg.Ledger.Driver))
		}
		if p := s.TracePath(); p != "" {
			printOK("trace " + p)
		}
		fmt.Println()
		printSection("running")
		printReady(fmt.Sprintf("%d cycles at %d cycles/s (tick: %s)", cfg.Sim.MaxCycles, cfg.Sim.CyclesPerSecond, cfg.Sim.TickRate))
		fmt.Println()
	}

	// 4. Game loop until done or signalled
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	runErr := s.Run(ctx, cfg.Sim.MaxCycles, cfg.Sim.TickRate)
	if errors.Is(runErr, context.Canceled) {
		log.Info("shutdown signal received", zap.Uint64("cycle", s.Cycle()))
		runErr = nil
	}

	st := s.Stats()
	log.Info("simulation stopped",
		zap.Uint64("cycles", s.Cycle()),
		zap.String("checksum", fmt.Sprintf("%08X", s.Checksum())),
		zap.Int("units", s.World().UnitCount()),
		zap.Int("killed", st.Killed),
		zap.Int("destroyed", st.Destroyed),
		zap.Int("hits", st.Hits),
		zap.Duration("elapsed", time.Since(start)),
	)

	closeCtx, cancelClose := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelClose()
	if err := s.Close(closeCtx); err != nil {
		log.Warn("close session", zap.Error(err))
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(os.Stdout, "%08X\n", s.Checksum())
	return nil
}
