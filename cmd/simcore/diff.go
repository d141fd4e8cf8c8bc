package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratago/simcore/internal/persist"
)

func newDiffCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <peer-a> <peer-b>",
		Short: "Find the first recorded cycle where two peers disagree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), root, args[0], args[1])
		},
	}
}

func runDiff(parent context.Context, root *rootOptions, peerA, peerB string) error {
	cfg, err := root.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Ledger.Driver == "" {
		return fmt.Errorf("diff needs a ledger: set ledger.driver")
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()
	ledger, err := persist.Open(ctx, cfg.Ledger, log)
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	defer ledger.Close()

	cycle, found, err := ledger.FirstDivergence(ctx, peerA, peerB)
	if err != nil {
		return err
	}
	if !found {
		log.Info("peers agree on every common cycle", zap.String("a", peerA), zap.String("b", peerB))
		return nil
	}
	return fmt.Errorf("%s and %s diverged at cycle %d", peerA, peerB, cycle)
}
