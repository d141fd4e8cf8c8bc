package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/stratago/simcore/internal/config"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	ConfigPath string
	Cycles     uint64
	Quiet      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "simcore",
		Short: "Deterministic unit action simulation",
		Long: `simcore advances a lockstep unit simulation cycle by cycle: every unit's
order queue is dispatched, periodic effects run once per second and a sync
checksum is folded after each unit so peers can detect desyncs.`,
		SilenceUsage: true,
	}

	defaultConfig := "config/simcore.toml"
	if p := os.Getenv("SIMCORE_CONFIG"); p != "" {
		defaultConfig = p
	}
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", defaultConfig, "config file")
	cmd.PersistentFlags().Uint64Var(&opts.Cycles, "cycles", 0, "cycles to simulate (0 = sim.max_cycles)")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "skip the startup banner")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newVerifyCommand(opts))
	cmd.AddCommand(newDiffCommand(opts))
	return cmd
}

// load reads the config and applies the command line overrides.
func (o *rootOptions) load() (*config.Config, error) {
	path := o.ConfigPath
	if _, err := os.Stat(path); os.IsNotExist(err) && !o.explicitConfig() {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.Cycles > 0 {
		cfg.Sim.MaxCycles = o.Cycles
	}
	return cfg, nil
}

func (o *rootOptions) explicitConfig() bool {
	return o.ConfigPath != "config/simcore.toml"
}
