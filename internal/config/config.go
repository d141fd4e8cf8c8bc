package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Data    DataConfig    `toml:"data"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Trace   TraceConfig   `toml:"trace"`
	Logging LoggingConfig `toml:"logging"`
}

type SimConfig struct {
	CyclesPerSecond int           `toml:"cycles_per_second" env:"SIMCORE_CYCLES_PER_SECOND"`
	Seed            uint32        `toml:"seed" env:"SIMCORE_SEED"`
	TickRate        time.Duration `toml:"tick_rate" env:"SIMCORE_TICK_RATE"` // 0 = run unthrottled
	MaxCycles       uint64        `toml:"max_cycles" env:"SIMCORE_MAX_CYCLES"`
	PeerID          string        `toml:"peer_id" env:"SIMCORE_PEER_ID"` // generated when empty
}

type DataConfig struct {
	UnitTypes string `toml:"unit_types" env:"SIMCORE_UNIT_TYPES"`
	Scenario  string `toml:"scenario" env:"SIMCORE_SCENARIO"`
}

type LedgerConfig struct {
	Driver          string        `toml:"driver" env:"SIMCORE_LEDGER_DRIVER"` // "", "postgres" or "sqlite"
	DSN             string        `toml:"dsn" env:"SIMCORE_LEDGER_DSN"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	RecordInterval  uint64        `toml:"record_interval" env:"SIMCORE_LEDGER_INTERVAL"` // cycles between rows
	BatchSize       int           `toml:"batch_size"`
}

type TraceConfig struct {
	Enabled bool   `toml:"enabled" env:"SIMCORE_TRACE"`
	Dir     string `toml:"dir" env:"SIMCORE_TRACE_DIR"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"SIMCORE_LOG_LEVEL"`
	Format string `toml:"format" env:"SIMCORE_LOG_FORMAT"` // "json" or "console"
}

// Load reads the TOML file at path over the defaults, then applies SIMCORE_*
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Sim.PeerID == "" {
		cfg.Sim.PeerID = uuid.NewString()
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sim.CyclesPerSecond <= 0 {
		return fmt.Errorf("sim.cycles_per_second must be positive, got %d", c.Sim.CyclesPerSecond)
	}
	switch c.Ledger.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("ledger.driver %q: must be postgres, sqlite or empty", c.Ledger.Driver)
	}
	if c.Ledger.Driver != "" && c.Ledger.DSN == "" {
		return fmt.Errorf("ledger.dsn is required for driver %s", c.Ledger.Driver)
	}
	if c.Ledger.RecordInterval == 0 {
		c.Ledger.RecordInterval = 1
	}
	return nil
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			CyclesPerSecond: 30,
			Seed:            0x1234,
			TickRate:        0,
			MaxCycles:       3000,
		},
		Data: DataConfig{
			UnitTypes: "data/yaml/unit_types.yaml",
			Scenario:  "scripts/scenario.lua",
		},
		Ledger: LedgerConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			RecordInterval:  30,
			BatchSize:       64,
		},
		Trace: TraceConfig{
			Enabled: false,
			Dir:     "trace",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
