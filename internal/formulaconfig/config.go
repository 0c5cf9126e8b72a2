// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

// Package formulaconfig loads and validates the formula core's
// configuration: a YAML-tagged struct with sane defaults, kingpin flags
// that override file settings, and a Validate step run on every load.
package formulaconfig

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	"github.com/smartwatts-project/smartwatts-formula/internal/engine"
	"github.com/smartwatts-project/smartwatts-formula/internal/topology"
)

// Flag names.
const (
	LogLevelFlag  = "log.level"
	LogFormatFlag = "log.format"

	RAPLEventFlag         = "formula.rapl-event"
	MinSamplesFlag        = "formula.min-samples-required"
	HistoryWindowFlag     = "formula.history-window-size"
	ScopeFlag             = "formula.scope"
	RealTimeModeFlag      = "formula.real-time-mode"
	ErrorThresholdFlag    = "formula.error-threshold-watts"
	ReportsFrequencyFlag  = "formula.reports-frequency"
	SocketDomainValueFlag = "formula.socket-domain-value"

	TopologyTDPFlag       = "formula.topology.tdp-watts"
	TopologyBaseClockFlag = "formula.topology.base-clock-mhz"
	TopologyRatioMinFlag  = "formula.topology.ratio-min"
	TopologyRatioBaseFlag = "formula.topology.ratio-base"
	TopologyRatioMaxFlag  = "formula.topology.ratio-max"
)

// Duration wraps time.Duration so it can be loaded from a human-readable
// YAML scalar such as "1s" or "500ms" (yaml.v3 has no built-in
// text-to-Duration conversion; without this the field only accepts a raw
// nanosecond integer).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var ns int64
	if err := unmarshal(&ns); err == nil {
		*d = Duration(ns)
		return nil
	}

	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("duration must be a string (e.g. \"1s\") or an integer number of nanoseconds")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Log configures the process-wide structured logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Topology mirrors topology.New's constructor arguments for YAML loading.
type Topology struct {
	TDPWatts    float64 `yaml:"tdp_watts"`
	BaseClock   int     `yaml:"base_clock_mhz"`
	RatioMin    int     `yaml:"ratio_min"`
	RatioBase   int     `yaml:"ratio_base"`
	RatioMax    int     `yaml:"ratio_max"`
}

// Formula carries every recognised formula engine configuration option.
type Formula struct {
	RAPLEvent           string   `yaml:"rapl_event"`
	MinSamplesRequired  int      `yaml:"min_samples_required"`
	HistoryWindowSize   int      `yaml:"history_window_size"`
	Topology            Topology `yaml:"cpu_topology"`
	Scope               string   `yaml:"scope"`
	RealTimeMode        bool     `yaml:"real_time_mode"`
	ErrorThresholdWatts float64  `yaml:"error_threshold_watts"`
	ReportsFrequency    Duration `yaml:"reports_frequency"`
	SocketDomainValue   string   `yaml:"socket_domain_value"`
}

// Config represents the complete application configuration.
type Config struct {
	Log     Log     `yaml:"log"`
	Formula Formula `yaml:"formula"`
}

// Default returns a Config with conservative defaults suitable for
// running against a real sensor out of the box.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info", Format: "text"},
		Formula: Formula{
			RAPLEvent:          "package",
			MinSamplesRequired: 5,
			HistoryWindowSize:  15,
			Topology: Topology{
				TDPWatts:  125,
				BaseClock: 100,
				RatioMin:  800,
				RatioBase: 2000,
				RatioMax:  3700,
			},
			Scope:               "cpu",
			RealTimeMode:        true,
			ErrorThresholdWatts: 5.0,
			ReportsFrequency:    Duration(time.Second),
			SocketDomainValue:   "0",
		},
	}
}

// Load loads configuration from an io.Reader, starting from Default().
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.sanitize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile loads configuration from a file path.
func FromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// ConfigUpdaterFn applies parsed kingpin flags onto a Config.
type ConfigUpdaterFn func(*Config) error

// RegisterFlags registers command-line flags with a kingpin app and
// returns a ConfigUpdaterFn that applies any flags the caller actually
// set, so flags only override the file when explicitly passed.
func RegisterFlags(app *kingpin.Application) ConfigUpdaterFn {
	flagsSet := map[string]bool{}

	app.PreAction(func(ctx *kingpin.ParseContext) error {
		flagsSet = map[string]bool{}
		for _, element := range ctx.Elements {
			if flag, ok := element.Clause.(*kingpin.FlagClause); ok && element.Value != nil {
				flagsSet[flag.Model().Name] = true
			}
		}
		return nil
	})

	logLevel := app.Flag(LogLevelFlag, "Logging level: debug, info, warn, error").Default("info").Enum("debug", "info", "warn", "error")
	logFormat := app.Flag(LogFormatFlag, "Logging format: text or json").Default("text").Enum("text", "json")

	raplEvent := app.Flag(RAPLEventFlag, "RAPL counter name used as the power reference").Default("package").String()
	minSamples := app.Flag(MinSamplesFlag, "History samples required before fitting a model").Default("5").Int()
	historyWindow := app.Flag(HistoryWindowFlag, "Per-model history ring capacity").Default("15").Int()
	scope := app.Flag(ScopeFlag, "Power domain to model: cpu or dram").Default("cpu").Enum("cpu", "dram")
	realTime := app.Flag(RealTimeModeFlag, "Use the real-time tick buffer threshold (2 vs 5 ticks)").Default("true").Bool()
	errorThreshold := app.Flag(ErrorThresholdFlag, "Watts gap above which a model is retrained").Default("5.0").Float64()
	reportsFreq := app.Flag(ReportsFrequencyFlag, "Sensor sampling period").Default("1s").Duration()
	socketDomain := app.Flag(SocketDomainValueFlag, "Socket id to read from every report").Default("0").String()

	tdpWatts := app.Flag(TopologyTDPFlag, "Socket TDP in Watts").Float64()
	baseClock := app.Flag(TopologyBaseClockFlag, "Base clock in MHz").Int()
	ratioMin := app.Flag(TopologyRatioMinFlag, "Minimum frequency ratio (x100)").Int()
	ratioBase := app.Flag(TopologyRatioBaseFlag, "Base frequency ratio (x100)").Int()
	ratioMax := app.Flag(TopologyRatioMaxFlag, "Maximum frequency ratio (x100)").Int()

	return func(cfg *Config) error {
		if flagsSet[LogLevelFlag] {
			cfg.Log.Level = *logLevel
		}
		if flagsSet[LogFormatFlag] {
			cfg.Log.Format = *logFormat
		}
		if flagsSet[RAPLEventFlag] {
			cfg.Formula.RAPLEvent = *raplEvent
		}
		if flagsSet[MinSamplesFlag] {
			cfg.Formula.MinSamplesRequired = *minSamples
		}
		if flagsSet[HistoryWindowFlag] {
			cfg.Formula.HistoryWindowSize = *historyWindow
		}
		if flagsSet[ScopeFlag] {
			cfg.Formula.Scope = *scope
		}
		if flagsSet[RealTimeModeFlag] {
			cfg.Formula.RealTimeMode = *realTime
		}
		if flagsSet[ErrorThresholdFlag] {
			cfg.Formula.ErrorThresholdWatts = *errorThreshold
		}
		if flagsSet[ReportsFrequencyFlag] {
			cfg.Formula.ReportsFrequency = Duration(*reportsFreq)
		}
		if flagsSet[SocketDomainValueFlag] {
			cfg.Formula.SocketDomainValue = *socketDomain
		}
		if flagsSet[TopologyTDPFlag] {
			cfg.Formula.Topology.TDPWatts = *tdpWatts
		}
		if flagsSet[TopologyBaseClockFlag] {
			cfg.Formula.Topology.BaseClock = *baseClock
		}
		if flagsSet[TopologyRatioMinFlag] {
			cfg.Formula.Topology.RatioMin = *ratioMin
		}
		if flagsSet[TopologyRatioBaseFlag] {
			cfg.Formula.Topology.RatioBase = *ratioBase
		}
		if flagsSet[TopologyRatioMaxFlag] {
			cfg.Formula.Topology.RatioMax = *ratioMax
		}

		cfg.sanitize()
		return cfg.Validate()
	}
}

func (c *Config) sanitize() {
	c.Log.Level = strings.TrimSpace(c.Log.Level)
	c.Log.Format = strings.TrimSpace(c.Log.Format)
	c.Formula.RAPLEvent = strings.TrimSpace(c.Formula.RAPLEvent)
	c.Formula.Scope = strings.TrimSpace(c.Formula.Scope)
	c.Formula.SocketDomainValue = strings.TrimSpace(c.Formula.SocketDomainValue)
}

// Validate checks for configuration errors in both Log and Formula.
func (c *Config) Validate() error {
	var errs []string

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s", c.Log.Format))
	}

	if engineCfg, err := c.EngineConfig(); err != nil {
		errs = append(errs, err.Error())
	} else if err := engineCfg.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, ", "))
	}
	return nil
}

// BuildTopology constructs a topology.CPU from the YAML-loaded fields.
func (c *Config) BuildTopology() (topology.CPU, error) {
	return topology.New(
		c.Formula.Topology.TDPWatts,
		c.Formula.Topology.BaseClock,
		c.Formula.Topology.RatioMin,
		c.Formula.Topology.RatioBase,
		c.Formula.Topology.RatioMax,
	)
}

// EngineConfig builds an engine.Config from the loaded Formula options.
func (c *Config) EngineConfig() (engine.Config, error) {
	cpu, err := c.BuildTopology()
	if err != nil {
		return engine.Config{}, err
	}

	return engine.Config{
		RAPLEvent:          c.Formula.RAPLEvent,
		MinSamplesRequired: c.Formula.MinSamplesRequired,
		HistoryWindowSize:  c.Formula.HistoryWindowSize,
		Topology:           cpu,
		Scope:              c.Formula.Scope,
		RealTimeMode:       c.Formula.RealTimeMode,
		ErrorThreshold:     c.Formula.ErrorThresholdWatts,
		ReportsFrequency:   time.Duration(c.Formula.ReportsFrequency),
		SocketDomainValue:  c.Formula.SocketDomainValue,
	}, nil
}

func (c *Config) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(b)
}
