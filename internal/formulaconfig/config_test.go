// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package formulaconfig

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validYAML() string {
	return `
log:
  level: debug
  format: json
formula:
  rapl_event: package
  min_samples_required: 3
  history_window_size: 10
  cpu_topology:
    tdp_watts: 125
    base_clock_mhz: 100
    ratio_min: 800
    ratio_base: 2000
    ratio_max: 3700
  scope: cpu
  real_time_mode: true
  error_threshold_watts: 4.5
  reports_frequency: 2s
  socket_domain_value: "0"
`
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(strings.NewReader(validYAML()))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Formula.MinSamplesRequired)
	assert.Equal(t, 125.0, cfg.Formula.Topology.TDPWatts)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.Formula.ReportsFrequency))
}

func TestReportsFrequencyRejectsUnparseableDuration(t *testing.T) {
	yaml := strings.Replace(validYAML(), "reports_frequency: 2s", "reports_frequency: not-a-duration", 1)
	_, err := Load(strings.NewReader(yaml))
	require.Error(t, err)
}

func TestReportsFrequencyAcceptsNanosecondInteger(t *testing.T) {
	yaml := strings.Replace(validYAML(), "reports_frequency: 2s", "reports_frequency: 500000000", 1)
	cfg, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, time.Duration(cfg.Formula.ReportsFrequency))
}

func TestLoadInvalidYAMLRejected(t *testing.T) {
	_, err := Load(strings.NewReader("formula: [this is not a mapping"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidateRejectsInvalidTopology(t *testing.T) {
	cfg := Default()
	cfg.Formula.Topology.TDPWatts = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cpu topology")
}

func TestEngineConfigBuildsFromFormula(t *testing.T) {
	cfg, err := Load(strings.NewReader(validYAML()))
	require.NoError(t, err)

	engineCfg, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, "package", engineCfg.RAPLEvent)
	assert.Equal(t, 3, engineCfg.MinSamplesRequired)
	assert.Equal(t, 125.0, engineCfg.Topology.TDPWatts())
	assert.Equal(t, 2*time.Second, engineCfg.ReportsFrequency)
}

func TestRegisterFlagsOverridesOnlyExplicitFlags(t *testing.T) {
	app := kingpin.New("test", "")
	update := RegisterFlags(app)

	_, err := app.Parse([]string{"--formula.min-samples-required=7"})
	require.NoError(t, err)

	cfg := Default()
	require.NoError(t, update(cfg))

	assert.Equal(t, 7, cfg.Formula.MinSamplesRequired)
	assert.Equal(t, "package", cfg.Formula.RAPLEvent, "unset flags must not override the loaded config")
}

func TestStringIsValidYAML(t *testing.T) {
	cfg := Default()
	out := cfg.String()
	assert.Contains(t, out, "rapl_event")
}
