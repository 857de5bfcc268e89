package app

import (
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

const (
	flagMetricsEnabled       = "custody.metrics-enabled"
	flagSlowEndBlockMs       = "custody.slow-endblock-ms"
	flagInvariantCheckPeriod = "custody.invariant-check-period"
)

// CustodyConfig holds the [custody] section of app.toml
type CustodyConfig struct {
	// MetricsEnabled registers the custody collectors and serves them at
	// /custody/metrics on the API server
	MetricsEnabled bool `mapstructure:"metrics-enabled"`

	// SlowEndBlockMs is the EndBlocker latency above which a warning is logged
	SlowEndBlockMs int64 `mapstructure:"slow-endblock-ms"`

	// InvariantCheckPeriod asserts the custody invariants every N blocks. Zero
	// disables the check.
	InvariantCheckPeriod int64 `mapstructure:"invariant-check-period"`
}

// DefaultCustodyConfig returns the settings used when app.toml has no
// [custody] section
func DefaultCustodyConfig() CustodyConfig {
	return CustodyConfig{
		MetricsEnabled:       true,
		SlowEndBlockMs:       100,
		InvariantCheckPeriod: 0,
	}
}

// CustodyConfigTemplate is appended to the server app.toml template
const CustodyConfigTemplate = `
###############################################################################
###                           Custody Configuration                        ###
###############################################################################

[custody]

# Register the vault, stake pool and lending collectors and serve them on the
# API server at /custody/metrics.
metrics-enabled = {{ .Custody.MetricsEnabled }}

# EndBlocker latency in milliseconds above which a warning is logged.
slow-endblock-ms = {{ .Custody.SlowEndBlockMs }}

# Assert the conservation invariants every N blocks (0 disables).
invariant-check-period = {{ .Custody.InvariantCheckPeriod }}
`

// ReadCustodyConfig reads the [custody] section from the app options,
// falling back to the defaults for keys that are not set
func ReadCustodyConfig(appOpts servertypes.AppOptions) CustodyConfig {
	cfg := DefaultCustodyConfig()
	if appOpts == nil {
		return cfg
	}

	if v := appOpts.Get(flagMetricsEnabled); v != nil {
		cfg.MetricsEnabled = cast.ToBool(v)
	}
	if v := appOpts.Get(flagSlowEndBlockMs); v != nil {
		cfg.SlowEndBlockMs = cast.ToInt64(v)
	}
	if v := appOpts.Get(flagInvariantCheckPeriod); v != nil {
		cfg.InvariantCheckPeriod = cast.ToInt64(v)
	}
	return cfg
}

// AddCustodyFlags registers the [custody] settings as start command flags
func AddCustodyFlags(startCmd *cobra.Command) {
	defaults := DefaultCustodyConfig()
	startCmd.Flags().Bool(flagMetricsEnabled, defaults.MetricsEnabled, "Serve custody metrics at /custody/metrics")
	startCmd.Flags().Int64(flagSlowEndBlockMs, defaults.SlowEndBlockMs, "EndBlocker latency in ms above which a warning is logged")
	startCmd.Flags().Int64(flagInvariantCheckPeriod, defaults.InvariantCheckPeriod, "Assert the custody invariants every N blocks (0 disables)")
}
