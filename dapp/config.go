package dapp

import (
	"github.com/oasislabs/oasis-swapper/config"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/oasislabs/oasis-swapper/metrics"
	"github.com/oasislabs/oasis-swapper/rollup"
)

// Config is the general application's configuration
type Config struct {
	RollupConfig  rollup.Config
	LoggingConfig log.Config
	MetricsConfig metrics.MetricsConfig
}

func (c *Config) Use() string {
	return "swapper"
}

func (c *Config) EnvPrefix() string {
	return "SWAPPER"
}

func (c *Config) Binders() []config.Binder {
	return []config.Binder{
		&c.RollupConfig,
		&c.LoggingConfig,
		&c.MetricsConfig,
	}
}

func (c *Config) Log(fields log.Fields) {
	c.RollupConfig.Log(fields)
	c.LoggingConfig.Log(fields)
	c.MetricsConfig.Log(fields)
}
