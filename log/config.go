package log

import (
	"github.com/oasislabs/oasis-swapper/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cfgLoggingLevel = "logging.level"

var levels = []string{"debug", "info", "warn", "error"}

// Config holds the configuration of the root logger
type Config struct {
	Level string
}

func (c *Config) Log(fields Fields) {
	fields.Add(cfgLoggingLevel, c.Level)
}

func (c *Config) Configure(v *viper.Viper) error {
	c.Level = v.GetString(cfgLoggingLevel)
	if len(c.Level) == 0 {
		c.Level = "info"
	}

	for _, level := range levels {
		if c.Level == level {
			return nil
		}
	}

	return config.ErrInvalidValue{
		Key:          cfgLoggingLevel,
		InvalidValue: c.Level,
		Values:       levels,
	}
}

func (c *Config) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(cfgLoggingLevel, "info",
		"sets the minimum logging level for the logger. One of debug, info, warn, error")
	return nil
}
