package rollup

import (
	"net/url"

	"github.com/oasislabs/oasis-swapper/config"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	cfgRollupHttpServerURL   = "rollup.http_server_url"
	cfgRollupMaxResponseSize = "rollup.max_response_bytes"

	// EnvRollupHttpServerURL is the environment variable set by the
	// rollup machine with the address of the rollup http server
	EnvRollupHttpServerURL = "ROLLUP_HTTP_SERVER_URL"

	defaultMaxResponseSize = 1 << 24
)

// Config is the configuration of the rollup http server client
type Config struct {
	URL             string
	MaxResponseSize int64
}

func (c *Config) Log(fields log.Fields) {
	fields.Add(cfgRollupHttpServerURL, c.URL)
	fields.Add(cfgRollupMaxResponseSize, c.MaxResponseSize)
}

func (c *Config) Configure(v *viper.Viper) error {
	c.URL = v.GetString(cfgRollupHttpServerURL)
	if len(c.URL) == 0 {
		return config.ErrKeyNotSet{Key: cfgRollupHttpServerURL}
	}

	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || len(u.Host) == 0 {
		return config.ErrInvalidValue{
			Key:          cfgRollupHttpServerURL,
			InvalidValue: c.URL,
			Values:       []string{"http://<host>[:port]", "https://<host>[:port]"},
		}
	}

	c.MaxResponseSize = v.GetInt64(cfgRollupMaxResponseSize)
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = defaultMaxResponseSize
	}

	return nil
}

func (c *Config) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String(cfgRollupHttpServerURL, "",
		"url of the rollup http server. Also read from "+EnvRollupHttpServerURL)
	cmd.PersistentFlags().Int64(cfgRollupMaxResponseSize, defaultMaxResponseSize,
		"maximum number of bytes accepted in a response from the rollup http server")

	// the rollup machine exposes the server url without the application
	// prefix. The prefixed variable still takes precedence through
	// viper's automatic env
	return v.BindEnv(cfgRollupHttpServerURL, EnvRollupHttpServerURL)
}
