package metrics

import (
	"io/ioutil"
	"testing"

	"github.com/oasislabs/oasis-swapper/config"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

var Logger = log.NewLogrus(log.LogrusLoggerProperties{
	Output: ioutil.Discard,
})

func configure(t *testing.T, args ...string) (*MetricsConfig, error) {
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	c := &MetricsConfig{}

	assert.Nil(t, c.Bind(v, cmd))
	assert.Nil(t, v.BindPFlags(cmd.PersistentFlags()))
	assert.Nil(t, cmd.PersistentFlags().Parse(args))

	return c, c.Configure(v)
}

func TestConfigureDefaults(t *testing.T) {
	c, err := configure(t)

	assert.Nil(t, err)
	assert.Equal(t, "none", c.Mode)
	assert.Equal(t, "7000", c.PullPort)
}

func TestConfigureInvalidMode(t *testing.T) {
	_, err := configure(t, "--metrics.mode", "poll")

	_, ok := err.(config.ErrInvalidValue)
	assert.True(t, ok)
}

func TestConfigurePushRequiresAddr(t *testing.T) {
	_, err := configure(t, "--metrics.mode", "push",
		"--metrics.push.job_name", "swapper",
		"--metrics.push.instance_label", "local")

	assert.Equal(t, config.ErrKeyNotSet{Key: "metrics.push.addr"}, err)
}

func TestNewService(t *testing.T) {
	s, err := New(&MetricsConfig{Mode: "none"}, prometheus.NewRegistry(), Logger)
	assert.Nil(t, err)
	assert.IsType(t, &stubService{}, s)

	s, err = New(&MetricsConfig{Mode: "pull", PullAddr: "127.0.0.1", PullPort: "0"}, prometheus.NewRegistry(), Logger)
	assert.Nil(t, err)
	assert.IsType(t, &pullService{}, s)

	_, err = New(&MetricsConfig{Mode: "push", PushAddr: "http://127.0.0.1:9091",
		PushJobName: "swapper", PushInstanceLabel: "local"}, prometheus.NewRegistry(), Logger)
	assert.Error(t, err)

	_, err = New(&MetricsConfig{Mode: "other"}, prometheus.NewRegistry(), Logger)
	assert.Error(t, err)
}
