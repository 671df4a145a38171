// Package dapp wires together the components of the swapper dapp
package dapp

import (
	"fmt"

	"github.com/oasislabs/oasis-swapper/dispatch"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/oasislabs/oasis-swapper/metrics"
	"github.com/oasislabs/oasis-swapper/rollup"
	"github.com/oasislabs/oasis-swapper/swapper"
	"github.com/prometheus/client_golang/prometheus"
)

// Services are the instantiated components of the dapp
type Services struct {
	Logger          log.Logger
	Registry        *prometheus.Registry
	Instrumentation metrics.InstrumentationService
	Client          *rollup.Client
	Sender          *swapper.TrustedSender
	Deposit         *swapper.DepositHandler
	Inspect         *swapper.InspectHandler
}

// NewServices creates the services of the dapp from the configuration.
// All metrics are registered in a registry owned by the services
func NewServices(config *Config, logger log.Logger) (*Services, error) {
	registry := prometheus.NewRegistry()

	instrumentation, err := metrics.New(&config.MetricsConfig, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation service %s", err.Error())
	}

	client := rollup.NewClient(&rollup.Services{
		Logger:     logger,
		Registerer: registry,
	}, &rollup.Props{
		URL:             config.RollupConfig.URL,
		MaxResponseSize: config.RollupConfig.MaxResponseSize,
	})

	sender := &swapper.TrustedSender{}
	handlerServices := &swapper.Services{
		Logger:    logger,
		Publisher: client,
		Sender:    sender,
	}

	return &Services{
		Logger:          logger,
		Registry:        registry,
		Instrumentation: instrumentation,
		Client:          client,
		Sender:          sender,
		Deposit:         swapper.NewDepositHandler(handlerServices),
		Inspect:         swapper.NewInspectHandler(handlerServices),
	}, nil
}

// NewLoop creates the dispatch loop that drives the dapp
func NewLoop(services *Services) *dispatch.Loop {
	return dispatch.NewLoop(&dispatch.Services{
		Logger:     services.Logger,
		Registerer: services.Registry,
		Client:     services.Client,
		Advance:    services.Deposit,
		Inspect:    services.Inspect,
		Sender:     services.Sender,
	})
}
