package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oasislabs/oasis-swapper/config"
	"github.com/oasislabs/oasis-swapper/dapp"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/spf13/pflag"
)

func main() {
	var cfg dapp.Config
	parser, err := config.Generate(&cfg)
	if err != nil {
		fmt.Println("failed to generate configuration parser: ", err.Error())
		os.Exit(1)
	}

	if err := parser.Parse(); err != nil {
		if e, ok := err.(config.ErrParseFlags); ok && e.Cause == pflag.ErrHelp {
			_ = parser.Usage()
			os.Exit(0)
		}

		fmt.Println("failed to configure service: ", err.Error())
		_ = parser.Usage()
		os.Exit(1)
	}

	logger := log.New(&cfg.LoggingConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "dapp started with configuration", &cfg)

	services, err := dapp.NewServices(&cfg, logger)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize services", log.MapFields{
			"err": err.Error(),
		})
	}

	services.Instrumentation.StartInstrumentation(ctx)

	err = dapp.NewLoop(services).Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	services.Instrumentation.StopInstrumentation(shutdownCtx)
	cancel()

	if err != nil {
		logger.Fatal(ctx, "dispatch loop failed", log.MapFields{
			"err": err.Error(),
		})
	}

	logger.Info(ctx, "dapp stopped", log.MapFields{})
}
