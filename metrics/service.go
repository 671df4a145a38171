package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oasislabs/oasis-swapper/errors"
	"github.com/oasislabs/oasis-swapper/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// InstrumentationService is a background service used to expose the
// metrics collected by a running service.
type InstrumentationService interface {
	// StartInstrumentation starts instrumentation tracking for the calling service.
	StartInstrumentation(ctx context.Context)

	// StopInstrumentation stops instrumentation tracking for the calling service.
	StopInstrumentation(ctx context.Context)
}

// New constructs a new instrumentation service exposing the metrics
// gathered by the gatherer.
func New(config *MetricsConfig, gatherer prometheus.Gatherer, logger log.Logger) (InstrumentationService, error) {
	logger = logger.ForClass("metrics", "InstrumentationService")

	switch config.Mode {
	case metricsModeNone, "":
		return &stubService{}, nil
	case metricsModePull:
		return newPullService(config, gatherer, logger), nil
	case metricsModePush:
		return newPushService(config, gatherer, logger)
	default:
		return nil, fmt.Errorf("metrics: unsupported mode: '%v'", config.Mode)
	}
}

// A stub service is a stub instrumentation service.
type stubService struct{}

// StartInstrumentation implements the instrumentation service interface for stubService.
func (s *stubService) StartInstrumentation(ctx context.Context) {}

// StopInstrumentation implements the instrumentation service interface for stubService.
func (s *stubService) StopInstrumentation(ctx context.Context) {}

// A pull service is a service which exposes metrics that Prometheus can pull.
type pullService struct {
	// The HTTP server which hosts the Prometheus metrics endpoint.
	server *http.Server

	// A logger, for logging.
	logger log.Logger
}

func newPullService(config *MetricsConfig, gatherer prometheus.Gatherer, logger log.Logger) *pullService {
	return &pullService{
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%s", config.PullAddr, config.PullPort),
			Handler:        promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger: logger,
	}
}

// StartInstrumentation implements the instrumentation service interface for pullService.
func (s *pullService) StartInstrumentation(ctx context.Context) {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error(ctx, "metrics: pull server stopped", log.MapFields{
				"addr": s.server.Addr,
				"err":  err.Error(),
			})
		}
	}()
}

// StopInstrumentation implements the instrumentation service interface for pullService.
func (s *pullService) StopInstrumentation(ctx context.Context) {
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "metrics: failed to shutdown pull server", log.MapFields{
			"err": err.Error(),
		})
	}
}

// A push service is used to push metrics to Prometheus.
type pushService struct {
	// The pusher which pushes updates to Prometheus.
	pusher *push.Pusher

	// The frequency with which to push updates to Prometheus.
	interval time.Duration

	// Cancels the push worker.
	cancel context.CancelFunc

	// A logger, for logging.
	logger log.Logger
}

func newPushService(config *MetricsConfig, gatherer prometheus.Gatherer, logger log.Logger) (*pushService, error) {
	if config.PushInterval <= 0 {
		return nil, fmt.Errorf("metrics: push interval must be positive")
	}

	pusher := push.New(config.PushAddr, config.PushJobName).
		Grouping("instance", config.PushInstanceLabel).
		Gatherer(gatherer)

	return &pushService{
		pusher:   pusher,
		interval: config.PushInterval,
		logger:   logger,
	}, nil
}

// StartInstrumentation implements the instrumentation service interface for pushService.
func (s *pushService) StartInstrumentation(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.startWorker(ctx)
}

// StopInstrumentation implements the instrumentation service interface for pushService.
func (s *pushService) StopInstrumentation(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *pushService) startWorker(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-t.C:
			if err := s.pusher.PushContext(ctx); err != nil {
				s.logger.Error(ctx, "metrics: unable to push to prometheus",
					errors.New(errors.ErrPrometheusPush, err))
			}
		}
	}
}
