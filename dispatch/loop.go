package dispatch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oasislabs/oasis-swapper/errors"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/oasislabs/oasis-swapper/metrics"
	"github.com/oasislabs/oasis-swapper/rollup"
	"github.com/prometheus/client_golang/prometheus"
)

// Finisher reports the verdict of the last request and retrieves
// the next one. It is implemented by rollup.Client
type Finisher interface {
	Finish(ctx context.Context, req rollup.FinishRequest) (*rollup.Request, error)
}

// AdvanceHandler handles advance requests
type AdvanceHandler interface {
	HandleAdvance(ctx context.Context, req *rollup.AdvanceRequest) (rollup.Status, errors.Err)
}

// InspectHandler handles inspect requests
type InspectHandler interface {
	HandleInspect(ctx context.Context, req *rollup.InspectRequest) (rollup.Status, errors.Err)
}

// SenderCapturer stores the address of the portal
type SenderCapturer interface {
	Capture(address common.Address) bool
	Get() (common.Address, bool)
}

// Services required by the Loop
type Services struct {
	Logger     log.Logger
	Registerer prometheus.Registerer
	Client     Finisher
	Advance    AdvanceHandler
	Inspect    InspectHandler
	Sender     SenderCapturer
}

// Deps are the instantiated dependencies of the Loop
type Deps struct {
	Logger  log.Logger
	Metrics *metrics.ServiceMetrics
	Client  Finisher
	Advance AdvanceHandler
	Inspect InspectHandler
	Sender  SenderCapturer
}

// NewLoop creates a new dispatch loop
func NewLoop(services *Services) *Loop {
	return NewLoopWithDeps(&Deps{
		Logger:  services.Logger,
		Metrics: metrics.NewDefaultServiceMetrics(services.Registerer, "swapper_dispatch"),
		Client:  services.Client,
		Advance: services.Advance,
		Inspect: services.Inspect,
		Sender:  services.Sender,
	})
}

// NewLoopWithDeps creates a new dispatch loop with the
// provided dependencies
func NewLoopWithDeps(deps *Deps) *Loop {
	state := AwaitingCapture
	if _, ok := deps.Sender.Get(); ok {
		state = Polling
	}

	return &Loop{
		logger:  deps.Logger.ForClass("dispatch", "Loop"),
		metrics: deps.Metrics,
		client:  deps.Client,
		advance: deps.Advance,
		inspect: deps.Inspect,
		sender:  deps.Sender,
		status:  rollup.StatusAccept,
		state:   state,
	}
}

// Loop drives the dapp. Every cycle it reports the verdict of the
// previous request, waits for the next one and hands it to the
// matching handler. Requests are processed one at a time and a Loop
// must not be used from multiple goroutines
type Loop struct {
	logger  log.Logger
	metrics *metrics.ServiceMetrics
	client  Finisher
	advance AdvanceHandler
	inspect InspectHandler
	sender  SenderCapturer

	status rollup.Status
	state  State
	cycle  int64
}

// Status returns the verdict that is reported on the next cycle
func (l *Loop) Status() rollup.Status {
	return l.status
}

// State returns the current state of the loop
func (l *Loop) State() State {
	return l.state
}

// Run runs cycles until the context is cancelled or a cycle fails.
// Cancellation is not an error
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info(ctx, "dispatch loop started", log.MapFields{
		"call_type": "RunStart",
		"state":     l.state.String(),
	})

	for {
		if ctx.Err() != nil {
			l.logger.Info(ctx, "dispatch loop stopped", log.MapFields{
				"call_type": "RunStop",
			})
			return nil
		}

		if err := l.Step(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}

			return err
		}
	}
}

// Step runs a single cycle. Only failures that prevent the loop from
// making progress are returned, a rejected request is not an error
func (l *Loop) Step(ctx context.Context) error {
	l.cycle++
	ctx = log.PutTraceID(ctx, l.cycle)

	l.logger.Debug(ctx, "sending finish", log.MapFields{
		"call_type": "StepAttempt",
		"status":    string(l.status),
		"state":     l.state.String(),
	})

	req, err := l.client.Finish(ctx, rollup.FinishRequest{Status: l.status})
	if err != nil {
		l.logger.Error(ctx, "failed to retrieve next request", log.MapFields{
			"call_type": "StepFailure",
			"err":       err.Error(),
		})
		return err
	}

	if req == nil {
		l.logger.Debug(ctx, "no pending rollup request, trying again", log.MapFields{
			"call_type": "StepNoRequest",
		})
		return nil
	}

	return l.dispatch(ctx, req)
}

func (l *Loop) dispatch(ctx context.Context, req *rollup.Request) error {
	if req.Advance != nil && req.Advance.Metadata != nil && req.Advance.Metadata.IsBootstrap() {
		l.capture(ctx, req.Advance.Metadata.MsgSender)
		return nil
	}

	prev := l.state
	l.state = Dispatching
	defer func() { l.state = prev }()

	timer := l.metrics.RequestTimer(string(req.Type))
	defer timer.ObserveDuration()

	var (
		status rollup.Status
		err    errors.Err
	)

	switch req.Type {
	case rollup.AdvanceState:
		advance := req.Advance
		if advance == nil {
			advance = &rollup.AdvanceRequest{}
		}
		status, err = l.advance.HandleAdvance(ctx, advance)
	case rollup.InspectState:
		inspect := req.Inspect
		if inspect == nil {
			inspect = &rollup.InspectRequest{}
		}
		status, err = l.inspect.HandleInspect(ctx, inspect)
	default:
		err := errors.New(errors.ErrUnknownRequestKind, fmt.Errorf("request type %q", req.Type))
		l.metrics.RequestCounter(string(req.Type), "fail", strconv.Itoa(err.ErrorCode.Code())).Inc()
		l.logger.Error(ctx, "no handler for request", log.MapFields{
			"call_type": "DispatchFailure",
		}, err)
		return err
	}

	cause := ""
	if code, ok := errors.CodeOf(err); ok {
		cause = strconv.Itoa(code.Code())
	}
	l.metrics.RequestCounter(string(req.Type), string(status), cause).Inc()

	l.logger.Info(ctx, "request handled", log.MapFields{
		"call_type":    "DispatchSuccess",
		"request_type": string(req.Type),
		"status":       string(status),
	})

	l.status = status
	return nil
}

func (l *Loop) capture(ctx context.Context, sender common.Address) {
	if !l.sender.Capture(sender) {
		trusted, _ := l.sender.Get()
		l.logger.Warn(ctx, "ignoring bootstrap input, portal address already captured", log.MapFields{
			"call_type":      "CaptureIgnored",
			"msg_sender":     sender.Hex(),
			"trusted_sender": trusted.Hex(),
		})
		return
	}

	l.state = Polling
	l.metrics.RequestCounter("capture", "success").Inc()
	l.logger.Info(ctx, "captured portal address", log.MapFields{
		"call_type":      "CaptureSuccess",
		"trusted_sender": sender.Hex(),
	})
}
