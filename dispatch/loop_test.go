package dispatch

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oasislabs/oasis-swapper/errors"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/oasislabs/oasis-swapper/rollup"
	"github.com/oasislabs/oasis-swapper/rollup/rolluptest"
	"github.com/oasislabs/oasis-swapper/swapper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var Context = context.TODO()

var Logger = log.NewLogrus(log.LogrusLoggerProperties{
	Output: ioutil.Discard,
})

var (
	Portal = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	Other  = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

type MockHandler struct {
	mock.Mock
}

func (h *MockHandler) HandleAdvance(ctx context.Context, req *rollup.AdvanceRequest) (rollup.Status, errors.Err) {
	args := h.Called(ctx, req)
	if args.Get(1) != nil {
		return args.Get(0).(rollup.Status), args.Get(1).(errors.Err)
	}

	return args.Get(0).(rollup.Status), nil
}

func (h *MockHandler) HandleInspect(ctx context.Context, req *rollup.InspectRequest) (rollup.Status, errors.Err) {
	args := h.Called(ctx, req)
	if args.Get(1) != nil {
		return args.Get(0).(rollup.Status), args.Get(1).(errors.Err)
	}

	return args.Get(0).(rollup.Status), nil
}

type fixture struct {
	client  *rolluptest.MockClient
	handler *MockHandler
	sender  *swapper.TrustedSender
	loop    *Loop
}

func newFixture() *fixture {
	client := &rolluptest.MockClient{}
	handler := &MockHandler{}
	sender := &swapper.TrustedSender{}

	return &fixture{
		client:  client,
		handler: handler,
		sender:  sender,
		loop: NewLoop(&Services{
			Logger:     Logger,
			Registerer: prometheus.NewRegistry(),
			Client:     client,
			Advance:    handler,
			Inspect:    handler,
			Sender:     sender,
		}),
	}
}

func finishWith(status rollup.Status) rollup.FinishRequest {
	return rollup.FinishRequest{Status: status}
}

func advance(sender common.Address, epoch, input uint64) *rollup.Request {
	return &rollup.Request{
		Type: rollup.AdvanceState,
		Advance: &rollup.AdvanceRequest{
			Metadata: &rollup.Metadata{
				MsgSender:  sender,
				EpochIndex: epoch,
				InputIndex: input,
			},
			Payload: "0x",
		},
	}
}

func inspect() *rollup.Request {
	return &rollup.Request{
		Type:    rollup.InspectState,
		Inspect: &rollup.InspectRequest{Payload: "0x01"},
	}
}

func TestNewLoop(t *testing.T) {
	f := newFixture()

	assert.Equal(t, rollup.StatusAccept, f.loop.Status())
	assert.Equal(t, AwaitingCapture, f.loop.State())
}

func TestNewLoopCapturedSender(t *testing.T) {
	sender := &swapper.TrustedSender{}
	sender.Capture(Portal)

	loop := NewLoop(&Services{
		Logger:     Logger,
		Registerer: prometheus.NewRegistry(),
		Client:     &rolluptest.MockClient{},
		Advance:    &MockHandler{},
		Inspect:    &MockHandler{},
		Sender:     sender,
	})

	assert.Equal(t, Polling, loop.State())
}

func TestStepNoPendingRequest(t *testing.T) {
	f := newFixture()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(nil, nil)

	assert.Nil(t, f.loop.Step(Context))
	assert.Nil(t, f.loop.Step(Context))

	f.client.AssertNumberOfCalls(t, "Finish", 2)
	f.handler.AssertNotCalled(t, "HandleAdvance", mock.Anything, mock.Anything)
	assert.Equal(t, rollup.StatusAccept, f.loop.Status())
}

func TestStepCapturesPortal(t *testing.T) {
	f := newFixture()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(advance(Portal, 0, 0), nil)

	err := f.loop.Step(Context)

	assert.Nil(t, err)
	address, ok := f.sender.Get()
	assert.True(t, ok)
	assert.Equal(t, Portal, address)
	assert.Equal(t, rollup.StatusAccept, f.loop.Status())
	assert.Equal(t, Polling, f.loop.State())
	f.handler.AssertNotCalled(t, "HandleAdvance", mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "Notice", mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "Voucher", mock.Anything, mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "Report", mock.Anything, mock.Anything)
}

func TestStepCaptureIsIdempotent(t *testing.T) {
	f := newFixture()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(advance(Portal, 0, 0), nil).Once()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(advance(Other, 0, 0), nil).Once()

	assert.Nil(t, f.loop.Step(Context))
	assert.Nil(t, f.loop.Step(Context))

	address, ok := f.sender.Get()
	assert.True(t, ok)
	assert.Equal(t, Portal, address)
	f.handler.AssertNotCalled(t, "HandleAdvance", mock.Anything, mock.Anything)
}

func TestStepCaptureKeepsVerdict(t *testing.T) {
	f := newFixture()
	f.sender.Capture(Portal)
	req := advance(Portal, 0, 1)
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(req, nil).Once()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusReject)).Return(advance(Other, 0, 0), nil).Once()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusReject)).Return(nil, nil).Once()
	f.handler.On("HandleAdvance", mock.Anything, req.Advance).
		Return(rollup.StatusReject, errors.New(errors.ErrInvalidHeader, nil))

	assert.Nil(t, f.loop.Step(Context))
	assert.Nil(t, f.loop.Step(Context))
	assert.Nil(t, f.loop.Step(Context))

	assert.Equal(t, rollup.StatusReject, f.loop.Status())
	f.client.AssertExpectations(t)
}

func TestStepVerdictIsReportedOnNextCycle(t *testing.T) {
	f := newFixture()
	f.sender.Capture(Portal)
	rejected := advance(Other, 0, 1)
	accepted := advance(Portal, 0, 2)
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(rejected, nil).Once()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusReject)).Return(accepted, nil).Once()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(nil, nil).Once()
	f.handler.On("HandleAdvance", mock.Anything, rejected.Advance).
		Return(rollup.StatusReject, errors.New(errors.ErrUntrustedSender, nil))
	f.handler.On("HandleAdvance", mock.Anything, accepted.Advance).Return(rollup.StatusAccept, nil)

	assert.Nil(t, f.loop.Step(Context))
	assert.Equal(t, rollup.StatusReject, f.loop.Status())
	assert.Nil(t, f.loop.Step(Context))
	assert.Equal(t, rollup.StatusAccept, f.loop.Status())
	assert.Nil(t, f.loop.Step(Context))

	f.client.AssertExpectations(t)
	assert.Equal(t, float64(1), testutil.ToFloat64(
		f.loop.metrics.RequestCounter("advance_state", "reject", "2001")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		f.loop.metrics.RequestCounter("advance_state", "accept", "")))
}

func TestStepAdvanceBeforeCapture(t *testing.T) {
	f := newFixture()
	req := advance(Other, 1, 3)
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(req, nil)
	f.handler.On("HandleAdvance", mock.Anything, req.Advance).
		Return(rollup.StatusReject, errors.New(errors.ErrUntrustedSender, nil))

	err := f.loop.Step(Context)

	assert.Nil(t, err)
	assert.Equal(t, rollup.StatusReject, f.loop.Status())
	assert.Equal(t, AwaitingCapture, f.loop.State())
	_, ok := f.sender.Get()
	assert.False(t, ok)
}

func TestStepInspect(t *testing.T) {
	f := newFixture()
	req := inspect()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(req, nil)
	f.handler.On("HandleInspect", mock.Anything, req.Inspect).Return(rollup.StatusAccept, nil)

	err := f.loop.Step(Context)

	assert.Nil(t, err)
	assert.Equal(t, rollup.StatusAccept, f.loop.Status())
	f.handler.AssertNumberOfCalls(t, "HandleInspect", 1)
}

func TestStepUnknownRequestType(t *testing.T) {
	f := newFixture()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).
		Return(&rollup.Request{Type: rollup.RequestType("rollback_state")}, nil)

	err := f.loop.Step(Context)

	assert.True(t, errors.Is(err, errors.ErrUnknownRequestKind))
	f.handler.AssertNotCalled(t, "HandleAdvance", mock.Anything, mock.Anything)
	f.handler.AssertNotCalled(t, "HandleInspect", mock.Anything, mock.Anything)
}

func TestStepFinishFailure(t *testing.T) {
	f := newFixture()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).
		Return(nil, errors.New(errors.ErrRollupRequest, nil))

	err := f.loop.Step(Context)

	assert.True(t, errors.Is(err, errors.ErrRollupRequest))
}

func TestStepSetsTraceID(t *testing.T) {
	f := newFixture()
	var traceIDs []int64
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).
		Run(func(args mock.Arguments) {
			traceIDs = append(traceIDs, log.GetTraceID(args.Get(0).(context.Context)))
		}).Return(nil, nil)

	assert.Nil(t, f.loop.Step(Context))
	assert.Nil(t, f.loop.Step(Context))

	assert.Equal(t, []int64{1, 2}, traceIDs)
}

func TestRunReturnsFatalError(t *testing.T) {
	f := newFixture()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).Return(nil, nil).Once()
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).
		Return(&rollup.Request{Type: rollup.RequestType("rollback_state")}, nil).Once()

	err := f.loop.Run(Context)

	assert.True(t, errors.Is(err, errors.ErrUnknownRequestKind))
	f.client.AssertExpectations(t)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(Context)
	f.client.On("Finish", mock.Anything, finishWith(rollup.StatusAccept)).
		Run(func(args mock.Arguments) { cancel() }).
		Return(nil, errors.New(errors.ErrRollupRequest, context.Canceled))

	err := f.loop.Run(ctx)

	assert.Nil(t, err)
	f.client.AssertNumberOfCalls(t, "Finish", 1)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(Context)
	cancel()

	err := f.loop.Run(ctx)

	assert.Nil(t, err)
	f.client.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AwaitingCapture", AwaitingCapture.String())
	assert.Equal(t, "Polling", Polling.String())
	assert.Equal(t, "Dispatching", Dispatching.String())
	assert.Equal(t, "State(7)", State(7).String())
}
