package swapper

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oasislabs/oasis-swapper/errors"
	"github.com/oasislabs/oasis-swapper/log"
	"github.com/oasislabs/oasis-swapper/rollup"
)

// Publisher publishes the outputs of the dapp. It is
// implemented by rollup.Client
type Publisher interface {
	Notice(ctx context.Context, payload []byte) error
	Voucher(ctx context.Context, destination common.Address, payload []byte) error
	Report(ctx context.Context, payload []byte) error
}

// Services required by the handlers
type Services struct {
	Logger    log.Logger
	Publisher Publisher
	Sender    SenderReader
}

// NewDepositHandler creates a handler for advance requests
func NewDepositHandler(services *Services) *DepositHandler {
	return &DepositHandler{
		logger:    services.Logger.ForClass("swapper", "DepositHandler"),
		publisher: services.Publisher,
		sender:    services.Sender,
	}
}

// DepositHandler turns ERC20 deposits coming from the portal into a
// notice describing the deposit and a voucher that swaps the
// deposited tokens
type DepositHandler struct {
	logger    log.Logger
	publisher Publisher
	sender    SenderReader
}

// HandleAdvance handles an advance request. An input that fails
// validation is rejected and the failure is published as a report
func (h *DepositHandler) HandleAdvance(ctx context.Context, req *rollup.AdvanceRequest) (rollup.Status, errors.Err) {
	h.logger.Info(ctx, "received advance request", log.MapFields{
		"call_type": "HandleAdvanceAttempt",
	}, req)

	if err := h.handle(ctx, req); err != nil {
		h.logger.Warn(ctx, "advance request rejected", log.MapFields{
			"call_type": "HandleAdvanceFailure",
		}, err)
		reportError(ctx, h.logger, h.publisher, err)
		return rollup.StatusReject, err
	}

	h.logger.Info(ctx, "advance request accepted", log.MapFields{
		"call_type": "HandleAdvanceSuccess",
	})
	return rollup.StatusAccept, nil
}

func (h *DepositHandler) handle(ctx context.Context, req *rollup.AdvanceRequest) errors.Err {
	if req.Metadata == nil {
		return errors.New(errors.ErrMalformedPayload, fmt.Errorf("advance request has no metadata"))
	}

	if err := h.verifySender(req.Metadata.MsgSender); err != nil {
		return err
	}

	data, err := DecodeHexPayload(req.Payload)
	if err != nil {
		return err
	}

	deposit, err := DecodeDeposit(data)
	if err != nil {
		return err
	}

	if deposit.Header != ERC20DepositHeader {
		return errors.New(errors.ErrInvalidHeader, fmt.Errorf("got header %s", deposit.Header.Hex()))
	}

	instruction, err := DecodeSwapInstruction(deposit.InnerData)
	if err != nil {
		return err
	}

	h.logger.Debug(ctx, "decoded deposit", log.MapFields{
		"call_type": "DecodeDepositSuccess",
	}, deposit, instruction)

	// nothing is published until both outputs are built
	notice, err := EncodeDepositNotice(NewDepositNotice(req.Metadata, deposit, instruction))
	if err != nil {
		return err
	}

	voucher, err := NewVoucherCall(deposit, instruction)
	if err != nil {
		return err
	}

	if err := h.publisher.Notice(ctx, notice); err != nil {
		return errors.New(errors.ErrPublishOutput, err)
	}

	if err := h.publisher.Voucher(ctx, voucher.Destination, voucher.Payload); err != nil {
		return errors.New(errors.ErrPublishOutput, err)
	}

	return nil
}

func (h *DepositHandler) verifySender(sender common.Address) errors.Err {
	trusted, ok := h.sender.Get()
	if !ok {
		return errors.New(errors.ErrUntrustedSender,
			fmt.Errorf("sender %s received before the portal address was captured", sender.Hex()))
	}

	if sender != trusted {
		return errors.New(errors.ErrUntrustedSender,
			fmt.Errorf("sender %s does not match portal %s", sender.Hex(), trusted.Hex()))
	}

	return nil
}

// NewInspectHandler creates a handler for inspect requests
func NewInspectHandler(services *Services) *InspectHandler {
	return &InspectHandler{
		logger:    services.Logger.ForClass("swapper", "InspectHandler"),
		publisher: services.Publisher,
	}
}

// InspectHandler answers every inspect request with the same report
type InspectHandler struct {
	logger    log.Logger
	publisher Publisher
}

// HandleInspect handles an inspect request. The payload is only logged
func (h *InspectHandler) HandleInspect(ctx context.Context, req *rollup.InspectRequest) (rollup.Status, errors.Err) {
	h.logger.Info(ctx, "received inspect request", log.MapFields{
		"call_type": "HandleInspectAttempt",
	}, req)

	if err := h.publisher.Report(ctx, []byte(InspectReport)); err != nil {
		// inspect requests are always accepted
		e := errors.New(errors.ErrPublishOutput, err)
		h.logger.Warn(ctx, "failed to publish inspect report", log.MapFields{
			"call_type": "HandleInspectFailure",
		}, e)
		return rollup.StatusAccept, e
	}

	return rollup.StatusAccept, nil
}

func reportError(ctx context.Context, logger log.Logger, publisher Publisher, err errors.Err) {
	if perr := publisher.Report(ctx, []byte(err.Error())); perr != nil {
		logger.Warn(ctx, "failed to publish error report", log.MapFields{
			"call_type": "ReportFailure",
			"err":       perr.Error(),
		})
	}
}
