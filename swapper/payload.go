package swapper

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/oasislabs/oasis-swapper/codec"
	"github.com/oasislabs/oasis-swapper/errors"
	"github.com/oasislabs/oasis-swapper/rollup"
)

var (
	depositTuple = codec.MustTuple(
		codec.Fixed32Bytes, codec.Address, codec.Address, codec.Uint256, codec.DynamicBytes)

	swapInstructionTuple = codec.MustTuple(codec.Address, codec.Address)

	swapCallTuple = codec.MustTuple(
		codec.Address, codec.Uint256, codec.Address, codec.Address)
)

// DecodeHexPayload decodes a 0x prefixed hex payload as received
// from the rollup http server
func DecodeHexPayload(payload string) ([]byte, errors.Err) {
	data, err := hexutil.Decode(payload)
	if err != nil {
		return nil, errors.New(errors.ErrMalformedPayload, err)
	}

	return data, nil
}

// DecodeDeposit decodes the payload of a deposit. The header is not
// verified
func DecodeDeposit(data []byte) (*DepositEnvelope, errors.Err) {
	values, err := depositTuple.Decode(data)
	if err != nil {
		return nil, errors.New(errors.ErrMalformedPayload, err)
	}

	return &DepositEnvelope{
		Header:         common.Hash(values[0].([32]byte)),
		Depositor:      values[1].(common.Address),
		DepositedToken: values[2].(common.Address),
		Amount:         values[3].(*big.Int),
		InnerData:      values[4].([]byte),
	}, nil
}

// DecodeSwapInstruction decodes the data attached to a deposit
func DecodeSwapInstruction(data []byte) (*SwapInstruction, errors.Err) {
	values, err := swapInstructionTuple.Decode(data)
	if err != nil {
		return nil, errors.New(errors.ErrMalformedPayload, err)
	}

	return &SwapInstruction{
		TargetContract: values[0].(common.Address),
		DesiredToken:   values[1].(common.Address),
	}, nil
}

// NewDepositNotice creates the notice for an accepted deposit
func NewDepositNotice(
	metadata *rollup.Metadata,
	deposit *DepositEnvelope,
	instruction *SwapInstruction,
) DepositNotice {
	return DepositNotice{
		Timestamp:           metadata.Timestamp,
		MsgSender:           deposit.Depositor.Hex(),
		DepositedERC20Token: deposit.DepositedToken.Hex(),
		Amount:              deposit.Amount,
		DesiredERC20Token:   instruction.DesiredToken.Hex(),
	}
}

// EncodeDepositNotice serializes the notice as JSON
func EncodeDepositNotice(notice DepositNotice) ([]byte, errors.Err) {
	p, err := json.Marshal(notice)
	if err != nil {
		return nil, errors.New(errors.ErrInternalError, fmt.Errorf("failed to encode notice %s", err.Error()))
	}

	return p, nil
}

// NewVoucherCall creates the call to the swapper contract that trades
// the deposited tokens for the desired ones on behalf of the depositor
func NewVoucherCall(deposit *DepositEnvelope, instruction *SwapInstruction) (*VoucherCall, errors.Err) {
	args, err := swapCallTuple.Encode(
		deposit.DepositedToken,
		deposit.Amount,
		deposit.Depositor,
		instruction.DesiredToken)
	if err != nil {
		return nil, errors.New(errors.ErrEncodeVoucher, err)
	}

	payload := make([]byte, 0, len(SwapSelector)+len(args))
	payload = append(payload, SwapSelector[:]...)
	payload = append(payload, args...)

	return &VoucherCall{
		Destination: instruction.TargetContract,
		Payload:     payload,
	}, nil
}
