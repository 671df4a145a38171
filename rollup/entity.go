package rollup

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oasislabs/oasis-swapper/log"
)

// Status is the verdict reported back to the rollup http server
// for the request that was last handed out
type Status string

const (
	StatusAccept Status = "accept"
	StatusReject Status = "reject"
)

// RequestType identifies how a Request must be handled
type RequestType string

const (
	AdvanceState RequestType = "advance_state"
	InspectState RequestType = "inspect_state"
)

// FinishRequest is the body sent on /finish
type FinishRequest struct {
	Status Status `json:"status"`
}

// Metadata describes the origin of an advance request
type Metadata struct {
	MsgSender   common.Address `json:"msg_sender"`
	EpochIndex  uint64         `json:"epoch_index"`
	InputIndex  uint64         `json:"input_index"`
	BlockNumber uint64         `json:"block_number"`
	Timestamp   uint64         `json:"timestamp"`
}

// IsBootstrap returns true for the very first input of the rollup,
// the one that reveals the address of the portal
func (m *Metadata) IsBootstrap() bool {
	return m.EpochIndex == 0 && m.InputIndex == 0
}

type rawMetadata struct {
	MsgSender   *common.Address `json:"msg_sender"`
	EpochIndex  *uint64         `json:"epoch_index"`
	InputIndex  *uint64         `json:"input_index"`
	BlockNumber uint64          `json:"block_number"`
	Timestamp   uint64          `json:"timestamp"`
}

// UnmarshalJSON implements json.Unmarshaler for Metadata. The sender
// and the indices are required, a missing index must not be taken
// for the bootstrap input
func (m *Metadata) UnmarshalJSON(p []byte) error {
	var raw rawMetadata
	if err := json.Unmarshal(p, &raw); err != nil {
		return err
	}

	switch {
	case raw.MsgSender == nil:
		return fmt.Errorf("metadata is missing msg_sender")
	case raw.EpochIndex == nil:
		return fmt.Errorf("metadata is missing epoch_index")
	case raw.InputIndex == nil:
		return fmt.Errorf("metadata is missing input_index")
	}

	*m = Metadata{
		MsgSender:   *raw.MsgSender,
		EpochIndex:  *raw.EpochIndex,
		InputIndex:  *raw.InputIndex,
		BlockNumber: raw.BlockNumber,
		Timestamp:   raw.Timestamp,
	}
	return nil
}

func (m *Metadata) Log(fields log.Fields) {
	fields.Add("msg_sender", m.MsgSender.Hex())
	fields.Add("epoch_index", m.EpochIndex)
	fields.Add("input_index", m.InputIndex)
	fields.Add("block_number", m.BlockNumber)
	fields.Add("timestamp", m.Timestamp)
}

// AdvanceRequest is a request that may change the state of the dapp
type AdvanceRequest struct {
	Metadata *Metadata `json:"metadata"`

	// Payload is the 0x prefixed hex encoded input
	Payload string `json:"payload"`
}

func (r *AdvanceRequest) Log(fields log.Fields) {
	if r.Metadata != nil {
		r.Metadata.Log(fields)
	}
	fields.Add("payload", r.Payload)
}

// InspectRequest is a read only request on the dapp state
type InspectRequest struct {
	// Payload is the 0x prefixed hex encoded query
	Payload string `json:"payload"`
}

func (r *InspectRequest) Log(fields log.Fields) {
	fields.Add("payload", r.Payload)
}

// Request is a request handed out by the rollup http server. Exactly
// one of Advance and Inspect is set for the known request types. Any
// other type is kept as is with both unset
type Request struct {
	Type    RequestType
	Advance *AdvanceRequest
	Inspect *InspectRequest
}

func (r *Request) Log(fields log.Fields) {
	fields.Add("request_type", string(r.Type))
	switch {
	case r.Advance != nil:
		r.Advance.Log(fields)
	case r.Inspect != nil:
		r.Inspect.Log(fields)
	}
}

type rawRequest struct {
	RequestType RequestType     `json:"request_type"`
	Data        json.RawMessage `json:"data"`
}

// UnmarshalJSON implements json.Unmarshaler for Request
func (r *Request) UnmarshalJSON(p []byte) error {
	var raw rawRequest
	if err := json.Unmarshal(p, &raw); err != nil {
		return err
	}

	r.Type = raw.RequestType
	r.Advance = nil
	r.Inspect = nil

	switch raw.RequestType {
	case AdvanceState:
		r.Advance = &AdvanceRequest{}
		if err := json.Unmarshal(raw.Data, r.Advance); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", raw.RequestType, err)
		}
	case InspectState:
		r.Inspect = &InspectRequest{}
		if err := json.Unmarshal(raw.Data, r.Inspect); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", raw.RequestType, err)
		}
	}

	return nil
}

// NoticeRequest is the body sent on /notice
type NoticeRequest struct {
	Payload string `json:"payload"`
}

// VoucherRequest is the body sent on /voucher
type VoucherRequest struct {
	Address string `json:"address"`
	Payload string `json:"payload"`
}

// ReportRequest is the body sent on /report
type ReportRequest struct {
	Payload string `json:"payload"`
}
