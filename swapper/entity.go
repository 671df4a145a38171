package swapper

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oasislabs/oasis-swapper/log"
)

// DepositEnvelope is the decoded payload of an ERC20 deposit
// forwarded by the portal
type DepositEnvelope struct {
	Header         common.Hash
	Depositor      common.Address
	DepositedToken common.Address
	Amount         *big.Int

	// InnerData is the data the depositor attached to the deposit,
	// expected to be an encoded SwapInstruction
	InnerData []byte
}

func (e *DepositEnvelope) Log(fields log.Fields) {
	fields.Add("depositor", e.Depositor.Hex())
	fields.Add("deposited_token", e.DepositedToken.Hex())
	fields.Add("amount", e.Amount.String())
}

// SwapInstruction tells which contract performs the swap and which
// token the depositor wants in exchange
type SwapInstruction struct {
	TargetContract common.Address
	DesiredToken   common.Address
}

func (i *SwapInstruction) Log(fields log.Fields) {
	fields.Add("target_contract", i.TargetContract.Hex())
	fields.Add("desired_token", i.DesiredToken.Hex())
}

// DepositNotice is the notice published for every accepted deposit.
// Addresses are serialized in their checksummed form
type DepositNotice struct {
	Timestamp           uint64   `json:"timestamp"`
	MsgSender           string   `json:"msg_sender"`
	DepositedERC20Token string   `json:"depositedERC20Token"`
	Amount              *big.Int `json:"amount"`
	DesiredERC20Token   string   `json:"desiredERC20Token"`
}

// VoucherCall is a call to Destination with Payload as calldata that
// can be executed on chain once the voucher is finalized
type VoucherCall struct {
	Destination common.Address
	Payload     []byte
}
