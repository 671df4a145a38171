package swapper

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/oasislabs/oasis-swapper/log"
)

// SenderReader gives read only access to the trusted sender
type SenderReader interface {
	// Get returns the trusted sender and true if it has been
	// captured, or false otherwise
	Get() (common.Address, bool)
}

// TrustedSender holds the address of the portal, the only sender
// allowed to submit deposits. It starts unset and is set at most
// once. It is not safe for concurrent use, the dispatch loop is its
// only writer and every read happens on the same goroutine
type TrustedSender struct {
	address  common.Address
	captured bool
}

// Capture sets the trusted sender. It returns false and keeps the
// current value if the sender had already been captured
func (s *TrustedSender) Capture(address common.Address) bool {
	if s.captured {
		return false
	}

	s.address = address
	s.captured = true
	return true
}

// Get is the implementation of SenderReader for TrustedSender
func (s *TrustedSender) Get() (common.Address, bool) {
	return s.address, s.captured
}

func (s *TrustedSender) Log(fields log.Fields) {
	if !s.captured {
		fields.Add("trusted_sender", "unset")
		return
	}

	fields.Add("trusted_sender", s.address.Hex())
}
