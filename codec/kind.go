package codec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind is one of the primitive value types a Tuple can hold
type Kind int

const (
	// Fixed32Bytes is a bytes32 value, decoded as [32]byte
	Fixed32Bytes Kind = iota

	// Address is a 160 bit address, decoded as common.Address
	Address

	// Uint256 is an unsigned 256 bit integer, decoded as *big.Int
	Uint256

	// DynamicBytes is a variable length byte string, decoded as []byte
	DynamicBytes
)

var kindNames = map[Kind]string{
	Fixed32Bytes: "bytes32",
	Address:      "address",
	Uint256:      "uint256",
	DynamicBytes: "bytes",
}

// String returns the canonical solidity name of the kind
func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("kind(%d)", int(k))
	}

	return name
}

func (k Kind) abiType() (abi.Type, error) {
	name, ok := kindNames[k]
	if !ok {
		return abi.Type{}, ErrUnknownKind{Kind: k}
	}

	return abi.NewType(name, "", nil)
}
