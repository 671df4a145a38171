// Package codec encodes and decodes fixed shape tuples using the
// standard contract ABI head/tail layout. Fixed width values take a
// 32 byte slot in the head, dynamic values store an offset in their
// head slot and are laid out, length prefixed, after the head.
package codec

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Tuple is an ordered sequence of kinds. It is immutable and safe
// to share
type Tuple struct {
	kinds     []Kind
	arguments abi.Arguments
}

// NewTuple creates a tuple for the provided kinds
func NewTuple(kinds ...Kind) (*Tuple, error) {
	arguments := make(abi.Arguments, 0, len(kinds))
	for _, kind := range kinds {
		t, err := kind.abiType()
		if err != nil {
			return nil, err
		}

		arguments = append(arguments, abi.Argument{Type: t})
	}

	return &Tuple{
		kinds:     append([]Kind(nil), kinds...),
		arguments: arguments,
	}, nil
}

// MustTuple is like NewTuple but panics on error. It is meant to
// be used for package level tuple definitions
func MustTuple(kinds ...Kind) *Tuple {
	t, err := NewTuple(kinds...)
	if err != nil {
		panic(err)
	}

	return t
}

// Kinds returns the kinds of the tuple in order
func (t *Tuple) Kinds() []Kind {
	return append([]Kind(nil), t.kinds...)
}

// HeadSize is the minimum number of bytes an encoded tuple takes
func (t *Tuple) HeadSize() int {
	return 32 * len(t.kinds)
}

// Decode decodes data into one value per kind. Values are returned
// as [32]byte, common.Address, *big.Int or []byte depending on
// the kind
func (t *Tuple) Decode(data []byte) ([]interface{}, error) {
	if len(data) < t.HeadSize() {
		return nil, ErrDecode{Cause: fmt.Errorf("buffer of %d bytes is shorter than the %d bytes head",
			len(data), t.HeadSize())}
	}

	for i, kind := range t.kinds {
		if kind != Address {
			continue
		}

		// addresses are left padded with 12 zero bytes
		for _, b := range data[32*i : 32*i+12] {
			if b != 0 {
				return nil, ErrDecode{Cause: fmt.Errorf("address in slot %d has non zero padding", i)}
			}
		}
	}

	values, err := t.arguments.Unpack(data)
	if err != nil {
		return nil, ErrDecode{Cause: err}
	}

	if len(values) != len(t.kinds) {
		return nil, ErrDecode{Cause: fmt.Errorf("decoded %d values, expected %d",
			len(values), len(t.kinds))}
	}

	return values, nil
}

// Encode encodes values, one per kind and in the same order, into
// their canonical byte representation
func (t *Tuple) Encode(values ...interface{}) ([]byte, error) {
	if len(values) != len(t.kinds) {
		return nil, ErrEncode{Cause: fmt.Errorf("got %d values, expected %d",
			len(values), len(t.kinds))}
	}

	for i, kind := range t.kinds {
		if err := check(kind, values[i]); err != nil {
			return nil, ErrEncode{Cause: fmt.Errorf("value %d: %w", i, err)}
		}
	}

	data, err := t.arguments.Pack(values...)
	if err != nil {
		return nil, ErrEncode{Cause: err}
	}

	return data, nil
}

func check(kind Kind, value interface{}) error {
	switch kind {
	case Fixed32Bytes:
		if _, ok := value.([32]byte); !ok {
			return fmt.Errorf("%s requires [32]byte, got %T", kind, value)
		}
	case Address:
		if _, ok := value.(common.Address); !ok {
			return fmt.Errorf("%s requires common.Address, got %T", kind, value)
		}
	case Uint256:
		n, ok := value.(*big.Int)
		if !ok || n == nil {
			return fmt.Errorf("%s requires *big.Int, got %T", kind, value)
		}
		if n.Sign() < 0 {
			return errors.New("uint256 cannot be negative")
		}
		if _, overflow := uint256.FromBig(n); overflow {
			return errors.New("value does not fit in 256 bits")
		}
	case DynamicBytes:
		if _, ok := value.([]byte); !ok {
			return fmt.Errorf("%s requires []byte, got %T", kind, value)
		}
	default:
		return ErrUnknownKind{Kind: kind}
	}

	return nil
}
