package swapper

import "github.com/ethereum/go-ethereum/common"

// SwapSignature is the signature of the function invoked on the
// swapper contract when a voucher is executed
const SwapSignature = "executeSwap(address,uint,address,address)"

// SwapSelector is the first 4 bytes of the keccak256 hash of
// SwapSignature. Note the signature uses uint, not uint256
var SwapSelector = [4]byte{0x19, 0xac, 0xe5, 0x18}

// ERC20DepositHeader is the keccak256 hash of "ERC20_Transfer". The
// portal prefixes every ERC20 deposit input with it
var ERC20DepositHeader = common.HexToHash(
	"0x59da2a984e165ae4487c99e5d1dca7e04c8a99301be6bc092932cb5d7f034378")

// InspectReport is the report published for every inspect request
const InspectReport = "Voucher to trade assets example."
