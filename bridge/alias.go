package bridge

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// l1ToL2AliasOffset is the constant Arbitrum adds to a contract's L1 address
// to derive the sender its retryable ticket appears to come from on L2.
var l1ToL2AliasOffset = uint256.MustFromHex("0x1111000000000000000000000000000000001111")

// ApplyL1ToL2Alias computes the L2 alias of an L1 address:
// (address + offset) mod 2^160. The addition is done on 256 bits and wrapped
// by truncating to the low 20 bytes, so the carry past bit 160 is discarded
// rather than silently mangled by a fixed-width native type.
func ApplyL1ToL2Alias(l1 common.Address) common.Address {
	sum := new(uint256.Int).SetBytes(l1.Bytes())
	sum.Add(sum, l1ToL2AliasOffset)
	b := sum.Bytes32()
	return common.BytesToAddress(b[12:])
}
