// Package trace models the nested call tree returned by the simulation
// backend and provides a traversal helper over it. The tree is external,
// attacker-influenced input: fields may be missing, empty or garbage, and
// depth/width are unbounded.
package trace

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Call is a single frame of a simulated transaction's call tree. String
// fields are kept raw rather than decoded eagerly: a malformed frame must
// survive JSON decoding so that the walker can skip it.
type Call struct {
	Type    string `json:"call_type,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Input   string `json:"input,omitempty"`
	Value   string `json:"value,omitempty"`
	GasUsed uint64 `json:"gas_used,omitempty"`
	Error   string `json:"error,omitempty"`
	Calls   []Call `json:"calls,omitempty"`
}

// ToAddress returns the parsed destination address of the frame. The second
// return is false for frames with a missing or non-address destination,
// which are never candidate bridge calls.
func (c *Call) ToAddress() (common.Address, bool) {
	if c == nil || !common.IsHexAddress(c.To) {
		return common.Address{}, false
	}
	return common.HexToAddress(c.To), true
}

// FromAddress returns the parsed caller of the frame, if present and valid.
func (c *Call) FromAddress() (common.Address, bool) {
	if c == nil || !common.IsHexAddress(c.From) {
		return common.Address{}, false
	}
	return common.HexToAddress(c.From), true
}

// CallsTo reports whether the frame's destination equals addr,
// case-insensitively. Frames without a valid destination never match.
func (c *Call) CallsTo(addr common.Address) bool {
	to, ok := c.ToAddress()
	return ok && to == addr
}

// HasInput reports whether the frame carries calldata of at least min hex
// characters after the 0x prefix. Non-hex-prefixed input counts as absent.
func (c *Call) HasInput(min int) bool {
	if c == nil || !strings.HasPrefix(c.Input, "0x") {
		return false
	}
	return len(c.Input)-2 >= min
}
