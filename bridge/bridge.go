// Package bridge extracts L1→L2 messages from simulated call traces. Each
// supported bridge family has one parser that locates calls to its L1 entry
// points, decodes the bridge-specific calldata and produces the message that
// will execute on the destination chain. Parsers operate on untrusted trace
// data and never fail: anything malformed is skipped.
package bridge

import (
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum-optimism/op-seatbelt/trace"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Type identifies the bridge family a message was extracted from.
type Type string

const (
	ArbitrumL1L2 Type = "ArbitrumL1L2"
	OptimismL1L2 Type = "OptimismL1L2"
)

// Message is one L1→L2 message recovered from a call trace, ready to be
// replayed against the destination chain.
type Message struct {
	Bridge Type
	// DestinationChainID is the decimal chain ID the message executes on.
	DestinationChainID string
	// Target is the L2 contract the message calls.
	Target common.Address
	// Input is the calldata to replay on L2.
	Input hexutil.Bytes
	// Value is the native token amount delivered with the message, in wei.
	Value *big.Int
	// From is the apparent L2 sender: aliased for Arbitrum, the original L1
	// caller for the Optimism stack. Nil when the trace frame had no usable
	// caller.
	From *common.Address
}

// Key is the semantic identity of the message. Two extractions with the same
// target, calldata and destination are the same logical message no matter
// where in the trace they appeared.
func (m *Message) Key() string {
	return strings.ToLower(m.Target.Hex()) + "|" + hexutil.Encode(m.Input) + "|" + m.DestinationChainID
}

// Set deduplicates messages by Key, last write wins. Duplicates are expected
// to be identical, so the overwrite is harmless.
type Set map[string]*Message

func (s Set) Add(m *Message) {
	s[m.Key()] = m
}

// Messages returns the set's contents in key order, so that repeated parses
// of the same trace produce identical output.
func (s Set) Messages() []*Message {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Message, 0, len(keys))
	for _, k := range keys {
		out = append(out, s[k])
	}
	return out
}

// Union merges the other set into s.
func (s Set) Union(other Set) {
	for k, m := range other {
		s[k] = m
	}
}

// Parser extracts the messages of one bridge family from a call trace. A nil
// or malformed trace yields an empty result, never an error.
type Parser interface {
	Name() string
	Parse(root *trace.Call) []*Message
}

// callValue parses the value field of a trace frame. Frames carry the value
// as a hex or decimal string depending on the backend; garbage counts as
// zero since a frame with an unreadable value is still a valid message
// carrier.
func callValue(raw string) *big.Int {
	if raw == "" {
		return new(big.Int)
	}
	if strings.HasPrefix(raw, "0x") {
		if v, err := hexutil.DecodeBig(raw); err == nil {
			return v
		}
		return new(big.Int)
	}
	if v, ok := new(big.Int).SetString(raw, 10); ok && v.Sign() >= 0 {
		return v
	}
	return new(big.Int)
}
