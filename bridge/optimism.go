package bridge

import (
	"sort"

	"github.com/ethereum-optimism/op-seatbelt/trace"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/lmittmann/w3"
)

// DefaultMessengers maps destination chain IDs to their mainnet
// L1CrossDomainMessenger. Any OP-stack chain can be added through config.
var DefaultMessengers = map[string]common.Address{
	"10":   common.HexToAddress("0x25ace71c97B33Cc4729CF772ae268934F7ab5fA1"), // OP Mainnet
	"8453": common.HexToAddress("0x866E82a600A1414e583f7F13623F1aC5d58b0Afa"), // Base
}

// MaxMessagePayloadBytes caps the decoded sendMessage payload. A proposal
// controls this field, so an unbounded decode would let it force arbitrary
// memory use.
const MaxMessagePayloadBytes = 1 << 20

var funcSendMessage = w3.MustNewFunc("sendMessage(address target,bytes message,uint32 minGasLimit)", "")

// OptimismParser extracts cross-domain messages from calls to the configured
// L1CrossDomainMessenger addresses. The destination chain is determined by
// which messenger was called, not by anything inside the calldata, and the
// L2 sender is the L1 caller unmodified: the messenger relays with the
// original sender, unlike Arbitrum's aliasing.
type OptimismParser struct {
	log log.Logger
	// chainByMessenger is keyed by messenger address; the value is the
	// destination chain ID served by that messenger.
	chainByMessenger map[common.Address]string
}

var _ Parser = (*OptimismParser)(nil)

// NewOptimismParser builds a parser for the given chain-ID → messenger map.
func NewOptimismParser(logger log.Logger, messengers map[string]common.Address) *OptimismParser {
	chainByMessenger := make(map[common.Address]string, len(messengers))
	for chainID, addr := range messengers {
		chainByMessenger[addr] = chainID
	}
	return &OptimismParser{log: logger, chainByMessenger: chainByMessenger}
}

func (p *OptimismParser) Name() string {
	return "optimism-cross-domain-messenger"
}

func (p *OptimismParser) Parse(root *trace.Call) []*Message {
	messengers := make([]common.Address, 0, len(p.chainByMessenger))
	for addr := range p.chainByMessenger {
		messengers = append(messengers, addr)
	}
	sort.Slice(messengers, func(i, j int) bool {
		return messengers[i].Cmp(messengers[j]) < 0
	})
	set := make(Set)
	for _, call := range trace.FindCallsTo(root, messengers...) {
		if msg := p.parseCall(call); msg != nil {
			set.Add(msg)
		}
	}
	return set.Messages()
}

func (p *OptimismParser) parseCall(call *trace.Call) *Message {
	if !call.HasInput(8) {
		return nil
	}
	input, err := hexutil.Decode(call.Input)
	if err != nil {
		return nil
	}
	var selector [4]byte
	copy(selector[:], input)
	if selector != funcSendMessage.Selector {
		p.log.Debug("Skipping unknown function at cross-domain messenger", "selector", hexutil.Encode(selector[:]))
		return nil
	}
	var (
		target      common.Address
		payload     []byte
		minGasLimit uint32
	)
	if err := funcSendMessage.DecodeArgs(input, &target, &payload, &minGasLimit); err != nil {
		p.log.Warn("Skipping undecodable sendMessage call", "err", err)
		return nil
	}
	if len(payload) > MaxMessagePayloadBytes {
		p.log.Warn("Skipping oversized cross-domain message", "bytes", len(payload))
		return nil
	}
	to, _ := call.ToAddress() // walker only matched frames with a valid to
	msg := &Message{
		Bridge:             OptimismL1L2,
		DestinationChainID: p.chainByMessenger[to],
		Target:             target,
		Input:              payload,
		Value:              callValue(call.Value),
	}
	if from, ok := call.FromAddress(); ok {
		from := from
		msg.From = &from
	}
	return msg
}
