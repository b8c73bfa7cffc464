package bridge

import (
	"fmt"
	"math/big"

	"github.com/ethereum-optimism/op-seatbelt/trace"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/lmittmann/w3"
)

// ArbitrumOneChainID is the destination chain for messages submitted through
// the Arbitrum One delayed inbox.
const ArbitrumOneChainID = "42161"

// ArbitrumOneInbox is the mainnet delayed inbox contract.
var ArbitrumOneInbox = common.HexToAddress("0x4Dbd4fc535Ac27206064B68FfCf827b0A60BAB3F")

// The delayed inbox accepts L2 submissions through a family of functions
// with differing argument layouts. Each is decoded by position below.
var (
	funcCreateRetryableTicket = w3.MustNewFunc(
		"createRetryableTicket(address to,uint256 l2CallValue,uint256 maxSubmissionCost,address excessFeeRefundAddress,address callValueRefundAddress,uint256 gasLimit,uint256 maxFeePerGas,bytes data)", "uint256")
	funcUnsafeCreateRetryableTicket = w3.MustNewFunc(
		"unsafeCreateRetryableTicket(address to,uint256 l2CallValue,uint256 maxSubmissionCost,address excessFeeRefundAddress,address callValueRefundAddress,uint256 gasLimit,uint256 maxFeePerGas,bytes data)", "uint256")
	funcCreateRetryableTicketNoRefundAliasRewrite = w3.MustNewFunc(
		"createRetryableTicketNoRefundAliasRewrite(address to,uint256 l2CallValue,uint256 maxSubmissionCost,address excessFeeRefundAddress,address callValueRefundAddress,uint256 gasLimit,uint256 maxFeePerGas,bytes data)", "uint256")
	funcSendContractTransaction = w3.MustNewFunc(
		"sendContractTransaction(uint256 gasLimit,uint256 maxFeePerGas,address to,uint256 value,bytes data)", "uint256")
	funcSendUnsignedTransaction = w3.MustNewFunc(
		"sendUnsignedTransaction(uint256 gasLimit,uint256 maxFeePerGas,uint256 nonce,address to,uint256 value,bytes data)", "uint256")
	funcSendL1FundedContractTransaction = w3.MustNewFunc(
		"sendL1FundedContractTransaction(uint256 gasLimit,uint256 maxFeePerGas,address to,bytes data)", "uint256")
	funcSendL1FundedUnsignedTransaction = w3.MustNewFunc(
		"sendL1FundedUnsignedTransaction(uint256 gasLimit,uint256 maxFeePerGas,uint256 nonce,address to,bytes data)", "uint256")
	funcSendL2Message = w3.MustNewFunc("sendL2Message(bytes messageData)", "uint256")
)

// l2Submission is the destination-side effect of one inbox call.
type l2Submission struct {
	target common.Address
	value  *big.Int
	data   []byte
}

// inboxDecoder decodes one inbox function variant. callValue is the ETH sent
// with the L1 call, which funds the L2 value for the L1-funded variants.
type inboxDecoder func(input []byte, callValue *big.Int) (l2Submission, error)

var inboxDecoders map[[4]byte]inboxDecoder

func init() {
	retryable := func(f *w3.Func) inboxDecoder {
		return func(input []byte, _ *big.Int) (l2Submission, error) {
			var (
				to, excessFeeRefund, callValueRefund common.Address
				l2CallValue, maxSubmission           *big.Int
				gasLimit, maxFeePerGas               *big.Int
				data                                 []byte
			)
			if err := f.DecodeArgs(input, &to, &l2CallValue, &maxSubmission, &excessFeeRefund, &callValueRefund, &gasLimit, &maxFeePerGas, &data); err != nil {
				return l2Submission{}, err
			}
			return l2Submission{target: to, value: l2CallValue, data: data}, nil
		}
	}
	inboxDecoders = map[[4]byte]inboxDecoder{
		funcCreateRetryableTicket.Selector:                     retryable(funcCreateRetryableTicket),
		funcUnsafeCreateRetryableTicket.Selector:               retryable(funcUnsafeCreateRetryableTicket),
		funcCreateRetryableTicketNoRefundAliasRewrite.Selector: retryable(funcCreateRetryableTicketNoRefundAliasRewrite),
		funcSendContractTransaction.Selector: func(input []byte, _ *big.Int) (l2Submission, error) {
			var (
				gasLimit, maxFeePerGas, value *big.Int
				to                            common.Address
				data                          []byte
			)
			if err := funcSendContractTransaction.DecodeArgs(input, &gasLimit, &maxFeePerGas, &to, &value, &data); err != nil {
				return l2Submission{}, err
			}
			return l2Submission{target: to, value: value, data: data}, nil
		},
		funcSendUnsignedTransaction.Selector: func(input []byte, _ *big.Int) (l2Submission, error) {
			var (
				gasLimit, maxFeePerGas, nonce, value *big.Int
				to                                   common.Address
				data                                 []byte
			)
			if err := funcSendUnsignedTransaction.DecodeArgs(input, &gasLimit, &maxFeePerGas, &nonce, &to, &value, &data); err != nil {
				return l2Submission{}, err
			}
			return l2Submission{target: to, value: value, data: data}, nil
		},
		funcSendL1FundedContractTransaction.Selector: func(input []byte, callValue *big.Int) (l2Submission, error) {
			var (
				gasLimit, maxFeePerGas *big.Int
				to                     common.Address
				data                   []byte
			)
			if err := funcSendL1FundedContractTransaction.DecodeArgs(input, &gasLimit, &maxFeePerGas, &to, &data); err != nil {
				return l2Submission{}, err
			}
			return l2Submission{target: to, value: callValue, data: data}, nil
		},
		funcSendL1FundedUnsignedTransaction.Selector: func(input []byte, callValue *big.Int) (l2Submission, error) {
			var (
				gasLimit, maxFeePerGas, nonce *big.Int
				to                            common.Address
				data                          []byte
			)
			if err := funcSendL1FundedUnsignedTransaction.DecodeArgs(input, &gasLimit, &maxFeePerGas, &nonce, &to, &data); err != nil {
				return l2Submission{}, err
			}
			return l2Submission{target: to, value: callValue, data: data}, nil
		},
		funcSendL2Message.Selector: decodeSendL2Message,
	}
}

// Raw L2 message kinds carried by sendL2Message that describe a plain
// unsigned transaction. Other kinds (signed txs, batches) are skipped.
const (
	l2MessageKindUnsignedEOATx      = 0x00
	l2MessageKindUnsignedContractTx = 0x01
)

// decodeSendL2Message unwraps the opaque messageData blob. The blob is a
// kind byte followed by fixed 32-byte fields and trailing calldata; every
// slice is length-checked first since the blob is attacker-controlled.
func decodeSendL2Message(input []byte, _ *big.Int) (l2Submission, error) {
	var blob []byte
	if err := funcSendL2Message.DecodeArgs(input, &blob); err != nil {
		return l2Submission{}, err
	}
	if len(blob) == 0 {
		return l2Submission{}, fmt.Errorf("empty L2 message")
	}
	kind, fields := blob[0], blob[1:]
	numFields := 0
	switch kind {
	case l2MessageKindUnsignedEOATx:
		numFields = 5 // gasLimit, maxFeePerGas, nonce, to, value
	case l2MessageKindUnsignedContractTx:
		numFields = 4 // gasLimit, maxFeePerGas, to, value
	default:
		return l2Submission{}, fmt.Errorf("unsupported L2 message kind %#x", kind)
	}
	if len(fields) < numFields*32 {
		return l2Submission{}, fmt.Errorf("L2 message truncated: %d bytes for %d fields", len(fields), numFields)
	}
	word := func(i int) []byte { return fields[i*32 : (i+1)*32] }
	to := common.BytesToAddress(word(numFields - 2))
	value := new(big.Int).SetBytes(word(numFields - 1))
	data := fields[numFields*32:]
	return l2Submission{target: to, value: value, data: data}, nil
}

// ArbitrumParser extracts retryable tickets and direct L2 submissions from
// calls to the delayed inbox.
type ArbitrumParser struct {
	log     log.Logger
	inbox   common.Address
	chainID string
}

var _ Parser = (*ArbitrumParser)(nil)

func NewArbitrumParser(logger log.Logger, inbox common.Address, destinationChainID string) *ArbitrumParser {
	return &ArbitrumParser{log: logger, inbox: inbox, chainID: destinationChainID}
}

func (p *ArbitrumParser) Name() string {
	return "arbitrum-delayed-inbox"
}

func (p *ArbitrumParser) Parse(root *trace.Call) []*Message {
	set := make(Set)
	for _, call := range trace.FindCallsTo(root, p.inbox) {
		if msg := p.parseCall(call); msg != nil {
			set.Add(msg)
		}
	}
	return set.Messages()
}

func (p *ArbitrumParser) parseCall(call *trace.Call) *Message {
	if !call.HasInput(8) { // at least a 4-byte selector
		return nil
	}
	input, err := hexutil.Decode(call.Input)
	if err != nil {
		return nil
	}
	var selector [4]byte
	copy(selector[:], input)
	decode, known := inboxDecoders[selector]
	if !known {
		p.log.Debug("Skipping unknown function at Arbitrum inbox", "selector", hexutil.Encode(selector[:]))
		return nil
	}
	sub, err := decode(input, callValue(call.Value))
	if err != nil {
		p.log.Warn("Skipping undecodable Arbitrum inbox call", "selector", hexutil.Encode(selector[:]), "err", err)
		return nil
	}
	msg := &Message{
		Bridge:             ArbitrumL1L2,
		DestinationChainID: p.chainID,
		Target:             sub.target,
		Input:              sub.data,
		Value:              sub.value,
	}
	if from, ok := call.FromAddress(); ok {
		alias := ApplyL1ToL2Alias(from)
		msg.From = &alias
	}
	return msg
}
