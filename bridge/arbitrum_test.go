package bridge

import (
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum-optimism/op-seatbelt/testlog"
	"github.com/ethereum-optimism/op-seatbelt/trace"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

var (
	l1Timelock = "0x1a9C8182C09F50C8318d769245beA52c32BE35BC"
	l2Target   = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
)

func newArbitrumParser(t *testing.T) *ArbitrumParser {
	return NewArbitrumParser(testlog.Logger(t, slog.LevelDebug), ArbitrumOneInbox, ArbitrumOneChainID)
}

func encodeRetryableTicket(t *testing.T, to common.Address, l2CallValue *big.Int, data []byte) string {
	input, err := funcCreateRetryableTicket.EncodeArgs(
		to, l2CallValue, big.NewInt(1), common.Address{}, common.Address{},
		big.NewInt(1_000_000), big.NewInt(1e9), data)
	require.NoError(t, err)
	return hexutil.Encode(input)
}

func inboxCall(from, input string) *trace.Call {
	return &trace.Call{
		To: "0x0000000000000000000000000000000000000042",
		Calls: []trace.Call{
			{From: from, To: ArbitrumOneInbox.Hex(), Input: input},
		},
	}
}

func TestApplyL1ToL2Alias(t *testing.T) {
	alias := ApplyL1ToL2Alias(common.HexToAddress(l1Timelock))
	require.Equal(t, common.HexToAddress("0x2BAD8182C09F50c8318d769245beA52C32Be46CD"), alias)
}

func TestApplyL1ToL2AliasWrapsAround(t *testing.T) {
	// 0xfff...fff + offset must wrap mod 2^160, i.e. land at offset - 1.
	max := common.HexToAddress("0xFFfFfFffFFfffFFfFFfFFFFFffFFFffffFfFFFfF")
	require.Equal(t, common.HexToAddress("0x1111000000000000000000000000000000001110"), ApplyL1ToL2Alias(max))
}

func TestArbitrumParseRetryableTicket(t *testing.T) {
	parser := newArbitrumParser(t)
	data := []byte{0xab, 0xcd}
	root := inboxCall(l1Timelock, encodeRetryableTicket(t, l2Target, big.NewInt(7), data))

	msgs := parser.Parse(root)
	require.Len(t, msgs, 1)
	msg := msgs[0]
	require.Equal(t, ArbitrumL1L2, msg.Bridge)
	require.Equal(t, ArbitrumOneChainID, msg.DestinationChainID)
	require.Equal(t, l2Target, msg.Target)
	require.Equal(t, hexutil.Bytes(data), msg.Input)
	require.Equal(t, big.NewInt(7), msg.Value)
	require.NotNil(t, msg.From)
	require.Equal(t, common.HexToAddress("0x2BAD8182C09F50c8318d769245beA52C32Be46CD"), *msg.From)
}

func TestArbitrumParseVariants(t *testing.T) {
	parser := newArbitrumParser(t)

	t.Run("sendContractTransaction", func(t *testing.T) {
		input, err := funcSendContractTransaction.EncodeArgs(
			big.NewInt(1_000_000), big.NewInt(1e9), l2Target, big.NewInt(3), []byte{0x01})
		require.NoError(t, err)
		msgs := parser.Parse(inboxCall(l1Timelock, hexutil.Encode(input)))
		require.Len(t, msgs, 1)
		require.Equal(t, l2Target, msgs[0].Target)
		require.Equal(t, big.NewInt(3), msgs[0].Value)
		require.Equal(t, hexutil.Bytes{0x01}, msgs[0].Input)
	})

	t.Run("sendL1FundedContractTransaction takes the L1 call value", func(t *testing.T) {
		input, err := funcSendL1FundedContractTransaction.EncodeArgs(
			big.NewInt(1_000_000), big.NewInt(1e9), l2Target, []byte{0x02})
		require.NoError(t, err)
		root := inboxCall(l1Timelock, hexutil.Encode(input))
		root.Calls[0].Value = "0xde0b6b3a7640000" // 1 ether
		msgs := parser.Parse(root)
		require.Len(t, msgs, 1)
		require.Equal(t, new(big.Int).SetUint64(1e18), msgs[0].Value)
	})

	t.Run("sendL2Message contract tx payload", func(t *testing.T) {
		blob := []byte{l2MessageKindUnsignedContractTx}
		word := func(v *big.Int) []byte { return common.BigToHash(v).Bytes() }
		blob = append(blob, word(big.NewInt(1_000_000))...) // gasLimit
		blob = append(blob, word(big.NewInt(1e9))...)       // maxFeePerGas
		blob = append(blob, common.BytesToHash(l2Target.Bytes()).Bytes()...)
		blob = append(blob, word(big.NewInt(9))...) // value
		blob = append(blob, 0xaa, 0xbb)             // calldata
		input, err := funcSendL2Message.EncodeArgs(blob)
		require.NoError(t, err)
		msgs := parser.Parse(inboxCall(l1Timelock, hexutil.Encode(input)))
		require.Len(t, msgs, 1)
		require.Equal(t, l2Target, msgs[0].Target)
		require.Equal(t, big.NewInt(9), msgs[0].Value)
		require.Equal(t, hexutil.Bytes{0xaa, 0xbb}, msgs[0].Input)
	})

	t.Run("sendL2Message truncated payload skipped", func(t *testing.T) {
		blob := []byte{l2MessageKindUnsignedContractTx, 0x01, 0x02}
		input, err := funcSendL2Message.EncodeArgs(blob)
		require.NoError(t, err)
		require.Empty(t, parser.Parse(inboxCall(l1Timelock, hexutil.Encode(input))))
	})

	t.Run("sendL2Message unknown kind skipped", func(t *testing.T) {
		input, err := funcSendL2Message.EncodeArgs([]byte{0x07, 0x00})
		require.NoError(t, err)
		require.Empty(t, parser.Parse(inboxCall(l1Timelock, hexutil.Encode(input))))
	})
}

func TestArbitrumDeduplicates(t *testing.T) {
	parser := newArbitrumParser(t)
	same := encodeRetryableTicket(t, l2Target, big.NewInt(1), []byte{0x01})
	other := encodeRetryableTicket(t, common.HexToAddress("0x00000000000000000000000000000000000000aa"), big.NewInt(1), []byte{0x01})
	root := &trace.Call{
		Calls: []trace.Call{
			{From: l1Timelock, To: ArbitrumOneInbox.Hex(), Input: same},
			{From: l1Timelock, To: ArbitrumOneInbox.Hex(), Input: same},
			{From: l1Timelock, To: ArbitrumOneInbox.Hex(), Input: other},
		},
	}
	msgs := parser.Parse(root)
	require.Len(t, msgs, 2)
}

func TestArbitrumParseIsDeterministic(t *testing.T) {
	parser := newArbitrumParser(t)
	root := &trace.Call{
		Calls: []trace.Call{
			{From: l1Timelock, To: ArbitrumOneInbox.Hex(), Input: encodeRetryableTicket(t, l2Target, big.NewInt(1), []byte{0x01})},
			{From: l1Timelock, To: ArbitrumOneInbox.Hex(), Input: encodeRetryableTicket(t, common.Address{0xaa}, big.NewInt(2), []byte{0x02})},
		},
	}
	first := parser.Parse(root)
	second := parser.Parse(root)
	require.Equal(t, first, second)
}

func TestArbitrumGracefulDegradation(t *testing.T) {
	parser := newArbitrumParser(t)

	require.Empty(t, parser.Parse(nil))

	for name, input := range map[string]string{
		"empty input":      "",
		"bare prefix":      "0x",
		"short input":      "0x679b6d",
		"non-hex garbage":  "0xzzzzzzzzzzzzzzzz",
		"unknown selector": "0xdeadbeef0000000000000000000000000000000000000000000000000000000000000000",
		"truncated args":   hexutil.Encode(funcCreateRetryableTicket.Selector[:]),
	} {
		t.Run(name, func(t *testing.T) {
			require.Empty(t, parser.Parse(inboxCall(l1Timelock, input)))
		})
	}

	t.Run("missing from still yields a message without sender", func(t *testing.T) {
		root := inboxCall("", encodeRetryableTicket(t, l2Target, big.NewInt(0), nil))
		msgs := parser.Parse(root)
		require.Len(t, msgs, 1)
		require.Nil(t, msgs[0].From)
	})
}
