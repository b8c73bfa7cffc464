package bridge

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestSetCollapsesByIdentity(t *testing.T) {
	set := make(Set)
	a := &Message{Bridge: ArbitrumL1L2, DestinationChainID: "42161", Target: common.Address{0x01}, Input: []byte{0xaa}}
	b := &Message{Bridge: ArbitrumL1L2, DestinationChainID: "42161", Target: common.Address{0x01}, Input: []byte{0xaa}}
	set.Add(a)
	set.Add(b)
	require.Len(t, set.Messages(), 1)
	// Last write wins.
	require.Same(t, b, set.Messages()[0])

	// Same target and calldata on a different chain is a different message.
	set.Add(&Message{Bridge: OptimismL1L2, DestinationChainID: "10", Target: common.Address{0x01}, Input: []byte{0xaa}})
	require.Len(t, set.Messages(), 2)
}

func TestSetUnion(t *testing.T) {
	left := make(Set)
	left.Add(&Message{DestinationChainID: "10", Target: common.Address{0x01}})
	right := make(Set)
	right.Add(&Message{DestinationChainID: "42161", Target: common.Address{0x02}})
	left.Union(right)
	require.Len(t, left.Messages(), 2)
}

func TestCallValue(t *testing.T) {
	require.Equal(t, big.NewInt(0), callValue(""))
	require.Equal(t, big.NewInt(0), callValue("0x"))
	require.Equal(t, big.NewInt(0), callValue("0xnothex"))
	require.Equal(t, big.NewInt(0), callValue("garbage"))
	require.Equal(t, big.NewInt(0), callValue("-5"))
	require.Equal(t, big.NewInt(255), callValue("0xff"))
	require.Equal(t, big.NewInt(1000), callValue("1000"))
}
