package trace

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var inbox = common.HexToAddress("0x4Dbd4fc535Ac27206064B68FfCf827b0A60BAB3F")

func TestFindPreOrder(t *testing.T) {
	root := &Call{
		To: "0x0000000000000000000000000000000000000001",
		Calls: []Call{
			{
				To: "0x0000000000000000000000000000000000000002",
				Calls: []Call{
					{To: "0x0000000000000000000000000000000000000003"},
				},
			},
			{To: "0x0000000000000000000000000000000000000004"},
		},
	}
	var order []string
	Find(root, func(c *Call) bool {
		order = append(order, c.To)
		return false
	})
	require.Equal(t, []string{
		"0x0000000000000000000000000000000000000001",
		"0x0000000000000000000000000000000000000002",
		"0x0000000000000000000000000000000000000003",
		"0x0000000000000000000000000000000000000004",
	}, order)
}

func TestFindNilRoot(t *testing.T) {
	require.Empty(t, Find(nil, func(c *Call) bool { return true }))
}

func TestFindSkipsMalformedFrames(t *testing.T) {
	root := &Call{
		Calls: []Call{
			{To: "not-an-address", Input: "0xdead"},
			{To: "", Input: "0xdead"},
			{To: inbox.Hex(), Input: "0xdead"},
		},
	}
	matches := FindCallsTo(root, inbox)
	require.Len(t, matches, 1)
	require.Equal(t, inbox.Hex(), matches[0].To)
}

func TestFindDeepNesting(t *testing.T) {
	root := &Call{To: inbox.Hex()}
	leaf := root
	for i := 0; i < 100; i++ {
		leaf.Calls = []Call{{To: inbox.Hex()}}
		leaf = &leaf.Calls[0]
	}
	start := time.Now()
	matches := FindCallsTo(root, inbox)
	require.Len(t, matches, 101)
	require.Less(t, time.Since(start), time.Second)
}

func TestFindWideTree(t *testing.T) {
	root := &Call{}
	for i := 0; i < 1000; i++ {
		root.Calls = append(root.Calls, Call{To: inbox.Hex()})
	}
	start := time.Now()
	matches := FindCallsTo(root, inbox)
	require.Len(t, matches, 1000)
	require.Less(t, time.Since(start), time.Second)
}

func TestHasInput(t *testing.T) {
	require.False(t, (&Call{}).HasInput(8))
	require.False(t, (&Call{Input: "deadbeef"}).HasInput(8))
	require.False(t, (&Call{Input: "0xdead"}).HasInput(8))
	require.True(t, (&Call{Input: "0xdeadbeef"}).HasInput(8))
}
