package proposal

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func validProposal() *Proposal {
	return &Proposal{
		Targets:   []common.Address{{0x01}, {0x02}},
		Values:    []*hexutil.Big{(*hexutil.Big)(big.NewInt(0)), (*hexutil.Big)(big.NewInt(5))},
		Calldatas: []hexutil.Bytes{{0xaa}, {0xbb}},
	}
}

func TestCheckRejectsLengthMismatch(t *testing.T) {
	p := validProposal()
	require.NoError(t, p.Check())

	p.Values = p.Values[:1]
	require.ErrorContains(t, p.Check(), "values")

	p = validProposal()
	p.Calldatas = append(p.Calldatas, hexutil.Bytes{0xcc})
	require.ErrorContains(t, p.Check(), "calldatas")

	p = validProposal()
	p.Signatures = []string{"transfer(address,uint256)"}
	require.ErrorContains(t, p.Check(), "signatures")

	require.ErrorContains(t, (&Proposal{}).Check(), "no targets")
}

func TestActionCalldataPrependsSelector(t *testing.T) {
	p := validProposal()
	p.Signatures = []string{"transfer(address,uint256)", ""}

	selector := crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]
	require.Equal(t, append(append([]byte{}, selector...), 0xaa), p.ActionCalldata(0))
	// Empty signature: calldata already carries the selector.
	require.Equal(t, []byte{0xbb}, p.ActionCalldata(1))
}

func TestSimulationRequests(t *testing.T) {
	from := common.HexToAddress("0x00000000000000000000000000000000000badd1")
	reqs, err := validProposal().SimulationRequests("1", from)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	require.Equal(t, "1", reqs[0].NetworkID)
	require.Equal(t, from, reqs[0].From)
	require.Equal(t, common.Address{0x02}, reqs[1].To)
	require.Equal(t, "5", reqs[1].Value)

	broken := validProposal()
	broken.Values = nil
	_, err = broken.SimulationRequests("1", from)
	require.Error(t, err)
}
