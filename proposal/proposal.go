// Package proposal models a governance proposal as submitted for analysis:
// parallel arrays of targets, values, signatures and calldatas, exactly as
// the governor contract consumes them.
package proposal

import (
	"fmt"
	"math/big"

	"github.com/ethereum-optimism/op-seatbelt/sim"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// sourceGas is the gas budget for source-chain action simulations.
const sourceGas = 30_000_000

// Proposal is one governance proposal. The four arrays are index-aligned:
// action i calls Targets[i] with Values[i] wei and the calldata derived from
// Signatures[i] and Calldatas[i].
type Proposal struct {
	ID          string           `json:"id,omitempty"`
	Targets     []common.Address `json:"targets"`
	Values      []*hexutil.Big   `json:"values"`
	Signatures  []string         `json:"signatures,omitempty"`
	Calldatas   []hexutil.Bytes  `json:"calldatas"`
	Description string           `json:"description,omitempty"`
}

// Check rejects structurally invalid proposals. A length mismatch means the
// arrays cannot be zipped into actions, so this fails immediately instead of
// producing a partially valid simulation.
func (p *Proposal) Check() error {
	n := len(p.Targets)
	if n == 0 {
		return fmt.Errorf("proposal has no targets")
	}
	if len(p.Values) != n {
		return fmt.Errorf("proposal has %d targets but %d values", n, len(p.Values))
	}
	if len(p.Calldatas) != n {
		return fmt.Errorf("proposal has %d targets but %d calldatas", n, len(p.Calldatas))
	}
	if len(p.Signatures) != 0 && len(p.Signatures) != n {
		return fmt.Errorf("proposal has %d targets but %d signatures", n, len(p.Signatures))
	}
	return nil
}

// ActionCalldata returns the effective calldata of action i. A non-empty
// signature is hashed into a 4-byte selector and prepended to the raw
// argument bytes, matching how the timelock composes its calls; an empty
// signature means Calldatas[i] already carries the selector.
func (p *Proposal) ActionCalldata(i int) []byte {
	data := []byte(p.Calldatas[i])
	if len(p.Signatures) > i && p.Signatures[i] != "" {
		selector := crypto.Keccak256([]byte(p.Signatures[i]))[:4]
		return append(append([]byte{}, selector...), data...)
	}
	return data
}

// SimulationRequests builds one source-chain simulation request per action,
// sent from the given synthetic sender.
func (p *Proposal) SimulationRequests(networkID string, from common.Address) ([]*sim.Request, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	reqs := make([]*sim.Request, 0, len(p.Targets))
	for i, target := range p.Targets {
		value := new(big.Int)
		if p.Values[i] != nil {
			value = p.Values[i].ToInt()
		}
		reqs = append(reqs, &sim.Request{
			NetworkID: networkID,
			From:      from,
			To:        target,
			Input:     p.ActionCalldata(i),
			Value:     value.String(),
			Gas:       sourceGas,
			Save:      true,
		})
	}
	return reqs, nil
}
