// Package checks runs the proposal safety check battery over a completed
// simulation. Each check classifies its findings into three buckets: Errors
// for positively confirmed dangerous conditions, Warnings for suspicious but
// inconclusive ones, Info for benign or explanatory status. Incomplete
// analysis (an RPC lookup failing, a bridge message we could not parse)
// degrades Info, never Errors.
package checks

import (
	"context"
	"fmt"

	"github.com/ethereum-optimism/op-seatbelt/crosschain"
	"github.com/ethereum-optimism/op-seatbelt/sim"
	"github.com/ethereum/go-ethereum/common"
)

// Result is the outcome of one check.
type Result struct {
	Info     []string `json:"info"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Input is everything a check may inspect.
type Input struct {
	// Targets are the proposal's declared target contracts.
	Targets []common.Address
	// Sim is the source-chain simulation result.
	Sim *sim.Result
	// CrossChain is the destination replay aggregate, nil if cross-chain
	// analysis did not run.
	CrossChain *crosschain.Result
}

// TouchedAddresses returns every address the simulation touched, parsed and
// deduplicated. Unparseable entries are dropped.
func (in *Input) TouchedAddresses() []common.Address {
	if in.Sim == nil {
		return nil
	}
	seen := make(map[common.Address]struct{})
	var out []common.Address
	for _, raw := range in.Sim.Transaction.Addresses {
		if !common.IsHexAddress(raw) {
			continue
		}
		addr := common.HexToAddress(raw)
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// Check is one safety check.
type Check interface {
	Name() string
	Run(ctx context.Context, input *Input) (*Result, error)
}

// RunAll executes every check and returns results keyed by check name. A
// check returning an error gets a result whose Errors records the breakage,
// so one broken check never hides the others.
func RunAll(ctx context.Context, input *Input, checks ...Check) map[string]*Result {
	results := make(map[string]*Result, len(checks))
	for _, check := range checks {
		result, err := check.Run(ctx, input)
		if err != nil {
			result = &Result{Errors: []string{fmt.Sprintf("check failed to run: %v", err)}}
		}
		results[check.Name()] = result
	}
	return results
}
