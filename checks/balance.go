package checks

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// BalanceCheck reports native-token balance deltas from the simulation. A
// proposal target losing ETH is suspicious enough to warn about; everything
// else is informational.
type BalanceCheck struct {
	log log.Logger
}

var _ Check = (*BalanceCheck)(nil)

func NewBalanceCheck(logger log.Logger) *BalanceCheck {
	return &BalanceCheck{log: logger}
}

func (c *BalanceCheck) Name() string {
	return "eth-balance-changes"
}

func (c *BalanceCheck) Run(_ context.Context, input *Input) (*Result, error) {
	result := &Result{}
	if input.Sim == nil || len(input.Sim.Transaction.BalanceDiffs) == 0 {
		result.Info = append(result.Info, "no ETH balance changes")
		return result, nil
	}
	targets := make(map[common.Address]struct{}, len(input.Targets))
	for _, addr := range input.Targets {
		targets[addr] = struct{}{}
	}
	for _, diff := range input.Sim.Transaction.BalanceDiffs {
		before, okBefore := new(big.Int).SetString(diff.Original, 10)
		after, okAfter := new(big.Int).SetString(diff.Dirty, 10)
		if !okBefore || !okAfter || !common.IsHexAddress(diff.Address) {
			c.log.Warn("Skipping unparseable balance diff", "address", diff.Address)
			continue
		}
		delta := new(big.Int).Sub(after, before)
		if delta.Sign() == 0 {
			continue
		}
		addr := common.HexToAddress(diff.Address)
		line := fmt.Sprintf("%s balance changes by %s wei (%s -> %s)", addr, delta, before, after)
		if _, isTarget := targets[addr]; isTarget && delta.Sign() < 0 {
			result.Warnings = append(result.Warnings, line)
		} else {
			result.Info = append(result.Info, line)
		}
	}
	if len(result.Info) == 0 && len(result.Warnings) == 0 {
		result.Info = append(result.Info, "no ETH balance changes")
	}
	return result, nil
}
