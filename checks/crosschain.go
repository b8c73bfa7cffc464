package checks

import (
	"context"
	"fmt"

	"github.com/ethereum-optimism/op-seatbelt/crosschain"
	"github.com/ethereum/go-ethereum/log"
)

// CrossChainCheck folds the destination replay aggregate into the check
// result shape. Destination reverts are warnings rather than errors: a
// revert can be an artifact of the simulation environment, and parsing
// incompleteness only ever reduces Info.
type CrossChainCheck struct {
	log log.Logger
}

var _ Check = (*CrossChainCheck)(nil)

func NewCrossChainCheck(logger log.Logger) *CrossChainCheck {
	return &CrossChainCheck{log: logger}
}

func (c *CrossChainCheck) Name() string {
	return "cross-chain-messages"
}

func (c *CrossChainCheck) Run(_ context.Context, input *Input) (*Result, error) {
	result := &Result{}
	if input.CrossChain == nil || len(input.CrossChain.Destinations) == 0 {
		result.Info = append(result.Info, "no cross-chain messages detected")
		return result, nil
	}
	for _, dest := range input.CrossChain.Destinations {
		switch dest.Status {
		case crosschain.StatusSuccess:
			result.Info = append(result.Info, fmt.Sprintf(
				"%s message to %s on chain %s simulated successfully",
				dest.Bridge, dest.Message.Target, dest.ChainID))
		case crosschain.StatusSkipped:
			result.Info = append(result.Info, fmt.Sprintf(
				"%s message to %s on chain %s was not simulated: %s",
				dest.Bridge, dest.Message.Target, dest.ChainID, dest.Error))
		case crosschain.StatusFailure:
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%s message to %s on chain %s failed: %s",
				dest.Bridge, dest.Message.Target, dest.ChainID, dest.Error))
		}
	}
	return result, nil
}
