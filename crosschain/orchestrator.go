// Package crosschain replays extracted L1→L2 messages against their
// destination chains and aggregates the per-destination outcomes.
package crosschain

import (
	"context"
	"fmt"

	"github.com/ethereum-optimism/op-seatbelt/bridge"
	"github.com/ethereum-optimism/op-seatbelt/metrics"
	"github.com/ethereum-optimism/op-seatbelt/sim"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of one destination simulation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	// StatusSkipped means the destination chain is not supported by the
	// simulation backend. Skips do not count as cross-chain failures.
	StatusSkipped Status = "skipped"
)

// destinationGas is the gas budget given to each destination replay. Bridge
// relays execute with ample gas on the destination, so the replay gets a
// block-sized budget rather than the minGasLimit hints from the calldata.
const destinationGas = 30_000_000

// DestinationResult is the outcome of replaying one message.
type DestinationResult struct {
	ChainID string          `json:"chainId"`
	Bridge  bridge.Type     `json:"bridgeType"`
	Status  Status          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Sim     *sim.Result     `json:"sim,omitempty"`
	Message *bridge.Message `json:"l2Params"`
}

// Result combines the source simulation with all destination replays.
type Result struct {
	Source            *sim.Result         `json:"sim"`
	Destinations      []DestinationResult `json:"destinationSimulations"`
	CrossChainFailure bool                `json:"crossChainFailure"`
}

// Orchestrator runs the bridge parsers over a source simulation and
// dispatches one destination simulation per extracted message.
type Orchestrator struct {
	log           log.Logger
	backend       sim.Backend
	metrics       metrics.Metricer
	parsers       []bridge.Parser
	defaultSender common.Address
}

func NewOrchestrator(logger log.Logger, backend sim.Backend, m metrics.Metricer, defaultSender common.Address, parsers ...bridge.Parser) *Orchestrator {
	return &Orchestrator{
		log:           logger,
		backend:       backend,
		metrics:       m,
		parsers:       parsers,
		defaultSender: defaultSender,
	}
}

// Run extracts and replays every cross-chain message of the source
// simulation. A failed source simulation short-circuits: its L2 effects are
// unreachable, so no destination work is attempted. Destination failures are
// captured per message and never abort the siblings.
func (o *Orchestrator) Run(ctx context.Context, source *sim.Result) *Result {
	result := &Result{Source: source}
	if source == nil || !source.Transaction.Status {
		o.log.Info("Source simulation did not succeed, skipping cross-chain analysis")
		return result
	}

	set := make(bridge.Set)
	for _, parser := range o.parsers {
		msgs := parser.Parse(source.Transaction.CallTrace)
		o.metrics.RecordMessagesExtracted(parser.Name(), len(msgs))
		for _, msg := range msgs {
			set.Add(msg)
		}
	}
	msgs := set.Messages()
	if len(msgs) == 0 {
		return result
	}
	o.log.Info("Replaying extracted cross-chain messages", "count", len(msgs))

	// One independent result slot per message; a slow or failing
	// destination never blocks or poisons its siblings.
	result.Destinations = make([]DestinationResult, len(msgs))
	var group errgroup.Group
	for i, msg := range msgs {
		group.Go(func() error {
			result.Destinations[i] = o.replay(ctx, msg)
			return nil
		})
	}
	_ = group.Wait() // the closures never error; outcomes live in the slots

	for _, dest := range result.Destinations {
		o.metrics.RecordDestinationSimulation(dest.ChainID, string(dest.Status))
		if dest.Status == StatusFailure {
			result.CrossChainFailure = true
		}
	}
	return result
}

func (o *Orchestrator) replay(ctx context.Context, msg *bridge.Message) DestinationResult {
	dest := DestinationResult{
		ChainID: msg.DestinationChainID,
		Bridge:  msg.Bridge,
		Message: msg,
	}
	if !o.backend.SupportsChain(msg.DestinationChainID) {
		dest.Status = StatusSkipped
		dest.Error = fmt.Sprintf("destination chain %s is not supported by the simulation backend", msg.DestinationChainID)
		o.log.Info("Skipping destination simulation", "chain", msg.DestinationChainID, "bridge", msg.Bridge)
		return dest
	}

	from := o.defaultSender
	if msg.From != nil {
		from = *msg.From
	}
	value := "0"
	if msg.Value != nil {
		value = msg.Value.String()
	}
	simResult, err := o.backend.Simulate(ctx, &sim.Request{
		NetworkID: msg.DestinationChainID,
		From:      from,
		To:        msg.Target,
		Input:     msg.Input,
		Value:     value,
		Gas:       destinationGas,
	})
	switch {
	case err != nil:
		dest.Status = StatusFailure
		dest.Error = err.Error()
		o.log.Warn("Destination simulation errored", "chain", msg.DestinationChainID, "err", err)
	case !simResult.Transaction.Status:
		dest.Status = StatusFailure
		dest.Sim = simResult
		dest.Error = simResult.Transaction.ErrorMessage
		if dest.Error == "" {
			dest.Error = "execution reverted"
		}
		o.log.Warn("Destination simulation reverted", "chain", msg.DestinationChainID, "reason", dest.Error)
	default:
		dest.Status = StatusSuccess
		dest.Sim = simResult
	}
	return dest
}
