// Package sim talks to the transaction simulation backend. The backend is an
// external service: the core only produces requests for it and consumes the
// structured result (status, call trace, decoded logs, touched addresses).
package sim

import (
	"context"

	"github.com/ethereum-optimism/op-seatbelt/trace"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Request describes one simulation to run. The same shape is used for the
// source-chain proposal simulation and for every destination-chain replay.
type Request struct {
	NetworkID string         `json:"network_id"`
	From      common.Address `json:"from"`
	To        common.Address `json:"to"`
	Input     hexutil.Bytes  `json:"input"`
	Value     string         `json:"value"`
	Gas       uint64         `json:"gas"`
	GasPrice  string         `json:"gas_price"`
	Save      bool           `json:"save"`

	// StateOverrides pre-seeds account state, used by the proposal layer to
	// simulate a queued-and-passed proposal before it exists on chain.
	StateOverrides map[common.Address]StateOverride `json:"state_objects,omitempty"`
}

// StateOverride replaces parts of an account's state for the simulation.
type StateOverride struct {
	Balance string                       `json:"balance,omitempty"`
	Storage map[common.Hash]common.Hash  `json:"storage,omitempty"`
}

// Result is the backend's response to a Request.
type Result struct {
	Transaction Transaction `json:"transaction"`
}

// Transaction is the executed-transaction section of a Result.
type Transaction struct {
	Status       bool          `json:"status"`
	GasUsed      uint64        `json:"gas_used"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Addresses    []string      `json:"addresses,omitempty"`
	CallTrace    *trace.Call   `json:"call_trace,omitempty"`
	Logs         []Log         `json:"logs,omitempty"`
	BalanceDiffs []BalanceDiff `json:"balance_diff,omitempty"`
}

// Log is one decoded (or raw, if decoding failed upstream) event log.
type Log struct {
	Name   string       `json:"name,omitempty"`
	Raw    RawLog       `json:"raw"`
	Inputs []DecodedArg `json:"inputs,omitempty"`
}

// RawLog carries the undecoded event fields.
type RawLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// DecodedArg is one named event argument.
type DecodedArg struct {
	Name  string `json:"soltype_name,omitempty"`
	Value any    `json:"value,omitempty"`
}

// BalanceDiff is a native-token balance change of one address, decimal wei.
type BalanceDiff struct {
	Address  string `json:"address"`
	Original string `json:"original"`
	Dirty    string `json:"dirty"`
}

// Backend executes simulations. Implemented by Client and by test stubs.
type Backend interface {
	// Simulate runs one simulation. Transport and rate-limit retries are the
	// implementation's responsibility; execution reverts are not errors and
	// surface as Transaction.Status == false.
	Simulate(ctx context.Context, req *Request) (*Result, error)
	// SupportsChain reports whether the backend can simulate against the
	// given chain ID (decimal string).
	SupportsChain(chainID string) bool
}
