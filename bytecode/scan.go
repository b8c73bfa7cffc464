// Package bytecode implements a linear reachability scan over raw EVM
// bytecode, classifying contracts by whether a SELFDESTRUCT or DELEGATECALL
// opcode is reachable. This is a cheap heuristic for a warning system, not a
// sound static analysis: it tracks only straight-line halting and JUMPDEST
// re-entry, so it can mis-approximate reachability in both directions.
package bytecode

import "github.com/ethereum/go-ethereum/core/vm"

// Classification is the scan outcome for a contract's code. The layers above
// handle EOA/empty/trusted before bytecode is ever fetched.
type Classification string

const (
	// Safe means neither opcode was found in reachable code.
	Safe Classification = "safe"
	// Delegatecall means a reachable DELEGATECALL was found and no
	// reachable SELFDESTRUCT.
	Delegatecall Classification = "delegatecall"
	// Selfdestruct means a reachable SELFDESTRUCT was found.
	Selfdestruct Classification = "selfdestruct"
)

// Scan walks code one opcode at a time. PUSH immediates are skipped so that
// literal bytes are never misread as instructions. After a halting opcode
// (STOP, RETURN, REVERT, INVALID, SELFDESTRUCT) subsequent bytes are treated
// as unreachable until the next JUMPDEST. A reachable SELFDESTRUCT wins over
// any number of DELEGATECALLs and returns immediately.
func Scan(code []byte) Classification {
	var (
		halted       bool
		delegatecall bool
	)
	for i := 0; i < len(code); i++ {
		op := vm.OpCode(code[i])
		switch {
		case op >= vm.PUSH1 && op <= vm.PUSH32:
			i += int(op - vm.PUSH1 + 1)
		case op == vm.SELFDESTRUCT:
			if !halted {
				return Selfdestruct
			}
		case op == vm.DELEGATECALL:
			if !halted {
				delegatecall = true
			}
		case op == vm.JUMPDEST:
			halted = false
		}
		switch op {
		case vm.STOP, vm.RETURN, vm.REVERT, vm.INVALID, vm.SELFDESTRUCT:
			halted = true
		}
	}
	if delegatecall {
		return Delegatecall
	}
	return Safe
}
