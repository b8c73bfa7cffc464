package bytecode

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/require"
)

func TestScanEmpty(t *testing.T) {
	require.Equal(t, Safe, Scan(nil))
	require.Equal(t, Safe, Scan([]byte{}))
}

func TestScanSelfdestruct(t *testing.T) {
	code := []byte{byte(vm.PUSH1), 0x00, byte(vm.SELFDESTRUCT)}
	require.Equal(t, Selfdestruct, Scan(code))
}

func TestScanDelegatecall(t *testing.T) {
	code := []byte{byte(vm.DELEGATECALL), byte(vm.STOP)}
	require.Equal(t, Delegatecall, Scan(code))
}

func TestScanSelfdestructBeatsDelegatecall(t *testing.T) {
	code := []byte{byte(vm.DELEGATECALL), byte(vm.SELFDESTRUCT)}
	require.Equal(t, Selfdestruct, Scan(code))
}

// A PUSH32 whose immediate is 32 copies of the SELFDESTRUCT byte must not be
// read as an instruction stream.
func TestScanPushImmediateIsData(t *testing.T) {
	code := []byte{byte(vm.PUSH32)}
	code = append(code, bytes.Repeat([]byte{byte(vm.SELFDESTRUCT)}, 32)...)
	code = append(code, byte(vm.STOP))
	require.Equal(t, Safe, Scan(code))

	code = []byte{byte(vm.PUSH2), byte(vm.DELEGATECALL), byte(vm.SELFDESTRUCT), byte(vm.STOP)}
	require.Equal(t, Safe, Scan(code))
}

// Opcodes after an unconditional halt are unreachable until a JUMPDEST.
func TestScanDeadCodeAfterHalt(t *testing.T) {
	code := []byte{byte(vm.STOP), byte(vm.SELFDESTRUCT)}
	require.Equal(t, Safe, Scan(code))

	code = []byte{byte(vm.RETURN), byte(vm.DELEGATECALL)}
	require.Equal(t, Safe, Scan(code))

	code = []byte{byte(vm.INVALID), byte(vm.SELFDESTRUCT)}
	require.Equal(t, Safe, Scan(code))
}

func TestScanJumpdestResumesReachability(t *testing.T) {
	code := []byte{byte(vm.STOP), byte(vm.JUMPDEST), byte(vm.SELFDESTRUCT)}
	require.Equal(t, Selfdestruct, Scan(code))

	code = []byte{byte(vm.REVERT), byte(vm.JUMPDEST), byte(vm.DELEGATECALL), byte(vm.STOP)}
	require.Equal(t, Delegatecall, Scan(code))
}

// A selfdestruct reachable later in the code must still be found after a
// delegatecall was recorded.
func TestScanKeepsLookingPastDelegatecall(t *testing.T) {
	code := []byte{
		byte(vm.DELEGATECALL),
		byte(vm.STOP),
		byte(vm.JUMPDEST),
		byte(vm.SELFDESTRUCT),
	}
	require.Equal(t, Selfdestruct, Scan(code))
}

// Truncated PUSH immediates at the end of code must not run past the slice.
func TestScanTruncatedPush(t *testing.T) {
	code := []byte{byte(vm.PUSH32), 0x01, 0x02}
	require.Equal(t, Safe, Scan(code))
}
