package vm

import (
	"testing"

	"github.com/evmcore/evmcore/types"
)

func run(t *testing.T, code []byte, gasLimit uint64) (ExecutionResult, *Interpreter) {
	t.Helper()
	result, err := Validate(code, ValidatorConfig{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	frame := Frame{
		Callee: types.HexToAddress("0x01"),
		Caller: types.HexToAddress("0x02"),
		Code:   types.Bytes(code),
	}
	world := NewWorld()
	meter := NewMeter(gasLimit)
	in := NewInterpreter(frame, world, meter, Config{}, result.Jumpdests)
	return in.Run(), in
}

func TestScenarioAdd(t *testing.T) {
	code := []byte{byte(PUSH1), 2, byte(PUSH1), 3, byte(ADD), byte(STOP)}
	res, in := run(t, code, 1000)
	if !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}
	if res.GasUsed != 9 {
		t.Fatalf("gas_used = %d, want 9", res.GasUsed)
	}
	top, err := in.stack.PeekAt(0)
	if err != nil || top.Uint64() != 5 {
		t.Fatalf("top = %v (%v), want 5", top, err)
	}
	if len(res.ReturnData) != 0 {
		t.Fatalf("return data should be empty, got %x", res.ReturnData)
	}
}

func TestScenarioDivByZero(t *testing.T) {
	code := []byte{byte(PUSH1), 0, byte(PUSH1), 5, byte(DIV), byte(STOP)}
	res, in := run(t, code, 1000)
	if !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}
	if res.GasUsed != 11 {
		t.Fatalf("gas_used = %d, want 11", res.GasUsed)
	}
	top, _ := in.stack.PeekAt(0)
	if !top.IsZero() {
		t.Fatalf("5/0 should be 0, got %s", top)
	}
}

func TestScenarioSstoreThenSload(t *testing.T) {
	code := []byte{
		byte(PUSH1), 42,
		byte(PUSH1), 1,
		byte(SSTORE),
		byte(PUSH1), 1,
		byte(SLOAD),
		byte(STOP),
	}
	res, in := run(t, code, 25000)
	if !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}
	top, _ := in.stack.PeekAt(0)
	if top.Uint64() != 42 {
		t.Fatalf("top after SLOAD = %d, want 42", top.Uint64())
	}
	got := in.world.GetStorage(in.Frame.Callee, types.NewU256FromUint64(1))
	if got.Uint64() != 42 {
		t.Fatalf("storage[callee][1] = %d, want 42", got.Uint64())
	}
}

func TestScenarioBadJump(t *testing.T) {
	code := []byte{byte(PUSH1), 5, byte(JUMP), byte(STOP)}
	res, _ := run(t, code, 1000)
	if res.Success {
		t.Fatalf("expected trap, got success")
	}
	if res.Err != ErrInvalidJumpDestination {
		t.Fatalf("err = %v, want ErrInvalidJumpDestination", res.Err)
	}
}

func TestScenarioValidJump(t *testing.T) {
	code := []byte{
		byte(PUSH1), 4,
		byte(JUMP),
		byte(STOP),
		byte(JUMPDEST),
		byte(STOP),
	}
	res, _ := run(t, code, 1000)
	if !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}
}

func TestScenarioLog0(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x20,
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 0x20,
		byte(PUSH1), 0,
		byte(LOG0),
		byte(STOP),
	}
	res, _ := run(t, code, 1000)
	if !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}
	if len(res.Logs) != 1 {
		t.Fatalf("logs = %d entries, want 1", len(res.Logs))
	}
	entry := res.Logs[0]
	if len(entry.Topics) != 0 {
		t.Fatalf("topics = %d, want 0", len(entry.Topics))
	}
	if len(entry.Data) != 32 {
		t.Fatalf("data length = %d, want 32", len(entry.Data))
	}
	if entry.Data[31] != 0x20 {
		t.Fatalf("data[31] = %x, want 0x20", entry.Data[31])
	}
}

func TestScenarioOutOfGas(t *testing.T) {
	code := []byte{byte(PUSH1), 2, byte(PUSH1), 3, byte(ADD), byte(STOP)}
	const required = 9
	res, _ := run(t, code, required-1)
	if res.Success {
		t.Fatalf("expected OutOfGas trap, got success")
	}
	if res.Err != ErrOutOfGas {
		t.Fatalf("err = %v, want ErrOutOfGas", res.Err)
	}
	if res.GasUsed != required-1 {
		t.Fatalf("gas_used = %d, want %d", res.GasUsed, required-1)
	}
	if res.GasRemaining != 0 {
		t.Fatalf("gas_remaining = %d, want 0", res.GasRemaining)
	}
}

func TestScenarioMemoryOffsetOverflowTraps(t *testing.T) {
	// MSTORE(offset=2^60, value=0): an astronomically large but
	// uint64-valid offset must trap cleanly, never panic or silently
	// wrap into a tiny/garbage gas charge.
	code := []byte{
		byte(PUSH1), 0,
		byte(PUSH8), 0x10, 0, 0, 0, 0, 0, 0, 0,
		byte(MSTORE),
		byte(STOP),
	}
	res, _ := run(t, code, 1_000_000_000)
	if res.Success {
		t.Fatalf("expected trap, got success")
	}
	if res.Err != ErrMemoryOutOfBounds {
		t.Fatalf("err = %v, want ErrMemoryOutOfBounds", res.Err)
	}
}

func TestGasUsedPlusRemainingEqualsLimit(t *testing.T) {
	code := []byte{byte(PUSH1), 2, byte(PUSH1), 3, byte(ADD), byte(STOP)}
	res, _ := run(t, code, 1000)
	if res.GasUsed+res.GasRemaining != 1000 {
		t.Fatalf("gas_used + gas_remaining = %d, want 1000", res.GasUsed+res.GasRemaining)
	}
}
