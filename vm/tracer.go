package vm

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/evmcore/evmcore/types"
)

// StorageChange is the before/after value of one storage slot touched by
// a step (currently only ever populated for SSTORE).
type StorageChange struct {
	Old types.U256
	New types.U256
}

// StepRecord is one dispatch-loop iteration's audit trail: the program
// counter and opcode decoded, the stack immediately before and after
// execute ran, the memory bytes and storage slots execute changed, and
// the gas this step consumed versus what remains. StackBefore/StackAfter
// are independent copies (Stack.Snapshot), never the interpreter's live
// backing slice, so a Tracer holding onto many steps never observes
// later mutation; MemoryChanges/StorageChanges are likewise computed
// from before/after snapshots, not aliased into live state.
type StepRecord struct {
	PC    uint64
	Op    OpCode
	Depth int // always 0: this interpreter runs a single frame, no CALL/CREATE nesting

	StackBefore []types.U256
	StackAfter  []types.U256

	// MemoryChanges maps a changed byte offset to its new value. Only
	// populated for opcodes that touch memory (MLOAD/MSTORE/MSTORE8, the
	// CALLDATACOPY/CODECOPY/EXTCODECOPY/RETURNDATACOPY family, KECCAK256,
	// LOG0-4, RETURN, REVERT); read-only memory access naturally yields
	// an empty map since nothing differs before/after.
	MemoryChanges map[uint64]byte

	// StorageChanges maps a touched slot to its old and new value. Only
	// SSTORE populates this, and only when the value actually changed.
	StorageChanges map[types.U256]StorageChange

	GasCost      uint64
	GasRemaining uint64
	Err          error
}

// diffMemory returns the offsets where after differs from before,
// treating any offset beyond before's length as having started at zero
// (matching Memory's own zero-fill-on-grow semantics), so a step that
// only expands memory without writing non-zero bytes reports no change.
func diffMemory(before, after []byte) map[uint64]byte {
	changes := make(map[uint64]byte)
	for i, v := range after {
		var old byte
		if i < len(before) {
			old = before[i]
		}
		if old != v {
			changes[uint64(i)] = v
		}
	}
	return changes
}

// Tracer receives a StepRecord after every successfully dispatched
// opcode. Implementations must not mutate StepRecord's slices or retain
// pointers into the interpreter itself; CaptureState must not alter
// program semantics (spec section 9).
type Tracer interface {
	CaptureState(step StepRecord)
}

// StepLogTracer is the default Tracer: it simply accumulates every step
// in order for later inspection or CSV export.
type StepLogTracer struct {
	Steps []StepRecord
}

// NewStepLogTracer returns an empty StepLogTracer.
func NewStepLogTracer() *StepLogTracer {
	return &StepLogTracer{}
}

// CaptureState appends step to the log.
func (t *StepLogTracer) CaptureState(step StepRecord) {
	t.Steps = append(t.Steps, step)
}

// WriteCSV renders the recorded steps as the CSV projection from spec
// section 6: pc, opcode, gas_consumed, gas_remaining, stack depths
// before/after, and the count of memory/storage slots the step changed
// (mirroring the original source's own to_csv, which projects the two
// change maps down to their lengths rather than dumping every entry).
func (t *StepLogTracer) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"pc", "opcode", "gas_consumed", "gas_remaining", "stack_before_depth", "stack_after_depth", "mem_changes", "storage_changes", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range t.Steps {
		errStr := ""
		if s.Err != nil {
			errStr = s.Err.Error()
		}
		row := []string{
			fmt.Sprintf("%d", s.PC),
			s.Op.String(),
			fmt.Sprintf("%d", s.GasCost),
			fmt.Sprintf("%d", s.GasRemaining),
			fmt.Sprintf("%d", len(s.StackBefore)),
			fmt.Sprintf("%d", len(s.StackAfter)),
			fmt.Sprintf("%d", len(s.MemoryChanges)),
			fmt.Sprintf("%d", len(s.StorageChanges)),
			errStr,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
