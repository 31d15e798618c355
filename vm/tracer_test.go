package vm

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/evmcore/evmcore/types"
)

func TestDiffMemoryGrowthWithoutWriteReportsNoChange(t *testing.T) {
	before := []byte{}
	after := make([]byte, 32)
	if changes := diffMemory(before, after); len(changes) != 0 {
		t.Fatalf("zero-filled growth should report no changes, got %v", changes)
	}
}

func TestDiffMemoryReportsWrittenBytes(t *testing.T) {
	before := make([]byte, 32)
	after := make([]byte, 32)
	after[31] = 0x42
	changes := diffMemory(before, after)
	if len(changes) != 1 || changes[31] != 0x42 {
		t.Fatalf("want {31: 0x42}, got %v", changes)
	}
}

func TestTracerCapturesMstoreMemoryChange(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x42,
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(STOP),
	}
	result, err := Validate(code, ValidatorConfig{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	tracer := NewStepLogTracer()
	frame := Frame{Callee: types.HexToAddress("0x01"), Code: types.Bytes(code)}
	in := NewInterpreter(frame, NewWorld(), NewMeter(1000), Config{Tracer: tracer}, result.Jumpdests)
	res := in.Run()
	if !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}

	var mstoreStep *StepRecord
	for i := range tracer.Steps {
		if tracer.Steps[i].Op == MSTORE {
			mstoreStep = &tracer.Steps[i]
		}
	}
	if mstoreStep == nil {
		t.Fatalf("expected an MSTORE step")
	}
	if len(mstoreStep.MemoryChanges) != 1 {
		t.Fatalf("want 1 changed byte, got %d: %v", len(mstoreStep.MemoryChanges), mstoreStep.MemoryChanges)
	}
	if mstoreStep.MemoryChanges[31] != 0x42 {
		t.Fatalf("want offset 31 = 0x42, got %v", mstoreStep.MemoryChanges)
	}
}

func TestTracerCapturesSstoreStorageChange(t *testing.T) {
	code := []byte{
		byte(PUSH1), 7,
		byte(PUSH1), 1,
		byte(SSTORE),
		byte(STOP),
	}
	result, err := Validate(code, ValidatorConfig{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	tracer := NewStepLogTracer()
	frame := Frame{Callee: types.HexToAddress("0x01"), Code: types.Bytes(code)}
	in := NewInterpreter(frame, NewWorld(), NewMeter(25000), Config{Tracer: tracer}, result.Jumpdests)
	res := in.Run()
	if !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}

	var sstoreStep *StepRecord
	for i := range tracer.Steps {
		if tracer.Steps[i].Op == SSTORE {
			sstoreStep = &tracer.Steps[i]
		}
	}
	if sstoreStep == nil {
		t.Fatalf("expected an SSTORE step")
	}
	key := types.NewU256FromUint64(1)
	change, ok := sstoreStep.StorageChanges[key]
	if !ok {
		t.Fatalf("expected a storage change recorded for slot 1, got %v", sstoreStep.StorageChanges)
	}
	if !change.Old.IsZero() || change.New.Uint64() != 7 {
		t.Fatalf("want old=0 new=7, got old=%s new=%s", change.Old, change.New)
	}
}

func TestWriteCSVReportsNonZeroChangeCounts(t *testing.T) {
	code := []byte{
		byte(PUSH1), 7,
		byte(PUSH1), 1,
		byte(SSTORE),
		byte(STOP),
	}
	result, err := Validate(code, ValidatorConfig{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	tracer := NewStepLogTracer()
	frame := Frame{Callee: types.HexToAddress("0x01"), Code: types.Bytes(code)}
	in := NewInterpreter(frame, NewWorld(), NewMeter(25000), Config{Tracer: tracer}, result.Jumpdests)
	if res := in.Run(); !res.Success {
		t.Fatalf("expected success, err=%v", res.Err)
	}

	var buf strings.Builder
	if err := tracer.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing emitted CSV: %v", err)
	}
	header := rows[0]
	memCol, storageCol, opCol := -1, -1, -1
	for i, h := range header {
		switch h {
		case "mem_changes":
			memCol = i
		case "storage_changes":
			storageCol = i
		case "opcode":
			opCol = i
		}
	}
	if memCol < 0 || storageCol < 0 || opCol < 0 {
		t.Fatalf("header missing expected columns: %v", header)
	}

	found := false
	for _, row := range rows[1:] {
		if row[opCol] == "SSTORE" && row[storageCol] == "1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an SSTORE row with a storage_changes count of 1, got:\n%s", out)
	}
}
