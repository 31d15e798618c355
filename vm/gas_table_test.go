package vm

import (
	"testing"

	"github.com/evmcore/evmcore/types"
)

func TestSstoreGasTransitions(t *testing.T) {
	zero := types.ZeroU256()
	a := types.NewU256FromUint64(1)
	b := types.NewU256FromUint64(2)

	cases := []struct {
		name            string
		current, newVal types.U256
		want            uint64
	}{
		{"zero->nonzero", zero, a, SstoreSet},
		{"nonzero->zero", a, zero, SstoreClear},
		{"nonzero->other nonzero", a, b, SstoreReset},
		{"same nonzero no-op", a, a, SstoreReset},
		{"same zero no-op", zero, zero, SstoreClear},
	}
	for _, c := range cases {
		if got := SstoreGas(c.current, c.newVal); got != c.want {
			t.Errorf("%s: SstoreGas = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestExpGasByteLength(t *testing.T) {
	// Zero exponent costs nothing dynamically; the opcode's constant gas
	// (GasHigh = 10) covers the "10 +" term of "10 + 10*byte_length".
	if got := ExpGas(types.ZeroU256()); got != 0 {
		t.Fatalf("ExpGas(0) = %d, want 0", got)
	}
	if got := ExpGas(types.NewU256FromUint64(255)); got != 10 {
		t.Fatalf("ExpGas(255) = %d, want 10 (1 byte)", got)
	}
	if got := ExpGas(types.NewU256FromUint64(256)); got != 20 {
		t.Fatalf("ExpGas(256) = %d, want 20 (2 bytes)", got)
	}
}

func TestKeccak256GasWordRounded(t *testing.T) {
	if got := Keccak256Gas(0); got != 0 {
		t.Fatalf("Keccak256Gas(0) = %d, want 0", got)
	}
	if got := Keccak256Gas(32); got != 6 {
		t.Fatalf("Keccak256Gas(32) = %d, want 6", got)
	}
	if got := Keccak256Gas(33); got != 12 {
		t.Fatalf("Keccak256Gas(33) = %d, want 12 (rounds up to 2 words)", got)
	}
}

func TestLogGasTopicsAndData(t *testing.T) {
	got := LogGas(2, 32)
	want := uint64(2)*GasLogTopic + 32*GasLogData
	if got != want {
		t.Fatalf("LogGas(2, 32) = %d, want %d", got, want)
	}
}
