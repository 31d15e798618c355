package vm

import (
	"math"

	"github.com/evmcore/evmcore/types"
)

// Static per-opcode base costs (Yellow Paper "G_*" constants, as used by
// this interpreter's single in-scope fork).
const (
	GasZero      uint64 = 0
	GasBase      uint64 = 2  // "base": most info ops
	GasVeryLow   uint64 = 3  // "very_low": push/dup/swap/add/sub/...
	GasLow       uint64 = 5  // "low": mul/div/mod/...
	GasMid       uint64 = 8  // "mid": addmod/mulmod
	GasHigh      uint64 = 10 // "high": exp base (jumpi has its own GasJumpi; see jump table)
	GasPop       uint64 = 2
	GasJumpdest  uint64 = 1
	GasJump      uint64 = 8
	GasJumpi     uint64 = 10
	GasSload     uint64 = 100
	GasSstoreBase uint64 = 0 // SSTORE's cost is entirely dynamic; see SstoreGas.
	GasBalance   uint64 = 100
	GasExtCode   uint64 = 100
	GasBlockhash uint64 = 20
	GasKeccak256 uint64 = 30
	GasKeccak256Word uint64 = 6
	GasMemoryWord    uint64 = 3
	GasLogBase   uint64 = 375
	GasLogTopic  uint64 = 375
	GasLogData   uint64 = 8

	// SSTORE dynamic costs, per spec section 4.6.
	SstoreSet   uint64 = 20000 // zero -> nonzero
	SstoreReset uint64 = 5000  // nonzero -> other nonzero, or a same-value no-op on a nonzero slot
	SstoreClear uint64 = 15000 // nonzero -> zero, or a same-value no-op on a zero slot
)

// MaxMemorySize bounds how far a single frame's memory may grow (32 MiB),
// a DoS guard against a legitimate-but-enormous gas limit driving an
// actual multi-gigabyte allocation. Any access that would cross it traps
// with ErrMemoryOutOfBounds rather than ever reaching Memory.Resize.
const MaxMemorySize = 32 * 1024 * 1024

// MemoryExpansionCost returns the extra gas required to grow memory from
// currentSize to cover [offset, offset+size), per the quadratic formula
//
//	cost(n) = 3*n + n^2/512   (n = word count)
//	expansion = cost(newWords) - cost(currentWords)
//
// and 0 if the touched range does not extend memory at all. It returns
// ErrMemoryOutOfBounds instead of a wrapped/garbage cost if offset+size,
// its word count, or the quadratic term would overflow a uint64, or if
// the resulting size exceeds MaxMemorySize.
func MemoryExpansionCost(currentSize, offset, size uint64) (uint64, error) {
	if size == 0 {
		return 0, nil
	}
	if offset > math.MaxUint64-size {
		return 0, ErrMemoryOutOfBounds
	}
	newSize := offset + size
	if newSize > MaxMemorySize {
		return 0, ErrMemoryOutOfBounds
	}
	if newSize <= currentSize {
		return 0, nil
	}
	cWords := wordCount(currentSize)
	nWords := wordCount(newSize)
	nCost, ok := memCost(nWords)
	if !ok {
		return 0, ErrMemoryOutOfBounds
	}
	cCost, ok := memCost(cWords)
	if !ok {
		return 0, ErrMemoryOutOfBounds
	}
	return nCost - cCost, nil
}

// memCost computes the Yellow Paper quadratic memory cost for a word
// count, reporting (0, false) instead of a wrapped result on overflow,
// mirroring the teacher's quadraticCost guard in memory_expansion.go.
func memCost(words uint64) (uint64, bool) {
	if words == 0 {
		return 0, true
	}
	if words > math.MaxUint64/words {
		return 0, false
	}
	quadratic := (words * words) / 512
	linear := words * GasMemoryWord
	total := linear + quadratic
	if total < linear {
		return 0, false
	}
	return total, true
}

// ExpGas returns the dynamic gas for EXP: 10 * byte_length(exponent),
// i.e. 10 gas per byte of the exponent's minimal big-endian
// representation (0 bytes, hence 0 gas, for a zero exponent).
func ExpGas(exponent types.U256) uint64 {
	return uint64(exponent.ByteLen()) * 10
}

// Keccak256Gas returns the dynamic gas for KECCAK256: 6 gas per 32-byte
// word of the hashed range (memory expansion is charged separately).
func Keccak256Gas(size uint64) uint64 {
	return wordCount(size) * GasKeccak256Word
}

// LogGas returns the dynamic gas for LOG0-LOG4: 375 gas per topic plus 8
// gas per byte of data (memory expansion is charged separately; the base
// 375 is the opcode's constant gas, charged by the jump table).
func LogGas(numTopics int, dataSize uint64) uint64 {
	return uint64(numTopics)*GasLogTopic + dataSize*GasLogData
}

// SstoreGas returns the gas cost for an SSTORE writing newValue to a slot
// whose current value is current, per spec section 4.6:
//
//	new == current            -> reset if current != 0, else clear
//	zero -> nonzero           -> set
//	nonzero -> zero           -> clear
//	nonzero -> other nonzero  -> reset
func SstoreGas(current, newValue types.U256) uint64 {
	if newValue.Eq(current) {
		if current.IsZero() {
			return SstoreClear
		}
		return SstoreReset
	}
	switch {
	case current.IsZero() && !newValue.IsZero():
		return SstoreSet
	case !current.IsZero() && newValue.IsZero():
		return SstoreClear
	default:
		return SstoreReset
	}
}
