package vm

import "github.com/evmcore/evmcore/types"

// Memory is the EVM's lazily-grown, byte-addressable working memory.
// Reads past the current length return zeros without growing the
// backing store; writes grow it to cover the write. Growth always rounds
// up to a whole 32-byte word, matching the gas model's word-based pricing.
type Memory struct {
	store []byte
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len reports the current size of memory in bytes (always a multiple of
// 32 once anything has been written).
func (m *Memory) Len() uint64 { return uint64(len(m.store)) }

// Resize grows memory to cover `size` bytes (rounded up to a whole word)
// if it is not already that large. It never shrinks memory.
func (m *Memory) Resize(size uint64) {
	words := wordCount(size)
	need := words * 32
	if uint64(len(m.store)) >= need {
		return
	}
	grown := make([]byte, need)
	copy(grown, m.store)
	m.store = grown
}

// Read returns exactly `size` bytes starting at offset, zero-filling any
// portion that lies beyond the current length. It does not grow memory;
// callers that intend to touch new memory must Resize first (and pay the
// associated gas) so MSIZE and the gas meter stay consistent.
func (m *Memory) Read(offset, size uint64) []byte {
	out := make([]byte, size)
	if size == 0 || offset >= uint64(len(m.store)) {
		return out
	}
	end := offset + size
	if end > uint64(len(m.store)) {
		end = uint64(len(m.store))
	}
	copy(out, m.store[offset:end])
	return out
}

// Write overwrites memory at offset with value, growing memory first if
// the write extends past the current length.
func (m *Memory) Write(offset uint64, value []byte) {
	if len(value) == 0 {
		return
	}
	m.Resize(offset + uint64(len(value)))
	copy(m.store[offset:], value)
}

// Write32 writes the big-endian 32-byte encoding of v at offset (MSTORE).
func (m *Memory) Write32(offset uint64, v types.U256) {
	b := v.ToBytesBE()
	m.Write(offset, b[:])
}

// Write8 writes the single low-order byte of v at offset (MSTORE8).
func (m *Memory) Write8(offset uint64, v types.U256) {
	b := v.ToBytesBE()
	m.Write(offset, b[31:32])
}

// Copy moves `size` bytes from src to dst within memory (MCOPY), growing
// memory to cover the larger of the two ranges first. The source region
// is buffered before the write so overlapping ranges behave as if copied
// via an independent scratch buffer.
func (m *Memory) Copy(dst, src, size uint64) {
	if size == 0 {
		return
	}
	end := dst
	if src+size > end {
		end = src + size
	}
	if dst+size > end {
		end = dst + size
	}
	m.Resize(end)
	tmp := make([]byte, size)
	copy(tmp, m.store[src:src+size])
	copy(m.store[dst:dst+size], tmp)
}

// Data returns the full backing slice. Callers must treat it as
// read-only; the tracer and RETURN/REVERT paths copy out of it.
func (m *Memory) Data() []byte { return m.store }

// wordCount rounds size up to a whole number of 32-byte words.
func wordCount(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	return (size + 31) / 32
}
