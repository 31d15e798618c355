package vm

import "github.com/evmcore/evmcore/types"

// Each executionFunc assumes its opcode's arity has already been checked
// and its gas already charged by the dispatch loop (interpreter.go); it
// only performs the stack/memory/storage mutation and, for JUMP/JUMPI,
// sets in.Frame.pc directly.

func opStop(in *Interpreter) ([]byte, error) {
	return nil, nil
}

func opAdd(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Add(b))
}

func opMul(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Mul(b))
}

func opSub(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Sub(b))
}

func opDiv(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Div(b))
}

func opSdiv(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.SDiv(b))
}

func opMod(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Mod(b))
}

func opSmod(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.SMod(b))
}

func opAddmod(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	m, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.AddMod(b, m))
}

func opMulmod(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	m, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.MulMod(b, m))
}

// opExp pops base then exponent (base on top), matching EVM stack layout
// where the dynamic-gas peek in gasExp (jump_table.go) reads the exponent
// at depth 1, the second operand from the top.
func opExp(in *Interpreter) ([]byte, error) {
	base, exponent, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(base.Exp(exponent))
}

func opSignExtend(in *Interpreter) ([]byte, error) {
	b, x, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(x.SignExtend(b))
}

func opLt(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(boolU256(a.Lt(b)))
}

func opGt(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(boolU256(a.Gt(b)))
}

// opSlt is a true signed compare; the source's degenerate unsigned
// shortcut is not reproduced here.
func opSlt(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(boolU256(a.Slt(b)))
}

func opSgt(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(boolU256(a.Sgt(b)))
}

func opEq(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(boolU256(a.Eq(b)))
}

func opIszero(in *Interpreter) ([]byte, error) {
	a, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(boolU256(a.IsZero()))
}

func opAnd(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.And(b))
}

func opOr(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Or(b))
}

func opXor(in *Interpreter) ([]byte, error) {
	a, b, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Xor(b))
}

func opNot(in *Interpreter) ([]byte, error) {
	a, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(a.Not())
}

func opByte(in *Interpreter) ([]byte, error) {
	i, x, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(x.Byte(i))
}

func opShl(in *Interpreter) ([]byte, error) {
	shift, value, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(value.Lsh(shiftAmount(shift)))
}

func opShr(in *Interpreter) ([]byte, error) {
	shift, value, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(value.Rsh(shiftAmount(shift)))
}

func opSar(in *Interpreter) ([]byte, error) {
	shift, value, err := in.pop2()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(value.Sar(shiftAmount(shift)))
}

// shiftAmount turns a shift-count operand into a uint, pinning anything
// that does not fit a uint64 to something >= 256 so Lsh/Rsh/Sar's own
// >=256 rule takes over.
func shiftAmount(v types.U256) uint {
	n, err := v.Uint64Safe()
	if err != nil || n >= 256 {
		return 256
	}
	return uint(n)
}

func opKeccak256(in *Interpreter) ([]byte, error) {
	offset, size, err := in.pop2()
	if err != nil {
		return nil, err
	}
	off, sz, err := in.memRangeUint64(offset, size)
	if err != nil {
		return nil, err
	}
	data := in.memory.Read(off, sz)
	return nil, in.stack.Push(types.U256FromBytesBE(Keccak256(data)))
}

func opAddress(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.U256FromBytesBE(in.Frame.Callee.Bytes()))
}

func opBalance(in *Interpreter) ([]byte, error) {
	a, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	bal := in.world.GetBalance(a.Address())
	return nil, in.stack.Push(bal)
}

func opOrigin(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.U256FromBytesBE(in.Frame.TxContext.Origin.Bytes()))
}

func opCaller(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.U256FromBytesBE(in.Frame.Caller.Bytes()))
}

func opCallValue(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.Value)
}

func opCallDataLoad(in *Interpreter) ([]byte, error) {
	off, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(types.U256FromBytesBE(readPadded(in.Frame.Input, off)))
}

func opCallDataSize(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.NewU256FromUint64(uint64(len(in.Frame.Input))))
}

func opCallDataCopy(in *Interpreter) ([]byte, error) {
	return nil, in.copyToMemory(in.Frame.Input)
}

func opCodeSize(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.NewU256FromUint64(uint64(len(in.Frame.Code))))
}

func opCodeCopy(in *Interpreter) ([]byte, error) {
	return nil, in.copyToMemory(in.Frame.Code)
}

func opGasPrice(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.TxContext.GasPrice)
}

func opExtCodeSize(in *Interpreter) ([]byte, error) {
	a, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(types.NewU256FromUint64(uint64(len(in.world.GetCode(a.Address())))))
}

func opExtCodeCopy(in *Interpreter) ([]byte, error) {
	a, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.copyToMemory(in.world.GetCode(a.Address()))
}

func opReturnDataSize(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.NewU256FromUint64(uint64(len(in.Frame.lastReturnData))))
}

func opReturnDataCopy(in *Interpreter) ([]byte, error) {
	return nil, in.copyToMemory(in.Frame.lastReturnData)
}

func opExtCodeHash(in *Interpreter) ([]byte, error) {
	a, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	acct := in.world.Account(a.Address())
	if acct == nil {
		return nil, in.stack.Push(types.ZeroU256())
	}
	return nil, in.stack.Push(types.HashToU256(acct.CodeHash()))
}

func opBlockHash(in *Interpreter) ([]byte, error) {
	n, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	if in.Frame.BlockContext.GetHash == nil {
		return nil, in.stack.Push(types.ZeroU256())
	}
	return nil, in.stack.Push(types.HashToU256(in.Frame.BlockContext.GetHash(n)))
}

func opCoinbase(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.U256FromBytesBE(in.Frame.BlockContext.Coinbase.Bytes()))
}

func opTimestamp(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.BlockContext.Timestamp)
}

func opNumber(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.BlockContext.Number)
}

func opDifficulty(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.BlockContext.Difficulty)
}

func opGasLimit(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.BlockContext.GasLimit)
}

func opChainID(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.BlockContext.ChainID)
}

func opSelfBalance(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.world.GetBalance(in.Frame.Callee))
}

func opBaseFee(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(in.Frame.BlockContext.BaseFee)
}

func opPop(in *Interpreter) ([]byte, error) {
	_, err := in.stack.Pop()
	return nil, err
}

func opMload(in *Interpreter) ([]byte, error) {
	off, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	offU, err := off.Uint64Safe()
	if err != nil {
		return nil, ErrMemoryOutOfBounds
	}
	return nil, in.stack.Push(types.U256FromBytesBE(in.memory.Read(offU, 32)))
}

func opMstore(in *Interpreter) ([]byte, error) {
	off, val, err := in.pop2()
	if err != nil {
		return nil, err
	}
	offU, err := off.Uint64Safe()
	if err != nil {
		return nil, ErrMemoryOutOfBounds
	}
	in.memory.Write32(offU, val)
	return nil, nil
}

func opMstore8(in *Interpreter) ([]byte, error) {
	off, val, err := in.pop2()
	if err != nil {
		return nil, err
	}
	offU, err := off.Uint64Safe()
	if err != nil {
		return nil, ErrMemoryOutOfBounds
	}
	in.memory.Write8(offU, val)
	return nil, nil
}

func opSload(in *Interpreter) ([]byte, error) {
	key, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.stack.Push(in.world.GetStorage(in.Frame.Callee, key))
}

func opSstore(in *Interpreter) ([]byte, error) {
	key, val, err := in.pop2()
	if err != nil {
		return nil, err
	}
	in.world.SetStorage(in.Frame.Callee, key, val)
	return nil, nil
}

// opJump and opJumpi set in.Frame.pc directly; the dispatch loop skips
// its own pc++ for any operation marked jumps in the jump table.
func opJump(in *Interpreter) ([]byte, error) {
	target, err := in.stack.Pop()
	if err != nil {
		return nil, err
	}
	return nil, in.jumpTo(target)
}

func opJumpi(in *Interpreter) ([]byte, error) {
	target, cond, err := in.pop2()
	if err != nil {
		return nil, err
	}
	if cond.IsZero() {
		in.Frame.pc++
		return nil, nil
	}
	return nil, in.jumpTo(target)
}

func (in *Interpreter) jumpTo(target types.U256) error {
	t, err := target.Uint64Safe()
	if err != nil {
		return ErrInvalidJumpDestination
	}
	if !in.jumpdests[t] {
		return ErrInvalidJumpDestination
	}
	in.Frame.pc = t
	return nil
}

func opPC(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.NewU256FromUint64(in.Frame.pc))
}

func opMsize(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.NewU256FromUint64(in.memory.Len()))
}

func opGas(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.NewU256FromUint64(in.meter.Available()))
}

func opJumpdest(in *Interpreter) ([]byte, error) {
	return nil, nil
}

func opPush0(in *Interpreter) ([]byte, error) {
	return nil, in.stack.Push(types.ZeroU256())
}

// makeOpPush returns an executionFunc that reads n immediate bytes
// starting at pc+1, zero-extends them into a U256, and advances pc by
// 1+n. A truncated immediate (code too short) traps with
// ErrInvalidInstruction; the validator rejects such code before execution.
func makeOpPush(n int) executionFunc {
	return func(in *Interpreter) ([]byte, error) {
		start := in.Frame.pc + 1
		code := in.Frame.Code
		if start+uint64(n) > uint64(len(code)) {
			return nil, ErrInvalidInstruction
		}
		var buf [32]byte
		for i := 0; i < n; i++ {
			buf[32-n+i] = code[start+uint64(i)]
		}
		if err := in.stack.Push(types.U256FromBytesBE(buf[:])); err != nil {
			return nil, err
		}
		in.Frame.pc += uint64(1 + n)
		return nil, nil
	}
}

func makeOpDup(d int) executionFunc {
	return func(in *Interpreter) ([]byte, error) {
		return nil, in.stack.Dup(d - 1)
	}
}

func makeOpSwap(d int) executionFunc {
	return func(in *Interpreter) ([]byte, error) {
		return nil, in.stack.Swap(d)
	}
}

// makeOpLog pops (offset, size) then n topics (top of stack first) and
// appends a log entry sourced from the current memory window.
func makeOpLog(n int) executionFunc {
	return func(in *Interpreter) ([]byte, error) {
		offset, size, err := in.pop2()
		if err != nil {
			return nil, err
		}
		off, sz, err := in.memRangeUint64(offset, size)
		if err != nil {
			return nil, err
		}
		topics := make([]types.Hash, n)
		for i := 0; i < n; i++ {
			t, err := in.stack.Pop()
			if err != nil {
				return nil, err
			}
			topics[i] = t.Hash()
		}
		data := in.memory.Read(off, sz)
		in.log.Append(in.Frame.Callee, topics, data)
		return nil, nil
	}
}

func opReturn(in *Interpreter) ([]byte, error) {
	offset, size, err := in.pop2()
	if err != nil {
		return nil, err
	}
	off, sz, err := in.memRangeUint64(offset, size)
	if err != nil {
		return nil, err
	}
	return in.memory.Read(off, sz), nil
}

func opRevert(in *Interpreter) ([]byte, error) {
	offset, size, err := in.pop2()
	if err != nil {
		return nil, err
	}
	off, sz, err := in.memRangeUint64(offset, size)
	if err != nil {
		return nil, err
	}
	return in.memory.Read(off, sz), nil
}

// pop2 pops two operands, returning them in pop order (first popped,
// second popped) so callers read naturally as (a, b) for a top-of-stack,
// second-from-top operand pair.
func (in *Interpreter) pop2() (types.U256, types.U256, error) {
	a, err := in.stack.Pop()
	if err != nil {
		return types.U256{}, types.U256{}, err
	}
	b, err := in.stack.Pop()
	if err != nil {
		return types.U256{}, types.U256{}, err
	}
	return a, b, nil
}

// memRangeUint64 converts an (offset, size) operand pair to plain
// uint64s, rejecting combinations that would overflow the address space.
// A zero size always yields (0, 0) regardless of offset, matching the
// memory-expansion rule that a zero-length touch never grows memory.
func (in *Interpreter) memRangeUint64(offset, size types.U256) (uint64, uint64, error) {
	if size.IsZero() {
		return 0, 0, nil
	}
	off, err := offset.Uint64Safe()
	if err != nil {
		return 0, 0, ErrMemoryOutOfBounds
	}
	sz, err := size.Uint64Safe()
	if err != nil {
		return 0, 0, ErrMemoryOutOfBounds
	}
	return off, sz, nil
}

// copyToMemory implements the CALLDATACOPY/CODECOPY/EXTCODECOPY/
// RETURNDATACOPY family: pop (destOffset, srcOffset, size), zero-fill
// past the end of src, and write into memory.
func (in *Interpreter) copyToMemory(src []byte) error {
	destOffset, err := in.stack.Pop()
	if err != nil {
		return err
	}
	srcOffset, err := in.stack.Pop()
	if err != nil {
		return err
	}
	size, err := in.stack.Pop()
	if err != nil {
		return err
	}
	if size.IsZero() {
		return nil
	}
	dst, err := destOffset.Uint64Safe()
	if err != nil {
		return ErrMemoryOutOfBounds
	}
	sz, err := size.Uint64Safe()
	if err != nil {
		return ErrMemoryOutOfBounds
	}
	in.memory.Write(dst, padCopy(src, srcOffset, sz))
	return nil
}

// readPadded reads a 32-byte big-endian word from src starting at off,
// zero-filling past the end of src (CALLDATALOAD).
func readPadded(src []byte, off types.U256) []byte {
	return padCopy(src, off, 32)
}

// padCopy reads sz bytes from src starting at off (which may exceed
// uint64 range or src's length entirely), zero-filling anything past
// src's end.
func padCopy(src []byte, off types.U256, sz uint64) []byte {
	out := make([]byte, sz)
	start, err := off.Uint64Safe()
	if err != nil || start >= uint64(len(src)) {
		return out
	}
	copy(out, src[start:])
	return out
}

// boolU256 renders a Go bool as the EVM's canonical 0/1 word.
func boolU256(b bool) types.U256 {
	if b {
		return types.OneU256()
	}
	return types.ZeroU256()
}
