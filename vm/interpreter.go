package vm

import (
	"github.com/evmcore/evmcore/types"
)

// GetHashFunc resolves a block number to its hash for BLOCKHASH. The
// interpreter never computes this itself; a host without real block
// history may leave it nil, in which case BLOCKHASH returns zero.
type GetHashFunc func(number types.U256) types.Hash

// BlockContext carries the block-level values a small set of opcodes
// read. Fields are opaque inputs to the interpreter; it never validates
// or derives them.
type BlockContext struct {
	GetHash    GetHashFunc
	Coinbase   types.Address
	Number     types.U256
	Timestamp  types.U256
	Difficulty types.U256
	GasLimit   types.U256
	ChainID    types.U256
	BaseFee    types.U256
}

// TxContext carries the transaction-level values GASPRICE/ORIGIN read.
type TxContext struct {
	GasPrice types.U256
	Origin   types.Address
}

// Config tunes optional interpreter behavior; the zero value is the
// default single in-scope ruleset (see spec section 6).
type Config struct {
	Debug  bool
	Tracer Tracer
}

// Frame is the mutable call context for a single execution: addresses,
// value, input, code, and the embedded block/tx context, plus the
// program counter and the return data from the frame's own halt.
type Frame struct {
	Callee types.Address
	Caller types.Address
	Value  types.U256
	Input  types.Bytes
	Code   types.Bytes

	BlockContext BlockContext
	TxContext    TxContext

	pc             uint64
	lastReturnData types.Bytes
}

// ExecutionResult is what a host receives after one frame runs to
// completion, whether by halt, trap, or natural end of code.
type ExecutionResult struct {
	Success      bool
	ReturnData   types.Bytes
	GasUsed      uint64
	GasRemaining uint64
	Logs         []LogEntry
	Err          error
}

// Interpreter executes a single frame of EVM bytecode against a World.
// It is not safe for concurrent use from multiple goroutines; each
// frame should own its own Interpreter and Meter (see spec section 5).
type Interpreter struct {
	Frame  Frame
	Config Config

	stack     *Stack
	memory    *Memory
	world     *World
	meter     *Meter
	log       *EventLog
	table     JumpTable
	jumpdests map[uint64]bool
}

// NewInterpreter builds an interpreter for one frame. jumpdests should
// come from Validate; passing nil treats every JUMP/JUMPI target as
// invalid, which is safe but useless, so callers almost always want to
// validate first.
func NewInterpreter(frame Frame, world *World, meter *Meter, cfg Config, jumpdests map[uint64]bool) *Interpreter {
	if jumpdests == nil {
		jumpdests = map[uint64]bool{}
	}
	return &Interpreter{
		Frame:     frame,
		Config:    cfg,
		stack:     NewStack(),
		memory:    NewMemory(),
		world:     world,
		meter:     meter,
		log:       NewEventLog(),
		table:     NewJumpTable(),
		jumpdests: jumpdests,
	}
}

// Run drives the decode/dispatch loop described in spec section 4.8:
// fetch, check arity, price (constant then dynamic, including memory
// expansion), charge gas, expand memory, then dispatch. It returns once
// the frame halts, traps, or runs off the end of the code.
func (in *Interpreter) Run() ExecutionResult {
	for {
		code := in.Frame.Code
		if in.Frame.pc >= uint64(len(code)) {
			return in.haltSuccess(nil)
		}

		b := code[in.Frame.pc]
		info, ok := lookupOp(b)
		if !ok {
			return in.trap(ErrInvalidOpcode)
		}
		op := OpCode(b)
		operation := in.table[op]
		if operation == nil {
			return in.trap(ErrInvalidOpcode)
		}

		if in.stack.Len() < info.popCount {
			return in.trap(ErrStackUnderflow)
		}
		if in.stack.Len()-info.popCount+info.pushCount > StackLimit {
			return in.trap(ErrStackOverflow)
		}

		cost := operation.constantGas
		var memNeed uint64
		var haveMemNeed bool
		if operation.memorySize != nil {
			need, err := operation.memorySize(in)
			if err != nil {
				return in.trap(err)
			}
			memNeed = need
			haveMemNeed = true
			expCost, err := MemoryExpansionCost(in.memory.Len(), 0, need)
			if err != nil {
				return in.trap(err)
			}
			cost += expCost
		}
		if operation.dynamicGas != nil {
			dyn, err := operation.dynamicGas(in)
			if err != nil {
				return in.trap(err)
			}
			cost += dyn
		}

		if err := in.meter.Consume(cost); err != nil {
			return in.trap(ErrOutOfGas)
		}

		if haveMemNeed {
			in.memory.Resize(memNeed)
		}

		var before []types.U256
		var memBefore []byte
		var haveMemBefore bool
		var sstoreKey types.U256
		var sstoreOld types.U256
		var captureSstore bool
		if in.Config.Tracer != nil {
			before = in.stack.Snapshot()
			if operation.memorySize != nil {
				memBefore = append([]byte(nil), in.memory.Data()...)
				haveMemBefore = true
			}
			if op == SSTORE {
				if k, err := in.stack.PeekAt(0); err == nil {
					sstoreKey = k
					sstoreOld = in.world.GetStorage(in.Frame.Callee, k)
					captureSstore = true
				}
			}
		}

		// makeOpPush advances pc itself (by 1+n); every other non-jump op
		// advances by 1 below, after execute runs.
		pcBefore := in.Frame.pc
		ret, err := operation.execute(in)
		if err != nil {
			return in.trap(err)
		}

		if !op.IsPush() && !operation.jumps {
			in.Frame.pc++
		}

		if in.Config.Tracer != nil {
			var memChanges map[uint64]byte
			if haveMemBefore {
				memChanges = diffMemory(memBefore, in.memory.Data())
			}
			var storageChanges map[types.U256]StorageChange
			if captureSstore {
				newVal := in.world.GetStorage(in.Frame.Callee, sstoreKey)
				if !newVal.Eq(sstoreOld) {
					storageChanges = map[types.U256]StorageChange{
						sstoreKey: {Old: sstoreOld, New: newVal},
					}
				}
			}
			in.Config.Tracer.CaptureState(StepRecord{
				PC:             pcBefore,
				Op:             op,
				StackBefore:    before,
				StackAfter:     in.stack.Snapshot(),
				MemoryChanges:  memChanges,
				StorageChanges: storageChanges,
				GasCost:        cost,
				GasRemaining:   in.meter.Available(),
			})
		}

		if operation.halts {
			in.Frame.lastReturnData = ret
			if op == REVERT {
				return in.haltRevert(ret)
			}
			return in.haltSuccess(ret)
		}
	}
}

func (in *Interpreter) haltSuccess(ret []byte) ExecutionResult {
	in.meter.ApplyRefund()
	return ExecutionResult{
		Success:      true,
		ReturnData:   ret,
		GasUsed:      in.meter.Used(),
		GasRemaining: in.meter.Available(),
		Logs:         in.log.Entries(),
	}
}

func (in *Interpreter) haltRevert(ret []byte) ExecutionResult {
	return ExecutionResult{
		Success:      false,
		ReturnData:   ret,
		GasUsed:      in.meter.Used(),
		GasRemaining: in.meter.Available(),
		Logs:         in.log.Entries(),
	}
}

// trap ends the frame in failure. An exceptional halt forfeits all
// remaining gas (the classic EVM convention), so gas_used always equals
// the original gas_limit once a trap fires.
func (in *Interpreter) trap(err error) ExecutionResult {
	in.meter.BurnRemaining()
	return ExecutionResult{
		Success:      false,
		ReturnData:   nil,
		GasUsed:      in.meter.Used(),
		GasRemaining: in.meter.Available(),
		Logs:         in.log.Entries(),
		Err:          err,
	}
}
