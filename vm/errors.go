package vm

import "errors"

// Trap errors terminate a frame immediately; there is no local recovery
// inside the interpreter. REVERT is an explicit opcode, not an error, and
// is reported through ExecutionResult.Success instead of one of these.
var (
	// ErrInvalidOpcode signals an undefined byte encountered during decode.
	ErrInvalidOpcode = errors.New("vm: invalid opcode")

	// ErrOutOfGas signals that an operation's cost exceeds the gas
	// remaining in the meter.
	ErrOutOfGas = errors.New("vm: out of gas")

	// ErrInvalidJumpDestination signals a JUMP/JUMPI target that is not a
	// member of the validator's precomputed JUMPDEST set.
	ErrInvalidJumpDestination = errors.New("vm: invalid jump destination")

	// ErrInvalidInstruction signals a PUSH whose immediate bytes run past
	// the end of the code, which is unreachable if the validator ran
	// first. A program counter that reaches the end of the code is a
	// successful halt, not this error.
	ErrInvalidInstruction = errors.New("vm: invalid instruction")

	// ErrMemoryOutOfBounds signals an offset/size combination that
	// overflows the address space. Ordinary in-range-but-unwritten reads
	// return zeros instead of failing.
	ErrMemoryOutOfBounds = errors.New("vm: memory access out of bounds")

	// ErrInvalidBytecode signals that the bytecode validator rejected the
	// code outright (oversize, undefined opcode, truncated PUSH). Never
	// raised during execution itself.
	ErrInvalidBytecode = errors.New("vm: invalid bytecode")
)
