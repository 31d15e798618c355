package vm

import (
	"errors"

	"github.com/evmcore/evmcore/types"
)

// StackLimit is the maximum number of items the EVM operand stack may hold.
const StackLimit = 1024

// ErrStackOverflow/ErrStackUnderflow are returned by Stack operations that
// would violate depth bounds; the interpreter converts these into traps.
var (
	ErrStackOverflow  = errors.New("vm: stack overflow")
	ErrStackUnderflow = errors.New("vm: stack underflow")
)

// Stack is the EVM's 256-bit operand stack: a fixed-capacity LIFO with
// depth-indexed access for DUP/SWAP. The top of stack is the most
// recently pushed element; index 0 in PeekAt/Dup/Swap refers to the top.
type Stack struct {
	data []types.U256
}

// NewStack returns an empty stack with room for StackLimit items.
func NewStack() *Stack {
	return &Stack{data: make([]types.U256, 0, 16)}
}

// Len returns the current depth of the stack.
func (s *Stack) Len() int { return len(s.data) }

// Push appends v to the top of the stack, failing with ErrStackOverflow if
// the stack is already at capacity.
func (s *Stack) Push(v types.U256) error {
	if len(s.data) >= StackLimit {
		return ErrStackOverflow
	}
	s.data = append(s.data, v)
	return nil
}

// Pop removes and returns the top element, failing with ErrStackUnderflow
// if the stack is empty.
func (s *Stack) Pop() (types.U256, error) {
	n := len(s.data)
	if n == 0 {
		return types.U256{}, ErrStackUnderflow
	}
	v := s.data[n-1]
	s.data = s.data[:n-1]
	return v, nil
}

// PeekAt returns the element at depth d (0 = top) without removing it,
// failing with ErrStackUnderflow if the stack is not at least d+1 deep.
func (s *Stack) PeekAt(d int) (types.U256, error) {
	n := len(s.data)
	if n <= d {
		return types.U256{}, ErrStackUnderflow
	}
	return s.data[n-1-d], nil
}

// Dup pushes a copy of the element at depth d (0 = top).
func (s *Stack) Dup(d int) error {
	v, err := s.PeekAt(d)
	if err != nil {
		return err
	}
	return s.Push(v)
}

// Swap exchanges the top element with the element at depth d (0 = top,
// so Swap(0) is a no-op; SWAP1 calls Swap(1)).
func (s *Stack) Swap(d int) error {
	n := len(s.data)
	if n <= d {
		return ErrStackUnderflow
	}
	s.data[n-1], s.data[n-1-d] = s.data[n-1-d], s.data[n-1]
	return nil
}

// Data returns the underlying slice, bottom to top. Callers must not
// retain or mutate it beyond the current step; the tracer copies it
// before recording a snapshot.
func (s *Stack) Data() []types.U256 { return s.data }

// Snapshot returns an independent copy of the stack contents, bottom to
// top, suitable for a tracer to hold onto across steps.
func (s *Stack) Snapshot() []types.U256 {
	out := make([]types.U256, len(s.data))
	copy(out, s.data)
	return out
}
