package vm

import "fmt"

// MaxCodeSize is the default ceiling the validator enforces on bytecode
// length (spec section 4.7).
const MaxCodeSize = 24576

// ValidatorConfig tunes the validator's optional heuristic checks. The
// zero value runs only the mandatory checks (size cap, opcode validity,
// truncated-PUSH detection, JUMPDEST collection).
type ValidatorConfig struct {
	MaxCodeSize int

	// EnableHeuristics turns on the density-based warnings below.
	EnableHeuristics bool
}

// ValidationResult is what Validate returns: the precomputed JUMPDEST
// set (the only set runtime JUMP/JUMPI targets are checked against) plus
// any non-fatal heuristic warnings.
type ValidationResult struct {
	Jumpdests map[uint64]bool
	Warnings  []string
}

// Validate performs the static pass over code described in spec section
// 4.7: it rejects oversize code, an unrecognized opcode, or a PUSH whose
// immediate runs past the end of code, and otherwise returns the
// JUMPDEST set (and any heuristic warnings) for the caller to hand to
// NewInterpreter.
func Validate(code []byte, cfg ValidatorConfig) (*ValidationResult, error) {
	maxSize := cfg.MaxCodeSize
	if maxSize == 0 {
		maxSize = MaxCodeSize
	}
	if len(code) > maxSize {
		return nil, fmt.Errorf("%w: code size %d exceeds maximum %d", ErrInvalidBytecode, len(code), maxSize)
	}

	jumpdests := make(map[uint64]bool)
	counts := make(map[OpCode]int)
	total := 0

	for pc := 0; pc < len(code); {
		b := code[pc]
		op := OpCode(b)
		if _, ok := lookupOp(b); !ok {
			return nil, fmt.Errorf("%w: undefined opcode 0x%02x at offset %d", ErrInvalidBytecode, b, pc)
		}
		total++
		counts[op]++

		if op == JUMPDEST {
			jumpdests[uint64(pc)] = true
		}

		if op.IsPush() {
			n := op.PushSize()
			if pc+1+n > len(code) {
				return nil, fmt.Errorf("%w: truncated PUSH immediate at offset %d", ErrInvalidBytecode, pc)
			}
			pc += 1 + n
			continue
		}
		pc++
	}

	result := &ValidationResult{Jumpdests: jumpdests}
	if cfg.EnableHeuristics && total > 0 {
		result.Warnings = heuristicWarnings(counts, total)
	}
	return result, nil
}

// heuristicWarnings flags bytecode with a suspiciously high density of
// gas-expensive or control-flow-heavy opcodes: warning-class only, never
// a rejection (spec section 4.7 point 4).
func heuristicWarnings(counts map[OpCode]int, total int) []string {
	var warnings []string

	expensive := counts[EXP] + counts[SSTORE] + counts[KECCAK256]
	if 100*expensive >= 10*total {
		warnings = append(warnings, fmt.Sprintf("high density of EXP/SSTORE/KECCAK256 opcodes: %d/%d", expensive, total))
	}

	jumpy := counts[JUMP] + counts[JUMPI]
	if 100*jumpy >= 20*total {
		warnings = append(warnings, fmt.Sprintf("high density of JUMP/JUMPI opcodes: %d/%d", jumpy, total))
	}

	return warnings
}
