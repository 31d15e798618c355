package vm

import "testing"

func TestValidateRejectsOversizeCode(t *testing.T) {
	code := make([]byte, MaxCodeSize+1)
	if _, err := Validate(code, ValidatorConfig{}); err == nil {
		t.Fatalf("expected rejection of oversize code")
	}
}

func TestValidateRejectsUndefinedOpcode(t *testing.T) {
	// 0x0c is not a recognized opcode.
	code := []byte{0x0c}
	if _, err := Validate(code, ValidatorConfig{}); err == nil {
		t.Fatalf("expected rejection of undefined opcode")
	}
}

func TestValidateRejectsTruncatedPush(t *testing.T) {
	// PUSH2 declares 2 immediate bytes but only one follows.
	code := []byte{byte(PUSH2), 0x01}
	if _, err := Validate(code, ValidatorConfig{}); err == nil {
		t.Fatalf("expected rejection of truncated PUSH immediate")
	}
}

func TestValidateSkipsPushImmediatesWhenScanningForJumpdest(t *testing.T) {
	// PUSH1 0x5B pushes the byte 0x5B (JUMPDEST's opcode) as *data*; it
	// must not be mistaken for a real JUMPDEST at that offset.
	code := []byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST)}
	result, err := Validate(code, ValidatorConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Jumpdests[1] {
		t.Fatalf("offset 1 is a PUSH1 immediate, not a real JUMPDEST")
	}
	if !result.Jumpdests[2] {
		t.Fatalf("offset 2 is a real JUMPDEST and should be recorded")
	}
}

func TestValidateHeuristicWarnings(t *testing.T) {
	code := []byte{byte(JUMP), byte(JUMPI), byte(STOP)}
	result, err := Validate(code, ValidatorConfig{EnableHeuristics: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatalf("expected a JUMP/JUMPI density warning for this code")
	}
}
