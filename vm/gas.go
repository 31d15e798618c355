package vm

// Meter tracks the gas budget for a single frame: how much was allotted,
// how much remains, and the refund balance accrued along the way.
// Invariant: 0 <= available <= limit; Used() == limit - available.
type Meter struct {
	limit     uint64
	available uint64
	refund    uint64
}

// NewMeter returns a Meter with the full limit available and no refund.
func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit, available: limit}
}

// Limit returns the gas the frame started with.
func (m *Meter) Limit() uint64 { return m.limit }

// Available returns the gas remaining.
func (m *Meter) Available() uint64 { return m.available }

// Used returns the gas consumed so far.
func (m *Meter) Used() uint64 { return m.limit - m.available }

// Consume attempts to deduct cost from the available gas, failing with
// ErrOutOfGas (and leaving available untouched) if cost exceeds it.
func (m *Meter) Consume(cost uint64) error {
	if cost > m.available {
		return ErrOutOfGas
	}
	m.available -= cost
	return nil
}

// Refund adds amount to the accrued refund balance. The cap against
// Used()/2 is applied once, at halt time, via ApplyRefund rather than on
// every accumulation, matching the EVM's "claim-time cap" rule. No opcode
// in this instruction set calls Refund today (SSTORE's clear case does not
// trigger one here; see DESIGN.md); it exists as the mechanism a future
// refund-granting opcode would use.
func (m *Meter) Refund(amount uint64) {
	m.refund += amount
}

// RefundBalance returns the uncapped refund accrued so far.
func (m *Meter) RefundBalance() uint64 { return m.refund }

// BurnRemaining forfeits whatever gas is left, used when a frame ends in
// a trap: an exceptional halt consumes the entire gas limit rather than
// only the cost of the instruction that failed.
func (m *Meter) BurnRemaining() {
	m.available = 0
}

// ApplyRefund returns the refund to actually grant at halt: the accrued
// balance, capped at Used()/2, and credits it back onto Available so the
// caller can read a final GasRemaining that already reflects it.
func (m *Meter) ApplyRefund() uint64 {
	refundCap := m.Used() / 2
	granted := m.refund
	if granted > refundCap {
		granted = refundCap
	}
	m.available += granted
	return granted
}
