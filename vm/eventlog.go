package vm

import "github.com/evmcore/evmcore/types"

// LogEntry is a single event emitted by LOG0-LOG4: the address that
// emitted it, its indexed topics (0-4 of them), and its non-indexed data.
type LogEntry struct {
	Address types.Address
	Topics  []types.Hash
	Data    types.Bytes
}

// EventLog is the append-only list of LogEntry values accumulated during
// a frame's execution. Nothing is ever removed from it: REVERT still
// surfaces whatever was appended before the revert fired, leaving the
// discard-or-keep decision to the host's own transaction semantics.
type EventLog struct {
	entries []LogEntry
}

// NewEventLog returns an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append records a new log entry in execution order.
func (l *EventLog) Append(address types.Address, topics []types.Hash, data types.Bytes) {
	l.entries = append(l.entries, LogEntry{Address: address, Topics: topics, Data: data})
}

// Len returns the number of recorded entries.
func (l *EventLog) Len() int { return len(l.entries) }

// Entries returns all recorded entries in execution order.
func (l *EventLog) Entries() []LogEntry { return l.entries }

// ByAddress returns the entries emitted by the given address, in
// execution order.
func (l *EventLog) ByAddress(addr types.Address) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if e.Address == addr {
			out = append(out, e)
		}
	}
	return out
}

// ByTopic returns the entries that carry the given topic among their
// (0-4) topics, in execution order.
func (l *EventLog) ByTopic(topic types.Hash) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		for _, t := range e.Topics {
			if t == topic {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
