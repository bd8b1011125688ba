package domain

import "sync"

// DefaultTradeLogCap bounds the in-memory trade log.
const DefaultTradeLogCap = 20

// TradeLog is a bounded, most-recent-first log of dispatched trades.
// Safe for concurrent use.
type TradeLog struct {
	mu      sync.RWMutex
	records []TradeRecord
	cap     int
}

// NewTradeLog creates a log bounded to cap entries. A non-positive cap uses
// the default.
func NewTradeLog(cap int) *TradeLog {
	if cap <= 0 {
		cap = DefaultTradeLogCap
	}
	return &TradeLog{cap: cap}
}

// Add prepends a record, dropping the oldest entry past the cap.
func (l *TradeLog) Add(r TradeRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]TradeRecord{r}, l.records...)
	if len(l.records) > l.cap {
		l.records = l.records[:l.cap]
	}
}

// List returns a copy of the records, most recent first.
func (l *TradeLog) List() []TradeRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]TradeRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded trades.
func (l *TradeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Clear removes all records.
func (l *TradeLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}
