// Package ledger records every accepted bid, independent of the live item state.
package ledger

import (
	"github.com/cloudx-io/silentauction/core"
)

// Ledger is an append-only list of accepted bids. Records are kept in insertion order, which
// is also timestamp order because all appends come from the controller loop.
type Ledger struct {
	records []core.BidRecord
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds one record. It performs no validation and no deduplication.
func (l *Ledger) Append(record core.BidRecord) {
	l.records = append(l.records, record)
}

// ListAll returns a copy of every record, oldest first.
func (l *Ledger) ListAll() []core.BidRecord {
	records := make([]core.BidRecord, len(l.records))
	copy(records, l.records)
	return records
}

// Joined returns the records joined with the names of the given items.
func (l *Ledger) Joined(items []core.Item) []core.JoinedBid {
	return core.JoinBids(items, l.records)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Clear drops every record.
func (l *Ledger) Clear() {
	l.records = nil
}

// Restore replaces the contents with records loaded from persistent storage.
func (l *Ledger) Restore(records []core.BidRecord) {
	l.records = make([]core.BidRecord, len(records))
	copy(l.records, records)
}
