// Package archive writes closed auctions to CBOR files and verifies them afterwards.
package archive

// FormatVersion is the archive layout written by this package.
const FormatVersion = 1

// Archive is the stored form of a closed auction. Amounts are fixed two-decimal strings and
// times are unix milliseconds, matching the inputs of the ledger digest.
type Archive struct {
	Version        int         `cbor:"version"`
	Currency       string      `cbor:"currency"`
	ClosedAtMillis int64       `cbor:"closed_at"`
	LedgerHash     string      `cbor:"ledger_hash"`
	Items          []ItemEntry `cbor:"items"`
	Bids           []BidEntry  `cbor:"bids"`
}

// ItemEntry is an item with its final bid state.
type ItemEntry struct {
	ID            int64  `cbor:"id"`
	Name          string `cbor:"name"`
	Description   string `cbor:"description,omitempty"`
	StartingPrice string `cbor:"starting_price"`
	MaxBid        string `cbor:"max_bid"`
	CurrentBid    string `cbor:"current_bid"`
	HighestBidder string `cbor:"highest_bidder,omitempty"`
}

// BidEntry is one ledger record, in ledger order.
type BidEntry struct {
	ID              string `cbor:"id"`
	ItemID          int64  `cbor:"item_id"`
	ItemName        string `cbor:"item_name"`
	Bidder          string `cbor:"bidder"`
	Amount          string `cbor:"amount"`
	TimestampMillis int64  `cbor:"timestamp"`
}

// VerificationResult contains the outcome of each archive check.
type VerificationResult struct {
	LedgerHashValid   bool
	BidBoundsValid    bool
	FinalStateValid   bool
	ValidationDetails []string
}

// IsValid returns true if all archive checks passed
func (r *VerificationResult) IsValid() bool {
	return r.LedgerHashValid && r.BidBoundsValid && r.FinalStateValid
}
