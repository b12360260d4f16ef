package core

import (
	"crypto/sha256"
	"fmt"
)

// ComputeBidHash computes the digest of one ledger record.
//
// Formula: SHA256(bid_id + "|" + item_id + "|" + bidder + "|" + amount + "|" + unix_millis)
//
// The amount is formatted to exactly two decimal places and the timestamp truncated to
// milliseconds, so a record hashes the same after a round trip through storage.
func ComputeBidHash(bid BidRecord) string {
	data := fmt.Sprintf("%s|%d|%s|%s|%d",
		bid.ID.String(),
		bid.ItemID,
		bid.Bidder,
		bid.Amount.StringFixed(monetaryPrecision),
		bid.Timestamp.UnixMilli(),
	)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ComputeLedgerHash chains the bid hashes of a ledger in order.
//
// Formula: h0 = SHA256(""), hN = SHA256(hN-1 + "|" + ComputeBidHash(bidN))
//
// Reordering, dropping or editing any record changes the result.
func ComputeLedgerHash(bids []BidRecord) string {
	hash := sha256.Sum256(nil)
	current := fmt.Sprintf("%x", hash)
	for _, bid := range bids {
		next := sha256.Sum256([]byte(current + "|" + ComputeBidHash(bid)))
		current = fmt.Sprintf("%x", next)
	}
	return current
}
