package core

import (
	"sort"
)

// BidRanking contains the ranked bidders of one item and their highest bids.
type BidRanking struct {
	Ranks         map[string]int
	HighestBids   map[string]*BidRecord
	SortedBidders []string
}

// RankItemBids ranks bidders by their highest bid, descending. Equal amounts are ordered by
// which bidder reached the amount first. The input slice is not modified.
func RankItemBids(bids []BidRecord) *BidRanking {
	if len(bids) == 0 {
		return &BidRanking{
			Ranks:         make(map[string]int),
			HighestBids:   make(map[string]*BidRecord),
			SortedBidders: make([]string, 0),
		}
	}

	type bidEntry struct {
		bidder string
		bid    *BidRecord
	}

	// Find highest bid per bidder while preserving order of first occurrence
	bidderMap := make(map[string]*BidRecord)
	bidderOrder := make([]string, 0, len(bids))

	for i := range bids {
		bid := &bids[i]

		existing, exists := bidderMap[bid.Bidder]
		if !exists {
			bidderOrder = append(bidderOrder, bid.Bidder)
		}
		if !exists || bid.Amount.GreaterThan(existing.Amount) {
			bidderMap[bid.Bidder] = bid
		}
	}

	entries := make([]bidEntry, 0, len(bidderOrder))
	for _, bidder := range bidderOrder {
		entries = append(entries, bidEntry{bidder: bidder, bid: bidderMap[bidder]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].bid, entries[j].bid
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Timestamp.Before(b.Timestamp)
	})

	result := &BidRanking{
		Ranks:         make(map[string]int, len(entries)),
		HighestBids:   make(map[string]*BidRecord, len(entries)),
		SortedBidders: make([]string, len(entries)),
	}

	for rank, entry := range entries {
		result.Ranks[entry.bidder] = rank + 1
		result.HighestBids[entry.bidder] = entry.bid
		result.SortedBidders[rank] = entry.bidder
	}

	return result
}
