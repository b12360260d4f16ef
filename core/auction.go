package core

import (
	"fmt"
	"strings"
	"time"
)

// SummarizeAuction computes the final results of an auction from the catalog and the ledger.
//
// Processing flow:
//  1. Group ledger records by item, keeping ledger order
//  2. Rank each item's bidders by their highest bid
//  3. Extract winner and runner-up from each ranking
//  4. Join the ledger with item names and compute its digest
//
// Neither input slice is modified.
func SummarizeAuction(items []Item, bids []BidRecord, closedAt time.Time) *AuctionResult {
	byItem := make(map[int64][]BidRecord, len(items))
	for _, bid := range bids {
		byItem[bid.ItemID] = append(byItem[bid.ItemID], bid)
	}

	itemResults := make([]ItemResult, 0, len(items))
	for _, item := range items {
		itemBids := byItem[item.ID]
		ranking := RankItemBids(itemBids)

		result := ItemResult{Item: item, BidCount: len(itemBids)}
		if len(ranking.SortedBidders) > 0 {
			winner := *ranking.HighestBids[ranking.SortedBidders[0]]
			result.Winner = &winner
		}
		if len(ranking.SortedBidders) > 1 {
			runnerUp := *ranking.HighestBids[ranking.SortedBidders[1]]
			result.RunnerUp = &runnerUp
		}
		itemResults = append(itemResults, result)
	}

	return &AuctionResult{
		Items:      itemResults,
		Bids:       JoinBids(items, bids),
		LedgerHash: ComputeLedgerHash(bids),
		ClosedAt:   closedAt,
	}
}

// JoinBids attaches item names to ledger records. Records for unknown items are dropped.
func JoinBids(items []Item, bids []BidRecord) []JoinedBid {
	names := make(map[int64]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}

	joined := make([]JoinedBid, 0, len(bids))
	for _, bid := range bids {
		name, ok := names[bid.ItemID]
		if !ok {
			continue
		}
		joined = append(joined, JoinedBid{BidRecord: bid, ItemName: name})
	}
	return joined
}

// Winners returns the item results that have a winning bid.
func (r *AuctionResult) Winners() []ItemResult {
	winners := make([]ItemResult, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Winner != nil {
			winners = append(winners, item)
		}
	}
	return winners
}

// ItemLines renders one outcome line per item, in catalog order.
func (r *AuctionResult) ItemLines(currency string) []string {
	lines := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Winner != nil {
			lines = append(lines, fmt.Sprintf("✓ %s: %s won with %s",
				item.Item.Name, item.Winner.Bidder, FormatMoney(currency, item.Winner.Amount)))
		} else {
			lines = append(lines, fmt.Sprintf("✗ %s: No bids", item.Item.Name))
		}
	}
	return lines
}

// Lines renders the printable results summary.
func (r *AuctionResult) Lines(currency string) []string {
	heavy := strings.Repeat("=", 50)
	light := strings.Repeat("-", 50)

	lines := []string{heavy, "AUCTION RESULTS", heavy}
	lines = append(lines, r.ItemLines(currency)...)

	lines = append(lines, "", light, "ALL BIDS:", light)
	for _, bid := range r.Bids {
		lines = append(lines, fmt.Sprintf("  %s bid %s on %s", bid.Bidder, FormatMoney(currency, bid.Amount), bid.ItemName))
	}
	lines = append(lines, heavy)
	return lines
}
