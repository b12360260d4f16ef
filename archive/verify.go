package archive

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/silentauction/core"
)

// Verify replays the archived ledger and checks:
// - The ledger digest matches the stored digest
// - Every bid was valid against the item state at the time it was placed
// - Every item's final bid state equals its last ledger record
//
// Returns:
//   - VerificationResult with detailed results (call result.IsValid() to check overall status)
//   - error if the archive cannot be checked at all (e.g., malformed ids or amounts)
func Verify(a *Archive) (*VerificationResult, error) {
	records, err := a.Records()
	if err != nil {
		return nil, err
	}
	items, err := archivedItems(a.Items)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{}
	result.LedgerHashValid = verifyLedgerHash(a, records, result)

	replayed, boundsValid := replayBids(items, records, a.Currency, result)
	result.BidBoundsValid = boundsValid
	result.FinalStateValid = verifyFinalState(items, replayed, result)

	return result, nil
}

type archivedItem struct {
	item    core.Item
	initial core.Item
}

func archivedItems(entries []ItemEntry) (map[int64]*archivedItem, error) {
	items := make(map[int64]*archivedItem, len(entries))
	for _, entry := range entries {
		if _, ok := items[entry.ID]; ok {
			return nil, fmt.Errorf("duplicate item id %d", entry.ID)
		}
		item := core.Item{ID: entry.ID, Name: entry.Name, Description: entry.Description, HighestBidder: entry.HighestBidder}
		var err error
		if item.StartingPrice, err = decimal.NewFromString(entry.StartingPrice); err != nil {
			return nil, fmt.Errorf("item %d: parse starting price: %w", entry.ID, err)
		}
		if item.MaxBid, err = decimal.NewFromString(entry.MaxBid); err != nil {
			return nil, fmt.Errorf("item %d: parse max bid: %w", entry.ID, err)
		}
		if item.CurrentBid, err = decimal.NewFromString(entry.CurrentBid); err != nil {
			return nil, fmt.Errorf("item %d: parse current bid: %w", entry.ID, err)
		}

		initial := item
		initial.CurrentBid = decimal.Zero
		initial.HighestBidder = ""
		items[entry.ID] = &archivedItem{item: item, initial: initial}
	}
	return items, nil
}

func verifyLedgerHash(a *Archive, records []core.BidRecord, result *VerificationResult) bool {
	computed := core.ComputeLedgerHash(records)
	if computed == a.LedgerHash {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Ledger hash validation passed: %s (%d bids)", computed, len(records)))
		return true
	}
	result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Ledger hash mismatch: computed %s, archive has %s", computed, a.LedgerHash))
	return false
}

// replayBids applies the ledger to the items' starting state and returns the replayed state.
func replayBids(items map[int64]*archivedItem, records []core.BidRecord, currency string, result *VerificationResult) (map[int64]core.Item, bool) {
	state := make(map[int64]core.Item, len(items))
	for id, item := range items {
		state[id] = item.initial
	}

	valid := true
	for i, record := range records {
		item, ok := state[record.ItemID]
		if !ok {
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bid %d refers to unknown item %d", i+1, record.ItemID))
			valid = false
			continue
		}

		decision := core.ValidateBid(item, money(record.Amount), record.Bidder)
		if !decision.Accepted {
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bid %d by %q on %s rejected on replay: %s",
				i+1, record.Bidder, item.Name, decision.Message(currency)))
			valid = false
			continue
		}

		item.CurrentBid = record.Amount
		item.HighestBidder = record.Bidder
		state[record.ItemID] = item
	}

	if valid {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bid bounds validation passed: %d bids replayed", len(records)))
	}
	return state, valid
}

func verifyFinalState(items map[int64]*archivedItem, replayed map[int64]core.Item, result *VerificationResult) bool {
	valid := true
	for _, id := range slices.Sorted(maps.Keys(items)) {
		archived := items[id]
		want := replayed[id]
		got := archived.item
		if !got.CurrentBid.Equal(want.CurrentBid) || got.HighestBidder != want.HighestBidder {
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Final state mismatch on %s: archive has %s by %q, ledger gives %s by %q",
				got.Name, money(got.CurrentBid), got.HighestBidder, money(want.CurrentBid), want.HighestBidder))
			valid = false
		}
	}
	if valid {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Final state validation passed: %d items", len(items)))
	}
	return valid
}
