package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one auctionable catalog entry with its price bounds and live bid state.
type Item struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	MaxBid        decimal.Decimal `json:"max_bid"`

	// CurrentBid is zero until the first accepted bid; HighestBidder is empty exactly when CurrentBid is zero.
	CurrentBid    decimal.Decimal `json:"current_bid"`
	HighestBidder string          `json:"highest_bidder,omitempty"`
}

// HasBid reports whether the item has received an accepted bid.
func (i Item) HasBid() bool {
	return i.CurrentBid.IsPositive()
}

// NewItem holds the fields of an item that has not been assigned an id yet.
type NewItem struct {
	Name          string
	Description   string
	StartingPrice decimal.Decimal
	MaxBid        decimal.Decimal
}

// BidRecord is one accepted bid. Records are immutable once created.
type BidRecord struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    int64           `json:"item_id"`
	Bidder    string          `json:"bidder"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewBidRecord captures an accepted bid with a fresh random id.
func NewBidRecord(itemID int64, bidder string, amount decimal.Decimal, ts time.Time) BidRecord {
	return BidRecord{
		ID:        uuid.New(),
		ItemID:    itemID,
		Bidder:    bidder,
		Amount:    amount,
		Timestamp: ts,
	}
}

// JoinedBid is a ledger record together with the name of the item it refers to.
type JoinedBid struct {
	BidRecord
	ItemName string `json:"item_name"`
}

// ItemResult summarizes the outcome for a single item.
type ItemResult struct {
	Item Item

	// Winner is the highest-ranked bid (nil if the item received no bids)
	Winner *BidRecord

	// RunnerUp is the best bid from any other bidder (nil if fewer than two bidders)
	RunnerUp *BidRecord

	BidCount int
}

// AuctionResult contains the complete results of a closed auction.
type AuctionResult struct {
	Items      []ItemResult
	Bids       []JoinedBid
	LedgerHash string
	ClosedAt   time.Time
}
