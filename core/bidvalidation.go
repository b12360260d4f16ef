package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RejectReason says why a bid was turned down.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonEmptyName
	ReasonNotANumber
	ReasonTooLow
	ReasonTooHigh
)

func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEmptyName:
		return "empty_name"
	case ReasonNotANumber:
		return "not_a_number"
	case ReasonTooLow:
		return "too_low"
	case ReasonTooHigh:
		return "too_high"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Decision is the outcome of validating one proposed bid.
type Decision struct {
	Accepted bool
	Reason   RejectReason

	// Bound is the floor for ReasonTooLow and the ceiling for ReasonTooHigh.
	Bound decimal.Decimal

	// Amount and Bidder are the parsed and trimmed inputs, set once they passed their rule.
	Amount decimal.Decimal
	Bidder string
}

// Message renders the decision as the text shown to the bidder.
func (d Decision) Message(currency string) string {
	if d.Accepted {
		return "Success! Your bid has been placed!"
	}
	switch d.Reason {
	case ReasonEmptyName:
		return "Please enter your name!"
	case ReasonNotANumber:
		return "Please enter a valid bid amount!"
	case ReasonTooLow:
		return fmt.Sprintf("Bid must be higher than %s!", FormatMoney(currency, d.Bound))
	case ReasonTooHigh:
		return fmt.Sprintf("Bid cannot exceed %s!", FormatMoney(currency, d.Bound))
	default:
		return ""
	}
}

// BidFloor returns the value a new bid has to strictly exceed: the current bid, or the
// starting price while the item has no bids.
func BidFloor(item Item) decimal.Decimal {
	if item.HasBid() {
		return item.CurrentBid
	}
	return item.StartingPrice
}

// BidExceedsFloor returns true if the bid is strictly above the floor.
// Uses decimal arithmetic with monetaryPrecision so 50.01 always beats 50.
func BidExceedsFloor(amount, floor decimal.Decimal) bool {
	return amount.Round(monetaryPrecision).GreaterThan(floor.Round(monetaryPrecision))
}

// BidWithinCeiling returns true if the bid does not exceed the item's max bid. The ceiling is inclusive.
func BidWithinCeiling(amount, ceiling decimal.Decimal) bool {
	return amount.Round(monetaryPrecision).LessThanOrEqual(ceiling.Round(monetaryPrecision))
}

// ValidateBid decides whether proposedAmount from bidderName is acceptable against the item's
// current state. It has no side effects.
//
// Rules, first failure wins:
//  1. trimmed bidder name is non-empty
//  2. amount parses as a positive decimal
//  3. amount is strictly above BidFloor
//  4. amount is at most the item's max bid
func ValidateBid(item Item, proposedAmount string, bidderName string) Decision {
	bidder := strings.TrimSpace(bidderName)
	if bidder == "" {
		return Decision{Reason: ReasonEmptyName}
	}

	amount, err := ParseAmount(proposedAmount)
	if errors.Is(err, ErrAmountTooLarge) {
		// Too large to parse is above any floor and any ceiling.
		return Decision{Reason: ReasonTooHigh, Bound: item.MaxBid, Bidder: bidder}
	}
	if err != nil {
		return Decision{Reason: ReasonNotANumber, Bidder: bidder}
	}

	floor := BidFloor(item)
	if !BidExceedsFloor(amount, floor) {
		return Decision{Reason: ReasonTooLow, Bound: floor, Amount: amount, Bidder: bidder}
	}

	if !BidWithinCeiling(amount, item.MaxBid) {
		return Decision{Reason: ReasonTooHigh, Bound: item.MaxBid, Amount: amount, Bidder: bidder}
	}

	return Decision{Accepted: true, Amount: amount, Bidder: bidder}
}

// ParseNewItem validates the text fields of the add-item form. Nothing is mutated here, so a
// failed add never leaves a partial item behind.
func ParseNewItem(name, description, price, maxBid string) (NewItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewItem{}, invalidInput("Please enter an item name!")
	}
	if strings.TrimSpace(price) == "" || strings.TrimSpace(maxBid) == "" {
		return NewItem{}, invalidInput("Please enter prices!")
	}

	startingPrice, err := ParseAmount(price)
	if err != nil {
		return NewItem{}, invalidInput("Please enter valid numbers!")
	}
	ceiling, err := ParseAmount(maxBid)
	if err != nil {
		return NewItem{}, invalidInput("Please enter valid numbers!")
	}

	item := NewItem{
		Name:          name,
		Description:   strings.TrimSpace(description),
		StartingPrice: startingPrice,
		MaxBid:        ceiling,
	}
	if err := CheckNewItem(item); err != nil {
		return NewItem{}, err
	}
	return item, nil
}

// CheckNewItem enforces the catalog invariants on an item about to be added.
func CheckNewItem(item NewItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return invalidInput("Please enter an item name!")
	}
	if !item.StartingPrice.IsPositive() {
		return invalidInput("Starting price must be greater than zero!")
	}
	if item.MaxBid.LessThanOrEqual(item.StartingPrice) {
		return invalidInput("Max bid must be higher than starting price!")
	}
	return nil
}
