package core

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func testItem(startingPrice, maxBid, currentBid float64, bidder string) Item {
	return Item{
		ID:            1,
		Name:          "Wireless Headphones",
		StartingPrice: Money(startingPrice),
		MaxBid:        Money(maxBid),
		CurrentBid:    Money(currentBid),
		HighestBidder: bidder,
	}
}

func TestBidFloor(t *testing.T) {
	check.True(t, BidFloor(testItem(50, 150, 0, "")).Equal(Money(50)))
	check.True(t, BidFloor(testItem(50, 150, 75.5, "alice")).Equal(Money(75.5)))
}

func TestBidExceedsFloor(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		floor    float64
		expected bool
	}{
		{"bid above floor", 3.0, 2.5, true},
		{"bid at floor", 2.5, 2.5, false},
		{"bid below floor", 2.0, 2.5, false},
		{"one cent above", 50.01, 50, true},
		{"sub-cent above rounds to floor", 50.004, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BidExceedsFloor(decimalFromFloat(tt.amount), decimalFromFloat(tt.floor))
			check.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateBid_Rules(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		amount string
		bidder string
		reason RejectReason
		bound  float64
	}{
		{"empty name", testItem(50, 150, 0, ""), "60", "", ReasonEmptyName, 0},
		{"whitespace name", testItem(50, 150, 0, ""), "60", "   \t", ReasonEmptyName, 0},
		{"empty name wins over bad amount", testItem(50, 150, 0, ""), "abc", " ", ReasonEmptyName, 0},
		{"empty amount", testItem(50, 150, 0, ""), "", "alice", ReasonNotANumber, 0},
		{"letters", testItem(50, 150, 0, ""), "sixty", "alice", ReasonNotANumber, 0},
		{"two dots", testItem(50, 150, 0, ""), "6.0.0", "alice", ReasonNotANumber, 0},
		{"zero", testItem(50, 150, 0, ""), "0", "alice", ReasonNotANumber, 0},
		{"negative", testItem(50, 150, 0, ""), "-60", "alice", ReasonNotANumber, 0},
		{"NaN", testItem(50, 150, 0, ""), "NaN", "alice", ReasonNotANumber, 0},
		{"vanishing exponent", testItem(50, 150, 0, ""), "1e-20000000", "alice", ReasonNotANumber, 0},
		{"huge exponent", testItem(50, 150, 0, ""), "1e20000000", "alice", ReasonTooHigh, 150},
		{"equal to starting price", testItem(50, 150, 0, ""), "50", "alice", ReasonTooLow, 50},
		{"below starting price", testItem(50, 150, 0, ""), "10", "alice", ReasonTooLow, 50},
		{"equal to current bid", testItem(50, 150, 80, "bob"), "80", "alice", ReasonTooLow, 80},
		{"above start below current", testItem(50, 150, 80, "bob"), "60", "alice", ReasonTooLow, 80},
		{"above max", testItem(50, 150, 0, ""), "150.01", "alice", ReasonTooHigh, 150},
		{"too low wins over too high", testItem(50, 40, 0, ""), "45", "alice", ReasonTooLow, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := ValidateBid(tt.item, tt.amount, tt.bidder)
			check.False(t, decision.Accepted)
			check.Equal(t, tt.reason, decision.Reason)
			check.True(t, decision.Bound.Equal(Money(tt.bound)))
		})
	}
}

func TestValidateBid_Accepted(t *testing.T) {
	decision := ValidateBid(testItem(50, 150, 0, ""), " 150 ", "  alice ")
	assert.True(t, decision.Accepted)
	check.Equal(t, ReasonNone, decision.Reason)
	check.Equal(t, "alice", decision.Bidder)
	check.True(t, decision.Amount.Equal(Money(150)))
}

func TestValidateBid_BidSequence(t *testing.T) {
	item := testItem(50, 150, 0, "")

	decision := ValidateBid(item, "50", "alice")
	check.Equal(t, ReasonTooLow, decision.Reason)

	decision = ValidateBid(item, "50.01", "alice")
	assert.True(t, decision.Accepted)
	item.CurrentBid, item.HighestBidder = decision.Amount, decision.Bidder

	decision = ValidateBid(item, "50.01", "bob")
	check.Equal(t, ReasonTooLow, decision.Reason)
	check.True(t, decision.Bound.Equal(Money(50.01)))

	decision = ValidateBid(item, "150", "bob")
	assert.True(t, decision.Accepted)
	item.CurrentBid, item.HighestBidder = decision.Amount, decision.Bidder

	decision = ValidateBid(item, "150.01", "carol")
	check.Equal(t, ReasonTooHigh, decision.Reason)
	check.True(t, decision.Bound.Equal(Money(150)))
}

func TestValidateBid_AcceptedIffWithinBounds(t *testing.T) {
	items := []Item{
		testItem(50, 150, 0, ""),
		testItem(50, 150, 99.99, "bob"),
		testItem(10, 40, 39.99, "carol"),
		testItem(0.5, 0.75, 0, ""),
	}
	amounts := []string{"0.49", "0.5", "0.51", "0.75", "0.76", "9.99", "10", "10.01", "39.99", "40", "40.01",
		"49.99", "50", "50.01", "99.99", "100", "149.99", "150", "150.01", "1000"}

	for _, item := range items {
		floor := BidFloor(item)
		for _, text := range amounts {
			amount, err := ParseAmount(text)
			assert.NoError(t, err)

			expected := amount.GreaterThan(floor) && amount.LessThanOrEqual(item.MaxBid)
			decision := ValidateBid(item, text, "dana")
			check.Equal(t, expected, decision.Accepted)
		}
	}
}

func TestDecisionMessage(t *testing.T) {
	check.Equal(t, "Success! Your bid has been placed!", Decision{Accepted: true}.Message("£"))
	check.Equal(t, "Please enter your name!", Decision{Reason: ReasonEmptyName}.Message("£"))
	check.Equal(t, "Please enter a valid bid amount!", Decision{Reason: ReasonNotANumber}.Message("£"))
	check.Equal(t, "Bid must be higher than £50.00!", Decision{Reason: ReasonTooLow, Bound: Money(50)}.Message("£"))
	check.Equal(t, "Bid cannot exceed $150.00!", Decision{Reason: ReasonTooHigh, Bound: Money(150)}.Message("$"))
}

func TestParseNewItem(t *testing.T) {
	tests := []struct {
		name    string
		itemNm  string
		price   string
		maxBid  string
		message string
	}{
		{"missing name", "  ", "10", "20", "Please enter an item name!"},
		{"missing price", "Lamp", "", "20", "Please enter prices!"},
		{"missing max", "Lamp", "10", " ", "Please enter prices!"},
		{"bad price", "Lamp", "ten", "20", "Please enter valid numbers!"},
		{"zero price", "Lamp", "0", "20", "Please enter valid numbers!"},
		{"max below price", "X", "10", "5", "Max bid must be higher than starting price!"},
		{"max equal to price", "X", "10", "10", "Max bid must be higher than starting price!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNewItem(tt.itemNm, "", tt.price, tt.maxBid)
			check.Error(t, err)
			check.True(t, errors.Is(err, ErrInvalidInput))
			check.Equal(t, tt.message, err.Error())
		})
	}

	item, err := ParseNewItem(" Lava Lamp ", " groovy ", "12.5", "30")
	assert.NoError(t, err)
	check.Equal(t, "Lava Lamp", item.Name)
	check.Equal(t, "groovy", item.Description)
	check.True(t, item.StartingPrice.Equal(Money(12.5)))
	check.True(t, item.MaxBid.Equal(Money(30)))
}

func TestCheckNewItem(t *testing.T) {
	check.NoError(t, CheckNewItem(NewItem{Name: "X", StartingPrice: Money(1), MaxBid: Money(2)}))
	check.True(t, errors.Is(CheckNewItem(NewItem{Name: "", StartingPrice: Money(1), MaxBid: Money(2)}), ErrInvalidInput))
	check.True(t, errors.Is(CheckNewItem(NewItem{Name: "X", StartingPrice: Money(10), MaxBid: Money(5)}), ErrInvalidInput))
	check.True(t, errors.Is(CheckNewItem(NewItem{Name: "X", MaxBid: Money(5)}), ErrInvalidInput))
}
