package controller

import "fmt"

// Mode is the active screen of the auction.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeItemDetail
	ModeAddingItem
	ModeResults
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeItemDetail:
		return "item_detail"
	case ModeAddingItem:
		return "adding_item"
	case ModeResults:
		return "results"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Screen is the controller state. ItemID is only meaningful in ModeItemDetail.
type Screen struct {
	Mode   Mode
	ItemID int64
}

func browsing() Screen {
	return Screen{Mode: ModeBrowsing}
}

func itemDetail(id int64) Screen {
	return Screen{Mode: ModeItemDetail, ItemID: id}
}

// Draft holds the form inputs that survive a rejected submission.
type Draft struct {
	BidderName string
	BidAmount  string

	ItemName        string
	ItemDescription string
	ItemPrice       string
	ItemMaxBid      string
}
