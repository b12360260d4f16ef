package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudx-io/silentauction/core"
)

// Mirror is the durable copy of the catalog and ledger. The controller keeps all state in
// memory and writes through at every mutation; a nil Mirror runs the auction purely in memory.
type Mirror interface {
	// SeedDefaultsIfEmpty inserts the items when storage holds no items and reports whether it did.
	SeedDefaultsIfEmpty(ctx context.Context, items []core.NewItem) (bool, error)
	LoadAllItems(ctx context.Context) ([]core.Item, error)
	LoadAllBidsJoined(ctx context.Context) ([]core.JoinedBid, error)
	InsertItem(ctx context.Context, item core.Item) error
	// RecordBid updates the item's bid state and appends the record atomically.
	RecordBid(ctx context.Context, record core.BidRecord) error
	// ClearBids zeroes every item's bid state and deletes every record.
	ClearBids(ctx context.Context) error
	// ReplaceCatalog deletes every item and record and inserts items.
	ReplaceCatalog(ctx context.Context, items []core.Item) error
}

// ResultsSink receives the auction summary once per transition into the results screen.
type ResultsSink interface {
	AuctionClosed(ctx context.Context, result *core.AuctionResult) error
}

// SummaryPrinter writes the printable summary to an io.Writer.
type SummaryPrinter struct {
	Out      io.Writer
	Currency string
}

// AuctionClosed implements ResultsSink.
func (p *SummaryPrinter) AuctionClosed(_ context.Context, result *core.AuctionResult) error {
	for _, line := range result.Lines(p.Currency) {
		if _, err := fmt.Fprintln(p.Out, line); err != nil {
			return fmt.Errorf("print results: %w", err)
		}
	}
	return nil
}
