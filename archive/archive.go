package archive

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/silentauction/core"
)

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoder: %v", err))
	}
	return mode
}

func money(value decimal.Decimal) string {
	return value.StringFixed(2)
}

// FromResult converts a closed auction into its archive form.
func FromResult(result *core.AuctionResult, currency string) *Archive {
	a := &Archive{
		Version:        FormatVersion,
		Currency:       currency,
		ClosedAtMillis: result.ClosedAt.UnixMilli(),
		LedgerHash:     result.LedgerHash,
		Items:          make([]ItemEntry, 0, len(result.Items)),
		Bids:           make([]BidEntry, 0, len(result.Bids)),
	}
	for _, itemResult := range result.Items {
		item := itemResult.Item
		a.Items = append(a.Items, ItemEntry{
			ID:            item.ID,
			Name:          item.Name,
			Description:   item.Description,
			StartingPrice: money(item.StartingPrice),
			MaxBid:        money(item.MaxBid),
			CurrentBid:    money(item.CurrentBid),
			HighestBidder: item.HighestBidder,
		})
	}
	for _, bid := range result.Bids {
		a.Bids = append(a.Bids, BidEntry{
			ID:              bid.ID.String(),
			ItemID:          bid.ItemID,
			ItemName:        bid.ItemName,
			Bidder:          bid.Bidder,
			Amount:          money(bid.Amount),
			TimestampMillis: bid.Timestamp.UnixMilli(),
		})
	}
	return a
}

// ClosedAt returns the close time of the auction.
func (a *Archive) ClosedAt() time.Time {
	return time.UnixMilli(a.ClosedAtMillis).UTC()
}

// Records decodes the ledger back into bid records.
func (a *Archive) Records() ([]core.BidRecord, error) {
	records := make([]core.BidRecord, 0, len(a.Bids))
	for i, bid := range a.Bids {
		id, err := uuid.Parse(bid.ID)
		if err != nil {
			return nil, fmt.Errorf("bid %d: parse id: %w", i, err)
		}
		amount, err := decimal.NewFromString(bid.Amount)
		if err != nil {
			return nil, fmt.Errorf("bid %d: parse amount: %w", i, err)
		}
		records = append(records, core.BidRecord{
			ID:        id,
			ItemID:    bid.ItemID,
			Bidder:    bid.Bidder,
			Amount:    amount,
			Timestamp: time.UnixMilli(bid.TimestampMillis).UTC(),
		})
	}
	return records, nil
}

// Encode serializes an archive with canonical CBOR.
func Encode(a *Archive) ([]byte, error) {
	data, err := encMode.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode archive: %w", err)
	}
	return data, nil
}

// Decode parses a CBOR archive.
func Decode(data []byte) (*Archive, error) {
	var a Archive
	if err := cbor.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if a.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported archive version %d", a.Version)
	}
	return &a, nil
}

// WriteFile encodes an archive to path.
func WriteFile(path string, a *Archive) error {
	data, err := Encode(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

// ReadFile decodes the archive stored at path.
func ReadFile(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return Decode(data)
}

// FileSink writes one archive file per closed auction into Dir.
type FileSink struct {
	Dir      string
	Currency string

	// Written holds the path of the last archive written.
	Written string
}

// NewFileSink creates dir when needed and returns a sink writing into it.
func NewFileSink(dir, currency string) (*FileSink, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &FileSink{Dir: filepath.Clean(dir), Currency: currency}, nil
}

// FileName returns the archive file name for an auction closed at closedAt.
func FileName(closedAt time.Time) string {
	return fmt.Sprintf("auction-%d.cbor", closedAt.UnixMilli())
}

// AuctionClosed writes the archive of result.
func (s *FileSink) AuctionClosed(ctx context.Context, result *core.AuctionResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, FileName(result.ClosedAt))
	if err := WriteFile(path, FromResult(result, s.Currency)); err != nil {
		return err
	}
	s.Written = path
	log.Printf("INFO: Results archived to %s", path)
	return nil
}
