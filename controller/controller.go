// Package controller drives the auction: it switches screens, runs bids through the validator,
// commits accepted bids to the item store and the ledger, and closes the auction when the
// clock runs out.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/cloudx-io/silentauction/clock"
	"github.com/cloudx-io/silentauction/core"
	"github.com/cloudx-io/silentauction/ledger"
	"github.com/cloudx-io/silentauction/store"
)

// ErrActionUnavailable is returned for actions the current screen does not offer. Nothing is
// changed when it is returned.
var ErrActionUnavailable = errors.New("action not available on current screen")

// Options configures a Controller.
type Options struct {
	Duration time.Duration
	Currency string

	// Now is the wall clock used for the countdown and bid timestamps. Defaults to time.Now.
	Now func() time.Time

	// Mirror receives every mutation. Nil keeps the auction in memory only.
	Mirror Mirror

	Sinks []ResultsSink
}

// Controller owns all auction state. It is not safe for concurrent use: every call is expected
// to come from the single presentation loop.
type Controller struct {
	items    *store.ItemStore
	ledger   *ledger.Ledger
	clock    *clock.Clock
	now      func() time.Time
	currency string
	mirror   Mirror
	sinks    []ResultsSink

	screen  Screen
	draft   Draft
	message string
	results *core.AuctionResult
}

// New builds a controller in the browsing state. With a mirror, the catalog and ledger are
// restored from storage (seeding the default catalog on first run); without one the default
// catalog is used.
func New(ctx context.Context, opts Options) (*Controller, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Controller{
		ledger:   ledger.New(),
		clock:    clock.New(opts.Duration, now),
		now:      now,
		currency: opts.Currency,
		mirror:   opts.Mirror,
		sinks:    opts.Sinks,
		screen:   browsing(),
	}

	if c.mirror == nil {
		c.items = store.New()
		log.Printf("INFO: Auction started in memory with %d items", c.items.Len())
		return c, nil
	}

	c.items = store.NewEmpty()
	if err := c.restore(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) restore(ctx context.Context) error {
	seeded, err := c.mirror.SeedDefaultsIfEmpty(ctx, core.DefaultCatalog())
	if err != nil {
		return fmt.Errorf("seed default items: %w", err)
	}
	if seeded {
		log.Printf("INFO: Added default items to storage")
	}

	items, err := c.mirror.LoadAllItems(ctx)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	if err := c.items.Load(items); err != nil {
		return err
	}

	joined, err := c.mirror.LoadAllBidsJoined(ctx)
	if err != nil {
		return fmt.Errorf("load bids: %w", err)
	}
	records := make([]core.BidRecord, 0, len(joined))
	for _, bid := range joined {
		records = append(records, bid.BidRecord)
	}
	c.ledger.Restore(records)

	log.Printf("INFO: Restored %d items and %d bids from storage", len(items), len(records))
	return nil
}

// Tick polls the clock and closes the auction once time is up. Expiry is level-triggered, so
// Tick is safe to call every frame.
func (c *Controller) Tick(ctx context.Context) error {
	_, err := c.pollClock(ctx)
	return err
}

// SelectItem opens the detail screen of an item and clears the bid form.
func (c *Controller) SelectItem(ctx context.Context, id int64) error {
	if err := c.guard(ctx, "select item", ModeBrowsing); err != nil {
		return err
	}
	if _, err := c.items.GetItem(id); err != nil {
		return err
	}

	c.screen = itemDetail(id)
	c.draft.BidderName = ""
	c.draft.BidAmount = ""
	c.message = ""
	return nil
}

// GoBack returns to the catalog from the detail or add-item screen.
func (c *Controller) GoBack(ctx context.Context) error {
	if err := c.guard(ctx, "go back", ModeItemDetail, ModeAddingItem); err != nil {
		return err
	}
	c.screen = browsing()
	c.message = ""
	return nil
}

// SubmitBid validates a bid on the selected item and commits it when accepted. Rejections are
// reported through the returned decision and Message; the form keeps its values. The error is
// only set when the action is unavailable or the mirror fails.
func (c *Controller) SubmitBid(ctx context.Context, bidderName, amount string) (core.Decision, error) {
	if err := c.guard(ctx, "submit bid", ModeItemDetail); err != nil {
		return core.Decision{}, err
	}
	c.draft.BidderName = bidderName
	c.draft.BidAmount = amount

	item, err := c.items.GetItem(c.screen.ItemID)
	if err != nil {
		return core.Decision{}, err
	}

	decision := core.ValidateBid(item, amount, bidderName)
	c.message = decision.Message(c.currency)
	if !decision.Accepted {
		return decision, nil
	}

	record := core.NewBidRecord(item.ID, decision.Bidder, decision.Amount, c.now())
	if c.mirror != nil {
		if err := c.mirror.RecordBid(ctx, record); err != nil {
			return decision, fmt.Errorf("record bid on item %d: %w", item.ID, err)
		}
	}
	if err := c.items.ApplyBid(item.ID, decision.Amount, decision.Bidder); err != nil {
		return decision, err
	}
	c.ledger.Append(record)

	log.Printf("INFO: Bid saved: %s bid %s on item %d", decision.Bidder, core.FormatMoney(c.currency, decision.Amount), item.ID)

	c.draft.BidderName = ""
	c.draft.BidAmount = ""
	return decision, nil
}

// NavigateToAddItem opens the add-item form.
func (c *Controller) NavigateToAddItem(ctx context.Context) error {
	if err := c.guard(ctx, "add item", ModeBrowsing); err != nil {
		return err
	}
	c.screen = Screen{Mode: ModeAddingItem}
	c.clearItemDraft()
	c.message = ""
	return nil
}

// AddItem validates the add-item form and appends the item to the catalog. On invalid input
// the message is set, the form is kept and added is false.
func (c *Controller) AddItem(ctx context.Context, name, description, price, maxBid string) (item core.Item, added bool, err error) {
	if err := c.guard(ctx, "add item", ModeAddingItem); err != nil {
		return core.Item{}, false, err
	}
	c.draft.ItemName = name
	c.draft.ItemDescription = description
	c.draft.ItemPrice = price
	c.draft.ItemMaxBid = maxBid

	newItem, err := core.ParseNewItem(name, description, price, maxBid)
	if err == nil {
		item, err = c.items.AddItem(newItem)
	}
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			c.message = err.Error()
			return core.Item{}, false, nil
		}
		return core.Item{}, false, err
	}

	if c.mirror != nil {
		if err := c.mirror.InsertItem(ctx, item); err != nil {
			return item, false, fmt.Errorf("insert item %d: %w", item.ID, err)
		}
	}
	log.Printf("INFO: Added item: %s (ID: %d)", item.Name, item.ID)

	c.screen = browsing()
	c.clearItemDraft()
	c.message = ""
	return item, true, nil
}

// EndAuction closes the auction immediately. Calling it on the results screen does nothing.
func (c *Controller) EndAuction(ctx context.Context) error {
	if _, err := c.pollClock(ctx); err != nil {
		return err
	}
	return c.enterResults(ctx)
}

// ResetAuction clears every bid, empties the ledger, restarts the clock and returns to the
// catalog. A full reset also replaces the catalog with the default items.
func (c *Controller) ResetAuction(ctx context.Context, full bool) error {
	if _, err := c.pollClock(ctx); err != nil {
		return err
	}
	if full {
		items := c.items.ResetToDefaultCatalog()
		if c.mirror != nil {
			if err := c.mirror.ReplaceCatalog(ctx, items); err != nil {
				return fmt.Errorf("replace catalog: %w", err)
			}
		}
	} else {
		if c.mirror != nil {
			if err := c.mirror.ClearBids(ctx); err != nil {
				return fmt.Errorf("clear bids: %w", err)
			}
		}
		c.items.ResetBids()
	}
	c.ledger.Clear()
	c.clock.Reset()

	c.screen = browsing()
	c.draft = Draft{}
	c.message = ""
	c.results = nil

	if full {
		log.Printf("INFO: Auction reset to the %d default items, timer restarted", c.items.Len())
	} else {
		log.Printf("INFO: Auction reset, timer restarted")
	}
	return nil
}

// Screen returns the active screen.
func (c *Controller) Screen() Screen {
	return c.screen
}

// Items returns the catalog in creation order.
func (c *Controller) Items() []core.Item {
	return c.items.ListItems()
}

// SelectedItem returns the item shown on the detail screen.
func (c *Controller) SelectedItem() (core.Item, bool) {
	if c.screen.Mode != ModeItemDetail {
		return core.Item{}, false
	}
	item, err := c.items.GetItem(c.screen.ItemID)
	if err != nil {
		return core.Item{}, false
	}
	return item, true
}

// Draft returns the current form inputs.
func (c *Controller) Draft() Draft {
	return c.draft
}

// Message returns the latest validation or confirmation message.
func (c *Controller) Message() string {
	return c.message
}

// Currency returns the display currency symbol.
func (c *Controller) Currency() string {
	return c.currency
}

// Countdown returns the remaining time split for display.
func (c *Controller) Countdown() (minutes, seconds int, remaining time.Duration) {
	return c.clock.Countdown()
}

// Results returns the summary computed when the auction closed, or nil while it is open.
func (c *Controller) Results() *core.AuctionResult {
	return c.results
}

// Bids returns the ledger joined with item names, oldest first.
func (c *Controller) Bids() []core.JoinedBid {
	return c.ledger.Joined(c.items.ListItems())
}

// guard polls the clock and then checks that the current screen offers the action.
func (c *Controller) guard(ctx context.Context, action string, modes ...Mode) error {
	if _, err := c.pollClock(ctx); err != nil {
		return err
	}
	if !slices.Contains(modes, c.screen.Mode) {
		return fmt.Errorf("%w: %s on %s", ErrActionUnavailable, action, c.screen.Mode)
	}
	return nil
}

func (c *Controller) pollClock(ctx context.Context) (bool, error) {
	if !c.clock.IsExpired() {
		return false, nil
	}
	return true, c.enterResults(ctx)
}

// enterResults moves to the results screen. The summary is computed and handed to the sinks
// only on the transition itself.
func (c *Controller) enterResults(ctx context.Context) error {
	if c.screen.Mode == ModeResults {
		return nil
	}

	c.screen = Screen{Mode: ModeResults}
	c.message = ""
	c.results = core.SummarizeAuction(c.items.ListItems(), c.ledger.ListAll(), c.now())
	log.Printf("INFO: Auction closed with %d bids, %d items won", len(c.results.Bids), len(c.results.Winners()))

	for _, sink := range c.sinks {
		if err := sink.AuctionClosed(ctx, c.results); err != nil {
			return fmt.Errorf("publish results: %w", err)
		}
	}
	return nil
}

func (c *Controller) clearItemDraft() {
	c.draft.ItemName = ""
	c.draft.ItemDescription = ""
	c.draft.ItemPrice = ""
	c.draft.ItemMaxBid = ""
}
