// Package store keeps the auction catalog and the live bid state of every item.
package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/silentauction/core"
)

// ItemStore owns the catalog. It trusts its callers to have validated bids; bound checking
// belongs to core.ValidateBid.
type ItemStore struct {
	items  []core.Item
	index  map[int64]int
	nextID int64
}

// New returns a store seeded with the default catalog.
func New() *ItemStore {
	s := &ItemStore{index: make(map[int64]int), nextID: 1}
	s.seed(core.DefaultCatalog())
	return s
}

// NewEmpty returns a store with no items.
func NewEmpty() *ItemStore {
	return &ItemStore{index: make(map[int64]int), nextID: 1}
}

// ListItems returns a copy of the catalog in creation order.
func (s *ItemStore) ListItems() []core.Item {
	items := make([]core.Item, len(s.items))
	copy(items, s.items)
	return items
}

// Len returns the number of items in the catalog.
func (s *ItemStore) Len() int {
	return len(s.items)
}

// GetItem returns the item with the given id.
func (s *ItemStore) GetItem(id int64) (core.Item, error) {
	pos, ok := s.index[id]
	if !ok {
		return core.Item{}, fmt.Errorf("get item %d: %w", id, core.ErrItemNotFound)
	}
	return s.items[pos], nil
}

// AddItem validates and appends a new item under the next unused id.
func (s *ItemStore) AddItem(item core.NewItem) (core.Item, error) {
	if err := core.CheckNewItem(item); err != nil {
		return core.Item{}, err
	}
	return s.insert(item), nil
}

// ApplyBid overwrites the current bid and highest bidder of an item.
func (s *ItemStore) ApplyBid(id int64, amount decimal.Decimal, bidder string) error {
	pos, ok := s.index[id]
	if !ok {
		return fmt.Errorf("apply bid to item %d: %w", id, core.ErrItemNotFound)
	}
	s.items[pos].CurrentBid = amount
	s.items[pos].HighestBidder = bidder
	return nil
}

// ResetBids clears the bid state of every item. The ledger is not touched.
func (s *ItemStore) ResetBids() {
	for i := range s.items {
		s.items[i].CurrentBid = decimal.Zero
		s.items[i].HighestBidder = ""
	}
}

// ResetToDefaultCatalog discards every item and reseeds the default catalog. The new items get
// fresh ids; ids handed out earlier in the process are never reused.
func (s *ItemStore) ResetToDefaultCatalog() []core.Item {
	s.items = nil
	s.index = make(map[int64]int)
	s.seed(core.DefaultCatalog())
	return s.ListItems()
}

// Load replaces the catalog with items restored from persistent storage. The id counter
// continues after the largest id seen.
func (s *ItemStore) Load(items []core.Item) error {
	index := make(map[int64]int, len(items))
	loaded := make([]core.Item, 0, len(items))
	for _, item := range items {
		if _, dup := index[item.ID]; dup {
			return fmt.Errorf("load items: duplicate id %d", item.ID)
		}
		if item.HasBid() != (item.HighestBidder != "") {
			return fmt.Errorf("load items: item %d has inconsistent bid state", item.ID)
		}
		index[item.ID] = len(loaded)
		loaded = append(loaded, item)
		if item.ID >= s.nextID {
			s.nextID = item.ID + 1
		}
	}
	s.items = loaded
	s.index = index
	return nil
}

func (s *ItemStore) seed(items []core.NewItem) {
	for _, item := range items {
		s.insert(item)
	}
}

func (s *ItemStore) insert(item core.NewItem) core.Item {
	created := core.Item{
		ID:            s.nextID,
		Name:          item.Name,
		Description:   item.Description,
		StartingPrice: item.StartingPrice,
		MaxBid:        item.MaxBid,
		CurrentBid:    decimal.Zero,
	}
	s.nextID++
	s.index[created.ID] = len(s.items)
	s.items = append(s.items, created)
	return created
}
