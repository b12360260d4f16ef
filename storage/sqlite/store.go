// Package sqlite provides the SQLite-backed mirror of the auction catalog and bid ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/cloudx-io/silentauction/core"
	"github.com/cloudx-io/silentauction/storage/sqlite/migrations"
	"github.com/cloudx-io/silentauction/storage/sqlitemigrate"
)

// ErrAlreadyExists is returned when an item id or bid id is already stored.
var ErrAlreadyExists = errors.New("record already exists")

// Store persists auction state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite auction store and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SeedDefaultsIfEmpty inserts items when the items table is empty and reports whether it did.
func (s *Store) SeedDefaultsIfEmpty(ctx context.Context, items []core.NewItem) (bool, error) {
	seeded := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		if count > 0 {
			return nil
		}
		for _, item := range items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (name, description, starting_price, max_bid) VALUES (?, ?, ?, ?)`,
				item.Name,
				item.Description,
				money(item.StartingPrice),
				money(item.MaxBid),
			); err != nil {
				return fmt.Errorf("seed item %q: %w", item.Name, err)
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}

// LoadAllItems returns every item in creation order.
func (s *Store) LoadAllItems(ctx context.Context) ([]core.Item, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, description, starting_price, max_bid, current_bid, highest_bidder
		 FROM items
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]core.Item, 0)
	for rows.Next() {
		var (
			item                              core.Item
			startingPrice, maxBid, currentBid string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &startingPrice, &maxBid, &currentBid, &item.HighestBidder); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if item.StartingPrice, err = parseMoney(startingPrice); err != nil {
			return nil, fmt.Errorf("item %d starting price: %w", item.ID, err)
		}
		if item.MaxBid, err = parseMoney(maxBid); err != nil {
			return nil, fmt.Errorf("item %d max bid: %w", item.ID, err)
		}
		if item.CurrentBid, err = parseMoney(currentBid); err != nil {
			return nil, fmt.Errorf("item %d current bid: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// LoadAllBidsJoined returns every bid with its item name, in insertion order.
func (s *Store) LoadAllBidsJoined(ctx context.Context) ([]core.JoinedBid, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT b.bid_id, b.item_id, i.name, b.bidder_name, b.bid_amount, b.created_at
		 FROM bids b
		 JOIN items i ON b.item_id = i.id
		 ORDER BY b.seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("query bids: %w", err)
	}
	defer rows.Close()

	bids := make([]core.JoinedBid, 0)
	for rows.Next() {
		var (
			bid             core.JoinedBid
			bidID, amount   string
			createdAtMillis int64
		)
		if err := rows.Scan(&bidID, &bid.ItemID, &bid.ItemName, &bid.Bidder, &amount, &createdAtMillis); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		if bid.ID, err = uuid.Parse(bidID); err != nil {
			return nil, fmt.Errorf("bid id %q: %w", bidID, err)
		}
		if bid.Amount, err = parseMoney(amount); err != nil {
			return nil, fmt.Errorf("bid %s amount: %w", bidID, err)
		}
		bid.Timestamp = fromMillis(createdAtMillis)
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bids: %w", err)
	}
	return bids, nil
}

// InsertItem stores an item under its assigned id.
func (s *Store) InsertItem(ctx context.Context, item core.Item) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return insertItem(ctx, s.sqlDB, item)
}

// UpdateItemBid overwrites the bid state of one item.
func (s *Store) UpdateItemBid(ctx context.Context, itemID int64, amount decimal.Decimal, bidder string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return updateItemBid(ctx, s.sqlDB, itemID, amount, bidder)
}

// InsertBidRecord appends one bid record.
func (s *Store) InsertBidRecord(ctx context.Context, record core.BidRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return insertBidRecord(ctx, s.sqlDB, record)
}

// RecordBid updates the item and appends the record in one transaction.
func (s *Store) RecordBid(ctx context.Context, record core.BidRecord) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := updateItemBid(ctx, tx, record.ItemID, record.Amount, record.Bidder); err != nil {
			return err
		}
		return insertBidRecord(ctx, tx, record)
	})
}

// ClearBids zeroes the bid state of every item and deletes every bid record.
func (s *Store) ClearBids(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE items SET current_bid = '0', highest_bidder = ''`); err != nil {
			return fmt.Errorf("reset item bids: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM bids`); err != nil {
			return fmt.Errorf("delete bids: %w", err)
		}
		return nil
	})
}

// DeleteAllItemsAndBids empties both tables.
func (s *Store) DeleteAllItemsAndBids(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return deleteAll(ctx, tx)
	})
}

// ReplaceCatalog deletes every item and bid and stores items in their place.
func (s *Store) ReplaceCatalog(ctx context.Context, items []core.Item) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteAll(ctx, tx); err != nil {
			return err
		}
		for _, item := range items {
			if err := insertItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, db execer, item core.Item) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (
		   id,
		   name,
		   description,
		   starting_price,
		   max_bid,
		   current_bid,
		   highest_bidder
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.Name,
		item.Description,
		money(item.StartingPrice),
		money(item.MaxBid),
		money(item.CurrentBid),
		item.HighestBidder,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert item %d: %w", item.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("insert item %d: %w", item.ID, err)
	}
	return nil
}

func updateItemBid(ctx context.Context, db execer, itemID int64, amount decimal.Decimal, bidder string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET current_bid = ?, highest_bidder = ? WHERE id = ?`,
		money(amount),
		bidder,
		itemID,
	)
	if err != nil {
		return fmt.Errorf("update item %d bid: %w", itemID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item %d bid: %w", itemID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update item %d bid: %w", itemID, core.ErrItemNotFound)
	}
	return nil
}

func insertBidRecord(ctx context.Context, db execer, record core.BidRecord) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO bids (bid_id, item_id, bidder_name, bid_amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.ItemID,
		record.Bidder,
		money(record.Amount),
		toMillis(record.Timestamp),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert bid %s: %w", record.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("insert bid %s: %w", record.ID, err)
	}
	return nil
}

func deleteAll(ctx context.Context, db execer) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM bids`); err != nil {
		return fmt.Errorf("delete bids: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

func money(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func parseMoney(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return amount, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
