package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sw33tLie/tagscope/pkg/stock"
)

// DefaultDBTimeout is how long a connection waits on a locked database.
const DefaultDBTimeout = 5 * time.Second

// ErrStockNotFound is returned when a stock is not in the snapshot.
var ErrStockNotFound = errors.New("stock not found")

type DB struct {
	sql *sql.DB
}

func Open(path string, timeout time.Duration) (*DB, error) {
	if timeout <= 0 {
		timeout = DefaultDBTimeout
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, timeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS stocks (
  id                  INTEGER PRIMARY KEY,
  stock_code          TEXT NOT NULL,
  exchange            TEXT NOT NULL,
  stock_name          TEXT NOT NULL DEFAULT '',
  company_name        TEXT NOT NULL DEFAULT '',
  business_scope      TEXT NOT NULL DEFAULT '',
  custom_tags         TEXT NOT NULL DEFAULT '',
  official_website    TEXT NOT NULL DEFAULT '',
  company_description TEXT NOT NULL DEFAULT '',
  underwriting_method TEXT NOT NULL DEFAULT '',
  created_at          TEXT NOT NULL DEFAULT '',
  updated_at          TEXT NOT NULL DEFAULT '',
  sectors_concepts    TEXT NOT NULL DEFAULT '[]',
  run_id              INTEGER NOT NULL DEFAULT 0,
  first_seen_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(stock_code, exchange)
);
CREATE INDEX IF NOT EXISTS idx_stocks_exchange ON stocks(exchange);
CREATE TABLE IF NOT EXISTS tag_changes (
  id           INTEGER PRIMARY KEY,
  occurred_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  stock_code   TEXT NOT NULL,
  exchange     TEXT NOT NULL,
  stock_name   TEXT NOT NULL DEFAULT '',
  old_tags     TEXT,
  new_tags     TEXT,
  change_type  TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_tag_changes_time ON tag_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_tag_changes_stock ON tag_changes(stock_code, exchange, occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// ReplaceStocks makes the snapshot equal to stocks in one transaction.
// Stocks that are new, that changed custom tags, or that disappeared are
// returned as changes. Changes are only logged to tag_changes once the
// snapshot already held data, so the first import does not flood the log.
func (d *DB) ReplaceStocks(ctx context.Context, stocks []stock.Stock) (changes []Change, err error) {
	now := time.Now().UTC()
	runID := now.UnixNano()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT stock_code, exchange, custom_tags FROM stocks")
	if err != nil {
		return nil, err
	}
	existingTags := make(map[string]string)
	for rows.Next() {
		var code, exchange, customTags string
		if err = rows.Scan(&code, &exchange, &customTags); err != nil {
			rows.Close()
			return nil, err
		}
		existingTags[identityKey(code, exchange)] = customTags
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	isFirstRun := len(existingTags) == 0

	for _, s := range stocks {
		if s.Code == "" {
			continue
		}
		key := identityKey(s.Code, s.Exchange)
		var sectors []byte
		if sectors, err = json.Marshal(nonNilStrings(s.SectorsConcepts)); err != nil {
			return nil, err
		}

		oldTags, existed := existingTags[key]
		if !existed {
			_, err = tx.ExecContext(ctx, `INSERT INTO stocks(stock_code, exchange, stock_name, company_name, business_scope, custom_tags, official_website, company_description, underwriting_method, created_at, updated_at, sectors_concepts, run_id) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				s.Code, s.Exchange, s.Name, s.CompanyName, s.BusinessScope, s.CustomTags, s.OfficialWebsite, s.CompanyDescription, s.UnderwritingMethod, s.CreatedAt, s.UpdatedAt, string(sectors), runID)
			if err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, StockCode: s.Code, Exchange: s.Exchange, StockName: s.Name, NewTags: s.CustomTags, ChangeType: ChangeAdded})
			existingTags[key] = s.CustomTags
			continue
		}

		_, err = tx.ExecContext(ctx, `UPDATE stocks SET stock_name = ?, company_name = ?, business_scope = ?, custom_tags = ?, official_website = ?, company_description = ?, underwriting_method = ?, created_at = ?, updated_at = ?, sectors_concepts = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE stock_code = ? AND exchange = ?`,
			s.Name, s.CompanyName, s.BusinessScope, s.CustomTags, s.OfficialWebsite, s.CompanyDescription, s.UnderwritingMethod, s.CreatedAt, s.UpdatedAt, string(sectors), runID, s.Code, s.Exchange)
		if err != nil {
			return nil, err
		}
		if oldTags != s.CustomTags {
			changes = append(changes, Change{OccurredAt: now, StockCode: s.Code, Exchange: s.Exchange, StockName: s.Name, OldTags: oldTags, NewTags: s.CustomTags, ChangeType: ChangeUpdated})
			existingTags[key] = s.CustomTags
		}
	}

	// Sweep: stocks not touched in this run are gone from the collection.
	staleRows, err := tx.QueryContext(ctx, "SELECT stock_code, exchange, stock_name, custom_tags FROM stocks WHERE run_id != ?", runID)
	if err != nil {
		return nil, err
	}
	var removed []Change
	for staleRows.Next() {
		c := Change{OccurredAt: now, ChangeType: ChangeRemoved}
		if err = staleRows.Scan(&c.StockCode, &c.Exchange, &c.StockName, &c.OldTags); err != nil {
			staleRows.Close()
			return nil, err
		}
		removed = append(removed, c)
	}
	if err = staleRows.Close(); err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM stocks WHERE run_id != ?`, runID)
		if err != nil {
			return nil, err
		}
		changes = append(changes, removed...)
	}

	if !isFirstRun {
		for _, c := range changes {
			_, err = tx.ExecContext(ctx, `INSERT INTO tag_changes(occurred_at, stock_code, exchange, stock_name, old_tags, new_tags, change_type) VALUES(?,?,?,?,?,?,?)`,
				c.OccurredAt.Format(sqliteTimeFormat), c.StockCode, c.Exchange, c.StockName, nullIfEmpty(c.OldTags), nullIfEmpty(c.NewTags), c.ChangeType)
			if err != nil {
				return nil, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

const stockColumns = "stock_code, exchange, stock_name, company_name, business_scope, custom_tags, official_website, company_description, underwriting_method, created_at, updated_at, sectors_concepts"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(r rowScanner) (stock.Stock, error) {
	var s stock.Stock
	var sectors string
	if err := r.Scan(&s.Code, &s.Exchange, &s.Name, &s.CompanyName, &s.BusinessScope, &s.CustomTags, &s.OfficialWebsite, &s.CompanyDescription, &s.UnderwritingMethod, &s.CreatedAt, &s.UpdatedAt, &sectors); err != nil {
		return s, err
	}
	if sectors != "" {
		if err := json.Unmarshal([]byte(sectors), &s.SectorsConcepts); err != nil {
			return s, fmt.Errorf("decoding sectors_concepts of %s: %w", s.Code, err)
		}
	}
	return s, nil
}

// ListStocks returns the whole snapshot ordered by code and exchange.
func (d *DB) ListStocks(ctx context.Context) ([]stock.Stock, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+stockColumns+" FROM stocks ORDER BY stock_code, exchange")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []stock.Stock{}
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStock returns a single stock or ErrStockNotFound.
func (d *DB) GetStock(ctx context.Context, code, exchange string) (stock.Stock, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+stockColumns+" FROM stocks WHERE stock_code = ? AND exchange = ?", code, exchange)
	s, err := scanStock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return stock.Stock{}, fmt.Errorf("%w: %s (%s)", ErrStockNotFound, code, exchange)
	}
	return s, err
}

// ListRecentChanges returns the most recent N tag changes.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, stock_code, exchange, stock_name, old_tags, new_tags, change_type FROM tag_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAtStr string
		var oldNS, newNS sql.NullString
		if err := rows.Scan(&occurredAtStr, &c.StockCode, &c.Exchange, &c.StockName, &oldNS, &newNS, &c.ChangeType); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format
		// Try "2006-01-02 15:04:05" then RFC3339
		if t, perr := time.Parse(sqliteTimeFormat, occurredAtStr); perr == nil {
			c.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAtStr); perr2 == nil {
			c.OccurredAt = t2
		}
		c.OldTags = oldNS.String
		c.NewTags = newNS.String
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

type ExchangeStats struct {
	Exchange    string
	StockCount  int
	TaggedCount int
}

func (d *DB) GetStats(ctx context.Context) ([]ExchangeStats, error) {
	query := `
		SELECT
			exchange,
			COUNT(*),
			SUM(CASE WHEN custom_tags != '' THEN 1 ELSE 0 END)
		FROM
			stocks
		GROUP BY
			exchange
		ORDER BY
			exchange;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ExchangeStats
	for rows.Next() {
		var s ExchangeStats
		if err := rows.Scan(&s.Exchange, &s.StockCount, &s.TaggedCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

const sqliteTimeFormat = "2006-01-02 15:04:05"

func identityKey(code, exchange string) string {
	return code + "|" + exchange
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
