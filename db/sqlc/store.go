package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/utils"
	"github.com/shopspring/decimal"
)

// Store provides all functions to execute db queries and transactions.
type Store interface {
	Querier
	TickerPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
	SeedPrices(ctx context.Context, prices map[string]decimal.Decimal) error
}

// SQLStore provides all functions to execute SQL queries and transactions.
type SQLStore struct {
	*Queries
	db *sql.DB
}

// NewStore creates a new store.
func NewStore(db *sql.DB) Store {
	return &SQLStore{
		db:      db,
		Queries: New(db),
	}
}

// execTx executes a function within a database transaction.
func (store *SQLStore) execTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// TickerPrice returns the last stored price of ticker. A ticker that was never seeded
// fails with errs.ErrUnknownTicker.
func (store *SQLStore) TickerPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	ticker = utils.NormalizeTicker(ticker)
	u, err := store.GetUnderlying(ctx, ticker)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, errs.UnknownTicker(ticker, err)
		}
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(u.LastPrice)
}

// SeedPrices upserts every price in one transaction.
func (store *SQLStore) SeedPrices(ctx context.Context, prices map[string]decimal.Decimal) error {
	now := time.Now().UTC()
	return store.execTx(ctx, func(q *Queries) error {
		for ticker, px := range prices {
			_, err := q.UpsertUnderlying(ctx, UpsertUnderlyingParams{
				Ticker:    utils.NormalizeTicker(ticker),
				LastPrice: px.String(),
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
