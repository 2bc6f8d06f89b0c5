package db

import (
	"context"
	"time"
)

const getUnderlying = `-- name: GetUnderlying :one
SELECT ticker, last_price, updated_at FROM underlyings
WHERE ticker = ? LIMIT 1
`

func (q *Queries) GetUnderlying(ctx context.Context, ticker string) (Underlying, error) {
	row := q.db.QueryRowContext(ctx, getUnderlying, ticker)
	var i Underlying
	err := row.Scan(&i.Ticker, &i.LastPrice, &i.UpdatedAt)
	return i, err
}

const listUnderlyings = `-- name: ListUnderlyings :many
SELECT ticker, last_price, updated_at FROM underlyings
ORDER BY ticker
`

func (q *Queries) ListUnderlyings(ctx context.Context) ([]Underlying, error) {
	rows, err := q.db.QueryContext(ctx, listUnderlyings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Underlying{}
	for rows.Next() {
		var i Underlying
		if err := rows.Scan(&i.Ticker, &i.LastPrice, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertUnderlying = `-- name: UpsertUnderlying :one
INSERT INTO underlyings (ticker, last_price, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (ticker) DO UPDATE SET last_price = excluded.last_price, updated_at = excluded.updated_at
RETURNING ticker, last_price, updated_at
`

type UpsertUnderlyingParams struct {
	Ticker    string    `json:"ticker"`
	LastPrice string    `json:"last_price"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) UpsertUnderlying(ctx context.Context, arg UpsertUnderlyingParams) (Underlying, error) {
	row := q.db.QueryRowContext(ctx, upsertUnderlying, arg.Ticker, arg.LastPrice, arg.UpdatedAt)
	var i Underlying
	err := row.Scan(&i.Ticker, &i.LastPrice, &i.UpdatedAt)
	return i, err
}
