package db

import (
	"context"
)

type Querier interface {
	GetUnderlying(ctx context.Context, ticker string) (Underlying, error)
	ListUnderlyings(ctx context.Context) ([]Underlying, error)
	UpsertUnderlying(ctx context.Context, arg UpsertUnderlyingParams) (Underlying, error)
}

var _ Querier = (*Queries)(nil)
