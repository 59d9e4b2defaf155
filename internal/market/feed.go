package market

import (
	"context"
	"fmt"
	"time"

	"quantcore/types"
)

// Store is the market data collaborator a Feed loads from.
type Store interface {
	GetAssetByTicker(ctx context.Context, ticker string) (*types.Asset, error)
	GetCandles(ctx context.Context, assetId int, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
}

type Feed struct {
	Ticker   string
	Interval types.Interval
	Start    time.Time
	End      time.Time
}

func (f Feed) Load(ctx context.Context, store Store) (Series, error) {
	asset, err := store.GetAssetByTicker(ctx, f.Ticker)
	if err != nil {
		return Series{}, err
	}
	candles, err := store.GetCandles(ctx, asset.Id, asset.Ticker, f.Interval, f.Start, f.End)
	if err != nil {
		return Series{}, fmt.Errorf("load %s %s: %w", f.Ticker, f.Interval, err)
	}
	return FromCandles(candles), nil
}
