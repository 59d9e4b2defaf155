package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"quantcore/types"
)

var testInterval = types.OneMinute
var startTime = time.UnixMilli(0)
var endTime = startTime.Add(time.Minute * 5)

type mockCandlesRepository struct {
	sqlError error
	empty    bool
}

func TestDatabase_GetCandles(t *testing.T) {
	type args struct {
		assetId  int
		interval types.Interval
		start    time.Time
		end      time.Time
	}
	tests := []struct {
		name    string
		args    args
		want    []types.Candle
		empty   bool
		sqlErr  error
		wantErr error
	}{
		{"should throw ErrNoCandles on empty result", args{999, testInterval, startTime, endTime}, nil, true, nil, ErrNoCandles},
		{"should throw ErrNoCandles on no rows", args{999, testInterval, startTime, endTime}, nil, false, pgx.ErrNoRows, ErrNoCandles},
		{"should throw ErrIntervalNotSupported", args{999, types.Interval("M"), startTime, endTime}, nil, false, nil, ErrIntervalNotSupported},
		{"should return candles", args{999, testInterval, startTime, endTime}, mockCandles(999, startTime, endTime), false, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{
				candles: mockCandlesRepository{
					sqlError: tt.sqlErr,
					empty:    tt.empty,
				},
			}
			got, err := db.GetCandles(context.Background(), tt.args.assetId, "AAPL", tt.args.interval, tt.args.start, tt.args.end)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetCandles() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetCandles() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("GetCandles() len = %d, want %d", len(got), len(tt.want))
			}
			for i := 0; i < len(tt.want); i++ {
				if got[i].AssetId != tt.args.assetId {
					t.Errorf("GetCandles() %s assetId got = %v, want %v", got[i].Timestamp, got[i].AssetId, tt.want[i].AssetId)
					break
				}
				if got[i].Interval != tt.args.interval {
					t.Errorf("GetCandles() %s interval got = %v, want %v", got[i].Timestamp, got[i].Interval, tt.want[i].Interval)
					break
				}
				if got[i].Ticker != "AAPL" {
					t.Errorf("GetCandles() %s ticker got = %v", got[i].Timestamp, got[i].Ticker)
					break
				}
				if !got[i].High.Equal(tt.want[i].High) {
					t.Errorf("GetCandles() %s high got = %v, want %v", got[i].Timestamp, got[i].High, tt.want[i].High)
					break
				}
			}
		})
	}
}

func (m mockCandlesRepository) GetAggregates(_ context.Context, arg aggregatesParams) ([]aggregateRow, error) {
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	if m.empty {
		return nil, nil
	}
	var candles []aggregateRow
	i := arg.Starttime
	for i.Before(arg.Endtime) {
		candles = append(candles, aggregateRow{
			Bucket:  i,
			AssetID: arg.AssetID,
			Open:    decimal.NewFromInt(i.UnixMilli()),
			High:    decimal.NewFromInt(i.UnixMilli()),
			Low:     decimal.NewFromInt(i.UnixMilli()),
			Close:   decimal.NewFromInt(i.UnixMilli()),
			Volume:  decimal.NewFromInt(i.UnixMilli()),
		})
		i = i.Add(types.IntervalToTime[testInterval])
	}
	return candles, nil
}

func mockCandles(assetId int, start, end time.Time) []types.Candle {
	var candles []types.Candle
	i := start
	for i.Before(end) {
		candles = append(candles, types.Candle{
			Timestamp: i,
			Interval:  testInterval,
			AssetId:   assetId,
			Open:      decimal.NewFromInt(i.UnixMilli()),
			High:      decimal.NewFromInt(i.UnixMilli()),
			Low:       decimal.NewFromInt(i.UnixMilli()),
			Close:     decimal.NewFromInt(i.UnixMilli()),
			Volume:    decimal.NewFromInt(i.UnixMilli()),
		})
		i = i.Add(types.IntervalToTime[testInterval])
	}
	return candles
}
