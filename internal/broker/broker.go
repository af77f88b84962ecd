package broker

import (
	"context"
	"fmt"
	"time"

	"invest_bot/internal/helper"
)

// Broker: всё, что стратегии нужно от брокера.
type Broker interface {
	IsMarketOpen(ctx context.Context, figi string) (bool, error)
	HasOrderInProgress(ctx context.Context, accountID, figi string) (bool, error)

	// PostBuyOrder/PostSellOrder ничего не делают при lots <= 0.
	PostBuyOrder(ctx context.Context, accountID, figi string, lots int64) error
	PostSellOrder(ctx context.Context, accountID, figi string, lots int64) error

	GetLastPrice(ctx context.Context, figi string) (float64, error)
	GetClosePrices(ctx context.Context, figi string, n int, interval CandleInterval) ([]float64, error)
	GetOpenPrices(ctx context.Context, figi string, n int, interval CandleInterval) ([]float64, error)

	// GetAvailableCash возвращает 0, если валюты на счёте нет.
	GetAvailableCash(ctx context.Context, accountID, currency string) (float64, error)
	// GetHeldPositionRaw: баланс в штуках (не в лотах), 0 если позиции нет.
	GetHeldPositionRaw(ctx context.Context, accountID, figi string) (int64, error)
	GetLotSize(ctx context.Context, figi string) (int64, error)
}

type CandleInterval string

const (
	Interval1Min  CandleInterval = "1m"
	Interval5Min  CandleInterval = "5m"
	Interval15Min CandleInterval = "15m"
	Interval1Hour CandleInterval = "1h"
	Interval1Day  CandleInterval = "1d"
)

var intervals = map[CandleInterval]struct {
	api string
	dur time.Duration
}{
	Interval1Min:  {api: "CANDLE_INTERVAL_1_MIN", dur: time.Minute},
	Interval5Min:  {api: "CANDLE_INTERVAL_5_MIN", dur: 5 * time.Minute},
	Interval15Min: {api: "CANDLE_INTERVAL_15_MIN", dur: 15 * time.Minute},
	Interval1Hour: {api: "CANDLE_INTERVAL_HOUR", dur: time.Hour},
	Interval1Day:  {api: "CANDLE_INTERVAL_DAY", dur: 24 * time.Hour},
}

// ParseCandleInterval принимает 1m/5m/15m/1h/1d и их синонимы (60m, day, ...).
func ParseCandleInterval(s string) (CandleInterval, error) {
	iv := CandleInterval(helper.NormInterval(s))
	if _, ok := intervals[iv]; !ok {
		return "", fmt.Errorf("unsupported candle interval %q", s)
	}
	return iv, nil
}

func (i CandleInterval) Duration() time.Duration {
	return intervals[i].dur
}

// API: имя енама в контракте брокера.
func (i CandleInterval) API() string {
	return intervals[i].api
}

func (i CandleInterval) Valid() bool {
	_, ok := intervals[i]
	return ok
}
