package broker

import (
	"context"
	"fmt"
	"time"
)

type tradingStatusResponse struct {
	Figi                     string `json:"figi"`
	TradingStatus            string `json:"tradingStatus"`
	MarketOrderAvailableFlag bool   `json:"marketOrderAvailableFlag"`
	APITradeAvailableFlag    bool   `json:"apiTradeAvailableFlag"`
}

// IsMarketOpen: можно ли прямо сейчас выставить рыночную заявку через API.
func (c *Client) IsMarketOpen(ctx context.Context, figi string) (bool, error) {
	var resp tradingStatusResponse
	if err := c.call(ctx, marketDataService, "GetTradingStatus", map[string]string{"figi": figi}, &resp); err != nil {
		return false, err
	}
	return resp.MarketOrderAvailableFlag && resp.APITradeAvailableFlag, nil
}

func (c *Client) GetLastPrice(ctx context.Context, figi string) (float64, error) {
	var resp struct {
		LastPrices []struct {
			Figi  string    `json:"figi"`
			Price quotation `json:"price"`
		} `json:"lastPrices"`
	}
	if err := c.call(ctx, marketDataService, "GetLastPrices", map[string][]string{"figi": {figi}}, &resp); err != nil {
		return 0, err
	}
	for _, p := range resp.LastPrices {
		if p.Figi == figi || p.Figi == "" {
			return p.Price.Float(), nil
		}
	}
	return 0, &CollaboratorError{Op: marketDataService + "/GetLastPrices", Message: fmt.Sprintf("no last price for %s", figi)}
}

type candle struct {
	Open       quotation `json:"open"`
	Close      quotation `json:"close"`
	Time       time.Time `json:"time"`
	IsComplete bool      `json:"isComplete"`
}

// candles: свечи за [now - n*interval, now], не больше n последних.
// В выходные/ночью их может прийти меньше n.
func (c *Client) candles(ctx context.Context, figi string, n int, interval CandleInterval) ([]candle, error) {
	if !interval.Valid() {
		return nil, fmt.Errorf("unsupported candle interval %q", interval)
	}
	if n <= 0 {
		return nil, nil
	}

	to := c.now().UTC()
	from := to.Add(-time.Duration(n) * interval.Duration())
	req := struct {
		Figi     string    `json:"figi"`
		From     time.Time `json:"from"`
		To       time.Time `json:"to"`
		Interval string    `json:"interval"`
	}{Figi: figi, From: from, To: to, Interval: interval.API()}

	var resp struct {
		Candles []candle `json:"candles"`
	}
	if err := c.call(ctx, marketDataService, "GetCandles", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Candles) > n {
		resp.Candles = resp.Candles[len(resp.Candles)-n:]
	}
	return resp.Candles, nil
}

func (c *Client) GetClosePrices(ctx context.Context, figi string, n int, interval CandleInterval) ([]float64, error) {
	cs, err := c.candles(ctx, figi, n, interval)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cs))
	for i, cd := range cs {
		out[i] = cd.Close.Float()
	}
	return out, nil
}

func (c *Client) GetOpenPrices(ctx context.Context, figi string, n int, interval CandleInterval) ([]float64, error) {
	cs, err := c.candles(ctx, figi, n, interval)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cs))
	for i, cd := range cs {
		out[i] = cd.Open.Float()
	}
	return out, nil
}
