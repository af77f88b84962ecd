package broker

import (
	"context"
	"fmt"
)

// GetLotSize кешируется: лот инструмента не меняется, а спрашиваем его каждый цикл.
func (c *Client) GetLotSize(ctx context.Context, figi string) (int64, error) {
	c.mu.RLock()
	lot, ok := c.lots[figi]
	c.mu.RUnlock()
	if ok {
		return lot, nil
	}

	req := map[string]string{
		"idType": "INSTRUMENT_ID_TYPE_FIGI",
		"id":     figi,
	}
	var resp struct {
		Instrument struct {
			Figi string `json:"figi"`
			Lot  apiInt `json:"lot"`
		} `json:"instrument"`
	}
	if err := c.call(ctx, instrumentsService, "GetInstrumentBy", req, &resp); err != nil {
		return 0, err
	}
	if resp.Instrument.Lot <= 0 {
		return 0, &CollaboratorError{Op: instrumentsService + "/GetInstrumentBy", Message: fmt.Sprintf("instrument %s: lot=%d", figi, resp.Instrument.Lot)}
	}

	c.mu.Lock()
	c.lots[figi] = int64(resp.Instrument.Lot)
	c.mu.Unlock()
	return int64(resp.Instrument.Lot), nil
}
