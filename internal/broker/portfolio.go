package broker

import (
	"context"
	"strings"
)

type positionsResponse struct {
	Money      []moneyValue `json:"money"`
	Securities []struct {
		Figi    string `json:"figi"`
		Balance apiInt `json:"balance"`
	} `json:"securities"`
}

func (c *Client) positions(ctx context.Context, accountID string) (positionsResponse, error) {
	var resp positionsResponse
	err := c.call(ctx, operationsService, "GetPositions", map[string]string{"accountId": accountID}, &resp)
	return resp, err
}

// GetAvailableCash: свободные деньги в валюте, без заблокированных.
func (c *Client) GetAvailableCash(ctx context.Context, accountID, currency string) (float64, error) {
	resp, err := c.positions(ctx, accountID)
	if err != nil {
		return 0, err
	}
	for _, m := range resp.Money {
		if strings.EqualFold(m.Currency, currency) {
			return m.Float(), nil
		}
	}
	return 0, nil
}

func (c *Client) GetHeldPositionRaw(ctx context.Context, accountID, figi string) (int64, error) {
	resp, err := c.positions(ctx, accountID)
	if err != nil {
		return 0, err
	}
	for _, s := range resp.Securities {
		if s.Figi == figi {
			return int64(s.Balance), nil
		}
	}
	return 0, nil
}
