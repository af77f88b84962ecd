package broker

import (
	"context"

	"invest_bot/internal/models"

	"go.uber.org/zap"
)

const (
	orderDirectionBuy  = "ORDER_DIRECTION_BUY"
	orderDirectionSell = "ORDER_DIRECTION_SELL"
	orderTypeMarket    = "ORDER_TYPE_MARKET"
)

// HasOrderInProgress: есть ли по инструменту хоть одна активная заявка на счёте.
func (c *Client) HasOrderInProgress(ctx context.Context, accountID, figi string) (bool, error) {
	var resp struct {
		Orders []struct {
			OrderID string `json:"orderId"`
			Figi    string `json:"figi"`
		} `json:"orders"`
	}
	if err := c.call(ctx, ordersService, "GetOrders", map[string]string{"accountId": accountID}, &resp); err != nil {
		return false, err
	}
	for _, o := range resp.Orders {
		if o.Figi == figi {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) PostBuyOrder(ctx context.Context, accountID, figi string, lots int64) error {
	return c.postMarketOrder(ctx, accountID, models.OrderIntent{FIGI: figi, Direction: models.DirectionBuy, Lots: lots})
}

func (c *Client) PostSellOrder(ctx context.Context, accountID, figi string, lots int64) error {
	return c.postMarketOrder(ctx, accountID, models.OrderIntent{FIGI: figi, Direction: models.DirectionSell, Lots: lots})
}

type postOrderRequest struct {
	Figi      string `json:"figi"`
	Quantity  apiInt `json:"quantity"`
	Direction string `json:"direction"`
	AccountID string `json:"accountId"`
	OrderType string `json:"orderType"`
	OrderID   string `json:"orderId"`
}

// postMarketOrder: orderId генерируется один раз, ретраи в do() шлют тот же,
// поэтому повтор не создаст вторую заявку.
func (c *Client) postMarketOrder(ctx context.Context, accountID string, intent models.OrderIntent) error {
	if intent.Lots <= 0 {
		return nil
	}

	direction := orderDirectionBuy
	if intent.Direction == models.DirectionSell {
		direction = orderDirectionSell
	}
	req := postOrderRequest{
		Figi:      intent.FIGI,
		Quantity:  apiInt(intent.Lots),
		Direction: direction,
		AccountID: accountID,
		OrderType: orderTypeMarket,
		OrderID:   c.newOrderID(),
	}

	var resp struct {
		OrderID               string `json:"orderId"`
		ExecutionReportStatus string `json:"executionReportStatus"`
	}
	if err := c.call(ctx, ordersService, "PostOrder", req, &resp); err != nil {
		return err
	}

	c.log.Info("order posted",
		zap.String("figi", intent.FIGI),
		zap.String("account", accountID),
		zap.String("direction", string(intent.Direction)),
		zap.Int64("lots", intent.Lots),
		zap.String("order_id", resp.OrderID),
		zap.String("status", resp.ExecutionReportStatus),
	)
	return nil
}
