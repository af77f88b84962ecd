package notify

import (
	"invest_bot/internal/models"
	"invest_bot/internal/strategy"
)

// OrderObserver шлёт уведомление о каждой отправленной заявке.
type OrderObserver struct {
	n Notifier
}

func NewOrderObserver(n Notifier) *OrderObserver {
	return &OrderObserver{n: n}
}

func (o *OrderObserver) Observe(e strategy.Event) {
	if e.Type != strategy.EventOrder {
		return
	}
	icon := "🟢"
	if e.Direction == models.DirectionSell {
		icon = "🔴"
	}
	o.n.Sendf("%s %s %s: %d lot(s), account %s, rsi=%.2f",
		icon, e.Direction, e.FIGI, e.Lots, e.AccountID, e.Indicator)
}
