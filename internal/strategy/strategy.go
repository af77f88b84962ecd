package strategy

import (
	"context"

	"invest_bot/internal/models"
)

// Action: решение на один цикл.
type Action string

const (
	ActionHold Action = "HOLD"
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Descriptor: кто это и на чём торгует. Config: итоговые параметры после дефолтов.
type Descriptor struct {
	Kind      models.StrategyKind `json:"kind"`
	FIGI      string              `json:"figi"`
	AccountID string              `json:"account_id"`
	Config    any                 `json:"config"`
}

func (d Descriptor) Key() string {
	return models.StrategySpec{Kind: d.Kind, FIGI: d.FIGI, AccountID: d.AccountID}.Key()
}

// Strategy: один экземпляр на пару (счёт, инструмент). Цикл общий, см. Run.
type Strategy interface {
	Kind() models.StrategyKind
	Describe() Descriptor

	WaitUntilMarketOpen(ctx context.Context) error
	WaitUntilOrdersSettled(ctx context.Context) error
	UpdateModel(ctx context.Context) error
	PostOrders(ctx context.Context) error
}
