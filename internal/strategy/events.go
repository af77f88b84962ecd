package strategy

import (
	"time"

	"invest_bot/internal/models"
)

type Phase string

const (
	PhaseAwaitingMarketOpen  Phase = "awaiting_market_open"
	PhaseAwaitingSettlement  Phase = "awaiting_settlement"
	PhaseRefreshingIndicator Phase = "refreshing_indicator"
	PhasePostingOrders       Phase = "posting_orders"
	PhaseCooldown            Phase = "cooldown"
)

type EventType string

const (
	EventPhase     EventType = "phase"
	EventIndicator EventType = "indicator"
	EventOrder     EventType = "order"
	EventSkipped   EventType = "order_skipped"
	EventError     EventType = "cycle_error"
)

type Event struct {
	Type      EventType           `json:"type"`
	Strategy  string              `json:"strategy"`
	Kind      models.StrategyKind `json:"kind"`
	FIGI      string              `json:"figi"`
	AccountID string              `json:"account_id"`
	Phase     Phase               `json:"phase,omitempty"`
	Indicator float64             `json:"indicator,omitempty"`
	Direction models.Direction    `json:"direction,omitempty"`
	Lots      int64               `json:"lots,omitempty"`
	Error     string              `json:"error,omitempty"`
	Time      time.Time           `json:"time"`
}

// Observer получает события всех стратегий, поэтому должен быть потокобезопасным.
// Observe не должен блокировать цикл.
type Observer interface {
	Observe(e Event)
}

type ObserverFunc func(e Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers раздаёт событие всем по очереди.
type Observers []Observer

func (o Observers) Observe(e Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(e)
		}
	}
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

func newEvent(d Descriptor, t EventType) Event {
	return Event{
		Type:      t,
		Strategy:  d.Key(),
		Kind:      d.Kind,
		FIGI:      d.FIGI,
		AccountID: d.AccountID,
		Time:      time.Now(),
	}
}
