package strategy

import (
	"context"
	"time"

	"invest_bot/internal/broker"
	"invest_bot/internal/helper"
	"invest_bot/internal/models"

	"go.uber.org/zap"
)

const (
	DefaultMarketPollInterval     = 60 * time.Second
	DefaultSettlementPollInterval = time.Second
	DefaultCooldown               = 10 * time.Second
)

// SleepFunc ждёт d или отмену ctx.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Timing struct {
	MarketPollInterval     time.Duration
	SettlementPollInterval time.Duration
	Cooldown               time.Duration
	Sleep                  SleepFunc
}

func DefaultTiming() Timing {
	return Timing{
		MarketPollInterval:     DefaultMarketPollInterval,
		SettlementPollInterval: DefaultSettlementPollInterval,
		Cooldown:               DefaultCooldown,
		Sleep:                  helper.Sleep,
	}
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.MarketPollInterval <= 0 {
		t.MarketPollInterval = def.MarketPollInterval
	}
	if t.SettlementPollInterval <= 0 {
		t.SettlementPollInterval = def.SettlementPollInterval
	}
	if t.Cooldown < 0 {
		t.Cooldown = 0
	}
	if t.Sleep == nil {
		t.Sleep = def.Sleep
	}
	return t
}

// Deps: то, что фабрика передаёт каждой стратегии.
type Deps struct {
	Broker   broker.Broker
	Logger   *zap.Logger
	Observer Observer
	Timing   Timing
}

// Base: общие для всех стратегий ожидания и доступ к брокеру.
type Base struct {
	desc   Descriptor
	broker broker.Broker
	log    *zap.Logger
	obs    Observer
	timing Timing
}

func newBase(deps Deps, spec models.StrategySpec, cfg any) Base {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	obs := deps.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return Base{
		desc: Descriptor{
			Kind:      spec.Kind,
			FIGI:      spec.FIGI,
			AccountID: spec.AccountID,
			Config:    cfg,
		},
		broker: deps.Broker,
		log: log.Named(string(spec.Kind)).With(
			zap.String("figi", spec.FIGI),
			zap.String("account", spec.AccountID),
		),
		obs:    obs,
		timing: deps.Timing.withDefaults(),
	}
}

func (b *Base) Kind() models.StrategyKind { return b.desc.Kind }
func (b *Base) Describe() Descriptor      { return b.desc }

// WaitUntilMarketOpen опрашивает брокера раз в MarketPollInterval.
func (b *Base) WaitUntilMarketOpen(ctx context.Context) error {
	for {
		open, err := b.broker.IsMarketOpen(ctx, b.desc.FIGI)
		if err != nil {
			return err
		}
		if open {
			return nil
		}
		b.log.Debug("market is closed, waiting", zap.Duration("poll", b.timing.MarketPollInterval))
		if err := b.timing.Sleep(ctx, b.timing.MarketPollInterval); err != nil {
			return err
		}
	}
}

// WaitUntilOrdersSettled держит инвариант: не больше одной заявки в работе на (счёт, инструмент).
func (b *Base) WaitUntilOrdersSettled(ctx context.Context) error {
	for {
		busy, err := b.broker.HasOrderInProgress(ctx, b.desc.AccountID, b.desc.FIGI)
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		b.log.Debug("order in progress, waiting", zap.Duration("poll", b.timing.SettlementPollInterval))
		if err := b.timing.Sleep(ctx, b.timing.SettlementPollInterval); err != nil {
			return err
		}
	}
}

func (b *Base) emit(e Event) {
	b.obs.Observe(e)
}
