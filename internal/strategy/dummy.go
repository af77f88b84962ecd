package strategy

import (
	"context"
	"time"

	"invest_bot/internal/models"
)

type DummyConfig struct {
	DurationOfDummyOperations time.Duration `yaml:"duration_of_dummy_operations" json:"duration_of_dummy_operations" validate:"gte=0"`
	ShouldWaitUntilMarketOpen bool          `yaml:"should_wait_until_market_open" json:"should_wait_until_market_open"`
}

func DefaultDummyConfig() DummyConfig {
	return DummyConfig{
		DurationOfDummyOperations: 300 * time.Millisecond,
		ShouldWaitUntilMarketOpen: true,
	}
}

// Dummy ничего не торгует: только делает вид и пишет в лог. Для проверки окружения.
type Dummy struct {
	Base
	cfg DummyConfig
}

func NewDummy(deps Deps, spec models.StrategySpec) (Strategy, error) {
	cfg := DefaultDummyConfig()
	if err := decodeParams(models.StrategyDummy, spec.Params, &cfg); err != nil {
		return nil, err
	}
	spec.Kind = models.StrategyDummy
	return &Dummy{Base: newBase(deps, spec, cfg), cfg: cfg}, nil
}

func (d *Dummy) WaitUntilMarketOpen(ctx context.Context) error {
	if !d.cfg.ShouldWaitUntilMarketOpen {
		return nil
	}
	return d.pretend(ctx, "pretending to wait for the market to open")
}

func (d *Dummy) WaitUntilOrdersSettled(ctx context.Context) error {
	return ctx.Err()
}

func (d *Dummy) UpdateModel(ctx context.Context) error {
	return d.pretend(ctx, "pretending to update model")
}

func (d *Dummy) PostOrders(ctx context.Context) error {
	return d.pretend(ctx, "pretending to post orders")
}

func (d *Dummy) pretend(ctx context.Context, msg string) error {
	d.log.Info(msg)
	return d.timing.Sleep(ctx, d.cfg.DurationOfDummyOperations)
}
