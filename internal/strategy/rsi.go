package strategy

import (
	"context"
	"fmt"

	"invest_bot/internal/broker"
	"invest_bot/internal/indicator"
	"invest_bot/internal/models"
	"invest_bot/internal/sizing"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

type RSIConfig struct {
	BuyThreshold   float64 `yaml:"rsi_buy_threshold" json:"rsi_buy_threshold" validate:"gte=0,lte=100"`
	SellThreshold  float64 `yaml:"rsi_sell_threshold" json:"rsi_sell_threshold" validate:"gte=0,lte=100"`
	IntervalLength int     `yaml:"interval_length" json:"interval_length" validate:"gte=2"`
	CandleInterval string  `yaml:"candle_interval" json:"candle_interval" validate:"candle_interval"`
	Currency       string  `yaml:"currency" json:"currency" validate:"required"`
}

func DefaultRSIConfig() RSIConfig {
	return RSIConfig{
		BuyThreshold:   30,
		SellThreshold:  70,
		IntervalLength: 20,
		CandleInterval: string(broker.Interval1Min),
		Currency:       "rub",
	}
}

// RSI покупает на все деньги ниже BuyThreshold и продаёт всю позицию выше SellThreshold.
type RSI struct {
	Base
	cfg      RSIConfig
	interval broker.CandleInterval

	value optional.Option[float64]
}

func NewRSI(deps Deps, spec models.StrategySpec) (Strategy, error) {
	cfg := DefaultRSIConfig()
	if err := decodeParams(models.StrategyRSI, spec.Params, &cfg); err != nil {
		return nil, err
	}
	interval, err := broker.ParseCandleInterval(cfg.CandleInterval)
	if err != nil {
		return nil, &ConfigurationError{Kind: models.StrategyRSI, Field: "candle_interval", Reason: err.Error()}
	}
	cfg.CandleInterval = string(interval)

	spec.Kind = models.StrategyRSI
	s := &RSI{
		Base:     newBase(deps, spec, cfg),
		cfg:      cfg,
		interval: interval,
		value:    optional.None[float64](),
	}
	if cfg.BuyThreshold > cfg.SellThreshold {
		s.log.Warn("buy threshold is above sell threshold, both orders may fire in one cycle",
			zap.Float64("buy", cfg.BuyThreshold),
			zap.Float64("sell", cfg.SellThreshold),
		)
	}
	return s, nil
}

func (s *RSI) Value() optional.Option[float64] { return s.value }

// UpdateModel перезаписывает значение индикатора. При ошибке значение сбрасывается,
// чтобы PostOrders не торговал по старому.
func (s *RSI) UpdateModel(ctx context.Context) error {
	s.value = optional.None[float64]()

	opens, err := s.broker.GetOpenPrices(ctx, s.desc.FIGI, s.cfg.IntervalLength, s.interval)
	if err != nil {
		return fmt.Errorf("open prices: %w", err)
	}
	closes, err := s.broker.GetClosePrices(ctx, s.desc.FIGI, s.cfg.IntervalLength, s.interval)
	if err != nil {
		return fmt.Errorf("close prices: %w", err)
	}

	v, err := indicator.RSI(indicator.Pair(opens, closes))
	if err != nil {
		return err
	}
	s.value = optional.Some(v)

	s.log.Info("rsi updated", zap.Float64("rsi", v))
	ev := newEvent(s.desc, EventIndicator)
	ev.Indicator = v
	s.emit(ev)
	return nil
}

func (s *RSI) PostOrders(ctx context.Context) error {
	actions, err := Decide(s.value, s.cfg.BuyThreshold, s.cfg.SellThreshold)
	if err != nil {
		return err
	}

	for _, a := range actions {
		switch a {
		case ActionBuy:
			err = s.buyAll(ctx)
		case ActionSell:
			err = s.sellAll(ctx)
		default:
			s.log.Debug("hold", zap.Float64("rsi", s.value.Unwrap()))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *RSI) buyAll(ctx context.Context) error {
	lot, err := s.broker.GetLotSize(ctx, s.desc.FIGI)
	if err != nil {
		return fmt.Errorf("lot size: %w", err)
	}
	cash, err := s.broker.GetAvailableCash(ctx, s.desc.AccountID, s.cfg.Currency)
	if err != nil {
		return fmt.Errorf("available cash: %w", err)
	}
	price, err := s.broker.GetLastPrice(ctx, s.desc.FIGI)
	if err != nil {
		return fmt.Errorf("last price: %w", err)
	}

	lots := sizing.BuyLots(cash, price, lot)
	intent := models.OrderIntent{FIGI: s.desc.FIGI, Direction: models.DirectionBuy, Lots: lots}
	if lots <= 0 {
		s.skip(intent)
		return nil
	}
	if err := s.broker.PostBuyOrder(ctx, s.desc.AccountID, s.desc.FIGI, lots); err != nil {
		return fmt.Errorf("post buy: %w", err)
	}
	s.posted(intent)
	return nil
}

func (s *RSI) sellAll(ctx context.Context) error {
	lot, err := s.broker.GetLotSize(ctx, s.desc.FIGI)
	if err != nil {
		return fmt.Errorf("lot size: %w", err)
	}
	balance, err := s.broker.GetHeldPositionRaw(ctx, s.desc.AccountID, s.desc.FIGI)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}

	lots := sizing.SellLots(balance, lot)
	intent := models.OrderIntent{FIGI: s.desc.FIGI, Direction: models.DirectionSell, Lots: lots}
	if lots <= 0 {
		s.skip(intent)
		return nil
	}
	if err := s.broker.PostSellOrder(ctx, s.desc.AccountID, s.desc.FIGI, lots); err != nil {
		return fmt.Errorf("post sell: %w", err)
	}
	s.posted(intent)
	return nil
}

func (s *RSI) skip(intent models.OrderIntent) {
	s.log.Debug("nothing to trade", zap.String("direction", string(intent.Direction)))
	ev := newEvent(s.desc, EventSkipped)
	ev.Direction = intent.Direction
	s.emit(ev)
}

func (s *RSI) posted(intent models.OrderIntent) {
	s.log.Info("order posted",
		zap.String("direction", string(intent.Direction)),
		zap.Int64("lots", intent.Lots),
		zap.Float64("rsi", s.value.Unwrap()),
	)
	ev := newEvent(s.desc, EventOrder)
	ev.Direction = intent.Direction
	ev.Lots = intent.Lots
	ev.Indicator = s.value.Unwrap()
	s.emit(ev)
}
