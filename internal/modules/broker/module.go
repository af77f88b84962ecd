package broker

import (
	tinkoff "invest_bot/internal/broker"
	"invest_bot/internal/modules/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewClient(cfg *config.Config, log *zap.Logger) *tinkoff.Client {
	c := tinkoff.NewClient(tinkoff.Config{
		Token:        cfg.Broker.Token,
		Sandbox:      cfg.Broker.Sandbox,
		BaseURL:      cfg.Broker.BaseURL,
		AppName:      cfg.Broker.AppName,
		CallTimeout:  cfg.Broker.CallTimeout,
		MaxRetries:   cfg.Broker.MaxRetries,
		RetryBackoff: cfg.Broker.RetryBackoff,
	}, log)
	log.Info("broker client ready", zap.Bool("sandbox", c.Sandbox()))
	return c
}

func Module() fx.Option {
	return fx.Module("broker",
		fx.Provide(
			NewClient, // *tinkoff.Client
			func(c *tinkoff.Client) tinkoff.Broker { return c },
		),
	)
}
