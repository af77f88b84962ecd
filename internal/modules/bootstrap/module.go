package bootstrap

import (
	tinkoff "invest_bot/internal/broker"
	"invest_bot/internal/modules/bootstrap/service"
	"invest_bot/internal/modules/config"
	"invest_bot/internal/modules/strategy/pg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewWarmuper: без БД стратегии только из конфига.
func NewWarmuper(cfg *config.Config, client *tinkoff.Client, store *pg.Strategies, log *zap.Logger) *service.Warmuper {
	var source service.SpecSource
	if store != nil {
		source = store
	}
	return service.NewWarmuper(client, client, source, cfg.Strategies, cfg.Broker.AccountID, log)
}

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(NewWarmuper), // *service.Warmuper, запускается из runner
	)
}
