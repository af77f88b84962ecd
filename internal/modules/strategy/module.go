package strategy

import (
	"context"

	tinkoff "invest_bot/internal/broker"
	"invest_bot/internal/modules/config"
	health "invest_bot/internal/modules/health/service"
	"invest_bot/internal/modules/strategy/pg"
	telemetry "invest_bot/internal/modules/telemetry/service"
	"invest_bot/internal/notify"
	"invest_bot/internal/runner"
	"invest_bot/internal/strategy"
	"invest_bot/pkg/db"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewObserver: события циклов идут в websocket-хаб, в /healthz и в уведомления о заявках.
func NewObserver(hub *telemetry.Hub, state *health.State, n notify.Notifier) strategy.Observer {
	return strategy.Observers{hub, state, notify.NewOrderObserver(n)}
}

func NewDeps(cfg *config.Config, b tinkoff.Broker, obs strategy.Observer, log *zap.Logger) strategy.Deps {
	return strategy.Deps{
		Broker:   b,
		Logger:   log.Named("strategy"),
		Observer: obs,
		Timing:   runner.Timing(cfg.Runner.MarketPollInterval, cfg.Runner.SettlementPollInterval, cfg.Runner.Cooldown),
	}
}

// NewStore: nil, если postgres выключен.
func NewStore(lc fx.Lifecycle, txm *db.PgTxManager) *pg.Strategies {
	if txm == nil {
		return nil
	}
	store := pg.NewStrategies(txm)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.EnsureSchema(ctx)
		},
	})
	return store
}

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			strategy.NewDefaultRegistry, // *strategy.Registry
			NewObserver,                 // strategy.Observer
			NewDeps,                     // strategy.Deps
			NewStore,                    // *pg.Strategies
		),
	)
}
