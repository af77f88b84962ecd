package postgres

import (
	"context"
	"fmt"

	"invest_bot/internal/modules/config"
	"invest_bot/pkg/db"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewTxManager: без DSN база не нужна, стратегии берутся только из конфига.
func NewTxManager(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*db.PgTxManager, error) {
	if cfg.DB.DSN == "" {
		log.Info("db dsn is empty, postgres is disabled")
		return nil, nil
	}

	ctx := context.Background()
	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN: cfg.DB.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	if err = poolMaster.Ping(ctx); err != nil {
		poolMaster.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	m := db.NewPgTxManager(poolMaster)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			m.Close()
			return nil
		},
	})
	return m, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(NewTxManager),
	)
}
