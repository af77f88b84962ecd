package runner

import (
	"context"
	"fmt"

	"invest_bot/internal/modules/bootstrap/service"
	"invest_bot/internal/modules/config"
	health "invest_bot/internal/modules/health/service"
	"invest_bot/internal/notify"
	"invest_bot/internal/strategy"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewRunOptions(cfg *config.Config, obs strategy.Observer) strategy.RunOptions {
	return strategy.RunOptions{
		Timing:   Timing(cfg.Runner.MarketPollInterval, cfg.Runner.SettlementPollInterval, cfg.Runner.Cooldown),
		Observer: obs,
	}
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewRunOptions, // strategy.RunOptions
			NewManager,    // *Manager
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			m *Manager,
			wu *service.Warmuper,
			state *health.State,
			n notify.Notifier,
			log *zap.Logger,
		) {
			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(startCtx context.Context) error {
					specs, err := wu.Plan(startCtx)
					if err != nil {
						cancel()
						return fmt.Errorf("plan strategies: %w", err)
					}
					for _, spec := range specs {
						if err := m.Add(spec); err != nil {
							cancel()
							return fmt.Errorf("strategy %s: %w", spec.Key(), err)
						}
						log.Info("strategy configured", zap.String("strategy", spec.Key()))
					}

					m.Start(ctx)
					state.SetReady(true)
					n.Sendf("🤖 invest_bot started: %d strateg(ies)", len(specs))
					return nil
				},
				OnStop: func(context.Context) error {
					state.SetReady(false)
					cancel()
					m.Stop()
					return nil
				},
			})
		}),
	)
}
