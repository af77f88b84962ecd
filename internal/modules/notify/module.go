package notify

import (
	"context"

	"invest_bot/internal/modules/config"
	health "invest_bot/internal/modules/health/service"
	"invest_bot/internal/notify"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewNotifier: Telegram, если задан токен, иначе сообщения просто уходят в лог.
func NewNotifier(lc fx.Lifecycle, cfg *config.Config, state *health.State, log *zap.Logger) (notify.Notifier, error) {
	if cfg.Telegram.Token == "" {
		log.Info("telegram token is empty, notifications go to log")
		return notify.NewLog(log), nil
	}

	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, log, state.Summary)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return tg.Start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			tg.Stop()
			return nil
		},
	})
	return tg, nil
}

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(NewNotifier),
	)
}
