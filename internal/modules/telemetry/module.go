package telemetry

import (
	"context"
	"net/http"

	"invest_bot/internal/modules/telemetry/service"

	"go.uber.org/fx"
)

// Module поднимает хаб событий и вешает его на /ws общего HTTP-сервера.
func Module() fx.Option {
	return fx.Module("telemetry",
		fx.Provide(service.NewHub),
		fx.Invoke(func(lc fx.Lifecycle, hub *service.Hub, mux *http.ServeMux) {
			mux.Handle("/ws", hub)

			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go hub.Run(ctx)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
