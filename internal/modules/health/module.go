package health

import (
	"context"
	"net"
	"net/http"
	"time"

	"invest_bot/internal/modules/config"
	"invest_bot/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.Health.Addr}
}

func NewMux(state *service.State) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: все стратегии запущены
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"ready":      state.Ready(),
			"uptimeSec":  int64(state.Uptime().Seconds()),
			"strategies": state.Strategies(),
			"lastEventUnix": func() int64 {
				t := state.LastEvent()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		}
		body, err := sonic.Marshal(resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	return mux
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			log.Info("http server started", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Error("http server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
