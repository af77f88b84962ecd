package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tinkoff "invest_bot/internal/broker"
	"invest_bot/internal/models"
	"invest_bot/internal/modules/bootstrap"
	brokermod "invest_bot/internal/modules/broker"
	"invest_bot/internal/modules/config"
	"invest_bot/internal/modules/health"
	notifymod "invest_bot/internal/modules/notify"
	"invest_bot/internal/modules/postgres"
	strategymod "invest_bot/internal/modules/strategy"
	"invest_bot/internal/modules/strategy/pg"
	"invest_bot/internal/modules/telemetry"
	"invest_bot/internal/runner"
	"invest_bot/pkg/db"
	"invest_bot/pkg/logger"
	"invest_bot/pkg/tracing"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const serviceName = "invest_bot"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  serviceName,
		Usage: "RSI trading bot for Tinkoff Invest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to yaml config (default configs/$CONFIG_FILE or configs/values_local.yaml)",
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run configured strategies until SIGINT/SIGTERM",
				Action: runAction,
			},
			{
				Name:   "accounts",
				Usage:  "list broker accounts",
				Action: accountsAction,
			},
			{
				Name:  "pay-in",
				Usage: "top up a sandbox account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "account", Usage: "account id (default: resolved like in run)"},
					&cli.StringFlag{Name: "amount", Usage: "amount, e.g. 100000.50", Required: true},
					&cli.StringFlag{Name: "currency", Value: "rub"},
				},
				Action: payInAction,
			},
			{
				Name:  "strategy",
				Usage: "manage strategies stored in postgres",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Action: strategyListAction,
					},
					{
						Name:  "add",
						Usage: "add or replace a strategy",
						Flags: append(specFlags(), &cli.StringSliceFlag{
							Name:  "param",
							Usage: "strategy param as key=value, e.g. --param rsi_buy_threshold=25",
						}),
						Action: strategyAddAction,
					},
					{
						Name:   "disable",
						Flags:  specFlags(),
						Action: strategyDisableAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func specFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "kind", Value: string(models.StrategyRSI)},
		&cli.StringFlag{Name: "figi", Required: true},
		&cli.StringFlag{Name: "account"},
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}
	return config.NewConfig()
}

func setup(cmd *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger.SetServiceName(serviceName)
	l, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	tracing.SetServiceName(serviceName)
	_, closeTracer, err := tracing.InitTracer(tracing.Config{Host: cfg.Tracing.Host, Port: cfg.Tracing.Port})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer closeTracer()

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger { return &fxevent.ZapLogger{Logger: l.Named("fx")} }),
		fx.StartTimeout(2*time.Minute),
		fx.Supply(l),
		config.Module(cfg),
		postgres.Module(),
		brokermod.Module(),
		health.Module(),
		telemetry.Module(),
		notifymod.Module(),
		strategymod.Module(),
		bootstrap.Module(),
		runner.Module(),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Done():
		l.Info("signal received", zap.String("signal", sig.String()))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func newClient(cfg *config.Config, l *zap.Logger) *tinkoff.Client {
	return brokermod.NewClient(cfg, l)
}

func accountsAction(ctx context.Context, cmd *cli.Command) error {
	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	accounts, err := newClient(cfg, l).Accounts(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		fmt.Printf("%s\t%s\t%s\t%s\n", a.ID, a.Type, a.Status, a.Name)
	}
	return nil
}

func payInAction(ctx context.Context, cmd *cli.Command) error {
	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(cmd.String("amount"))
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	client := newClient(cfg, l)
	account := cmd.String("account")
	if account == "" {
		if account, err = client.ResolveAccount(ctx, cfg.Broker.AccountID); err != nil {
			return err
		}
	}

	balance, err := client.SandboxPayIn(ctx, account, amount, cmd.String("currency"))
	if err != nil {
		return err
	}
	fmt.Printf("account %s balance: %.2f %s\n", account, balance, cmd.String("currency"))
	return nil
}

// withStore открывает пул только на время команды.
func withStore(ctx context.Context, cmd *cli.Command, fn func(store *pg.Strategies) error) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.DB.DSN == "" {
		return fmt.Errorf("db.dsn is not configured")
	}
	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB.DSN})
	if err != nil {
		return err
	}
	txm := db.NewPgTxManager(pool)
	defer txm.Close()

	store := pg.NewStrategies(txm)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(store)
}

func specFromFlags(cmd *cli.Command) models.StrategySpec {
	return models.StrategySpec{
		Kind:      models.StrategyKind(cmd.String("kind")),
		FIGI:      cmd.String("figi"),
		AccountID: cmd.String("account"),
	}
}

// parseParams: значения разбираются как yaml-скаляры, чтобы "25" стало числом.
func parseParams(raw []string) (map[string]any, error) {
	params := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("param %q: expected key=value", kv)
		}
		var v any
		if err := yaml.Unmarshal([]byte(value), &v); err != nil {
			return nil, fmt.Errorf("param %q: %w", key, err)
		}
		params[key] = v
	}
	return params, nil
}

func strategyListAction(ctx context.Context, cmd *cli.Command) error {
	return withStore(ctx, cmd, func(store *pg.Strategies) error {
		specs, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, s := range specs {
			fmt.Printf("%s\t%v\n", s.Key(), s.Params)
		}
		return nil
	})
}

func strategyAddAction(ctx context.Context, cmd *cli.Command) error {
	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}
	spec := specFromFlags(cmd)
	spec.Params = params

	return withStore(ctx, cmd, func(store *pg.Strategies) error {
		return store.Upsert(ctx, spec)
	})
}

func strategyDisableAction(ctx context.Context, cmd *cli.Command) error {
	return withStore(ctx, cmd, func(store *pg.Strategies) error {
		return store.Disable(ctx, specFromFlags(cmd))
	})
}
