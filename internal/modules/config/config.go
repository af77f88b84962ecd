package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"invest_bot/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "values_local.yaml"
	configDir         = "configs"
	envPrefix         = "INVEST"
)

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type BrokerConfig struct {
	Token        string        `mapstructure:"token" validate:"required"`
	Sandbox      bool          `mapstructure:"sandbox"`
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	AppName      string        `mapstructure:"app_name"`
	AccountID    string        `mapstructure:"account_id"`
	CallTimeout  time.Duration `mapstructure:"call_timeout" validate:"gt=0"`
	MaxRetries   int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" validate:"gt=0"`
}

type RunnerConfig struct {
	MarketPollInterval     time.Duration `mapstructure:"market_poll_interval" validate:"gt=0"`
	SettlementPollInterval time.Duration `mapstructure:"settlement_poll_interval" validate:"gt=0"`
	Cooldown               time.Duration `mapstructure:"cooldown" validate:"gte=0"`
}

type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type TracingConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type HealthConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type Config struct {
	Log        LogConfig             `mapstructure:"log"`
	Broker     BrokerConfig          `mapstructure:"broker"`
	Runner     RunnerConfig          `mapstructure:"runner"`
	DB         DBConfig              `mapstructure:"db"`
	Telegram   TelegramConfig        `mapstructure:"telegram"`
	Tracing    TracingConfig         `mapstructure:"tracing"`
	Health     HealthConfig          `mapstructure:"health"`
	Strategies []models.StrategySpec `mapstructure:"strategies" validate:"dive"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("broker.sandbox", true)
	v.SetDefault("broker.app_name", "invest_bot")
	v.SetDefault("broker.call_timeout", "15s")
	v.SetDefault("broker.max_retries", 2)
	v.SetDefault("broker.retry_backoff", "300ms")
	v.SetDefault("runner.market_poll_interval", "60s")
	v.SetDefault("runner.settlement_poll_interval", "1s")
	v.SetDefault("runner.cooldown", "10s")
	v.SetDefault("health.addr", ":8080")
}

// старые имена переменных окружения, без префикса
var envAliases = map[string]string{
	"broker.token":      "TOKEN",
	"broker.sandbox":    "SANDBOX",
	"broker.account_id": "ACCOUNT_ID",
	"db.dsn":            "DATABASE_DSN",
	"telegram.token":    "TELEGRAM_TOKEN",
	"telegram.chat_id":  "TELEGRAM_CHAT_ID",
	"tracing.host":      "JAEGER_AGENT_HOST",
	"tracing.port":      "JAEGER_AGENT_PORT",
}

// NewConfig: путь из CONFIG_FILE (относительно configs/), иначе configs/values_local.yaml.
func NewConfig() (*Config, error) {
	name := os.Getenv(configFilePathENV)
	if name == "" {
		name = defaultConfigFile
	}
	return Load(filepath.Join(configDir, name))
}

// Load читает .env (если есть), yaml-файл (если есть) и переменные окружения.
// Окружение важнее файла.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// одиночная стратегия из окружения: FIGI + STRATEGY_NAME
	if len(cfg.Strategies) == 0 {
		if figi := os.Getenv("FIGI"); figi != "" {
			kind := models.StrategyKind(os.Getenv("STRATEGY_NAME"))
			if kind == "" {
				kind = models.StrategyRSI
			}
			cfg.Strategies = append(cfg.Strategies, models.StrategySpec{Kind: kind, FIGI: figi})
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
