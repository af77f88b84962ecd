package models

type StrategyKind string

const (
	StrategyRSI   StrategyKind = "rsi"
	StrategyDummy StrategyKind = "dummy"
)

// StrategySpec: одна запись из конфига/БД: какую стратегию и на чём запускать.
type StrategySpec struct {
	Kind      StrategyKind   `mapstructure:"kind" json:"kind" validate:"required"`
	FIGI      string         `mapstructure:"figi" json:"figi" validate:"required"`
	AccountID string         `mapstructure:"account_id" json:"account_id"` // пусто => аккаунт по умолчанию
	Params    map[string]any `mapstructure:"params" json:"params"`
}

// Key уникален для пары (аккаунт, инструмент).
func (s StrategySpec) Key() string {
	return s.AccountID + ":" + s.FIGI + ":" + string(s.Kind)
}
