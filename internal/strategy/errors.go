package strategy

import (
	"fmt"

	"invest_bot/internal/models"
)

// ConfigurationError: параметры стратегии не прошли проверку. Стратегия не создаётся.
type ConfigurationError struct {
	Kind   models.StrategyKind
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("strategy %s: invalid configuration: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("strategy %s: invalid %s: %s", e.Kind, e.Field, e.Reason)
}

type UnsupportedStrategyError struct {
	Kind models.StrategyKind
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("unsupported strategy %q", string(e.Kind))
}
