package strategy

import (
	"fmt"
	"sort"
	"sync"

	"invest_bot/internal/models"
)

// Constructor создаёт стратегию и валидирует её параметры.
type Constructor func(deps Deps, spec models.StrategySpec) (Strategy, error)

// Registry: kind -> конструктор. Новая стратегия регистрируется, старые не трогаем.
type Registry struct {
	mu           sync.RWMutex
	constructors map[models.StrategyKind]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[models.StrategyKind]Constructor)}
}

// NewDefaultRegistry: rsi и dummy.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(models.StrategyRSI, NewRSI)
	_ = r.Register(models.StrategyDummy, NewDummy)
	return r
}

func (r *Registry) Register(kind models.StrategyKind, c Constructor) error {
	if kind == "" || c == nil {
		return fmt.Errorf("register strategy: empty kind or constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.constructors[kind]; ok {
		return fmt.Errorf("strategy %q is already registered", kind)
	}
	r.constructors[kind] = c
	return nil
}

// Build: UnsupportedStrategyError для неизвестного kind, ConfigurationError для плохих параметров.
func (r *Registry) Build(deps Deps, spec models.StrategySpec) (Strategy, error) {
	r.mu.RLock()
	c, ok := r.constructors[spec.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedStrategyError{Kind: spec.Kind}
	}
	if spec.FIGI == "" {
		return nil, &ConfigurationError{Kind: spec.Kind, Field: "figi", Reason: "is required"}
	}
	return c(deps, spec)
}

func (r *Registry) Kinds() []models.StrategyKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.StrategyKind, 0, len(r.constructors))
	for k := range r.constructors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
