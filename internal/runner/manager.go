package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"invest_bot/internal/helper"
	"invest_bot/internal/models"
	"invest_bot/internal/notify"
	"invest_bot/internal/strategy"

	"go.uber.org/zap"
)

type instance struct {
	spec     models.StrategySpec
	strategy strategy.Strategy
	restarts int
}

// Manager держит по горутине на стратегию. Паника в одной стратегии
// перезапускает только её, соседние работают дальше.
type Manager struct {
	registry *strategy.Registry
	deps     strategy.Deps
	opts     strategy.RunOptions
	n        notify.Notifier
	log      *zap.Logger

	mu        sync.Mutex
	instances map[string]*instance
	order     []string
	running   map[string]bool
	cancel    context.CancelFunc

	wg sync.WaitGroup
}

func NewManager(registry *strategy.Registry, deps strategy.Deps, opts strategy.RunOptions, n notify.Notifier, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	opts.Logger = log
	if opts.Sleep == nil {
		opts.Sleep = helper.Sleep
	}
	return &Manager{
		registry:  registry,
		deps:      deps,
		opts:      opts,
		n:         n,
		log:       log.Named("runner"),
		instances: make(map[string]*instance),
		running:   make(map[string]bool),
	}
}

// Add собирает стратегию через фабрику. Ошибки параметров всплывают здесь, до первого цикла.
func (m *Manager) Add(spec models.StrategySpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := spec.Key()
	if _, ok := m.instances[key]; ok {
		return fmt.Errorf("strategy %s is configured twice", key)
	}
	s, err := m.registry.Build(m.deps, spec)
	if err != nil {
		return err
	}
	m.instances[key] = &instance{spec: spec, strategy: s}
	m.order = append(m.order, key)
	return nil
}

// Start запускает Run для каждой добавленной стратегии. Повторный вызов ничего не делает.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)

	for _, key := range m.order {
		inst := m.instances[key]
		m.running[key] = true
		m.wg.Add(1)
		go m.supervise(ctx, key, inst)
	}
	m.log.Info("strategies started", zap.Int("count", len(m.order)))
}

// Stop отменяет все стратегии и ждёт их завершения.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.running))
	for k, ok := range m.running {
		if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (m *Manager) Restarts(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst, ok := m.instances[key]; ok {
		return inst.restarts
	}
	return 0
}

func (m *Manager) Describe() []strategy.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]strategy.Descriptor, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.instances[key].strategy.Describe())
	}
	return out
}

func (m *Manager) supervise(ctx context.Context, key string, inst *instance) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		m.running[key] = false
		m.mu.Unlock()
	}()

	log := m.log.With(zap.String("strategy", key))
	for {
		err := m.runOnce(ctx, inst.strategy)
		if ctx.Err() != nil {
			log.Info("strategy stopped")
			return
		}

		m.mu.Lock()
		inst.restarts++
		m.mu.Unlock()

		log.Error("strategy crashed, restarting after cooldown", zap.Error(err))
		if m.n != nil {
			m.n.Sendf("⚠️ strategy %s crashed: %v", key, err)
		}
		if err := m.opts.Sleep(ctx, m.opts.Cooldown); err != nil {
			log.Info("strategy stopped")
			return
		}
	}
}

func (m *Manager) runOnce(ctx context.Context, s strategy.Strategy) (err error) {
	defer func() {
		if p := recover(); p != nil {
			m.log.Error("strategy panic", zap.Any("panic", p), zap.Stack("stack"))
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return strategy.Run(ctx, s, m.opts)
}

// Timing: параметры цикла из конфига; Sleep по умолчанию.
func Timing(marketPoll, settlementPoll, cooldown time.Duration) strategy.Timing {
	t := strategy.DefaultTiming()
	t.MarketPollInterval = marketPoll
	t.SettlementPollInterval = settlementPoll
	t.Cooldown = cooldown
	return t
}
