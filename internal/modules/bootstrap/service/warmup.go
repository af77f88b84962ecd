package service

import (
	"context"
	"fmt"
	"sync"

	"invest_bot/internal/models"

	"go.uber.org/zap"
)

type SpecSource interface {
	List(ctx context.Context) ([]models.StrategySpec, error)
}

type AccountResolver interface {
	ResolveAccount(ctx context.Context, configured string) (string, error)
}

type LotSizer interface {
	GetLotSize(ctx context.Context, figi string) (int64, error)
}

// Warmuper собирает итоговый список стратегий на старте и прогревает кеш лотов.
type Warmuper struct {
	accounts AccountResolver
	lots     LotSizer
	source   SpecSource // nil: без БД

	static         []models.StrategySpec
	defaultAccount string
	log            *zap.Logger

	// ограничитель параллелизма, чтобы не словить rate limit
	sem chan struct{}
}

func NewWarmuper(accounts AccountResolver, lots LotSizer, source SpecSource, static []models.StrategySpec, defaultAccount string, log *zap.Logger) *Warmuper {
	return &Warmuper{
		accounts:       accounts,
		lots:           lots,
		source:         source,
		static:         static,
		defaultAccount: defaultAccount,
		log:            log.Named("bootstrap"),
		sem:            make(chan struct{}, 8), // 8 параллельных запросов
	}
}

// Plan: стратегии из конфига, затем из БД. Пустой account_id заменяется счётом по умолчанию,
// дубликаты (тот же счёт, инструмент и kind) отбрасываются.
func (w *Warmuper) Plan(ctx context.Context) ([]models.StrategySpec, error) {
	specs := append([]models.StrategySpec(nil), w.static...)
	if w.source != nil {
		stored, err := w.source.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("load strategies: %w", err)
		}
		specs = append(specs, stored...)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no strategies configured")
	}

	var account string
	for i := range specs {
		if specs[i].AccountID != "" {
			continue
		}
		if account == "" {
			acc, err := w.accounts.ResolveAccount(ctx, w.defaultAccount)
			if err != nil {
				return nil, err
			}
			account = acc
			w.log.Info("default account resolved", zap.String("account", account))
		}
		specs[i].AccountID = account
	}

	seen := make(map[string]struct{}, len(specs))
	out := specs[:0]
	for _, s := range specs {
		if _, dup := seen[s.Key()]; dup {
			w.log.Warn("duplicate strategy skipped", zap.String("strategy", s.Key()))
			continue
		}
		seen[s.Key()] = struct{}{}
		out = append(out, s)
	}

	w.warmLots(ctx, out)
	return out, nil
}

// warmLots не валит старт: лот всё равно перезапросится в первом цикле.
func (w *Warmuper) warmLots(ctx context.Context, specs []models.StrategySpec) {
	figis := make(map[string]struct{})
	for _, s := range specs {
		if s.Kind == models.StrategyDummy {
			continue
		}
		figis[s.FIGI] = struct{}{}
	}

	var wg sync.WaitGroup
	for figi := range figis {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sem <- struct{}{}
			defer func() { <-w.sem }()

			lot, err := w.lots.GetLotSize(ctx, figi)
			if err != nil {
				w.log.Warn("lot size warmup failed", zap.String("figi", figi), zap.Error(err))
				return
			}
			w.log.Debug("lot size", zap.String("figi", figi), zap.Int64("lot", lot))
		}()
	}
	wg.Wait()
}
