package strategy

import (
	"context"
	"fmt"

	"invest_bot/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

type RunOptions struct {
	Timing
	Observer Observer
	Logger   *zap.Logger
}

func (o RunOptions) withDefaults() RunOptions {
	o.Timing = o.Timing.withDefaults()
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

type step struct {
	phase Phase
	fn    func(ctx context.Context) error
}

// Run крутит цикл стратегии до отмены ctx и возвращает ctx.Err().
// Ошибка в цикле (брокер, мало свечей) цикл прерывает, но после паузы начинаем сначала.
// Пауза Cooldown выполняется всегда, даже если цикл упал.
func Run(ctx context.Context, s Strategy, opts RunOptions) error {
	opts = opts.withDefaults()
	d := s.Describe()
	log := opts.Logger.With(
		zap.String("strategy", string(d.Kind)),
		zap.String("figi", d.FIGI),
		zap.String("account", d.AccountID),
	)

	steps := []step{
		{phase: PhaseAwaitingMarketOpen, fn: s.WaitUntilMarketOpen},
		{phase: PhaseAwaitingSettlement, fn: s.WaitUntilOrdersSettled},
		{phase: PhaseRefreshingIndicator, fn: s.UpdateModel},
		{phase: PhasePostingOrders, fn: s.PostOrders},
	}

	for {
		if err := runCycle(ctx, d, steps, opts); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("cycle aborted", zap.Error(err))
			ev := newEvent(d, EventError)
			ev.Error = err.Error()
			opts.Observer.Observe(ev)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		enter(d, PhaseCooldown, opts.Observer)
		if err := opts.Sleep(ctx, opts.Cooldown); err != nil {
			return err
		}
	}
}

func runCycle(ctx context.Context, d Descriptor, steps []step, opts RunOptions) (err error) {
	span, ctx := tracing.StartSpan(ctx, "strategy.cycle", opentracing.Tags{
		"strategy": string(d.Kind),
		"figi":     d.FIGI,
	})
	defer func() { tracing.Finish(span, err) }()

	for _, st := range steps {
		// отменили: следующую фазу уже не начинаем
		if err = ctx.Err(); err != nil {
			return err
		}
		enter(d, st.phase, opts.Observer)
		if err = runPhase(ctx, st); err != nil {
			return fmt.Errorf("%s: %w", st.phase, err)
		}
	}
	return nil
}

func runPhase(ctx context.Context, st step) (err error) {
	span, ctx := tracing.StartSpan(ctx, "strategy."+string(st.phase), nil)
	defer func() { tracing.Finish(span, err) }()
	return st.fn(ctx)
}

func enter(d Descriptor, p Phase, obs Observer) {
	ev := newEvent(d, EventPhase)
	ev.Phase = p
	obs.Observe(ev)
}
