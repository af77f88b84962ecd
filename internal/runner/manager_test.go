package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"invest_bot/internal/models"
	"invest_bot/internal/notify"
	"invest_bot/internal/strategy"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	kindSteady  models.StrategyKind = "steady"
	kindPanicky models.StrategyKind = "panicky"
)

type fakeStrategy struct {
	desc   strategy.Descriptor
	panics bool
	cycles atomic.Int64
}

func (f *fakeStrategy) Kind() models.StrategyKind                   { return f.desc.Kind }
func (f *fakeStrategy) Describe() strategy.Descriptor               { return f.desc }
func (f *fakeStrategy) WaitUntilMarketOpen(context.Context) error    { return nil }
func (f *fakeStrategy) WaitUntilOrdersSettled(context.Context) error { return nil }
func (f *fakeStrategy) UpdateModel(context.Context) error            { return nil }

func (f *fakeStrategy) PostOrders(context.Context) error {
	f.cycles.Add(1)
	if f.panics {
		panic("boom")
	}
	return nil
}

type ManagerTestSuite struct {
	suite.Suite
	built   map[string]*fakeStrategy
	manager *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	s.built = make(map[string]*fakeStrategy)

	registry := strategy.NewRegistry()
	build := func(panics bool) strategy.Constructor {
		return func(_ strategy.Deps, spec models.StrategySpec) (strategy.Strategy, error) {
			f := &fakeStrategy{
				desc:   strategy.Descriptor{Kind: spec.Kind, FIGI: spec.FIGI, AccountID: spec.AccountID},
				panics: panics,
			}
			s.built[spec.Key()] = f
			return f, nil
		}
	}
	s.Require().NoError(registry.Register(kindSteady, build(false)))
	s.Require().NoError(registry.Register(kindPanicky, build(true)))

	opts := strategy.RunOptions{Timing: Timing(time.Millisecond, time.Millisecond, time.Millisecond)}
	s.manager = NewManager(registry, strategy.Deps{}, opts, notify.NewLog(zap.NewNop()), zap.NewNop())
}

func (s *ManagerTestSuite) TestPanicRestartsOnlyThatStrategy() {
	steady := models.StrategySpec{Kind: kindSteady, FIGI: "F1", AccountID: "acc"}
	panicky := models.StrategySpec{Kind: kindPanicky, FIGI: "F2", AccountID: "acc"}
	s.Require().NoError(s.manager.Add(steady))
	s.Require().NoError(s.manager.Add(panicky))

	s.manager.Start(context.Background())
	s.Equal([]string{"acc:F1:steady", "acc:F2:panicky"}, s.manager.Running())

	s.Eventually(func() bool {
		return s.manager.Restarts(panicky.Key()) >= 2 && s.built[steady.Key()].cycles.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	s.Equal(0, s.manager.Restarts(steady.Key()))

	s.manager.Stop()
	s.Empty(s.manager.Running())
}

func (s *ManagerTestSuite) TestParentCancelStops() {
	s.Require().NoError(s.manager.Add(models.StrategySpec{Kind: kindSteady, FIGI: "F1", AccountID: "acc"}))

	ctx, cancel := context.WithCancel(context.Background())
	s.manager.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.manager.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("manager did not stop")
	}
}

func (s *ManagerTestSuite) TestAddErrors() {
	spec := models.StrategySpec{Kind: kindSteady, FIGI: "F1", AccountID: "acc"}
	s.Require().NoError(s.manager.Add(spec))
	s.Error(s.manager.Add(spec))

	var unsupported *strategy.UnsupportedStrategyError
	s.ErrorAs(s.manager.Add(models.StrategySpec{Kind: "macd", FIGI: "F1"}), &unsupported)

	var cfgErr *strategy.ConfigurationError
	s.ErrorAs(s.manager.Add(models.StrategySpec{Kind: kindSteady}), &cfgErr)
}

func (s *ManagerTestSuite) TestDescribe() {
	s.Require().NoError(s.manager.Add(models.StrategySpec{Kind: kindSteady, FIGI: "F1", AccountID: "a"}))
	s.Require().NoError(s.manager.Add(models.StrategySpec{Kind: kindPanicky, FIGI: "F2", AccountID: "a"}))

	d := s.manager.Describe()
	s.Require().Len(d, 2)
	s.Equal("F1", d[0].FIGI)
	s.Equal(kindPanicky, d[1].Kind)
}
