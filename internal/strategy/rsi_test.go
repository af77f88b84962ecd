package strategy

import (
	"context"
	"errors"
	"testing"

	"invest_bot/internal/broker"
	"invest_bot/internal/indicator"
	"invest_bot/internal/models"
	"invest_bot/mocks"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RSITestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	broker *mocks.MockBroker
	events []Event
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (s *RSITestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.broker = mocks.NewMockBroker(s.ctrl)
	s.events = nil
}

func (s *RSITestSuite) newRSI(params map[string]any) *RSI {
	if params == nil {
		params = map[string]any{}
	}
	params["interval_length"] = 3
	obs := ObserverFunc(func(e Event) { s.events = append(s.events, e) })
	st, err := NewRSI(
		Deps{Broker: s.broker, Observer: obs},
		models.StrategySpec{Kind: models.StrategyRSI, FIGI: "F1", AccountID: "acc", Params: params},
	)
	s.Require().NoError(err)
	return st.(*RSI)
}

// prices отдаёт свечи: down => все красные (rsi 0), иначе все зелёные (rsi 100).
func (s *RSITestSuite) prices(down bool) {
	opens, closes := []float64{10, 11, 12}, []float64{11, 12, 13}
	if down {
		opens, closes = closes, opens
	}
	s.broker.EXPECT().GetOpenPrices(gomock.Any(), "F1", 3, broker.Interval1Min).Return(opens, nil)
	s.broker.EXPECT().GetClosePrices(gomock.Any(), "F1", 3, broker.Interval1Min).Return(closes, nil)
}

func (s *RSITestSuite) TestBuyAll() {
	st := s.newRSI(nil)
	s.prices(true)
	s.Require().NoError(st.UpdateModel(context.Background()))
	s.InDelta(0.0, st.Value().Unwrap(), 1e-9)

	s.broker.EXPECT().GetLotSize(gomock.Any(), "F1").Return(int64(10), nil)
	s.broker.EXPECT().GetAvailableCash(gomock.Any(), "acc", "rub").Return(1000.0, nil)
	s.broker.EXPECT().GetLastPrice(gomock.Any(), "F1").Return(33.33, nil)
	s.broker.EXPECT().PostBuyOrder(gomock.Any(), "acc", "F1", int64(3)).Return(nil)

	s.Require().NoError(st.PostOrders(context.Background()))
	s.Equal(EventOrder, s.events[len(s.events)-1].Type)
	s.Equal(models.DirectionBuy, s.events[len(s.events)-1].Direction)
}

func (s *RSITestSuite) TestSellAll() {
	st := s.newRSI(nil)
	s.prices(false)
	s.Require().NoError(st.UpdateModel(context.Background()))
	s.Equal(100.0, st.Value().Unwrap())

	s.broker.EXPECT().GetLotSize(gomock.Any(), "F1").Return(int64(10), nil)
	s.broker.EXPECT().GetHeldPositionRaw(gomock.Any(), "acc", "F1").Return(int64(25), nil)
	s.broker.EXPECT().PostSellOrder(gomock.Any(), "acc", "F1", int64(2)).Return(nil)

	s.Require().NoError(st.PostOrders(context.Background()))
}

func (s *RSITestSuite) TestZeroLotsSkipped() {
	st := s.newRSI(nil)
	s.prices(true)
	s.Require().NoError(st.UpdateModel(context.Background()))

	s.broker.EXPECT().GetLotSize(gomock.Any(), "F1").Return(int64(10), nil)
	s.broker.EXPECT().GetAvailableCash(gomock.Any(), "acc", "rub").Return(50.0, nil)
	s.broker.EXPECT().GetLastPrice(gomock.Any(), "F1").Return(10.0, nil)
	// PostBuyOrder не ожидается: gomock упадёт на неожиданном вызове

	s.Require().NoError(st.PostOrders(context.Background()))
	s.Equal(EventSkipped, s.events[len(s.events)-1].Type)
}

func (s *RSITestSuite) TestNoPositionToSell() {
	st := s.newRSI(nil)
	s.prices(false)
	s.Require().NoError(st.UpdateModel(context.Background()))

	s.broker.EXPECT().GetLotSize(gomock.Any(), "F1").Return(int64(1), nil)
	s.broker.EXPECT().GetHeldPositionRaw(gomock.Any(), "acc", "F1").Return(int64(0), nil)

	s.Require().NoError(st.PostOrders(context.Background()))
}

func (s *RSITestSuite) TestBothSignalsFireInOrder() {
	st := s.newRSI(map[string]any{"rsi_buy_threshold": 80, "rsi_sell_threshold": 20})
	// up = [0,1,0], down = [0,0,1] => rsi = 100/3, выше sell и ниже buy
	s.broker.EXPECT().GetOpenPrices(gomock.Any(), "F1", 3, broker.Interval1Min).Return([]float64{10, 10, 11}, nil)
	s.broker.EXPECT().GetClosePrices(gomock.Any(), "F1", 3, broker.Interval1Min).Return([]float64{10, 11, 10}, nil)
	s.Require().NoError(st.UpdateModel(context.Background()))

	gomock.InOrder(
		s.broker.EXPECT().PostBuyOrder(gomock.Any(), "acc", "F1", int64(1)).Return(nil),
		s.broker.EXPECT().PostSellOrder(gomock.Any(), "acc", "F1", int64(4)).Return(nil),
	)
	s.broker.EXPECT().GetLotSize(gomock.Any(), "F1").Return(int64(1), nil).Times(2)
	s.broker.EXPECT().GetAvailableCash(gomock.Any(), "acc", "rub").Return(100.0, nil)
	s.broker.EXPECT().GetLastPrice(gomock.Any(), "F1").Return(100.0, nil)
	s.broker.EXPECT().GetHeldPositionRaw(gomock.Any(), "acc", "F1").Return(int64(4), nil)

	s.Require().NoError(st.PostOrders(context.Background()))
}

func (s *RSITestSuite) TestPostOrdersWithoutValue() {
	st := s.newRSI(nil)
	s.ErrorIs(st.PostOrders(context.Background()), ErrUndefinedIndicator)
}

func (s *RSITestSuite) TestFailedRefreshClearsValue() {
	st := s.newRSI(nil)
	s.prices(true)
	s.Require().NoError(st.UpdateModel(context.Background()))
	s.True(st.Value().IsSome())

	s.broker.EXPECT().GetOpenPrices(gomock.Any(), "F1", 3, broker.Interval1Min).Return([]float64{10}, nil)
	s.broker.EXPECT().GetClosePrices(gomock.Any(), "F1", 3, broker.Interval1Min).Return([]float64{11}, nil)

	err := st.UpdateModel(context.Background())
	var insufficient *indicator.InsufficientDataError
	s.Require().True(errors.As(err, &insufficient))
	s.True(st.Value().IsNone())
	s.ErrorIs(st.PostOrders(context.Background()), ErrUndefinedIndicator)
}

func (s *RSITestSuite) TestBrokerErrorPropagates() {
	st := s.newRSI(nil)
	brokerErr := &broker.CollaboratorError{Op: "MarketDataService/GetCandles", Status: 503}
	s.broker.EXPECT().GetOpenPrices(gomock.Any(), "F1", 3, broker.Interval1Min).Return(nil, brokerErr)

	err := st.UpdateModel(context.Background())
	var ce *broker.CollaboratorError
	s.Require().True(errors.As(err, &ce))
	s.Equal(503, ce.Status)
}
