package notify

import (
	"testing"

	"invest_bot/internal/models"
	"invest_bot/internal/strategy"
	"invest_bot/mocks"

	"go.uber.org/mock/gomock"
)

func TestOrderObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	o := NewOrderObserver(n)

	n.EXPECT().Sendf(gomock.Any(), "🔴", models.DirectionSell, "F1", int64(2), "acc", 75.5).Times(1)

	o.Observe(strategy.Event{Type: strategy.EventPhase, Phase: strategy.PhaseCooldown})
	o.Observe(strategy.Event{Type: strategy.EventIndicator, Indicator: 75.5})
	o.Observe(strategy.Event{
		Type:      strategy.EventOrder,
		FIGI:      "F1",
		AccountID: "acc",
		Direction: models.DirectionSell,
		Lots:      2,
		Indicator: 75.5,
	})
}
