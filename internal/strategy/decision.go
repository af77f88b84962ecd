package strategy

import (
	"errors"

	"github.com/moznion/go-optional"
)

var ErrUndefinedIndicator = errors.New("indicator value is undefined")

// Decide сравнивает индикатор с порогами. Условия независимые: при кривых порогах
// (buy > sell) может вернуться и покупка, и продажа, покупка первой.
func Decide(value optional.Option[float64], buyBelow, sellAbove float64) ([]Action, error) {
	if value.IsNone() {
		return nil, ErrUndefinedIndicator
	}
	v := value.Unwrap()

	actions := make([]Action, 0, 2)
	if v < buyBelow {
		actions = append(actions, ActionBuy)
	}
	if v > sellAbove {
		actions = append(actions, ActionSell)
	}
	if len(actions) == 0 {
		actions = append(actions, ActionHold)
	}
	return actions, nil
}
