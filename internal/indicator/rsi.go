package indicator

import (
	"fmt"

	"invest_bot/internal/models"
)

// MinSamples: меньше двух свечей RSI не считаем.
const MinSamples = 2

// InsufficientDataError: данных меньше, чем нужно для расчёта.
type InsufficientDataError struct {
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d samples, got %d", e.Required, e.Actual)
}

// EMA по всему окну: стартуем с первого значения, alpha = 2/(N+1).
func EMA(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, &InsufficientDataError{Required: 1, Actual: 0}
	}
	alpha := 2.0 / (float64(len(xs)) + 1)
	result := xs[0]
	for _, x := range xs[1:] {
		result = (1-alpha)*result + alpha*x
	}
	return result, nil
}

// RSI считает осциллятор [0,100] по телам свечей (close-open), а не по разнице закрытий.
func RSI(samples []models.PriceSample) (float64, error) {
	if len(samples) < MinSamples {
		return 0, &InsufficientDataError{Required: MinSamples, Actual: len(samples)}
	}

	up := make([]float64, len(samples))
	down := make([]float64, len(samples))
	for i, s := range samples {
		up[i] = max(s.Close-s.Open, 0)
		down[i] = max(s.Open-s.Close, 0)
	}

	emaUp, err := EMA(up)
	if err != nil {
		return 0, err
	}
	emaDown, err := EMA(down)
	if err != nil {
		return 0, err
	}

	// rs = +inf => ровно 100
	if emaDown == 0 {
		return 100, nil
	}
	rs := emaUp / emaDown
	return 100 * (1 - 1/(1+rs)), nil
}

// Pair склеивает open/close в сэмплы, выравнивая по самой свежей свече.
// Два отдельных запроса к брокеру могут вернуть разное число свечей.
func Pair(opens, closes []float64) []models.PriceSample {
	n := min(len(opens), len(closes))
	opens = opens[len(opens)-n:]
	closes = closes[len(closes)-n:]

	out := make([]models.PriceSample, n)
	for i := range n {
		out[i] = models.PriceSample{Open: opens[i], Close: closes[i]}
	}
	return out
}
