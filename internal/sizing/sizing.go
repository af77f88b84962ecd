package sizing

import "math"

// eps гасит ошибки float при делении (30/10 = 2.9999999).
const eps = 1e-9

// BuyLots: сколько лотов можно купить на весь кэш по последней цене.
// Цена берётся в момент решения, исполнение идёт по рынку позже:
// при скачке цены заявка может стоить больше, чем cash. Риск принят.
func BuyLots(cash, lastPrice float64, lotSize int64) int64 {
	if cash <= 0 || lastPrice <= 0 || lotSize <= 0 {
		return 0
	}
	maxShares := cash / lastPrice
	lots := math.Floor(maxShares/float64(lotSize) + eps)
	if lots <= 0 || math.IsInf(lots, 0) || math.IsNaN(lots) {
		return 0
	}
	return int64(lots)
}

// SellLots: вся позиция в лотах. balance в штуках, не в лотах.
func SellLots(balance, lotSize int64) int64 {
	if balance <= 0 || lotSize <= 0 {
		return 0
	}
	return balance / lotSize
}
