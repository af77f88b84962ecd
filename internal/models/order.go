package models

// Direction как в API брокера: BUY/SELL.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// OrderIntent живёт ровно от решения до отправки ордера, нигде не хранится.
type OrderIntent struct {
	FIGI      string
	Direction Direction
	Lots      int64
}

// PriceSample: open/close одной свечи.
type PriceSample struct {
	Open  float64
	Close float64
}
