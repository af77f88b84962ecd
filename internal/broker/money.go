package broker

import (
	"bytes"
	"strconv"

	"github.com/shopspring/decimal"
)

// apiInt: int64 из JSON: grpc-gateway отдаёт их строками, но числом тоже принимаем.
type apiInt int64

func (v *apiInt) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*v = apiInt(n)
	return nil
}

func (v apiInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(v), 10))), nil
}

// quotation: units + nano/1e9.
type quotation struct {
	Units apiInt `json:"units"`
	Nano  int32  `json:"nano"`
}

type moneyValue struct {
	Currency string `json:"currency"`
	Units    apiInt `json:"units"`
	Nano     int32  `json:"nano"`
}

var nanoExp = int32(-9)

func (q quotation) Decimal() decimal.Decimal {
	return decimal.New(int64(q.Units), 0).Add(decimal.New(int64(q.Nano), nanoExp))
}

func (q quotation) Float() float64 {
	f, _ := q.Decimal().Float64()
	return f
}

func (m moneyValue) Float() float64 {
	return quotation{Units: m.Units, Nano: m.Nano}.Float()
}

// newMoneyValue раскладывает сумму на units/nano, остаток мельче нано отбрасывается.
func newMoneyValue(amount decimal.Decimal, currency string) moneyValue {
	units := amount.Truncate(0)
	nano := amount.Sub(units).Shift(9).Truncate(0)
	return moneyValue{
		Currency: currency,
		Units:    apiInt(units.IntPart()),
		Nano:     int32(nano.IntPart()),
	}
}
