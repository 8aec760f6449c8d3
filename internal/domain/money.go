package domain

import (
	"bytes"
	"math"
	"strconv"
)

// Money is an amount in minor currency units (paise, cents). On the wire it is
// a decimal number with two fractional digits.
type Money int64

// MaxMoney is the largest amount a NUMERIC(10,2) column holds.
const MaxMoney Money = 99_999_999_99

func NewMoney(amount float64) Money {
	return Money(math.Round(amount * 100))
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

// Share returns rate*m rounded to the nearest minor unit.
func (m Money) Share(rate float64) Money {
	return Money(math.Round(float64(m) * rate))
}

func (m Money) String() string {
	return strconv.FormatFloat(m.Float64(), 'f', 2, 64)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts numbers and numeric strings, as DECIMAL columns are
// often serialised as strings by other clients.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return Validationf("invalid money amount %q", data)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Validationf("money amount must be finite: %s", data)
	}
	if f < 0 {
		return Validationf("money amount must not be negative: %s", data)
	}
	if f > MaxMoney.Float64() {
		return Validationf("money amount exceeds %s: %s", MaxMoney, data)
	}
	*m = NewMoney(f)
	return nil
}
