package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Share(t *testing.T) {
	total := NewMoney(10000)
	assert.Equal(t, NewMoney(3000), total.Share(0.30))
	assert.Equal(t, NewMoney(7000), total.Share(0.70))

	odd := NewMoney(999.99)
	assert.Equal(t, Money(30000), odd.Share(0.30))
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: NewMoney(1234.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":1234.50}`, string(data))

	var fromString struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"5000.00"}`), &fromString))
	assert.Equal(t, NewMoney(5000), fromString.Price)

	var max Money
	require.NoError(t, json.Unmarshal([]byte(`99999999.99`), &max))
	assert.Equal(t, MaxMoney, max)

	for _, raw := range []string{`-1`, `"NaN"`, `"Inf"`, `"-Inf"`, `1e300`, `"1e19"`, `100000000.00`, `"abc"`} {
		var m Money
		err := json.Unmarshal([]byte(raw), &m)
		assert.ErrorIs(t, err, ErrValidation, raw)
		assert.Zero(t, m, raw)
	}
}
