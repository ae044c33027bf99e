package values

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  bool
	}{
		{
			name:     "valid INR amount",
			amount:   "1500.00",
			currency: INR,
		},
		{
			name:     "lowercase currency normalized",
			amount:   "100",
			currency: "inr",
		},
		{
			name:     "empty currency",
			amount:   "100",
			currency: "",
			wantErr:  true,
		},
		{
			name:     "unsupported currency",
			amount:   "100",
			currency: "XBT",
			wantErr:  true,
		},
		{
			name:     "malformed amount",
			amount:   "not-a-number",
			currency: INR,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.amount, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, INR, m.Currency())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	base := MustNewMoneyFromInt(100, INR)
	increment := MustNewMoneyFromInt(10, INR)

	sum, err := base.Add(increment)
	require.NoError(t, err)
	assert.Equal(t, "110", sum.Amount().String())

	diff, err := sum.Sub(base)
	require.NoError(t, err)
	assert.True(t, diff.Equal(increment))

	_, err = base.Add(MustNewMoneyFromInt(5, USD))
	assert.Error(t, err, "mixed currencies must not add")
}

func TestMoney_CompareAndMax(t *testing.T) {
	low := MustNewMoneyFromInt(100, INR)
	high := MustNewMoneyFromInt(110, INR)

	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))
	assert.Equal(t, 0, low.Compare(MustNewMoneyFromInt(100, INR)))
	assert.True(t, low.LessThan(high))
	assert.True(t, high.Max(low).Equal(high))
	assert.True(t, low.Max(high).Equal(high))

	assert.Panics(t, func() {
		low.Compare(MustNewMoneyFromInt(100, USD))
	})
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := MustNewMoney(decimal.RequireFromString("350.50"), INR)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"350.5","currency":"INR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equal(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("390.00"))
	assert.Equal(t, INR, m.Currency())
	assert.True(t, m.Equal(MustNewMoneyFromInt(390, INR)))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}
