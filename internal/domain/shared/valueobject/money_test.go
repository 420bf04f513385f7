package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyIsValid(t *testing.T) {
	for _, c := range []Currency{USD, CAD, EUR, GBP, AUD} {
		assert.True(t, c.IsValid())
	}
	assert.False(t, Currency("JPY").IsValid())
	assert.False(t, Currency("").IsValid())
}

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), CAD)
		require.NoError(t, err)
		assert.Equal(t, CAD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyUSD(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(50.00))
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", EUR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", EUR)
		assert.Error(t, err)
	})
}

func TestZero(t *testing.T) {
	m := Zero(USD)
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency())
}

func TestMoneyIsNegative(t *testing.T) {
	negative := NewMoneyUSD(decimal.NewFromInt(-100))
	positive := NewMoneyUSD(decimal.NewFromInt(100))

	assert.True(t, negative.IsNegative())
	assert.False(t, positive.IsNegative())
	assert.False(t, Zero(USD).IsNegative())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		m1 := NewMoneyUSD(decimal.NewFromFloat(100.50))
		m2 := NewMoneyUSD(decimal.NewFromFloat(50.25))
		result, err := m1.Add(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(150.75)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoney(decimal.NewFromInt(100), USD)
		m2, _ := NewMoney(decimal.NewFromInt(50), CAD)
		_, err := m1.Add(m2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "different currencies")
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		m1 := NewMoneyUSD(decimal.NewFromFloat(100.50))
		m2 := NewMoneyUSD(decimal.NewFromFloat(50.25))
		result, err := m1.Subtract(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(50.25)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoney(decimal.NewFromInt(100), USD)
		m2, _ := NewMoney(decimal.NewFromInt(50), GBP)
		_, err := m1.Subtract(m2)
		assert.Error(t, err)
	})
}

func TestMoneyMultiply(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromInt(100))
	result := m.Multiply(decimal.NewFromFloat(1.5))
	assert.True(t, result.Amount().Equal(decimal.NewFromInt(150)))
	assert.Equal(t, USD, result.Currency())
}

func TestMoneyRound(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(100.456))
	result := m.Round(2)
	assert.Equal(t, "100.46 USD", result.String())
}

func TestMoneyEquals(t *testing.T) {
	m100 := NewMoneyUSD(decimal.NewFromInt(100))
	m100b := NewMoneyUSD(decimal.NewFromInt(100))
	m50 := NewMoneyUSD(decimal.NewFromInt(50))
	cad, _ := NewMoney(decimal.NewFromInt(100), CAD)

	assert.True(t, m100.Equals(m100b))
	assert.False(t, m100.Equals(m50))
	assert.False(t, m100.Equals(cad))
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(123.45))
	assert.Equal(t, "123.45 USD", m.String())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		m := NewMoneyUSD(decimal.NewFromFloat(99.99))
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Contains(t, string(data), "99.99")
		assert.Contains(t, string(data), "USD")
	})

	t.Run("unmarshal", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"123.45","currency":"EUR"}`), &m)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("unmarshal rejects a bad amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"oops","currency":"USD"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoneyValue(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(123.45))
	val, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "123.45", val)
}

func TestMoneyScan(t *testing.T) {
	t.Run("scan string", func(t *testing.T) {
		var m Money
		err := m.Scan("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scan bytes", func(t *testing.T) {
		var m Money
		err := m.Scan([]byte("99.99"))
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
	})

	t.Run("scan nil", func(t *testing.T) {
		var m Money
		err := m.Scan(nil)
		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("scan invalid type", func(t *testing.T) {
		var m Money
		err := m.Scan(12345)
		assert.Error(t, err)
	})
}
