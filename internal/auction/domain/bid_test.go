package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBid_RejectsNonPositiveAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-10"},
		{"negative cents", "-0.01"},
		{"rounds to zero", "0.004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, ids := range [][2]int64{{0, 0}, {1, 1}, {42, 7}} {
				bid, err := NewBid(ids[0], ids[1], decimal.RequireFromString(tt.amount), placedAt)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				assert.Nil(t, bid)
			}
		})
	}
}

func TestNewBid_AcceptsPositiveAmounts(t *testing.T) {
	bid, err := NewBid(6, 1, decimal.RequireFromString("120.5"), placedAt)
	require.NoError(t, err)

	assert.False(t, bid.HasID())
	assert.Equal(t, int64(6), bid.ProductID)
	assert.Equal(t, int64(1), bid.UserID)
	assert.True(t, decimal.RequireFromString("120.50").Equal(bid.Amount()))
	assert.Equal(t, placedAt, bid.PlacedAt)
}

func TestNewBid_AmountCap(t *testing.T) {
	bid, err := NewBid(6, 1, MaxAmount, placedAt)
	require.NoError(t, err)
	assert.True(t, MaxAmount.Equal(bid.Amount()))

	_, err = NewBid(6, 1, decimal.RequireFromString("10000000000"), placedAt)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = RestoreBid(3, 6, 1, decimal.RequireFromString("10000000000.00"), placedAt)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestParseMoney(t *testing.T) {
	d, err := ParseMoney(" 99.955 ")
	require.NoError(t, err)
	assert.Equal(t, "99.96", d.StringFixed(2))

	d, err = ParseMoney("9999999999.99")
	require.NoError(t, err)
	assert.True(t, MaxAmount.Equal(d))

	_, err = ParseMoney("10000000000")
	assert.ErrorContains(t, err, "exceeds the maximum amount")

	_, err = ParseMoney("abc")
	assert.ErrorContains(t, err, "is not a number")
}

func TestNewBid_RoundsToCents(t *testing.T) {
	bid, err := NewBid(6, 1, decimal.RequireFromString("10.005"), placedAt)
	require.NoError(t, err)
	assert.Equal(t, "10.01", bid.Amount().StringFixed(2))
}

func TestRestoreBid_SameRuleAsNewBid(t *testing.T) {
	_, err := RestoreBid(3, 6, 1, decimal.Zero, placedAt)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	bid, err := RestoreBid(3, 6, 1, decimal.NewFromInt(90), placedAt)
	require.NoError(t, err)
	assert.True(t, bid.HasID())
	assert.Equal(t, int64(3), bid.ID)
}
