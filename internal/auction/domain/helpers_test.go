package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 11, 12, 18, 0, 0, 0, time.UTC)

func mustBid(t *testing.T, id, userID int64, amount string) *Bid {
	t.Helper()
	bid, err := RestoreBid(id, 6, userID, decimal.RequireFromString(amount), placedAt)
	require.NoError(t, err)
	return bid
}

func mustProduct(t *testing.T, reserve string) *Product {
	t.Helper()
	product, err := RestoreProduct(6, "Product TEST", decimal.RequireFromString(reserve), StatusAvailable, nil, nil, placedAt, placedAt)
	require.NoError(t, err)
	return product
}
