package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement is the ledger entry written when an auction is finished.
type Settlement struct {
	ID            uuid.UUID
	ProductID     int64
	WinningBidID  int64
	WinnerUserID  int64
	WinningAmount decimal.Decimal
	ClearingPrice decimal.Decimal
	SettledAt     time.Time
}

func NewSettlement(product *Product, outcome *AuctionOutcome, settledAt time.Time) *Settlement {
	return &Settlement{
		ID:            uuid.New(),
		ProductID:     product.ID,
		WinningBidID:  outcome.Winner.ID,
		WinnerUserID:  outcome.Winner.UserID,
		WinningAmount: outcome.Winner.Amount(),
		ClearingPrice: outcome.ClearingPrice,
		SettledAt:     settledAt,
	}
}
