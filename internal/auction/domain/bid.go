package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bid is one party's sealed offer on one product. The amount is fixed at
// construction; there is no way to change it afterwards.
type Bid struct {
	ID        int64 // zero until persisted
	ProductID int64
	UserID    int64 // bidding party
	PlacedAt  time.Time
	amount    decimal.Decimal
}

// NewBid creates an unpersisted bid, failing with ErrInvalidAmount when amount <= 0.
func NewBid(productID, userID int64, amount decimal.Decimal, placedAt time.Time) (*Bid, error) {
	return RestoreBid(0, productID, userID, amount, placedAt)
}

// RestoreBid rebuilds a stored bid, applying the same amount rule as NewBid.
func RestoreBid(id, productID, userID int64, amount decimal.Decimal, placedAt time.Time) (*Bid, error) {
	normalized, err := validateAmount(amount)
	if err != nil {
		return nil, err
	}
	return &Bid{
		ID:        id,
		ProductID: productID,
		UserID:    userID,
		PlacedAt:  placedAt,
		amount:    normalized,
	}, nil
}

func (b *Bid) Amount() decimal.Decimal {
	return b.amount
}

// HasID reports whether the bid has been assigned an identifier by storage.
func (b *Bid) HasID() bool {
	return b.ID > 0
}

func validateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	normalized := NormalizeAmount(amount)
	if !normalized.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if exceedsMax(normalized) {
		return decimal.Zero, fmt.Errorf("%w: at most %s", ErrInvalidAmount, MaxAmount.StringFixed(MonetaryPrecision))
	}
	return normalized, nil
}
